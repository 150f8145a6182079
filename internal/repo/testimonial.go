package repo

import (
	"Testify/internal/model"
	"context"

	"gorm.io/gorm"
)

// TestimonialRepository — доступ к отзывам.
type TestimonialRepository interface {
	Create(ctx context.Context, t *model.Testimonial) error
	// GetOwned ищет отзыв, пространство которого принадлежит ownerID.
	// Чужой отзыв неотличим от отсутствующего: gorm.ErrRecordNotFound.
	GetOwned(ctx context.Context, ownerID int64, id string) (*model.Testimonial, error)
	// SetPublished выставляет is_published = true.
	SetPublished(ctx context.Context, id string) (int64, error)
	// ListPublished — общий запрос стены и публичного REST: только опубликованные, новые сверху.
	ListPublished(ctx context.Context, spaceID string) ([]model.Testimonial, error)
}

type testimonialRepo struct {
	db *gorm.DB
}

func NewTestimonialRepository(db *gorm.DB) TestimonialRepository {
	return &testimonialRepo{db: db}
}

func (r *testimonialRepo) Create(ctx context.Context, t *model.Testimonial) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *testimonialRepo) GetOwned(ctx context.Context, ownerID int64, id string) (*model.Testimonial, error) {
	if !isID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	owned := r.db.Model(&model.Space{}).Select("id").Where("user_id = ?", ownerID)

	var t model.Testimonial
	err := r.db.WithContext(ctx).
		Where("id = ? AND space_id IN (?)", id, owned).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *testimonialRepo) SetPublished(ctx context.Context, id string) (int64, error) {
	if !isID(id) {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).
		Model(&model.Testimonial{}).
		Where("id = ?", id).
		Update("is_published", true)
	return tx.RowsAffected, tx.Error
}

func (r *testimonialRepo) ListPublished(ctx context.Context, spaceID string) ([]model.Testimonial, error) {
	testimonials := make([]model.Testimonial, 0)
	if !isID(spaceID) {
		return testimonials, nil
	}
	err := r.db.WithContext(ctx).
		Where("space_id = ? AND is_published = ?", spaceID, true).
		Scopes(newestFirst).
		Find(&testimonials).Error
	if err != nil {
		return nil, err
	}
	return testimonials, nil
}
