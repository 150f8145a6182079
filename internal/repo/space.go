package repo

import (
	"Testify/internal/model"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SpaceRepository — доступ к пространствам. Методы с ownerID ограничивают выборку владельцем.
type SpaceRepository interface {
	Create(ctx context.Context, s *model.Space) error
	// GetByID возвращает пространство без отзывов либо gorm.ErrRecordNotFound.
	GetByID(ctx context.Context, id string) (*model.Space, error)
	// GetOwned ищет пространство по id и владельцу.
	GetOwned(ctx context.Context, ownerID int64, id string) (*model.Space, error)
	// GetWithTestimonials подгружает все отзывы пространства, новые сверху.
	GetWithTestimonials(ctx context.Context, id string) (*model.Space, error)
	// ListByOwner возвращает пространства владельца вместе с отзывами.
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Space, error)
	// Update применяет изменения к пространству владельца, возвращает число затронутых строк.
	Update(ctx context.Context, ownerID int64, id string, updates map[string]any) (int64, error)
	// Delete удаляет пространство владельца; отзывы удаляются каскадом.
	Delete(ctx context.Context, ownerID int64, id string) (int64, error)
}

type spaceRepo struct {
	db *gorm.DB
}

func NewSpaceRepository(db *gorm.DB) SpaceRepository {
	return &spaceRepo{db: db}
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

// isID отсекает строки, не являющиеся UUID: в Postgres сравнение с колонкой uuid
// для них завершается ошибкой, а снаружи это просто отсутствующая запись.
func isID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *spaceRepo) Create(ctx context.Context, s *model.Space) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *spaceRepo) GetByID(ctx context.Context, id string) (*model.Space, error) {
	if !isID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var s model.Space
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *spaceRepo) GetOwned(ctx context.Context, ownerID int64, id string) (*model.Space, error) {
	if !isID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var s model.Space
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *spaceRepo) GetWithTestimonials(ctx context.Context, id string) (*model.Space, error) {
	if !isID(id) {
		return nil, gorm.ErrRecordNotFound
	}
	var s model.Space
	err := r.db.WithContext(ctx).
		Preload("Testimonials", newestFirst).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *spaceRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Space, error) {
	var spaces []model.Space
	err := r.db.WithContext(ctx).
		Preload("Testimonials", newestFirst).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&spaces).Error
	if err != nil {
		return nil, err
	}
	return spaces, nil
}

func (r *spaceRepo) Update(ctx context.Context, ownerID int64, id string, updates map[string]any) (int64, error) {
	if !isID(id) {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).
		Model(&model.Space{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(updates)
	return tx.RowsAffected, tx.Error
}

func (r *spaceRepo) Delete(ctx context.Context, ownerID int64, id string) (int64, error) {
	if !isID(id) {
		return 0, nil
	}
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&model.Space{})
	return tx.RowsAffected, tx.Error
}
