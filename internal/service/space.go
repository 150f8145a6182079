package service

import (
	"Testify/internal/model"
	"Testify/internal/ratelimit"
	"Testify/internal/repo"
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SpaceService инкапсулирует жизненный цикл пространств и отзывов:
// создание, модерацию (публикацию) и публичные выборки.
type SpaceService struct {
	spaces       repo.SpaceRepository
	testimonials repo.TestimonialRepository
	limiter      ratelimit.Limiter
	cache        ReadCache
	cacheTTL     time.Duration
	logger       *zap.SugaredLogger
}

// SpaceOption настраивает SpaceService.
type SpaceOption func(*SpaceService)

// WithReadCache включает кэш стен и списков пространств.
func WithReadCache(c ReadCache, ttl time.Duration) SpaceOption {
	return func(s *SpaceService) {
		if c != nil && ttl > 0 {
			s.cache = c
			s.cacheTTL = ttl
		}
	}
}

func NewSpaceService(
	spaces repo.SpaceRepository,
	testimonials repo.TestimonialRepository,
	limiter ratelimit.Limiter,
	logger *zap.SugaredLogger,
	opts ...SpaceOption,
) *SpaceService {
	s := &SpaceService{
		spaces:       spaces,
		testimonials: testimonials,
		limiter:      limiter,
		cache:        noopCache{},
		logger:       logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SpaceInput — поля пространства, задаваемые владельцем.
type SpaceInput struct {
	Name          string  `json:"name" validate:"required,max=200"`
	CustomMessage string  `json:"customMessage" validate:"required,max=2000"`
	Logo          *string `json:"logo" validate:"omitempty,imageref"`
}

func (in *SpaceInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.CustomMessage = strings.TrimSpace(in.CustomMessage)
	in.Logo = trimPtr(in.Logo)
}

// TestimonialInput — поля отзыва из формы сборщика. Флаг публикации клиент не задаёт.
type TestimonialInput struct {
	SpaceID     string  `json:"spaceId" validate:"required"`
	AuthorName  string  `json:"authorName" validate:"required,max=200"`
	Text        string  `json:"text" validate:"required,max=5000"`
	SocialURL   string  `json:"socialUrl" validate:"omitempty,httpurl"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,imageref"`
	Position    *string `json:"position" validate:"omitempty,max=200"`
	CompanyName *string `json:"companyName" validate:"omitempty,max=200"`
}

func (in *TestimonialInput) normalize() {
	in.SpaceID = strings.TrimSpace(in.SpaceID)
	in.AuthorName = strings.TrimSpace(in.AuthorName)
	in.Text = strings.TrimSpace(in.Text)
	in.SocialURL = strings.TrimSpace(in.SocialURL)
	in.ImageURL = trimPtr(in.ImageURL)
	in.Position = trimPtr(in.Position)
	in.CompanyName = trimPtr(in.CompanyName)
}

// internal логирует сбой хранилища и скрывает его текст от вызывающего.
func (s *SpaceService) internal(op string, err error, kv ...any) error {
	s.logger.Errorw(op+": datastore error", append(kv, "error", err)...)
	return ErrInternal
}

// CreateSpace создаёт пространство владельца ownerID.
func (s *SpaceService) CreateSpace(ctx context.Context, ownerID int64, in SpaceInput) (*model.Space, error) {
	if ownerID == 0 {
		return nil, ErrUnauthenticated
	}
	in.normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	space := &model.Space{
		UserID:        ownerID,
		Name:          in.Name,
		CustomMessage: in.CustomMessage,
		Logo:          in.Logo,
	}
	if err := s.spaces.Create(ctx, space); err != nil {
		return nil, s.internal("CreateSpace", err, "owner_id", ownerID)
	}
	s.cache.Invalidate(ownerID, space.ID)
	s.logger.Infow("space created", "space_id", space.ID, "owner_id", ownerID)
	return space, nil
}

// EditSpace обновляет пространство. Чужое пространство неотличимо от отсутствующего.
func (s *SpaceService) EditSpace(ctx context.Context, ownerID int64, id string, in SpaceInput) (*model.Space, error) {
	if ownerID == 0 {
		return nil, ErrUnauthenticated
	}
	in.normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if _, err := s.ownedSpace(ctx, "EditSpace", ownerID, id); err != nil {
		return nil, err
	}

	n, err := s.spaces.Update(ctx, ownerID, id, map[string]any{
		"name":           in.Name,
		"custom_message": in.CustomMessage,
		"logo":           in.Logo,
	})
	if err != nil {
		return nil, s.internal("EditSpace", err, "space_id", id)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	s.cache.Invalidate(ownerID, id)

	return s.ownedSpace(ctx, "EditSpace", ownerID, id)
}

// DeleteSpace удаляет пространство вместе с отзывами (каскад внешнего ключа).
func (s *SpaceService) DeleteSpace(ctx context.Context, ownerID int64, id string) error {
	if ownerID == 0 {
		return ErrUnauthenticated
	}
	if _, err := s.ownedSpace(ctx, "DeleteSpace", ownerID, id); err != nil {
		return err
	}

	n, err := s.spaces.Delete(ctx, ownerID, id)
	if err != nil {
		return s.internal("DeleteSpace", err, "space_id", id)
	}
	if n == 0 {
		return ErrNotFound
	}
	s.cache.Invalidate(ownerID, id)
	s.logger.Infow("space deleted", "space_id", id, "owner_id", ownerID)
	return nil
}

// ListOwnedSpaces возвращает пространства владельца со всеми отзывами.
func (s *SpaceService) ListOwnedSpaces(ctx context.Context, ownerID int64) ([]model.Space, error) {
	if ownerID == 0 {
		return nil, ErrUnauthenticated
	}
	if cached, ok := s.cache.GetOwnerSpaces(ownerID); ok {
		return cached, nil
	}
	version := s.cache.OwnerVersion(ownerID)

	spaces, err := s.spaces.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.internal("ListOwnedSpaces", err, "owner_id", ownerID)
	}
	s.cache.SetOwnerSpaces(ownerID, spaces, version, s.cacheTTL)
	return spaces, nil
}

// GetSpace возвращает пространство с отзывами. Владелец видит все отзывы,
// остальные (viewerID == 0 или чужой) — только опубликованные.
func (s *SpaceService) GetSpace(ctx context.Context, viewerID int64, id string) (*model.Space, error) {
	space, err := s.spaces.GetWithTestimonials(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.internal("GetSpace", err, "space_id", id)
	}

	if viewerID == 0 || viewerID != space.UserID {
		published := make([]model.Testimonial, 0, len(space.Testimonials))
		for _, t := range space.Testimonials {
			if t.IsPublished {
				published = append(published, t)
			}
		}
		space.Testimonials = published
	}
	return space, nil
}

// CreateTestimonial принимает отзыв от посетителя без аутентификации.
// Порядок: валидация, лимитер, проверка пространства, вставка. Отзыв всегда неопубликован.
func (s *SpaceService) CreateTestimonial(ctx context.Context, clientIP string, in TestimonialInput) (*model.Testimonial, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	if clientIP == "" {
		clientIP = "anonymous"
	}
	res, err := s.limiter.Limit(ctx, ratelimit.KeyPrefixTestimonial+clientIP)
	if err != nil {
		s.logger.Errorw("CreateTestimonial: rate limiter error", "ip", clientIP, "error", err)
		return nil, ErrInternal
	}
	if !res.Success {
		s.logger.Warnw("CreateTestimonial: rate limited", "ip", clientIP, "space_id", in.SpaceID)
		return nil, &RateLimitError{Result: res}
	}

	space, err := s.spaces.GetByID(ctx, in.SpaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.internal("CreateTestimonial", err, "space_id", in.SpaceID)
	}

	t := &model.Testimonial{
		SpaceID:     space.ID,
		AuthorName:  in.AuthorName,
		Text:        in.Text,
		SocialURL:   in.SocialURL,
		ImageURL:    in.ImageURL,
		Position:    in.Position,
		CompanyName: in.CompanyName,
		IsPublished: false,
	}
	if err := s.testimonials.Create(ctx, t); err != nil {
		return nil, s.internal("CreateTestimonial", err, "space_id", space.ID)
	}
	s.cache.Invalidate(space.UserID, space.ID)
	return t, nil
}

// PublishTestimonial публикует отзыв из пространства владельца. Повторная публикация — не ошибка.
func (s *SpaceService) PublishTestimonial(ctx context.Context, ownerID int64, id string) (*model.Testimonial, error) {
	if ownerID == 0 {
		return nil, ErrUnauthenticated
	}

	t, err := s.testimonials.GetOwned(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.internal("PublishTestimonial", err, "testimonial_id", id)
	}
	if t.IsPublished {
		return t, nil
	}

	n, err := s.testimonials.SetPublished(ctx, id)
	if err != nil {
		return nil, s.internal("PublishTestimonial", err, "testimonial_id", id)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	s.cache.Invalidate(ownerID, t.SpaceID)
	s.logger.Infow("testimonial published", "testimonial_id", id, "space_id", t.SpaceID)

	updated, err := s.testimonials.GetOwned(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.internal("PublishTestimonial", err, "testimonial_id", id)
	}
	return updated, nil
}

// GetWall возвращает опубликованные отзывы пространства, новые сверху.
// Пространство без опубликованных отзывов даёт пустой список, а не ошибку.
func (s *SpaceService) GetWall(ctx context.Context, spaceID string) (*model.Wall, error) {
	if cached, ok := s.cache.GetWall(spaceID); ok {
		return cached, nil
	}
	version := s.cache.WallVersion(spaceID)

	space, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.internal("GetWall", err, "space_id", spaceID)
	}

	testimonials, err := s.testimonials.ListPublished(ctx, spaceID)
	if err != nil {
		return nil, s.internal("GetWall", err, "space_id", spaceID)
	}

	wall := &model.Wall{
		SpaceID:      space.ID,
		Name:         space.Name,
		Logo:         space.Logo,
		Testimonials: testimonials,
	}
	s.cache.SetWall(space.UserID, wall, version, s.cacheTTL)
	return wall, nil
}

// GetCollectorConfig отдаёт только публичные поля пространства.
func (s *SpaceService) GetCollectorConfig(ctx context.Context, spaceID string) (*model.CollectorConfig, error) {
	space, err := s.spaces.GetByID(ctx, spaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.internal("GetCollectorConfig", err, "space_id", spaceID)
	}
	return &model.CollectorConfig{
		Name:          space.Name,
		Logo:          space.Logo,
		CustomMessage: space.CustomMessage,
	}, nil
}

// ListPublished — тот же запрос, что и у стены, для публичного REST.
// Неизвестное пространство даёт пустой список.
func (s *SpaceService) ListPublished(ctx context.Context, spaceID string) ([]model.Testimonial, error) {
	spaceID = strings.TrimSpace(spaceID)
	if spaceID == "" {
		return nil, &ValidationError{Field: "spaceId", Message: "is required"}
	}
	testimonials, err := s.testimonials.ListPublished(ctx, spaceID)
	if err != nil {
		return nil, s.internal("ListPublished", err, "space_id", spaceID)
	}
	return testimonials, nil
}

// ForgetOwner сбрасывает кэш владельца, например после удаления аккаунта.
func (s *SpaceService) ForgetOwner(ownerID int64) {
	s.cache.Invalidate(ownerID, "")
}

func (s *SpaceService) ownedSpace(ctx context.Context, op string, ownerID int64, id string) (*model.Space, error) {
	space, err := s.spaces.GetOwned(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.internal(op, err, "space_id", id)
	}
	return space, nil
}
