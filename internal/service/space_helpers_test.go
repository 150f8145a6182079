package service

import (
	"Testify/internal/model"
	"Testify/internal/ratelimit"
	"Testify/internal/repo"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Моки для SpaceRepository, TestimonialRepository и Limiter
type mockSpaceRepo struct{ mock.Mock }

func (m *mockSpaceRepo) Create(ctx context.Context, s *model.Space) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSpaceRepo) GetByID(ctx context.Context, id string) (*model.Space, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Space); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSpaceRepo) GetOwned(ctx context.Context, ownerID int64, id string) (*model.Space, error) {
	args := m.Called(ctx, ownerID, id)
	if v, ok := args.Get(0).(*model.Space); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSpaceRepo) GetWithTestimonials(ctx context.Context, id string) (*model.Space, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Space); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSpaceRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Space, error) {
	args := m.Called(ctx, ownerID)
	if v, ok := args.Get(0).([]model.Space); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSpaceRepo) Update(ctx context.Context, ownerID int64, id string, updates map[string]any) (int64, error) {
	args := m.Called(ctx, ownerID, id, updates)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockSpaceRepo) Delete(ctx context.Context, ownerID int64, id string) (int64, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.SpaceRepository = (*mockSpaceRepo)(nil)

type mockTestimonialRepo struct{ mock.Mock }

func (m *mockTestimonialRepo) Create(ctx context.Context, t *model.Testimonial) error {
	return m.Called(ctx, t).Error(0)
}
func (m *mockTestimonialRepo) GetOwned(ctx context.Context, ownerID int64, id string) (*model.Testimonial, error) {
	args := m.Called(ctx, ownerID, id)
	if v, ok := args.Get(0).(*model.Testimonial); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockTestimonialRepo) SetPublished(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockTestimonialRepo) ListPublished(ctx context.Context, spaceID string) ([]model.Testimonial, error) {
	args := m.Called(ctx, spaceID)
	if v, ok := args.Get(0).([]model.Testimonial); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.TestimonialRepository = (*mockTestimonialRepo)(nil)

type mockLimiter struct{ mock.Mock }

func (m *mockLimiter) Limit(ctx context.Context, key string) (ratelimit.Result, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(ratelimit.Result), args.Error(1)
}

var _ ratelimit.Limiter = (*mockLimiter)(nil)

// allowAll — лимитер без ограничений
type allowAll struct{}

func (allowAll) Limit(context.Context, string) (ratelimit.Result, error) {
	return ratelimit.Result{Success: true, Limit: 1000, Remaining: 999}, nil
}

// newTestDB — in-memory SQLite с внешними ключами, отдельная база на тест.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := repo.Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

func ptrStr(s string) *string { return &s }
