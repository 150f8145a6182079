package handlers_test

import (
	"Testify/internal/config"
	"Testify/internal/handlers"
	"Testify/internal/middleware"
	"Testify/internal/model"
	"Testify/internal/ratelimit"
	"Testify/internal/repo"
	"Testify/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Minimal mocks
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) DeleteUser(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

func testConfig() *config.Config {
	return &config.Config{
		AuthSecret:     "test-secret",
		AppURL:         "https://testify.example",
		AllowedOrigins: []string{"*"},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:h_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repo.Migrate(db))
	return db
}

// testServer — роутер поверх реальных репозиториев на in-memory SQLite
type testServer struct {
	router http.Handler
	cfg    *config.Config
	db     *gorm.DB
}

func newTestServer(t *testing.T, limit int) *testServer {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()
	log := zap.NewNop().Sugar()

	userSvc := service.NewUserService(repo.NewUserRepository(db))
	spaceSvc := service.NewSpaceService(
		repo.NewSpaceRepository(db),
		repo.NewTestimonialRepository(db),
		ratelimit.NewSlidingWindow(limit, time.Minute),
		log,
	)
	h := handlers.NewHandler(userSvc, spaceSvc, log, cfg)
	return &testServer{router: h.Router, cfg: cfg, db: db}
}

// newMockRouter — роутер с моком репозитория пользователей
func newMockRouter(t *testing.T, ur repo.UserRepository) http.Handler {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop().Sugar()
	userSvc := service.NewUserService(ur)
	spaceSvc := service.NewSpaceService(repo.NewSpaceRepository(db), repo.NewTestimonialRepository(db), ratelimit.NewSlidingWindow(5, time.Minute), log)
	return handlers.NewHandler(userSvc, spaceSvc, log, testConfig()).Router
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, userID, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

// do выполняет запрос; userID == 0 — анонимно
func (s *testServer) do(t *testing.T, method, path string, body any, userID int64, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if userID != 0 {
		addAuthCookie(t, req, userID, s.cfg.AuthSecret)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// register создаёт пользователя через API и возвращает его id
func (s *testServer) register(t *testing.T, login string) int64 {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/api/user/register", map[string]string{"login": login, "password": "pw"}, 0)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var u model.User
	require.NoError(t, s.db.Where("login = ?", login).First(&u).Error)
	return u.ID
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}
