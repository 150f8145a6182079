package handlers

import (
	"Testify/internal/config"
	"Testify/internal/middleware"
	"Testify/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	spaceService *service.SpaceService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(config.AllowedOrigins))
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, spaceService, logger, config)
	spaceHandler := NewSpaceHandler(spaceService, logger, config)
	testimonialHandler := NewTestimonialHandler(spaceService, logger, config)

	// User routes
	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)
	r.Post("/api/user/logout", userHandler.Logout)
	r.Get("/api/user/me", userHandler.Status)
	r.With(middleware.RequireAuth).Delete("/api/user", userHandler.Delete)

	// Spaces: кабинет владельца
	r.With(middleware.RequireAuth).Get("/api/spaces", spaceHandler.List)
	r.With(middleware.RequireAuth).Post("/api/spaces", spaceHandler.Create)
	r.Get("/api/spaces/{id}", spaceHandler.Get)
	r.With(middleware.RequireAuth).Put("/api/spaces/{id}", spaceHandler.Edit)
	r.With(middleware.RequireAuth).Delete("/api/spaces/{id}", spaceHandler.Delete)

	// Testimonials: модерация
	r.With(middleware.RequireAuth).Post("/api/testimonials/{id}/publish", spaceHandler.Publish)

	// Публичный документированный API: маршруты и OpenAPI из одной таблицы.
	// В POST /api/testimonials/{id} параметр — идентификатор пространства; имя общее с /publish
	api := publicAPI(spaceHandler, testimonialHandler)
	for _, op := range api {
		r.Method(op.Method, op.Pattern, op.Handler)
	}
	r.Get("/testimonials", testimonialHandler.List)

	// Embed и документация
	r.Get("/spaces/{spaceId}/wall", spaceHandler.WallPage)
	if doc, err := OpenAPIHandler(config.AppURL, api); err != nil {
		logger.Errorw("failed to build OpenAPI document", "error", err)
	} else {
		r.Get("/api/doc", doc)
		r.Get("/api/reference", ReferenceHandler("/api/doc"))
	}

	return &Handler{Router: r}
}
