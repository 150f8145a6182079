package handlers

import (
	"Testify/internal/config"
	"Testify/internal/middleware"
	"Testify/internal/model"
	"Testify/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TestimonialHandler — публичные эндпоинты отзывов: форма сборщика и REST-выдача
type TestimonialHandler struct {
	SpaceService *service.SpaceService
	Logger       *zap.SugaredLogger
	Config       *config.Config
}

func NewTestimonialHandler(spaceService *service.SpaceService, logger *zap.SugaredLogger, cfg *config.Config) *TestimonialHandler {
	return &TestimonialHandler{SpaceService: spaceService, Logger: logger, Config: cfg}
}

type testimonialsResponse struct {
	Testimonials []model.Testimonial `json:"testimonials"`
}

// createTestimonialRequest — тело формы; spaceId берётся из пути, флаг публикации игнорируется
type createTestimonialRequest struct {
	AuthorName  string  `json:"authorName"`
	Text        string  `json:"text"`
	SocialURL   string  `json:"socialUrl"`
	ImageURL    *string `json:"imageUrl"`
	Position    *string `json:"position"`
	CompanyName *string `json:"companyName"`
}

// Create принимает отзыв без аутентификации: 201 / 400 / 404 / 429 / 500
func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTestimonialRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.Logger.Warnw("CreateTestimonial: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	t, err := h.SpaceService.CreateTestimonial(r.Context(), middleware.ClientIP(r), service.TestimonialInput{
		SpaceID:     chi.URLParam(r, "id"),
		AuthorName:  req.AuthorName,
		Text:        req.Text,
		SocialURL:   req.SocialURL,
		ImageURL:    req.ImageURL,
		Position:    req.Position,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		writeServiceError(w, h.Logger, "CreateTestimonial", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// List — REST-выдача опубликованных отзывов по ?spaceId=
func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	spaceID := r.URL.Query().Get("spaceId")

	testimonials, err := h.SpaceService.ListPublished(r.Context(), spaceID)
	if err != nil {
		writeServiceError(w, h.Logger, "ListPublished", err)
		return
	}
	writeJSON(w, http.StatusOK, testimonialsResponse{Testimonials: testimonials})
}
