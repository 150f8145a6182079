package handlers

import (
	"Testify/internal/config"
	"Testify/internal/middleware"
	"Testify/internal/model"
	"Testify/internal/service"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SpaceHandler — кабинет владельца и публичные чтения пространства
type SpaceHandler struct {
	SpaceService *service.SpaceService
	Logger       *zap.SugaredLogger
	Config       *config.Config
}

func NewSpaceHandler(spaceService *service.SpaceService, logger *zap.SugaredLogger, cfg *config.Config) *SpaceHandler {
	return &SpaceHandler{SpaceService: spaceService, Logger: logger, Config: cfg}
}

// SpaceDTO — пространство в ответах API со ссылками на сборщик и стену
type SpaceDTO struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	CustomMessage    string              `json:"customMessage"`
	Logo             *string             `json:"logo"`
	Testimonials     []model.Testimonial `json:"testimonials"`
	UnpublishedCount int                 `json:"unpublishedCount"`
	CollectorURL     string              `json:"collectorUrl"`
	WallURL          string              `json:"wallUrl"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

func (h *SpaceHandler) toDTO(s *model.Space) SpaceDTO {
	testimonials := s.Testimonials
	if testimonials == nil {
		testimonials = []model.Testimonial{}
	}
	base := h.Config.AppURL + "/spaces/" + s.ID
	return SpaceDTO{
		ID:               s.ID,
		Name:             s.Name,
		CustomMessage:    s.CustomMessage,
		Logo:             s.Logo,
		Testimonials:     testimonials,
		UnpublishedCount: s.UnpublishedCount(),
		CollectorURL:     base + "/collector",
		WallURL:          base + "/wall",
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// List — пространства текущего владельца
func (h *SpaceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	spaces, err := h.SpaceService.ListOwnedSpaces(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.Logger, "ListSpaces", err)
		return
	}
	out := make([]SpaceDTO, 0, len(spaces))
	for i := range spaces {
		out = append(out, h.toDTO(&spaces[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"spaces": out})
}

func (h *SpaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var in service.SpaceInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.Logger.Warnw("CreateSpace: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	space, err := h.SpaceService.CreateSpace(r.Context(), userID, in)
	if err != nil {
		writeServiceError(w, h.Logger, "CreateSpace", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toDTO(space))
}

// Get — публичный; владелец видит и неопубликованные отзывы
func (h *SpaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.GetUserIDFromContext(r.Context())

	space, err := h.SpaceService.GetSpace(r.Context(), viewerID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.Logger, "GetSpace", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toDTO(space))
}

func (h *SpaceHandler) Edit(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var in service.SpaceInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.Logger.Warnw("EditSpace: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	space, err := h.SpaceService.EditSpace(r.Context(), userID, chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, h.Logger, "EditSpace", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toDTO(space))
}

func (h *SpaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.SpaceService.DeleteSpace(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.Logger, "DeleteSpace", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Wall — опубликованные отзывы, новые сверху
func (h *SpaceHandler) Wall(w http.ResponseWriter, r *http.Request) {
	wall, err := h.SpaceService.GetWall(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.Logger, "GetWall", err)
		return
	}
	writeJSON(w, http.StatusOK, wall)
}

// Collector — публичные поля для формы сбора отзывов
func (h *SpaceHandler) Collector(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.SpaceService.GetCollectorConfig(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.Logger, "GetCollectorConfig", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// Publish — модерация отзыва владельцем
func (h *SpaceHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	t, err := h.SpaceService.PublishTestimonial(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.Logger, "PublishTestimonial", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
