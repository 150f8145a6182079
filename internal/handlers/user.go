package handlers

import (
	"Testify/internal/config"
	"Testify/internal/middleware"
	"Testify/internal/service"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler — регистрация, вход, выход и удаление аккаунта
type UserHandler struct {
	UserService  *service.UserService
	SpaceService *service.SpaceService
	Logger       *zap.SugaredLogger
	Config       *config.Config
}

func NewUserHandler(userService *service.UserService, spaceService *service.SpaceService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, SpaceService: spaceService, Logger: logger, Config: cfg}
}

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type statusResponse struct {
	Result string `json:"result"`
}

// Register создаёт пользователя и сразу выставляет cookie
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Login, req.Password)
	if err != nil {
		writeServiceError(w, h.Logger, "Register", err)
		return
	}

	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Register: failed to set cookie", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.Logger.Infow("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusOK, statusResponse{Result: fmt.Sprintf("User ID = %d", user.ID)})
}

// Login проверяет пароль и выставляет cookie
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(w, r, &req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeServiceError(w, h.Logger, "Login", err)
		return
	}

	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Login: failed to set cookie", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Result: fmt.Sprintf("User ID = %d", user.ID)})
}

// Logout удаляет cookie
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Status сообщает, кто делает запрос
func (h *UserHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, statusResponse{Result: "anonymous"})
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Result: fmt.Sprintf("User ID = %d", userID)})
}

// Delete удаляет аккаунт вместе с пространствами и отзывами
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	if err := h.UserService.Delete(r.Context(), userID); err != nil {
		writeServiceError(w, h.Logger, "DeleteUser", err)
		return
	}
	h.SpaceService.ForgetOwner(userID)
	middleware.ClearLoginCookie(w)
	h.Logger.Infow("user deleted", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}
