package handlers

import (
	"Testify/internal/service"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeJSON читает тело запроса; неизвестные поля игнорируются
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// изображения приходят base64, поэтому лимит с запасом
const maxBodyBytes = 4 << 20

// writeServiceError переводит ошибки сервиса в HTTP-статусы.
// Текст внутренних ошибок клиенту не отдаётся.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	var ve *service.ValidationError
	var rl *service.RateLimitError

	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &rl):
		setRateLimitHeaders(w, rl, time.Now())
		writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
	case errors.Is(err, service.ErrLoginTaken):
		writeError(w, http.StatusConflict, "login already taken")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid login or password")
	default:
		if !errors.Is(err, service.ErrInternal) {
			logger.Errorw(op+": unexpected error", "error", err)
		}
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func setRateLimitHeaders(w http.ResponseWriter, rl *service.RateLimitError, now time.Time) {
	res := rl.Result
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	if res.Reset.IsZero() {
		return
	}
	h.Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset.Unix(), 10))
	retry := int(math.Ceil(res.Reset.Sub(now).Seconds()))
	if retry < 1 {
		retry = 1
	}
	h.Set("Retry-After", strconv.Itoa(retry))
}
