package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"Testify/internal/cli/auth"
)

const authCookie = "auth_token"

var client = &http.Client{Timeout: 15 * time.Second}

// Do sends a request with optional JSON payload. If token is non-empty, it is passed as auth cookie.
func Do(ctx context.Context, method, url string, payload any, token string) (*http.Response, []byte, error) {
	var rd io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: authCookie, Value: token})
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, err
	}
	return resp, bytes.TrimSpace(body), nil
}

// PostJSON sends a JSON POST request.
func PostJSON(ctx context.Context, url string, payload any, token string) (*http.Response, []byte, error) {
	return Do(ctx, http.MethodPost, url, payload, token)
}

// GetJSON sends a GET request.
func GetJSON(ctx context.Context, url string, token string) (*http.Response, []byte, error) {
	return Do(ctx, http.MethodGet, url, nil, token)
}

// PersistAuthFromResponse извлекает auth cookie из ответа и сохраняет его в хранилище.
func PersistAuthFromResponse(resp *http.Response, store *auth.Store) error {
	for _, c := range resp.Cookies() {
		if c.Name == authCookie && c.Value != "" {
			return store.Save(c.Value)
		}
	}
	return errors.New("no auth cookie in response")
}

// StatusError — ответ сервера с неуспешным статусом.
type StatusError struct {
	Code int
	Msg  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server status %d: %s", e.Code, e.Msg)
}

// IsUnauthorized сообщает, что сервер не принял сессию
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}

// ServerError формирует ошибку из ответа вида {"error": "..."}; иначе — из сырого тела.
func ServerError(resp *http.Response, body []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		msg = e.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &StatusError{Code: resp.StatusCode, Msg: msg}
}
