package service

import (
	"Testify/internal/ratelimit"
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrRateLimited        = errors.New("too many requests")
	ErrInternal           = errors.New("internal error")
	ErrLoginTaken         = errors.New("login already taken")
	ErrInvalidCredentials = errors.New("invalid login or password")
)

// ValidationError описывает некорректное поле ввода. errors.Is(err, ErrValidation) == true.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// RateLimitError несёт ответ лимитера для заголовков X-RateLimit-*.
type RateLimitError struct {
	Result ratelimit.Result
}

func (e *RateLimitError) Error() string { return ErrRateLimited.Error() }

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }
