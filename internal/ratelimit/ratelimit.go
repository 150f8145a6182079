// Package ratelimit ограничивает частоту публичных операций записи.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/go-chi/httprate"
)

// KeyPrefixTestimonial — префикс ключа для создания отзывов, к нему добавляется IP клиента.
const KeyPrefixTestimonial = "testimonial_creation_ip:"

// Result — ответ лимитера.
type Result struct {
	Success   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter — контракт внешнего ограничителя частоты.
type Limiter interface {
	Limit(ctx context.Context, key string) (Result, error)
}

// SlidingWindow — ограничитель со скользящим окном поверх счётчиков httprate.
// Счётчик можно заменить распределённым (например, Redis) без изменения вызывающего кода.
type SlidingWindow struct {
	mu      sync.Mutex
	counter httprate.LimitCounter
	limit   int
	window  time.Duration
	now     func() time.Time
}

// Option настраивает SlidingWindow.
type Option func(*SlidingWindow)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(s *SlidingWindow) { s.now = now }
}

// WithCounter подменяет хранилище счётчиков.
func WithCounter(c httprate.LimitCounter) Option {
	return func(s *SlidingWindow) { s.counter = c }
}

// NewSlidingWindow создаёт лимитер: не более limit запросов за window на ключ.
func NewSlidingWindow(limit int, window time.Duration, opts ...Option) *SlidingWindow {
	s := &SlidingWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.counter == nil {
		s.counter = httprate.NewLocalLimitCounter(window)
	}
	s.counter.Config(limit, window)
	return s
}

// Limit учитывает запрос по ключу и сообщает, разрешён ли он.
// Отклонённые запросы в счётчик не попадают.
func (s *SlidingWindow) Limit(_ context.Context, key string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	currentWindow := now.Truncate(s.window)
	previousWindow := currentWindow.Add(-s.window)
	reset := currentWindow.Add(s.window)

	curr, prev, err := s.counter.Get(key, currentWindow, previousWindow)
	if err != nil {
		return Result{}, err
	}

	// вес прошлого окна убывает линейно по мере продвижения текущего
	elapsed := now.Sub(currentWindow)
	weight := float64(s.window-elapsed) / float64(s.window)
	rate := int(math.Round(float64(prev)*weight)) + curr

	if rate >= s.limit {
		return Result{Success: false, Limit: s.limit, Remaining: 0, Reset: reset}, nil
	}

	if err := s.counter.IncrementBy(key, currentWindow, 1); err != nil {
		return Result{}, err
	}

	return Result{
		Success:   true,
		Limit:     s.limit,
		Remaining: s.limit - rate - 1,
		Reset:     reset,
	}, nil
}
