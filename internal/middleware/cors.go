package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS разрешает браузерные запросы с виджетов и дашборда.
// При "*" cookie не передаются: браузер запрещает credentials с wildcard-origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}
	if len(allowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	opts.AllowCredentials = !(len(opts.AllowedOrigins) == 1 && opts.AllowedOrigins[0] == "*")
	return cors.Handler(opts)
}
