package middleware

import (
	"net/http"
	"strings"
)

// ClientIP определяет адрес посетителя по заголовкам прокси: первый X-Forwarded-For,
// затем CF-Connecting-IP и X-Real-IP. Без заголовков возвращает "anonymous".
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	for _, h := range []string{"CF-Connecting-IP", "X-Real-IP"} {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
			return v
		}
	}
	return "anonymous"
}
