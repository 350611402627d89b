package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/asanakit/asanakit/internal/api/response"
)

// Recovery returns middleware that catches panics and returns a 500 error.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						zap.Any("panic", err),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"))
					response.Internal(w)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
