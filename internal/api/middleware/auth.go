package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/asanakit/asanakit/internal/api/response"
)

// BearerToken returns middleware that rejects requests whose Authorization
// header does not carry token. An empty token accepts any bearer token but
// still requires the header, as the real API does.
func BearerToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				response.Unauthorized(w)
				return
			}
			if token != "" && subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				response.Unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearer extracts the token from an Authorization header value.
func bearer(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
