package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/meridian-erp/meridian-auth/internal/observability"
	"github.com/meridian-erp/meridian-auth/internal/shared"
)

const bearerPrefix = "Bearer "

// Middleware is the request authentication filter. It extracts and verifies
// the bearer token and attaches the resulting principal to the request
// context. It never rejects a request itself: an absent or invalid token
// leaves the request anonymous, and the authorization layer decides whether
// anonymous is acceptable. That split keeps token parsing apart from access
// policy and lets public endpoints stay public.
type Middleware struct {
	Codec       *TokenCodec
	Logger      *slog.Logger
	Metrics     *observability.Metrics
	PublicPaths []string
}

// Filter returns the chi middleware.
func (m Middleware) Filter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Pre-flight requests carry no credentials and must always pass.
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if m.isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := extractBearer(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		principal, err := m.Codec.Verify(token)
		if err != nil {
			result := "invalid"
			if errors.Is(err, shared.ErrTokenExpired) {
				result = "expired"
			}
			m.Metrics.TokenVerification(result)
			if m.Logger != nil {
				m.Logger.Debug("bearer token rejected",
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}

		m.Metrics.TokenVerification("ok")
		ctx := shared.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isPublic matches exempt prefixes on whole path segments, so an entry
// "/auth/login" covers "/auth/login" and "/auth/login/…" but not
// "/auth/loginx".
func (m Middleware) isPublic(path string) bool {
	for _, prefix := range m.PublicPaths {
		if prefix == "" {
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func extractBearer(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, token != ""
}
