package rbac

import (
	"log/slog"
	"net/http"

	"github.com/meridian-erp/meridian-auth/internal/platform/httpx"
	"github.com/meridian-erp/meridian-auth/internal/shared"
)

// Authorize is the permission evaluator: any-of semantics over the
// principal's authority set. An empty requirement list means the endpoint
// needs no specific capability; an absent principal is always denied a
// non-empty requirement. Role names and permission names live in one
// namespace, so a required list may mix both.
func Authorize(p *shared.Principal, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if p == nil {
		return false
	}
	return p.HasAny(required)
}

// Middleware wires authorization for HTTP handlers.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAny allows the request when the principal holds at least one of the
// listed permissions. Permissions are declared as literal strings at route
// mounting. Anonymous requests get 401, authenticated-but-unauthorized get
// 403; both bodies come from the failure handlers.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())
			if len(perms) > 0 && principal == nil {
				httpx.Unauthorized(w, shared.ErrUnauthenticated.Error())
				return
			}
			if !Authorize(principal, perms) {
				if m.Logger != nil {
					m.Logger.Warn("access denied",
						slog.String("username", principal.Username),
						slog.String("path", r.URL.Path))
				}
				httpx.Forbidden(w, shared.ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthenticated allows any authenticated principal regardless of
// authorities.
func (m Middleware) RequireAuthenticated() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shared.PrincipalFromContext(r.Context()) == nil {
				httpx.Unauthorized(w, shared.ErrUnauthenticated.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
