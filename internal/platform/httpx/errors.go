package httpx

import (
	"errors"
	"net/http"

	"github.com/meridian-erp/meridian-auth/internal/shared"
)

// Unauthorized is the unauthenticated failure handler: a request reached a
// protected resource without a usable principal.
func Unauthorized(w http.ResponseWriter, detail string) {
	Fail(w, http.StatusUnauthorized, "unauthenticated", detail)
}

// Forbidden is the access-denied failure handler: a principal was present but
// held none of the required permissions.
func Forbidden(w http.ResponseWriter, detail string) {
	Fail(w, http.StatusForbidden, "forbidden", detail)
}

// RespondError maps domain errors to the error envelope. Auth failure kinds
// deliberately collapse into one generic message so callers cannot enumerate
// usernames or account states.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsAuthFailure(err):
		Fail(w, http.StatusUnauthorized, "authentication failed", "invalid username or password")
	case errors.Is(err, shared.ErrTokenExpired):
		Unauthorized(w, shared.ErrTokenExpired.Error())
	case errors.Is(err, shared.ErrTokenInvalid):
		Unauthorized(w, shared.ErrTokenInvalid.Error())
	case errors.Is(err, shared.ErrUnauthenticated):
		Unauthorized(w, err.Error())
	case errors.Is(err, shared.ErrForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, "not found", err.Error())
	default:
		Fail(w, http.StatusInternalServerError, "internal error", "")
	}
}
