package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrUnknownPrincipal indicates no credential record exists for the username.
	ErrUnknownPrincipal = errors.New("unknown principal")
	// ErrInvalidCredentials indicates the password did not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked indicates the account is disabled. Only raised after the
	// password verified, so logs can tell locked accounts from wrong passwords.
	ErrAccountLocked = errors.New("account locked")
	// ErrTokenInvalid indicates a malformed token, a bad signature or a decode failure.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrUnauthenticated indicates a protected resource was reached without a usable principal.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the principal lacks every required permission.
	ErrForbidden = errors.New("forbidden")
)

// IsAuthFailure reports whether err is one of the three login failure kinds.
// All three surface to the client as the same generic message; only logs and
// the audit trail retain the specific kind.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnknownPrincipal) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrAccountLocked)
}
