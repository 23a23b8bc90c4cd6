package shared

import "context"

// Principal is the authenticated identity attached to a request after the
// bearer filter verified its token. Authorities holds the flat union of role
// names and permission names resolved at authentication time; it is a
// snapshot and does not track later role or permission edits.
type Principal struct {
	UserID      int64
	Username    string
	Authorities []string
}

// HasAny reports whether the principal holds at least one of the required
// authorities.
func (p *Principal) HasAny(required []string) bool {
	if p == nil {
		return false
	}
	held := make(map[string]struct{}, len(p.Authorities))
	for _, a := range p.Authorities {
		held[a] = struct{}{}
	}
	for _, r := range required {
		if _, ok := held[r]; ok {
			return true
		}
	}
	return false
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context. It returns nil
// for anonymous requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
