package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-auth/internal/shared"
)

func filterProbe(t *testing.T, mw Middleware, req *http.Request) (*shared.Principal, int) {
	t.Helper()
	var captured *shared.Principal
	handler := mw.Filter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = shared.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return captured, rr.Code
}

func TestFilterAttachesPrincipalForValidToken(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	token, err := codec.Issue(testPrincipal())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dept", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	principal, code := filterProbe(t, Middleware{Codec: codec}, req)
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, principal)
	assert.Equal(t, "beiran", principal.Username)
}

func TestFilterPassesAnonymousWithoutToken(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/dept", nil)

	principal, code := filterProbe(t, Middleware{Codec: codec}, req)
	// The filter never rejects; the authorization layer decides later.
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, principal)
}

func TestFilterPassesAnonymousOnInvalidToken(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/dept", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	principal, code := filterProbe(t, Middleware{Codec: codec}, req)
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, principal)
}

func TestFilterPassesAnonymousOnExpiredToken(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issuedAt }
	token, err := codec.Issue(testPrincipal())
	require.NoError(t, err)
	codec.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }

	req := httptest.NewRequest(http.MethodGet, "/dept", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	principal, code := filterProbe(t, Middleware{Codec: codec}, req)
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, principal)
}

func TestFilterIgnoresNonBearerScheme(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/dept", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	principal, code := filterProbe(t, Middleware{Codec: codec}, req)
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, principal)
}

func TestFilterSkipsPublicPaths(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	mw := Middleware{Codec: codec, PublicPaths: []string{"/auth/login", "/healthz"}}

	// A garbage token on an exempt path is never even parsed.
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	principal, code := filterProbe(t, mw, req)
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, principal)
}

func TestFilterPublicPathsMatchWholeSegments(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	token, err := codec.Issue(testPrincipal())
	require.NoError(t, err)
	mw := Middleware{Codec: codec, PublicPaths: []string{"/auth/login"}}

	// A sibling path sharing the prefix string is not exempt: the token is
	// parsed and the principal attached.
	req := httptest.NewRequest(http.MethodGet, "/auth/loginx", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	principal, code := filterProbe(t, mw, req)
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, principal)

	// A true sub-path is exempt and skips parsing entirely.
	req = httptest.NewRequest(http.MethodPost, "/auth/login/sso", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	principal, code = filterProbe(t, mw, req)
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, principal)
}

func TestFilterAlwaysPassesPreflight(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	req := httptest.NewRequest(http.MethodOptions, "/dept", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	_, code := filterProbe(t, Middleware{Codec: codec}, req)
	assert.Equal(t, http.StatusOK, code)
}
