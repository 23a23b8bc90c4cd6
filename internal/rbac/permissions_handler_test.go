package rbac

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-auth/internal/shared"
)

func newCatalogRouter(t *testing.T) (*chi.Mux, *mockRepository) {
	t.Helper()
	repo := newCatalogRepo()
	service := NewService(repo, nil, slog.Default())
	handler := NewPermissionsHandler(slog.Default(), service, Middleware{Logger: slog.Default()})

	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r, repo
}

func getAs(t *testing.T, router http.Handler, path string, principal *shared.Principal) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if principal != nil {
		req = req.WithContext(shared.ContextWithPrincipal(req.Context(), principal))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUserPermissionsEndpoint(t *testing.T) {
	router, _ := newCatalogRouter(t)
	viewer := &shared.Principal{UserID: 9, Username: "ops", Authorities: []string{shared.PermUsersView}}

	rec := getAs(t, router, "/users/1/permissions", viewer)
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		UserID      int64    `json:"userId"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, int64(1), view.UserID)
	assert.ElementsMatch(t, []string{"system:dept:add", "system:dept:view"}, view.Permissions)
}

func TestUserPermissionsUnknownUserIsEmptyList(t *testing.T) {
	router, _ := newCatalogRouter(t)
	viewer := &shared.Principal{UserID: 9, Username: "ops", Authorities: []string{shared.PermUsersView}}

	rec := getAs(t, router, "/users/404/permissions", viewer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":404,"permissions":[]}`, rec.Body.String())
}

func TestUserPermissionsRejectsNonNumericID(t *testing.T) {
	router, _ := newCatalogRouter(t)
	viewer := &shared.Principal{UserID: 9, Username: "ops", Authorities: []string{shared.PermUsersView}}

	rec := getAs(t, router, "/users/beiran/permissions", viewer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserPermissionsRequiresUsersView(t *testing.T) {
	router, _ := newCatalogRouter(t)

	rec := getAs(t, router, "/users/1/permissions", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	admin := &shared.Principal{UserID: 1, Username: "beiran", Authorities: []string{"admin", shared.PermDeptAdd}}
	rec = getAs(t, router, "/users/1/permissions", admin)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserPermissionsRepositoryFailure(t *testing.T) {
	router, repo := newCatalogRouter(t)
	repo.effectiveErr = errors.New("pool exhausted")
	viewer := &shared.Principal{UserID: 9, Username: "ops", Authorities: []string{shared.PermUsersView}}

	rec := getAs(t, router, "/users/1/permissions", viewer)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pool exhausted")
}

func TestCatalogListEndpoints(t *testing.T) {
	router, _ := newCatalogRouter(t)

	roleViewer := &shared.Principal{UserID: 9, Username: "ops", Authorities: []string{shared.PermRolesView}}
	rec := getAs(t, router, "/roles", roleViewer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin")

	rec = getAs(t, router, "/permissions", roleViewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
