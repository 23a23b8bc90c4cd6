package rbac

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	rolePerms map[int64][]string
	roleNames map[int64]string
	effective map[int64][]string

	permCalls    int
	permErr      error
	effectiveErr error
}

func (m *mockRepository) RoleNamesByIDs(_ context.Context, roleIDs []int64) ([]string, error) {
	var names []string
	for _, id := range roleIDs {
		if name, ok := m.roleNames[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (m *mockRepository) PermissionNamesByRole(_ context.Context, roleID int64) ([]string, error) {
	m.permCalls++
	if m.permErr != nil {
		return nil, m.permErr
	}
	return m.rolePerms[roleID], nil
}

func (m *mockRepository) ListRoles(context.Context) ([]Role, error) {
	var roles []Role
	for id, name := range m.roleNames {
		roles = append(roles, Role{ID: id, Name: name})
	}
	return roles, nil
}

func (m *mockRepository) ListPermissions(context.Context) ([]Permission, error) {
	return nil, nil
}

func (m *mockRepository) EffectivePermissions(_ context.Context, userID int64) ([]string, error) {
	if m.effectiveErr != nil {
		return nil, m.effectiveErr
	}
	return m.effective[userID], nil
}

func newCatalogRepo() *mockRepository {
	return &mockRepository{
		roleNames: map[int64]string{1: "admin", 2: "auditor"},
		rolePerms: map[int64][]string{
			1: {"system:dept:add", "system:dept:view"},
			2: {"system:dept:view", "system:roles:view"},
		},
		effective: map[int64][]string{
			1: {"system:dept:add", "system:dept:view"},
		},
	}
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestPermissionsForRolesUnionsAndDedupes(t *testing.T) {
	repo := newCatalogRepo()
	service := NewService(repo, nil, slog.Default())

	perms, err := service.PermissionsForRoles(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"system:dept:add", "system:dept:view", "system:roles:view"}, perms)
}

func TestPermissionsForRolesUnknownRoleContributesNothing(t *testing.T) {
	repo := newCatalogRepo()
	service := NewService(repo, nil, slog.Default())

	perms, err := service.PermissionsForRoles(context.Background(), []int64{1, 99})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"system:dept:add", "system:dept:view"}, perms)

	perms, err = service.PermissionsForRoles(context.Background(), []int64{99})
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestPermissionsForRolesCacheHitSkipsRepository(t *testing.T) {
	repo := newCatalogRepo()
	service := NewService(repo, newTestCache(t), slog.Default())

	first, err := service.PermissionsForRoles(context.Background(), []int64{1})
	require.NoError(t, err)
	require.Equal(t, 1, repo.permCalls)

	second, err := service.PermissionsForRoles(context.Background(), []int64{1})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.permCalls, "second resolution must be served from cache")
	assert.Equal(t, first, second)
}

func TestPermissionsForRolesSurfacesRepositoryError(t *testing.T) {
	repo := newCatalogRepo()
	repo.permErr = errors.New("pool exhausted")
	service := NewService(repo, nil, slog.Default())

	_, err := service.PermissionsForRoles(context.Background(), []int64{1})
	require.Error(t, err)
	assert.ErrorContains(t, err, "resolve role 1")
}

func TestCacheInvalidateForcesRefill(t *testing.T) {
	repo := newCatalogRepo()
	cache := newTestCache(t)
	service := NewService(repo, cache, slog.Default())

	_, err := service.PermissionsForRoles(context.Background(), []int64{1})
	require.NoError(t, err)
	require.Equal(t, 1, repo.permCalls)

	require.NoError(t, cache.Invalidate(context.Background(), 1))

	repo.rolePerms[1] = []string{"system:dept:add"}
	perms, err := service.PermissionsForRoles(context.Background(), []int64{1})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.permCalls)
	assert.Equal(t, []string{"system:dept:add"}, perms)
}

func TestRoleNames(t *testing.T) {
	repo := newCatalogRepo()
	service := NewService(repo, nil, slog.Default())

	names, err := service.RoleNames(context.Background(), []int64{1, 2, 99})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"admin", "auditor"}, names)
}
