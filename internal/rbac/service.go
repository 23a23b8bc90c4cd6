package rbac

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"
)

// Service is the permission resolver. All operations are read-only and safe
// for concurrent use.
type Service struct {
	repo   Repository
	cache  *Cache
	logger *slog.Logger
	fills  singleflight.Group
}

// NewService constructs a Service over the given repository. cache may be nil.
func NewService(repo Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// RoleNames returns the names of the given roles. Unknown ids are skipped.
func (s *Service) RoleNames(ctx context.Context, roleIDs []int64) ([]string, error) {
	return s.repo.RoleNamesByIDs(ctx, roleIDs)
}

// PermissionsForRoles unions the permission names granted by the given roles.
// Duplicates collapse; a role id with no backing row contributes nothing
// rather than failing the whole resolution, so a dangling reference in the
// permission graph cannot block login. Per-role lookups go through the cache,
// with concurrent fills for the same role collapsed into one query.
func (s *Service) PermissionsForRoles(ctx context.Context, roleIDs []int64) ([]string, error) {
	seen := make(map[string]struct{})
	var union []string
	for _, roleID := range roleIDs {
		perms, err := s.rolePermissions(ctx, roleID)
		if err != nil {
			return nil, fmt.Errorf("rbac: resolve role %d: %w", roleID, err)
		}
		for _, p := range perms {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			union = append(union, p)
		}
	}
	return union, nil
}

func (s *Service) rolePermissions(ctx context.Context, roleID int64) ([]string, error) {
	if perms, ok := s.cache.GetRolePermissions(ctx, roleID); ok {
		return perms, nil
	}
	result, err, _ := s.fills.Do(fmt.Sprintf("role:%d", roleID), func() (any, error) {
		perms, err := s.repo.PermissionNamesByRole(ctx, roleID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetRolePermissions(ctx, roleID, perms); err != nil && s.logger != nil {
			s.logger.Warn("cache role permissions", slog.Int64("role_id", roleID), slog.Any("error", err))
		}
		return perms, nil
	})
	if err != nil {
		return nil, err
	}
	perms, _ := result.([]string)
	return perms, nil
}

// ListRoles returns all roles ordered by name.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// ListPermissions returns all permissions ordered by name.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// EffectivePermissions returns deduplicated permission names for a user.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64) ([]string, error) {
	return s.repo.EffectivePermissions(ctx, userID)
}
