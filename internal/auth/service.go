package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/meridian-erp/meridian-auth/internal/shared"
)

// Resolver turns assigned role ids into the flat authority material a
// principal carries. Implemented by the rbac service.
type Resolver interface {
	RoleNames(ctx context.Context, roleIDs []int64) ([]string, error)
	PermissionsForRoles(ctx context.Context, roleIDs []int64) ([]string, error)
}

// Service is the authenticator: it orchestrates the credential store, the
// password verifier and the permission resolver.
type Service struct {
	repo     Repository
	resolver Resolver
	logger   *slog.Logger
	fold     cases.Caser
}

// NewService constructs a new Service.
func NewService(repo Repository, resolver Resolver, logger *slog.Logger) *Service {
	return &Service{repo: repo, resolver: resolver, logger: logger, fold: cases.Fold()}
}

// Authenticate validates username/password credentials and materializes the
// principal's authority set. The account state check runs strictly after the
// password check so disabled-but-correct-password attempts stay
// distinguishable in logs; callers must collapse all three failure kinds into
// one generic client-facing message. Idempotent, no persisted side effects.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*shared.Principal, error) {
	user, err := s.repo.FindByUsername(ctx, s.fold.String(username))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnknownPrincipal
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrAccountLocked
	}
	return s.BuildPrincipal(ctx, user), nil
}

// BuildPrincipal resolves roles and permissions into a single authority set.
// Role names and permission identifiers share one namespace, so a single
// any-of match serves both role-based and permission-based checks. Resolver
// failures degrade to an empty grant instead of blocking login: a broken
// reference in the permission graph must not take authentication down.
func (s *Service) BuildPrincipal(ctx context.Context, user *User) *shared.Principal {
	authorities := make([]string, 0, len(user.RoleIDs)*2)

	roleNames, err := s.resolver.RoleNames(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("resolve role names", slog.String("username", user.Username), slog.Any("error", err))
	} else {
		authorities = append(authorities, roleNames...)
	}

	perms, err := s.resolver.PermissionsForRoles(ctx, user.RoleIDs)
	if err != nil {
		s.logger.Error("resolve permissions", slog.String("username", user.Username), slog.Any("error", err))
	} else {
		authorities = append(authorities, perms...)
	}

	return &shared.Principal{
		UserID:      user.ID,
		Username:    user.Username,
		Authorities: dedup(authorities),
	}
}

func dedup(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
