package rbac

import "time"

// Role represents a high-level permission grouping. Roles are administered by
// the user-management module; this package reads them only.
type Role struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission represents an atomic capability, named resource:action
// (e.g. system:dept:add).
type Permission struct {
	ID          int64
	Name        string
	Description string
}
