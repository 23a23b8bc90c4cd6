package auth

import "time"

// User is the stored credential record for an account. It is owned by the
// user-management module; this package only reads it.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsActive     bool
	RoleIDs      []int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
