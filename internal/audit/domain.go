package audit

import (
	"context"
	"time"
)

// Event kinds recorded for login outcomes. A failed password against a
// disabled account records KindBadPassword: the state check runs after the
// password check, so the account state is never probed for those attempts.
const (
	KindLoginOK       = "login_ok"
	KindUnknownUser   = "unknown_user"
	KindBadPassword   = "bad_password"
	KindAccountLocked = "account_locked"
)

// Event is one entry in the authentication audit trail.
type Event struct {
	Username  string    `json:"username"`
	Kind      string    `json:"kind"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"ua"`
	At        time.Time `json:"at"`
}

// Recorder accepts audit events. Implementations must not block the login
// path; persistence happens out of band.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}
