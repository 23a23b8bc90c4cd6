package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepository persists audit events into auth_audit.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Insert writes one event. Duplicate deliveries (asynq retries after a lost
// ack) are tolerated via the uq_auth_audit constraint.
func (r *PGRepository) Insert(ctx context.Context, event Event) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO auth_audit (username, kind, ip, user_agent, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.Username, event.Kind, event.IP, event.UserAgent, event.At)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "uq_auth_audit" {
			return nil
		}
		return fmt.Errorf("audit: insert event: %w", err)
	}
	return nil
}
