package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/meridian-erp/meridian-auth/jobs"
)

// AsynqRecorder enqueues audit events onto the audit queue. The worker
// persists them; a full or unreachable queue loses the event, never the
// login.
type AsynqRecorder struct {
	client *asynq.Client
}

// NewAsynqRecorder constructs a recorder over the given asynq client.
func NewAsynqRecorder(client *asynq.Client) *AsynqRecorder {
	return &AsynqRecorder{client: client}
}

// Record enqueues the event.
func (r *AsynqRecorder) Record(ctx context.Context, event Event) error {
	task, err := jobs.NewAuthEventTask(jobs.AuthEventPayload{
		Username:  event.Username,
		Kind:      event.Kind,
		IP:        event.IP,
		UserAgent: event.UserAgent,
		At:        event.At,
	})
	if err != nil {
		return fmt.Errorf("audit: build task: %w", err)
	}
	if _, err := r.client.EnqueueContext(ctx, task, asynq.Queue(jobs.QueueAudit)); err != nil {
		return fmt.Errorf("audit: enqueue: %w", err)
	}
	return nil
}

var _ Recorder = (*AsynqRecorder)(nil)

// TaskHandler returns the worker-side handler persisting auth events.
func TaskHandler(repo *PGRepository, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload jobs.AuthEventPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		event := Event{
			Username:  payload.Username,
			Kind:      payload.Kind,
			IP:        payload.IP,
			UserAgent: payload.UserAgent,
			At:        payload.At,
		}
		if err := repo.Insert(ctx, event); err != nil {
			if logger != nil {
				logger.Error("persist auth event", slog.Any("error", err))
			}
			return err
		}
		return nil
	}
}
