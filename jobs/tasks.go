package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueAudit is the queue carrying authentication audit events.
	QueueAudit = "audit"
	// TaskTypeAuthEvent is the task type for persisting one audit event.
	TaskTypeAuthEvent = "audit:auth_event"
)

// AuthEventPayload carries one login outcome from the API to the worker.
type AuthEventPayload struct {
	Username  string    `json:"username"`
	Kind      string    `json:"kind"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"ua"`
	At        time.Time `json:"at"`
}

// NewAuthEventTask constructs an Asynq task.
func NewAuthEventTask(payload AuthEventPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuthEvent, data, asynq.MaxRetry(3)), nil
}
