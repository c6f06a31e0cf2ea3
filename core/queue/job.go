package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// State is the lifecycle position of a job.
type State string

const (
	StateQueued    State = "queued"
	StateActive    State = "active"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	// StateScheduled marks the template returned when a repeatable is registered.
	StateScheduled State = "scheduled"
)

// Repeat configures a recurring trigger using a standard five-field cron pattern.
type Repeat struct {
	Pattern string `json:"pattern"`
}

// Options control retention and repetition of a job.
type Options struct {
	// RemoveOnComplete is how many completed jobs of the queue are retained.
	// Zero or less drops the job as soon as it completes.
	RemoveOnComplete int `json:"remove_on_complete"`
	// RemoveOnFail is how many failed jobs of the queue are retained.
	RemoveOnFail int `json:"remove_on_fail"`
	// Repeat registers a repeatable trigger instead of queueing a job.
	Repeat *Repeat `json:"repeat,omitempty"`
}

// Job is one unit of work stored in the queue.
type Job struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	Options    Options         `json:"options"`
	State      State           `json:"state"`
	Error      string          `json:"error,omitempty"`
	RepeatKey  string          `json:"repeat_key,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`

	// raw is the exact encoding currently stored in the active list.
	raw string
}

// Decode unmarshals the job payload into v.
func (j *Job) Decode(v any) error {
	if err := json.Unmarshal(j.Payload, v); err != nil {
		return fmt.Errorf("failed to decode payload of job %s: %w", j.ID, err)
	}
	return nil
}

// Repeatable is a registered recurring trigger.
type Repeatable struct {
	Kind    string          `json:"kind"`
	Pattern string          `json:"pattern"`
	Payload json.RawMessage `json:"payload"`
	Options Options         `json:"options"`
	NextRun time.Time       `json:"next_run"`
}

// UnknownJobKindError is returned when a worker claims a job no handler is registered for.
type UnknownJobKindError struct {
	Kind string
}

func (e *UnknownJobKindError) Error() string {
	return fmt.Sprintf("unknown job kind: %s", e.Kind)
}
