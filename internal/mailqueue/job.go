package mailqueue

import (
	"time"

	"github.com/google/uuid"
)

// JobType classifies queued emails for logging and metrics.
type JobType string

const (
	JobNotification JobType = "notification"
	JobConfirmation JobType = "confirmation"
	JobTest         JobType = "test"
)

// JobState tracks a job through its lifecycle. Sent and Failed are terminal;
// the queue drops the job after either and keeps only aggregate counters.
type JobState string

const (
	StateQueued   JobState = "queued"
	StateSending  JobState = "sending"
	StateRetrying JobState = "retrying"
	StateSent     JobState = "sent"
	StateFailed   JobState = "failed"
)

// EmailJob is one outbound email owned by the queue from enqueue until a
// terminal state. Only the worker mutates it after enqueue.
type EmailJob struct {
	ID           uuid.UUID
	Type         JobType
	To           string
	Subject      string
	Body         string // HTML body
	SenderEmail  string
	SenderSecret string
	Attempts     int
	MaxAttempts  int
	State        JobState
	EnqueuedAt   time.Time
}
