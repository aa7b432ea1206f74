package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the delivery status of a notification task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusSent       TaskStatus = "SENT"
	TaskStatusFailed     TaskStatus = "FAILED"
	TaskStatusDead       TaskStatus = "DEAD"
)

// TaskKind identifies what triggered the notification
type TaskKind string

const (
	TaskKindOrderPlaced       TaskKind = "order_placed"
	TaskKindOrderStateChanged TaskKind = "order_state_changed"
)

// Default retry configuration
const (
	DefaultMaxRetries  = 5
	DefaultBaseBackoff = time.Minute
)

// Task is an email waiting to be delivered no earlier than RunAt
type Task struct {
	ID          uuid.UUID
	Kind        TaskKind
	UserID      int64
	OrderID     int64
	Recipient   string
	Subject     string
	Body        string
	Status      TaskStatus
	RunAt       time.Time
	RetryCount  int
	MaxRetries  int
	LastError   string
	NextRetryAt *time.Time
	SentAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask creates a pending task that becomes due after delay
func NewTask(kind TaskKind, userID, orderID int64, recipient, subject, body string, delay time.Duration) (*Task, error) {
	if recipient == "" {
		return nil, errors.New("notification recipient is required")
	}
	now := time.Now()
	return &Task{
		ID:         uuid.New(),
		Kind:       kind,
		UserID:     userID,
		OrderID:    orderID,
		Recipient:  recipient,
		Subject:    subject,
		Body:       body,
		Status:     TaskStatusPending,
		RunAt:      now.Add(delay),
		MaxRetries: DefaultMaxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsDue reports whether the task may be attempted at now
func (t *Task) IsDue(now time.Time) bool {
	switch t.Status {
	case TaskStatusPending:
		return !t.RunAt.After(now)
	case TaskStatusFailed:
		return t.NextRetryAt == nil || !t.NextRetryAt.After(now)
	}
	return false
}

// CanRetry returns true if the task can be retried
func (t *Task) CanRetry() bool {
	return t.Status == TaskStatusFailed && t.RetryCount < t.MaxRetries
}

// MarkProcessing marks the task as being delivered
func (t *Task) MarkProcessing() error {
	if t.Status != TaskStatusPending && t.Status != TaskStatusFailed {
		return errors.New("can only mark pending or failed tasks as processing")
	}
	t.Status = TaskStatusProcessing
	t.UpdatedAt = time.Now()
	return nil
}

// MarkSent marks the task as delivered
func (t *Task) MarkSent() {
	now := time.Now()
	t.Status = TaskStatusSent
	t.SentAt = &now
	t.UpdatedAt = now
}

// MarkFailed records a delivery error and schedules the next attempt with
// exponential backoff, or moves the task to DEAD once retries are exhausted
func (t *Task) MarkFailed(errMsg string) {
	t.RetryCount++
	t.LastError = errMsg
	t.UpdatedAt = time.Now()

	if t.RetryCount >= t.MaxRetries {
		t.Status = TaskStatusDead
		t.NextRetryAt = nil
		return
	}
	t.Status = TaskStatusFailed
	// 1m, 2m, 4m, 8m, ...
	backoff := DefaultBaseBackoff * time.Duration(1<<uint(t.RetryCount-1))
	next := time.Now().Add(backoff)
	t.NextRetryAt = &next
}

// IsDead returns true if the task will not be attempted again
func (t *Task) IsDead() bool {
	return t.Status == TaskStatusDead
}

// TaskRepository defines the interface for notification task persistence
type TaskRepository interface {
	// Create persists one or more new tasks
	Create(ctx context.Context, tasks ...*Task) error
	// FindDue returns pending tasks whose RunAt passed and failed tasks due
	// for retry, oldest first
	FindDue(ctx context.Context, now time.Time, limit int) ([]*Task, error)
	// Claim atomically marks tasks as processing and returns the ones this
	// caller won
	Claim(ctx context.Context, ids []uuid.UUID) ([]*Task, error)
	// Update saves the task's delivery state
	Update(ctx context.Context, task *Task) error
	// DeleteSentBefore removes delivered tasks older than before
	DeleteSentBefore(ctx context.Context, before time.Time) (int64, error)
}
