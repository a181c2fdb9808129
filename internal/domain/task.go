package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field length limits for tasks.
const (
	TaskTitleMaxLen       = 200
	TaskDescriptionMaxLen = 1000
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskOwnerIDEmpty is returned when a task's owner ID is empty or nil.
	ErrTaskOwnerIDEmpty = errors.New("task owner ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty or whitespace-only.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskTitleTooLong is returned when a task's title exceeds the maximum length.
	ErrTaskTitleTooLong = errors.New("task title cannot exceed 200 characters")

	// ErrTaskDescriptionTooLong is returned when a task's description exceeds the maximum length.
	ErrTaskDescriptionTooLong = errors.New("task description cannot exceed 1000 characters")

	// ErrInvalidTaskStatus is returned when a task status is not a recognized value.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidTransition is returned when a status change is not permitted
	// by the transition rules.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Task represents a single to-do item owned by exactly one user.
// OwnerID and CreatedAt are immutable after creation; UpdatedAt is nil
// until the first successful mutation.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// TaskPatch describes a partial update to a task. Nil fields are left
// unchanged by the update path.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}

// IsZero reports whether the patch carries no changes at all.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// NewTask creates a new Task owned by ownerID. It generates a new UUID for
// the task ID, trims the title, defaults the status to pending, and sets the
// creation timestamp. UpdatedAt is left nil until the first update.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, title, description string, status TaskStatus) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}

	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.OwnerID == uuid.Nil {
		return ErrTaskOwnerIDEmpty
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrTaskTitleEmpty
	}

	// Limits count characters, not bytes, so multibyte titles are not
	// penalized.
	if utf8.RuneCountInString(t.Title) > TaskTitleMaxLen {
		return ErrTaskTitleTooLong
	}

	if utf8.RuneCountInString(t.Description) > TaskDescriptionMaxLen {
		return ErrTaskDescriptionTooLong
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	if t.UpdatedAt != nil && t.UpdatedAt.Before(t.CreatedAt) {
		return errors.New("task updated_at cannot precede created_at")
	}

	return nil
}

// IsValid reports whether the status is one of the recognized values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted:
		return true
	}
	return false
}

// IsValidTransition reports whether a task may move from current to next.
// Completion is reversible: pending->completed and completed->pending are
// both permitted. Identical statuses are also permitted here; callers decide
// whether to treat them as a no-op. Any undefined status makes the
// transition invalid.
func IsValidTransition(current, next TaskStatus) bool {
	if !current.IsValid() || !next.IsValid() {
		return false
	}
	return true
}
