package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// EventType identifies the kind of domain event.
type EventType string

// Domain event types emitted by the task service.
const (
	TaskCreated   EventType = "task.created"
	TaskCompleted EventType = "task.completed"
)

// TaskEvent describes something that happened to a task. The Task field is
// a snapshot taken at emission time; observers must not mutate it.
type TaskEvent struct {
	ID         uuid.UUID    `json:"id"`
	Type       EventType    `json:"type"`
	Task       *domain.Task `json:"task"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NewTaskEvent creates a new TaskEvent of the given type for the given task.
func NewTaskEvent(eventType EventType, task *domain.Task) *TaskEvent {
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Task:       task,
		OccurredAt: time.Now().UTC(),
	}
}

// Observer receives domain events. Returning an error marks the observer's
// handling as failed; the dispatcher logs it and carries on.
type Observer interface {
	// HandleTaskEvent processes the given event within the provided context.
	HandleTaskEvent(ctx context.Context, event *TaskEvent) error
}

// Dispatcher publishes domain events to registered observers.
type Dispatcher interface {
	// Dispatch delivers the event to every registered observer in
	// registration order. Observer failures never propagate to the caller.
	Dispatch(ctx context.Context, event *TaskEvent)
}
