package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskwell/taskwell-api/internal/events"
	"github.com/taskwell/taskwell-api/internal/store"
)

// CompletionObserver notifies a task's owner when the task is marked
// completed. It is registered on the event dispatcher at startup.
type CompletionObserver struct {
	users    store.UserStore
	notifier Notifier
	logger   *slog.Logger
}

// NewCompletionObserver creates a new CompletionObserver.
func NewCompletionObserver(users store.UserStore, notifier Notifier, logger *slog.Logger) *CompletionObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompletionObserver{
		users:    users,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "completion_observer")),
	}
}

// Ensure CompletionObserver implements the events.Observer interface
var _ events.Observer = (*CompletionObserver)(nil)

// HandleTaskEvent implements events.Observer. Events other than task
// completion are ignored.
func (o *CompletionObserver) HandleTaskEvent(ctx context.Context, event *events.TaskEvent) error {
	if event.Type != events.TaskCompleted {
		return nil
	}

	owner, err := o.users.GetByID(ctx, event.Task.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to resolve task owner for notification: %w", err)
	}

	message := fmt.Sprintf("Task %q completed", event.Task.Title)
	if !o.notifier.Send(ctx, owner, message) {
		o.logger.Warn("notification was not accepted for delivery",
			slog.String("user_id", owner.ID.String()),
			slog.String("task_id", event.Task.ID.String()))
	}
	return nil
}
