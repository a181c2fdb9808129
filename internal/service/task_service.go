package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/events"
	"github.com/taskwell/taskwell-api/internal/ratelimit"
	"github.com/taskwell/taskwell-api/internal/store"
)

// TaskService defines the task management operations exposed to the API
// layer. Every operation acts on behalf of an authenticated principal; a
// task owned by someone else is indistinguishable from a missing task.
type TaskService interface {
	// CreateTask validates and persists a new task owned by principal.
	CreateTask(ctx context.Context, principal uuid.UUID, title, description string, status domain.TaskStatus) (*domain.Task, error)

	// GetTask retrieves a single task owned by principal.
	GetTask(ctx context.Context, principal, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks retrieves one page of principal's tasks according to filters.
	ListTasks(ctx context.Context, principal uuid.UUID, filters TaskFilters) (*TaskPage, error)

	// UpdateTask applies a partial update to a task owned by principal.
	UpdateTask(ctx context.Context, principal, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask removes a task owned by principal and reports when.
	DeleteTask(ctx context.Context, principal, taskID uuid.UUID) (*DeleteConfirmation, error)
}

// DeleteConfirmation acknowledges a successful deletion.
type DeleteConfirmation struct {
	Message   string
	DeletedAt time.Time
}

// taskServiceImpl implements TaskService.
type taskServiceImpl struct {
	tasks      store.TaskStore
	limiter    ratelimit.Limiter
	dispatcher events.Dispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// NewTaskService creates a new TaskService. The limiter and dispatcher are
// optional: a nil limiter admits everything, a nil dispatcher drops events.
func NewTaskService(
	tasks store.TaskStore,
	limiter ratelimit.Limiter,
	dispatcher events.Dispatcher,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &taskServiceImpl{
		tasks:      tasks,
		limiter:    limiter,
		dispatcher: dispatcher,
		logger:     logger.With(slog.String("component", "task_service")),
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// Ensure taskServiceImpl implements the TaskService interface
var _ TaskService = (*taskServiceImpl)(nil)

// admit runs the rate limiter for principal before any other work. A denied
// attempt returns *RateLimitError; a limiter backend failure fails the
// request rather than silently admitting it.
func (s *taskServiceImpl) admit(ctx context.Context, operation string, principal uuid.UUID) error {
	if s.limiter == nil {
		return nil
	}
	result, err := s.limiter.Allow(ctx, principal.String())
	if err != nil {
		return NewTaskServiceError(operation, "admission check failed", err)
	}
	if !result.Allowed {
		s.logger.WarnContext(ctx, "request throttled",
			slog.String("user_id", principal.String()),
			slog.Int("limit", result.Limit),
			slog.Duration("retry_after", result.RetryAfter))
		return &RateLimitError{RetryAfter: result.RetryAfter}
	}
	return nil
}

// CreateTask implements TaskService.CreateTask.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	principal uuid.UUID,
	title, description string,
	status domain.TaskStatus,
) (*domain.Task, error) {
	if err := s.admit(ctx, "create", principal); err != nil {
		return nil, err
	}

	task, err := domain.NewTask(principal, title, description, status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	guard := NewOwnershipGuard(s.tasks, principal)
	if err := guard.Create(ctx, task); err != nil {
		return nil, NewTaskServiceError("create", "failed to save task", err)
	}

	s.logger.InfoContext(ctx, "task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", principal.String()))

	s.dispatch(ctx, events.NewTaskEvent(events.TaskCreated, task))
	return task, nil
}

// GetTask implements TaskService.GetTask.
func (s *taskServiceImpl) GetTask(ctx context.Context, principal, taskID uuid.UUID) (*domain.Task, error) {
	if err := s.admit(ctx, "get", principal); err != nil {
		return nil, err
	}

	guard := NewOwnershipGuard(s.tasks, principal)
	task, err := guard.Get(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewTaskServiceError("get", "failed to load task", err)
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks. Filters are normalized and
// validated here so every caller gets the same defaults and bounds.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	principal uuid.UUID,
	filters TaskFilters,
) (*TaskPage, error) {
	if err := s.admit(ctx, "list", principal); err != nil {
		return nil, err
	}

	filters.Normalize()
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	guard := NewOwnershipGuard(s.tasks, principal)
	tasks, err := guard.List(ctx)
	if err != nil {
		return nil, NewTaskServiceError("list", "failed to load tasks", err)
	}
	return BuildTaskPage(tasks, filters), nil
}

// UpdateTask implements TaskService.UpdateTask. The current row is loaded
// first to validate the status transition; setting the status a task already
// has is accepted and does not count as a modification.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	principal, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if err := s.admit(ctx, "update", principal); err != nil {
		return nil, err
	}

	if patch.IsZero() {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, ErrNoFields)
	}

	guard := NewOwnershipGuard(s.tasks, principal)
	current, err := guard.Get(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewTaskServiceError("update", "failed to load task", err)
	}

	wasCompleted := current.Status == domain.TaskStatusCompleted
	if patch.Status != nil {
		if !domain.IsValidTransition(current.Status, *patch.Status) {
			return nil, fmt.Errorf("%w: %s to %s",
				domain.ErrInvalidTransition, current.Status, *patch.Status)
		}
		if *patch.Status == current.Status {
			// No-op transition: drop the field so updated_at is not touched
			// when nothing else changes.
			patch.Status = nil
			if patch.IsZero() {
				return current, nil
			}
		}
	}

	task, err := guard.Update(ctx, taskID, patch)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewTaskServiceError("update", "failed to save task", err)
	}

	s.logger.InfoContext(ctx, "task updated",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", principal.String()),
		slog.String("status", string(task.Status)))

	if !wasCompleted && task.Status == domain.TaskStatusCompleted {
		s.dispatch(ctx, events.NewTaskEvent(events.TaskCompleted, task))
	}
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask.
func (s *taskServiceImpl) DeleteTask(
	ctx context.Context,
	principal, taskID uuid.UUID,
) (*DeleteConfirmation, error) {
	if err := s.admit(ctx, "delete", principal); err != nil {
		return nil, err
	}

	guard := NewOwnershipGuard(s.tasks, principal)
	if err := guard.Delete(ctx, taskID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewTaskServiceError("delete", "failed to delete task", err)
	}

	s.logger.InfoContext(ctx, "task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", principal.String()))

	return &DeleteConfirmation{
		Message:   "Task deleted successfully",
		DeletedAt: s.now(),
	}, nil
}

// dispatch publishes an event if a dispatcher is configured.
func (s *taskServiceImpl) dispatch(ctx context.Context, event *events.TaskEvent) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Dispatch(ctx, event)
}
