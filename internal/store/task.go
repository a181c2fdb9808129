package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Every operation is scoped by owner: no call can observe or mutate a task
// whose owner differs from the given owner ID. Filtering, sorting, and
// pagination are deliberately NOT the store's job - ListByOwner returns the
// raw owner-scoped candidate set and the query engine does the rest, so the
// store stays simple and testable on its own.
type TaskStore interface {
	// Create saves a new task to the store.
	// The task must be valid according to domain validation rules;
	// returns ErrInvalidEntity wrapping the domain error otherwise.
	Create(ctx context.Context, task *domain.Task) error

	// GetByIDAndOwner retrieves the task matching both the task ID and the
	// owner ID. Returns ErrTaskNotFound when no such pair exists - including
	// when the task exists under a different owner.
	GetByIDAndOwner(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error)

	// ListByOwner retrieves every task owned by ownerID, ordered by
	// creation time descending. Returns an empty slice when the owner has
	// no tasks.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// Update applies the non-nil fields of patch to the task matching
	// (taskID, ownerID), sets updated_at, and returns the updated task.
	// Returns ErrTaskNotFound when no such pair exists.
	// A failed update leaves the stored row untouched.
	Update(ctx context.Context, taskID, ownerID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes the task matching (taskID, ownerID).
	// Returns ErrTaskNotFound when no such pair exists.
	Delete(ctx context.Context, taskID, ownerID uuid.UUID) error
}
