package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// OwnershipGuard is an owner-scoped view over a TaskStore, bound to one
// principal. Every delegated call uses the principal as the owner, so no
// code path above the guard can reach another principal's rows. A task that
// exists under a different owner yields the same store.ErrTaskNotFound as a
// missing task - the guard never produces a distinct "forbidden" signal, to
// avoid confirming the existence of other principals' data.
type OwnershipGuard struct {
	inner     store.TaskStore
	principal uuid.UUID
}

// NewOwnershipGuard creates a guard over inner scoped to principal.
// The guard is cheap to construct; the service creates one per request.
func NewOwnershipGuard(inner store.TaskStore, principal uuid.UUID) *OwnershipGuard {
	return &OwnershipGuard{
		inner:     inner,
		principal: principal,
	}
}

// Create persists a task after verifying it is owned by the guard's
// principal. An owner mismatch is reported as store.ErrTaskNotFound.
func (g *OwnershipGuard) Create(ctx context.Context, task *domain.Task) error {
	if task.OwnerID != g.principal {
		return store.ErrTaskNotFound
	}
	return g.inner.Create(ctx, task)
}

// Get retrieves the principal's task with the given ID.
func (g *OwnershipGuard) Get(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	task, err := g.inner.GetByIDAndOwner(ctx, taskID, g.principal)
	if err != nil {
		return nil, err
	}
	// Belt and braces: the inner store already scopes by owner, but a
	// misbehaving adapter must not leak another principal's task.
	if task.OwnerID != g.principal {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// List retrieves every task owned by the principal.
func (g *OwnershipGuard) List(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := g.inner.ListByOwner(ctx, g.principal)
	if err != nil {
		return nil, err
	}
	filtered := tasks[:0]
	for _, task := range tasks {
		if task.OwnerID == g.principal {
			filtered = append(filtered, task)
		}
	}
	return filtered, nil
}

// Update applies patch to the principal's task with the given ID.
func (g *OwnershipGuard) Update(
	ctx context.Context,
	taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	task, err := g.inner.Update(ctx, taskID, g.principal, patch)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != g.principal {
		return nil, fmt.Errorf("store returned task with unexpected owner: %w", store.ErrTaskNotFound)
	}
	return task, nil
}

// Delete removes the principal's task with the given ID.
func (g *OwnershipGuard) Delete(ctx context.Context, taskID uuid.UUID) error {
	return g.inner.Delete(ctx, taskID, g.principal)
}
