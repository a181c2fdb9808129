// Package memory provides in-memory implementations of the store
// interfaces, used as test doubles and for running the service without a
// database. They honor the same owner-scoping and error contracts as the
// PostgreSQL adapters.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MemoryTaskStore implements store.TaskStore with a mutex-guarded map.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.Task
}

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Ensure MemoryTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MemoryTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *MemoryTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}

	s.tasks[task.ID] = cloneTask(task)
	return nil
}

// GetByIDAndOwner implements store.TaskStore.GetByIDAndOwner
func (s *MemoryTaskStore) GetByIDAndOwner(
	ctx context.Context,
	taskID, ownerID uuid.UUID,
) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

// ListByOwner implements store.TaskStore.ListByOwner
func (s *MemoryTaskStore) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []*domain.Task{}
	for _, task := range s.tasks {
		if task.OwnerID == ownerID {
			tasks = append(tasks, cloneTask(task))
		}
	}

	// Match the SQL adapter's created_at DESC ordering.
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return tasks, nil
}

// Update implements store.TaskStore.Update
func (s *MemoryTaskStore) Update(
	ctx context.Context,
	taskID, ownerID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tasks[taskID]
	if !ok || current.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}

	// Apply to a copy first so a validation failure changes nothing.
	updated := cloneTask(current)
	if patch.Title != nil {
		updated.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	now := time.Now().UTC()
	updated.UpdatedAt = &now

	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.tasks[taskID] = updated
	return cloneTask(updated), nil
}

// Delete implements store.TaskStore.Delete
func (s *MemoryTaskStore) Delete(ctx context.Context, taskID, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}

	delete(s.tasks, taskID)
	return nil
}

// cloneTask returns a deep copy so callers never share mutable state with
// the store.
func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		c.UpdatedAt = &u
	}
	return &c
}
