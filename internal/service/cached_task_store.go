package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/cache"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// CachedTaskStore is a read-through caching decorator over a TaskStore.
// Single-task reads consult the cache before the underlying store; every
// successful mutation writes through to the store first and then evicts the
// affected entry, so a subsequent read repopulates from authoritative data.
// List reads always go to the store. Cache backend failures degrade to
// store-only operation and are logged, never surfaced to callers.
type CachedTaskStore struct {
	inner  store.TaskStore
	cache  cache.Cache
	logger *slog.Logger
}

// NewCachedTaskStore creates a caching decorator over inner.
func NewCachedTaskStore(inner store.TaskStore, c cache.Cache, logger *slog.Logger) (*CachedTaskStore, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner task store cannot be nil")
	}
	if c == nil {
		return nil, fmt.Errorf("cache cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &CachedTaskStore{
		inner:  inner,
		cache:  c,
		logger: logger.With(slog.String("component", "cached_task_store")),
	}, nil
}

// Ensure CachedTaskStore implements the store.TaskStore interface
var _ store.TaskStore = (*CachedTaskStore)(nil)

// taskCacheKey builds the cache key for a single task entry. The owner is
// part of the key so a cached entry can never satisfy a lookup made on
// behalf of a different principal.
func taskCacheKey(taskID, ownerID uuid.UUID) string {
	return fmt.Sprintf("task:%s:%s", taskID, ownerID)
}

// Create implements store.TaskStore. New tasks are not pre-warmed into the
// cache; the first read populates the entry.
func (s *CachedTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return s.inner.Create(ctx, task)
}

// GetByIDAndOwner implements store.TaskStore with read-through caching.
func (s *CachedTaskStore) GetByIDAndOwner(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error) {
	key := taskCacheKey(taskID, ownerID)

	var cached domain.Task
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed, falling back to store",
			slog.String("key", key),
			slog.String("error", err.Error()))
	} else if hit {
		return &cached, nil
	}

	task, err := s.inner.GetByIDAndOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	// Misses for absent tasks are not cached; only found rows populate.
	if err := s.cache.Set(ctx, key, task); err != nil {
		s.logger.WarnContext(ctx, "cache populate failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	return task, nil
}

// ListByOwner implements store.TaskStore. List results are never cached:
// the query engine filters and pages over the full set, and keeping list
// snapshots coherent with single-task invalidation is not worth it.
func (s *CachedTaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	return s.inner.ListByOwner(ctx, ownerID)
}

// Update implements store.TaskStore. The store write happens first; the
// eviction runs only after the write succeeded, so a failed write leaves the
// still-valid cached entry in place.
func (s *CachedTaskStore) Update(
	ctx context.Context,
	taskID, ownerID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	task, err := s.inner.Update(ctx, taskID, ownerID, patch)
	if err != nil {
		return nil, err
	}
	s.evict(ctx, taskCacheKey(taskID, ownerID))
	return task, nil
}

// Delete implements store.TaskStore. Eviction follows the same
// write-then-invalidate order as Update.
func (s *CachedTaskStore) Delete(ctx context.Context, taskID, ownerID uuid.UUID) error {
	if err := s.inner.Delete(ctx, taskID, ownerID); err != nil {
		return err
	}
	s.evict(ctx, taskCacheKey(taskID, ownerID))
	return nil
}

// evict removes a cache entry, logging failures. A failed eviction leaves a
// stale entry that expires at the configured TTL; reads stay available.
func (s *CachedTaskStore) evict(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "cache eviction failed, entry expires at TTL",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
