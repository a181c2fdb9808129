package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwell/taskwell-api/internal/cache"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/memory"
	"github.com/taskwell/taskwell-api/internal/store"
)

// fakeCache is an in-memory cache.Cache with fault injection.
type fakeCache struct {
	data   map[string][]byte
	getErr error
	setErr error
	delErr error
	hits   int
	misses int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.data[key]
	if !ok {
		c.misses++
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(ctx context.Context, key string, value any) error {
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	if c.delErr != nil {
		return c.delErr
	}
	delete(c.data, key)
	return nil
}

var _ cache.Cache = (*fakeCache)(nil)

func newCachedStore(t *testing.T) (*CachedTaskStore, *memory.MemoryTaskStore, *fakeCache) {
	t.Helper()
	inner := memory.NewMemoryTaskStore()
	fc := newFakeCache()
	cached, err := NewCachedTaskStore(inner, fc, slog.Default())
	require.NoError(t, err)
	return cached, inner, fc
}

func seedTask(t *testing.T, s store.TaskStore, owner uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(owner, "Cached task", "original", "")
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func TestCachedTaskStoreReadThrough(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	cached, _, fc := newCachedStore(t)
	task := seedTask(t, cached, owner)

	// First read misses and populates.
	got, err := cached.GetByIDAndOwner(context.Background(), task.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, 1, fc.misses)
	assert.Len(t, fc.data, 1)

	// Second read is served from cache.
	got, err = cached.GetByIDAndOwner(context.Background(), task.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, 1, fc.hits)
}

func TestCachedTaskStoreMissingTaskNotCached(t *testing.T) {
	t.Parallel()

	cached, _, fc := newCachedStore(t)

	_, err := cached.GetByIDAndOwner(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.Empty(t, fc.data)
}

func TestCachedTaskStoreKeyIncludesOwner(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	other := uuid.New()
	cached, _, _ := newCachedStore(t)
	task := seedTask(t, cached, owner)

	// Warm the cache as the owner.
	_, err := cached.GetByIDAndOwner(context.Background(), task.ID, owner)
	require.NoError(t, err)

	// A different principal must not be served the cached entry.
	_, err = cached.GetByIDAndOwner(context.Background(), task.ID, other)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestCachedTaskStoreUpdateEvicts(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	cached, _, fc := newCachedStore(t)
	task := seedTask(t, cached, owner)

	_, err := cached.GetByIDAndOwner(context.Background(), task.ID, owner)
	require.NoError(t, err)
	require.Len(t, fc.data, 1)

	title := "Renamed"
	_, err = cached.Update(context.Background(), task.ID, owner, domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Empty(t, fc.data)

	// The next read repopulates with the new row.
	got, err := cached.GetByIDAndOwner(context.Background(), task.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
}

func TestCachedTaskStoreDeleteEvicts(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	cached, _, fc := newCachedStore(t)
	task := seedTask(t, cached, owner)

	_, err := cached.GetByIDAndOwner(context.Background(), task.ID, owner)
	require.NoError(t, err)
	require.Len(t, fc.data, 1)

	require.NoError(t, cached.Delete(context.Background(), task.ID, owner))
	assert.Empty(t, fc.data)

	_, err = cached.GetByIDAndOwner(context.Background(), task.ID, owner)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestCachedTaskStoreFailedWriteKeepsEntry(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	cached, _, fc := newCachedStore(t)
	task := seedTask(t, cached, owner)

	_, err := cached.GetByIDAndOwner(context.Background(), task.ID, owner)
	require.NoError(t, err)
	require.Len(t, fc.data, 1)

	// A rejected patch must leave the still-valid cached entry alone.
	empty := ""
	_, err = cached.Update(context.Background(), task.ID, owner, domain.TaskPatch{Title: &empty})
	require.Error(t, err)
	assert.Len(t, fc.data, 1)
}

func TestCachedTaskStoreDegradesOnCacheFailure(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	cached, _, fc := newCachedStore(t)
	task := seedTask(t, cached, owner)

	fc.getErr = cache.ErrUnavailable
	fc.setErr = cache.ErrUnavailable

	// Reads fall back to the store.
	got, err := cached.GetByIDAndOwner(context.Background(), task.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	// Mutations still succeed even when eviction fails.
	fc.delErr = cache.ErrUnavailable
	title := "Still works"
	_, err = cached.Update(context.Background(), task.ID, owner, domain.TaskPatch{Title: &title})
	assert.NoError(t, err)
}
