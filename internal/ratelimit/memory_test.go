package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterAdmitsUpToLimit(t *testing.T) {
	t.Parallel()

	limiter := NewMemoryLimiter(5, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := limiter.Allow(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d within quota should be admitted", i+1)
		assert.Equal(t, 5-(i+1), result.Remaining)
	}

	result, err := limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.Equal(t, 5, result.Limit)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	t.Parallel()

	limiter := NewMemoryLimiter(1, time.Minute)
	ctx := context.Background()

	result, err := limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	result, err = limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	require.False(t, result.Allowed)

	result, err = limiter.Allow(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, result.Allowed, "a throttled key must not affect other keys")
}

func TestMemoryLimiterDeniedAttemptConsumesNoQuota(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := limiter.Allow(ctx, "alice")
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}

	// Hammering a throttled key must not push the window forward.
	for i := 0; i < 10; i++ {
		result, err := limiter.Allow(ctx, "alice")
		require.NoError(t, err)
		require.False(t, result.Allowed)
	}

	// Once the original admissions age out, the key is admitted again.
	now = now.Add(time.Minute + time.Second)
	result, err := limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestMemoryLimiterWindowSlides(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(2, time.Minute)
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	// t+0s and t+30s fill the quota.
	result, err := limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	now = now.Add(30 * time.Second)
	result, err = limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	require.True(t, result.Allowed)

	// At t+45s the window still holds both admissions.
	now = now.Add(15 * time.Second)
	result, err = limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	require.False(t, result.Allowed)
	// The oldest admission leaves the window at t+60s, 15s from now.
	assert.Equal(t, 15*time.Second, result.RetryAfter)

	// At t+61s the first admission has aged out; one slot is free.
	now = now.Add(16 * time.Second)
	result, err = limiter.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestMemoryLimiterConcurrentBurst(t *testing.T) {
	t.Parallel()

	const limit = 10
	const workers = 100

	limiter := NewMemoryLimiter(limit, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := limiter.Allow(ctx, "burst")
			if err == nil && result.Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, admitted, "a concurrent burst must admit exactly the quota")
}
