package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheStats(t *testing.T) {
	t.Parallel()

	// Point at a closed port so every command fails fast; the stats counters
	// are what's under test, not the transport.
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisCache(client, "test", time.Minute)
	ctx := context.Background()

	assert.Equal(t, Stats{}, c.GetStats(), "fresh cache starts at zero")

	var dest struct{}
	_, err := c.Get(ctx, "k1", &dest)
	require.ErrorIs(t, err, ErrUnavailable)

	require.ErrorIs(t, c.Set(ctx, "k1", "v"), ErrUnavailable)
	require.ErrorIs(t, c.Delete(ctx, "k1"), ErrUnavailable)

	stats := c.GetStats()
	assert.Equal(t, uint64(3), stats.Errors)
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
	assert.Zero(t, stats.Sets)
	assert.Zero(t, stats.Deletes)
}
