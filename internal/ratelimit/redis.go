package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements sliding-window rate limiting using Redis sorted
// sets, for deployments where several instances share one quota. The whole
// check-and-admit sequence runs in a single Lua script so concurrent
// requests across instances cannot over-admit.
type RedisLimiter struct {
	client    *redis.Client
	keyPrefix string
	limit     int
	window    time.Duration
}

// slidingWindowScript removes aged entries, counts the live window, and
// admits only when the count is below the limit. Member uniqueness comes
// from an INCR counter alongside the sorted set.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)

	if current < limit then
		local counter = redis.call('INCR', key .. ':counter')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		local expire_seconds = math.ceil(window_ms / 1000)
		redis.call('EXPIRE', key, expire_seconds)
		redis.call('EXPIRE', key .. ':counter', expire_seconds)
		return {1, limit - current - 1, 0}
	else
		local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
		local reset_at = 0
		if oldest and #oldest >= 2 then
			reset_at = tonumber(oldest[2]) + window_ms
		end
		return {0, 0, reset_at}
	end
`)

// NewRedisLimiter creates a Redis-backed limiter admitting at most limit
// requests per key within any rolling window of the given length.
func NewRedisLimiter(client *redis.Client, keyPrefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		keyPrefix: keyPrefix,
		limit:     limit,
		window:    window,
	}
}

// Ensure RedisLimiter implements the Limiter interface
var _ Limiter = (*RedisLimiter)(nil)

// Allow implements Limiter.Allow.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now()

	nowMs := now.UnixMilli()
	windowStartMs := now.Add(-l.window).UnixMilli()
	windowMs := l.window.Milliseconds()

	res, err := slidingWindowScript.Run(
		ctx,
		l.client,
		[]string{l.keyPrefix + key},
		nowMs, windowStartMs, l.limit, windowMs,
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if len(res) != 3 {
		return Result{}, fmt.Errorf("unexpected redis response length: %d", len(res))
	}

	allowed := res[0] == 1
	remaining := int(res[1])
	resetAtMs := res[2]

	result := Result{
		Allowed:   allowed,
		Remaining: remaining,
		Limit:     l.limit,
	}

	if !allowed {
		if resetAtMs > 0 {
			result.RetryAfter = time.UnixMilli(resetAtMs).Sub(now)
		} else {
			result.RetryAfter = l.window
		}
		if result.RetryAfter < 0 {
			result.RetryAfter = 0
		}
	}

	return result, nil
}

// Reset clears the rate limit state for a specific key.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.keyPrefix+key, l.keyPrefix+key+":counter").Err()
}
