package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter implements sliding-window rate limiting with in-process
// state. All counter reads and writes for a key happen under one mutex, so
// two concurrent requests can never both take the last slot.
type MemoryLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string][]time.Time
	calls   int
	now     func() time.Time // injectable for testing
}

// NewMemoryLimiter creates an in-process limiter admitting at most limit
// requests per key within any rolling window of the given length.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Ensure MemoryLimiter implements the Limiter interface
var _ Limiter = (*MemoryLimiter)(nil)

// Allow implements Limiter.Allow.
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Drop admissions that have aged out of the window.
	times := l.buckets[key]
	live := times[:0]
	for _, t := range times {
		if t.After(windowStart) {
			live = append(live, t)
		}
	}

	if len(live) >= l.limit {
		l.buckets[key] = live
		retryAfter := live[0].Add(l.window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return Result{
			Allowed:    false,
			Remaining:  0,
			Limit:      l.limit,
			RetryAfter: retryAfter,
		}, nil
	}

	live = append(live, now)
	l.buckets[key] = live

	// Occasionally sweep keys whose entries have all expired.
	l.calls++
	if l.calls%sweepEvery == 0 {
		for k, ts := range l.buckets {
			if len(ts) == 0 || !ts[len(ts)-1].After(windowStart) {
				delete(l.buckets, k)
			}
		}
	}

	return Result{
		Allowed:   true,
		Remaining: l.limit - len(live),
		Limit:     l.limit,
	}, nil
}
