// Package ratelimit provides per-principal admission control. A limiter
// instance carries one quota (requests per rolling window); construct
// separate instances for endpoint classes with different quotas.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when the limiter backend cannot be reached.
var ErrUnavailable = errors.New("rate limiter unavailable")

// Result reports the outcome of an admission check.
type Result struct {
	Allowed   bool
	Remaining int
	Limit     int
	// RetryAfter is how long the caller should wait before retrying.
	// Only meaningful when Allowed is false.
	RetryAfter time.Duration
}

// Limiter decides whether a request from the given principal may proceed.
// The counter update must be atomic: under a concurrent burst, at most
// `limit` requests per window are admitted for one key.
type Limiter interface {
	// Allow records an admission attempt for key and reports whether the
	// request is within quota. A denied attempt does not consume quota.
	Allow(ctx context.Context, key string) (Result, error)
}

// sweep thresholds for the in-memory limiter's idle-key cleanup.
const (
	sweepEvery = 512
)
