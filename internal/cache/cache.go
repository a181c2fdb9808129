// Package cache provides pluggable cache backends for the task read path.
// Two backends are available: a Redis-backed cache for shared deployments
// and an in-process expirable LRU for single-instance setups. Both store
// JSON-encoded values under a fixed TTL chosen at construction time.
package cache

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the cache backend cannot be reached.
// Callers treat it as transient; the read path falls through to the store.
var ErrUnavailable = errors.New("cache unavailable")

// Cache is the capability the task read path consumes. Get reports a miss
// with (false, nil) rather than an error, so a miss and a backend failure
// stay distinguishable.
type Cache interface {
	// Get retrieves the value stored under key into dest.
	// Returns (true, nil) on a hit, (false, nil) on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value under key with the backend's configured TTL.
	Set(ctx context.Context, key string, value any) error

	// Delete evicts the entry stored under key. Deleting an absent key is
	// not an error; eviction is idempotent.
	Delete(ctx context.Context, key string) error
}
