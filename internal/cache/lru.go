package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRUCache is an in-process cache backed by an expirable LRU. It serves
// single-instance deployments where a Redis round-trip buys nothing.
// Entries are stored JSON-encoded so behavior matches the Redis backend.
type LRUCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewLRUCache creates an in-process cache holding at most size entries,
// each expiring after ttl.
func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		lru: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

// Ensure LRUCache implements the Cache interface
var _ Cache = (*LRUCache)(nil)

// Get retrieves a value from the cache.
// Returns (true, nil) on a hit, (false, nil) on a miss.
func (c *LRUCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, ok := c.lru.Get(key)
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal error: %w", err)
	}

	return true, nil
}

// Set stores a value in the cache with the configured TTL.
func (c *LRUCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal error: %w", err)
	}

	c.lru.Add(key, data)
	return nil
}

// Delete removes a value from the cache.
func (c *LRUCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}
