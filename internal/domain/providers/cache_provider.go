package providers

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when nothing is stored under the key
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider stores serialized read snapshots. A stale or missing snapshot
// is never an error for callers: they fall back to the source of truth.
type CacheProvider interface {
	// Get returns the snapshot stored under key, or ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl; a non-positive ttl keeps it until invalidated
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Invalidate drops every given key. Missing keys are ignored.
	Invalidate(ctx context.Context, keys ...string) error
}
