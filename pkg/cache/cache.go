// Package cache provides byte-level caches for rollup payloads and
// explorer sessions.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for multiple server instances
//   - [MemoryCache]: bounded in-process LRU backed by gcache
//   - [NullCache]: stores nothing, for tests or --no-cache
//
// All backends implement [Cache]. A miss is reported as (nil, false, nil);
// the error result is reserved for backend failures so that callers can
// fall through to the origin on a broken cache.
//
// # Keys
//
// Keys are built by a [Keyer] so that every backend sees the same layout:
//
//	k := cache.NewDefaultKeyer()
//	key := k.RollupKey("https://example.org/data", "place-knncl")
//
// Wrap a keyer with [NewScopedKeyer] to isolate deployments that share one
// Redis instance.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	// TTLRollup bounds how long a fetched rollup file is reused. Rollups
	// are regenerated at most daily.
	TTLRollup = 24 * time.Hour

	// TTLSession bounds how long an idle explorer session is kept.
	TTLSession = 12 * time.Hour
)

// Cache stores opaque byte slices by key.
type Cache interface {
	// Get returns the cached value and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
