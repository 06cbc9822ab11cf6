package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bluele/gcache"
)

// DefaultMemoryEntries bounds MemoryCache when no size is given.
const DefaultMemoryEntries = 256

// MemoryCache is a bounded in-process LRU cache. The server uses it when
// no Redis address is configured.
type MemoryCache struct {
	lru gcache.Cache
}

// NewMemoryCache returns an LRU cache holding at most size entries.
func NewMemoryCache(size int) *MemoryCache {
	if size <= 0 {
		size = DefaultMemoryEntries
	}
	return &MemoryCache{lru: gcache.New(size).LRU().Build()}
}

// Get retrieves a value. Expired entries are misses.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := c.lru.Get(key)
	if errors.Is(err, gcache.KeyNotFoundError) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores a copy of data.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	buf := append([]byte(nil), data...)
	if ttl > 0 {
		return c.lru.SetWithExpire(key, buf, ttl)
	}
	return c.lru.Set(key, buf)
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len returns the number of live entries.
func (c *MemoryCache) Len() int {
	return c.lru.Len(true)
}

// Close purges the cache.
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
