package rollup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yourcommute/pkg/cache"
	"github.com/matzehuels/yourcommute/pkg/observability"
)

// Cached wraps a Loader with a cache. Hits report progress 100 at once.
// Cache failures are logged and fall through to the source.
type Cached struct {
	source Loader
	name   string
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewCached wraps source. name identifies the source in cache keys; it
// is usually the base URL or directory. A nil keyer means the default.
func NewCached(source Loader, name string, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if name == "" {
		name = fmt.Sprint(source)
	}
	return &Cached{
		source: source,
		name:   name,
		cache:  c,
		keyer:  keyer,
		ttl:    cache.TTLRollup,
		logger: logger,
	}
}

// Load returns the cached file for from, or loads and stores it.
func (c *Cached) Load(ctx context.Context, from string, progress func(pct int)) (File, error) {
	key := c.keyer.RollupKey(c.name, from)

	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.warn("cache read failed", "from", from, "error", err)
	}
	if hit {
		if f, err := Decode(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "rollup")
			if progress != nil {
				progress(100)
			}
			return f, nil
		}
		_ = c.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "rollup")

	f, err := c.source.Load(ctx, from, progress)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(f); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.warn("cache write failed", "from", from, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "rollup", len(data))
		}
	}
	return f, nil
}

func (c *Cached) warn(msg string, kv ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, kv...)
	}
}
