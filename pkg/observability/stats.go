package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Stats counts selection and cache events. Register it next to other
// hooks with [TeeSelection] and [TeeCache].
type Stats struct {
	NoopSelectionHooks
	NoopCacheHooks

	selections atomic.Int64
	noRoutes   atomic.Int64
	fetches    atomic.Int64
	failures   atomic.Int64
	stale      atomic.Int64
	fetchNanos atomic.Int64
	hits       atomic.Int64
	misses     atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Selections    int64   `json:"selections"`
	NoRoutes      int64   `json:"no_routes"`
	Fetches       int64   `json:"fetches"`
	FetchFailures int64   `json:"fetch_failures"`
	StaleDropped  int64   `json:"stale_dropped"`
	AvgFetchMs    float64 `json:"avg_fetch_ms"`
	CacheHits     int64   `json:"cache_hits"`
	CacheMisses   int64   `json:"cache_misses"`
}

func NewStats() *Stats { return &Stats{} }

func (s *Stats) OnSelectionChanged(context.Context, string, string, int) { s.selections.Add(1) }
func (s *Stats) OnNoRoute(context.Context, string, string)               { s.noRoutes.Add(1) }

func (s *Stats) OnFetchComplete(_ context.Context, _ string, _ uint64, d time.Duration, err error) {
	s.fetches.Add(1)
	s.fetchNanos.Add(int64(d))
	if err != nil {
		s.failures.Add(1)
	}
}

func (s *Stats) OnStaleResponse(context.Context, string, uint64, uint64) { s.stale.Add(1) }

func (s *Stats) OnCacheHit(context.Context, string)  { s.hits.Add(1) }
func (s *Stats) OnCacheMiss(context.Context, string) { s.misses.Add(1) }

// Snapshot copies the counters.
func (s *Stats) Snapshot() StatsSnapshot {
	snap := StatsSnapshot{
		Selections:    s.selections.Load(),
		NoRoutes:      s.noRoutes.Load(),
		Fetches:       s.fetches.Load(),
		FetchFailures: s.failures.Load(),
		StaleDropped:  s.stale.Load(),
		CacheHits:     s.hits.Load(),
		CacheMisses:   s.misses.Load(),
	}
	if snap.Fetches > 0 {
		snap.AvgFetchMs = float64(s.fetchNanos.Load()) / float64(snap.Fetches) / float64(time.Millisecond)
	}
	return snap
}

var (
	_ SelectionHooks = (*Stats)(nil)
	_ CacheHooks     = (*Stats)(nil)
)

// =============================================================================
// Fan-out
// =============================================================================

type teeSelection []SelectionHooks

// TeeSelection forwards every selection event to each of hooks in order.
func TeeSelection(hooks ...SelectionHooks) SelectionHooks { return teeSelection(hooks) }

func (t teeSelection) OnSelectionChanged(ctx context.Context, from, to string, stations int) {
	for _, h := range t {
		h.OnSelectionChanged(ctx, from, to, stations)
	}
}

func (t teeSelection) OnNoRoute(ctx context.Context, from, to string) {
	for _, h := range t {
		h.OnNoRoute(ctx, from, to)
	}
}

func (t teeSelection) OnFetchStart(ctx context.Context, from string, generation uint64) {
	for _, h := range t {
		h.OnFetchStart(ctx, from, generation)
	}
}

func (t teeSelection) OnFetchComplete(ctx context.Context, from string, generation uint64, d time.Duration, err error) {
	for _, h := range t {
		h.OnFetchComplete(ctx, from, generation, d, err)
	}
}

func (t teeSelection) OnStaleResponse(ctx context.Context, from string, generation, current uint64) {
	for _, h := range t {
		h.OnStaleResponse(ctx, from, generation, current)
	}
}

type teeCache []CacheHooks

// TeeCache forwards every cache event to each of hooks in order.
func TeeCache(hooks ...CacheHooks) CacheHooks { return teeCache(hooks) }

func (t teeCache) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range t {
		h.OnCacheHit(ctx, keyType)
	}
}

func (t teeCache) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range t {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (t teeCache) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range t {
		h.OnCacheSet(ctx, keyType, size)
	}
}
