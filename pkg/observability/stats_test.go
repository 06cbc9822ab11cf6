package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := NewStats()

	s.OnSelectionChanged(ctx, "place-knncl", "place-sstat", 8)
	s.OnNoRoute(ctx, "place-alfcl", "place-wondl")
	s.OnFetchStart(ctx, "place-knncl", 1)
	s.OnFetchComplete(ctx, "place-knncl", 1, 10*time.Millisecond, nil)
	s.OnFetchComplete(ctx, "place-alfcl", 2, 30*time.Millisecond, errors.New("boom"))
	s.OnStaleResponse(ctx, "place-knncl", 1, 2)
	s.OnCacheHit(ctx, "rollup")
	s.OnCacheMiss(ctx, "rollup")
	s.OnCacheMiss(ctx, "rollup")

	got := s.Snapshot()
	want := StatsSnapshot{
		Selections: 1, NoRoutes: 1, Fetches: 2, FetchFailures: 1, StaleDropped: 1,
		AvgFetchMs: 20, CacheHits: 1, CacheMisses: 2,
	}
	if got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestStatsEmpty(t *testing.T) {
	if got := NewStats().Snapshot(); got != (StatsSnapshot{}) {
		t.Errorf("empty snapshot = %+v", got)
	}
}

func TestTee(t *testing.T) {
	ctx := context.Background()
	a, b := NewStats(), NewStats()

	sel := TeeSelection(a, b)
	sel.OnSelectionChanged(ctx, "place-knncl", "place-sstat", 8)
	sel.OnFetchComplete(ctx, "place-knncl", 1, time.Millisecond, nil)

	ch := TeeCache(a, b)
	ch.OnCacheHit(ctx, "rollup")
	ch.OnCacheSet(ctx, "rollup", 10)

	for name, s := range map[string]*Stats{"a": a, "b": b} {
		snap := s.Snapshot()
		if snap.Selections != 1 || snap.Fetches != 1 || snap.CacheHits != 1 {
			t.Errorf("%s = %+v, want one of each", name, snap)
		}
	}
}
