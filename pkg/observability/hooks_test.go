package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Selection hooks
	s := NoopSelectionHooks{}
	s.OnSelectionChanged(ctx, "place-knncl", "place-sstat", 8)
	s.OnNoRoute(ctx, "place-alfcl", "place-wondl")
	s.OnFetchStart(ctx, "place-knncl", 1)
	s.OnFetchComplete(ctx, "place-knncl", 1, time.Second, nil)
	s.OnStaleResponse(ctx, "place-knncl", 1, 2)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "rollup")
	c.OnCacheMiss(ctx, "rollup")
	c.OnCacheSet(ctx, "rollup", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "example.org", "/data/upick2-weekday-rollup-place-knncl.json")
	h.OnResponse(ctx, "GET", "example.org", "/data/upick2-weekday-rollup-place-knncl.json", 200, time.Second)
	h.OnError(ctx, "GET", "example.org", "/data/upick2-weekday-rollup-place-knncl.json", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Selection().(NoopSelectionHooks); !ok {
		t.Error("Selection() should return NoopSelectionHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customSelection := &testSelectionHooks{}
	SetSelectionHooks(customSelection)
	if Selection() != customSelection {
		t.Error("SetSelectionHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Selection().(NoopSelectionHooks); !ok {
		t.Error("Reset() should restore NoopSelectionHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSelectionHooks{}
	SetSelectionHooks(custom)
	SetSelectionHooks(nil)

	if Selection() != custom {
		t.Error("SetSelectionHooks(nil) should be ignored")
	}

	Reset()
}

type testSelectionHooks struct{ NoopSelectionHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
