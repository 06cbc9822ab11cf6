// Package cli implements the yourcommute command-line interface.
//
// # Commands
//
// The main commands are:
//   - route: Print the route between two stations and its ridership table
//   - render: Write the map or scatterplot of a pair to SVG, PNG or PDF
//   - explore: Interactive terminal explorer
//   - serve: HTTP API with one explorer per session
//   - cache: Manage the rollup cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The CLI
// registers log-backed observability hooks at startup, so selection, fetch
// and cache events from the library packages show up in the log.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yourcommute/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Loaded 118 stations on 4 lines (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability Hooks
// =============================================================================

// registerHooks routes library events to l. A non-nil stats also counts
// selection and cache events.
func registerHooks(l *log.Logger, stats *observability.Stats) {
	var (
		sel observability.SelectionHooks = &logSelectionHooks{l}
		ch  observability.CacheHooks     = &logCacheHooks{l}
	)
	if stats != nil {
		sel = observability.TeeSelection(sel, stats)
		ch = observability.TeeCache(ch, stats)
	}
	observability.SetSelectionHooks(sel)
	observability.SetCacheHooks(ch)
	observability.SetHTTPHooks(&logHTTPHooks{l})
}

type logSelectionHooks struct{ logger *log.Logger }

func (h *logSelectionHooks) OnSelectionChanged(_ context.Context, from, to string, stations int) {
	h.logger.Debug("selection changed", "from", from, "to", to, "stations", stations)
}

func (h *logSelectionHooks) OnNoRoute(_ context.Context, from, to string) {
	h.logger.Debug("no route", "from", from, "to", to)
}

func (h *logSelectionHooks) OnFetchStart(_ context.Context, from string, generation uint64) {
	h.logger.Debug("fetch start", "from", from, "gen", generation)
}

func (h *logSelectionHooks) OnFetchComplete(_ context.Context, from string, generation uint64, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fetch failed", "from", from, "gen", generation, "took", d, "error", err)
		return
	}
	h.logger.Debug("fetch done", "from", from, "gen", generation, "took", d.Round(time.Millisecond))
}

func (h *logSelectionHooks) OnStaleResponse(_ context.Context, from string, generation, current uint64) {
	h.logger.Debug("stale response dropped", "from", from, "gen", generation, "current", current)
}

type logCacheHooks struct{ logger *log.Logger }

func (h *logCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

type logHTTPHooks struct{ logger *log.Logger }

func (h *logHTTPHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHTTPHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d)
}

func (h *logHTTPHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "error", err)
}

var (
	_ observability.SelectionHooks = (*logSelectionHooks)(nil)
	_ observability.CacheHooks     = (*logCacheHooks)(nil)
	_ observability.HTTPHooks      = (*logHTTPHooks)(nil)
)
