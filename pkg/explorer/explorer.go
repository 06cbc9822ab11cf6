// Package explorer wires the network model, the selection pipeline and the
// three views into one commute explorer.
//
// An [Explorer] is owned by a single goroutine. It applies station pairs,
// keeps the permalink fragment in step with the pair, and starts a rollup
// fetch for every pair with a route. Fetch progress and completion reach
// the owner through [Options.Post]; each completion is checked against the
// pipeline's sequencer and dropped when a newer pair was chosen since:
//
//	SetPair(A)  ──fetch A (slow)───────────────────────▶ dropped
//	SetPair(B)  ──fetch B (fast)──────▶ shown
//
// [Loop] provides an owner goroutine for servers and tests. The terminal
// explorer uses the bubbletea update loop instead.
package explorer

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/hashroute"
	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/observability"
	"github.com/matzehuels/yourcommute/pkg/rollup"
	"github.com/matzehuels/yourcommute/pkg/selection"
	"github.com/matzehuels/yourcommute/pkg/view"
	"github.com/matzehuels/yourcommute/pkg/view/mapview"
	"github.com/matzehuels/yourcommute/pkg/view/scatter"
	"github.com/matzehuels/yourcommute/pkg/view/table"
)

// Default pair shown when no valid fragment is given.
const (
	DefaultFrom = "place-knncl"
	DefaultTo   = "place-sstat"
)

// DefaultFetchTimeout bounds one rollup fetch.
const DefaultFetchTimeout = 30 * time.Second

// Options configures an Explorer.
type Options struct {
	Logger *log.Logger

	// Post delivers fetch callbacks to the owning goroutine. When nil,
	// fetches run synchronously inside SetPair.
	Post func(func())

	// MaxPoints caps the scatterplot points. Zero draws all.
	MaxPoints int

	// Tap selects stations with two taps instead of a drag.
	Tap bool

	FetchTimeout time.Duration
}

// Explorer is the commute explorer. It is not safe for concurrent use.
type Explorer struct {
	model    *network.Model
	loader   rollup.Loader
	logger   *log.Logger
	post     func(func())
	timeout  time.Duration
	pipeline *selection.Pipeline

	Map     *mapview.View
	Scatter *scatter.View
	Table   *table.View

	anchor    string
	highlight scatter.Highlight
	fetches   sync.WaitGroup
}

// New creates an explorer with nothing selected. Call Start to show the
// first pair.
func New(m *network.Model, loader rollup.Loader, opts Options) *Explorer {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	e := &Explorer{
		model:    m,
		loader:   loader,
		logger:   logger,
		post:     opts.Post,
		timeout:  timeout,
		pipeline: selection.NewPipeline(m),
	}
	e.Map = mapview.New(m, e)
	e.Map.Tap = opts.Tap
	e.Scatter = scatter.New(m)
	e.Scatter.MaxPoints = opts.MaxPoints
	e.Table = table.New(m, e)

	e.pipeline.OnRowsChosen(e.Table.SyncRows)
	return e
}

// Model returns the network model.
func (e *Explorer) Model() *network.Model { return e.model }

// State returns the shared selection state.
func (e *Explorer) State() selection.State { return e.pipeline.State() }

// Pipeline exposes the selection pipeline for additional subscribers.
func (e *Explorer) Pipeline() *selection.Pipeline { return e.pipeline }

// Anchor returns the permalink fragment of the applied pair.
func (e *Explorer) Anchor() string { return e.anchor }

// Highlight returns the scatterplot description at the highlighted hour.
func (e *Explorer) Highlight() scatter.Highlight { return e.highlight }

// Start shows the pair named by fragment, or the default pair when the
// fragment is empty or invalid.
func (e *Explorer) Start(ctx context.Context, fragment string) {
	from, to, ok := hashroute.Decode(fragment, e.model)
	if !ok {
		from, to = DefaultFrom, DefaultTo
	}
	e.SetPair(ctx, from, to)
}

// ApplyHash applies a fragment. Invalid fragments leave the explorer
// untouched and return INVALID_HASH or UNKNOWN_STATION.
func (e *Explorer) ApplyHash(ctx context.Context, fragment string) error {
	from, to, err := hashroute.Parse(fragment, e.model)
	if err != nil {
		return err
	}
	e.SetPair(ctx, from, to)
	return nil
}

// Choose applies a pair picked from a link outside the map.
func (e *Explorer) Choose(ctx context.Context, start, end string) error {
	for _, id := range []string{start, end} {
		if !e.model.Has(id) {
			return errors.New(errors.ErrCodeUnknownStation, "unknown station %q", id)
		}
	}
	e.SetPair(ctx, start, end)
	return nil
}

// SetPair applies a station pair. Reapplying the shown pair does nothing.
// A pair with a route starts a rollup fetch for its origin; a pair without
// one clears the scatterplot.
func (e *Explorer) SetPair(ctx context.Context, from, to string) selection.Outcome {
	out := e.pipeline.SetPair(ctx, from, to)
	if !out.Changed {
		return out
	}
	e.anchor = hashroute.Encode(from, to)
	if e.Table.Line() == "" {
		if s, ok := e.model.Station(from); ok {
			e.Table.ShowLine(s.PrimaryLine())
		}
	}
	if !out.Found {
		e.logger.Info("no route", "from", from, "to", to)
		e.Scatter.Clear(from, to)
		e.highlight = scatter.Highlight{}
		return out
	}
	e.Scatter.Begin(from, to)
	e.fetch(ctx, *out.Fetch)
	return out
}

// ShowLine switches the ridership table to line.
func (e *Explorer) ShowLine(line string) error {
	if !e.Table.ShowLine(line) {
		return errors.New(errors.ErrCodeNotFound, "no stations on line %q", line)
	}
	return nil
}

// SetRows commits a row selection.
func (e *Explorer) SetRows(ids []string) {
	e.pipeline.SetRows(ids)
}

// HighlightHour moves the scatterplot highlight to hour.
func (e *Explorer) HighlightHour(hour float64) scatter.Highlight {
	e.highlight = e.Scatter.HighlightHour(hour)
	return e.highlight
}

// Prefetch starts loading the rollup of start without showing it, so a
// following Choose is served from the loader's cache.
func (e *Explorer) Prefetch(ctx context.Context, start string) error {
	if !e.model.Has(start) {
		return errors.New(errors.ErrCodeUnknownStation, "unknown station %q", start)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	e.fetches.Add(1)
	go func() {
		defer e.fetches.Done()
		defer cancel()
		if _, err := e.loader.Load(ctx, start, nil); err != nil {
			e.logger.Debug("prefetch failed", "from", start, "error", err)
		}
	}()
	return nil
}

// Wait blocks until every fetch goroutine has returned. Callbacks posted
// by those fetches may still be queued on the owner.
func (e *Explorer) Wait() { e.fetches.Wait() }

// =============================================================================
// Intents
// =============================================================================

// StationPairChosen applies a pair chosen on the map.
func (e *Explorer) StationPairChosen(from, to string) {
	e.SetPair(context.Background(), from, to)
}

// LineClicked shows the clicked line's table.
func (e *Explorer) LineClicked(line string) {
	if err := e.ShowLine(line); err != nil {
		e.logger.Debug("line click ignored", "line", line)
	}
}

// RowRangeDragged commits a table brush.
func (e *Explorer) RowRangeDragged(ids []string) {
	e.SetRows(ids)
}

var _ view.Intents = (*Explorer)(nil)

// =============================================================================
// Fetching
// =============================================================================

func (e *Explorer) fetch(ctx context.Context, t selection.Ticket) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	start := time.Now()

	if e.post == nil {
		defer cancel()
		f, err := e.loader.Load(ctx, t.From, func(pct int) { e.progress(t, pct) })
		e.complete(ctx, t, f, err, time.Since(start))
		return
	}

	post := e.post
	e.fetches.Add(1)
	go func() {
		defer e.fetches.Done()
		defer cancel()
		f, err := e.loader.Load(ctx, t.From, func(pct int) {
			post(func() { e.progress(t, pct) })
		})
		d := time.Since(start)
		post(func() { e.complete(ctx, t, f, err, d) })
	}()
}

func (e *Explorer) progress(t selection.Ticket, pct int) {
	if !e.pipeline.IsCurrent(t.Generation) {
		return
	}
	e.Scatter.Progress(pct)
}

func (e *Explorer) complete(ctx context.Context, t selection.Ticket, f rollup.File, err error, d time.Duration) {
	gen := uint64(t.Generation)
	if !e.pipeline.IsCurrent(t.Generation) {
		observability.Selection().OnStaleResponse(ctx, t.From, gen, uint64(e.pipeline.Sequencer().Current()))
		return
	}
	observability.Selection().OnFetchComplete(ctx, t.From, gen, d, err)

	if err != nil {
		e.logger.Warn("rollup load failed", "from", t.From, "error", err)
		e.Scatter.Fail(err)
		return
	}
	if err := e.Scatter.Show(f); err != nil {
		e.logger.Warn("rollup has no trips for pair", "from", t.From, "to", t.To)
		return
	}
	e.highlight = e.Scatter.Highlighted()
	e.logger.Debug("scatter updated", "from", t.From, "to", t.To, "took", d)
}
