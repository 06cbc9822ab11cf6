// Package selection holds the single source of truth for what the explorer
// is showing: the chosen station pair, its highlighted route, and the rows
// brushed in the ridership table.
//
// [Pipeline.SetPair] is the only way the pair changes. It looks up the
// route, recomputes the highlight sets, publishes the new [State] to every
// subscriber synchronously, and returns a [Ticket] when a rollup fetch
// should be started. The ticket's [Generation] comes from the pipeline's
// [Sequencer], so a completion can later be checked with
// [Pipeline.IsCurrent] and dropped when the user has moved on.
//
// Subscribers register per event:
//
//	p.OnSelectionChanged(func(s selection.State) { ... })
//	p.OnRowsChosen(func(ids []string) { ... })
package selection

import (
	"context"
	"slices"

	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/observability"
	"github.com/matzehuels/yourcommute/pkg/route"
)

// Ticket authorises one rollup fetch for the origin station.
type Ticket struct {
	From       string
	To         string
	Generation Generation
}

// Outcome reports what SetPair did.
type Outcome struct {
	// Changed is false when the pair was already applied.
	Changed bool
	// Found is true when a route exists between the pair.
	Found bool
	// Fetch is non-nil when the caller must load rollup data.
	Fetch *Ticket
}

// Pipeline applies station pairs and row selections to the shared State.
// It is owned by one event loop and is not safe for concurrent use.
type Pipeline struct {
	model  *network.Model
	finder *route.Finder
	seq    Sequencer
	state  State

	selectionSubs []func(State)
	rowsSubs      []func([]string)
}

// NewPipeline returns a Pipeline over m with nothing selected.
func NewPipeline(m *network.Model) *Pipeline {
	return &Pipeline{
		model:  m,
		finder: route.NewFinder(m),
	}
}

// OnSelectionChanged registers fn to receive every new State after a pair
// is applied.
func (p *Pipeline) OnSelectionChanged(fn func(State)) {
	p.selectionSubs = append(p.selectionSubs, fn)
}

// OnRowsChosen registers fn to receive every committed row selection.
func (p *Pipeline) OnRowsChosen(fn func([]string)) {
	p.rowsSubs = append(p.rowsSubs, fn)
}

// State returns the current state.
func (p *Pipeline) State() State { return p.state }

// Sequencer exposes the fetch sequencer.
func (p *Pipeline) Sequencer() *Sequencer { return &p.seq }

// IsCurrent reports whether a fetch completion for g may be displayed.
func (p *Pipeline) IsCurrent(g Generation) bool { return p.seq.IsCurrent(g) }

// SetPair applies a station pair.
//
// Reapplying the current pair does nothing. A pair with no shared path
// clears the highlight but still records From and To. It issues no fetch
// and makes any fetch still in flight stale. Otherwise the route is highlighted, subscribers are notified,
// and a fetch ticket is returned.
func (p *Pipeline) SetPair(ctx context.Context, from, to string) Outcome {
	if !p.state.Empty() && p.state.From == from && p.state.To == to {
		return Outcome{}
	}

	next := State{
		From:                from,
		To:                  to,
		HighlightedStations: map[string]bool{},
		HighlightedLinks:    map[string]bool{},
		SelectedRows:        p.state.SelectedRows,
	}

	r, ok := p.finder.Find(from, to)
	if !ok {
		p.state = next
		p.seq.Invalidate()
		observability.Selection().OnNoRoute(ctx, from, to)
		p.publish()
		return Outcome{Changed: true}
	}

	next.Route = r
	next.HasRoute = true
	for _, id := range r.Stations() {
		next.HighlightedStations[id] = true
	}
	for _, l := range p.model.Links() {
		if r.ContainsLink(l) {
			next.HighlightedLinks[l.Key()] = true
		}
	}
	p.state = next
	observability.Selection().OnSelectionChanged(ctx, from, to, r.Len())
	p.publish()

	t := &Ticket{From: from, To: to, Generation: p.seq.Next()}
	observability.Selection().OnFetchStart(ctx, from, uint64(t.Generation))
	return Outcome{Changed: true, Found: true, Fetch: t}
}

// SetRows replaces the brushed row selection and notifies row subscribers.
func (p *Pipeline) SetRows(ids []string) {
	p.state.SelectedRows = slices.Clone(ids)
	for _, fn := range p.rowsSubs {
		fn(p.state.SelectedRows)
	}
}

func (p *Pipeline) publish() {
	for _, fn := range p.selectionSubs {
		fn(p.state)
	}
}
