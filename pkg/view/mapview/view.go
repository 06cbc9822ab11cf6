package mapview

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/route"
	"github.com/matzehuels/yourcommute/pkg/selection"
	"github.com/matzehuels/yourcommute/pkg/view"
)

// View is the map view. It owns the layout and the local drag preview;
// the shared selection only changes through the intents it emits.
//
// A View is not safe for concurrent use. It belongs to the goroutine that
// owns the explorer.
type View struct {
	model   *network.Model
	layout  *Layout
	finder  *route.Finder
	intents view.Intents

	// Tap switches pointer handling to tap-tap selection for touch clients.
	Tap bool

	hover string
	drag  dragState
}

type dragState struct {
	active bool
	from   string
	to     string
}

// New creates a map view over m that reports user actions to intents.
func New(m *network.Model, intents view.Intents) *View {
	if intents == nil {
		intents = view.IntentFuncs{}
	}
	return &View{
		model:   m,
		layout:  NewLayout(m),
		finder:  route.NewFinder(m),
		intents: intents,
	}
}

// Layout returns the view's layout.
func (v *View) Layout() *Layout { return v.layout }

// Glyph derives the render model for s. While a drag preview with a
// reachable end is active, the preview route is drawn instead of s's route.
func (v *View) Glyph(s selection.State) Glyph {
	h := highlight{from: s.From, to: s.To, route: s.Route, found: s.HasRoute}
	if v.drag.active && v.drag.to != "" {
		if r, ok := v.finder.Find(v.drag.from, v.drag.to); ok {
			h = highlight{from: v.drag.from, to: v.drag.to, route: r, found: true}
		}
	}
	return v.glyph(s, h)
}

// Preview returns the pair currently previewed by a drag, if any.
func (v *View) Preview() (from, to string, ok bool) {
	if !v.drag.active || v.drag.to == "" {
		return "", "", false
	}
	return v.drag.from, v.drag.to, true
}

// =============================================================================
// Pointer input
// =============================================================================

// DragStart begins a drag at p. It reports whether p hit a station.
func (v *View) DragStart(p orb.Point) bool {
	id, ok := v.layout.StationAt(p)
	if !ok {
		return false
	}
	if v.Tap {
		v.tap(id)
		return true
	}
	v.drag = dragState{active: true, from: id}
	return true
}

// DragOver moves an active drag to p. Hovering a station reachable from the
// drag start previews that route; any other position clears the preview.
// Without an active drag it only tracks the hovered station.
func (v *View) DragOver(p orb.Point) {
	id, _ := v.layout.StationAt(p)
	v.hover = id
	if !v.drag.active || v.Tap {
		return
	}
	v.drag.to = ""
	if id == "" {
		return
	}
	if _, ok := v.finder.Find(v.drag.from, id); ok {
		v.drag.to = id
	}
}

// DragEnd finishes a drag. A drag ending on a previewed station emits
// StationPairChosen.
func (v *View) DragEnd() {
	if v.Tap || !v.drag.active {
		return
	}
	d := v.drag
	v.drag = dragState{}
	if d.to != "" {
		v.intents.StationPairChosen(d.from, d.to)
	}
}

// Cancel drops any drag or tap in progress.
func (v *View) Cancel() {
	v.drag = dragState{}
}

// tap implements two-tap selection: the first tap picks the start, the
// second picks the end and emits the pair without checking reachability.
func (v *View) tap(id string) {
	if !v.drag.active {
		v.drag = dragState{active: true, from: id}
		return
	}
	from := v.drag.from
	v.drag = dragState{}
	v.intents.StationPairChosen(from, id)
}

// ClickStation reports the clicked station's primary line.
func (v *View) ClickStation(id string) bool {
	s, ok := v.model.Station(id)
	if !ok {
		return false
	}
	v.intents.LineClicked(s.PrimaryLine())
	return true
}

// ClickLink reports the clicked link's own line.
func (v *View) ClickLink(key string) bool {
	for _, l := range v.model.Links() {
		if l.Key() == key {
			v.intents.LineClicked(l.Line)
			return true
		}
	}
	return false
}
