package selection

import (
	"slices"

	"github.com/matzehuels/yourcommute/pkg/route"
)

// State is the shared highlight state read by every view.
//
// Views never mutate a State. They emit intents that the Pipeline turns
// into a new State, which is then published to all subscribers.
type State struct {
	From string
	To   string

	// Route is valid only when HasRoute is true.
	Route    route.Route
	HasRoute bool

	HighlightedStations map[string]bool
	HighlightedLinks    map[string]bool

	// SelectedRows is the table brush channel. It is independent of the
	// station pair.
	SelectedRows []string
}

// Empty reports whether no pair has been applied yet.
func (s State) Empty() bool {
	return s.From == "" && s.To == ""
}

// Station reports whether the station is highlighted.
func (s State) Station(id string) bool {
	return s.HighlightedStations[id]
}

// Link reports whether the link key is highlighted.
func (s State) Link(key string) bool {
	return s.HighlightedLinks[key]
}

// RowSelected reports whether the station's table row is brushed.
func (s State) RowSelected(id string) bool {
	return slices.Contains(s.SelectedRows, id)
}
