// Package route finds the route between two stations over the network's
// precomputed line paths.
//
// Routes are never searched for. A pair is reachable only when both
// stations occur in the same [network.Path]; the route is the inclusive
// slice of that path between them. When several paths contain the pair,
// the earliest path in source order wins.
package route

import (
	"github.com/matzehuels/yourcommute/pkg/network"
)

// Route is the portion of one path lying between a chosen station pair.
//
// Membership is direction independent: Find(a, b) and Find(b, a) contain
// the same stations. From and To keep the chosen direction for display.
type Route struct {
	From      string
	To        string
	PathIndex int

	members map[string]bool
	ordered []string
}

// Contains reports whether the station is on the route.
func (r Route) Contains(id string) bool {
	return r.members[id]
}

// ContainsLink reports whether both endpoints of l are on the route.
func (r Route) ContainsLink(l *network.Link) bool {
	return r.members[l.Source.ID] && r.members[l.Target.ID]
}

// Stations returns the route's stations in travel order, From first.
func (r Route) Stations() []string {
	out := make([]string, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Len returns the number of stations on the route.
func (r Route) Len() int { return len(r.ordered) }

// Finder looks up routes in a network model.
type Finder struct {
	paths []network.Path
}

// NewFinder returns a Finder over m's paths.
func NewFinder(m *network.Model) *Finder {
	return &Finder{paths: m.Paths()}
}

// Find returns the route from one station to another.
// The second result is false when from equals to or no single path holds
// both stations.
func (f *Finder) Find(from, to string) (Route, bool) {
	if from == to {
		return Route{}, false
	}
	for pi, p := range f.paths {
		i, j := p.Index(from), p.Index(to)
		if i < 0 || j < 0 {
			continue
		}
		return newRoute(from, to, pi, p, i, j), true
	}
	return Route{}, false
}

func newRoute(from, to string, pi int, p network.Path, i, j int) Route {
	lo, hi := min(i, j), max(i, j)
	r := Route{
		From:      from,
		To:        to,
		PathIndex: pi,
		members:   make(map[string]bool, hi-lo+1),
		ordered:   make([]string, 0, hi-lo+1),
	}
	for _, id := range p[lo : hi+1] {
		r.members[id] = true
	}
	if i <= j {
		r.ordered = append(r.ordered, p[lo:hi+1]...)
	} else {
		for k := hi; k >= lo; k-- {
			r.ordered = append(r.ordered, p[k])
		}
	}
	return r
}
