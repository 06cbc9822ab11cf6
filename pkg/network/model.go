package network

import (
	"slices"
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"github.com/matzehuels/yourcommute/pkg/errors"
)

// =============================================================================
// Raw Sources
// =============================================================================

// RawNetwork is the station-network.json document. Links reference nodes
// by index.
type RawNetwork struct {
	Nodes []RawNode `json:"nodes"`
	Links []RawLink `json:"links"`
}

// RawNode is one entry of RawNetwork.Nodes.
type RawNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawLink is one entry of RawNetwork.Links.
type RawLink struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Line   string `json:"line"`
}

// RawRidership is one entry of peak_time_ridership.json. Either day type may
// be missing.
type RawRidership struct {
	Weekday *RidershipStats `json:"weekday"`
	Weekend *RidershipStats `json:"weekend"`
}

// Sources holds the decoded input documents that Build joins together.
type Sources struct {
	Network   RawNetwork
	Spider    map[string][2]float64
	Paths     [][]string
	Alerts    map[string]Alert
	Delays    map[string]DelayStats
	Ridership map[string]RawRidership
}

// =============================================================================
// Model
// =============================================================================

// Model is the joined, validated transit network. It is immutable after
// Build returns and safe to share between goroutines.
type Model struct {
	stations []*Station
	byID     map[string]*Station
	links    []*Link
	paths    []Path
	lines    []string
}

// Build joins src into a Model.
//
// Build fails with a MALFORMED_NETWORK error when a link references a node
// index out of range, a link is a self-loop, a station has no incident link,
// a station has no spider coordinate, a station ID is duplicated or not
// usable in a fragment or file name, or a path references an unknown
// station or an unlinked pair of stations.
func Build(src Sources) (*Model, error) {
	m := &Model{
		stations: make([]*Station, len(src.Network.Nodes)),
		byID:     make(map[string]*Station, len(src.Network.Nodes)),
	}

	for i, n := range src.Network.Nodes {
		if err := errors.ValidateStationID(n.ID); err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedNetwork, err, "node %d", i)
		}
		if _, dup := m.byID[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeMalformedNetwork, "duplicate station id %q", n.ID)
		}
		s := &Station{ID: n.ID, Name: n.Name}
		m.stations[i] = s
		m.byID[n.ID] = s
	}

	if err := m.resolveLinks(src.Network.Links); err != nil {
		return nil, err
	}

	alerts := foldAlerts(src.Alerts)
	for _, s := range m.stations {
		if len(s.Links) == 0 {
			return nil, errors.New(errors.ErrCodeMalformedNetwork, "station %q has no incident line", s.ID)
		}
		xy, ok := src.Spider[s.ID]
		if !ok {
			return nil, errors.New(errors.ErrCodeMalformedNetwork, "station %q has no spider coordinate", s.ID)
		}
		s.Position = orb.Point{xy[0], xy[1]}
		s.IncidentLines = distinctLines(s.Links)
		s.Delay = src.Delays[s.ID]
		s.Alert = alerts[strings.ToLower(s.PrimaryLine())]
		s.Ridership = joinRidership(src.Ridership[s.ID])
	}

	if err := m.validatePaths(src.Paths); err != nil {
		return nil, err
	}

	m.lines = collectLines(m.links)
	return m, nil
}

// resolveLinks turns index references into station pointers and records
// each link on both endpoints, newest first.
func (m *Model) resolveLinks(raw []RawLink) error {
	m.links = make([]*Link, 0, len(raw))
	n := len(m.stations)

	for i, rl := range raw {
		if rl.Source < 0 || rl.Source >= n {
			return errors.New(errors.ErrCodeMalformedNetwork, "link %d: source index %d out of range", i, rl.Source)
		}
		if rl.Target < 0 || rl.Target >= n {
			return errors.New(errors.ErrCodeMalformedNetwork, "link %d: target index %d out of range", i, rl.Target)
		}
		if rl.Source == rl.Target {
			return errors.New(errors.ErrCodeMalformedNetwork, "link %d: station %q links to itself", i, m.stations[rl.Source].ID)
		}

		l := &Link{Source: m.stations[rl.Source], Target: m.stations[rl.Target], Line: rl.Line}
		l.Source.Links = slices.Insert(l.Source.Links, 0, l)
		l.Target.Links = slices.Insert(l.Target.Links, 0, l)
		m.links = append(m.links, l)
	}
	return nil
}

func (m *Model) validatePaths(raw [][]string) error {
	m.paths = make([]Path, len(raw))
	for i, p := range raw {
		for j, id := range p {
			s, ok := m.byID[id]
			if !ok {
				return errors.New(errors.ErrCodeMalformedNetwork, "path %d: unknown station %q", i, id)
			}
			if j > 0 && !linked(s, p[j-1]) {
				return errors.New(errors.ErrCodeMalformedNetwork, "path %d: no link between %q and %q", i, p[j-1], id)
			}
		}
		m.paths[i] = Path(slices.Clone(p))
	}
	return nil
}

func linked(s *Station, other string) bool {
	for _, l := range s.Links {
		if l.Other(s.ID).ID == other {
			return true
		}
	}
	return false
}

// foldAlerts indexes alerts by lower-cased line. When two keys differ only
// in case, the lexically smallest key wins so the result is deterministic.
func foldAlerts(alerts map[string]Alert) map[string]Alert {
	keys := make([]string, 0, len(alerts))
	for k := range alerts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]Alert, len(alerts))
	for _, k := range keys {
		lk := strings.ToLower(k)
		if _, seen := out[lk]; !seen {
			out[lk] = alerts[k]
		}
	}
	return out
}

func joinRidership(r RawRidership) Ridership {
	var out Ridership
	if r.Weekday != nil {
		out.Weekday = *r.Weekday
	}
	if r.Weekend != nil {
		out.Weekend = *r.Weekend
	}
	return out
}

func distinctLines(links []*Link) []string {
	var out []string
	for _, l := range links {
		if !slices.Contains(out, l.Line) {
			out = append(out, l.Line)
		}
	}
	return out
}

func collectLines(links []*Link) []string {
	var out []string
	for _, l := range links {
		if !slices.Contains(out, l.Line) {
			out = append(out, l.Line)
		}
	}
	sort.Strings(out)
	return out
}

// =============================================================================
// Accessors
// =============================================================================

// Station returns the station with the given ID.
func (m *Model) Station(id string) (*Station, bool) {
	s, ok := m.byID[id]
	return s, ok
}

// Has reports whether id names a station.
func (m *Model) Has(id string) bool {
	_, ok := m.byID[id]
	return ok
}

// Stations returns all stations in source order.
func (m *Model) Stations() []*Station { return m.stations }

// Links returns all links in source order.
func (m *Model) Links() []*Link { return m.links }

// Paths returns the precomputed line paths in source order.
func (m *Model) Paths() []Path { return m.paths }

// Lines returns the distinct line identifiers, sorted.
func (m *Model) Lines() []string { return m.lines }

// StationsOnLine returns stations with at least one link on line, in source
// order. The comparison is exact.
func (m *Model) StationsOnLine(line string) []*Station {
	var out []*Station
	for _, s := range m.stations {
		if s.OnLine(line) {
			out = append(out, s)
		}
	}
	return out
}

// Bounds returns the bounding box of all unscaled station positions.
func (m *Model) Bounds() orb.Bound {
	mp := make(orb.MultiPoint, len(m.stations))
	for i, s := range m.stations {
		mp[i] = s.Position
	}
	return mp.Bound()
}
