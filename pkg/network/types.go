package network

import (
	"strings"

	"github.com/paulmach/orb"
)

// =============================================================================
// Station
// =============================================================================

// Station is a transit stop joined from all input sources.
//
// Delay, Alert and Ridership are always present; a station missing from a
// source gets the zero value so formatting code never branches on presence.
type Station struct {
	ID        string
	Name      string
	Position  orb.Point // spider-map coordinate, unscaled
	Delay     DelayStats
	Alert     Alert
	Ridership Ridership

	// Links holds incident links, most recently declared first.
	Links []*Link

	// IncidentLines holds the distinct lines of Links in the same order.
	IncidentLines []string
}

// PrimaryLine returns the line of the first incident link.
// Construction guarantees every station has at least one link.
func (s *Station) PrimaryLine() string {
	if len(s.Links) == 0 {
		return ""
	}
	return s.Links[0].Line
}

// OnLine reports whether any incident link belongs to line.
func (s *Station) OnLine(line string) bool {
	for _, l := range s.Links {
		if l.Line == line {
			return true
		}
	}
	return false
}

// DisplayName returns the name used in captions, titles and table rows.
func (s *Station) DisplayName() string {
	return strings.TrimSpace(s.Name)
}

// =============================================================================
// Link
// =============================================================================

// Link is an undirected connection between two stations on one line.
type Link struct {
	Source *Station
	Target *Station
	Line   string
}

// Key returns the stable identity "<source>-<target>" used for highlighting.
func (l *Link) Key() string {
	return LinkKey(l.Source.ID, l.Target.ID)
}

// Touches reports whether id is one of the link's endpoints.
func (l *Link) Touches(id string) bool {
	return l.Source.ID == id || l.Target.ID == id
}

// Other returns the endpoint opposite id, or nil if id is not an endpoint.
func (l *Link) Other(id string) *Station {
	switch id {
	case l.Source.ID:
		return l.Target
	case l.Target.ID:
		return l.Source
	default:
		return nil
	}
}

// LinkKey formats the key of a link between two station IDs.
func LinkKey(source, target string) string {
	return source + "-" + target
}

// =============================================================================
// Path
// =============================================================================

// Path is an ordered sequence of station IDs describing one continuous
// line route. Branches are separate paths.
type Path []string

// Index returns the position of id in the path, or -1.
func (p Path) Index(id string) int {
	for i, s := range p {
		if s == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// Per-station statistics
// =============================================================================

// RidershipStats summarises boardings for one day type.
type RidershipStats struct {
	OverallAverageOns  float64 `json:"overall_average_ons" bson:"overall_average_ons"`
	PeakTime           string  `json:"peak_time,omitempty" bson:"peak_time,omitempty"`
	PeakTimeAverageOns float64 `json:"peak_time_average_ons" bson:"peak_time_average_ons"`
}

// Ridership holds weekday and weekend boarding statistics.
type Ridership struct {
	Weekday RidershipStats `json:"weekday" bson:"weekday"`
	Weekend RidershipStats `json:"weekend" bson:"weekend"`
}

// DelayStats holds the historical delay at a station.
type DelayStats struct {
	AverageDelayMin float64 `json:"average_delay_min" bson:"average_delay_min"`
}

// Alert is the most common service alert recorded for a line.
type Alert struct {
	Cause  string `json:"cause" bson:"cause"`
	Effect string `json:"effect,omitempty" bson:"effect,omitempty"`
	Count  int    `json:"count,omitempty" bson:"count,omitempty"`
}
