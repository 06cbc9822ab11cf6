package mapview

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"

	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/route"
	"github.com/matzehuels/yourcommute/pkg/selection"
)

// terminals colours the end-of-line dots.
var terminals = map[string]string{
	"place-asmnl": "red",
	"place-alfcl": "red",
	"place-brntn": "red",
	"place-wondl": "blue",
	"place-bomnl": "blue",
	"place-forhl": "orange",
	"place-ogmnl": "orange",
	"place-lech":  "green",
	"place-lake":  "green",
	"place-clmnl": "green",
	"place-river": "green",
	"place-hsmnl": "green",
}

// Glyph is the declarative render model of the map.
type Glyph struct {
	Stations []StationGlyph
	Links    []LinkGlyph
	Arrow    Arrow

	// Details is the caption under the map: "<from> to <to>", a no-route
	// notice, or empty before anything is chosen.
	Details string
}

// StationGlyph is one station dot.
type StationGlyph struct {
	ID      string
	Name    string
	Line    string
	Pos     orb.Point
	Radius  float64
	Tooltip string

	// End is the terminal colour ("red", "green", ...) or empty for a
	// through station.
	End string

	OnRoute  bool
	Start    bool
	Stop     bool
	Hover    bool
	Selected bool
}

// LinkGlyph is one line segment.
type LinkGlyph struct {
	Key      string
	Line     string
	SourceID string
	TargetID string
	Source   orb.Point
	Target   orb.Point

	// Active links have both endpoints on the route.
	Active bool
	// Start marks the route's first segment, leaving the from station.
	Start bool
}

// Arrow marks the direction of travel at the start station.
type Arrow struct {
	Visible bool
	// Anchor is the start station position.
	Anchor orb.Point
	// Angle rotates a left-pointing arrow so it points along the route,
	// in degrees, clockwise in screen space.
	Angle float64
}

// Heading returns the unit direction the arrow points to, in screen space.
func (a Arrow) Heading() orb.Point {
	rad := a.Angle * math.Pi / 180
	return orb.Point{-math.Cos(rad), -math.Sin(rad)}
}

// Symbol returns the arrow character closest to the heading.
func (a Arrow) Symbol() string {
	h := a.Heading()
	// Screen y grows downward.
	deg := math.Atan2(h[1], h[0]) * 180 / math.Pi
	symbols := []string{"→", "↘", "↓", "↙", "←", "↖", "↑", "↗"}
	i := int(math.Round(deg/45)+8) % 8
	return symbols[i]
}

// Tooltip formats the hover text of a station.
func Tooltip(s *network.Station) string {
	return fmt.Sprintf("Station: %s\nAvg. Delay Time: %d mins\nMost Common Alert: %s",
		s.DisplayName(),
		int(math.Round(s.Delay.AverageDelayMin)),
		strings.ToLower(s.Alert.Cause),
	)
}

// highlight is the pair and route the glyph is drawn for.
type highlight struct {
	from, to string
	route    route.Route
	found    bool
}

func (v *View) glyph(s selection.State, h highlight) Glyph {
	g := Glyph{
		Stations: make([]StationGlyph, 0, len(v.model.Stations())),
		Links:    make([]LinkGlyph, 0, len(v.model.Links())),
	}

	for _, st := range v.model.Stations() {
		pos, _ := v.layout.Position(st.ID)
		sg := StationGlyph{
			ID:       st.ID,
			Name:     st.DisplayName(),
			Line:     st.PrimaryLine(),
			Pos:      pos,
			Radius:   MiddleRadius,
			Tooltip:  Tooltip(st),
			End:      terminals[st.ID],
			Selected: s.RowSelected(st.ID),
			Hover:    st.ID == v.hover && !v.drag.active,
		}
		if sg.End != "" {
			sg.Radius = EndRadius
		}
		if h.found {
			sg.OnRoute = h.route.Contains(st.ID)
			sg.Start = st.ID == h.from
			sg.Stop = st.ID == h.to
			sg.Hover = false
		}
		g.Stations = append(g.Stations, sg)
	}

	var startLink *network.Link
	for _, l := range v.model.Links() {
		src, _ := v.layout.Position(l.Source.ID)
		dst, _ := v.layout.Position(l.Target.ID)
		lg := LinkGlyph{
			Key:      l.Key(),
			Line:     l.Line,
			SourceID: l.Source.ID,
			TargetID: l.Target.ID,
			Source:   src,
			Target:   dst,
		}
		if h.found {
			lg.Active = h.route.ContainsLink(l)
			lg.Start = (l.Source.ID == h.from && h.route.Contains(l.Target.ID)) ||
				(l.Target.ID == h.from && h.route.Contains(l.Source.ID))
			if lg.Start && startLink == nil {
				startLink = l
			}
		}
		g.Links = append(g.Links, lg)
	}

	switch {
	case h.found:
		from, _ := v.model.Station(h.from)
		to, _ := v.model.Station(h.to)
		g.Details = from.DisplayName() + " to " + to.DisplayName()
		if startLink != nil {
			g.Arrow = v.arrow(h.from, startLink)
		}
	case h.from != "" && h.to != "":
		g.Details = v.noRoute(h.from, h.to)
	}
	return g
}

func (v *View) arrow(from string, l *network.Link) Arrow {
	c, _ := v.layout.Position(from)
	o, _ := v.layout.Position(l.Other(from).ID)
	angle := 180 + math.Atan2(o[1]-c[1], o[0]-c[0])*180/math.Pi
	return Arrow{Visible: true, Anchor: c, Angle: angle}
}

func (v *View) noRoute(from, to string) string {
	name := func(id string) string {
		if s, ok := v.model.Station(id); ok {
			return s.DisplayName()
		}
		return id
	}
	return "No single line connects " + name(from) + " and " + name(to)
}
