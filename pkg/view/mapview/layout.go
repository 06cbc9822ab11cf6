package mapview

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/yourcommute/pkg/network"
)

// Frame geometry in pixels.
const (
	OuterSize = 800
	Margin    = 50
	InnerSize = OuterSize - 2*Margin

	// MiddleRadius is the dot radius of a through station.
	MiddleRadius = 8.0

	// HitRadius bounds how far from a station a pointer still selects it.
	HitRadius = 20.0
)

// EndRadius is the dot radius of a line terminal.
var EndRadius = math.Max(0.02*InnerSize, 10)

// Layout maps spider coordinates into the inner frame with one uniform
// scale, so the map keeps its aspect ratio. Positions are relative to the
// inner frame's top-left corner.
type Layout struct {
	Scale float64
	Min   orb.Point

	pos   map[string]orb.Point
	order []string
}

// NewLayout computes the layout for every station in m.
func NewLayout(m *network.Model) *Layout {
	b := m.Bounds()
	xr, yr := b.Max[0]-b.Min[0], b.Max[1]-b.Min[1]

	scale := math.Inf(1)
	if xr > 0 {
		scale = InnerSize / xr
	}
	if yr > 0 {
		scale = math.Min(scale, InnerSize/yr)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}

	l := &Layout{
		Scale: scale,
		Min:   b.Min,
		pos:   make(map[string]orb.Point, len(m.Stations())),
	}
	for _, s := range m.Stations() {
		l.pos[s.ID] = orb.Point{
			(s.Position[0] - b.Min[0]) * scale,
			(s.Position[1] - b.Min[1]) * scale,
		}
		l.order = append(l.order, s.ID)
	}
	return l
}

// Position returns the scaled position of a station.
func (l *Layout) Position(id string) (orb.Point, bool) {
	p, ok := l.pos[id]
	return p, ok
}

// StationAt returns the station nearest to p within HitRadius. This is the
// same region as the station's Voronoi cell clipped to a HitRadius circle.
// Ties go to the station declared first.
func (l *Layout) StationAt(p orb.Point) (string, bool) {
	best, bestDist := "", math.Inf(1)
	for _, id := range l.order {
		if d := planar.Distance(p, l.pos[id]); d <= HitRadius && d < bestDist {
			best, bestDist = id, d
		}
	}
	return best, best != ""
}
