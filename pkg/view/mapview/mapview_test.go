package mapview

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/matzehuels/yourcommute/pkg/network/networktest"
	"github.com/matzehuels/yourcommute/pkg/selection"
	"github.com/matzehuels/yourcommute/pkg/view"
)

type recorder struct {
	pairs [][2]string
	lines []string
}

func (r *recorder) intents() view.Intents {
	return view.IntentFuncs{
		OnStationPairChosen: func(from, to string) { r.pairs = append(r.pairs, [2]string{from, to}) },
		OnLineClicked:       func(line string) { r.lines = append(r.lines, line) },
	}
}

func newView(t *testing.T) (*View, *recorder, *selection.Pipeline) {
	t.Helper()
	m := networktest.Model(t)
	rec := &recorder{}
	return New(m, rec.intents()), rec, selection.NewPipeline(m)
}

func pos(t *testing.T, v *View, id string) orb.Point {
	t.Helper()
	p, ok := v.Layout().Position(id)
	if !ok {
		t.Fatalf("no position for %s", id)
	}
	return p
}

func stationGlyph(t *testing.T, g Glyph, id string) StationGlyph {
	t.Helper()
	for _, s := range g.Stations {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("station %s not in glyph", id)
	return StationGlyph{}
}

func TestLayout(t *testing.T) {
	v, _, _ := newView(t)
	l := v.Layout()

	// Fixture bounds are 15 x 9, so x limits the scale.
	if want := float64(InnerSize) / 15; math.Abs(l.Scale-want) > 1e-9 {
		t.Errorf("Scale = %v, want %v", l.Scale, want)
	}
	if got := pos(t, v, networktest.Alewife); got != (orb.Point{0, 0}) {
		t.Errorf("Alewife = %v, want origin", got)
	}
	if got := pos(t, v, networktest.Kendall); math.Abs(got[0]-5*l.Scale) > 1e-9 || got[1] != 0 {
		t.Errorf("Kendall = %v", got)
	}
	for _, s := range v.model.Stations() {
		p := pos(t, v, s.ID)
		if p[0] < 0 || p[0] > InnerSize || p[1] < 0 || p[1] > InnerSize {
			t.Errorf("%s at %v outside inner frame", s.ID, p)
		}
	}
}

func TestStationAt(t *testing.T) {
	v, _, _ := newView(t)
	k := pos(t, v, networktest.Kendall)
	step := v.Layout().Scale

	tests := []struct {
		name   string
		p      orb.Point
		want   string
		wantOK bool
	}{
		{"exact", k, networktest.Kendall, true},
		{"near", orb.Point{k[0] + 5, k[1] + 5}, networktest.Kendall, true},
		{"edge of hit radius", orb.Point{k[0], k[1] + HitRadius}, networktest.Kendall, true},
		{"between stations", orb.Point{k[0] + step/2, k[1]}, "", false},
		{"empty space", orb.Point{InnerSize, InnerSize}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := v.Layout().StationAt(tt.p)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("StationAt(%v) = %q, %v; want %q, %v", tt.p, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGlyph_Route(t *testing.T) {
	v, _, p := newView(t)
	p.SetPair(context.Background(), networktest.Kendall, networktest.SouthStation)
	g := v.Glyph(p.State())

	if g.Details != "Kendall/MIT to South Station" {
		t.Errorf("Details = %q", g.Details)
	}

	var onRoute int
	for _, s := range g.Stations {
		if s.OnRoute {
			onRoute++
		}
	}
	if onRoute != 8 {
		t.Errorf("stations on route = %d, want 8", onRoute)
	}
	if s := stationGlyph(t, g, networktest.Kendall); !s.Start || s.Stop {
		t.Errorf("Kendall flags = start %v stop %v", s.Start, s.Stop)
	}
	if s := stationGlyph(t, g, networktest.SouthStation); !s.Stop || s.Start {
		t.Errorf("South Station flags = start %v stop %v", s.Start, s.Stop)
	}

	var active, start int
	for _, l := range g.Links {
		if l.Active {
			active++
		}
		if l.Start {
			start++
			if l.Key != "place-knncl-place-chmnl" {
				t.Errorf("start link = %s", l.Key)
			}
		}
	}
	if active != 7 || start != 1 {
		t.Errorf("active = %d, start = %d; want 7, 1", active, start)
	}

	if !g.Arrow.Visible {
		t.Fatal("arrow not visible")
	}
	if g.Arrow.Anchor != pos(t, v, networktest.Kendall) {
		t.Errorf("arrow anchor = %v", g.Arrow.Anchor)
	}
	if g.Arrow.Symbol() != "→" {
		t.Errorf("arrow symbol = %q, want →", g.Arrow.Symbol())
	}
}

func TestGlyph_ReverseArrow(t *testing.T) {
	v, _, p := newView(t)
	p.SetPair(context.Background(), networktest.SouthStation, networktest.Kendall)
	g := v.Glyph(p.State())
	if g.Arrow.Symbol() != "←" {
		t.Errorf("arrow symbol = %q, want ←", g.Arrow.Symbol())
	}
}

func TestGlyph_NoRoute(t *testing.T) {
	v, _, p := newView(t)
	p.SetPair(context.Background(), networktest.Kendall, networktest.Wonderland)
	g := v.Glyph(p.State())

	if g.Arrow.Visible {
		t.Error("arrow visible without a route")
	}
	if !strings.Contains(g.Details, "Kendall/MIT") || !strings.Contains(g.Details, "Wonderland") {
		t.Errorf("Details = %q", g.Details)
	}
	for _, s := range g.Stations {
		if s.OnRoute {
			t.Errorf("%s on route", s.ID)
		}
	}
}

func TestGlyph_Empty(t *testing.T) {
	v, _, _ := newView(t)
	g := v.Glyph(selection.State{})
	if g.Details != "" || g.Arrow.Visible {
		t.Errorf("empty glyph = %q, arrow %v", g.Details, g.Arrow.Visible)
	}
	if len(g.Stations) != 26 {
		t.Errorf("stations = %d, want 26", len(g.Stations))
	}
}

func TestGlyph_Terminals(t *testing.T) {
	v, _, _ := newView(t)
	g := v.Glyph(selection.State{})

	tests := []struct {
		id     string
		end    string
		radius float64
	}{
		{networktest.Alewife, "red", EndRadius},
		{networktest.Wonderland, "blue", EndRadius},
		{networktest.Lechmere, "green", EndRadius},
		{"place-forhl", "orange", EndRadius},
		{networktest.Kendall, "", MiddleRadius},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s := stationGlyph(t, g, tt.id)
			if s.End != tt.end || s.Radius != tt.radius {
				t.Errorf("end = %q radius = %v; want %q %v", s.End, s.Radius, tt.end, tt.radius)
			}
		})
	}
	if EndRadius != 14 {
		t.Errorf("EndRadius = %v, want 14", EndRadius)
	}
}

func TestTooltip(t *testing.T) {
	m := networktest.Model(t)
	s, _ := m.Station(networktest.Kendall)
	want := "Station: Kendall/MIT\nAvg. Delay Time: 3 mins\nMost Common Alert: signal_problem"
	if got := Tooltip(s); got != want {
		t.Errorf("Tooltip() = %q, want %q", got, want)
	}
}

func TestDrag(t *testing.T) {
	v, rec, p := newView(t)

	if v.DragStart(orb.Point{InnerSize, InnerSize}) {
		t.Fatal("drag started on empty space")
	}
	if !v.DragStart(pos(t, v, networktest.Kendall)) {
		t.Fatal("drag did not start on Kendall")
	}

	v.DragOver(pos(t, v, networktest.SouthStation))
	from, to, ok := v.Preview()
	if !ok || from != networktest.Kendall || to != networktest.SouthStation {
		t.Fatalf("Preview() = %q, %q, %v", from, to, ok)
	}
	g := v.Glyph(p.State())
	if !stationGlyph(t, g, "place-chmnl").OnRoute {
		t.Error("preview route not drawn")
	}
	if len(rec.pairs) != 0 {
		t.Fatal("pair emitted before drag end")
	}

	// Unreachable station clears the preview.
	v.DragOver(pos(t, v, networktest.Wonderland))
	if _, _, ok := v.Preview(); ok {
		t.Error("preview kept over unreachable station")
	}

	v.DragOver(pos(t, v, networktest.SouthStation))
	v.DragEnd()
	if len(rec.pairs) != 1 || rec.pairs[0] != [2]string{networktest.Kendall, networktest.SouthStation} {
		t.Errorf("pairs = %v", rec.pairs)
	}
	if _, _, ok := v.Preview(); ok {
		t.Error("preview survived drag end")
	}
}

func TestDrag_EndWithoutTarget(t *testing.T) {
	v, rec, _ := newView(t)
	v.DragStart(pos(t, v, networktest.Kendall))
	v.DragOver(pos(t, v, networktest.Wonderland))
	v.DragEnd()
	if len(rec.pairs) != 0 {
		t.Errorf("pairs = %v, want none", rec.pairs)
	}
}

func TestTap(t *testing.T) {
	v, rec, _ := newView(t)
	v.Tap = true

	v.DragStart(pos(t, v, networktest.Kendall))
	if len(rec.pairs) != 0 {
		t.Fatal("first tap emitted a pair")
	}
	v.DragStart(pos(t, v, networktest.Wonderland))
	if len(rec.pairs) != 1 || rec.pairs[0] != [2]string{networktest.Kendall, networktest.Wonderland} {
		t.Errorf("pairs = %v", rec.pairs)
	}
}

func TestClick(t *testing.T) {
	v, rec, _ := newView(t)

	if !v.ClickStation(networktest.ParkStreet) {
		t.Fatal("ClickStation(ParkStreet) = false")
	}
	if !v.ClickLink("place-knncl-place-chmnl") {
		t.Fatal("ClickLink = false")
	}
	if v.ClickStation("place-nowhere") || v.ClickLink("a-b") {
		t.Error("click on unknown target reported")
	}
	want := []string{"Green", "Red"}
	if strings.Join(rec.lines, ",") != strings.Join(want, ",") {
		t.Errorf("lines = %v, want %v", rec.lines, want)
	}
}

func TestToDOT(t *testing.T) {
	v, _, p := newView(t)
	p.SetPair(context.Background(), networktest.Kendall, networktest.SouthStation)
	dot := ToDOT(v.Glyph(p.State()))

	for _, want := range []string{
		"graph map {",
		"layout=neato",
		`"place-knncl" -- "place-chmnl"`,
		`class="link red active start"`,
		`label="Kendall/MIT to South Station"`,
		`id="station-place-knncl"`,
		"→",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q", want)
		}
	}
	// Off-route links are faded.
	if !strings.Contains(dot, `color="#2196F355"`) {
		t.Error("ToDOT() did not fade off-route Blue links")
	}
}

func TestPinned(t *testing.T) {
	if got := pinned(0, 0); got != "50.00,750.00!" {
		t.Errorf("pinned(0, 0) = %q", got)
	}
	if got := pinned(InnerSize, InnerSize); got != "750.00,50.00!" {
		t.Errorf("pinned(inner, inner) = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="812pt" height="812pt" viewBox="0.00 0.00 812.00 812.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 812.00 812.00" width="812" height="812"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz render in short mode")
	}
	v, _, _ := newView(t)
	svg, err := RenderSVG(context.Background(), ToDOT(v.Glyph(selection.State{})))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}
