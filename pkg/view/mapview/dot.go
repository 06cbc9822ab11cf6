package mapview

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/view"
)

const (
	// arrowOffset is how far ahead of the start station the arrow sits.
	arrowOffset = 14.0

	startStopFill = "#212121"
	inactiveAlpha = "55"
)

// ToDOT converts a glyph to Graphviz DOT with every station pinned at its
// layout position. Render it with [RenderSVG] using the neato engine.
//
// SVG class attributes carry the glyph flags (on-route, start, stop, end,
// selected, active) so stylesheets can restyle the output.
func ToDOT(g Glyph) string {
	var buf bytes.Buffer
	buf.WriteString("graph map {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%d,%d\";\n", OuterSize, OuterSize)
	buf.WriteString("  node [shape=circle, fixedsize=true, style=filled, label=\"\", penwidth=2];\n")
	buf.WriteString("  edge [penwidth=4];\n")
	if g.Details != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=b;\n  fontsize=18;\n", g.Details)
	}
	buf.WriteString("\n")

	for _, s := range g.Stations {
		fmt.Fprintf(&buf, "  %q [%s];\n", s.ID, strings.Join(stationAttrs(s), ", "))
	}

	buf.WriteString("\n")
	dim := hasActive(g)
	for _, l := range g.Links {
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", l.SourceID, l.TargetID, strings.Join(linkAttrs(l, dim), ", "))
	}

	if g.Arrow.Visible {
		h := g.Arrow.Heading()
		x := g.Arrow.Anchor[0] + h[0]*arrowOffset
		y := g.Arrow.Anchor[1] + h[1]*arrowOffset
		fmt.Fprintf(&buf, "\n  \"arrow\" [shape=plaintext, style=\"\", fixedsize=false, label=%q, fontsize=20, pos=%q, class=\"arrow\"];\n",
			g.Arrow.Symbol(), pinned(x, y))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// pinned formats a layout position as a fixed neato position in points,
// flipping y because Graphviz grows upward.
func pinned(x, y float64) string {
	return fmt.Sprintf("%.2f,%.2f!", x+Margin, float64(InnerSize)-y+Margin)
}

func stationAttrs(s StationGlyph) []string {
	color := view.LineColor(s.Line)
	fill := "white"
	classes := []string{"station"}

	switch {
	case s.Start || s.Stop:
		fill = startStopFill
	case s.End != "":
		fill = view.LineColor(s.End)
	case s.OnRoute:
		fill = color
	}
	if s.End != "" {
		classes = append(classes, "end", s.End)
	}
	for _, f := range []struct {
		on   bool
		name string
	}{
		{s.OnRoute, "on-route"},
		{s.Start, "start"},
		{s.Stop, "stop"},
		{s.Selected, "selected"},
		{s.Hover, "hover"},
	} {
		if f.on {
			classes = append(classes, f.name)
		}
	}

	attrs := []string{
		fmt.Sprintf("pos=%q", pinned(s.Pos[0], s.Pos[1])),
		fmt.Sprintf("width=%.3f", 2*s.Radius/72),
		fmt.Sprintf("color=%q", color),
		fmt.Sprintf("fillcolor=%q", fill),
		fmt.Sprintf("tooltip=%q", s.Tooltip),
		fmt.Sprintf("id=%q", "station-"+s.ID),
		fmt.Sprintf("class=%q", strings.Join(classes, " ")),
	}
	if s.Selected {
		attrs = append(attrs, "penwidth=4")
	}
	return attrs
}

// linkAttrs fades links off the route while one is highlighted.
func linkAttrs(l LinkGlyph, dim bool) []string {
	color := view.LineColor(l.Line)
	if dim && !l.Active {
		color += inactiveAlpha
	}
	classes := []string{"link", strings.ToLower(l.Line)}
	width := 4
	if l.Active {
		classes = append(classes, "active")
		width = 8
	}
	if l.Start {
		classes = append(classes, "start")
	}
	return []string{
		fmt.Sprintf("color=%q", color),
		fmt.Sprintf("penwidth=%d", width),
		fmt.Sprintf("id=%q", "link-"+l.Key),
		fmt.Sprintf("class=%q", strings.Join(classes, " ")),
	}
}

func hasActive(g Glyph) bool {
	for _, l := range g.Links {
		if l.Active {
			return true
		}
	}
	return false
}

// RenderSVG renders DOT produced by [ToDOT] to SVG using Graphviz. The
// result can be converted further with [view.Convert].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render map")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the SVG scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
