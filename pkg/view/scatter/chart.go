package scatter

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/yourcommute/pkg/errors"
)

var (
	topColor    = drawing.ColorFromHex("2196F3")
	bottomColor = drawing.ColorFromHex("FF9800")
	axisColor   = drawing.ColorFromHex("9E9E9E")
)

// Outer chart size, margins included.
const (
	chartWidth  = Width + 40 + 60
	chartHeight = Height + 35 + 15
)

func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    1,
		DotColor:    col.WithAlpha(204),
	}
}

func bandStyle(col drawing.Color, width float64, dashed bool) chart.Style {
	s := chart.Style{StrokeColor: col, StrokeWidth: width}
	if dashed {
		s.StrokeDashArray = []float64{4, 3}
	}
	return s
}

// Chart builds the go-chart chart of the current plot. While loading or
// after a failure the title carries the status text.
func (v *View) Chart() chart.Chart {
	title := v.Title()
	if t := v.StatusText(); t != "" {
		title = t
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "zero",
			XValues: []float64{MinHour, MaxHour},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeColor: axisColor, StrokeWidth: 1},
		},
	}

	if v.status == StatusReady {
		series = append(series, v.pointSeries()...)
		series = append(series, v.bandSeries()...)
	}

	ticks := make([]chart.Tick, 0, 8)
	for h := 6.0; h <= MaxHour; h += 3 {
		ticks = append(ticks, chart.Tick{Value: h, Label: TickLabel(h)})
	}

	d := v.YDomain()
	if d[1] <= d[0] {
		d[1] = d[0] + 1
	}

	return chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 35, Left: 40, Right: 60, Bottom: 15}},
		XAxis: chart.XAxis{
			Name:  Subtitle,
			Range: &chart.ContinuousRange{Min: MinHour, Max: MaxHour},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  "Trip duration / minutes between trains",
			Range: &chart.ContinuousRange{Min: d[0], Max: d[1]},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", math.Abs(f))
				}
				return ""
			},
		},
		Series: series,
	}
}

func (v *View) pointSeries() []chart.Series {
	top, bottom := v.TopPoints(), v.BottomPoints()
	if len(top) == 0 {
		return nil
	}
	split := func(ps []Point) ([]float64, []float64) {
		xs, ys := make([]float64, len(ps)), make([]float64, len(ps))
		for i, p := range ps {
			xs[i], ys[i] = p.Hour, p.Minutes
		}
		return xs, ys
	}
	tx, ty := split(top)
	bx, by := split(bottom)
	return []chart.Series{
		chart.ContinuousSeries{Name: "transit", XValues: tx, YValues: ty, Style: pointStyle(topColor)},
		chart.ContinuousSeries{Name: "wait", XValues: bx, YValues: by, Style: pointStyle(bottomColor)},
	}
}

// bandSeries draws the 10th, 50th and 90th percentiles of each half. The
// median is solid and the outer percentiles dashed.
func (v *View) bandSeries() []chart.Series {
	bands := v.Bands()
	if len(bands) == 0 {
		return nil
	}
	hours := make([]float64, len(bands))
	for i, b := range bands {
		hours[i] = b.Hour
	}

	var out []chart.Series
	for k, name := range []string{"p10", "p50", "p90"} {
		transit := make([]float64, len(bands))
		wait := make([]float64, len(bands))
		for i, b := range bands {
			transit[i] = b.Transit[k]
			wait[i] = -b.Wait[k]
		}
		width, dashed := 1.0, true
		if k == 1 {
			width, dashed = 2, false
		}
		out = append(out,
			chart.ContinuousSeries{Name: "transit " + name, XValues: hours, YValues: transit, Style: bandStyle(topColor, width, dashed)},
			chart.ContinuousSeries{Name: "wait " + name, XValues: hours, YValues: wait, Style: bandStyle(bottomColor, width, dashed)},
		)
	}
	return out
}

// RenderSVG draws the current plot as SVG.
func (v *View) RenderSVG() ([]byte, error) {
	ch := v.Chart()
	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render scatter")
	}
	return buf.Bytes(), nil
}
