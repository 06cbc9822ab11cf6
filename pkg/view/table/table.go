// Package table derives the per-line ridership table.
//
// One row is produced for every station with a link on the chosen line,
// in network order. The two average-rider columns carry a heat colour
// scaled from a pale base to the line colour over [0, max riders on the
// line]. Rows on the highlighted route are flagged Active; rows picked
// with the brush are flagged Selected.
package table

import (
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/selection"
	"github.com/matzehuels/yourcommute/pkg/view"
)

// Headers are the table's column titles.
var Headers = []string{
	"Station Name",
	"Avg Weekday Riders",
	"Weekday Peak Time",
	"Riders During Weekday Peak",
	"Avg Weekend Riders",
	"Weekend Peak Time",
	"Riders During Weekend Peak",
}

// HeatBase is the colour of zero riders.
const HeatBase = "#E8F5E9"

// NoPeakTime fills the peak time columns when a station has none.
const NoPeakTime = "N/A"

// Table is the render model of one line's table.
type Table struct {
	Line    string   `json:"line"`
	Color   string   `json:"color"`
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// Row is one station. Numeric cells are pre-formatted.
type Row struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	WeekdayRiders     string `json:"weekday_riders"`
	WeekdayPeakTime   string `json:"weekday_peak_time"`
	WeekdayPeakRiders string `json:"weekday_peak_riders"`
	WeekendRiders     string `json:"weekend_riders"`
	WeekendPeakTime   string `json:"weekend_peak_time"`
	WeekendPeakRiders string `json:"weekend_peak_riders"`

	WeekdayHeat string `json:"weekday_heat"`
	WeekendHeat string `json:"weekend_heat"`

	Active   bool `json:"active"`
	Selected bool `json:"selected"`
}

// Cells returns the row's cells in Headers order.
func (r Row) Cells() []string {
	return []string{
		r.Name,
		r.WeekdayRiders,
		r.WeekdayPeakTime,
		r.WeekdayPeakRiders,
		r.WeekendRiders,
		r.WeekendPeakTime,
		r.WeekendPeakRiders,
	}
}

// Build derives the table of line from m and s. selected decides the
// Selected flag of each row. ok is false when no station is on line.
func Build(m *network.Model, line string, s selection.State, selected func(id string) bool) (Table, bool) {
	stations := m.StationsOnLine(line)
	if len(stations) == 0 {
		return Table{}, false
	}
	if selected == nil {
		selected = s.RowSelected
	}

	var maxRiders float64
	for _, st := range stations {
		maxRiders = math.Max(maxRiders, math.Max(st.Ridership.Weekday.OverallAverageOns, st.Ridership.Weekend.OverallAverageOns))
	}
	heat := NewHeat(view.LineColor(line), maxRiders)

	t := Table{
		Line:    line,
		Color:   view.LineColor(line),
		Headers: Headers,
		Rows:    make([]Row, len(stations)),
	}
	for i, st := range stations {
		wd, we := st.Ridership.Weekday, st.Ridership.Weekend
		t.Rows[i] = Row{
			ID:                st.ID,
			Name:              st.DisplayName(),
			WeekdayRiders:     count(wd.OverallAverageOns),
			WeekdayPeakTime:   peak(wd.PeakTime),
			WeekdayPeakRiders: count(wd.PeakTimeAverageOns),
			WeekendRiders:     count(we.OverallAverageOns),
			WeekendPeakTime:   peak(we.PeakTime),
			WeekendPeakRiders: count(we.PeakTimeAverageOns),
			WeekdayHeat:       heat.Color(wd.OverallAverageOns),
			WeekendHeat:       heat.Color(we.OverallAverageOns),
			Active:            s.HasRoute && s.Station(st.ID),
			Selected:          selected(st.ID),
		}
	}
	return t, true
}

// count rounds half up like the browser table did.
func count(v float64) string {
	return strconv.FormatFloat(math.Floor(v+0.5), 'f', 0, 64)
}

func peak(t string) string {
	if t == "" {
		return NoPeakTime
	}
	return t
}

// Heat maps rider counts to colours.
type Heat struct {
	from, to colorful.Color
	max      float64
}

// NewHeat scales [0, maxRiders] onto HeatBase..lineColor. A zero maximum
// is treated as one.
func NewHeat(lineColor string, maxRiders float64) Heat {
	from, _ := colorful.Hex(HeatBase)
	to, err := colorful.Hex(lineColor)
	if err != nil {
		to, _ = colorful.Hex(view.DefaultLineColor)
	}
	if maxRiders == 0 {
		maxRiders = 1
	}
	return Heat{from: from, to: to, max: maxRiders}
}

// Color returns the hex colour for riders.
func (h Heat) Color(riders float64) string {
	return h.from.BlendRgb(h.to, riders/h.max).Hex()
}
