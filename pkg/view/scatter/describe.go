package scatter

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// Highlight describes the plot at one hour.
type Highlight struct {
	// Hour is the requested hour clamped to the x domain.
	Hour float64
	// X is the pixel column of the highlight bar.
	X float64
	// Time formats Hour as "5:30 pm".
	Time string
	// Description is the paragraph shown under the plot.
	Description string
}

// HighlightHour describes the plot at hour and remembers the hour so the
// next shown pair is described at the same time of day.
//
// The percentiles are interpolated linearly between the bands either side
// of hour. Outside the banded hours the description says no trains run.
// Before a plot is shown the description is empty.
func (v *View) HighlightHour(hour float64) Highlight {
	v.lastHour = hour
	hour = math.Max(MinHour, math.Min(MaxHour, hour))

	h := Highlight{Hour: hour, X: v.X(hour), Time: FormatHour(hour)}
	if v.fromName == "" {
		return h
	}

	i := sort.Search(len(v.bands), func(i int) bool { return v.bands[i].Hour >= hour })
	if i == 0 || i == len(v.bands) {
		h.Description = "At " + h.Time + " no trains travel from " + v.fromName + " to " + v.toName + "."
		return h
	}

	before, after := v.bands[i-1], v.bands[i]
	ratio := (hour - before.Hour) / (after.Hour - before.Hour)
	var transit, wait [3]float64
	for k := range 3 {
		transit[k] = math.Round(lerp(before.Transit[k], after.Transit[k], ratio))
		wait[k] = math.Round(lerp(before.Wait[k], after.Wait[k], ratio))
	}

	h.Description = "At " + h.Time + " trains leave every " + minutes(wait[0]) + " to " + minutes(wait[2]) + " minutes " +
		"from " + v.fromName + " going to " + v.toName + ".  The trip takes between " + minutes(transit[0]) + " and " +
		minutes(transit[2]) + " minutes. The shortest time from when you walk into " + v.fromName + " until you walk out of " + v.toName +
		" is " + minutes(transit[0]) + " minutes but it can be as long as " + minutes(transit[2]+wait[2]) +
		" minutes.  Usually it takes about " + minutes(transit[1]+wait[1]/2) + " minutes including wait and transit time."
	return h
}

// Highlighted describes the plot at the remembered hour, or at
// DefaultHour when none was highlighted yet.
func (v *View) Highlighted() Highlight {
	hour := v.lastHour
	if hour == 0 {
		hour = DefaultHour
	}
	return v.HighlightHour(hour)
}

// HighlightX describes the plot at a pixel column.
func (v *View) HighlightX(x float64) Highlight {
	return v.HighlightHour(MinHour + x/Width*(MaxHour-MinHour))
}

// LastHour returns the remembered hour, zero before any highlight.
func (v *View) LastHour() float64 { return v.lastHour }

// SetLastHour restores a remembered hour.
func (v *View) SetLastHour(hour float64) { v.lastHour = hour }

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// minutes rounds half away from zero.
func minutes(m float64) string {
	return strconv.FormatFloat(math.Round(m), 'f', 0, 64)
}

// FormatHour formats a fractional hour of day as a 12-hour clock time.
func FormatHour(hour float64) string {
	d := time.Duration(hour * float64(time.Hour))
	return time.Unix(0, 0).UTC().Add(d).Format("3:04 pm")
}

// TickLabel formats a whole hour for the x axis ("5am", "12pm").
func TickLabel(hour float64) string {
	h := int(math.Round(hour)) % 24
	switch {
	case h == 0:
		return "12am"
	case h == 12:
		return "12pm"
	case h < 12:
		return strconv.Itoa(h) + "am"
	default:
		return strconv.Itoa(h-12) + "pm"
	}
}
