// Package scatter derives the wait/transit scatterplot for a station pair.
//
// The plot shares one x axis (hour of day, 5 am to midnight) between two
// mirrored halves: minutes in transit above zero and minutes waited on the
// platform below it. Each half shows the raw observations of a
// [rollup.Pair] as points and its hourly percentile bands as lines.
//
// A [View] moves through the states of one fetch:
//
//	Begin ─▶ Loading ──Progress──▶ Loading
//	                 ├──Show─────▶ Ready
//	                 └──Fail─────▶ Failed
//	Clear ─▶ NoRoute
//
// Clear is used for a pair that no single line connects; it drops the
// previous plot.
//
// The view never fetches. The explorer drives it and drops callbacks that
// belong to superseded fetches before they reach the view.
package scatter

import (
	"math"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/rollup"
)

// Plot geometry in pixels, inside the margins.
const (
	Width  = 500
	Height = 290

	MinHour = 5.0
	MaxHour = 24.0

	// DefaultHour is highlighted after the first load, 5:30 pm.
	DefaultHour = 17.5

	// MaxWaitShown caps the depth of the wait half, in minutes.
	MaxWaitShown = 30.0

	// ConstrainedMaxPoints is the point cap for constrained clients.
	ConstrainedMaxPoints = 1000
)

// Text shown by the view.
const (
	Subtitle  = "Trip Duration and Time Between Trains On All Weekdays"
	ErrorText = "Error loading data"
)

// Status is the fetch state of the view.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
	StatusNoRoute
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	case StatusNoRoute:
		return "no_route"
	default:
		return "idle"
	}
}

// View holds the scatterplot state for the most recently shown pair.
type View struct {
	model *network.Model

	// MaxPoints caps the drawn observations. Zero draws all of them.
	MaxPoints int
	rng       *rand.Rand

	status   Status
	progress int
	err      error

	from, to         string
	fromName, toName string
	bands            []rollup.Band
	points           []rollup.Actual

	lastHour float64
}

// New creates an idle view.
func New(m *network.Model) *View {
	return &View{model: m, rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// Seed makes point sampling deterministic.
func (v *View) Seed(seed uint64) {
	v.rng = rand.New(rand.NewPCG(seed, seed))
}

// Begin marks the start of a fetch for the pair. The previous plot stays
// in place until Show replaces it.
func (v *View) Begin(from, to string) {
	v.status = StatusLoading
	v.progress = 0
	v.err = nil
	v.from, v.to = from, to
}

// Clear empties the plot for a pair with no route.
func (v *View) Clear(from, to string) {
	v.status = StatusNoRoute
	v.progress = 0
	v.err = nil
	v.from, v.to = from, to
	v.fromName, v.toName = "", ""
	v.bands, v.points = nil, nil
}

// Progress records the fetch progress in percent.
func (v *View) Progress(pct int) {
	if v.status != StatusLoading {
		return
	}
	v.progress = max(0, min(100, pct))
}

// Fail records a failed fetch.
func (v *View) Fail(err error) {
	v.status = StatusFailed
	v.err = err
}

// Show replaces the plot with the statistics for the current pair taken
// from f. It fails with NOT_FOUND when f has no entry for the destination.
func (v *View) Show(f rollup.File) error {
	pair, ok := f[v.to]
	if !ok {
		err := errors.New(errors.ErrCodeNotFound, "no trips from %s to %s", v.from, v.to)
		v.Fail(err)
		return err
	}

	v.status = StatusReady
	v.progress = 100
	v.err = nil
	v.fromName = v.name(v.from)
	v.toName = v.name(v.to)
	v.bands = slices.Clone(pair.Result)
	v.points = v.sample(pair.Actuals)
	return nil
}

func (v *View) name(id string) string {
	if s, ok := v.model.Station(id); ok {
		return s.DisplayName()
	}
	return id
}

// sample caps the observations at MaxPoints, keeping a random subset
// ordered by hour.
func (v *View) sample(all []rollup.Actual) []rollup.Actual {
	if v.MaxPoints <= 0 || len(all) <= v.MaxPoints {
		return slices.Clone(all)
	}
	idx := v.rng.Perm(len(all))[:v.MaxPoints]
	out := make([]rollup.Actual, len(idx))
	for i, j := range idx {
		out[i] = all[j]
	}
	slices.SortStableFunc(out, func(a, b rollup.Actual) int {
		switch {
		case a.Hour < b.Hour:
			return -1
		case a.Hour > b.Hour:
			return 1
		}
		return 0
	})
	return out
}

// Status returns the fetch state.
func (v *View) Status() Status { return v.status }

// Err returns the error of a failed fetch.
func (v *View) Err() error { return v.err }

// Pair returns the pair of the latest Begin.
func (v *View) Pair() (from, to string) { return v.from, v.to }

// StatusText is the line shown above the plot: the progress while
// loading, the error text after a failure, a notice for a pair without a
// route, and empty otherwise.
func (v *View) StatusText() string {
	switch v.status {
	case StatusLoading:
		return "Loading... " + strconv.Itoa(v.progress) + "%"
	case StatusFailed:
		return ErrorText
	case StatusNoRoute:
		return "No single line connects " + v.name(v.from) + " and " + v.name(v.to)
	default:
		return ""
	}
}

// Title returns "<from> to <to>" once a plot is shown.
func (v *View) Title() string {
	if v.fromName == "" {
		return ""
	}
	return v.fromName + " to " + v.toName
}

// XDomain returns the hour range of the x axis.
func (v *View) XDomain() [2]float64 { return [2]float64{MinHour, MaxHour} }

// YDomain returns [-min(30, max wait), max transit] over the drawn points.
func (v *View) YDomain() [2]float64 {
	var maxWait, maxTransit float64
	for _, p := range v.points {
		maxWait = math.Max(maxWait, p.Wait)
		maxTransit = math.Max(maxTransit, p.Transit)
	}
	return [2]float64{-math.Min(MaxWaitShown, maxWait), maxTransit}
}

// X maps an hour to a pixel column.
func (v *View) X(hour float64) float64 {
	return (hour - MinHour) / (MaxHour - MinHour) * Width
}

// Y maps signed minutes to a pixel row. Row zero is the top.
func (v *View) Y(minutes float64) float64 {
	d := v.YDomain()
	if d[1] == d[0] {
		return Height
	}
	return Height - (minutes-d[0])/(d[1]-d[0])*Height
}

// Point is one drawn observation in data units. Bottom points carry
// negated wait minutes.
type Point struct {
	Hour    float64
	Minutes float64
}

// TopPoints returns the transit observations.
func (v *View) TopPoints() []Point {
	out := make([]Point, len(v.points))
	for i, p := range v.points {
		out[i] = Point{p.Hour, p.Transit}
	}
	return out
}

// BottomPoints returns the wait observations, negated.
func (v *View) BottomPoints() []Point {
	out := make([]Point, len(v.points))
	for i, p := range v.points {
		out[i] = Point{p.Hour, -p.Wait}
	}
	return out
}

// Bands returns the percentile bands inside service hours.
func (v *View) Bands() []rollup.Band {
	var out []rollup.Band
	for _, b := range v.bands {
		if b.Defined() {
			out = append(out, b)
		}
	}
	return out
}

// KeyMarks are the pixel rows of one half's key, read off the last band.
type KeyMarks struct {
	Top    float64
	Median float64
	Bottom float64
}

// Key returns the key marks of both halves at the latest band no later
// than midnight. ok is false when no band qualifies.
func (v *View) Key() (top, bottom KeyMarks, ok bool) {
	var last *rollup.Band
	for i := range v.bands {
		b := &v.bands[i]
		if b.Hour <= MaxHour && (last == nil || b.Hour > last.Hour) {
			last = b
		}
	}
	if last == nil {
		return KeyMarks{}, KeyMarks{}, false
	}
	top = KeyMarks{
		Bottom: v.Y(last.Transit[0]),
		Median: v.Y(last.Transit[1]),
		Top:    math.Max(0, v.Y(last.Transit[2])),
	}
	bottom = KeyMarks{
		Bottom: math.Min(Height-10, v.Y(-last.Wait[2])),
		Median: v.Y(-last.Wait[1]),
		Top:    v.Y(-last.Wait[0]),
	}
	return top, bottom, true
}
