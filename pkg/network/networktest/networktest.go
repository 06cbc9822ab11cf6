// Package networktest provides a small fixed transit network for tests.
//
// The fixture has four lines. Red is a single path with place-knncl at
// index 5 and place-sstat at index 12. Green has two overlapping branch
// paths that share their first four stations. place-pktrm, place-dwnxg
// and place-gover sit on more than one line. place-jfk has no ridership
// entry and alerts are keyed with mixed case.
package networktest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/yourcommute/pkg/network"
)

// Fixture station IDs referenced directly by tests.
const (
	Kendall       = "place-knncl"
	SouthStation  = "place-sstat"
	ParkStreet    = "place-pktrm"
	Alewife       = "place-alfcl"
	Lechmere      = "place-lech"
	Riverside     = "place-river"
	HeathStreet   = "place-hsmnl"
	Government    = "place-gover"
	Boylston      = "place-boyls"
	Wonderland    = "place-wondl"
	NoRidership   = "place-jfk"
	KendallIndex  = 5
	SouthStaIndex = 12
)

// RedPath is the fixture's Red line path.
var RedPath = []string{
	"place-alfcl", "place-davis", "place-portr", "place-harsq", "place-cntsq",
	"place-knncl", "place-chmnl", "place-pktrm", "place-dwnxg", "place-tstrd",
	"place-nstat", "place-chnat", "place-sstat", "place-brdwy", "place-andrw",
	"place-jfk",
}

type line struct {
	name  string
	paths [][]string
}

var lines = []line{
	{name: "Red", paths: [][]string{RedPath}},
	{name: "Green", paths: [][]string{
		{"place-lech", "place-gover", "place-pktrm", "place-boyls", "place-river"},
		{"place-lech", "place-gover", "place-pktrm", "place-boyls", "place-hsmnl"},
	}},
	{name: "Orange", paths: [][]string{
		{"place-ogmnl", "place-haecl", "place-dwnxg", "place-forhl"},
	}},
	{name: "Blue", paths: [][]string{
		{"place-wondl", "place-gover", "place-bomnl"},
	}},
}

var names = map[string]string{
	"place-alfcl": "Alewife", "place-davis": "Davis", "place-portr": "Porter",
	"place-harsq": "Harvard", "place-cntsq": "Central", "place-knncl": "Kendall/MIT",
	"place-chmnl": "Charles/MGH", "place-pktrm": "Park Street", "place-dwnxg": "Downtown Crossing",
	"place-tstrd": "Tremont Yard", "place-nstat": "Summer Street", "place-chnat": "Chinatown Gate",
	"place-sstat": "South Station", "place-brdwy": "Broadway", "place-andrw": "Andrew",
	"place-jfk": "JFK/UMass", "place-lech": "Lechmere", "place-gover": "Government Center",
	"place-boyls": "Boylston", "place-river": "Riverside", "place-hsmnl": "Heath Street",
	"place-ogmnl": "Oak Grove", "place-haecl": "Haymarket", "place-forhl": "Forest Hills",
	"place-wondl": "Wonderland", "place-bomnl": "Bowdoin",
}

// Sources returns freshly allocated fixture sources.
func Sources() network.Sources {
	src := network.Sources{
		Spider:    map[string][2]float64{},
		Alerts:    map[string]network.Alert{},
		Delays:    map[string]network.DelayStats{},
		Ridership: map[string]network.RawRidership{},
	}

	index := map[string]int{}
	node := func(id string) int {
		if i, ok := index[id]; ok {
			return i
		}
		index[id] = len(src.Network.Nodes)
		src.Network.Nodes = append(src.Network.Nodes, network.RawNode{ID: id, Name: names[id]})
		return index[id]
	}

	seen := map[[2]int]bool{}
	for li, l := range lines {
		for _, p := range l.paths {
			src.Paths = append(src.Paths, append([]string(nil), p...))
			for i, id := range p {
				n := node(id)
				if _, ok := src.Spider[id]; !ok {
					src.Spider[id] = [2]float64{float64(i), float64(li * 3)}
				}
				if i == 0 {
					continue
				}
				prev := index[p[i-1]]
				if seen[[2]int{prev, n}] {
					continue
				}
				seen[[2]int{prev, n}] = true
				src.Network.Links = append(src.Network.Links, network.RawLink{Source: prev, Target: n, Line: l.name})
			}
		}
	}

	src.Alerts["RED"] = network.Alert{Cause: "SIGNAL_PROBLEM", Count: 12}
	src.Alerts["green"] = network.Alert{Cause: "Police_Activity", Count: 4}
	src.Alerts["Orange"] = network.Alert{Cause: "MAINTENANCE", Count: 2}

	for id := range index {
		src.Delays[id] = network.DelayStats{AverageDelayMin: 2.6}
		if id == NoRidership {
			continue
		}
		src.Ridership[id] = network.RawRidership{
			Weekday: &network.RidershipStats{OverallAverageOns: 1000, PeakTime: "08:00", PeakTimeAverageOns: 350.4},
			Weekend: &network.RidershipStats{OverallAverageOns: 400.6},
		}
	}
	src.Ridership[Kendall] = network.RawRidership{
		Weekday: &network.RidershipStats{OverallAverageOns: 4000, PeakTime: "17:00", PeakTimeAverageOns: 1200},
		Weekend: &network.RidershipStats{OverallAverageOns: 1500, PeakTime: "13:00", PeakTimeAverageOns: 300},
	}
	return src
}

// Model builds the fixture network, failing tb on error.
func Model(tb testing.TB) *network.Model {
	tb.Helper()
	m, err := network.Build(Sources())
	if err != nil {
		tb.Fatalf("build fixture: %v", err)
	}
	return m
}

// WriteDir writes src as the six network JSON files into dir.
func WriteDir(tb testing.TB, dir string, src network.Sources) {
	tb.Helper()
	files := map[string]any{
		network.FileNetwork:   src.Network,
		network.FileSpider:    src.Spider,
		network.FilePaths:     src.Paths,
		network.FileAlerts:    src.Alerts,
		network.FileDelays:    src.Delays,
		network.FileRidership: src.Ridership,
	}
	for name, v := range files {
		data, err := json.Marshal(v)
		if err != nil {
			tb.Fatalf("marshal %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			tb.Fatalf("write %s: %v", name, err)
		}
	}
}
