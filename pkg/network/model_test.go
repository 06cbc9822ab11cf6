package network_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/network/networktest"
)

func TestBuildFixture(t *testing.T) {
	m := networktest.Model(t)

	if got := len(m.Stations()); got != 26 {
		t.Errorf("stations = %d, want 26", got)
	}
	if got, want := m.Lines(), []string{"Blue", "Green", "Orange", "Red"}; !slices.Equal(got, want) {
		t.Errorf("Lines() = %v, want %v", got, want)
	}
	if got := len(m.Paths()); got != 5 {
		t.Errorf("paths = %d, want 5", got)
	}
	if idx := m.Paths()[0].Index(networktest.Kendall); idx != networktest.KendallIndex {
		t.Errorf("Kendall index = %d, want %d", idx, networktest.KendallIndex)
	}
}

func TestBuildJoinsStationData(t *testing.T) {
	m := networktest.Model(t)

	t.Run("PrimaryLineIsMostRecentLink", func(t *testing.T) {
		s, _ := m.Station(networktest.ParkStreet)
		if got := s.PrimaryLine(); got != "Green" {
			t.Errorf("PrimaryLine() = %q, want Green", got)
		}
		if got, want := s.IncidentLines, []string{"Green", "Red"}; !slices.Equal(got, want) {
			t.Errorf("IncidentLines = %v, want %v", got, want)
		}
	})

	t.Run("AlertCaseInsensitive", func(t *testing.T) {
		s, _ := m.Station(networktest.Kendall)
		if s.Alert.Cause != "SIGNAL_PROBLEM" {
			t.Errorf("Kendall alert = %q, want SIGNAL_PROBLEM", s.Alert.Cause)
		}
		w, _ := m.Station(networktest.Wonderland)
		if w.Alert != (network.Alert{}) {
			t.Errorf("Wonderland alert = %+v, want empty", w.Alert)
		}
	})

	t.Run("MissingRidershipIsZero", func(t *testing.T) {
		s, ok := m.Station(networktest.NoRidership)
		if !ok {
			t.Fatal("fixture station missing")
		}
		if s.Ridership != (network.Ridership{}) {
			t.Errorf("Ridership = %+v, want zero value", s.Ridership)
		}
	})

	t.Run("Position", func(t *testing.T) {
		s, _ := m.Station(networktest.Kendall)
		if s.Position[0] != 5 || s.Position[1] != 0 {
			t.Errorf("Position = %v, want [5 0]", s.Position)
		}
	})
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(src *network.Sources)
	}{
		{
			name: "TargetOutOfRange",
			mutate: func(src *network.Sources) {
				src.Network.Links[0].Target = len(src.Network.Nodes)
			},
		},
		{
			name: "NegativeSource",
			mutate: func(src *network.Sources) {
				src.Network.Links[0].Source = -1
			},
		},
		{
			name: "SelfLoop",
			mutate: func(src *network.Sources) {
				src.Network.Links[0].Target = src.Network.Links[0].Source
			},
		},
		{
			name: "StationWithoutLinks",
			mutate: func(src *network.Sources) {
				src.Network.Nodes = append(src.Network.Nodes, network.RawNode{ID: "place-lonely"})
				src.Spider["place-lonely"] = [2]float64{9, 9}
			},
		},
		{
			name: "DuplicateID",
			mutate: func(src *network.Sources) {
				src.Network.Nodes[1].ID = src.Network.Nodes[0].ID
			},
		},
		{
			name: "EmptyID",
			mutate: func(src *network.Sources) {
				src.Network.Nodes[0].ID = ""
			},
		},
		{
			name: "DottedID",
			mutate: func(src *network.Sources) {
				renameStation(src, networktest.Kendall, "place.knncl")
			},
		},
		{
			name: "SlashInID",
			mutate: func(src *network.Sources) {
				renameStation(src, networktest.Kendall, "place/knncl")
			},
		},
		{
			name: "MissingSpiderCoordinate",
			mutate: func(src *network.Sources) {
				delete(src.Spider, networktest.Kendall)
			},
		},
		{
			name: "PathUnknownStation",
			mutate: func(src *network.Sources) {
				src.Paths[0] = append(src.Paths[0], "place-nowhere")
			},
		},
		{
			name: "PathUnlinkedPair",
			mutate: func(src *network.Sources) {
				src.Paths = append(src.Paths, []string{networktest.Alewife, networktest.Lechmere})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := networktest.Sources()
			tt.mutate(&src)
			_, err := network.Build(src)
			if !errors.Is(err, errors.ErrCodeMalformedNetwork) {
				t.Fatalf("Build() error = %v, want MALFORMED_NETWORK", err)
			}
		})
	}
}

// renameStation changes a station ID everywhere it is referenced, so only
// the ID itself can make Build fail.
func renameStation(src *network.Sources, from, to string) {
	for i := range src.Network.Nodes {
		if src.Network.Nodes[i].ID == from {
			src.Network.Nodes[i].ID = to
		}
	}
	if xy, ok := src.Spider[from]; ok {
		delete(src.Spider, from)
		src.Spider[to] = xy
	}
	for _, p := range src.Paths {
		for i, id := range p {
			if id == from {
				p[i] = to
			}
		}
	}
}

func TestRenameStationBuilds(t *testing.T) {
	src := networktest.Sources()
	renameStation(&src, networktest.Kendall, "place-kendall")
	m, err := network.Build(src)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !m.Has("place-kendall") || m.Has(networktest.Kendall) {
		t.Error("renamed station not found")
	}
}

func TestStationsOnLine(t *testing.T) {
	m := networktest.Model(t)

	red := m.StationsOnLine("Red")
	if len(red) != len(networktest.RedPath) {
		t.Fatalf("Red stations = %d, want %d", len(red), len(networktest.RedPath))
	}
	for i, s := range red {
		if s.ID != networktest.RedPath[i] {
			t.Errorf("red[%d] = %s, want %s", i, s.ID, networktest.RedPath[i])
		}
	}
	if got := m.StationsOnLine("red"); len(got) != 0 {
		t.Errorf("StationsOnLine is exact, got %d for lower-case line", len(got))
	}
}

func TestBounds(t *testing.T) {
	b := networktest.Model(t).Bounds()
	if b.Min[0] != 0 || b.Min[1] != 0 {
		t.Errorf("Min = %v, want [0 0]", b.Min)
	}
	if b.Max[0] != 15 || b.Max[1] != 9 {
		t.Errorf("Max = %v, want [15 9]", b.Max)
	}
}

func TestLoadDir(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		dir := t.TempDir()
		networktest.WriteDir(t, dir, networktest.Sources())

		m, err := network.LoadDir(ctx, dir)
		if err != nil {
			t.Fatalf("LoadDir() error = %v", err)
		}
		if !m.Has(networktest.SouthStation) {
			t.Error("South Station missing after load")
		}
		s, _ := m.Station(networktest.Kendall)
		if s.Ridership.Weekday.PeakTime != "17:00" {
			t.Errorf("Kendall weekday peak = %q, want 17:00", s.Ridership.Weekday.PeakTime)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		dir := t.TempDir()
		networktest.WriteDir(t, dir, networktest.Sources())
		if err := os.Remove(filepath.Join(dir, network.FileSpider)); err != nil {
			t.Fatal(err)
		}
		_, err := network.LoadDir(ctx, dir)
		if !errors.Is(err, errors.ErrCodeMalformedNetwork) {
			t.Errorf("LoadDir() error = %v, want MALFORMED_NETWORK", err)
		}
	})

	t.Run("BadJSON", func(t *testing.T) {
		dir := t.TempDir()
		networktest.WriteDir(t, dir, networktest.Sources())
		if err := os.WriteFile(filepath.Join(dir, network.FileAlerts), []byte("{"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := network.LoadDir(ctx, dir)
		if !errors.Is(err, errors.ErrCodeMalformedNetwork) {
			t.Errorf("LoadDir() error = %v, want MALFORMED_NETWORK", err)
		}
	})
}
