package table

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/yourcommute/pkg/network/networktest"
	"github.com/matzehuels/yourcommute/pkg/selection"
	"github.com/matzehuels/yourcommute/pkg/view"
)

func row(t *testing.T, tb Table, id string) Row {
	t.Helper()
	for _, r := range tb.Rows {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("row %s missing", id)
	return Row{}
}

func TestBuild_RedLine(t *testing.T) {
	m := networktest.Model(t)
	tb, ok := Build(m, "Red", selection.State{}, nil)
	if !ok {
		t.Fatal("Build(Red) not ok")
	}
	if len(tb.Rows) != len(networktest.RedPath) {
		t.Errorf("rows = %d, want %d", len(tb.Rows), len(networktest.RedPath))
	}
	if tb.Color != "#F44336" {
		t.Errorf("Color = %s", tb.Color)
	}

	k := row(t, tb, networktest.Kendall)
	want := []string{"Kendall/MIT", "4000", "17:00", "1200", "1500", "13:00", "300"}
	if !slices.Equal(k.Cells(), want) {
		t.Errorf("Kendall cells = %v, want %v", k.Cells(), want)
	}
	if k.WeekdayHeat != "#f44336" {
		t.Errorf("Kendall weekday heat = %s, want full line colour", k.WeekdayHeat)
	}

	other := row(t, tb, networktest.Alewife)
	want = []string{"Alewife", "1000", "08:00", "350", "401", "N/A", "0"}
	if !slices.Equal(other.Cells(), want) {
		t.Errorf("Alewife cells = %v, want %v", other.Cells(), want)
	}
}

func TestBuild_MissingRidership(t *testing.T) {
	m := networktest.Model(t)
	tb, _ := Build(m, "Red", selection.State{}, nil)
	r := row(t, tb, networktest.NoRidership)
	want := []string{"JFK/UMass", "0", "N/A", "0", "0", "N/A", "0"}
	if !slices.Equal(r.Cells(), want) {
		t.Errorf("cells = %v, want %v", r.Cells(), want)
	}
	if r.WeekdayHeat != strings.ToLower(HeatBase) {
		t.Errorf("zero riders heat = %s, want %s", r.WeekdayHeat, HeatBase)
	}
}

func TestBuild_UnknownLine(t *testing.T) {
	m := networktest.Model(t)
	if _, ok := Build(m, "Silver", selection.State{}, nil); ok {
		t.Error("Build(Silver) ok")
	}
	// Line match is exact.
	if _, ok := Build(m, "red", selection.State{}, nil); ok {
		t.Error("Build(red) ok")
	}
}

func TestBuild_ActiveRows(t *testing.T) {
	m := networktest.Model(t)
	p := selection.NewPipeline(m)
	p.SetPair(context.Background(), networktest.Kendall, networktest.SouthStation)

	tb, _ := Build(m, "Red", p.State(), nil)
	var active []string
	for _, r := range tb.Rows {
		if r.Active {
			active = append(active, r.ID)
		}
	}
	want := networktest.RedPath[networktest.KendallIndex : networktest.SouthStaIndex+1]
	if !slices.Equal(active, want) {
		t.Errorf("active = %v, want %v", active, want)
	}
}

func TestHeat(t *testing.T) {
	tests := []struct {
		name   string
		max    float64
		riders float64
		want   string
	}{
		{"zero", 100, 0, "#e8f5e9"},
		{"full", 100, 100, "#4caf50"},
		{"zero max", 0, 0, "#e8f5e9"},
		{"zero max full", 0, 1, "#4caf50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewHeat(view.LineColor("Green"), tt.max).Color(tt.riders); got != tt.want {
				t.Errorf("Color(%v) = %s, want %s", tt.riders, got, tt.want)
			}
		})
	}
}

func TestBrush(t *testing.T) {
	m := networktest.Model(t)
	var got [][]string
	v := New(m, view.IntentFuncs{OnRowRangeDragged: func(ids []string) { got = append(got, ids) }})
	if !v.ShowLine("Red") {
		t.Fatal("ShowLine(Red) = false")
	}

	v.MouseOver(networktest.Alewife)
	if v.Brushing() {
		t.Fatal("mouse over started brushing")
	}

	v.MouseDown(networktest.SouthStation)
	v.MouseOver(networktest.Kendall)
	v.MouseOver(networktest.Lechmere) // not on Red
	v.MouseOver("place-chmnl")
	v.MouseOver("place-chmnl") // toggled back off

	tb, _ := v.Table(selection.State{})
	if !row(t, tb, networktest.Kendall).Selected {
		t.Error("brushed row not shown selected while brushing")
	}

	v.MouseUp()
	want := []string{networktest.Kendall, networktest.SouthStation}
	if len(got) != 1 || !slices.Equal(got[0], want) {
		t.Fatalf("dispatched = %v, want [%v]", got, want)
	}

	// Once committed, Selected follows the shared state.
	tb, _ = v.Table(selection.State{SelectedRows: []string{networktest.Alewife}})
	if row(t, tb, networktest.Kendall).Selected || !row(t, tb, networktest.Alewife).Selected {
		t.Error("Selected does not follow state after commit")
	}

	v.MouseUp()
	if len(got) != 1 {
		t.Error("MouseUp without brushing dispatched")
	}
}

func TestShowLine_Unknown(t *testing.T) {
	v := New(networktest.Model(t), nil)
	if _, ok := v.Table(selection.State{}); ok {
		t.Error("table before ShowLine")
	}
	v.ShowLine("Blue")
	if v.ShowLine("Silver") || v.Line() != "Blue" {
		t.Errorf("ShowLine(Silver) changed line to %q", v.Line())
	}
}

func TestRender(t *testing.T) {
	m := networktest.Model(t)
	tb, _ := Build(m, "Blue", selection.State{}, nil)
	out := Render(tb)
	for _, want := range append(slices.Clone(Headers), "Wonderland", "Bowdoin") {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
}

func TestTableJSON(t *testing.T) {
	m := networktest.Model(t)
	tb, _ := Build(m, "Orange", selection.State{}, nil)
	data, err := json.Marshal(tb)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"line":"Orange"`, `"weekday_peak_time":"08:00"`, `"active":false`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("JSON missing %s", key)
		}
	}
}
