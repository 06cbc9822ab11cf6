package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/yourcommute/pkg/explorer"
	"github.com/matzehuels/yourcommute/pkg/network/networktest"
	"github.com/matzehuels/yourcommute/pkg/rollup"
	"github.com/matzehuels/yourcommute/pkg/session"
	"github.com/matzehuels/yourcommute/pkg/view/scatter"
)

type redLoader struct{}

func (redLoader) Load(ctx context.Context, from string, progress func(int)) (rollup.File, error) {
	f := rollup.File{}
	for _, to := range networktest.RedPath {
		f[to] = rollup.Pair{
			Result: []rollup.Band{
				{Hour: 8, Transit: [3]float64{9, 11, 15}, Wait: [3]float64{2, 4, 6}},
				{Hour: 17, Transit: [3]float64{10, 12, 16}, Wait: [3]float64{3, 5, 8}},
			},
			Actuals: []rollup.Actual{{Hour: 8.1, Transit: 11, Wait: 3}},
		}
	}
	return f, nil
}

func startedModel(t *testing.T, r explorer.Resume) exploreModel {
	t.Helper()
	e := explorer.New(networktest.Model(t), redLoader{}, explorer.Options{})
	m := newExploreModel(context.Background(), e, r)
	next, cmd := m.Update(startMsg{})
	if cmd != nil {
		t.Fatal("start returned a command")
	}
	return next.(exploreModel)
}

func press(t *testing.T, m exploreModel, keys ...string) exploreModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.key(k)
		m = next.(exploreModel)
	}
	return m
}

func moveTo(t *testing.T, m exploreModel, id string) exploreModel {
	t.Helper()
	m.cursor = m.indexOf(id)
	if m.stations[m.cursor].ID != id {
		t.Fatalf("station %s not in list", id)
	}
	return m
}

func TestExploreStart(t *testing.T) {
	m := startedModel(t, explorer.Resume{})

	s := m.e.State()
	if s.From != explorer.DefaultFrom || s.To != explorer.DefaultTo {
		t.Errorf("pair = %s → %s, want default pair", s.From, s.To)
	}
	if m.stations[m.cursor].ID != explorer.DefaultFrom {
		t.Errorf("cursor on %s, want %s", m.stations[m.cursor].ID, explorer.DefaultFrom)
	}
	if m.e.Scatter.Status() != scatter.StatusReady {
		t.Errorf("scatter status = %v, want ready", m.e.Scatter.Status())
	}

	out := m.View()
	for _, want := range []string{"Your Commute", "#your-commute.place-knncl.place-sstat", "Red Line"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestExploreResume(t *testing.T) {
	m := startedModel(t, explorer.Resume{
		From: networktest.Alewife,
		To:   networktest.Kendall,
		Line: "Green",
		Hour: 8,
	})
	if got := m.e.State().From; got != networktest.Alewife {
		t.Errorf("from = %s, want %s", got, networktest.Alewife)
	}
	if got := m.e.Table.Line(); got != "Green" {
		t.Errorf("line = %s, want Green", got)
	}
	if got := m.e.Highlight().Time; got != "8:00 am" {
		t.Errorf("highlight = %q, want 8:00 am", got)
	}
}

func TestExplorePickPair(t *testing.T) {
	m := startedModel(t, explorer.Resume{})

	m = moveTo(t, m, networktest.Alewife)
	m = press(t, m, "enter")
	if m.pending != networktest.Alewife {
		t.Fatalf("pending = %q, want %s", m.pending, networktest.Alewife)
	}
	if !strings.Contains(m.View(), "pick the end station") {
		t.Error("view does not prompt for the end station")
	}

	m = moveTo(t, m, networktest.SouthStation)
	m = press(t, m, " ")
	if m.pending != "" {
		t.Errorf("pending = %q after second pick", m.pending)
	}
	s := m.e.State()
	if s.From != networktest.Alewife || s.To != networktest.SouthStation || !s.HasRoute {
		t.Errorf("state = %+v, want Alewife → South Station with a route", s)
	}

	m = press(t, m, "s")
	if s := m.e.State(); s.From != networktest.SouthStation || s.To != networktest.Alewife {
		t.Errorf("after swap = %s → %s", s.From, s.To)
	}
}

func TestExploreCancelPick(t *testing.T) {
	m := startedModel(t, explorer.Resume{})
	m = press(t, m, "enter", "esc")
	if m.pending != "" {
		t.Errorf("pending = %q after esc", m.pending)
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd == nil {
		t.Error("esc without a pick should quit")
	}
}

func TestExploreHourKeys(t *testing.T) {
	m := startedModel(t, explorer.Resume{Hour: 8})
	m = press(t, m, "right", "l")
	if got := m.e.Highlight().Hour; got != 9 {
		t.Errorf("hour = %v, want 9", got)
	}
	m = press(t, m, "left")
	if got := m.e.Scatter.LastHour(); got != 8.5 {
		t.Errorf("last hour = %v, want 8.5", got)
	}
}

func TestExploreLinesAndRows(t *testing.T) {
	m := startedModel(t, explorer.Resume{})
	lines := m.e.Model().Lines()

	start := m.e.Table.Line()
	m = press(t, m, "tab")
	if m.e.Table.Line() == start {
		t.Errorf("tab kept line %s of %v", start, lines)
	}
	for range len(lines) - 1 {
		m = press(t, m, "tab")
	}
	if m.e.Table.Line() != start {
		t.Errorf("tab cycle ended on %s, want %s", m.e.Table.Line(), start)
	}

	m = moveTo(t, m, networktest.ParkStreet)
	m = press(t, m, "r")
	if !m.e.State().RowSelected(networktest.ParkStreet) {
		t.Error("row not selected after r")
	}
	m = press(t, m, "r")
	if m.e.State().RowSelected(networktest.ParkStreet) {
		t.Error("row still selected after second r")
	}
}

func TestExploreCursorBounds(t *testing.T) {
	m := startedModel(t, explorer.Resume{})
	m.cursor = 0
	m = press(t, m, "up", "k")
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 15})
	m = next.(exploreModel)
	for range len(m.stations) + 3 {
		m = press(t, m, "j")
	}
	if m.cursor != len(m.stations)-1 {
		t.Errorf("cursor = %d, want %d", m.cursor, len(m.stations)-1)
	}
	if m.cursor < m.offset || m.cursor >= m.offset+m.height {
		t.Errorf("cursor %d outside window [%d, %d)", m.cursor, m.offset, m.offset+m.height)
	}
}

func TestExplorePostMsg(t *testing.T) {
	m := startedModel(t, explorer.Resume{})
	ran := false
	m.Update(postMsg(func() { ran = true }))
	if !ran {
		t.Error("posted callback did not run")
	}
}

func TestSaveCLISession(t *testing.T) {
	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	r := explorer.Resume{From: networktest.Alewife, To: networktest.Kendall, Line: "Red", Rows: []string{networktest.ParkStreet}, Hour: 17}
	if err := saveCLISession(ctx, store, r); err != nil {
		t.Fatalf("save: %v", err)
	}

	sess, err := store.Get(ctx, session.CLISessionID)
	if err != nil || sess == nil {
		t.Fatalf("get = %v, %v", sess, err)
	}
	if sess.From != r.From || sess.To != r.To || sess.Line != r.Line || sess.Hour != r.Hour || len(sess.Rows) != 1 {
		t.Errorf("session = %+v, want %+v", sess, r)
	}
}
