package explorer

import (
	"context"
	"slices"

	"github.com/matzehuels/yourcommute/pkg/hashroute"
	"github.com/matzehuels/yourcommute/pkg/view/scatter"
)

// Snapshot is a JSON-friendly copy of what the explorer shows.
type Snapshot struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	HasRoute     bool            `json:"has_route"`
	Route        []string        `json:"route,omitempty"`
	Hash         string          `json:"hash"`
	Details      string          `json:"details,omitempty"`
	Line         string          `json:"line,omitempty"`
	SelectedRows []string        `json:"selected_rows,omitempty"`
	Scatter      ScatterSnapshot `json:"scatter"`
}

// ScatterSnapshot is the scatterplot part of a Snapshot.
type ScatterSnapshot struct {
	Status      string  `json:"status"`
	Text        string  `json:"text,omitempty"`
	Title       string  `json:"title,omitempty"`
	Subtitle    string  `json:"subtitle,omitempty"`
	Hour        float64 `json:"hour,omitempty"`
	Time        string  `json:"time,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Snapshot copies the current state.
func (e *Explorer) Snapshot() Snapshot {
	s := e.pipeline.State()
	snap := Snapshot{
		From:         s.From,
		To:           s.To,
		HasRoute:     s.HasRoute,
		Hash:         e.anchor,
		Details:      e.Map.Glyph(s).Details,
		Line:         e.Table.Line(),
		SelectedRows: slices.Clone(s.SelectedRows),
		Scatter: ScatterSnapshot{
			Status: e.Scatter.Status().String(),
			Text:   e.Scatter.StatusText(),
			Title:  e.Scatter.Title(),
		},
	}
	if s.HasRoute {
		snap.Route = s.Route.Stations()
	}
	if e.Scatter.Status() == scatter.StatusReady {
		snap.Scatter.Subtitle = scatter.Subtitle
		snap.Scatter.Hour = e.highlight.Hour
		snap.Scatter.Time = e.highlight.Time
		snap.Scatter.Description = e.highlight.Description
	}
	return snap
}

// Resume is the state needed to reopen an explorer where it was left.
type Resume struct {
	From string
	To   string
	Line string
	Rows []string
	Hour float64
}

// Resume returns the reopenable state.
func (e *Explorer) Resume() Resume {
	s := e.pipeline.State()
	return Resume{
		From: s.From,
		To:   s.To,
		Line: e.Table.Line(),
		Rows: slices.Clone(s.SelectedRows),
		Hour: e.Scatter.LastHour(),
	}
}

// Restore reopens r. Unknown stations fall back to the default pair and
// an unknown line leaves the table on the pair's line.
func (e *Explorer) Restore(ctx context.Context, r Resume) {
	if r.Hour != 0 {
		e.Scatter.SetLastHour(r.Hour)
	}
	if r.Line != "" {
		e.Table.ShowLine(r.Line)
	}
	if len(r.Rows) > 0 {
		e.pipeline.SetRows(r.Rows)
	}
	fragment := ""
	if r.From != "" && r.To != "" {
		fragment = hashroute.Encode(r.From, r.To)
	}
	e.Start(ctx, fragment)
}
