package table

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/selection"
	"github.com/matzehuels/yourcommute/pkg/view"
)

// View shows the table of one line and owns the row brush.
//
// Brushing works like a paint stroke: MouseDown toggles the row under the
// pointer and starts brushing, MouseOver toggles rows while brushing, and
// MouseUp commits the brushed rows through RowRangeDragged, in row order.
type View struct {
	model   *network.Model
	intents view.Intents
	line    string

	brushing bool
	brushed  map[string]bool
}

// New creates a table view. No line is shown until ShowLine.
func New(m *network.Model, intents view.Intents) *View {
	if intents == nil {
		intents = view.IntentFuncs{}
	}
	return &View{model: m, intents: intents, brushed: map[string]bool{}}
}

// ShowLine switches the table to line. It reports whether any station is
// on the line; the current line is kept otherwise.
func (v *View) ShowLine(line string) bool {
	if len(v.model.StationsOnLine(line)) == 0 {
		return false
	}
	v.line = line
	return true
}

// Line returns the shown line.
func (v *View) Line() string { return v.line }

// Table derives the shown line's table for s. While brushing, the
// Selected flags follow the brush instead of s.
func (v *View) Table(s selection.State) (Table, bool) {
	if v.line == "" {
		return Table{}, false
	}
	var selected func(string) bool
	if v.brushing {
		selected = func(id string) bool { return v.brushed[id] }
	}
	return Build(v.model, v.line, s, selected)
}

// SyncRows replaces the brushed rows with a committed selection.
func (v *View) SyncRows(ids []string) {
	clear(v.brushed)
	for _, id := range ids {
		v.brushed[id] = true
	}
}

// MouseDown toggles id and starts brushing.
func (v *View) MouseDown(id string) {
	v.brushing = true
	v.toggle(id)
}

// MouseOver toggles id while brushing.
func (v *View) MouseOver(id string) {
	if v.brushing {
		v.toggle(id)
	}
}

// MouseUp ends brushing and emits the brushed rows of the shown line.
func (v *View) MouseUp() {
	if !v.brushing {
		return
	}
	v.brushing = false

	var ids []string
	for _, st := range v.model.StationsOnLine(v.line) {
		if v.brushed[st.ID] {
			ids = append(ids, st.ID)
		}
	}
	v.intents.RowRangeDragged(ids)
}

// Brushing reports whether a brush stroke is in progress.
func (v *View) Brushing() bool { return v.brushing }

func (v *View) toggle(id string) {
	if !slices.ContainsFunc(v.model.StationsOnLine(v.line), func(s *network.Station) bool { return s.ID == id }) {
		return
	}
	if v.brushed[id] {
		delete(v.brushed, id)
	} else {
		v.brushed[id] = true
	}
}

// =============================================================================
// Terminal rendering
// =============================================================================

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	selectedStyle = cellStyle.Reverse(true)
	heatText      = lipgloss.Color("#212121")
)

// Render draws t as a bordered terminal table. Heat columns use their
// heat colour as background, rows on the route are bold in the line
// colour, and brushed rows are reversed.
func Render(t Table) string {
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Cells()
	}

	return lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(t.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == lgtable.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if row < 0 || row >= len(t.Rows) {
				return cellStyle
			}
			r := t.Rows[row]

			s := cellStyle
			switch col {
			case 1:
				s = s.Background(lipgloss.Color(r.WeekdayHeat)).Foreground(heatText)
			case 4:
				s = s.Background(lipgloss.Color(r.WeekendHeat)).Foreground(heatText)
			}
			if r.Active {
				s = s.Bold(true)
				if col == 0 {
					s = s.Foreground(lipgloss.Color(t.Color))
				}
			}
			if r.Selected {
				s = s.Inherit(selectedStyle)
			}
			return s
		}).
		Render()
}
