package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/yourcommute/pkg/explorer"
	"github.com/matzehuels/yourcommute/pkg/hashroute"
	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/session"
	"github.com/matzehuels/yourcommute/pkg/view"
	"github.com/matzehuels/yourcommute/pkg/view/scatter"
	"github.com/matzehuels/yourcommute/pkg/view/table"
)

// hourStep is how far left/right moves the scatterplot highlight.
const hourStep = 0.5

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

type exploreOpts struct {
	hash  string
	fresh bool
}

// exploreCommand creates the interactive terminal explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var opts exploreOpts

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore commutes interactively",
		Long: `Explore commutes interactively in the terminal.

Pick a start and an end station from the list to see the route, the typical
trip at the highlighted hour and the ridership table. The last viewed pair,
line, rows and hour are restored on the next run.

Keys:
  ↑/↓ j/k    move       ⏎ space  pick start, then end
  ←/→ h/l    hour       tab      next line
  r          toggle row  s       swap stations
  esc        cancel pick q       quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.hash, "hash", "", "start at this permalink fragment")
	cmd.Flags().BoolVar(&opts.fresh, "fresh", false, "ignore the saved session")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, opts exploreOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	m, err := c.loadModel(ctx, cfg)
	if err != nil {
		return err
	}
	loader, closeLoader, err := c.newLoader(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLoader()

	store, err := session.NewFileStore("")
	if err != nil {
		return err
	}

	var resume explorer.Resume
	if !opts.fresh {
		if sess, err := store.Get(ctx, session.CLISessionID); err != nil {
			c.Logger.Warn("Saved session unreadable", "error", err)
		} else if sess != nil {
			resume = explorer.Resume{From: sess.From, To: sess.To, Line: sess.Line, Rows: sess.Rows, Hour: sess.Hour}
		}
	}
	if opts.hash != "" {
		from, to, err := hashroute.Parse(opts.hash, m)
		if err != nil {
			return err
		}
		resume.From, resume.To = from, to
	}

	var prog *tea.Program
	e := explorer.New(m, loader, explorer.Options{
		Logger:    c.Logger,
		MaxPoints: cfg.MaxPoints,
		Post:      func(fn func()) { prog.Send(postMsg(fn)) },
	})
	prog = tea.NewProgram(newExploreModel(ctx, e, resume), tea.WithContext(ctx), tea.WithAltScreen())

	final, err := prog.Run()
	e.Wait()
	if err != nil {
		return err
	}
	if fm, ok := final.(exploreModel); ok && fm.started {
		return saveCLISession(context.WithoutCancel(ctx), store, fm.e.Resume())
	}
	return nil
}

// saveCLISession writes r as the terminal explorer's session.
func saveCLISession(ctx context.Context, store session.Store, r explorer.Resume) error {
	sess := session.New(session.DefaultTTL)
	sess.ID = session.CLISessionID
	sess.From, sess.To = r.From, r.To
	sess.Line = r.Line
	sess.Rows = r.Rows
	sess.Hour = r.Hour
	return store.Set(ctx, sess)
}

// =============================================================================
// exploreModel - bubbletea model around an Explorer
// =============================================================================

// postMsg carries a fetch callback onto the update loop, which owns the
// explorer.
type postMsg func()

type startMsg struct{}

type exploreModel struct {
	ctx      context.Context
	e        *explorer.Explorer
	resume   explorer.Resume
	stations []*network.Station

	cursor  int
	offset  int
	height  int
	pending string // start station picked, waiting for the end
	message string
	started bool
}

func newExploreModel(ctx context.Context, e *explorer.Explorer, r explorer.Resume) exploreModel {
	return exploreModel{
		ctx:      ctx,
		e:        e,
		resume:   r,
		stations: e.Model().Stations(),
		height:   12,
	}
}

// Init defers the first pair to the update loop so that fetch callbacks
// can already be posted to the running program.
func (m exploreModel) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		m.e.Restore(m.ctx, m.resume)
		m.started = true
		m.cursor = m.indexOf(m.e.State().From)
		m.scroll()
	case postMsg:
		msg()
	case tea.WindowSizeMsg:
		m.height = max(msg.Height/3, 5)
		m.scroll()
	case tea.KeyMsg:
		return m.key(msg.String())
	}
	return m, nil
}

func (m exploreModel) key(k string) (tea.Model, tea.Cmd) {
	m.message = ""
	switch k {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.pending == "" {
			return m, tea.Quit
		}
		m.pending = ""
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.scroll()
	case "down", "j":
		if m.cursor < len(m.stations)-1 {
			m.cursor++
		}
		m.scroll()
	case "enter", " ":
		m.pick()
	case "left", "h":
		m.moveHour(-hourStep)
	case "right", "l":
		m.moveHour(hourStep)
	case "tab":
		m.nextLine()
	case "r":
		m.toggleRow()
	case "s":
		s := m.e.State()
		if s.From != "" && s.To != "" {
			m.e.SetPair(m.ctx, s.To, s.From)
		}
	}
	return m, nil
}

func (m *exploreModel) pick() {
	if len(m.stations) == 0 {
		return
	}
	id := m.stations[m.cursor].ID
	if m.pending == "" {
		m.pending = id
		return
	}
	from := m.pending
	m.pending = ""
	if err := m.e.Choose(m.ctx, from, id); err != nil {
		m.message = err.Error()
	}
}

func (m *exploreModel) moveHour(d float64) {
	if m.e.Scatter.Status() != scatter.StatusReady {
		return
	}
	h := m.e.Highlight().Hour
	if h == 0 {
		h = m.e.Scatter.Highlighted().Hour
	}
	m.e.HighlightHour(min(max(h+d, scatter.MinHour), scatter.MaxHour))
}

func (m *exploreModel) nextLine() {
	lines := m.e.Model().Lines()
	if len(lines) == 0 {
		return
	}
	i := slices.Index(lines, m.e.Table.Line())
	next := lines[(i+1)%len(lines)]
	if err := m.e.ShowLine(next); err != nil {
		m.message = err.Error()
	}
}

// toggleRow adds or removes the cursor station from the row selection.
func (m *exploreModel) toggleRow() {
	if len(m.stations) == 0 {
		return
	}
	id := m.stations[m.cursor].ID
	rows := slices.Clone(m.e.State().SelectedRows)
	if i := slices.Index(rows, id); i >= 0 {
		rows = slices.Delete(rows, i, i+1)
	} else {
		rows = append(rows, id)
	}
	m.e.SetRows(rows)
}

func (m *exploreModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m exploreModel) indexOf(id string) int {
	for i, s := range m.stations {
		if s.ID == id {
			return i
		}
	}
	return 0
}

func (m exploreModel) View() string {
	if !m.started {
		return listDimStyle.Render("Loading...")
	}
	var b strings.Builder
	s := m.e.State()
	snap := m.e.Snapshot()

	b.WriteString(StyleTitle.Render("Your Commute"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(snap.Hash))
	b.WriteString("\n")
	b.WriteString(snap.Details)
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.stations))
	for i := m.offset; i < end; i++ {
		st := m.stations[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		mark := " "
		switch {
		case st.ID == m.pending:
			mark = "●"
		case st.ID == s.From || st.ID == s.To:
			mark = "◆"
		case s.Station(st.ID):
			mark = "·"
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(view.LineColor(st.PrimaryLine()))).Render("■")
		line := fmt.Sprintf("%s%s %s %s", cursor, mark, swatch, st.DisplayName())
		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case s.Station(st.ID):
			b.WriteString(listNormalStyle.Render(line))
		default:
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.stations))))
	b.WriteString("\n\n")

	if m.pending != "" {
		b.WriteString(StyleHighlight.Render("Start: " + stationName(m.e.Model(), m.pending) + ", pick the end station"))
		b.WriteString("\n\n")
	}

	if snap.Scatter.Text != "" {
		b.WriteString(StyleWarning.Render(snap.Scatter.Text))
	} else if snap.Scatter.Title != "" {
		b.WriteString(StyleValue.Render(snap.Scatter.Title))
		b.WriteString("\n")
		b.WriteString(StyleNumber.Render(snap.Scatter.Time))
		b.WriteString("  ")
		b.WriteString(snap.Scatter.Description)
	}
	b.WriteString("\n\n")

	if t, ok := m.e.Table.Table(s); ok {
		b.WriteString(StyleTitle.Render(t.Line + " Line"))
		b.WriteString("\n")
		b.WriteString(table.Render(t))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString(StyleWarning.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ pick  ←/→ hour  tab line  r row  s swap  q quit"))
	return b.String()
}
