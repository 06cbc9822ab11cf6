package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/hashroute"
	"github.com/matzehuels/yourcommute/pkg/observability"
	"github.com/matzehuels/yourcommute/pkg/selection"
	"github.com/matzehuels/yourcommute/pkg/view"
	"github.com/matzehuels/yourcommute/pkg/view/mapview"
	"github.com/matzehuels/yourcommute/pkg/view/table"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Stations  int       `json:"stations"`
	Sessions  int       `json:"sessions"`
	Timestamp time.Time `json:"timestamp"`

	Stats *observability.StatsSnapshot `json:"stats,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := len(s.loops)
	s.mu.Unlock()

	resp := HealthResponse{
		Status:    "ok",
		Stations:  len(s.model.Stations()),
		Sessions:  n,
		Timestamp: time.Now().UTC(),
	}
	if s.stats != nil {
		snap := s.stats.Snapshot()
		resp.Stats = &snap
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Network
// =============================================================================

// NetworkResponse is the body of GET /api/network.
type NetworkResponse struct {
	Stations []StationJSON `json:"stations"`
	Links    []LinkJSON    `json:"links"`
	Lines    []LineJSON    `json:"lines"`
}

// StationJSON is one station of a NetworkResponse.
type StationJSON struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Lines   []string `json:"lines"`
	Tooltip string   `json:"tooltip"`
}

// LinkJSON is one link of a NetworkResponse.
type LinkJSON struct {
	Key    string `json:"key"`
	Source string `json:"source"`
	Target string `json:"target"`
	Line   string `json:"line"`
}

// LineJSON is one line of a NetworkResponse.
type LineJSON struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) getNetwork(w http.ResponseWriter, r *http.Request) {
	stations := s.model.Stations()
	links := s.model.Links()
	lines := s.model.Lines()

	resp := NetworkResponse{
		Stations: make([]StationJSON, len(stations)),
		Links:    make([]LinkJSON, len(links)),
		Lines:    make([]LineJSON, len(lines)),
	}
	for i, st := range stations {
		resp.Stations[i] = StationJSON{
			ID:      st.ID,
			Name:    st.DisplayName(),
			X:       st.Position.X(),
			Y:       st.Position.Y(),
			Lines:   st.IncidentLines,
			Tooltip: mapview.Tooltip(st),
		}
	}
	for i, l := range links {
		resp.Links[i] = LinkJSON{Key: l.Key(), Source: l.Source.ID, Target: l.Target.ID, Line: l.Line}
	}
	for i, name := range lines {
		resp.Lines[i] = LineJSON{Name: name, Color: view.LineColor(name)}
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, resp)
}

// RouteResponse is the body of GET /api/route.
type RouteResponse struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Stations []string `json:"stations"`
	Links    []string `json:"links"`
	Hash     string   `json:"hash"`
}

func (s *Server) getRoute(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	for _, id := range []string{from, to} {
		if err := errors.ValidateStationID(id); err != nil {
			s.writeError(w, r, err)
			return
		}
		if !s.model.Has(id) {
			s.writeError(w, r, errors.New(errors.ErrCodeUnknownStation, "unknown station %q", id))
			return
		}
	}

	rt, ok := s.finder.Find(from, to)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNoRoute, "no single line connects %s and %s", from, to))
		return
	}

	resp := RouteResponse{From: from, To: to, Stations: rt.Stations(), Hash: hashroute.Encode(from, to)}
	for _, l := range s.model.Links() {
		if rt.ContainsLink(l) {
			resp.Links = append(resp.Links, l.Key())
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getLineTable(w http.ResponseWriter, r *http.Request) {
	line := chi.URLParam(r, "line")
	if err := errors.ValidateLine(line); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, ok := table.Build(s.model, line, selection.State{}, nil)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no stations on line %q", line))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// =============================================================================
// Rollup passthrough
// =============================================================================

func (s *Server) getRollup(w http.ResponseWriter, r *http.Request) {
	from := chi.URLParam(r, "from")
	if err := errors.ValidateStationID(from); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.model.Has(from) {
		s.writeError(w, r, errors.New(errors.ErrCodeUnknownStation, "unknown station %q", from))
		return
	}

	f, err := s.loader.Load(r.Context(), from, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	writeJSON(w, http.StatusOK, f)
}
