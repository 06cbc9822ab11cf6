package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/explorer"
	"github.com/matzehuels/yourcommute/pkg/view/mapview"
	"github.com/matzehuels/yourcommute/pkg/view/table"
)

// SessionResponse is the body of every session route that returns state.
type SessionResponse struct {
	ID string `json:"id"`
	explorer.Snapshot
}

type hashRequest struct {
	Hash string `json:"hash"`
}

type rowsRequest struct {
	IDs []string `json:"ids"`
}

type lineRequest struct {
	Line string `json:"line"`
}

type hourRequest struct {
	Hour float64 `json:"hour"`
}

// createSession handles POST /api/sessions. An absent or invalid hash opens
// the default pair.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req hashRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, loop, err := s.open(r.Context(), req.Hash)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var snap explorer.Snapshot
	if err := loop.Do(r.Context(), func(e *explorer.Explorer) { snap = e.Snapshot() }); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session created", "id", sess.ID, "from", snap.From, "to", snap.To)
	writeJSON(w, http.StatusCreated, SessionResponse{ID: sess.ID, Snapshot: snap})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var snap explorer.Snapshot
	if err := s.view(r.Context(), id, func(e *explorer.Explorer) { snap = e.Snapshot() }); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: id, Snapshot: snap})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.drop(id)
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// putHash applies a fragment. An invalid fragment is rejected and leaves
// the session unchanged.
func (s *Server) putHash(w http.ResponseWriter, r *http.Request) {
	var req hashRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(e *explorer.Explorer) error {
		return e.ApplyHash(r.Context(), req.Hash)
	})
}

func (s *Server) putRows(w http.ResponseWriter, r *http.Request) {
	var req rowsRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, id := range req.IDs {
		if !s.model.Has(id) {
			s.writeError(w, r, errors.New(errors.ErrCodeUnknownStation, "unknown station %q", id))
			return
		}
	}
	s.mutate(w, r, func(e *explorer.Explorer) error {
		e.SetRows(req.IDs)
		return nil
	})
}

func (s *Server) putLine(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateLine(req.Line); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(e *explorer.Explorer) error {
		return e.ShowLine(req.Line)
	})
}

func (s *Server) putHour(w http.ResponseWriter, r *http.Request) {
	var req hourRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(e *explorer.Explorer) error {
		e.HighlightHour(req.Hour)
		return nil
	})
}

func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*explorer.Explorer) error) {
	id := chi.URLParam(r, "id")
	snap, err := s.update(r.Context(), id, fn)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: id, Snapshot: snap})
}

// =============================================================================
// Views
// =============================================================================

func (s *Server) getMapSVG(w http.ResponseWriter, r *http.Request) {
	var dot string
	if err := s.view(r.Context(), chi.URLParam(r, "id"), func(e *explorer.Explorer) {
		dot = mapview.ToDOT(e.Map.Glyph(e.State()))
	}); err != nil {
		s.writeError(w, r, err)
		return
	}
	svg, err := mapview.RenderSVG(r.Context(), dot)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeSVG(w, svg)
}

func (s *Server) getScatterSVG(w http.ResponseWriter, r *http.Request) {
	var (
		svg     []byte
		drawErr error
	)
	if err := s.view(r.Context(), chi.URLParam(r, "id"), func(e *explorer.Explorer) {
		svg, drawErr = e.Scatter.RenderSVG()
	}); err != nil {
		s.writeError(w, r, err)
		return
	}
	if drawErr != nil {
		s.writeError(w, r, drawErr)
		return
	}
	writeSVG(w, svg)
}

// getSessionTable returns the session's table. The line query parameter
// shows another line for this request only.
func (s *Server) getSessionTable(w http.ResponseWriter, r *http.Request) {
	line := r.URL.Query().Get("line")
	var (
		t  table.Table
		ok bool
	)
	if err := s.view(r.Context(), chi.URLParam(r, "id"), func(e *explorer.Explorer) {
		if line == "" {
			t, ok = e.Table.Table(e.State())
			return
		}
		t, ok = table.Build(e.Model(), line, e.State(), nil)
	}); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no stations on line %q", line))
		return
	}
	writeJSON(w, http.StatusOK, t)
}
