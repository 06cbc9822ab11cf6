// Package server exposes the commute explorer over HTTP.
//
// Stateless routes serve the network, routes and line tables straight from
// the model. Session routes drive one [explorer.Loop] per session and write
// the session through a [session.Store] after every change, so a session
// survives a restart:
//
//	POST /api/sessions              {"hash": "#your-commute.place-knncl.place-sstat"}
//	PUT  /api/sessions/{id}/hash    {"hash": "..."}
//	GET  /api/sessions/{id}/map.svg
//
// Errors are JSON [ErrorResponse] values with a status from [HTTPStatus].
package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/explorer"
	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/observability"
	"github.com/matzehuels/yourcommute/pkg/rollup"
	"github.com/matzehuels/yourcommute/pkg/route"
	"github.com/matzehuels/yourcommute/pkg/session"
)

// Config configures a Server.
type Config struct {
	Model    *network.Model
	Loader   rollup.Loader
	Sessions session.Store
	Logger   *log.Logger

	// Stats is reported by /health when set.
	Stats *observability.Stats

	// AllowedOrigins lists CORS origins. Empty allows any origin.
	AllowedOrigins []string

	// Explorer is applied to every session. Post is ignored.
	Explorer explorer.Options

	// TTL is the session lifetime after the last change.
	TTL time.Duration
}

// Server serves the HTTP API.
type Server struct {
	model    *network.Model
	finder   *route.Finder
	loader   rollup.Loader
	sessions session.Store
	logger   *log.Logger
	stats    *observability.Stats
	origins  []string
	opts     explorer.Options
	ttl      time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	loops map[string]*liveLoop
}

// liveLoop is a session's running explorer and when it was last used.
type liveLoop struct {
	*explorer.Loop
	seen time.Time
}

// New creates a server. Session loops stop when ctx is done or Close is
// called. A loop left unused for TTL is stopped as well; its session stays
// in the store and is reopened on the next request.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Model == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "server: model is required")
	}
	if cfg.Loader == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "server: rollup loader is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	sessions := cfg.Sessions
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}

	opts := cfg.Explorer
	opts.Logger = logger
	opts.Post = nil

	ctx, cancel := context.WithCancel(ctx)
	s := &Server{
		model:    cfg.Model,
		finder:   route.NewFinder(cfg.Model),
		loader:   cfg.Loader,
		sessions: sessions,
		logger:   logger,
		stats:    cfg.Stats,
		origins:  cfg.AllowedOrigins,
		opts:     opts,
		ttl:      ttl,
		ctx:      ctx,
		cancel:   cancel,
		loops:    make(map[string]*liveLoop),
	}
	go s.sweep(max(ttl/2, time.Millisecond))
	return s, nil
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/network", s.getNetwork)
		r.Get("/route", s.getRoute)
		r.Get("/lines/{line}/table", s.getLineTable)

		r.Post("/sessions", s.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Put("/hash", s.putHash)
			r.Put("/rows", s.putRows)
			r.Put("/line", s.putLine)
			r.Put("/hour", s.putHour)
			r.Get("/map.svg", s.getMapSVG)
			r.Get("/scatter.svg", s.getScatterSVG)
			r.Get("/table", s.getSessionTable)
		})
	})

	r.Get("/data/upick2-weekday-rollup-{from}.json", s.getRollup)

	return r
}

// Close stops every session loop. Persisted sessions are kept.
func (s *Server) Close() error {
	s.cancel()
	s.mu.Lock()
	loops := s.loops
	s.loops = make(map[string]*liveLoop)
	s.mu.Unlock()

	for _, l := range loops {
		l.Close()
		l.Wait()
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start),
		)
	})
}

// =============================================================================
// Sessions
// =============================================================================

// open creates a live session, applies fragment and persists it.
func (s *Server) open(ctx context.Context, fragment string) (*session.Session, *explorer.Loop, error) {
	sess := session.New(s.ttl)
	loop := explorer.NewLoop(s.ctx, s.model, s.loader, s.opts)

	var snap explorer.Resume
	if err := loop.Do(ctx, func(e *explorer.Explorer) {
		e.Start(ctx, fragment)
		snap = e.Resume()
	}); err != nil {
		loop.Close()
		return nil, nil, err
	}
	if err := s.save(ctx, sess, snap); err != nil {
		loop.Close()
		return nil, nil, err
	}

	s.mu.Lock()
	s.loops[sess.ID] = &liveLoop{Loop: loop, seen: time.Now()}
	s.mu.Unlock()
	return sess, loop, nil
}

// lookup returns the live loop of id, rebuilding it from the store when
// this process has not seen the session yet.
func (s *Server) lookup(ctx context.Context, id string) (*session.Session, *explorer.Loop, error) {
	if !session.ValidID(id) || id == session.CLISessionID {
		return nil, nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		s.drop(id)
		return nil, nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if live, ok := s.loops[id]; ok {
		live.seen = time.Now()
		return sess, live.Loop, nil
	}

	loop := explorer.NewLoop(s.ctx, s.model, s.loader, s.opts)
	r := explorer.Resume{From: sess.From, To: sess.To, Line: sess.Line, Rows: sess.Rows, Hour: sess.Hour}
	if err := loop.Do(ctx, func(e *explorer.Explorer) { e.Restore(ctx, r) }); err != nil {
		loop.Close()
		return nil, nil, err
	}
	s.loops[id] = &liveLoop{Loop: loop, seen: time.Now()}
	s.logger.Info("session restored", "id", id, "from", sess.From, "to", sess.To)
	return sess, loop, nil
}

// update runs fn on the session's explorer and persists the result.
func (s *Server) update(ctx context.Context, id string, fn func(*explorer.Explorer) error) (explorer.Snapshot, error) {
	sess, loop, err := s.lookup(ctx, id)
	if err != nil {
		return explorer.Snapshot{}, err
	}

	var (
		snap   explorer.Snapshot
		resume explorer.Resume
		fnErr  error
	)
	if err := loop.Do(ctx, func(e *explorer.Explorer) {
		if fnErr = fn(e); fnErr != nil {
			return
		}
		snap = e.Snapshot()
		resume = e.Resume()
	}); err != nil {
		return explorer.Snapshot{}, err
	}
	if fnErr != nil {
		return explorer.Snapshot{}, fnErr
	}
	return snap, s.save(ctx, sess, resume)
}

// view runs fn on the session's explorer without persisting.
func (s *Server) view(ctx context.Context, id string, fn func(*explorer.Explorer)) error {
	_, loop, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	return loop.Do(ctx, fn)
}

func (s *Server) save(ctx context.Context, sess *session.Session, r explorer.Resume) error {
	sess.From, sess.To = r.From, r.To
	sess.Line = r.Line
	sess.Rows = r.Rows
	sess.Hour = r.Hour
	sess.Touch(s.ttl)
	if err := s.sessions.Set(ctx, sess); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save session %s", sess.ID)
	}
	return nil
}

func (s *Server) drop(id string) {
	s.mu.Lock()
	live, ok := s.loops[id]
	delete(s.loops, id)
	s.mu.Unlock()
	if ok {
		live.Close()
	}
}

// sweep stops idle loops every interval until the server is closed.
func (s *Server) sweep(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-t.C:
			s.evictIdle(now)
		}
	}
}

// evictIdle stops every loop not used for longer than the TTL and returns
// how many were stopped.
func (s *Server) evictIdle(now time.Time) int {
	var idle []*liveLoop
	s.mu.Lock()
	for id, live := range s.loops {
		if now.Sub(live.seen) > s.ttl {
			idle = append(idle, live)
			delete(s.loops, id)
		}
	}
	s.mu.Unlock()

	for _, live := range idle {
		live.Close()
	}
	if len(idle) > 0 {
		s.logger.Debug("idle sessions stopped", "count", len(idle))
	}
	return len(idle)
}
