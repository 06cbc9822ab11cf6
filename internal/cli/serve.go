package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yourcommute/internal/config"
	"github.com/matzehuels/yourcommute/pkg/cache"
	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/explorer"
	"github.com/matzehuels/yourcommute/pkg/server"
	"github.com/matzehuels/yourcommute/pkg/session"
)

// shutdownTimeout bounds the graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

type serveOpts struct {
	listen string
	ttl    time.Duration
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the explorer over HTTP",
		Long: `Serve the explorer over HTTP.

Each API session owns one explorer. Sessions are kept in Redis when the
rollup cache is Redis, so several instances can share them; otherwise they
live in memory.

  yourcommute serve --listen :8080
  curl -X POST localhost:8080/api/sessions -d '{"hash":"#your-commute.place-knncl.place-sstat"}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&opts.ttl, "session-ttl", session.DefaultTTL, "lifetime of an untouched session")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.listen != "" {
		cfg.Listen = opts.listen
		if err := cfg.Validate(); err != nil {
			return err
		}
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

	sessions, closeSessions, err := c.newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	srv, err := server.New(ctx, server.Config{
		Model:          m,
		Loader:         loader,
		Sessions:       sessions,
		Logger:         c.Logger,
		Stats:          c.stats,
		AllowedOrigins: cfg.AllowedOrigins,
		Explorer:       explorer.Options{MaxPoints: cfg.MaxPoints},
		TTL:            opts.ttl,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	printSuccess("Serving on %s", StyleLink.Render(listenURL(cfg.Listen)))
	printNextStep("Stop with", "Ctrl-C")

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", cfg.Listen)
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return ctx.Err()
}

// newSessionStore shares Redis with the rollup cache when configured,
// and keeps sessions in memory otherwise.
func (c *CLI) newSessionStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	if cfg.Cache != config.CacheRedis {
		return session.NewMemoryStore(), func() {}, nil
	}
	rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	c.Logger.Debug("session store", "kind", "redis", "addr", cfg.RedisAddr)
	return session.NewRedisStore(rc.Client(), nil), func() { _ = rc.Close() }, nil
}

// listenURL turns a listen address into a clickable URL.
func listenURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
