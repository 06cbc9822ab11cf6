package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/yourcommute/internal/config"
	"github.com/matzehuels/yourcommute/pkg/buildinfo"
	"github.com/matzehuels/yourcommute/pkg/cache"
	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/observability"
	"github.com/matzehuels/yourcommute/pkg/rollup"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "yourcommute"

	// memoryCacheSize bounds the in-process rollup cache (one entry per origin).
	memoryCacheSize = 256
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// stats counts selection and cache events for the server's /health.
	stats *observability.Stats

	// Global flags. Empty values leave the config untouched.
	configPath string
	dataDir    string
	rollupURL  string
	cacheKind  string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), stats: observability.NewStats()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Explore typical commute times on a transit network",
		Long: `yourcommute shows how long trips between two stations of a transit network
usually take, hour by hour, together with the line's ridership.

Pick a pair of stations on the map (or name them on the command line) to see
the route, a scatterplot of observed transit and wait times, and a ridership
table for the line.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			registerHooks(c.Logger, c.stats)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ~/.config/yourcommute/config.toml)")
	flags.StringVar(&c.dataDir, "data-dir", "", "directory holding the network JSON files")
	flags.StringVar(&c.rollupURL, "rollup-url", "", "base URL of the rollup files")
	flags.StringVar(&c.cacheKind, "cache", "", "rollup cache: file, redis, memory or none")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the rollup cache")

	root.AddCommand(c.routeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Environment
// =============================================================================

// loadConfig resolves the config file, .env files, the environment and the
// global flags, in that order.
func (c *CLI) loadConfig() (config.Config, error) {
	config.LoadDotEnv(".")
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.applyFlags(&cfg)
	return cfg, cfg.Validate()
}

func (c *CLI) applyFlags(cfg *config.Config) {
	if c.dataDir != "" {
		cfg.DataDir = c.dataDir
	}
	if c.rollupURL != "" {
		cfg.RollupURL = c.rollupURL
	}
	if c.cacheKind != "" {
		cfg.Cache = c.cacheKind
	}
	if c.noCache {
		cfg.Cache = config.CacheNone
	}
}

// loadModel reads and joins the network files of cfg.DataDir.
func (c *CLI) loadModel(ctx context.Context, cfg config.Config) (*network.Model, error) {
	prog := newProgress(c.Logger)
	m, err := network.LoadDir(ctx, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d stations on %d lines", len(m.Stations()), len(m.Lines())))
	return m, nil
}

// newLoader builds the configured rollup source behind the configured
// cache. The returned close function releases both.
func (c *CLI) newLoader(ctx context.Context, cfg config.Config) (rollup.Loader, func(), error) {
	var (
		source  rollup.Loader
		name    string
		closers []func()
	)
	switch cfg.RollupSource() {
	case config.SourceMongo:
		ms, err := rollup.NewMongoSource(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		source, name = ms, ms.String()
		closers = append(closers, func() { _ = ms.Close(context.Background()) })
	case config.SourceHTTP:
		hs, err := rollup.NewHTTPSource(cfg.RollupURL, nil)
		if err != nil {
			return nil, nil, err
		}
		source, name = hs, hs.String()
	default:
		ds := rollup.NewDirSource(cfg.RollupPath())
		source, name = ds, ds.String()
	}

	closeAll := func() {
		for _, fn := range closers {
			fn()
		}
	}

	ch, err := newCache(ctx, cfg)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	closers = append(closers, func() { _ = ch.Close() })
	c.Logger.Debug("rollup source", "kind", cfg.RollupSource(), "name", name, "cache", cfg.Cache)

	return rollup.NewCached(source, name, ch, nil, c.Logger), closeAll, nil
}

func newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheMemory:
		return cache.NewMemoryCache(memoryCacheSize), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/yourcommute/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
	}
	return filepath.Join(home, ".cache", appName), nil
}
