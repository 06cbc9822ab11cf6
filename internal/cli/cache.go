package cli

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/yourcommute/internal/config"
	"github.com/matzehuels/yourcommute/pkg/cache"
	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/rollup"
)

// defaultWarmJobs bounds concurrent rollup loads in "cache warm".
const defaultWarmJobs = 4

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rollup file cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheWarmCommand())
	cmd.AddCommand(c.cacheSeedCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached rollup files",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return err
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			defer fc.Close()

			count, err := fc.Clear()
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheWarmCommand creates the "cache warm" subcommand, which loads
// rollups ahead of time so the explorer and server start from the cache.
func (c *CLI) cacheWarmCommand() *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "warm [station...]",
		Short: "Load rollups into the configured cache",
		Long: `Load the rollups of the given origin stations (all stations when none are
given) into the configured cache.

  yourcommute cache warm place-knncl place-alfcl
  yourcommute --cache redis cache warm -j 8`,
		ValidArgsFunction: c.completeStations,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			m, err := c.loadModel(ctx, cfg)
			if err != nil {
				return err
			}
			ids, err := warmStations(m, args)
			if err != nil {
				return err
			}
			loader, closeLoader, err := c.newLoader(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeLoader()

			spinner := newSpinnerWithContext(ctx, "Warming cache...")
			spinner.Start()
			res, err := warm(ctx, loader, ids, jobs, spinner.Progress)
			spinner.Stop()
			if err != nil {
				return err
			}

			printSuccess("Cached %d of %d rollups", res.loaded, len(ids))
			if res.missing > 0 {
				printDetail("%d stations have no rollup", res.missing)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", defaultWarmJobs, "concurrent loads")
	return cmd
}

// cacheSeedCommand creates the "cache seed" subcommand, which copies
// rollup files from a directory into the MongoDB rollups collection.
func (c *CLI) cacheSeedCommand() *cobra.Command {
	var (
		jobs int
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "seed [station...]",
		Short: "Copy rollup files into MongoDB",
		Long: `Copy the rollup files of the given origin stations (all stations when none
are given) from a directory into the MongoDB rollups collection named by
mongo_uri and mongo_db.

  YOURCOMMUTE_MONGO_URI=mongodb://localhost:27017 yourcommute cache seed --dir ./data`,
		ValidArgsFunction: c.completeStations,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.MongoURI == "" {
				return errors.New(errors.ErrCodeInvalidInput, "seeding needs mongo_uri (or %s)", config.EnvMongoURI)
			}
			if dir == "" {
				dir = cfg.RollupPath()
			}
			m, err := c.loadModel(ctx, cfg)
			if err != nil {
				return err
			}
			ids, err := warmStations(m, args)
			if err != nil {
				return err
			}

			ms, err := rollup.NewMongoSource(ctx, cfg.MongoURI, cfg.MongoDB)
			if err != nil {
				return err
			}
			defer ms.Close(context.WithoutCancel(ctx))

			spinner := newSpinnerWithContext(ctx, "Seeding MongoDB...")
			spinner.Start()
			res, err := warm(ctx, storingLoader{rollup.NewDirSource(dir), ms}, ids, jobs, spinner.Progress)
			spinner.Stop()
			if err != nil {
				return err
			}

			printSuccess("Stored %d of %d rollups in %s", res.loaded, len(ids), ms)
			if res.missing > 0 {
				printDetail("%d stations have no rollup file in %s", res.missing, dir)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", defaultWarmJobs, "concurrent copies")
	cmd.Flags().StringVar(&dir, "dir", "", "directory of rollup files (default rollup_dir or data_dir)")
	return cmd
}

// rollupStore persists rollup files. *rollup.MongoSource implements it.
type rollupStore interface {
	Store(ctx context.Context, from string, f rollup.File) error
}

// storingLoader stores every file it loads into dst.
type storingLoader struct {
	rollup.Loader
	dst rollupStore
}

func (l storingLoader) Load(ctx context.Context, from string, progress func(pct int)) (rollup.File, error) {
	f, err := l.Loader.Load(ctx, from, progress)
	if err != nil {
		return nil, err
	}
	if err := l.dst.Store(ctx, from, f); err != nil {
		return nil, err
	}
	return f, nil
}

// warmStations returns args after checking them against m, or every
// station of m when args is empty.
func warmStations(m *network.Model, args []string) ([]string, error) {
	if len(args) == 0 {
		ids := make([]string, 0, len(m.Stations()))
		for _, s := range m.Stations() {
			ids = append(ids, s.ID)
		}
		return ids, nil
	}
	for _, id := range args {
		if !m.Has(id) {
			return nil, errors.New(errors.ErrCodeUnknownStation, "unknown station %q", id)
		}
	}
	return args, nil
}

type warmResult struct {
	loaded  int
	missing int
}

// warm loads every id through loader with at most jobs loads in flight.
// Stations without a rollup are counted, not failed.
func warm(ctx context.Context, loader rollup.Loader, ids []string, jobs int, progress func(pct int)) (warmResult, error) {
	var loaded, missing, done atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))

	for _, id := range ids {
		g.Go(func() error {
			defer func() {
				if progress != nil {
					progress(int(done.Add(1)) * 100 / len(ids))
				}
			}()
			if _, err := loader.Load(ctx, id, nil); err != nil {
				if errors.Is(err, errors.ErrCodeNotFound) {
					missing.Add(1)
					return nil
				}
				return err
			}
			loaded.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return warmResult{loaded: int(loaded.Load()), missing: int(missing.Load())}, err
}
