package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/explorer"
	"github.com/matzehuels/yourcommute/pkg/hashroute"
	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/selection"
	"github.com/matzehuels/yourcommute/pkg/view/table"
)

// routeOpts holds the flags of the route command.
type routeOpts struct {
	hash    string
	hour    float64
	noTimes bool
	noTable bool
}

// routeCommand creates the route command.
func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts

	cmd := &cobra.Command{
		Use:   "route [from] [to]",
		Short: "Show the route between two stations",
		Long: `Show the route between two stations, the typical trip at an hour of the
day, and the ridership table of the line.

Stations are given as IDs or as a permalink fragment:

  yourcommute route place-knncl place-sstat
  yourcommute route --hash '#your-commute.place-knncl.place-sstat' --hour 8`,
		Args:              cobra.RangeArgs(0, 2),
		ValidArgsFunction: c.completeStations,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.hash, "hash", "", "permalink fragment naming the pair")
	cmd.Flags().Float64Var(&opts.hour, "hour", 0, "hour of day to describe, e.g. 17.5 for 5:30 pm")
	cmd.Flags().BoolVar(&opts.noTimes, "no-times", false, "skip loading trip times")
	cmd.Flags().BoolVar(&opts.noTable, "no-table", false, "skip the ridership table")

	return cmd
}

func (c *CLI) runRoute(ctx context.Context, args []string, opts routeOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	m, err := c.loadModel(ctx, cfg)
	if err != nil {
		return err
	}
	from, to, err := pairArgs(m, args, opts.hash)
	if err != nil {
		return err
	}

	var (
		e     *explorer.Explorer
		state selection.State
	)
	if opts.noTimes {
		state = routeOnly(ctx, m, from, to)
	} else {
		loader, closeLoader, err := c.newLoader(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeLoader()

		spinner := newSpinnerWithContext(ctx, "Loading trip times...")
		e = explorer.New(m, spinnerLoader{loader, spinner}, explorer.Options{Logger: c.Logger, MaxPoints: cfg.MaxPoints})
		if opts.hour != 0 {
			e.Scatter.SetLastHour(opts.hour)
		}
		spinner.Start()
		err = e.Choose(ctx, from, to)
		spinner.Stop()
		if err != nil {
			return err
		}
		state = e.State()
	}

	if !state.HasRoute {
		printWarning("No single line connects %s and %s", stationName(m, from), stationName(m, to))
		return nil
	}

	stops := state.Route.Stations()
	line := routeLine(m, stops)

	printSuccess("%s to %s", stationName(m, from), stationName(m, to))
	printStats(line+" line", fmt.Sprintf("%d stops", len(stops)-1), hashroute.Encode(from, to))
	printNewline()

	names := make([]string, len(stops))
	for i, id := range stops {
		names[i] = stationName(m, id)
	}
	fmt.Println(routeText(line, names))

	if e != nil {
		printNewline()
		if text := e.Scatter.StatusText(); text != "" {
			printWarning("%s", text)
			if err := e.Scatter.Err(); err != nil {
				printDetail("%s", errors.UserMessage(err))
			}
		} else {
			printTrip(e.Highlight())
		}
	}

	if !opts.noTable {
		if t, ok := table.Build(m, line, state, nil); ok {
			printNewline()
			fmt.Println(lineStyle(line).Bold(true).Render(line + " Line ridership"))
			fmt.Println(table.Render(t))
		}
	}
	return nil
}

// pairArgs resolves a station pair from two positional IDs or a fragment.
func pairArgs(m *network.Model, args []string, hash string) (from, to string, err error) {
	switch {
	case hash != "":
		return hashroute.Parse(hash, m)
	case len(args) == 2:
		for _, id := range args {
			if err := errors.ValidateStationID(id); err != nil {
				return "", "", err
			}
			if !m.Has(id) {
				return "", "", errors.New(errors.ErrCodeUnknownStation, "unknown station %q", id)
			}
		}
		return args[0], args[1], nil
	default:
		return "", "", errors.New(errors.ErrCodeInvalidInput, "give two station IDs or --hash")
	}
}

// routeOnly applies the pair to a fresh pipeline without fetching.
func routeOnly(ctx context.Context, m *network.Model, from, to string) selection.State {
	p := selection.NewPipeline(m)
	p.SetPair(ctx, from, to)
	return p.State()
}

// routeLine returns the line of the first link along stops.
func routeLine(m *network.Model, stops []string) string {
	if len(stops) < 2 {
		return ""
	}
	s, ok := m.Station(stops[0])
	if !ok {
		return ""
	}
	for _, l := range s.Links {
		if o := l.Other(s.ID); o != nil && o.ID == stops[1] {
			return l.Line
		}
	}
	return s.PrimaryLine()
}

func stationName(m *network.Model, id string) string {
	if s, ok := m.Station(id); ok {
		return s.DisplayName()
	}
	return id
}
