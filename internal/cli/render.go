package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/yourcommute/internal/config"
	"github.com/matzehuels/yourcommute/pkg/errors"
	"github.com/matzehuels/yourcommute/pkg/explorer"
	"github.com/matzehuels/yourcommute/pkg/network"
	"github.com/matzehuels/yourcommute/pkg/selection"
	"github.com/matzehuels/yourcommute/pkg/view"
	"github.com/matzehuels/yourcommute/pkg/view/mapview"
)

const (
	vizMap     = "map"     // spider map with the route highlighted
	vizScatter = "scatter" // hourly transit and wait times
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	hash     string   // permalink fragment naming the pair
	vizTypes []string // visualization types: "map", "scatter"
	formats  []string // output formats: "svg", "pdf", "png"
	scale    float64  // PNG zoom factor
	hour     float64  // highlighted hour of the scatterplot
}

// renderCommand creates the render command for writing views to files.
func (c *CLI) renderCommand() *cobra.Command {
	var vizTypesStr, formatsStr string
	opts := renderOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "render [from] [to]",
		Short: "Render the map or scatterplot of a station pair",
		Long: `Render the map or scatterplot of a station pair to SVG, PNG or PDF.

  yourcommute render place-knncl place-sstat
  yourcommute render --hash '#your-commute.place-alfcl.place-sstat' -t map,scatter -f svg,png

PNG and PDF output require rsvg-convert (librsvg).`,
		Args:              cobra.RangeArgs(0, 2),
		ValidArgsFunction: c.completeStations,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.vizTypes = parseList(vizTypesStr, vizMap)
			opts.formats = parseList(formatsStr, view.FormatSVG)
			if err := validateVizTypes(opts.vizTypes); err != nil {
				return err
			}
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single type/format) or base path (multiple)")
	cmd.Flags().StringVar(&opts.hash, "hash", "", "permalink fragment naming the pair")
	cmd.Flags().StringVarP(&vizTypesStr, "type", "t", "", "view(s): map (default), scatter (comma-separated)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG zoom factor")
	cmd.Flags().Float64Var(&opts.hour, "hour", 0, "highlighted hour of the scatterplot")

	return cmd
}

// parseList splits a comma-separated flag value. Empty means def.
func parseList(s, def string) []string {
	if s == "" {
		return []string{def}
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var validFormats = map[string]bool{view.FormatSVG: true, view.FormatPNG: true, view.FormatPDF: true}

var validVizTypes = map[string]bool{vizMap: true, vizScatter: true}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'svg', 'png' or 'pdf')", f)
		}
	}
	return nil
}

func validateVizTypes(types []string) error {
	for _, t := range types {
		if !validVizTypes[t] {
			return errors.New(errors.ErrCodeInvalidInput, "invalid type: %s (must be 'map' or 'scatter')", t)
		}
	}
	return nil
}

// basePath derives the base output path. An empty output becomes
// "<from>-<to>"; a known format extension is stripped.
func basePath(output, from, to string) string {
	if output == "" {
		return from + "-" + to
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names one rendered file. A single output keeps the base name
// as given; multiple outputs get a "_<type>" suffix.
func outputPath(base, vizType, format string, multiple bool) string {
	if multiple {
		return fmt.Sprintf("%s_%s.%s", base, vizType, format)
	}
	return base + "." + format
}

func (c *CLI) runRender(ctx context.Context, args []string, opts *renderOpts) error {
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

	svgs := make(map[string][]byte, len(opts.vizTypes))

	state := routeOnly(ctx, m, from, to)
	if !state.HasRoute {
		printWarning("No single line connects %s and %s", stationName(m, from), stationName(m, to))
	}

	if slices.Contains(opts.vizTypes, vizMap) {
		svg, err := renderMap(ctx, m, state)
		if err != nil {
			return err
		}
		svgs[vizMap] = svg
	}

	if slices.Contains(opts.vizTypes, vizScatter) && state.HasRoute {
		svg, err := c.renderScatter(ctx, cfg, m, from, to, opts.hour)
		if err != nil {
			return err
		}
		svgs[vizScatter] = svg
	}

	base := basePath(opts.output, from, to)
	multiple := len(opts.vizTypes)*len(opts.formats) > 1
	for _, vt := range opts.vizTypes {
		svg, ok := svgs[vt]
		if !ok {
			continue
		}
		for _, format := range opts.formats {
			data, err := view.Convert(svg, format, opts.scale)
			if err != nil {
				return err
			}
			path := outputPath(base, vt, format, multiple)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
			}
			printFile(path, len(data))
		}
	}
	return nil
}

func renderMap(ctx context.Context, m *network.Model, state selection.State) ([]byte, error) {
	v := mapview.New(m, nil)
	return mapview.RenderSVG(ctx, mapview.ToDOT(v.Glyph(state)))
}

func (c *CLI) renderScatter(ctx context.Context, cfg config.Config, m *network.Model, from, to string, hour float64) ([]byte, error) {
	loader, closeLoader, err := c.newLoader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeLoader()

	spinner := newSpinnerWithContext(ctx, "Loading trip times...")
	e := explorer.New(m, spinnerLoader{loader, spinner}, explorer.Options{Logger: c.Logger, MaxPoints: cfg.MaxPoints})
	if hour != 0 {
		e.Scatter.SetLastHour(hour)
	}

	spinner.Start()
	e.SetPair(ctx, from, to)
	spinner.Stop()

	if err := e.Scatter.Err(); err != nil {
		return nil, err
	}
	printTrip(e.Highlight())
	return e.Scatter.RenderSVG()
}
