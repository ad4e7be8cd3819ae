package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hoverfx/pkg/errors"
	"github.com/matzehuels/hoverfx/pkg/fx"
	"github.com/matzehuels/hoverfx/pkg/pipeline"
	"github.com/matzehuels/hoverfx/pkg/session"
)

// hoverOpts holds the command-line flags for the hover command.
type hoverOpts struct {
	x, y       float64  // pointer position in subplot pixels
	xSet, ySet bool     // whether --x and --y were given
	xval, yval string   // data values, used instead of pixels
	points     []string // CURVE:POINT selectors for array hover
	mode       string
	subplots   []string
	format     string
	output     string
	noCache    bool
	refresh    bool
	session    string // named session kept between runs
}

// hoverCommand creates the hover command, which runs a single hover cycle
// on a figure file.
func (c *CLI) hoverCommand() *cobra.Command {
	opts := hoverOpts{format: pipeline.FormatText}

	cmd := &cobra.Command{
		Use:   "hover [figure]",
		Short: "Hover a figure at a position and print what was found",
		Long: `Hover a figure at a pixel position or at data values and print the hovered
points, the label texts and the spike lines.

Positions are measured from the top-left corner of the first subplot. Without
a position the pointer sits at the subplot center.`,
		Example: `  # Hover at a pixel position
  hoverfx hover fig.json --x 120 --y 80

  # Hover at data values in x unified mode
  hoverfx hover fig.toml --xval 2024-03-01 --mode "x unified"

  # Hover explicit points and write the hover layer as SVG
  hoverfx hover fig.yaml --point 0:3 --point 1:3 --format svg -o hover.svg

  # Keep hover state between runs so "changed" reflects the last run
  hoverfx hover fig.json --x 120 --y 80 --session demo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.xSet = cmd.Flags().Changed("x")
			opts.ySet = cmd.Flags().Changed("y")
			data, err := c.runHover(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if err := c.writeOutput(data, opts.output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if opts.output != "" {
				printSuccess("Hover written")
				printFile(opts.output)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&opts.x, "x", 0, "pointer x in subplot pixels")
	cmd.Flags().Float64Var(&opts.y, "y", 0, "pointer y in subplot pixels")
	cmd.Flags().StringVar(&opts.xval, "xval", "", "x data value to hover")
	cmd.Flags().StringVar(&opts.yval, "yval", "", "y data value to hover")
	cmd.Flags().StringArrayVar(&opts.points, "point", nil, "hover CURVE:POINT (repeatable)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "hover mode: x, y, closest, x unified or y unified")
	cmd.Flags().StringSliceVar(&opts.subplots, "subplot", nil, "subplots to search (e.g. xy, x2y2)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the SVG and JSON cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().StringVar(&opts.session, "session", "", "name of a hover session kept between runs")

	return cmd
}

// runHover loads the figure, runs the pipeline and returns the bytes to
// print.
func (c *CLI) runHover(ctx context.Context, path string, opts hoverOpts) ([]byte, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	doc, err := c.loadFigure(path)
	if err != nil {
		return nil, err
	}
	evt, err := opts.event()
	if err != nil {
		return nil, err
	}

	store, err := c.newCache(opts.noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, logger)
	defer runner.Close()

	var (
		sessions *session.FileStore
		snap     *session.Snapshot
	)
	if opts.session != "" {
		if sessions, snap, err = c.loadSession(ctx, opts.session, doc.ID); err != nil {
			return nil, err
		}
	}
	popts := pipeline.Options{
		Figure:   doc,
		Event:    evt,
		Subplots: opts.subplots,
		Format:   opts.format,
		Refresh:  opts.refresh,
		TTL:      c.Config.Cache.TTL.Duration,
	}
	if snap != nil {
		popts.Session = &snap.State
	}

	res, err := runner.Execute(ctx, popts)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		snap.Update(res.Session, session.DefaultTTL)
		if err := sessions.Set(ctx, snap); err != nil {
			return nil, fmt.Errorf("save session: %w", err)
		}
	}

	if res.CacheHit {
		prog.done("Hovered " + path + " (cached)")
	} else {
		prog.done(fmt.Sprintf("Hovered %s, %d point(s)", path, len(res.Hover.Points)))
	}
	if opts.format == pipeline.FormatText {
		return []byte(renderResult(res.Hover)), nil
	}
	return res.Artifact, nil
}

// loadSession opens the session directory and returns the named snapshot,
// or a fresh one when it is missing or was left by another figure.
func (c *CLI) loadSession(ctx context.Context, id, figureID string) (*session.FileStore, *session.Snapshot, error) {
	dir, err := c.sessionDir()
	if err != nil {
		return nil, nil, err
	}
	store, err := session.NewFileStore(dir)
	if err != nil {
		return nil, nil, err
	}
	snap, err := store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if snap == nil || snap.FigureID != figureID {
		snap = session.New(id, figureID, session.DefaultTTL)
	}
	return store, snap, nil
}

// event turns the position flags into a hover event.
func (o hoverOpts) event() (fx.Event, error) {
	evt := fx.Event{HoverMode: fx.Mode(o.mode)}
	if o.xSet {
		x := o.x
		evt.XPx = &x
	}
	if o.ySet {
		y := o.y
		evt.YPx = &y
	}
	if o.xval != "" {
		evt.XVal = o.xval
	}
	if o.yval != "" {
		evt.YVal = o.yval
	}
	for _, s := range o.points {
		sel, err := parsePoint(s)
		if err != nil {
			return evt, err
		}
		evt.Points = append(evt.Points, sel)
	}
	return evt, nil
}

// parsePoint parses a selector like "1:4" into a point selector.
func parsePoint(s string) (fx.PointSelector, error) {
	curve, point, ok := strings.Cut(s, ":")
	if !ok {
		return fx.PointSelector{}, errors.New(errors.ErrCodeInvalidInput, "point %q: want CURVE:POINT", s)
	}
	cn, err := strconv.Atoi(strings.TrimSpace(curve))
	if err != nil || cn < 0 {
		return fx.PointSelector{}, errors.New(errors.ErrCodeInvalidInput, "point %q: invalid curve number", s)
	}
	pn, err := strconv.Atoi(strings.TrimSpace(point))
	if err != nil || pn < 0 {
		return fx.PointSelector{}, errors.New(errors.ErrCodeInvalidInput, "point %q: invalid point number", s)
	}
	return fx.PointSelector{CurveNumber: cn, PointNumber: &pn}, nil
}

// writeOutput writes data to path, or to the CLI output when path is empty.
func (c *CLI) writeOutput(data []byte, path string) error {
	if path == "" {
		_, err := c.out.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
