// Package pipeline provides the hover pipeline shared by the CLI and the
// HTTP server.
//
// This package implements the complete build → hover → render sequence so
// that every entry point turns a figure and a pointer event into the same
// labels, spikes and artifacts.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Position axes and wire trace searchers with [figure.Build]
//  2. Hover: Run one synchronous hover cycle on the plot
//  3. Render: Serialize the hover and spike layers as SVG, or the result as JSON
//
// Stateless requests with a fixed pixel position are cached under a key
// derived from the figure revision, so repeated hovers of an unchanged
// figure skip all three stages.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	xpx, ypx := 120.0, 80.0
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Figure: doc,
//	    Event:  fx.Event{XPx: &xpx, YPx: &ypx},
//	    Format: pipeline.FormatSVG,
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(res.Artifact)
package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hoverfx/pkg/errors"
	"github.com/matzehuels/hoverfx/pkg/figure"
	"github.com/matzehuels/hoverfx/pkg/fx"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultTTL is how long rendered hover artifacts stay cached.
	DefaultTTL = 24 * time.Hour

	// DefaultBackground fills the SVG behind the hover layers.
	DefaultBackground = "#fff"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	// FormatText produces no artifact; callers format Result.Hover themselves.
	FormatText = "text"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatText: true,
}

// ValidateFormat returns an error if format is not supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported output format %q (use svg, json or text)", format)
	}
	return nil
}

// ValidateMode returns an error if mode is set and is not a configurable
// hover mode.
func ValidateMode(mode string) error {
	if mode != "" && !fx.Mode(mode).Valid() {
		return errors.New(errors.ErrCodeInvalidHoverMode, "unsupported hover mode %q", mode)
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Figure is the document to hover. Required.
	Figure *figure.Document `json:"-"`

	// Revision identifies the figure content in cache keys. It is computed
	// from Figure when empty.
	Revision string `json:"revision,omitempty"`

	Event    fx.Event `json:"event"`
	Subplots []string `json:"subplots,omitempty"`
	Format   string   `json:"format,omitempty"`

	// Refresh skips the cache lookup. The result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// TTL of the cached artifact. Defaults to DefaultTTL.
	TTL time.Duration `json:"-"`

	// Background of the SVG artifact. Defaults to the figure paper color,
	// then DefaultBackground.
	Background string `json:"background,omitempty"`

	// Session seeds the plot with the state of an earlier cycle. Runs with
	// a session are never cached.
	Session *fx.Session `json:"-"`

	// Logger receives plot diagnostics. Defaults to the runner's logger.
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Figure == nil {
		return errors.New(errors.ErrCodeInvalidInput, "figure is required")
	}
	if o.Format == "" {
		o.Format = FormatJSON
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := ValidateMode(string(o.Event.HoverMode)); err != nil {
		return err
	}
	for _, id := range o.Subplots {
		if err := errors.ValidateSubplotID(id); err != nil {
			return err
		}
	}
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Background == "" {
		o.Background = o.Figure.Layout.PaperBgColor
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	return nil
}

// Cacheable reports whether the run depends only on the figure and the
// options that make up its cache key.
func (o *Options) Cacheable() bool {
	e := o.Event
	return o.Session == nil && o.Format != FormatText &&
		e.Origin == nil && e.XPx != nil && e.YPx != nil &&
		e.XVal == nil && e.YVal == nil && len(e.Points) == 0
}

func (o *Options) mode() string {
	if o.Event.HoverMode != "" {
		return string(o.Event.HoverMode)
	}
	return o.Figure.Layout.HoverMode
}

func (o *Options) subplotKey() string {
	return strings.Join(o.Subplots, ",")
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Hover is the hover cycle result. It is nil on a cache hit.
	Hover *fx.Result

	// Artifact is the rendered output, empty for FormatText.
	Artifact []byte

	// Session is the plot state after the cycle. Zero on a cache hit.
	Session fx.Session

	// Plot is the plot the cycle ran on. Nil on a cache hit.
	Plot *fx.Plot

	Revision string
	CacheHit bool
	Stats    Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BuildTime  time.Duration
	HoverTime  time.Duration
	RenderTime time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("build %s, hover %s, render %s", s.BuildTime, s.HoverTime, s.RenderTime)
}
