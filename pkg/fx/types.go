package fx

import (
	"math"

	"github.com/matzehuels/hoverfx/pkg/axis"
	"github.com/matzehuels/hoverfx/pkg/surface"
)

// =============================================================================
// Hover Modes
// =============================================================================

// Mode selects how hover points are searched and labelled.
type Mode string

const (
	// ModeX finds, per trace, the point nearest the pointer along x.
	ModeX Mode = "x"
	// ModeY finds, per trace, the point nearest the pointer along y.
	ModeY Mode = "y"
	// ModeClosest finds the single nearest point across all traces.
	ModeClosest Mode = "closest"
	// ModeXUnified is ModeX drawn as one legend-like panel.
	ModeXUnified Mode = "x unified"
	// ModeYUnified is ModeY drawn as one legend-like panel.
	ModeYUnified Mode = "y unified"
	// ModeArray hovers an explicit list of point selectors. It is never
	// configured; events carrying selectors switch to it.
	ModeArray Mode = "array"
)

// Modes lists the configurable hover modes.
var Modes = []Mode{ModeX, ModeY, ModeClosest, ModeXUnified, ModeYUnified}

// Valid reports whether m is a configurable hover mode.
func (m Mode) Valid() bool {
	for _, v := range Modes {
		if m == v {
			return true
		}
	}
	return false
}

// IsUnified reports whether m draws a single unified panel.
func (m Mode) IsUnified() bool { return m == ModeXUnified || m == ModeYUnified }

// IsXY reports whether m compares points along one axis.
func (m Mode) IsXY() bool { return m == ModeX || m == ModeY }

// Letter returns the compared axis letter: "x" for x modes, "y" for y modes
// and "" otherwise.
func (m Mode) Letter() string {
	switch m {
	case ModeX, ModeXUnified:
		return "x"
	case ModeY, ModeYUnified:
		return "y"
	}
	return ""
}

// =============================================================================
// Layout
// =============================================================================

// HoverLabel styles hover labels. Empty fields inherit.
type HoverLabel struct {
	BgColor     string       `json:"bgcolor,omitempty" toml:"bgcolor" yaml:"bgcolor"`
	BorderColor string       `json:"bordercolor,omitempty" toml:"bordercolor" yaml:"bordercolor"`
	Font        surface.Font `json:"font" toml:"font" yaml:"font"`
	Align       string       `json:"align,omitempty" toml:"align" yaml:"align"` // left, right or auto
	NameLength  *int         `json:"namelength,omitempty" toml:"namelength" yaml:"namelength"`
}

// Layout holds the plot-wide hover settings.
type Layout struct {
	HoverMode Mode `json:"hovermode,omitempty"`

	// HoverDistance is the pixel radius searched for hover points. -1 means
	// no limit; 0 only matches points exactly under the pointer.
	HoverDistance float64 `json:"hoverdistance"`

	// SpikeDistance bounds the search for spike points the same way. 0
	// disables spikes.
	SpikeDistance float64 `json:"spikedistance"`

	HoverLabel   HoverLabel `json:"hoverlabel"`
	PlotBgColor  string     `json:"plot_bgcolor,omitempty"`
	PaperBgColor string     `json:"paper_bgcolor,omitempty"`
}

// DefaultLayout returns the layout every figure starts from.
func DefaultLayout() Layout {
	n := DefaultNameLength
	return Layout{
		HoverMode:     ModeClosest,
		HoverDistance: DefaultHoverDistance,
		SpikeDistance: DefaultSpikeDistance,
		HoverLabel: HoverLabel{
			Font:       surface.Font{Family: HoverFont, Size: HoverFontSize},
			NameLength: &n,
		},
	}
}

func (l Layout) maxHoverDistance() float64 { return distanceLimit(l.HoverDistance) }

func (l Layout) maxSpikeDistance() float64 { return distanceLimit(l.SpikeDistance) }

func distanceLimit(d float64) float64 {
	if d < 0 {
		return math.Inf(1)
	}
	return d
}

// font returns the layout hover font with defaults filled in.
func (l Layout) font() surface.Font {
	f := l.HoverLabel.Font
	if f.Family == "" {
		f.Family = HoverFont
	}
	if f.Size <= 0 {
		f.Size = HoverFontSize
	}
	return f
}

func (l Layout) nameLength() int {
	if l.HoverLabel.NameLength != nil {
		return *l.HoverLabel.NameLength
	}
	return DefaultNameLength
}

// =============================================================================
// Subplots and Traces
// =============================================================================

// Subplot pairs an x and a y axis. Overlays lists subplots drawn on top of
// this one; hovering the subplot also searches them.
type Subplot struct {
	ID           string
	XAxis        *axis.Axis
	YAxis        *axis.Axis
	Overlays     []string
	NonCartesian bool
}

// PointStyle holds per-point overrides of the trace hover label style. Empty
// fields fall back to the trace; FontSize and NameLength are set when non-nil,
// zero included.
type PointStyle struct {
	HoverInfo   string   `json:"hoverinfo,omitempty"`
	BgColor     string   `json:"bgcolor,omitempty"`
	BorderColor string   `json:"bordercolor,omitempty"`
	FontFamily  string   `json:"fontfamily,omitempty"`
	FontSize    *float64 `json:"fontsize,omitempty"`
	FontColor   string   `json:"fontcolor,omitempty"`
	NameLength  *int     `json:"namelength,omitempty"`
	Align       string   `json:"align,omitempty"`
}

// Trace is one data series as the hover engine sees it. The data itself
// lives behind Searcher.
type Trace struct {
	Index         int
	Name          string
	Type          string
	Subplot       string // subplot ID, "xy" when empty
	Hidden        bool
	HoverInfo     string // "+"-joined flags x, y, z, text, name; or all, none, skip
	HoverTemplate string
	HoverLabel    HoverLabel
	Orientation   string // "v" or "h"
	Color         string

	// OmitZLabel drops the z value from composed label text, for traces
	// whose z is already conveyed by color alone.
	OmitZLabel bool

	// Per-point arrays, indexed by point number.
	Styles     []PointStyle
	Text       []string
	IDs        []string
	CustomData []any

	Searcher PointSearcher
}

// SubplotID returns the subplot the trace is drawn on.
func (t *Trace) SubplotID() string {
	if t.Subplot == "" {
		return "xy"
	}
	return t.Subplot
}

func (t *Trace) hoverInfo() string {
	if t.HoverInfo == "" {
		return "all"
	}
	return t.HoverInfo
}

// =============================================================================
// Points
// =============================================================================

// Point is one hover candidate. The engine hands searchers a template with
// the trace, axes and current best distance filled in; searchers copy it,
// set the geometry and values of each hit and return the copies.
//
// Pixel coordinates X0..Y1 are relative to the axis starts.
type Point struct {
	Trace   *Trace
	XA, YA  *axis.Axis
	Subplot string

	// Index is the point number within the trace, -1 for none. Indices
	// lists every point number when one hit stands for several.
	Index   int
	Indices []int

	// Distance is the pixel (or pseudo) distance used to rank hits.
	// SpikeDistance ranks spike candidates and defaults to +Inf.
	Distance      float64
	SpikeDistance float64

	Color        string
	Name         string
	NameOverride *string

	X0, X1, Y0, Y1 float64
	XSpike, YSpike *float64

	XLabelVal, YLabelVal, ZLabelVal *float64
	XErr, XErrNeg, YErr, YErrNeg    *float64

	Text          string
	ExtraText     string
	HoverTemplate string
	IdealAlign    string

	// Resolved style.
	HoverInfo   string
	BorderColor string
	FontFamily  string
	FontSize    float64
	FontColor   string
	NameLength  *int
	Align       string

	// Set by the normalizer. Empty labels are absent.
	XLabel, YLabel, ZLabel string
	XVal, YVal             any
	PosRef                 float64
}

// Center returns the pixel center of the hit relative to the axis starts.
func (p *Point) Center() (float64, float64) {
	return (p.X0 + p.X1) / 2, (p.Y0 + p.Y1) / 2
}

// SetBox sets X0..Y1.
func (p *Point) SetBox(x0, x1, y0, y1 float64) {
	p.X0, p.X1, p.Y0, p.Y1 = x0, x1, y0, y1
}

// Float returns a pointer to v, for the optional numeric fields of Point.
func Float(v float64) *float64 { return &v }

// SearchOptions carries the distance limits of the current cycle.
type SearchOptions struct {
	MaxHoverDistance float64
	MaxSpikeDistance float64
}

// PointSearcher finds hover points of one trace. xval and yval are calc
// values on pd.XA and pd.YA; either may be NaN when mode does not need it.
// Implementations must be deterministic and must not retain pd.
type PointSearcher interface {
	HoverPoints(pd Point, xval, yval float64, mode Mode, opts SearchOptions) []Point
}
