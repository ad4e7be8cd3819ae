package figure

import (
	"github.com/matzehuels/hoverfx/pkg/axis"
	"github.com/matzehuels/hoverfx/pkg/fx"
)

// Document is a declarative figure: traces, the axes they are drawn on and
// the hover layout.
type Document struct {
	ID     string             `json:"id,omitempty" toml:"id" yaml:"id,omitempty"`
	Title  string             `json:"title,omitempty" toml:"title" yaml:"title,omitempty"`
	Layout Layout             `json:"layout" toml:"layout" yaml:"layout"`
	Axes   map[string]AxisDoc `json:"axes,omitempty" toml:"axes" yaml:"axes,omitempty"`
	Traces []TraceDoc         `json:"traces" toml:"traces" yaml:"traces"`
}

// Layout holds the figure size and hover settings. Nil distances take the
// hover defaults.
type Layout struct {
	Width  float64 `json:"width,omitempty" toml:"width" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" toml:"height" yaml:"height,omitempty"`
	Margin *Margin `json:"margin,omitempty" toml:"margin" yaml:"margin,omitempty"`

	HoverMode     string        `json:"hovermode,omitempty" toml:"hovermode" yaml:"hovermode,omitempty"`
	HoverDistance *float64      `json:"hoverdistance,omitempty" toml:"hoverdistance" yaml:"hoverdistance,omitempty"`
	SpikeDistance *float64      `json:"spikedistance,omitempty" toml:"spikedistance" yaml:"spikedistance,omitempty"`
	HoverLabel    fx.HoverLabel `json:"hoverlabel" toml:"hoverlabel" yaml:"hoverlabel"`
	PlotBgColor   string        `json:"plot_bgcolor,omitempty" toml:"plot_bgcolor" yaml:"plot_bgcolor,omitempty"`
	PaperBgColor  string        `json:"paper_bgcolor,omitempty" toml:"paper_bgcolor" yaml:"paper_bgcolor,omitempty"`
}

// Margin is the space between the figure edge and the plot area, in
// pixels.
type Margin struct {
	L float64 `json:"l" toml:"l" yaml:"l"`
	R float64 `json:"r" toml:"r" yaml:"r"`
	T float64 `json:"t" toml:"t" yaml:"t"`
	B float64 `json:"b" toml:"b" yaml:"b"`
}

// AxisDoc configures one axis. Axes that are not listed use defaults and an
// autoscaled range.
type AxisDoc struct {
	Type        string      `json:"type,omitempty" toml:"type" yaml:"type,omitempty"`
	Range       []any       `json:"range,omitempty" toml:"range" yaml:"range,omitempty"`
	Domain      []float64   `json:"domain,omitempty" toml:"domain" yaml:"domain,omitempty"`
	Side        string      `json:"side,omitempty" toml:"side" yaml:"side,omitempty"`
	Anchor      string      `json:"anchor,omitempty" toml:"anchor" yaml:"anchor,omitempty"`
	Overlaying  string      `json:"overlaying,omitempty" toml:"overlaying" yaml:"overlaying,omitempty"`
	Categories  []string    `json:"categories,omitempty" toml:"categories" yaml:"categories,omitempty"`
	HoverFormat string      `json:"hoverformat,omitempty" toml:"hoverformat" yaml:"hoverformat,omitempty"`
	Spikes      axis.Spikes `json:"spikes" toml:"spikes" yaml:"spikes"`
}

// TraceDoc is one trace. X and Y hold data values: numbers, numeric or date
// strings, or category names.
type TraceDoc struct {
	Type          string          `json:"type" toml:"type" yaml:"type"`
	Name          string          `json:"name,omitempty" toml:"name" yaml:"name,omitempty"`
	Visible       *bool           `json:"visible,omitempty" toml:"visible" yaml:"visible,omitempty"`
	XAxis         string          `json:"xaxis,omitempty" toml:"xaxis" yaml:"xaxis,omitempty"`
	YAxis         string          `json:"yaxis,omitempty" toml:"yaxis" yaml:"yaxis,omitempty"`
	X             []any           `json:"x,omitempty" toml:"x" yaml:"x,omitempty"`
	Y             []any           `json:"y,omitempty" toml:"y" yaml:"y,omitempty"`
	Z             [][]any         `json:"z,omitempty" toml:"z" yaml:"z,omitempty"`
	Text          []string        `json:"text,omitempty" toml:"text" yaml:"text,omitempty"`
	IDs           []string        `json:"ids,omitempty" toml:"ids" yaml:"ids,omitempty"`
	CustomData    []any           `json:"customdata,omitempty" toml:"customdata" yaml:"customdata,omitempty"`
	Mode          string          `json:"mode,omitempty" toml:"mode" yaml:"mode,omitempty"`
	Orientation   string          `json:"orientation,omitempty" toml:"orientation" yaml:"orientation,omitempty"`
	Marker        Marker          `json:"marker" toml:"marker" yaml:"marker"`
	Base          []float64       `json:"base,omitempty" toml:"base" yaml:"base,omitempty"`
	Width         float64         `json:"width,omitempty" toml:"width" yaml:"width,omitempty"`
	ErrorX        *ErrorDoc       `json:"error_x,omitempty" toml:"error_x" yaml:"error_x,omitempty"`
	ErrorY        *ErrorDoc       `json:"error_y,omitempty" toml:"error_y" yaml:"error_y,omitempty"`
	HoverInfo     string          `json:"hoverinfo,omitempty" toml:"hoverinfo" yaml:"hoverinfo,omitempty"`
	HoverTemplate string          `json:"hovertemplate,omitempty" toml:"hovertemplate" yaml:"hovertemplate,omitempty"`
	HoverLabel    fx.HoverLabel   `json:"hoverlabel" toml:"hoverlabel" yaml:"hoverlabel"`
	PointStyles   []fx.PointStyle `json:"pointstyles,omitempty" toml:"pointstyles" yaml:"pointstyles,omitempty"`

	// ZColorOnly drops z from composed label text, for traces whose value
	// is shown by color alone.
	ZColorOnly bool `json:"zcoloronly,omitempty" toml:"zcoloronly" yaml:"zcoloronly,omitempty"`
}

// Marker styles scatter markers and bars.
type Marker struct {
	Color  string    `json:"color,omitempty" toml:"color" yaml:"color,omitempty"`
	Colors []string  `json:"colors,omitempty" toml:"colors" yaml:"colors,omitempty"`
	Size   []float64 `json:"size,omitempty" toml:"size" yaml:"size,omitempty"`
}

// ErrorDoc holds per-point error magnitudes.
type ErrorDoc struct {
	Array      []float64 `json:"array" toml:"array" yaml:"array"`
	ArrayMinus []float64 `json:"arrayminus,omitempty" toml:"arrayminus" yaml:"arrayminus,omitempty"`
}

// Defaults are hover layout values applied to documents that leave them
// unset.
type Defaults struct {
	HoverMode     string        `toml:"hovermode"`
	HoverDistance *float64      `toml:"hoverdistance"`
	SpikeDistance *float64      `toml:"spikedistance"`
	HoverLabel    fx.HoverLabel `toml:"hoverlabel"`
}

// ApplyDefaults fills unset hover settings of d from def.
func (d *Document) ApplyDefaults(def Defaults) {
	l := &d.Layout
	if l.HoverMode == "" {
		l.HoverMode = def.HoverMode
	}
	if l.HoverDistance == nil {
		l.HoverDistance = def.HoverDistance
	}
	if l.SpikeDistance == nil {
		l.SpikeDistance = def.SpikeDistance
	}
	hl, dl := &l.HoverLabel, def.HoverLabel
	if hl.BgColor == "" {
		hl.BgColor = dl.BgColor
	}
	if hl.BorderColor == "" {
		hl.BorderColor = dl.BorderColor
	}
	if hl.Font.Family == "" {
		hl.Font.Family = dl.Font.Family
	}
	if hl.Font.Size == 0 {
		hl.Font.Size = dl.Font.Size
	}
	if hl.Font.Color == "" {
		hl.Font.Color = dl.Font.Color
	}
	if hl.Align == "" {
		hl.Align = dl.Align
	}
	if hl.NameLength == nil {
		hl.NameLength = dl.NameLength
	}
}
