// Package axis implements the coordinate capability the hover engine consumes:
// conversion between calc values (the linearized numbers traces store) and
// pixels, conversion between calc values and user-facing data values, hover
// text formatting, and spike-line configuration.
//
// Calc values are float64 for every axis type:
//   - linear: the value itself
//   - log: the raw positive value; its linearized form is log10(v)
//   - date: milliseconds since the Unix epoch (UTC)
//   - category: the zero-based category index
//
// Pixel positions returned by [Axis.C2P] are relative to the axis start; add
// [Axis.Offset] for surface coordinates. Y axes grow downward in pixel space.
package axis

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Type is the axis scale type.
type Type string

// Axis types.
const (
	Linear   Type = "linear"
	Log      Type = "log"
	Date     Type = "date"
	Category Type = "category"
)

// Spike snap modes.
const (
	SnapData         = "data"
	SnapCursor       = "cursor"
	SnapHoveredData  = "hovered data"
	defaultSpikeMode = "toaxis"
)

// Spikes configures the spike line drawn from a hovered point to this axis.
type Spikes struct {
	Show      bool    `json:"show" toml:"show" yaml:"show"`
	Mode      string  `json:"mode,omitempty" toml:"mode" yaml:"mode"` // "+"-joined flags: toaxis, across, marker
	Snap      string  `json:"snap,omitempty" toml:"snap" yaml:"snap"`
	Color     string  `json:"color,omitempty" toml:"color" yaml:"color"`
	Thickness float64 `json:"thickness,omitempty" toml:"thickness" yaml:"thickness"`
	Dash      string  `json:"dash,omitempty" toml:"dash" yaml:"dash"`
}

// Has reports whether flag is one of the spike mode flags.
func (s Spikes) Has(flag string) bool {
	mode := s.Mode
	if mode == "" {
		mode = defaultSpikeMode
	}
	for _, f := range strings.Split(mode, "+") {
		if f == flag {
			return true
		}
	}
	return false
}

// SnapMode returns the snap mode with its default applied.
func (s Spikes) SnapMode() string {
	if s.Snap == "" {
		return SnapHoveredData
	}
	return s.Snap
}

// Width returns the line thickness with its default applied.
func (s Spikes) Width() float64 {
	if s.Thickness <= 0 {
		return 3
	}
	return s.Thickness
}

// DashStyle returns the dash name with its default applied.
func (s Spikes) DashStyle() string {
	if s.Dash == "" {
		return "dash"
	}
	return s.Dash
}

// Axis is one positioned axis of a subplot.
type Axis struct {
	ID          string     // "x", "x2", "y", "y3"
	Type        Type       // scale type
	Range       [2]float64 // visible range in calc units
	Offset      float64    // pixel position of the axis start on the surface
	Length      float64    // pixel length
	Side        string     // bottom, top, left or right
	Categories  []string   // category names, indexed by calc value
	HoverFormat string     // number format, or strftime-style format for dates
	Spikes      Spikes

	// Edge is the surface pixel coordinate of the axis line along the
	// counter direction: an x position for y axes, a y position for x axes.
	Edge float64
	// Counter is the surface pixel span of the counter axis, used by spikes
	// drawn across the whole subplot.
	Counter [2]float64
}

// Letter returns "x" or "y".
func (a *Axis) Letter() string {
	if a.ID == "" {
		return ""
	}
	return a.ID[:1]
}

// IsX reports whether a is an x axis.
func (a *Axis) IsX() bool { return a.Letter() == "x" }

// Reversed reports whether the range runs from high to low.
func (a *Axis) Reversed() bool { return a.Range[0] > a.Range[1] }

// C2L converts a calc value to its linearized form.
func (a *Axis) C2L(c float64) float64 {
	if a.Type == Log {
		if c <= 0 {
			return math.NaN()
		}
		return math.Log10(c)
	}
	return c
}

// L2C converts a linearized value back to a calc value.
func (a *Axis) L2C(l float64) float64 {
	if a.Type == Log {
		return math.Pow(10, l)
	}
	return l
}

func (a *Axis) rangeL() (float64, float64) {
	r0, r1 := a.Range[0], a.Range[1]
	if a.Type == Log {
		return a.C2L(r0), a.C2L(r1)
	}
	return r0, r1
}

// L2P converts a linearized value to a pixel relative to the axis start.
func (a *Axis) L2P(l float64) float64 {
	r0, r1 := a.rangeL()
	if r1 == r0 {
		return a.Length / 2
	}
	frac := (l - r0) / (r1 - r0)
	if a.IsX() {
		return frac * a.Length
	}
	return (1 - frac) * a.Length
}

// P2L converts a pixel relative to the axis start to a linearized value.
func (a *Axis) P2L(px float64) float64 {
	r0, r1 := a.rangeL()
	if a.Length == 0 {
		return r0
	}
	frac := px / a.Length
	if !a.IsX() {
		frac = 1 - frac
	}
	return r0 + frac*(r1-r0)
}

// C2P converts a calc value to a pixel relative to the axis start.
func (a *Axis) C2P(c float64) float64 { return a.L2P(a.C2L(c)) }

// P2C converts a pixel relative to the axis start to a calc value.
func (a *Axis) P2C(px float64) float64 { return a.L2C(a.P2L(px)) }

// D2C converts a user data value (number, numeric string, date string or
// category name) to a calc value. The second result is false when v cannot
// be placed on this axis.
func (a *Axis) D2C(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case time.Time:
		return float64(x.UnixMilli()), true
	case string:
		switch a.Type {
		case Category:
			for i, c := range a.Categories {
				if c == x {
					return float64(i), true
				}
			}
			return 0, false
		case Date:
			t, err := ParseDate(x)
			if err != nil {
				return 0, false
			}
			return float64(t.UnixMilli()), true
		}
		var f float64
		if _, err := fmt.Sscan(x, &f); err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// C2D converts a calc value to the data value reported in event payloads.
func (a *Axis) C2D(c float64) any {
	switch a.Type {
	case Date:
		return FormatDate(c, "")
	case Category:
		if i := int(math.Round(c)); i >= 0 && i < len(a.Categories) {
			return a.Categories[i]
		}
	}
	return c
}

// HoverText formats a calc value for a hover label. Non-positive values on a
// log axis are rendered as the negated magnitude.
func (a *Axis) HoverText(c float64) string {
	if a.Type == Log && c <= 0 {
		if c == 0 {
			return "0"
		}
		return "-" + a.tickText(-c)
	}
	return a.tickText(c)
}

// HoverRange formats a pair of calc values as "a - b", or a single value when
// both are equal.
func (a *Axis) HoverRange(c0, c1 float64) string {
	if c0 == c1 || math.IsNaN(c1) {
		return a.HoverText(c0)
	}
	return a.HoverText(c0) + " - " + a.HoverText(c1)
}

func (a *Axis) tickText(c float64) string {
	switch a.Type {
	case Date:
		return FormatDate(c, a.HoverFormat)
	case Category:
		if i := int(math.Round(c)); i >= 0 && i < len(a.Categories) {
			return a.Categories[i]
		}
	}
	if a.HoverFormat != "" {
		if s, err := Format(a.HoverFormat, c); err == nil {
			return s
		}
	}
	return FormatNumber(c)
}
