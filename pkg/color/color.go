// Package color parses CSS color strings and provides the blending and
// contrast helpers hover labels and spike lines need.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Defaults shared by hover drawing.
const (
	Background  = "#fff"
	DefaultLine = "#444"
)

// RGBA is a parsed color with straight (non-premultiplied) alpha.
type RGBA struct {
	colorful.Color
	A float64
}

var named = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"gray":    "#808080",
	"grey":    "#808080",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"navy":    "#000080",
	"teal":    "#008080",
}

// Parse reads #rgb, #rrggbb, rgb(), rgba(), a small set of named colors and
// "transparent".
func Parse(s string) (RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" {
		return RGBA{A: 0}, nil
	}
	if hex, ok := named[s]; ok {
		s = hex
	}
	if strings.HasPrefix(s, "#") {
		if len(s) == 4 {
			s = "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		return RGBA{Color: c, A: 1}, nil
	}
	if strings.HasPrefix(s, "rgb") {
		open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
		if open < 0 || end < open {
			return RGBA{}, fmt.Errorf("parse color %q: malformed rgb()", s)
		}
		parts := strings.Split(s[open+1:end], ",")
		if len(parts) != 3 && len(parts) != 4 {
			return RGBA{}, fmt.Errorf("parse color %q: want 3 or 4 components", s)
		}
		var v [4]float64
		v[3] = 1
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
			}
			v[i] = f
		}
		return RGBA{
			Color: colorful.Color{R: clamp01(v[0] / 255), G: clamp01(v[1] / 255), B: clamp01(v[2] / 255)},
			A:     clamp01(v[3]),
		}, nil
	}
	return RGBA{}, fmt.Errorf("parse color %q: unsupported syntax", s)
}

// String renders opaque colors as #rrggbb and translucent ones as rgba().
func (c RGBA) String() string {
	if c.A >= 1 {
		return c.Hex()
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Opacity returns the alpha of s, or 0 when s does not parse.
func Opacity(s string) float64 {
	c, err := Parse(s)
	if err != nil {
		return 0
	}
	return c.A
}

// Combine composites front over back and returns an opaque color.
func Combine(front, back string) string {
	f, err := Parse(front)
	if err != nil {
		f = RGBA{A: 0}
	}
	b, err := Parse(back)
	if err != nil {
		b, _ = Parse(Background)
	}
	if b.A < 1 {
		white, _ := Parse(Background)
		b = blend(b, white)
	}
	return blend(f, b).Hex()
}

func blend(front, back RGBA) RGBA {
	a := front.A
	return RGBA{
		Color: colorful.Color{
			R: front.R*a + back.R*(1-a),
			G: front.G*a + back.G*(1-a),
			B: front.B*a + back.B*(1-a),
		},
		A: 1,
	}
}

// IsDark reports whether perceived brightness falls below the midpoint.
func IsDark(s string) bool {
	c, err := Parse(s)
	if err != nil {
		return false
	}
	if c.A < 1 {
		c, _ = Parse(Combine(s, Background))
	}
	r, g, b := c.RGB255()
	return (float64(r)*299+float64(g)*587+float64(b)*114)/1000 < 128
}

// Contrast returns Background for dark colors and DefaultLine for light ones.
func Contrast(s string) string {
	if IsDark(s) {
		return Background
	}
	return DefaultLine
}

// AddOpacity returns s with its alpha replaced by a.
func AddOpacity(s string, a float64) string {
	c, err := Parse(s)
	if err != nil {
		return s
	}
	c.A = clamp01(a)
	return c.String()
}

// Readability is the WCAG contrast ratio between two colors, from 1 to 21.
func Readability(a, b string) float64 {
	l1, l2 := luminance(a), luminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func luminance(s string) float64 {
	c, err := Parse(s)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }
