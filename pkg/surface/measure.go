package surface

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	baseSize    = 13.0
	lineSpacing = 1.3
)

// FaceMeasurer measures text with the fixed 7x13 bitmap face, scaled
// linearly by font size. Every glyph advances by the same amount, so a
// terminal cell corresponds to exactly one glyph at 13px.
type FaceMeasurer struct {
	Face font.Face
}

func (m FaceMeasurer) face() font.Face {
	if m.Face != nil {
		return m.Face
	}
	return basicfont.Face7x13
}

// Measure returns the box of a possibly multi-line text. Y is negative: the
// top of the box sits above the first baseline.
func (m FaceMeasurer) Measure(text string, f Font) Rect {
	size := f.Size
	if size <= 0 {
		size = baseSize
	}
	scale := size / baseSize
	face := m.face()
	metrics := face.Metrics()
	ascent := float64(metrics.Ascent.Ceil()) * scale

	lines := Lines(text)
	var width float64
	for _, line := range lines {
		w := float64(font.MeasureString(face, line).Ceil()) * scale
		width = max(width, w)
	}
	height := float64(metrics.Height.Ceil()) * scale
	if n := len(lines); n > 1 {
		height += float64(n-1) * size * lineSpacing
	}
	return Rect{X: 0, Y: -ascent, W: width, H: height}
}

// LineHeight is the baseline-to-baseline distance for a font size.
func LineHeight(size float64) float64 {
	if size <= 0 {
		size = baseSize
	}
	return size * lineSpacing
}
