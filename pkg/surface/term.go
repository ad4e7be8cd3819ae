package surface

import (
	"math"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/hoverfx/pkg/color"
)

// Terminal cell size in surface pixels. It matches the 7x13 measuring face,
// so one glyph of 13px text occupies one cell.
const (
	CellWidth  = 7.0
	CellHeight = 13.0
)

// CellOf converts a surface pixel position to a terminal cell.
func CellOf(x, y float64) canvas.Point {
	return canvas.Point{X: int(math.Floor(x / CellWidth)), Y: int(math.Floor(y / CellHeight))}
}

// TermSize returns the surface size in pixels covered by a cols x rows
// terminal area.
func TermSize(cols, rows int) (float64, float64) {
	return float64(cols) * CellWidth, float64(rows) * CellHeight
}

// Rasterize paints the given layers of s onto m, in order. Box and path
// fills become cell backgrounds, lines become box-drawing runes and text is
// written glyph by glyph. Rotation is ignored.
func Rasterize(m *canvas.Model, s *Scene, layers ...string) {
	if len(layers) == 0 {
		layers = s.Layers()
	}
	for _, name := range layers {
		nodes := s.Nodes(name)
		// fills first so text stays on top within a layer
		Walk(nodes, func(n Node, dx, dy float64) { rasterFill(m, n, dx, dy) })
		Walk(nodes, func(n Node, dx, dy float64) { rasterInk(m, n, dx, dy) })
	}
}

func rasterFill(m *canvas.Model, n Node, dx, dy float64) {
	switch v := n.(type) {
	case *Path:
		if v.Box.W > 0 && v.Box.H > 0 {
			fillRect(m, v.Box, dx, dy, v.Fill)
		}
	case *Box:
		fillRect(m, v.Rect, dx, dy, v.Fill)
	}
}

func rasterInk(m *canvas.Model, n Node, dx, dy float64) {
	switch v := n.(type) {
	case *Line:
		drawLine(m, v, dx, dy)
	case *Circle:
		p := CellOf(v.CX+dx, v.CY+dy)
		m.SetCell(p, canvas.NewCellWithStyle('●', fg(lipgloss.NewStyle(), v.Fill)))
	case *Text:
		drawText(m, v, dx, dy)
	}
}

func fillRect(m *canvas.Model, r Rect, dx, dy float64, fill string) {
	if fill == "" || fill == "none" {
		return
	}
	style := lipgloss.NewStyle().Background(lipgloss.Color(termColor(fill)))
	p0 := CellOf(r.X+dx, r.Y+dy)
	p1 := CellOf(r.Right()+dx-1, r.Bottom()+dy-1)
	for y := p0.Y; y <= p1.Y; y++ {
		for x := p0.X; x <= p1.X; x++ {
			p := canvas.Point{X: x, Y: y}
			m.SetCell(p, canvas.NewCellWithStyle(' ', style))
		}
	}
}

func drawLine(m *canvas.Model, l *Line, dx, dy float64) {
	p0 := CellOf(l.X1+dx, l.Y1+dy)
	p1 := CellOf(l.X2+dx, l.Y2+dy)
	r := '·'
	switch {
	case p0.X == p1.X && l.Dash != "":
		r = '┆'
	case p0.X == p1.X:
		r = '│'
	case p0.Y == p1.Y && l.Dash != "":
		r = '┄'
	case p0.Y == p1.Y:
		r = '─'
	}
	style := fg(lipgloss.NewStyle(), l.Stroke)
	for _, p := range graph.GetLinePoints(p0, p1) {
		c := m.Cell(p)
		m.SetCell(p, canvas.NewCellWithStyle(r, style.Background(c.Style.GetBackground())))
	}
}

func drawText(m *canvas.Model, t *Text, dx, dy float64) {
	lines := Lines(t.Text)
	size := t.Font.Size
	if size <= 0 {
		size = baseSize
	}
	glyph := CellWidth * size / baseSize
	for i, line := range lines {
		runes := []rune(line)
		width := float64(len(runes)) * glyph
		x := t.X + dx
		switch t.Anchor {
		case "middle":
			x -= width / 2
		case "end":
			x -= width
		}
		// the glyph row sits above its baseline
		y := t.Y + dy + float64(i)*LineHeight(size) - CellHeight/2
		start := CellOf(x, y)
		for j, r := range runes {
			p := canvas.Point{X: start.X + j, Y: start.Y}
			bg := m.Cell(p).Style.GetBackground()
			m.SetCell(p, canvas.NewCellWithStyle(r, fg(lipgloss.NewStyle(), t.Font.Color).Background(bg)))
		}
	}
}

func fg(s lipgloss.Style, c string) lipgloss.Style {
	if c == "" {
		return s
	}
	return s.Foreground(lipgloss.Color(termColor(c)))
}

// termColor flattens translucent colors over white; terminals have no alpha.
func termColor(c string) string {
	return color.Combine(c, color.Background)
}
