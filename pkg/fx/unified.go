package fx

import (
	"github.com/matzehuels/hoverfx/pkg/color"
	"github.com/matzehuels/hoverfx/pkg/legend"
	"github.com/matzehuels/hoverfx/pkg/surface"
)

// UnifiedPanel is the single legend-like box drawn in unified modes.
type UnifiedPanel struct {
	Title  string         `json:"title"`
	Items  []legend.Item  `json:"items"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Group  *surface.Group `json:"-"`
}

// unifiedPanel lays out one row per hit next to the mean hit position,
// flipping left when it would leave the surface and clamping vertically
// when it fits.
func unifiedPanel(hits []*Point, lc labelContext) *UnifiedPanel {
	var rows []*Point
	for _, d := range hits {
		if d.HoverInfo != "none" {
			rows = append(rows, d)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	c0 := hits[0]
	t0 := c0.XLabel
	if lc.mode == ModeYUnified {
		t0 = c0.YLabel
	}

	items := make([]legend.Item, 0, len(rows))
	for _, d := range rows {
		nameLength := pointNameLength(d, lc)
		name, text := labelText(d, true, lc.mode, t0, nameLength)
		if d.HoverTemplate != "" {
			text, name = applyTemplate(d, lc.mode, t0, name, nameLength)
		}
		c := d.Color
		if c == "" || color.Opacity(c) == 0 {
			c = color.DefaultLine
		}
		items = append(items, legend.Item{Name: name, Text: text, Color: c})
	}

	bg := lc.style.BgColor
	if bg == "" {
		bg = lc.bgColor
	}
	style := legend.Style{
		Font:        lc.style.Font,
		BgColor:     bg,
		BorderColor: lc.style.BorderColor,
		BorderWidth: 1,
	}
	panel := legend.Draw(lc.measurer, t0, items, style)

	var sx, sy float64
	for _, d := range hits {
		cx, cy := d.Center()
		sx += cx
		sy += cy
	}
	n := float64(len(hits))
	lx := sx/n + c0.XA.Offset
	ly := sy/n + c0.YA.Offset - panel.Height/2

	b := lc.bounds
	txWidth := panel.Width + 2*HoverTextPad
	if lx+txWidth > b.Right() {
		lx -= txWidth
	}
	txHeight := panel.Height + 2*HoverTextPad
	if txHeight <= b.H {
		ly = clamp(ly, b.Y, b.Bottom()-txHeight)
	}

	panel.Group.X, panel.Group.Y = lx, ly
	panel.Group.Class = "hoverunified"
	return &UnifiedPanel{
		Title:  t0,
		Items:  items,
		X:      lx,
		Y:      ly,
		Width:  panel.Width,
		Height: panel.Height,
		Group:  panel.Group,
	}
}
