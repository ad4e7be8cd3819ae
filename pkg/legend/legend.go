// Package legend draws the legend-like panel used by unified hover modes: a
// bordered box with a title row followed by one swatch and text row per item.
package legend

import (
	"github.com/matzehuels/hoverfx/pkg/color"
	"github.com/matzehuels/hoverfx/pkg/surface"
)

const (
	itemGap       = 5.0
	itemWidth     = 30.0
	textGap       = itemWidth + 2*itemGap
	titlePad      = 2.0
	minItemHeight = 16.0
	itemExtra     = 3.0
	swatchWidth   = 2.0
)

// Item is one row of the panel.
type Item struct {
	Name  string
	Text  string
	Color string
}

// Label returns the row text, "name : text" when both are present.
func (it Item) Label() string {
	switch {
	case it.Name == "":
		return it.Text
	case it.Text == "":
		return it.Name
	}
	return it.Name + " : " + it.Text
}

// Style configures panel colors and fonts.
type Style struct {
	Font        surface.Font
	TitleFont   surface.Font
	BgColor     string
	BorderColor string
	BorderWidth float64
}

func (s Style) withDefaults() Style {
	if s.BgColor == "" {
		s.BgColor = color.Background
	}
	if s.BorderColor == "" {
		s.BorderColor = color.DefaultLine
	}
	if s.Font.Color == "" {
		s.Font.Color = color.DefaultLine
	}
	if s.TitleFont == (surface.Font{}) {
		s.TitleFont = s.Font
	}
	return s
}

// Panel is a drawn legend. Group sits at the origin; callers position it by
// setting Group.X and Group.Y.
type Panel struct {
	Group  *surface.Group
	Width  float64
	Height float64
}

// Draw lays out title and items top to bottom.
func Draw(m surface.Measurer, title string, items []Item, style Style) Panel {
	style = style.withDefaults()
	bw := style.BorderWidth

	var titleW, titleH float64
	var titleNode *surface.Text
	if title != "" {
		tb := m.Measure(title, style.TitleFont)
		titleW, titleH = tb.W, tb.H+itemGap
		titleNode = &surface.Text{
			Class:  "legendtitletext",
			X:      bw + titlePad,
			Y:      bw + itemGap - tb.Y,
			Text:   title,
			Font:   style.TitleFont,
			Anchor: "start",
		}
	}

	var rows []surface.Node
	var height, maxText float64
	for _, it := range items {
		label := it.Label()
		tb := m.Measure(label, style.Font)
		h := max(tb.H, minItemHeight) + itemExtra
		cy := bw + titleH + height + h/2 + itemGap
		height += h
		maxText = max(maxText, tb.W)

		row := &surface.Group{Class: "traces"}
		row.Append(
			&surface.Line{
				Class:  "legendswatch",
				X1:     bw + itemGap,
				Y1:     cy,
				X2:     bw + itemGap + itemWidth,
				Y2:     cy,
				Stroke: it.Color,
				Width:  swatchWidth,
			},
			&surface.Text{
				Class:  "legendtext",
				X:      bw + textGap,
				Y:      cy - (tb.Y + tb.H/2),
				Text:   label,
				Font:   style.Font,
				Anchor: "start",
			},
		)
		rows = append(rows, row)
	}

	width := maxText + itemGap + textGap + 2*bw
	width = max(width, titleW+2*(bw+titlePad))
	height += titleH + 2*(bw+itemGap)

	g := &surface.Group{Class: "legend"}
	g.Append(&surface.Box{
		Class:       "bg",
		Rect:        surface.Rect{W: width, H: height},
		Fill:        style.BgColor,
		Stroke:      style.BorderColor,
		StrokeWidth: bw,
	})
	if titleNode != nil {
		g.Append(titleNode)
	}
	g.Append(rows...)
	return Panel{Group: g, Width: width, Height: height}
}
