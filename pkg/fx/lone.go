package fx

import (
	"math"
	"sort"

	"github.com/matzehuels/hoverfx/pkg/axis"
	"github.com/matzehuels/hoverfx/pkg/color"
	"github.com/matzehuels/hoverfx/pkg/surface"
)

// LoneItem describes a label drawn outside any plot, at surface pixels.
type LoneItem struct {
	// X and Y place the label when the box edges are not given.
	X, Y           float64
	X0, X1, Y0, Y1 float64

	XLabel, YLabel, ZLabel string
	Text                   string
	Name                   string
	HoverTemplate          string

	Color       string
	BorderColor string
	FontFamily  string
	FontSize    float64
	FontColor   string
	NameLength  *int
	IdealAlign  string
}

// LoneOptions configures LoneHover.
type LoneOptions struct {
	// Surface measures and receives the labels. Required.
	Surface surface.Surface
	// Layer defaults to the hover layer.
	Layer   string
	BgColor string
	// AnchorIndex is the label, in vertical order, that stays at its own
	// position when several are stacked.
	AnchorIndex int
}

// LoneHover draws standalone hover labels, stacking them vertically with a
// small gap so none overlap. It returns the label groups in vertical order.
func LoneHover(items []LoneItem, opts LoneOptions) []*surface.Group {
	s := opts.Surface
	if s == nil || len(items) == 0 {
		return nil
	}
	layer := opts.Layer
	if layer == "" {
		layer = surface.LayerHover
	}
	bg := opts.BgColor
	if bg == "" {
		bg = color.Background
	}
	lc := labelContext{
		mode:     ModeClosest,
		bgColor:  bg,
		bounds:   s.Bounds(),
		measurer: s,
		style:    HoverLabel{Font: surface.Font{Family: HoverFont, Size: HoverFontSize}},
		maxHover: math.Inf(1),
	}

	tr := &Trace{}
	var labels []*Label
	for _, it := range items {
		d := lonePoint(it, tr)
		if l := buildLabel(d, lc, false, ""); l != nil {
			labels = append(labels, l)
		}
	}

	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Point.Y0 < labels[j].Point.Y0
	})
	var lastBottom, anchor float64
	for i, l := range labels {
		top := l.Point.Y0 - l.By/2
		if top-tooltipSpacing < lastBottom {
			l.Offset = lastBottom - top + tooltipSpacing
		}
		lastBottom = top + l.By + l.Offset
		if i == opts.AnchorIndex {
			anchor = l.Offset
		}
	}

	groups := make([]*surface.Group, 0, len(labels))
	for _, l := range labels {
		l.Offset -= anchor
		alignLabel(l)
		g := l.Node("")
		s.Add(layer, g)
		groups = append(groups, g)
	}
	return groups
}

func lonePoint(it LoneItem, tr *Trace) *Point {
	zero := &axis.Axis{}
	d := &Point{
		Trace:         tr,
		XA:            zero,
		YA:            zero,
		Index:         -1,
		X0:            firstSet(it.X0, it.X),
		X1:            firstSet(it.X1, it.X),
		Y0:            firstSet(it.Y0, it.Y),
		Y1:            firstSet(it.Y1, it.Y),
		XLabel:        it.XLabel,
		YLabel:        it.YLabel,
		ZLabel:        it.ZLabel,
		Text:          it.Text,
		Name:          it.Name,
		HoverTemplate: it.HoverTemplate,
		Color:         it.Color,
		BorderColor:   it.BorderColor,
		FontFamily:    it.FontFamily,
		FontSize:      it.FontSize,
		FontColor:     it.FontColor,
		NameLength:    it.NameLength,
		IdealAlign:    it.IdealAlign,
	}
	if d.Color == "" {
		d.Color = color.DefaultLine
	}
	return d
}

// firstSet treats 0 as unset.
func firstSet(vals ...float64) float64 {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
