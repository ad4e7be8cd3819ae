package fx

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/hoverfx/pkg/axis"
	"github.com/matzehuels/hoverfx/pkg/color"
	"github.com/matzehuels/hoverfx/pkg/surface"
)

// spikeContext is what spike drawing needs from the cycle.
type spikeContext struct {
	pointerX, pointerY float64
	contrastColor      string
}

// drawSpikes replaces the spike layer with lines to the current spike
// points.
func (p *Plot) drawSpikes(sp SpikePoints, sc spikeContext) {
	p.Surface.Clear(surface.LayerSpikes)
	if sp.H != nil {
		for _, n := range spikeNodes(sp.H, false, sc) {
			p.Surface.Add(surface.LayerSpikes, n)
		}
	}
	if sp.V != nil {
		for _, n := range spikeNodes(sp.V, true, sc) {
			p.Surface.Add(surface.LayerSpikes, n)
		}
	}
}

// spikeNodes draws the spike for pt. Vertical spikes run along the y
// direction to the x axis; horizontal ones to the y axis.
func spikeNodes(pt *SpikePoint, vertical bool, sc spikeContext) []surface.Node {
	ax := pt.YA
	if vertical {
		ax = pt.XA
	}
	if ax == nil || pt.XA == nil || pt.YA == nil {
		return nil
	}
	sp := ax.Spikes

	var px, py float64
	if sp.SnapMode() == axis.SnapCursor {
		px, py = sc.pointerX, sc.pointerY
	} else {
		px, py = pt.XA.Offset+pt.X, pt.YA.Offset+pt.Y
	}

	dflt := pt.Color
	if dflt == "" || color.Readability(dflt, sc.contrastColor) < 1.5 {
		dflt = color.Contrast(sc.contrastColor)
	}
	stroke := sp.Color
	if stroke == "" {
		stroke = dflt
	}
	t := sp.Width()
	dash := dashArray(sp.DashStyle(), t)
	edge := ax.Edge

	var x1, y1, x2, y2 float64
	var draw bool
	if vertical {
		switch {
		case sp.Has("across"):
			x1, y1, x2, y2, draw = px, ax.Counter[0], px, ax.Counter[1], true
		case sp.Has("toaxis"):
			x1, y1, x2, y2, draw = px, py, px, edge, true
		}
	} else {
		switch {
		case sp.Has("across"):
			x1, y1, x2, y2, draw = ax.Counter[0], py, ax.Counter[1], py, true
		case sp.Has("toaxis"):
			x1, y1, x2, y2, draw = edge, py, px, py, true
		}
	}

	var nodes []surface.Node
	if draw {
		nodes = append(nodes,
			&surface.Line{Class: "spikeline", X1: x1, Y1: y1, X2: x2, Y2: y2, Stroke: sc.contrastColor, Width: t + 2},
			&surface.Line{Class: "spikeline", X1: x1, Y1: y1, X2: x2, Y2: y2, Stroke: stroke, Width: t, Dash: dash},
		)
	}
	if sp.Has("marker") {
		c := &surface.Circle{Class: "spikeline", R: t, Fill: stroke}
		if vertical {
			c.CX = px
			c.CY = edge - t
			if ax.Side == "top" {
				c.CY = edge + t
			}
		} else {
			c.CY = py
			c.CX = edge + t
			if ax.Side == "right" {
				c.CX = edge - t
			}
		}
		nodes = append(nodes, c)
	}
	return nodes
}

// dashArray converts a dash name into a stroke-dasharray for a line of
// width w. Unknown names are assumed to be dash arrays already.
func dashArray(dash string, w float64) string {
	dlw := math.Max(w, 3)
	scale := func(parts ...float64) string {
		out := make([]string, len(parts))
		for i, v := range parts {
			out[i] = strconv.FormatFloat(v*dlw, 'f', -1, 64) + "px"
		}
		return strings.Join(out, ",")
	}
	switch dash {
	case "solid", "":
		return ""
	case "dot":
		return scale(1, 1)
	case "dash":
		return scale(3, 3)
	case "longdash":
		return scale(5, 5)
	case "dashdot":
		return scale(3, 1, 1, 1)
	case "longdashdot":
		return scale(5, 2, 1, 2)
	}
	return dash
}
