package traces

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hoverfx/pkg/axis"
	"github.com/matzehuels/hoverfx/pkg/fx"
)

var opts = fx.SearchOptions{MaxHoverDistance: 20, MaxSpikeDistance: math.Inf(1)}

func axes(x0, x1, y0, y1 float64) (*axis.Axis, *axis.Axis) {
	return &axis.Axis{ID: "x", Type: axis.Linear, Range: [2]float64{x0, x1}, Length: 400},
		&axis.Axis{ID: "y", Type: axis.Linear, Range: [2]float64{y0, y1}, Length: 300}
}

func template(tr *fx.Trace, xa, ya *axis.Axis) fx.Point {
	return fx.Point{
		Trace:         tr,
		XA:            xa,
		YA:            ya,
		Index:         -1,
		Distance:      opts.MaxHoverDistance,
		SpikeDistance: math.Inf(1),
	}
}

func single(t *testing.T, pts []fx.Point) fx.Point {
	t.Helper()
	require.Len(t, pts, 1)
	return pts[0]
}

func TestScatterClosestInsideMarker(t *testing.T) {
	xa, ya := axes(0, 10, 0, 10)
	s := &Scatter{X: []float64{2, 5}, Y: []float64{2, 5}, Markers: true, MarkerSize: []float64{10}}

	pt := single(t, s.HoverPoints(template(&fx.Trace{}, xa, ya), 5.05, 5, fx.ModeClosest, opts))

	assert.Equal(t, 1, pt.Index)
	assert.InDelta(t, 0.4, pt.Distance, 1e-9)
	assert.InDelta(t, 0.4, pt.SpikeDistance, 1e-9)
	assert.InDelta(t, 195, pt.X0, 1e-9)
	assert.InDelta(t, 205, pt.X1, 1e-9)
	assert.Equal(t, 5.0, *pt.XLabelVal)
	assert.Equal(t, 5.0, *pt.YLabelVal)
}

func TestScatterSmallerMarkerWins(t *testing.T) {
	xa, ya := axes(0, 10, 0, 10)
	s := &Scatter{X: []float64{5, 5.1}, Y: []float64{5, 5}, Markers: true, MarkerSize: []float64{20, 4}}

	pt := single(t, s.HoverPoints(template(&fx.Trace{}, xa, ya), 5.05, 5, fx.ModeClosest, opts))

	assert.Equal(t, 1, pt.Index)
	assert.Zero(t, pt.Distance)
}

func TestScatterXModeKink(t *testing.T) {
	xa, ya := axes(0, 10, 0, 10)
	s := &Scatter{X: []float64{2, 5}, Y: []float64{9, 1}}

	pt := single(t, s.HoverPoints(template(&fx.Trace{}, xa, ya), 5.05, 9, fx.ModeX, opts))

	assert.Equal(t, 1, pt.Index)
	assert.InDelta(t, 4.0/9, pt.Distance, 1e-9)
}

func TestScatterNothingClose(t *testing.T) {
	xa, ya := axes(0, 10, 0, 10)
	s := &Scatter{X: []float64{2}, Y: []float64{2}}

	assert.Empty(t, s.HoverPoints(template(&fx.Trace{}, xa, ya), 9, 9, fx.ModeClosest, opts))
}

func TestScatterPresetIndex(t *testing.T) {
	xa, ya := axes(0, 10, 0, 10)
	s := &Scatter{X: []float64{2, 5}, Y: []float64{2, 5}}
	pd := template(&fx.Trace{}, xa, ya)
	pd.Index = 0

	pt := single(t, s.HoverPoints(pd, math.NaN(), math.NaN(), fx.ModeClosest, opts))

	assert.Equal(t, 0, pt.Index)
	assert.True(t, math.IsInf(pt.SpikeDistance, 1))
}

func TestScatterStyleAndErrors(t *testing.T) {
	xa, ya := axes(0, 10, 0, 10)
	tr := &fx.Trace{Text: []string{"first", "second"}}
	s := &Scatter{
		X:      []float64{2, 5},
		Y:      []float64{2, 5},
		Color:  "#1f77b4",
		Colors: []string{"", "#ff0000"},
		ErrorX: &ErrorBars{Plus: []float64{1, 1}, Minus: []float64{1, 2}},
		ErrorY: &ErrorBars{Plus: []float64{0.5, 0.5}},
	}

	pt := single(t, s.HoverPoints(template(tr, xa, ya), 5, 5, fx.ModeClosest, opts))
	assert.Equal(t, "#ff0000", pt.Color)
	assert.Equal(t, "second", pt.Text)
	assert.Equal(t, 1.0, *pt.XErr)
	assert.Equal(t, 2.0, *pt.XErrNeg)
	assert.Equal(t, 0.5, *pt.YErr)
	assert.Nil(t, pt.YErrNeg)

	pt = single(t, s.HoverPoints(template(tr, xa, ya), 2, 2, fx.ModeClosest, opts))
	assert.Equal(t, "#1f77b4", pt.Color)
	assert.Nil(t, pt.XErrNeg)
}

func bars() *Bar {
	return &Bar{Pos: []float64{1, 2, 3}, Size: []float64{4, 6, 2}, Color: "#2ca02c"}
}

func TestBarClosestInside(t *testing.T) {
	xa, ya := axes(0, 4, 0, 10)

	pt := single(t, bars().HoverPoints(template(&fx.Trace{}, xa, ya), 2.1, 3, fx.ModeClosest, opts))

	assert.Equal(t, 1, pt.Index)
	assert.InDelta(t, 160, pt.X0, 1e-9)
	assert.InDelta(t, 240, pt.X1, 1e-9)
	assert.InDelta(t, 120, pt.Y0, 1e-9)
	assert.Equal(t, pt.Y0, pt.Y1)
	assert.Equal(t, 2.0, *pt.XLabelVal)
	assert.Equal(t, 6.0, *pt.YLabelVal)
	assert.InDelta(t, 200, *pt.XSpike, 1e-9)
	assert.LessOrEqual(t, pt.Distance, 20.0)
	assert.Equal(t, "#2ca02c", pt.Color)
}

func TestBarClosestGapMisses(t *testing.T) {
	xa, ya := axes(0, 4, 0, 10)

	assert.Empty(t, bars().HoverPoints(template(&fx.Trace{}, xa, ya), 2.5, 1, fx.ModeClosest, opts))
}

func TestBarCompareModeAcceptsGap(t *testing.T) {
	xa, ya := axes(0, 4, 0, 10)

	pt := single(t, bars().HoverPoints(template(&fx.Trace{}, xa, ya), 2.45, 9, fx.ModeX, opts))

	assert.Equal(t, 1, pt.Index)
	assert.InDelta(t, 160, pt.X0, 1e-9)
	assert.InDelta(t, 240, pt.X1, 1e-9)
}

func TestBarHorizontal(t *testing.T) {
	xa, ya := axes(0, 10, 0, 4)
	b := bars()
	b.Orientation = "h"

	pt := single(t, b.HoverPoints(template(&fx.Trace{}, xa, ya), 3, 2, fx.ModeClosest, opts))

	assert.Equal(t, 1, pt.Index)
	assert.Equal(t, 6.0, *pt.XLabelVal)
	assert.Equal(t, 2.0, *pt.YLabelVal)
	assert.InDelta(t, 240, pt.X0, 1e-9)
	assert.InDelta(t, ya.C2P(2), *pt.YSpike, 1e-9)
	assert.Nil(t, pt.XSpike)
}

func TestBarBaseAndErrors(t *testing.T) {
	xa, ya := axes(0, 4, 0, 10)
	b := bars()
	b.Base = []float64{1, 1, 1}
	b.Error = &ErrorBars{Plus: []float64{0.5, 0.5, 0.5}}

	pt := single(t, b.HoverPoints(template(&fx.Trace{}, xa, ya), 2, 5, fx.ModeClosest, opts))

	assert.Equal(t, 7.0, *pt.YLabelVal)
	assert.InDelta(t, ya.C2P(7), pt.Y0, 1e-9)
	assert.Equal(t, 0.5, *pt.YErr)
	assert.Nil(t, pt.XErr)
}

func grid() *Heatmap {
	return &Heatmap{
		X: []float64{0, 1, 2},
		Y: []float64{0, 1},
		Z: [][]float64{{1, 2, 3}, {4, math.NaN(), 6}},
	}
}

func TestHeatmapCell(t *testing.T) {
	xa, ya := axes(-0.5, 2.5, -0.5, 1.5)

	pt := single(t, grid().HoverPoints(template(&fx.Trace{}, xa, ya), 1.2, 0.1, fx.ModeClosest, opts))

	assert.Equal(t, 1, pt.Index)
	assert.Equal(t, 2.0, *pt.ZLabelVal)
	assert.Equal(t, 1.0, *pt.XLabelVal)
	assert.Equal(t, 0.0, *pt.YLabelVal)
	assert.InDelta(t, xa.C2P(0.5), pt.X0, 1e-9)
	assert.InDelta(t, xa.C2P(1.5), pt.X1, 1e-9)
	assert.Equal(t, 20.0, pt.Distance)
}

func TestHeatmapMisses(t *testing.T) {
	xa, ya := axes(-0.5, 2.5, -0.5, 1.5)
	h := grid()

	for name, pos := range map[string][2]float64{
		"gap":           {1, 1},
		"right of grid": {5, 0},
		"left of grid":  {-0.6, 0},
		"not a number":  {math.NaN(), 0},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, h.HoverPoints(template(&fx.Trace{}, xa, ya), pos[0], pos[1], fx.ModeClosest, opts))
		})
	}
}

func TestHeatmapPresetIndex(t *testing.T) {
	xa, ya := axes(-0.5, 2.5, -0.5, 1.5)
	pd := template(&fx.Trace{}, xa, ya)
	pd.Index = 5

	pt := single(t, grid().HoverPoints(pd, math.NaN(), math.NaN(), fx.ModeClosest, opts))
	assert.Equal(t, 6.0, *pt.ZLabelVal)

	pd.Index = 6
	assert.Empty(t, grid().HoverPoints(pd, math.NaN(), math.NaN(), fx.ModeClosest, opts))
}

func TestCellEdges(t *testing.T) {
	assert.Equal(t, [2]float64{-0.5, 0.5}, cellEdges([]float64{0}, 0))
	assert.Equal(t, [2]float64{-1, 1}, cellEdges([]float64{0, 2, 6}, 0))
	assert.Equal(t, [2]float64{1, 4}, cellEdges([]float64{0, 2, 6}, 1))
	assert.Equal(t, [2]float64{4, 8}, cellEdges([]float64{0, 2, 6}, 2))
}
