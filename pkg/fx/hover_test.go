package fx

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/hoverfx/pkg/axis"
	"github.com/matzehuels/hoverfx/pkg/surface"
	"github.com/matzehuels/hoverfx/pkg/throttle"
)

func intPtr(v int) *int { return &v }

func layoutWith(mode Mode) Layout {
	l := DefaultLayout()
	l.HoverMode = mode
	return l
}

// twoTraces share x = 2 and x = 6 so x-mode cycles hit both.
func twoTraces() []*Trace {
	return []*Trace{
		dots(0, "a", []float64{2, 6}, []float64{4, 1}),
		dots(1, "b", []float64{2, 6}, []float64{8, 1}),
	}
}

func TestHoverClosestExactPoint(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{1, 5, 9}, []float64{2, 6, 3}))

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 6))

	require.Len(t, res.Points, 1)
	assert.Equal(t, ModeClosest, res.Mode)
	assert.Equal(t, 0, res.Points[0].CurveNumber)
	assert.Equal(t, 1, res.Points[0].PointNumber)
	assert.Equal(t, 5.0, res.Points[0].X)
	assert.Equal(t, 6.0, res.Points[0].Y)
	assert.Zero(t, res.Candidates[0].Distance)
	assert.True(t, res.Changed)

	require.Len(t, res.Labels, 1)
	assert.Equal(t, "(5, 6)", res.Labels[0].Text)
	assert.Equal(t, "a", res.Labels[0].Name)
	assert.Nil(t, res.CommonLabel)
	assert.Len(t, surface.Find(tp.scene.Nodes(surface.LayerHover), "hovertext"), 1)
}

func TestHoverClosestOutsideDistance(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{1}, []float64{2}))

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 6))

	assert.Empty(t, res.Points)
	assert.Empty(t, tp.scene.Nodes(surface.LayerHover))
	assert.Nil(t, tp.Session().HoverData)
}

func TestHoverBBoxOnSurface(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{5}, []float64{6}))

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 6))

	require.Len(t, res.Points, 1)
	bb := res.Points[0].BBox
	require.NotNil(t, bb)
	assert.Equal(t, 280.0, bb.X0)
	assert.Equal(t, 280.0, bb.X1)
	assert.Equal(t, 220.0, bb.Y0)
	assert.Equal(t, "x", res.Points[0].XAxis)
	assert.Equal(t, "y", res.Points[0].YAxis)
}

func TestHoverXModeCommonLabel(t *testing.T) {
	tp := newTestPlot(t, layoutWith(ModeX), twoTraces()...)

	res := tp.HoverSync(pointerAt(tp.Plot, 2, 5))

	require.Len(t, res.Points, 2)
	require.NotNil(t, res.CommonLabel)
	assert.Equal(t, "2", res.CommonLabel.Text)
	assert.Equal(t, "x", res.CommonLabel.Axis)

	require.Len(t, res.Labels, 2)
	texts := []string{res.Labels[0].Text, res.Labels[1].Text}
	assert.ElementsMatch(t, []string{"4", "8"}, texts)
	assert.Equal(t, []float64{2}, res.XVals)
	require.NotNil(t, res.Overlap)
	assert.Zero(t, res.Deleted)
	assert.Len(t, surface.Find(tp.scene.Nodes(surface.LayerHover), "axistext"), 1)
}

func TestHoverXUnifiedPanel(t *testing.T) {
	tp := newTestPlot(t, layoutWith(ModeXUnified), twoTraces()...)

	res := tp.HoverSync(pointerAt(tp.Plot, 2, 5))

	require.Len(t, res.Points, 2)
	require.NotNil(t, res.Unified)
	assert.Equal(t, "2", res.Unified.Title)
	assert.Len(t, res.Unified.Items, 2)
	assert.Empty(t, res.Labels)
	assert.Len(t, surface.Find(tp.scene.Nodes(surface.LayerHover), "hoverunified"), 1)
}

func TestHoverEmitsOnlyOnChange(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{1, 5, 9}, []float64{2, 6, 3}))
	var got []HoverEventData
	tp.OnHover(func(d HoverEventData) { got = append(got, d) })

	first := tp.HoverSync(pointerAt(tp.Plot, 5, 6))
	second := tp.HoverSync(pointerAt(tp.Plot, 5.05, 6))

	assert.True(t, first.Changed)
	assert.False(t, second.Changed)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"x"}, got[0].XAxes)
	assert.Equal(t, []string{"y"}, got[0].YAxes)
}

func TestHoverMovingToAnotherPointUnhoversFirst(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{1, 5, 9}, []float64{2, 6, 3}))
	var order []string
	tp.OnHover(func(HoverEventData) { order = append(order, "hover") })
	tp.OnUnhover(func(UnhoverEventData) { order = append(order, "unhover") })

	tp.HoverSync(pointerAt(tp.Plot, 5, 6))
	tp.HoverSync(pointerAt(tp.Plot, 9, 3))

	assert.Equal(t, []string{"hover", "unhover", "hover"}, order)
	assert.Equal(t, 2, tp.Session().HoverData[0].PointNumber)
}

func TestHoverBeforeHoverCancels(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{5}, []float64{6}))
	hovered := 0
	tp.OnHover(func(HoverEventData) { hovered++ })
	tp.OnBeforeHover(func(Event) bool { return false })

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 6))

	assert.True(t, res.Cancelled)
	assert.Zero(t, hovered)
	assert.Nil(t, tp.Session().HoverData)
}

func TestHoverPointerOutsideTarget(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{5}, []float64{6}))
	evt := pointerAt(tp.Plot, 5, 6)
	evt.Origin.ClientX = 10

	res := tp.HoverSync(evt)

	assert.Empty(t, res.Points)
}

func TestHoverDataValues(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{1, 5, 9}, []float64{2, 6, 3}))

	res := tp.HoverSync(Event{XVal: 9.0, YVal: "3"})

	require.Len(t, res.Points, 1)
	assert.Equal(t, 2, res.Points[0].PointNumber)
	assert.Equal(t, []float64{9}, res.XVals)
	assert.Equal(t, []float64{3}, res.YVals)
}

func TestHoverInvalidDataValue(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{5}, []float64{6}))

	res := tp.HoverSync(Event{XVal: "not a number"})

	assert.Empty(t, res.Points)
}

func TestHoverArrayMode(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{1, 5, 9}, []float64{2, 6, 3}))

	res := tp.HoverSync(Event{Points: []PointSelector{{CurveNumber: 0, PointNumber: intPtr(2)}}})

	assert.Equal(t, ModeArray, res.Mode)
	require.Len(t, res.Points, 1)
	assert.Equal(t, 2, res.Points[0].PointNumber)
	assert.Equal(t, 9.0, res.Points[0].X)
	assert.Nil(t, res.XVals)
}

func TestHoverArrayModeSkipsUnknownTraces(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{1}, []float64{2}))

	res := tp.HoverSync(Event{Points: []PointSelector{
		{CurveNumber: 7, PointNumber: intPtr(0)},
		{CurveNumber: 0, PointNumber: intPtr(4)},
	}})

	assert.Empty(t, res.Points)
}

func TestHoverUnknownSubplot(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{5}, []float64{6}))

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 6), OnSubplot("x9y9"))

	assert.Empty(t, res.Points)
	assert.False(t, res.Cancelled)
}

func TestHoverInvalidModeIsIgnored(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{5}, []float64{6}))
	evt := pointerAt(tp.Plot, 5, 6)
	evt.HoverMode = "sideways"

	res := tp.HoverSync(evt)

	assert.Empty(t, res.Points)
}

func TestHoverSkipsTracesWithoutSearcher(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(),
		&Trace{Index: 0, Name: "flow", Type: "sankey"},
		dots(1, "a", []float64{5}, []float64{6}),
	)

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 6))

	require.Len(t, res.Points, 1)
	assert.Equal(t, 1, res.Points[0].CurveNumber)
}

func TestHoverSkipsHiddenAndSkipTraces(t *testing.T) {
	hidden := dots(0, "hidden", []float64{5}, []float64{6})
	hidden.Hidden = true
	skip := dots(1, "skip", []float64{5}, []float64{6})
	skip.HoverInfo = "skip"
	tp := newTestPlot(t, DefaultLayout(), hidden, skip)

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 6))

	assert.Empty(t, res.Points)
}

func TestHoverSilent(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{5}, []float64{6}))
	hovered := 0
	tp.OnHover(func(HoverEventData) { hovered++ })

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 6), Silent())

	assert.Len(t, res.Points, 1)
	assert.Zero(t, hovered)
}

func TestHoverWhileDragging(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{5}, []float64{6}))
	tp.SetDragging(true)

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 6))

	assert.Empty(t, res.Points)
}

func TestHoverClosestKeepsNearestTrace(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(),
		dots(0, "far", []float64{5.2}, []float64{6}),
		dots(1, "near", []float64{5}, []float64{6}),
		dots(2, "tied", []float64{5}, []float64{6}),
	)

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 6))

	require.Len(t, res.Points, 2)
	assert.Equal(t, 1, res.Points[0].CurveNumber)
	assert.Equal(t, 2, res.Points[1].CurveNumber)
}

func TestHoverThrottleCoalesces(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{1, 5, 9}, []float64{2, 6, 3}))
	var got []int
	tp.OnHover(func(d HoverEventData) { got = append(got, d.Points[0].PointNumber) })

	tp.Hover(pointerAt(tp.Plot, 1, 2))
	tp.Hover(pointerAt(tp.Plot, 5, 6))
	tp.Hover(pointerAt(tp.Plot, 9, 3))
	assert.Equal(t, []int{0}, got)

	tp.clock.Advance(HoverMinTime)
	assert.Equal(t, []int{0, 2}, got)
}

func TestHoverSpikes(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{1, 5, 9}, []float64{2, 6, 3}))
	sp, _ := tp.Subplot("xy")
	sp.XAxis.Spikes = axis.Spikes{Show: true}

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 6))

	require.NotNil(t, res.Spikes.V)
	assert.Nil(t, res.Spikes.H)
	assert.Equal(t, 200.0, res.Spikes.V.X)
	assert.True(t, res.SpikesChanged)
	assert.Len(t, surface.Find(tp.scene.Nodes(surface.LayerSpikes), "spikeline"), 2)

	again := tp.HoverSync(pointerAt(tp.Plot, 5, 6))
	assert.False(t, again.SpikesChanged)
	assert.Same(t, res.Spikes.V, again.Spikes.V)
}

func TestHoverSpikeMarkerAndAcross(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{5}, []float64{6}))
	sp, _ := tp.Subplot("xy")
	sp.YAxis.Spikes = axis.Spikes{Show: true, Mode: "across+marker"}

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 6))

	require.NotNil(t, res.Spikes.H)
	nodes := tp.scene.Nodes(surface.LayerSpikes)
	require.Len(t, nodes, 3)
	line := nodes[1].(*surface.Line)
	assert.Equal(t, 80.0, line.X1)
	assert.Equal(t, 480.0, line.X2)
	assert.Equal(t, 220.0, line.Y1)
	assert.IsType(t, &surface.Circle{}, nodes[2])
}

func TestUnhoverWithoutState(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{5}, []float64{6}))
	unhovered := 0
	tp.OnUnhover(func(UnhoverEventData) { unhovered++ })

	evt := pointerAt(tp.Plot, 5, 6)
	assert.NotPanics(t, func() {
		tp.Unhover(nil)
		tp.Unhover(&evt)
	})
	assert.Zero(t, unhovered)
}

func TestUnhoverClearsState(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{5}, []float64{6}))
	sp, _ := tp.Subplot("xy")
	sp.XAxis.Spikes = axis.Spikes{Show: true}
	var got []UnhoverEventData
	tp.OnUnhover(func(d UnhoverEventData) { got = append(got, d) })

	evt := pointerAt(tp.Plot, 5, 6)
	tp.HoverSync(evt)
	tp.Unhover(&evt)

	require.Len(t, got, 1)
	assert.Len(t, got[0].Points, 1)
	s := tp.Session()
	assert.Nil(t, s.HoverData)
	assert.Nil(t, s.Spikes.V)
	assert.Empty(t, tp.scene.Nodes(surface.LayerHover))
	assert.Empty(t, tp.scene.Nodes(surface.LayerSpikes))
}

func TestUnhoverCancelled(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{5}, []float64{6}))
	tp.OnBeforeUnhover(func(Event) bool { return false })

	evt := pointerAt(tp.Plot, 5, 6)
	tp.HoverSync(evt)
	tp.Unhover(&evt)

	assert.Len(t, tp.Session().HoverData, 1)
}

func TestUnhoverDropsPendingHover(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{1, 5}, []float64{2, 6}))
	hovered := 0
	tp.OnHover(func(HoverEventData) { hovered++ })

	tp.Hover(pointerAt(tp.Plot, 1, 2))
	tp.Hover(pointerAt(tp.Plot, 5, 6))
	tp.Unhover(nil)
	tp.clock.Advance(HoverMinTime)

	assert.Equal(t, 1, hovered)
	assert.Nil(t, tp.Session().HoverData)
}

func TestHoverVetoedUnhoverKeepsLabelsAndSpikes(t *testing.T) {
	tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{1, 5}, []float64{2, 6}))
	sp, _ := tp.Subplot("xy")
	sp.XAxis.Spikes = axis.Spikes{Show: true, Snap: axis.SnapData}

	first := tp.HoverSync(pointerAt(tp.Plot, 5, 6))
	require.NotNil(t, first.Spikes.V)
	spikeNodes := len(tp.scene.Nodes(surface.LayerSpikes))
	tp.OnBeforeUnhover(func(Event) bool { return false })

	// nothing within hover distance, but point 0 is a spike candidate
	res := tp.HoverSync(pointerAt(tp.Plot, 1, 4))

	assert.True(t, res.Cancelled)
	assert.False(t, res.SpikesChanged)
	s := tp.Session()
	require.Len(t, s.HoverData, 1)
	assert.Equal(t, 1, s.HoverData[0].PointNumber)
	require.NotNil(t, s.Spikes.V)
	assert.Equal(t, 1, s.Spikes.V.PointNumber)
	assert.Len(t, tp.scene.Nodes(surface.LayerSpikes), spikeNodes)
	assert.NotEmpty(t, tp.scene.Nodes(surface.LayerHover))
}

func TestHoverSpikeFallbackWithoutHit(t *testing.T) {
	tests := []struct {
		snap string
		want bool
	}{
		{axis.SnapData, true},
		{axis.SnapCursor, true},
		{axis.SnapHoveredData, false},
	}
	for _, tt := range tests {
		t.Run(tt.snap, func(t *testing.T) {
			tp := newTestPlot(t, DefaultLayout(), dots(0, "a", []float64{1, 5}, []float64{2, 6}))
			sp, _ := tp.Subplot("xy")
			sp.XAxis.Spikes = axis.Spikes{Show: true, Snap: tt.snap}

			res := tp.HoverSync(pointerAt(tp.Plot, 1, 4))

			assert.Empty(t, res.Points)
			if !tt.want {
				assert.Nil(t, res.Spikes.V)
				assert.Empty(t, tp.scene.Nodes(surface.LayerSpikes))
				return
			}
			require.NotNil(t, res.Spikes.V)
			assert.Equal(t, 0, res.Spikes.V.PointNumber)
			assert.InDelta(t, 60, res.Spikes.V.SpikeDistance, 1e-9)
			assert.True(t, res.SpikesChanged)
			assert.Equal(t, res.Spikes.V, tp.Session().Spikes.V)
		})
	}
}

func TestHoverSpikeFallbackRespectsSpikeDistance(t *testing.T) {
	l := DefaultLayout()
	l.SpikeDistance = 50
	tp := newTestPlot(t, l, dots(0, "a", []float64{1, 5}, []float64{2, 6}))
	sp, _ := tp.Subplot("xy")
	sp.XAxis.Spikes = axis.Spikes{Show: true, Snap: axis.SnapData}

	// the nearest spike candidate is 60px away
	res := tp.HoverSync(pointerAt(tp.Plot, 1, 4))

	assert.Nil(t, res.Spikes.V)
}

// overlaidPlot has subplot xy with x2y overlaid on it. x spans [0, 10] and
// x2 spans [0, 20] over the same pixels.
func overlaidPlot(t *testing.T, mode Mode, traces ...*Trace) testPlot {
	t.Helper()
	xa, ya := testAxes()
	x2 := *xa
	x2.ID = "x2"
	x2.Range = [2]float64{0, 20}
	clock := throttle.NewManualClock(epoch)
	scene := surface.NewScene(560, 480, fixedMeasurer{})
	p := New(layoutWith(mode), []*Subplot{
		{ID: "xy", XAxis: xa, YAxis: ya, Overlays: []string{"x2y"}},
		{ID: "x2y", XAxis: &x2, YAxis: ya},
	}, traces,
		WithSurface(scene),
		WithScheduler(throttle.New(clock)),
		WithUID("overlaid"),
		WithLogger(log.New(io.Discard)),
	)
	return testPlot{Plot: p, clock: clock, scene: scene}
}

type curvePoint struct{ curve, point int }

func curvePoints(pts []EventPoint) []curvePoint {
	out := make([]curvePoint, len(pts))
	for i, p := range pts {
		out[i] = curvePoint{p.CurveNumber, p.PointNumber}
	}
	return out
}

func TestHoverOverlaidSubplotsRepeatAtWinningValue(t *testing.T) {
	onX2 := dots(1, "b", []float64{5, 10}, []float64{4, 8})
	onX2.Subplot = "x2y"
	tp := overlaidPlot(t, ModeX, dots(0, "a", []float64{5}, []float64{2}), onX2)

	// pixel 200 is x = 5 on x and x2 = 10 on x2
	res := tp.HoverSync(pointerAt(tp.Plot, 5, 5))

	assert.Equal(t, []float64{5, 10}, res.XVals)
	assert.ElementsMatch(t, []curvePoint{{0, 0}, {1, 0}, {1, 1}}, curvePoints(res.Points))
	assert.Equal(t, curvePoint{0, 0}, curvePoints(res.Points)[0])
}

func TestHoverSingleValueIsNotRepeated(t *testing.T) {
	tp := newTestPlot(t, layoutWith(ModeX), twoTraces()...)

	res := tp.HoverSync(pointerAt(tp.Plot, 2, 5))

	assert.Equal(t, []curvePoint{{0, 0}, {1, 0}}, curvePoints(res.Points))
}

func TestHoverLabelRotation(t *testing.T) {
	horizontal := dots(1, "b", []float64{5}, []float64{5})
	horizontal.Orientation = "h"
	tests := []struct {
		name   string
		mode   Mode
		traces []*Trace
		want   bool
	}{
		{"y with two traces", ModeY, []*Trace{
			dots(0, "a", []float64{2}, []float64{5}),
			dots(1, "b", []float64{6}, []float64{5}),
		}, true},
		{"y with one point", ModeY, []*Trace{dots(0, "a", []float64{2}, []float64{5})}, false},
		{"closest with horizontal trace", ModeClosest, []*Trace{
			dots(0, "a", []float64{5}, []float64{5}),
			horizontal,
		}, true},
		{"closest without horizontal trace", ModeClosest, []*Trace{
			dots(0, "a", []float64{5}, []float64{5}),
			dots(1, "b", []float64{5}, []float64{5}),
		}, false},
		{"x with two traces", ModeX, twoTraces(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := newTestPlot(t, layoutWith(tt.mode), tt.traces...)
			x := 5.0
			if tt.mode == ModeX {
				x = 2
			}

			res := tp.HoverSync(pointerAt(tp.Plot, x, 5))

			require.NotEmpty(t, res.Labels)
			for _, l := range res.Labels {
				assert.Equal(t, tt.want, l.Rotated, "label %q", l.Text)
			}
		})
	}
}

func TestHoverUnifiedPanelFlipsAtRightEdge(t *testing.T) {
	tp := newTestPlot(t, layoutWith(ModeXUnified),
		dots(0, "latency-p99-north", []float64{2, 10}, []float64{5, 5}))

	right := tp.HoverSync(pointerAt(tp.Plot, 10, 5))
	require.NotNil(t, right.Unified)
	assert.InDelta(t, 480-(right.Unified.Width+2*HoverTextPad), right.Unified.X, 1e-9)

	left := tp.HoverSync(pointerAt(tp.Plot, 2, 5))
	require.NotNil(t, left.Unified)
	assert.InDelta(t, 160, left.Unified.X, 1e-9)
}

func TestHoverUnifiedPanelClampedToBottom(t *testing.T) {
	var traces []*Trace
	for i := range 8 {
		traces = append(traces, dots(i, "t", []float64{5}, []float64{0}))
	}
	tp := newTestPlot(t, layoutWith(ModeXUnified), traces...)

	res := tp.HoverSync(pointerAt(tp.Plot, 5, 0))

	require.NotNil(t, res.Unified)
	require.Len(t, res.Unified.Items, 8)
	bottom := 480 - (res.Unified.Height + 2*HoverTextPad)
	// centered on the points the panel would hang below the surface
	require.Greater(t, 400-res.Unified.Height/2, bottom)
	assert.InDelta(t, bottom, res.Unified.Y, 1e-9)
}

func TestHoverIsIdempotent(t *testing.T) {
	run := func() *Result {
		tp := newTestPlot(t, layoutWith(ModeX), twoTraces()...)
		return tp.HoverSync(pointerAt(tp.Plot, 2, 5))
	}

	a, b := run(), run()

	assert.Equal(t, a.Points, b.Points)
	require.Len(t, b.Labels, len(a.Labels))
	for i := range a.Labels {
		assert.Equal(t, a.Labels[i].Text, b.Labels[i].Text)
		assert.Equal(t, a.Labels[i].Offset, b.Labels[i].Offset)
	}
	assert.Equal(t, a.CommonLabel, b.CommonLabel)
}

// zSearcher reports a z value with every point it finds.
type zSearcher struct{ dotSearcher }

func (s zSearcher) HoverPoints(pd Point, xval, yval float64, mode Mode, opts SearchOptions) []Point {
	pts := s.dotSearcher.HoverPoints(pd, xval, yval, mode, opts)
	for i := range pts {
		pts[i].ZLabelVal = Float(7)
	}
	return pts
}

func withZ(tr *Trace) *Trace {
	tr.Searcher = zSearcher{tr.Searcher.(dotSearcher)}
	return tr
}

func TestHoverCommonLabelRules(t *testing.T) {
	tests := []struct {
		name       string
		traces     func() []*Trace
		wantCommon bool
	}{
		{"plain", twoTraces, true},
		{"all points with z", func() []*Trace {
			tr := twoTraces()
			return []*Trace{withZ(tr[0]), withZ(tr[1])}
		}, false},
		{"some points with z", func() []*Trace {
			tr := twoTraces()
			return []*Trace{withZ(tr[0]), tr[1]}
		}, true},
		{"hoverinfo without x", func() []*Trace {
			tr := twoTraces()
			tr[1].HoverInfo = "y"
			return tr
		}, false},
		{"hoverinfo without x and no z", func() []*Trace {
			tr := twoTraces()
			tr[0].HoverInfo = "y"
			return []*Trace{tr[0], withZ(tr[1])}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := newTestPlot(t, layoutWith(ModeX), tt.traces()...)

			res := tp.HoverSync(pointerAt(tp.Plot, 2, 5))

			require.Len(t, res.Points, 2)
			assert.Equal(t, tt.wantCommon, res.CommonLabel != nil)
		})
	}
}
