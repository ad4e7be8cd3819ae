package traces

import (
	"math"

	"github.com/matzehuels/hoverfx/pkg/fx"
)

// Scatter is a marker or line trace.
type Scatter struct {
	X, Y []float64
	// Markers is set when points are drawn as markers rather than just a
	// line; marker traces get a larger minimum hit radius.
	Markers bool
	// MarkerSize holds marker diameters in pixels, per point or a single
	// value for all points.
	MarkerSize []float64
	Color      string
	Colors     []string
	ErrorX     *ErrorBars
	ErrorY     *ErrorBars
}

// radius returns the marker radius of point i, 0 without markers.
func (s *Scatter) radius(i int) float64 {
	if !s.Markers || len(s.MarkerSize) == 0 {
		return 0
	}
	if len(s.MarkerSize) == 1 {
		return s.MarkerSize[0] / 2
	}
	return at(s.MarkerSize, i) / 2
}

// HoverPoints returns the point nearest the hover position.
func (s *Scatter) HoverPoints(pd fx.Point, xval, yval float64, mode fx.Mode, _ fx.SearchOptions) []fx.Point {
	xa, ya := pd.XA, pd.YA
	xpx, ypx := xa.C2P(xval), ya.C2P(yval)
	minRad := 0.5
	if s.Markers {
		minRad = 3
	}
	n := min(len(s.X), len(s.Y))

	// inside a marker every point counts as close; outside the distance
	// keeps growing from the marker edge
	kinked := func(raw float64, i int) float64 {
		rad := math.Max(3, s.radius(i))
		kink := 1 - 1/rad
		if raw < rad {
			return kink * raw / rad
		}
		return raw - rad + kink
	}
	dx := func(i int) float64 { return kinked(math.Abs(xa.C2P(s.X[i])-xpx), i) }
	dy := func(i int) float64 { return kinked(math.Abs(ya.C2P(s.Y[i])-ypx), i) }
	dxy := func(i int) float64 {
		rad := math.Max(minRad, s.radius(i))
		ddx := xa.C2P(s.X[i]) - xpx
		ddy := ya.C2P(s.Y[i]) - ypx
		return math.Max(math.Hypot(ddx, ddy)-rad, 1-minRad/rad)
	}

	fx.GetClosest(n, fx.GetDistanceFunction(mode, dx, dy, dxy), &pd)
	i := pd.Index
	if i < 0 || !finite(s.X[i]) || !finite(s.Y[i]) {
		return nil
	}

	xc, yc := xa.C2P(s.X[i]), ya.C2P(s.Y[i])
	rad := s.radius(i)
	if rad == 0 {
		rad = 1
	}
	pd.SetBox(xc-rad, xc+rad, yc-rad, yc+rad)
	pd.XLabelVal = fx.Float(s.X[i])
	pd.YLabelVal = fx.Float(s.Y[i])
	if c := colorAt(s.Colors, s.Color, i); c != "" {
		pd.Color = c
	}
	if d := dxy(i); finite(d) {
		pd.SpikeDistance = d
	}
	fillText(&pd)
	pd.XErr, pd.XErrNeg = s.ErrorX.at(i)
	pd.YErr, pd.YErrNeg = s.ErrorY.at(i)
	return []fx.Point{pd}
}
