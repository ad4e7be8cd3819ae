package fx

import "math"

// DistanceFunc returns the distance from the hover position to point i.
type DistanceFunc func(i int) float64

// GetDistanceFunction picks the distance a search should rank by: dxy (or
// the quadrature of dx and dy when dxy is nil) in closest mode, otherwise the
// distance along the compared axis.
func GetDistanceFunction(mode Mode, dx, dy, dxy DistanceFunc) DistanceFunc {
	if mode == ModeClosest {
		if dxy != nil {
			return dxy
		}
		return Quadrature(dx, dy)
	}
	if mode.Letter() == "x" {
		return dx
	}
	return dy
}

// Quadrature combines two axis distances into a Euclidean one.
func Quadrature(dx, dy DistanceFunc) DistanceFunc {
	return func(i int) float64 {
		x, y := dx(i), dy(i)
		return math.Sqrt(x*x + y*y)
	}
}

// Inbox is a pseudo-distance for areas. v0 and v1 are the signed distances
// from the hover position to the two edges; inside the area it returns pass,
// outside +Inf.
func Inbox(v0, v1, pass float64) float64 {
	if v0*v1 < 0 || v0 == 0 {
		return pass
	}
	return math.Inf(1)
}

// GetClosest finds the point among n nearest by dist and stores its index
// and distance in pd. Only points at or below pd.Distance are accepted, and
// on ties the later point wins.
//
// When pd.Index is already set (array mode), the index is kept with
// distance 0 if it is in range and cleared otherwise.
func GetClosest(n int, dist DistanceFunc, pd *Point) *Point {
	if pd.Index >= 0 {
		if pd.Index < n {
			pd.Distance = 0
		} else {
			pd.Index = -1
		}
		return pd
	}
	for i := 0; i < n; i++ {
		if d := dist(i); d <= pd.Distance {
			pd.Index = i
			pd.Distance = d
		}
	}
	return pd
}

// AppendArrayPointValue copies the trace's per-point arrays at index into
// ep, leaving fields that are already set.
func AppendArrayPointValue(ep *EventPoint, tr *Trace, index int) {
	if tr == nil || index < 0 {
		return
	}
	if ep.Text == "" && index < len(tr.Text) {
		ep.Text = tr.Text[index]
	}
	if ep.ID == "" && index < len(tr.IDs) {
		ep.ID = tr.IDs[index]
	}
	if ep.CustomData == nil && index < len(tr.CustomData) {
		ep.CustomData = tr.CustomData[index]
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
