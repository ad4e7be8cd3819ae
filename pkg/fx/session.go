package fx

import "github.com/matzehuels/hoverfx/pkg/axis"

// Session is the state one hover cycle leaves for the next: the points it
// reported and the spike targets it drew. Each cycle compares against the
// session before replacing it.
//
// A Session survives JSON round trips, so servers can keep it between
// requests.
type Session struct {
	HoverData []EventPoint `json:"hoverdata,omitempty"`
	Spikes    SpikePoints  `json:"spikepoints"`
}

// Clone returns a copy that shares no slices with s.
func (s Session) Clone() Session {
	out := Session{Spikes: s.Spikes}
	if s.HoverData != nil {
		out.HoverData = append([]EventPoint(nil), s.HoverData...)
	}
	return out
}

// SpikePoints holds the vertical and horizontal spike targets. Either may
// be nil.
type SpikePoints struct {
	V *SpikePoint `json:"vLinePoint,omitempty"`
	H *SpikePoint `json:"hLinePoint,omitempty"`
}

// SpikePoint is the projection of a hover point a spike line is drawn to.
// X and Y are pixels relative to the axis starts.
type SpikePoint struct {
	XA *axis.Axis `json:"-"`
	YA *axis.Axis `json:"-"`

	XAxis         string  `json:"xaxis"`
	YAxis         string  `json:"yaxis"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Distance      float64 `json:"-"`
	SpikeDistance float64 `json:"-"`
	CurveNumber   int     `json:"curveNumber"`
	PointNumber   int     `json:"pointNumber"`
	Color         string  `json:"color,omitempty"`
}

// Equal reports whether s and o target the same spot.
func (s *SpikePoint) Equal(o *SpikePoint) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.XAxis == o.XAxis && s.YAxis == o.YAxis &&
		s.X == o.X && s.Y == o.Y &&
		s.CurveNumber == o.CurveNumber && s.PointNumber == o.PointNumber &&
		s.Color == o.Color
}

func fillSpikePoint(pt *Point) *SpikePoint {
	if pt == nil {
		return nil
	}
	cx, cy := pt.Center()
	if pt.XSpike != nil {
		cx = *pt.XSpike
	}
	if pt.YSpike != nil {
		cy = *pt.YSpike
	}
	return &SpikePoint{
		XA:            pt.XA,
		YA:            pt.YA,
		XAxis:         pt.XA.ID,
		YAxis:         pt.YA.ID,
		X:             cx,
		Y:             cy,
		Distance:      pt.Distance,
		SpikeDistance: pt.SpikeDistance,
		CurveNumber:   pt.Trace.Index,
		PointNumber:   pt.Index,
		Color:         pt.Color,
	}
}

// settle keeps the previous spike pointers for targets that did not move,
// so change detection reduces to comparing pointers.
func (sp SpikePoints) settle(prev SpikePoints) SpikePoints {
	sp.V = keepSpike(prev.V, sp.V)
	sp.H = keepSpike(prev.H, sp.H)
	return sp
}

func keepSpike(prev, cur *SpikePoint) *SpikePoint {
	if prev == nil || !prev.Equal(cur) {
		return cur
	}
	// sessions restored from JSON lose their axes
	if prev.XA == nil {
		prev.XA, prev.YA = cur.XA, cur.YA
	}
	return prev
}

func spikesChanged(prev, cur SpikePoints) bool {
	return prev.V != cur.V || prev.H != cur.H
}
