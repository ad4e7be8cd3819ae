package traces

import (
	"math"

	"github.com/matzehuels/hoverfx/pkg/fx"
)

// Bar is a bar trace. Bars stand at Pos on the position axis (x for
// vertical bars) and span from Base to Base+Size on the size axis.
type Bar struct {
	Pos  []float64
	Size []float64
	Base []float64

	// Width is the bar width in position units. Defaults to 0.8.
	Width float64
	// GroupWidth is the width of the group a bar belongs to; Delta the
	// distance between neighbouring positions. Compare modes accept the
	// pointer anywhere within them. Both default to Width and 1.
	GroupWidth float64
	Delta      float64

	Orientation string // "v" or "h"
	Color       string
	Colors      []string
	Error       *ErrorBars
}

func (b *Bar) horizontal() bool { return b.Orientation == "h" }

func (b *Bar) width() float64 {
	if b.Width > 0 {
		return b.Width
	}
	return 0.8
}

func (b *Bar) groupWidth() float64 {
	if b.GroupWidth > 0 {
		return b.GroupWidth
	}
	return b.width()
}

func (b *Bar) delta() float64 {
	if b.Delta > 0 {
		return b.Delta
	}
	return 1
}

func (b *Bar) base(i int) float64 {
	if i < len(b.Base) && finite(b.Base[i]) {
		return b.Base[i]
	}
	return 0
}

// HoverPoints returns the bar under or nearest the hover position.
func (b *Bar) HoverPoints(pd fx.Point, xval, yval float64, mode fx.Mode, opts fx.SearchOptions) []fx.Point {
	pa, sa := pd.XA, pd.YA
	posVal, sizeVal := xval, yval
	if b.horizontal() {
		pa, sa = sa, pa
		posVal, sizeVal = sizeVal, posVal
	}
	closest := mode == fx.ModeClosest
	n := min(len(b.Pos), len(b.Size))
	w, gw, delta := b.width(), b.groupWidth(), b.delta()
	pRange := math.Abs(pa.Range[1] - pa.Range[0])

	barMin := func(i int) float64 { return b.Pos[i] - w/2 }
	barMax := func(i int) float64 { return b.Pos[i] + w/2 }
	// compare modes accept the pointer in the gap between groups so labels
	// do not flicker
	minPos, maxPos := barMin, barMax
	if !closest {
		minPos = func(i int) float64 { return math.Min(barMin(i), b.Pos[i]-delta/2) }
		maxPos = func(i int) float64 { return math.Max(barMax(i), b.Pos[i]+delta/2) }
	}

	// wider bars get a slightly larger distance so the narrower of two
	// overlapping bars wins
	inbox := func(lo, hi, maxDist float64) float64 {
		return fx.Inbox(lo-posVal, hi-posVal, maxDist+math.Min(1, math.Abs(hi-lo)/pRange)-1)
	}
	// near the end of a bar counts as a little closer
	sizeDist := func(i int, maxDist float64) float64 {
		lo := b.base(i)
		hi := lo + b.Size[i]
		return fx.Inbox(lo-sizeVal, hi-sizeVal, maxDist+(hi-sizeVal)/(hi-lo)-1)
	}
	posFn := func(i int) float64 { return inbox(minPos(i), maxPos(i), opts.MaxHoverDistance) }
	sizeFn := func(i int) float64 { return sizeDist(i, opts.MaxHoverDistance) }

	dx, dy := posFn, sizeFn
	if b.horizontal() {
		dx, dy = sizeFn, posFn
	}
	dxy := func(i int) float64 { return (dx(i) + dy(i)) / 2 }
	fx.GetClosest(n, fx.GetDistanceFunction(mode, dx, dy, dxy), &pd)
	i := pd.Index
	if i < 0 || !finite(b.Pos[i]) || !finite(b.Size[i]) {
		return nil
	}

	end := b.base(i) + b.Size[i]
	sizePx := sa.C2P(end)
	label := b.Size[i]
	if len(b.Base) > 0 {
		label = end
	}
	lo, hi := b.Pos[i]-gw/2, b.Pos[i]+gw/2
	if closest {
		lo, hi = minPos(i), maxPos(i)
	}
	p0, p1 := pa.C2P(lo), pa.C2P(hi)
	spike := pa.C2P(b.Pos[i])

	if b.horizontal() {
		pd.SetBox(sizePx, sizePx, p0, p1)
		pd.XLabelVal, pd.YLabelVal = fx.Float(label), fx.Float(b.Pos[i])
		pd.YSpike = fx.Float(spike)
	} else {
		pd.SetBox(p0, p1, sizePx, sizePx)
		pd.XLabelVal, pd.YLabelVal = fx.Float(b.Pos[i]), fx.Float(label)
		pd.XSpike = fx.Float(spike)
	}

	// spikes want the closest distance to this bar alone
	sd := (sizeDist(i, opts.MaxSpikeDistance) + inbox(barMin(i), barMax(i), opts.MaxSpikeDistance)) / 2
	if !math.IsNaN(sd) {
		pd.SpikeDistance = sd
	}
	if c := colorAt(b.Colors, b.Color, i); c != "" {
		pd.Color = c
	}
	fillText(&pd)
	plus, minus := b.Error.at(i)
	if b.horizontal() {
		pd.XErr, pd.XErrNeg = plus, minus
	} else {
		pd.YErr, pd.YErrNeg = plus, minus
	}
	return []fx.Point{pd}
}

var _ fx.PointSearcher = (*Bar)(nil)
