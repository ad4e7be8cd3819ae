package traces

import (
	"math"
	"sort"

	"github.com/matzehuels/hoverfx/pkg/fx"
)

// Heatmap is a grid of cells. X and Y hold cell centers in increasing
// order; Z[row][col] the cell values, NaN for gaps. Point numbers run row
// by row.
type Heatmap struct {
	X, Y  []float64
	Z     [][]float64
	Color string
}

// HoverPoints returns the cell containing the hover position. Cells are
// areas, so every hit sits at the search's maximum distance and loses to
// any nearby point of another trace.
func (h *Heatmap) HoverPoints(pd fx.Point, xval, yval float64, _ fx.Mode, opts fx.SearchOptions) []fx.Point {
	nx, ny := len(h.X), len(h.Y)
	if nx == 0 || ny == 0 {
		return nil
	}
	var col, row int
	if pd.Index >= 0 {
		if pd.Index >= nx*ny {
			return nil
		}
		row, col = pd.Index/nx, pd.Index%nx
	} else {
		var ok bool
		if col, ok = cellIndex(h.X, xval); !ok {
			return nil
		}
		if row, ok = cellIndex(h.Y, yval); !ok {
			return nil
		}
	}
	z := math.NaN()
	if row < len(h.Z) && col < len(h.Z[row]) {
		z = h.Z[row][col]
	}
	if !finite(z) {
		return nil
	}

	xe, ye := cellEdges(h.X, col), cellEdges(h.Y, row)
	pd.Index = row*nx + col
	pd.Distance = opts.MaxHoverDistance
	pd.SpikeDistance = opts.MaxSpikeDistance
	pd.SetBox(pd.XA.C2P(xe[0]), pd.XA.C2P(xe[1]), pd.YA.C2P(ye[0]), pd.YA.C2P(ye[1]))
	pd.XLabelVal = fx.Float(h.X[col])
	pd.YLabelVal = fx.Float(h.Y[row])
	pd.ZLabelVal = fx.Float(z)
	cx, cy := pd.XA.C2P(h.X[col]), pd.YA.C2P(h.Y[row])
	pd.XSpike, pd.YSpike = fx.Float(cx), fx.Float(cy)
	if h.Color != "" {
		pd.Color = h.Color
	}
	fillText(&pd)
	return []fx.Point{pd}
}

// cellEdges returns the edges of cell i: halfway to each neighbour, or
// mirrored at the ends.
func cellEdges(centers []float64, i int) [2]float64 {
	n := len(centers)
	if n == 1 {
		return [2]float64{centers[0] - 0.5, centers[0] + 0.5}
	}
	var lo, hi float64
	if i > 0 {
		lo = (centers[i-1] + centers[i]) / 2
	} else {
		lo = centers[0] - (centers[1]-centers[0])/2
	}
	if i < n-1 {
		hi = (centers[i] + centers[i+1]) / 2
	} else {
		hi = centers[n-1] + (centers[n-1]-centers[n-2])/2
	}
	return [2]float64{lo, hi}
}

// cellIndex finds the cell containing v.
func cellIndex(centers []float64, v float64) (int, bool) {
	if math.IsNaN(v) {
		return 0, false
	}
	n := len(centers)
	i := sort.Search(n, func(k int) bool { return cellEdges(centers, k)[1] > v })
	if i == n {
		return 0, false
	}
	if e := cellEdges(centers, i); v < e[0] {
		return 0, false
	}
	return i, true
}

var _ fx.PointSearcher = (*Heatmap)(nil)
