package fx

import (
	"cmp"
	"slices"
)

// OverlapItem is a label as the overlap resolver sees it: an interval of
// half-length Size centered on Pos, confined to [PMin, PMax]. Items are
// ordered by PosRef.
type OverlapItem struct {
	Pos        float64
	PosRef     float64
	Size       float64
	PMin, PMax float64
	TraceIndex int
}

// Resolution is the outcome of AvoidOverlaps, indexed like its input.
type Resolution struct {
	Offsets []float64 `json:"offsets"`
	Deleted []bool    `json:"deleted"`
	// Groups lists the final groups of touching items, by input index, in
	// position order.
	Groups [][]int `json:"groups"`
	// Passes counts iterations of the merge and constrain loop.
	Passes int `json:"passes"`
}

// DeletedCount reports how many items were dropped.
func (r Resolution) DeletedCount() int {
	n := 0
	for _, d := range r.Deleted {
		if d {
			n++
		}
	}
	return n
}

type overlapPoint struct {
	i   int
	dp  float64
	del bool
	OverlapItem
}

// AvoidOverlaps spreads labels sharing an axis so that none overlap.
//
// Every label starts in its own group. Touching neighbours are merged and
// each merged group is shifted so its mean displacement is zero, as if all
// labels hung on equal springs around their natural positions. Groups that
// cross an axis edge are pushed back inside; when a group cannot fit, labels
// nearest the violated edge are deleted and the rest are packed from the
// near edge. Deleted labels take no space. The loop ends when nothing moves
// or after len(items)+1 passes.
//
// axSign orders items at equal PosRef by trace index: descending for 1,
// ascending for -1.
func AvoidOverlaps(items []OverlapItem, axSign float64) Resolution {
	groups := make([][]*overlapPoint, len(items))
	for i, it := range items {
		groups[i] = []*overlapPoint{{i: i, OverlapItem: it}}
	}
	slices.SortStableFunc(groups, func(a, b []*overlapPoint) int {
		if c := cmp.Compare(a[0].PosRef, b[0].PosRef); c != 0 {
			return c
		}
		return cmp.Compare(axSign*float64(b[0].TraceIndex-a[0].TraceIndex), 0)
	})

	done := false
	passes := 0
	for !done && passes <= len(items) {
		passes++
		done = true

		for i := 0; i < len(groups)-1; {
			g0, g1 := groups[i], groups[i+1]
			p0, p1 := lastLive(g0), firstLive(g1)
			switch {
			case p1 == nil:
				// fully deleted groups ride along with their neighbour
				groups[i] = append(g0, g1...)
				groups = slices.Delete(groups, i+1, i+2)
				continue
			case p0 == nil:
				groups[i+1] = append(g0, g1...)
				groups = slices.Delete(groups, i, i+1)
				continue
			}
			overlap := p0.Pos + p0.dp + p0.Size - p1.Pos - p1.dp + p1.Size

			if overlap > overlapTolerance && p0.PMin == p1.PMin && p0.PMax == p1.PMax {
				for _, pt := range g1 {
					pt.dp += overlap
				}
				g0 = append(g0, g1...)
				groups[i] = g0
				groups = slices.Delete(groups, i+1, i+2)
				recenter(g0)
				done = false
				continue
			}
			i++
		}

		for _, g := range groups {
			if constrainGroup(g, done) {
				done = false
			}
		}
	}

	// bounds hold even when the pass limit cut the relaxation short
	if !done {
		for _, g := range groups {
			for n := 0; n < 3; n++ {
				if !constrainGroup(g, true) {
					break
				}
			}
		}
	}

	res := Resolution{
		Offsets: make([]float64, len(items)),
		Deleted: make([]bool, len(items)),
		Groups:  make([][]int, len(groups)),
		Passes:  passes,
	}
	for gi, g := range groups {
		for _, pt := range g {
			res.Offsets[pt.i] = pt.dp
			res.Deleted[pt.i] = pt.del
			res.Groups[gi] = append(res.Groups[gi], pt.i)
		}
	}
	return res
}

func firstLive(grp []*overlapPoint) *overlapPoint {
	for _, pt := range grp {
		if !pt.del {
			return pt
		}
	}
	return nil
}

func lastLive(grp []*overlapPoint) *overlapPoint {
	for i := len(grp) - 1; i >= 0; i-- {
		if !grp[i].del {
			return grp[i]
		}
	}
	return nil
}

// recenter shifts the live points of grp so their mean displacement is zero.
func recenter(grp []*overlapPoint) {
	var sum float64
	n := 0
	for _, pt := range grp {
		if !pt.del {
			sum += pt.dp
			n++
		}
	}
	if n == 0 {
		return
	}
	mean := sum / float64(n)
	for _, pt := range grp {
		if !pt.del {
			pt.dp -= mean
		}
	}
}

func shiftLive(grp []*overlapPoint, d float64) {
	for _, pt := range grp {
		if !pt.del {
			pt.dp += d
		}
	}
}

// constrainGroup pushes grp back inside its bounds and reports whether it
// moved. Deletion only happens in a pass where nothing else has moved yet.
func constrainGroup(grp []*overlapPoint, settled bool) (moved bool) {
	minPt, maxPt := firstLive(grp), lastLive(grp)
	if minPt == nil {
		return false
	}
	pmin, pmax := minPt.PMin, minPt.PMax

	// positive values are overlaps
	topOverlap := pmin - minPt.Pos - minPt.dp + minPt.Size
	bottomOverlap := maxPt.Pos + maxPt.dp + maxPt.Size - pmax

	// the top edge wins so the first labels stay visible
	if topOverlap > overlapTolerance {
		shiftLive(grp, topOverlap)
		moved = true
	}
	if bottomOverlap < overlapTolerance {
		return moved
	}
	if topOverlap < -overlapTolerance {
		shiftLive(grp, -min(bottomOverlap, -topOverlap))
		moved = true
	}
	if moved || !settled {
		return moved
	}

	// The group spans the whole axis and still overflows: drop labels
	// until the rest fit, then pack them from the top edge.
	var need float64
	for _, pt := range grp {
		if !pt.del {
			need += 2 * pt.Size
		}
	}
	avail := pmax - pmin
	drop := func(pt *overlapPoint) {
		pt.del = true
		need -= 2 * pt.Size
	}

	// points whose data sits on the far edge go first
	for i := len(grp) - 1; i >= 0 && need > avail+overlapTolerance; i-- {
		if pt := grp[i]; !pt.del && pt.Pos > pmax-1 {
			drop(pt)
		}
	}
	// then points on the near edge
	for i := 0; i < len(grp) && need > avail+overlapTolerance; i++ {
		if pt := grp[i]; !pt.del && pt.Pos < pmin+1 {
			drop(pt)
		}
	}
	// then whatever sits furthest down
	for i := len(grp) - 1; i >= 0 && need > avail+overlapTolerance; i-- {
		if pt := grp[i]; !pt.del {
			drop(pt)
		}
	}
	// packing keeps the group inside its bounds, so it counts as settled
	edge := pmin
	for _, pt := range grp {
		if pt.del {
			continue
		}
		pt.dp = edge + pt.Size - pt.Pos
		edge += 2 * pt.Size
	}
	return false
}
