package fx

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/hoverfx/pkg/axis"
	"github.com/matzehuels/hoverfx/pkg/color"
	"github.com/matzehuels/hoverfx/pkg/errors"
)

// searchTarget is one trace to search in a cycle.
type searchTarget struct {
	trace *Trace
	sp    *Subplot
	// spi indexes the cycle's subplots and value lists; -1 in array mode.
	spi int
	sel *PointSelector
}

// cycle is the resolved state of one hover call.
type cycle struct {
	evt      Event
	mode     Mode
	subplots []*Subplot
	targets  []searchTarget

	xvals, yvals []float64
	// pointer position on the surface, for cursor-snapped spikes
	pointerX, pointerY float64

	hasCartesian bool
	maxHover     float64
	maxSpike     float64
}

// spikeCandidates holds the best spike targets found by the fallback search.
type spikeCandidates struct {
	v, h *Point
}

// resolveSubplots expands the requested subplot IDs. With no IDs the "xy"
// subplot is used, or the first one declared. Overlays are added when a
// single subplot is requested.
func (p *Plot) resolveSubplots(ids []string) ([]*Subplot, error) {
	if len(ids) == 0 {
		switch {
		case p.subplots["xy"] != nil:
			ids = []string{"xy"}
		case len(p.order) > 0:
			ids = []string{p.order[0]}
		default:
			return nil, errors.New(errors.ErrCodeUnknownSubplot, "plot has no subplots")
		}
	}
	var out []*Subplot
	seen := map[string]bool{}
	add := func(id string) error {
		sp, ok := p.subplots[id]
		if !ok {
			return errors.New(errors.ErrCodeUnknownSubplot, "unknown subplot %q", id)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, sp)
		}
		return nil
	}
	for _, id := range ids {
		if err := add(id); err != nil {
			return nil, err
		}
	}
	if len(ids) == 1 {
		for _, id := range out[0].Overlays {
			if err := add(id); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// collectTargets lists the traces to search. In array mode each selector
// names its trace; otherwise every visible, hoverable trace on one of the
// cycle's subplots is searched.
func (p *Plot) collectTargets(c *cycle) {
	if c.mode == ModeArray {
		for i := range c.evt.Points {
			sel := &c.evt.Points[i]
			tr, ok := p.Trace(sel.CurveNumber)
			if !ok || tr.hoverInfo() == "skip" {
				continue
			}
			sp, ok := p.subplots[tr.SubplotID()]
			if !ok {
				continue
			}
			c.targets = append(c.targets, searchTarget{trace: tr, sp: sp, spi: -1, sel: sel})
		}
		return
	}
	for _, tr := range p.traces {
		if tr.Hidden || tr.hoverInfo() == "skip" {
			continue
		}
		for i, sp := range c.subplots {
			if sp.ID == tr.SubplotID() {
				c.targets = append(c.targets, searchTarget{trace: tr, sp: sp, spi: i})
				break
			}
		}
	}
}

// hoverValues converts the event position into one x and one y calc value
// per subplot.
func (p *Plot) hoverValues(c *cycle, xpx, ypx float64) error {
	c.xvals = make([]float64, len(c.subplots))
	c.yvals = make([]float64, len(c.subplots))
	for i, sp := range c.subplots {
		if sp.XAxis == nil || sp.YAxis == nil {
			return errors.New(errors.ErrCodeInvalidInput, "subplot %q is missing an axis", sp.ID)
		}
		var err error
		if c.xvals[i], err = eventValue(sp.XAxis, c.evt.XVal, xpx); err != nil {
			return err
		}
		if c.yvals[i], err = eventValue(sp.YAxis, c.evt.YVal, ypx); err != nil {
			return err
		}
	}
	return nil
}

func eventValue(ax *axis.Axis, val any, px float64) (float64, error) {
	var v float64
	if val != nil {
		c, ok := ax.D2C(val)
		if !ok {
			return 0, errors.New(errors.ErrCodeInvalidCoordinates, "hover value %v is not valid on axis %s", val, ax.ID)
		}
		v = c
	} else {
		v = ax.P2C(px)
	}
	if !finite(v) {
		return 0, errors.New(errors.ErrCodeInvalidCoordinates, "hover position is not finite on axis %s", ax.ID)
	}
	return v, nil
}

// templatePoint is the point data handed to searchers.
func templatePoint(tr *Trace, sp *Subplot, distance float64) Point {
	return Point{
		Trace:         tr,
		XA:            sp.XAxis,
		YA:            sp.YAxis,
		Subplot:       sp.ID,
		Index:         -1,
		Distance:      distance,
		SpikeDistance: math.Inf(1),
		Color:         color.DefaultLine,
		Name:          tr.Name,
	}
}

// selectorQuery turns an array-mode selector into a search: a point number
// is looked up directly, data values are searched along the axes they give.
func (p *Plot) selectorQuery(tg searchTarget, pd *Point) (Mode, float64, float64, bool) {
	sel := tg.sel
	xval, yval := math.NaN(), math.NaN()
	if sel.PointNumber != nil {
		pd.Index = *sel.PointNumber
		return ModeClosest, xval, yval, true
	}
	var mode Mode
	if sel.XVal != nil {
		v, ok := pd.XA.D2C(sel.XVal)
		if !ok {
			p.logger.Warn("ignoring point selector", "curve", sel.CurveNumber, "xval", sel.XVal)
			return "", xval, yval, false
		}
		xval, mode = v, ModeX
	}
	if sel.YVal != nil {
		v, ok := pd.YA.D2C(sel.YVal)
		if !ok {
			p.logger.Warn("ignoring point selector", "curve", sel.CurveNumber, "yval", sel.YVal)
			return "", xval, yval, false
		}
		yval = v
		if mode == "" {
			mode = ModeY
		} else {
			mode = ModeClosest
		}
	}
	return mode, xval, yval, mode != ""
}

// findPoints searches every target and returns the ranked, normalized
// hits. In closest mode only the hits at the smallest distance survive.
// When spikes is non-nil, traces without hits are searched again for spike
// targets.
func (p *Plot) findPoints(c *cycle, xvals, yvals []float64, spikes *spikeCandidates) []*Point {
	var hits []*Point
	distance := math.Inf(1)
	opts := SearchOptions{MaxHoverDistance: c.maxHover, MaxSpikeDistance: c.maxSpike}

	for _, tg := range c.targets {
		tr := tg.trace
		if tr.Searcher == nil {
			p.logger.Info("trace does not support hover", "trace", tr.Index, "type", tr.Type)
			continue
		}

		pd := templatePoint(tr, tg.sp, math.Min(distance, c.maxHover))
		var (
			mode       = c.mode
			xval, yval float64
		)
		if c.mode == ModeArray {
			var ok bool
			if mode, xval, yval, ok = p.selectorQuery(tg, &pd); !ok {
				continue
			}
		} else {
			xval, yval = xvals[tg.spi], yvals[tg.spi]
		}

		var batch []*Point
		found := tr.Searcher.HoverPoints(pd, xval, yval, mode, opts)
		for i := range found {
			pt := &found[i]
			backfill(pt, &pd)
			if finite(pt.X0) && finite(pt.Y0) {
				batch = append(batch, cleanPoint(pt, c.mode, p.Layout.HoverLabel))
			}
		}

		if c.mode == ModeClosest {
			hits, distance = mergeClosest(hits, batch, distance)
		} else {
			hits = append(hits, batch...)
		}

		if spikes != nil && len(batch) == 0 && c.hasCartesian && c.maxSpike != 0 {
			p.searchSpikes(c, tg, xval, yval, opts, spikes)
		}
	}

	slices.SortStableFunc(hits, func(a, b *Point) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return hits
}

// mergeClosest keeps the hits at the smallest distance seen so far. A batch
// that ties the current best joins it.
func mergeClosest(hits, batch []*Point, best float64) ([]*Point, float64) {
	if len(batch) == 0 {
		return hits, best
	}
	bmin := math.Inf(1)
	for _, pt := range batch {
		bmin = math.Min(bmin, pt.Distance)
	}
	var keep []*Point
	for _, pt := range batch {
		if pt.Distance <= bmin+closestEpsilon {
			keep = append(keep, pt)
		}
	}
	switch {
	case len(hits) == 0 || bmin < best-closestEpsilon:
		return keep, bmin
	case bmin <= best+closestEpsilon:
		return append(hits, keep...), math.Min(best, bmin)
	}
	return hits, best
}

func backfill(pt, pd *Point) {
	if pt.Trace == nil {
		pt.Trace = pd.Trace
	}
	if pt.XA == nil {
		pt.XA = pd.XA
	}
	if pt.YA == nil {
		pt.YA = pd.YA
	}
	if pt.Subplot == "" {
		pt.Subplot = pd.Subplot
	}
}

// searchSpikes looks for spike targets on a trace that had no hover hit.
// The best candidate across traces by spike distance wins.
func (p *Plot) searchSpikes(c *cycle, tg searchTarget, xval, yval float64, opts SearchOptions, sc *spikeCandidates) {
	pd := templatePoint(tg.trace, tg.sp, c.maxSpike)
	found := tg.trace.Searcher.HoverPoints(pd, xval, yval, ModeClosest, opts)

	var v, h *Point
	for i := range found {
		pt := &found[i]
		backfill(pt, &pd)
		if pt.SpikeDistance > c.maxSpike || !finite(pt.X0) || !finite(pt.Y0) {
			continue
		}
		if v == nil && pt.XA.Spikes.Show && pt.XA.Spikes.SnapMode() != axis.SnapHoveredData {
			v = pt
		}
		if h == nil && pt.YA.Spikes.Show && pt.YA.Spikes.SnapMode() != axis.SnapHoveredData {
			h = pt
		}
	}
	if v != nil && (sc.v == nil || sc.v.SpikeDistance > v.SpikeDistance) {
		sc.v = v
	}
	if h != nil && (sc.h == nil || sc.h.SpikeDistance > h.SpikeDistance) {
		sc.h = h
	}
}

// selectSpike picks the hit a spike is drawn to: among hits on the first
// subplot whose axis shows spikes, the one with the smallest spike distance,
// later hits winning ties.
func selectSpike(hits []*Point, vertical bool, maxSpike float64, sp *Subplot) *Point {
	var best *Point
	minDist := math.Inf(1)
	for _, pt := range hits {
		ax := pt.YA
		if vertical {
			ax = pt.XA
		}
		if !ax.Spikes.Show {
			continue
		}
		if sp != nil && (pt.XA.ID != sp.XAxis.ID || pt.YA.ID != sp.YAxis.ID) {
			continue
		}
		if d := pt.SpikeDistance; d <= minDist && d <= maxSpike {
			best, minDist = pt, d
		}
	}
	return best
}

// repinned reports whether an x or y cycle searched more than one position,
// as happens when overlaid subplots map the pointer to different values. The
// search is then repeated at the winner's values.
func repinned(c *cycle, hits []*Point) bool {
	if !(c.mode.IsXY() || c.mode.IsUnified()) || len(hits) == 0 {
		return false
	}
	return distinct(c.xvals) > 1 || distinct(c.yvals) > 1
}

func distinct(vals []float64) int {
	seen := map[float64]bool{}
	for _, v := range vals {
		seen[v] = true
	}
	return len(seen)
}

// pinnedSearch repeats the search at the winning point's values and merges
// the new hits, dropping duplicates.
func (p *Plot) pinnedSearch(c *cycle, hits []*Point) []*Point {
	win := hits[0]
	xvals := slices.Clone(c.xvals)
	yvals := slices.Clone(c.yvals)
	for i := range c.subplots {
		if win.XLabelVal != nil {
			xvals[i] = *win.XLabelVal
		}
		if win.YLabelVal != nil {
			yvals[i] = *win.YLabelVal
		}
	}

	seen := map[string]bool{}
	out := make([]*Point, 0, len(hits))
	for _, pt := range append(hits, p.findPoints(c, xvals, yvals, nil)...) {
		k := pointKey(pt)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, pt)
	}
	slices.SortStableFunc(out, func(a, b *Point) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return out
}

func pointKey(pt *Point) string {
	return fmt.Sprintf("%d|%d|%g|%g|%s|%s|%s", pt.Trace.Index, pt.Index, pt.X0, pt.Y0, pt.Name, pt.XA.ID, pt.YA.ID)
}
