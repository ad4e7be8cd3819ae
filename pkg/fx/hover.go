package fx

import (
	"fmt"
	"time"

	"github.com/matzehuels/hoverfx/pkg/color"
	"github.com/matzehuels/hoverfx/pkg/errors"
	"github.com/matzehuels/hoverfx/pkg/observability"
	"github.com/matzehuels/hoverfx/pkg/surface"
)

// Result describes what one hover cycle found and drew.
type Result struct {
	Mode   Mode         `json:"mode"`
	Points []EventPoint `json:"points"`

	// Candidates are the ranked hits behind Points.
	Candidates []*Point `json:"-"`

	Labels      []*Label      `json:"labels,omitempty"`
	CommonLabel *CommonLabel  `json:"commonLabel,omitempty"`
	Unified     *UnifiedPanel `json:"unified,omitempty"`
	Overlap     *Resolution   `json:"overlap,omitempty"`
	Deleted     int           `json:"deleted,omitempty"`

	Spikes        SpikePoints `json:"spikes"`
	SpikesChanged bool        `json:"spikesChanged,omitempty"`

	// Changed reports whether the hovered points differ from the previous
	// cycle's.
	Changed bool `json:"changed"`

	XVals []float64 `json:"xvals,omitempty"`
	YVals []float64 `json:"yvals,omitempty"`

	// Cancelled is set when a beforehover or beforeunhover handler vetoed
	// the cycle.
	Cancelled bool `json:"cancelled,omitempty"`
}

// HoverOption adjusts a single hover call.
type HoverOption func(*hoverOptions)

type hoverOptions struct {
	subplots []string
	silent   bool
}

// OnSubplot restricts the search to the given subplots. A single subplot
// also searches its overlays.
func OnSubplot(ids ...string) HoverOption {
	return func(o *hoverOptions) { o.subplots = ids }
}

// Silent suppresses hover and unhover notifications for the call.
func Silent() HoverOption {
	return func(o *hoverOptions) { o.silent = true }
}

// Hover schedules a hover cycle for evt. Calls arriving within HoverMinTime
// of the last cycle are coalesced and only the most recent one runs.
func (p *Plot) Hover(evt Event, opts ...HoverOption) {
	p.sched.Throttle(p.throttleKey(), HoverMinTime, func() {
		p.HoverSync(evt, opts...)
	})
}

// HoverSync runs a hover cycle immediately, bypassing the throttle.
func (p *Plot) HoverSync(evt Event, opts ...HoverOption) *Result {
	var o hoverOptions
	for _, opt := range opts {
		opt(&o)
	}
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()
	return p.hover(&evt, o)
}

func (p *Plot) hover(evt *Event, o hoverOptions) *Result {
	start := time.Now()
	mode := p.Layout.HoverMode
	if evt.HoverMode != "" {
		mode = evt.HoverMode
	}
	res := &Result{Mode: mode}

	subplots, err := p.resolveSubplots(o.subplots)
	if err != nil {
		p.logger.Warn("hover aborted", "plot", p.UID, "err", err)
		return p.unhoverRaw(evt, res, o, false)
	}
	if !mode.Valid() {
		err := errors.New(errors.ErrCodeInvalidHoverMode, "unsupported hover mode %q", mode)
		p.logger.Warn("hover aborted", "plot", p.UID, "err", err)
		return p.unhoverRaw(evt, res, o, false)
	}
	if len(p.traces) == 0 || p.isDragging() {
		return p.unhoverRaw(evt, res, o, false)
	}
	if len(evt.Points) > 0 {
		mode = ModeArray
	}

	c := &cycle{
		evt:      *evt,
		mode:     mode,
		subplots: subplots,
		maxHover: p.Layout.maxHoverDistance(),
		maxSpike: p.Layout.maxSpikeDistance(),
	}
	for _, sp := range subplots {
		if !sp.NonCartesian {
			c.hasCartesian = true
		}
	}
	if !c.hasCartesian && mode != ModeClosest && mode != ModeArray {
		c.mode = ModeClosest
	}
	res.Mode = c.mode

	p.collectTargets(c)
	if len(c.targets) == 0 {
		return p.unhoverRaw(evt, res, o, false)
	}

	first := subplots[0]
	if first.XAxis == nil || first.YAxis == nil {
		p.logger.Warn("hover aborted", "plot", p.UID, "subplot", first.ID, "err", "missing axis")
		return p.unhoverRaw(evt, res, o, false)
	}
	xpx, ypx := first.XAxis.Length/2, first.YAxis.Length/2
	if evt.XPx != nil {
		xpx = *evt.XPx
	}
	if evt.YPx != nil {
		ypx = *evt.YPx
	}
	if c.mode != ModeArray {
		if evt.IsReal() {
			if !p.events.Emit(EventBeforeHover, *evt) {
				res.Cancelled = true
				return res
			}
			b := evt.Origin.Target
			xpx = evt.Origin.ClientX - b.X
			ypx = evt.Origin.ClientY - b.Y
			if xpx < 0 || xpx > b.W || ypx < 0 || ypx > b.H {
				return p.unhoverRaw(evt, res, o, false)
			}
		}
		if err := p.hoverValues(c, xpx, ypx); err != nil {
			p.logger.Warn("invalid hover position", "plot", p.UID, "err", err)
			return p.unhoverRaw(evt, res, o, false)
		}
	}
	c.pointerX = first.XAxis.Offset + xpx
	c.pointerY = first.YAxis.Offset + ypx

	hooks := observability.Hover()
	hooks.OnHoverStart(p.UID, string(c.mode))

	spikesOn := c.hasCartesian && c.maxSpike != 0
	var cands *spikeCandidates
	if spikesOn {
		cands = &spikeCandidates{}
	}
	hits := p.findPoints(c, c.xvals, c.yvals, cands)

	prev := p.Session()
	var spikes SpikePoints
	if spikesOn {
		if len(hits) > 0 {
			var sp *Subplot
			if c.mode != ModeArray {
				sp = first
			}
			spikes.H = fillSpikePoint(selectSpike(hits, false, c.maxSpike, sp))
			spikes.V = fillSpikePoint(selectSpike(hits, true, c.maxSpike, sp))
		} else {
			spikes.H = fillSpikePoint(cands.h)
			spikes.V = fillSpikePoint(cands.v)
		}
	}
	spikes = spikes.settle(prev.Spikes)
	res.Spikes = spikes
	res.SpikesChanged = spikesChanged(prev.Spikes, spikes)
	sc := spikeContext{pointerX: c.pointerX, pointerY: c.pointerY, contrastColor: p.bgColor()}

	if len(hits) == 0 {
		if p.unhoverRaw(evt, res, o, true).Cancelled {
			// a vetoed unhover keeps the previous labels and spikes
			res.Spikes, res.SpikesChanged = prev.Spikes, false
			return res
		}
		p.stateMu.Lock()
		p.session.Spikes = spikes
		p.stateMu.Unlock()
		if res.SpikesChanged {
			p.drawSpikes(spikes, sc)
		}
		hooks.OnHoverComplete(p.UID, string(c.mode), 0, time.Since(start))
		return res
	}

	if repinned(c, hits) {
		hits = p.pinnedSearch(c, hits)
	}

	points := make([]EventPoint, len(hits))
	for i, pt := range hits {
		points[i] = eventPoint(pt)
	}
	res.Points = points
	res.Candidates = hits
	if c.mode != ModeArray {
		res.XVals, res.YVals = c.xvals, c.yvals
	}
	res.Changed = hoverChanged(prev.HoverData, points)
	p.SetSession(Session{HoverData: points, Spikes: spikes})

	if res.SpikesChanged {
		p.drawSpikes(spikes, sc)
	}
	p.drawLabels(c, hits, res)
	if res.Deleted > 0 {
		hooks.OnLabelsDeleted(p.UID, res.Deleted)
	}

	if evt.IsReal() && !o.silent && res.Changed {
		if prev.HoverData != nil {
			p.events.Emit(EventUnhover, UnhoverEventData{Event: *evt, Points: prev.HoverData})
		}
		data := HoverEventData{Event: *evt, Points: points, XVals: res.XVals, YVals: res.YVals}
		for _, sp := range subplots {
			data.XAxes = append(data.XAxes, sp.XAxis.ID)
			data.YAxes = append(data.YAxes, sp.YAxis.ID)
		}
		p.events.Emit(EventHover, data)
	}
	hooks.OnHoverComplete(p.UID, string(c.mode), len(points), time.Since(start))
	return res
}

// drawLabels replaces the hover layer with the labels for hits.
func (p *Plot) drawLabels(c *cycle, hits []*Point, res *Result) {
	lc := p.labelContext(c.mode)
	p.Surface.Clear(surface.LayerHover)

	if c.mode.IsUnified() {
		res.Unified = unifiedPanel(hits, lc)
		if res.Unified != nil {
			p.Surface.Add(surface.LayerHover, res.Unified.Group)
		}
		return
	}

	horizontal := false
	for _, tg := range c.targets {
		if tg.trace.Orientation == "h" {
			horizontal = true
			break
		}
	}
	lc.rotate = (c.mode == ModeY && (len(c.targets) > 1 || len(hits) > 1)) ||
		(c.mode == ModeClosest && horizontal && len(hits) > 1)

	common, labels := hoverText(hits, lc)
	res.CommonLabel = common
	res.Labels = labels
	if common != nil {
		p.Surface.Add(surface.LayerHover, common.Node())
	}
	if len(labels) == 0 {
		return
	}

	r := placeLabels(labels, lc.rotate)
	res.Overlap = &r
	res.Deleted = r.DeletedCount()
	for i, l := range labels {
		if l.Del {
			continue
		}
		p.Surface.Add(surface.LayerHover, l.Node(fmt.Sprintf("%s-hoverclip-%d", p.UID, i)))
	}
}

// placeLabels spreads labels along their shared axis and aligns each one.
func placeLabels(labels []*Label, rotate bool) Resolution {
	items, axSign := overlapItems(labels, rotate)
	r := AvoidOverlaps(items, axSign)
	for i, l := range labels {
		l.Offset = r.Offsets[i]
		l.Del = r.Deleted[i]
		alignLabel(l)
	}
	return r
}

func (p *Plot) labelContext(mode Mode) labelContext {
	style := p.Layout.HoverLabel
	style.Font = p.Layout.font()
	return labelContext{
		mode:     mode,
		bgColor:  p.bgColor(),
		bounds:   p.Surface.Bounds(),
		measurer: p.Surface,
		style:    style,
		maxHover: p.Layout.maxHoverDistance(),
	}
}

// bgColor is the plot background composited over the paper.
func (p *Plot) bgColor() string {
	plot, paper := p.Layout.PlotBgColor, p.Layout.PaperBgColor
	if plot == "" {
		plot = color.Background
	}
	if paper == "" {
		paper = color.Background
	}
	return color.Combine(plot, paper)
}

func eventPoint(pt *Point) EventPoint {
	ep := EventPoint{
		CurveNumber:  pt.Trace.Index,
		PointNumber:  pt.Index,
		PointNumbers: pt.Indices,
		TraceName:    pt.Trace.Name,
		X:            pt.XVal,
		Y:            pt.YVal,
		Z:            pt.ZLabelVal,
		XAxis:        pt.XA.ID,
		YAxis:        pt.YA.ID,
		BBox: &BBox{
			X0: pt.XA.Offset + pt.X0,
			X1: pt.XA.Offset + pt.X1,
			Y0: pt.YA.Offset + pt.Y0,
			Y1: pt.YA.Offset + pt.Y1,
		},
	}
	AppendArrayPointValue(&ep, pt.Trace, pt.Index)
	return ep
}
