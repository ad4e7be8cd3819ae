// Package fx finds the points under a pointer and draws hover labels and
// spike lines for them.
//
// # Overview
//
// A [Plot] holds positioned subplots and traces. Each hover cycle takes an
// [Event] and:
//
//  1. Resolves the pointer to pixel and data positions on every searched
//     subplot
//  2. Asks each trace's [PointSearcher] for candidates within the hover
//     distance
//  3. Ranks the candidates for the hover [Mode] and picks the spike targets
//  4. Composes one [Label] per point, or a shared panel in unified modes
//  5. Pushes overlapping labels apart along the axis ([AvoidOverlaps])
//  6. Compares the result with the previous cycle's [Session] and notifies
//     subscribers when the hovered points changed
//
// # Modes
//
// In "x" and "y" modes every trace reports its point nearest the pointer
// along one axis, and a common label marks the shared axis value. "closest"
// reports the single nearest point. The unified modes collect the same
// points as "x" and "y" but draw them in one panel. Hover events with
// explicit [PointSelector]s bypass the search.
//
// # Throttling
//
// [Plot.Hover] runs at most one cycle per [HoverMinTime] per plot; calls in
// between replace each other and only the last runs. [Plot.HoverSync]
// bypasses the throttle and returns the [Result]. [Plot.Unhover] drops any
// pending cycle.
//
// # Events
//
// Only events with an [Origin] come from a real pointer. For those the plot
// fires beforehover, hover, beforeunhover and unhover notifications, which
// callers receive through [Plot.OnHover] and its siblings:
//
//	plot := fx.New(layout, subplots, traces, fx.WithLogger(logger))
//	unsubscribe := plot.OnHover(func(d fx.HoverEventData) {
//	    fmt.Println(d.Points[0].CurveNumber, d.Points[0].PointNumber)
//	})
//	defer unsubscribe()
//
//	plot.Hover(fx.Event{Origin: &fx.Origin{ClientX: 120, ClientY: 80, Target: box}})
//
// # Sessions
//
// A stateless caller rebuilds its plot for every request. It keeps the
// [Session] left by the last cycle and passes it back with [WithSession],
// so change detection works across requests.
//
// # Drawing
//
// Labels and spike lines are drawn on the plot's [surface.Surface], in the
// [surface.LayerHover] and [surface.LayerSpikes] layers. Both layers are
// cleared at the start of every cycle that changes them.
package fx
