package fx

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/hoverfx/pkg/surface"
	"github.com/matzehuels/hoverfx/pkg/throttle"
)

// Plot is a hoverable figure: subplots with positioned axes, traces that
// can search their points, a surface to draw labels and spikes on, and the
// session left by the last hover cycle.
//
// Hover cycles on one plot are serialized. Event handlers may read the
// plot's state but must not start a cycle on it synchronously.
type Plot struct {
	// UID identifies the plot. It prefixes the throttle key.
	UID string

	Layout  Layout
	Surface surface.Surface

	subplots map[string]*Subplot
	order    []string
	traces   []*Trace

	logger *log.Logger
	sched  *throttle.Scheduler
	events *Emitter

	cycleMu  sync.Mutex
	stateMu  sync.RWMutex
	session  Session
	dragging bool
}

// Option configures a Plot.
type Option func(*Plot)

// WithLogger sets the logger warnings and diagnostics go to.
func WithLogger(l *log.Logger) Option { return func(p *Plot) { p.logger = l } }

// WithScheduler sets the throttle scheduler. Defaults to throttle.Default.
func WithScheduler(s *throttle.Scheduler) Option { return func(p *Plot) { p.sched = s } }

// WithSurface sets the drawing surface.
func WithSurface(s surface.Surface) Option { return func(p *Plot) { p.Surface = s } }

// WithUID sets the plot UID instead of generating one.
func WithUID(id string) Option { return func(p *Plot) { p.UID = id } }

// WithSession seeds the plot with the session of an earlier cycle.
func WithSession(s Session) Option { return func(p *Plot) { p.session = s } }

// New creates a plot. Layout fields left empty take the DefaultLayout
// values, except the distances, which are used as given. Without a surface
// the plot draws on a Scene sized to enclose every axis with even margins.
func New(layout Layout, subplots []*Subplot, traces []*Trace, opts ...Option) *Plot {
	if layout.HoverMode == "" {
		layout.HoverMode = ModeClosest
	}
	layout.HoverLabel.Font = layout.font()

	p := &Plot{
		Layout:   layout,
		subplots: make(map[string]*Subplot, len(subplots)),
		traces:   traces,
		events:   NewEmitter(),
	}
	for _, sp := range subplots {
		if _, dup := p.subplots[sp.ID]; !dup {
			p.order = append(p.order, sp.ID)
		}
		p.subplots[sp.ID] = sp
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.UID == "" {
		p.UID = uuid.NewString()
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	if p.sched == nil {
		p.sched = throttle.Default
	}
	if p.Surface == nil {
		w, h := p.extent()
		p.Surface = surface.NewScene(w, h, nil)
	}
	return p
}

// extent returns a surface size that mirrors the smallest axis offset as the
// far margin.
func (p *Plot) extent() (float64, float64) {
	var w, h float64
	minX, minY := -1.0, -1.0
	for _, id := range p.order {
		sp := p.subplots[id]
		if sp.XAxis != nil {
			w = max(w, sp.XAxis.Offset+sp.XAxis.Length)
			if minX < 0 || sp.XAxis.Offset < minX {
				minX = sp.XAxis.Offset
			}
		}
		if sp.YAxis != nil {
			h = max(h, sp.YAxis.Offset+sp.YAxis.Length)
			if minY < 0 || sp.YAxis.Offset < minY {
				minY = sp.YAxis.Offset
			}
		}
	}
	return w + max(minX, 0), h + max(minY, 0)
}

// Subplot returns the subplot with the given ID.
func (p *Plot) Subplot(id string) (*Subplot, bool) {
	sp, ok := p.subplots[id]
	return sp, ok
}

// Subplots returns every subplot in declaration order.
func (p *Plot) Subplots() []*Subplot {
	out := make([]*Subplot, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.subplots[id])
	}
	return out
}

// Traces returns the plot's traces.
func (p *Plot) Traces() []*Trace { return p.traces }

// Trace returns the trace with the given index.
func (p *Plot) Trace(index int) (*Trace, bool) {
	for _, t := range p.traces {
		if t.Index == index {
			return t, true
		}
	}
	return nil, false
}

// Logger returns the plot logger.
func (p *Plot) Logger() *log.Logger { return p.logger }

// Events returns the plot's emitter.
func (p *Plot) Events() *Emitter { return p.events }

// Session returns a copy of the current session.
func (p *Plot) Session() Session {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.session.Clone()
}

// SetSession replaces the current session.
func (p *Plot) SetSession(s Session) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	p.session = s
}

// SetDragging marks a drag in progress. Hover cycles during a drag clear the
// hover state instead of searching.
func (p *Plot) SetDragging(v bool) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	p.dragging = v
}

func (p *Plot) isDragging() bool {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.dragging
}

func (p *Plot) throttleKey() string { return p.UID + HoverID }

// OnHover subscribes fn to hover notifications.
func (p *Plot) OnHover(fn func(HoverEventData)) (unsubscribe func()) {
	return p.events.Subscribe(EventHover, func(v any) bool {
		fn(v.(HoverEventData))
		return true
	})
}

// OnUnhover subscribes fn to unhover notifications.
func (p *Plot) OnUnhover(fn func(UnhoverEventData)) (unsubscribe func()) {
	return p.events.Subscribe(EventUnhover, func(v any) bool {
		fn(v.(UnhoverEventData))
		return true
	})
}

// OnBeforeHover subscribes fn to beforehover. Returning false cancels the
// cycle.
func (p *Plot) OnBeforeHover(fn func(Event) bool) (unsubscribe func()) {
	return p.events.Subscribe(EventBeforeHover, func(v any) bool { return fn(v.(Event)) })
}

// OnBeforeUnhover subscribes fn to beforeunhover. Returning false keeps the
// hover state.
func (p *Plot) OnBeforeUnhover(fn func(Event) bool) (unsubscribe func()) {
	return p.events.Subscribe(EventBeforeUnhover, func(v any) bool { return fn(v.(Event)) })
}
