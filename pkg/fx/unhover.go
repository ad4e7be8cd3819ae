package fx

import (
	"github.com/matzehuels/hoverfx/pkg/observability"
	"github.com/matzehuels/hoverfx/pkg/surface"
)

// Unhover clears the hover state: pending throttled cycles are dropped,
// labels and spikes removed and, for a real event with hover state, an
// unhover notification is sent. evt may be nil.
func (p *Plot) Unhover(evt *Event) {
	p.sched.Clear(p.throttleKey())
	if evt == nil {
		evt = &Event{}
	}
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()
	p.unhoverRaw(evt, &Result{}, hoverOptions{}, false)
}

// unhoverRaw removes labels and forgets the hovered points. With keepSpikes
// the spike layer and spike points stay for the caller to update.
func (p *Plot) unhoverRaw(evt *Event, res *Result, o hoverOptions, keepSpikes bool) *Result {
	fromPointer := evt.IsReal()
	if fromPointer && !p.events.Emit(EventBeforeUnhover, *evt) {
		res.Cancelled = true
		return res
	}

	p.Surface.Clear(surface.LayerHover)
	if !keepSpikes {
		p.Surface.Clear(surface.LayerSpikes)
	}

	p.stateMu.Lock()
	old := p.session.HoverData
	p.session.HoverData = nil
	if !keepSpikes {
		p.session.Spikes = SpikePoints{}
	}
	p.stateMu.Unlock()

	if fromPointer && !o.silent && old != nil {
		p.events.Emit(EventUnhover, UnhoverEventData{Event: *evt, Points: old})
	}
	observability.Hover().OnUnhover(p.UID)
	return res
}
