package fx

import (
	"fmt"
	"sync"

	"github.com/matzehuels/hoverfx/pkg/surface"
)

// =============================================================================
// Hover Requests
// =============================================================================

// Event describes what to hover. Exactly one form applies: Points switches
// to array mode; otherwise XVal/YVal give data values and XPx/YPx pixel
// positions within the subplot area. Missing pixel positions default to the
// middle of the first subplot.
type Event struct {
	XPx       *float64        `json:"xpx,omitempty"`
	YPx       *float64        `json:"ypx,omitempty"`
	XVal      any             `json:"xval,omitempty"`
	YVal      any             `json:"yval,omitempty"`
	Points    []PointSelector `json:"points,omitempty"`
	HoverMode Mode            `json:"hovermode,omitempty"`

	// Origin is set for events coming from a real pointer. Only such
	// events fire beforehover, hover and unhover notifications.
	Origin *Origin `json:"origin,omitempty"`
}

// PointSelector names one point to hover in array mode, either by number or
// by data values.
type PointSelector struct {
	CurveNumber int  `json:"curveNumber"`
	PointNumber *int `json:"pointNumber,omitempty"`
	XVal        any  `json:"xval,omitempty"`
	YVal        any  `json:"yval,omitempty"`
}

// Origin is the pointer position of a real event and the client box of the
// element it hit, which covers the subplot area.
type Origin struct {
	ClientX float64      `json:"clientX"`
	ClientY float64      `json:"clientY"`
	Target  surface.Rect `json:"target"`
}

// IsReal reports whether e came from a pointer.
func (e *Event) IsReal() bool { return e != nil && e.Origin != nil }

// =============================================================================
// Event Payloads
// =============================================================================

// BBox is a point's pixel box on the surface.
type BBox struct {
	X0 float64 `json:"x0"`
	X1 float64 `json:"x1"`
	Y0 float64 `json:"y0"`
	Y1 float64 `json:"y1"`
}

// EventPoint is the public projection of a hovered point.
type EventPoint struct {
	CurveNumber  int      `json:"curveNumber"`
	PointNumber  int      `json:"pointNumber"`
	PointNumbers []int    `json:"pointNumbers,omitempty"`
	TraceName    string   `json:"traceName,omitempty"`
	X            any      `json:"x,omitempty"`
	Y            any      `json:"y,omitempty"`
	Z            *float64 `json:"z,omitempty"`
	Text         string   `json:"text,omitempty"`
	ID           string   `json:"id,omitempty"`
	CustomData   any      `json:"customdata,omitempty"`
	XAxis        string   `json:"xaxis"`
	YAxis        string   `json:"yaxis"`
	BBox         *BBox    `json:"bbox,omitempty"`
}

// HoverEventData is the payload of a hover notification.
type HoverEventData struct {
	Event  Event        `json:"event"`
	Points []EventPoint `json:"points"`
	XAxes  []string     `json:"xaxes"`
	YAxes  []string     `json:"yaxes"`
	XVals  []float64    `json:"xvals,omitempty"`
	YVals  []float64    `json:"yvals,omitempty"`
}

// UnhoverEventData is the payload of an unhover notification.
type UnhoverEventData struct {
	Event  Event        `json:"event"`
	Points []EventPoint `json:"points"`
}

// hoverChanged compares point identities only; coordinates may drift while
// the same points stay hovered.
func hoverChanged(old, cur []EventPoint) bool {
	if old == nil || len(old) != len(cur) {
		return true
	}
	for i := len(old) - 1; i >= 0; i-- {
		o, n := old[i], cur[i]
		if o.CurveNumber != n.CurveNumber || o.PointNumber != n.PointNumber ||
			fmt.Sprint(o.PointNumbers) != fmt.Sprint(n.PointNumbers) {
			return true
		}
	}
	return false
}

// =============================================================================
// Emitter
// =============================================================================

// EventKind names a notification.
type EventKind string

const (
	// EventBeforeHover fires with the Event before a real hover searches.
	// Any handler returning false cancels the cycle.
	EventBeforeHover EventKind = "beforehover"
	// EventHover fires with HoverEventData when the hovered points change.
	EventHover EventKind = "hover"
	// EventUnhover fires with UnhoverEventData when hovered points go away.
	EventUnhover EventKind = "unhover"
	// EventBeforeUnhover fires with the Event before a real unhover clears
	// anything. Any handler returning false cancels it.
	EventBeforeUnhover EventKind = "beforeunhover"
)

// Handler receives a notification payload. The return value only matters
// for cancelable kinds.
type Handler func(payload any) bool

// Emitter dispatches notifications to subscribers in subscription order.
// Handlers run on the goroutine of the hover cycle and must not start
// another cycle on the same plot synchronously.
type Emitter struct {
	mu       sync.RWMutex
	next     int
	handlers map[EventKind][]subscription
}

type subscription struct {
	id int
	fn Handler
}

// NewEmitter creates an empty emitter.
func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[EventKind][]subscription)}
}

// Subscribe registers fn for kind and returns a function that removes it.
func (e *Emitter) Subscribe(kind EventKind, fn Handler) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	id := e.next
	e.handlers[kind] = append(e.handlers[kind], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			subs := e.handlers[kind]
			for i, s := range subs {
				if s.id == id {
					e.handlers[kind] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Emit calls every handler of kind and reports false if any returned false.
func (e *Emitter) Emit(kind EventKind, payload any) bool {
	e.mu.RLock()
	subs := append([]subscription(nil), e.handlers[kind]...)
	e.mu.RUnlock()

	ok := true
	for _, s := range subs {
		if !s.fn(payload) {
			ok = false
		}
	}
	return ok
}

// Len reports how many handlers kind has.
func (e *Emitter) Len(kind EventKind) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers[kind])
}
