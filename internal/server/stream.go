package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/hoverfx/pkg/figure"
	"github.com/matzehuels/hoverfx/pkg/fx"
	"github.com/matzehuels/hoverfx/pkg/surface"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 64
)

// Stream message types.
const (
	msgHover   = "hover"
	msgUnhover = "unhover"
	msgError   = "error"
)

// streamMessage is the envelope of every stream message. Clients send
// Event; the server replies with Data or Error.
type streamMessage struct {
	Type  string    `json:"type"`
	Event *fx.Event `json:"event,omitempty"`
	Data  any       `json:"data,omitempty"`
	Error string    `json:"error,omitempty"`
}

// streamClient is one WebSocket connection hovering one plot.
type streamClient struct {
	id     string
	conn   *websocket.Conn
	plot   *fx.Plot
	send   chan []byte
	logger *log.Logger
}

// handleStream upgrades to a WebSocket and hovers the figure with every
// pointer event received. Hover cycles go through the plot throttle, so a
// burst of events produces at most one notification per interval.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	_, doc, err := s.loadFigure(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	clientID := uuid.NewString()
	plot, err := figure.Build(doc,
		fx.WithLogger(s.logger),
		fx.WithScheduler(s.sched),
		fx.WithUID(clientID))
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.originPatterns(),
	})
	if err != nil {
		s.logger.Warn("websocket accept", "err", err)
		return
	}

	c := &streamClient{
		id:     clientID,
		conn:   conn,
		plot:   plot,
		send:   make(chan []byte, sendBuffer),
		logger: s.logger.With("client", clientID, "figure", doc.ID),
	}
	unsubHover := plot.OnHover(func(d fx.HoverEventData) { c.push(streamMessage{Type: msgHover, Data: d}) })
	unsubUnhover := plot.OnUnhover(func(d fx.UnhoverEventData) { c.push(streamMessage{Type: msgUnhover, Data: d}) })
	defer func() {
		unsubHover()
		unsubUnhover()
		plot.Unhover(nil)
	}()

	c.logger.Debug("stream opened")
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go c.writePump(ctx)
	c.readPump(ctx)
	c.logger.Debug("stream closed")
}

func (c *streamClient) readPump(ctx context.Context) {
	defer c.conn.Close(websocket.StatusNormalClosure, "")
	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				c.logger.Debug("read error", "err", err)
			}
			return
		}

		var msg streamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.push(streamMessage{Type: msgError, Error: "invalid message: " + err.Error()})
			continue
		}
		c.handle(msg)
	}
}

func (c *streamClient) handle(msg streamMessage) {
	var evt fx.Event
	if msg.Event != nil {
		evt = *msg.Event
	}
	switch msg.Type {
	case msgHover:
		if evt.HoverMode != "" && !evt.HoverMode.Valid() {
			c.push(streamMessage{Type: msgError, Error: "unsupported hover mode " + string(evt.HoverMode)})
			return
		}
		c.plot.Hover(pointerEvent(c.plot, evt))
	case msgUnhover:
		if evt.Origin == nil {
			evt.Origin = &fx.Origin{}
		}
		c.plot.Unhover(&evt)
	default:
		c.push(streamMessage{Type: msgError, Error: "unknown message type " + msg.Type})
	}
}

// pointerEvent makes evt a pointer event so the plot sends notifications.
// Events without an origin get one over the first subplot, placed at their
// pixel position or at its center.
func pointerEvent(p *fx.Plot, evt fx.Event) fx.Event {
	if evt.Origin != nil || len(evt.Points) > 0 {
		return evt
	}
	subplots := p.Subplots()
	if len(subplots) == 0 || subplots[0].XAxis == nil || subplots[0].YAxis == nil {
		return evt
	}
	xa, ya := subplots[0].XAxis, subplots[0].YAxis
	target := surface.Rect{X: xa.Offset, Y: ya.Offset, W: xa.Length, H: ya.Length}
	xpx, ypx := target.W/2, target.H/2
	if evt.XPx != nil {
		xpx = *evt.XPx
	}
	if evt.YPx != nil {
		ypx = *evt.YPx
	}
	evt.XPx, evt.YPx = nil, nil
	evt.Origin = &fx.Origin{ClientX: target.X + xpx, ClientY: target.Y + ypx, Target: target}
	return evt
}

func (c *streamClient) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				c.logger.Debug("write error", "err", err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// push queues msg for the write pump, dropping it when the client lags.
func (c *streamClient) push(msg streamMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("marshal message", "err", err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping message", "type", msg.Type)
	}
}
