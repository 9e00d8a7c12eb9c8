package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gorilla/websocket"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"campground-nav-service/internal/adapters/location"
	"campground-nav-service/internal/api/dto"
	"campground-nav-service/internal/config"
	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/events"
	"campground-nav-service/internal/ports"
	"campground-nav-service/internal/services"
)

const (
	startFrameWait = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	writeWait      = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Clients are the campground app's webviews; the API carries no
	// cookies, so cross-origin upgrades are fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NavigateHandler runs live navigation sessions over a websocket. The
// client opens with a start frame and streams position frames; the server
// answers with the computed route and pushes progress and event frames.
type NavigateHandler struct {
	Provider ports.RouteProvider
	Bus      *events.Bus
	Cfg      config.AppConfig
	Logger   *zap.Logger
}

func (h *NavigateHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	start, ok := h.readStartFrame(conn)
	if !ok {
		return
	}

	startPoint, ok := pointFrom(start.Start)
	if !ok {
		h.closeWithError(conn, "start must be valid coordinates")
		return
	}
	dest, ok := pointFrom(start.Destination)
	if !ok {
		h.closeWithError(conn, "destination must be valid coordinates")
		return
	}

	if start.Site != "" {
		if _, known := h.Cfg.Site(start.Site); !known {
			h.closeWithError(conn, "unknown site")
			return
		}
	}

	mode, ok := h.resolveMode(start)
	if !ok {
		h.closeWithError(conn, "mode must be walking, cycling or driving")
		return
	}

	simulated := false
	switch start.Source {
	case "", "gps":
	case "simulated":
		simulated = true
	default:
		h.closeWithError(conn, `source must be "gps" or "simulated"`)
		return
	}

	route, err := h.Provider.CalculateRoute(r.Context(), startPoint, dest, mode)
	if err != nil {
		h.Logger.Error("navigate: initial route failed", zap.Error(err))
		h.closeWithError(conn, "could not compute a route")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Subscriptions open before the session starts so no frame is missed.
	progressCh, err := h.Bus.Subscribe(ctx, events.TopicProgress)
	if err != nil {
		h.Logger.Error("navigate: subscribe progress", zap.Error(err))
		h.closeWithError(conn, "internal error")
		return
	}
	eventCh, err := h.Bus.Subscribe(ctx, events.TopicEvents)
	if err != nil {
		h.Logger.Error("navigate: subscribe events", zap.Error(err))
		h.closeWithError(conn, "internal error")
		return
	}

	var source ports.PositionSource
	var pushSource *location.ChannelSource
	if simulated {
		source = location.NewSimulatedSource(
			route.Geometry,
			h.Cfg.Simulator.SpeedMps,
			time.Duration(h.Cfg.Simulator.IntervalSeconds*float64(time.Second)),
		)
	} else {
		pushSource = location.NewChannelSource(true, 16)
		source = pushSource
	}

	session, err := services.StartNavigationSession(ctx, services.SessionConfig{
		Route:       route,
		Destination: &dest,
		Mode:        mode,
	}, source, h.Provider, h.Bus, h.Logger)
	if err != nil {
		h.Logger.Error("navigate: start session", zap.Error(err))
		h.closeWithError(conn, "internal error")
		return
	}
	defer session.Stop()

	if err := h.writeFrame(conn, dto.RouteFrame{Type: dto.FrameRoute, Route: routeResponse(route)}); err != nil {
		return
	}

	// Single writer goroutine; gorilla allows one concurrent writer.
	writerDone := make(chan struct{})
	go h.writePump(ctx, conn, session, progressCh, eventCh, writerDone)

	h.readPump(conn, pushSource)

	cancel()
	<-writerDone
}

func (h *NavigateHandler) readStartFrame(conn *websocket.Conn) (dto.StartFrame, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(startFrameWait))

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return dto.StartFrame{}, false
	}

	var envelope dto.Frame
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Type != dto.FrameStart {
		h.closeWithError(conn, "first frame must have type \"start\"")
		return dto.StartFrame{}, false
	}

	var start dto.StartFrame
	if err := json.Unmarshal(raw, &start); err != nil {
		h.closeWithError(conn, "invalid start frame")
		return dto.StartFrame{}, false
	}
	return start, true
}

func (h *NavigateHandler) resolveMode(start dto.StartFrame) (domain.TravelMode, bool) {
	if start.Mode != "" {
		mode, err := domain.ParseTravelMode(start.Mode)
		if err != nil {
			return "", false
		}
		return mode, true
	}
	if start.Site != "" {
		if site, ok := h.Cfg.Site(start.Site); ok {
			return site.Mode(), true
		}
	}
	return domain.ModeWalking, true
}

// readPump consumes client frames until the connection drops. Position
// frames feed the session's source; everything else is ignored.
func (h *NavigateHandler) readPump(conn *websocket.Conn, pushSource *location.ChannelSource) {
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if pushSource != nil {
				pushSource.Close()
			}
			return
		}

		var envelope dto.Frame
		if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Type != dto.FramePosition {
			continue
		}
		if pushSource == nil {
			continue
		}

		var frame dto.PositionFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}

		pos := domain.Position{
			Point:    orb.Point{frame.Lng, frame.Lat},
			Time:     time.Now(),
			Accuracy: frame.Accuracy,
		}
		if frame.Timestamp > 0 {
			pos.Time = time.UnixMilli(frame.Timestamp)
		}

		if !pushSource.Push(pos) {
			h.Logger.Warn("navigate: position dropped, client sending faster than the session drains")
		}
	}
}

// writePump forwards this session's bus frames to the client and keeps the
// connection alive with pings.
func (h *NavigateHandler) writePump(
	ctx context.Context,
	conn *websocket.Conn,
	session *services.NavigationSession,
	progressCh, eventCh <-chan *message.Message,
	done chan<- struct{},
) {
	defer close(done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-progressCh:
			if !ok {
				return
			}
			h.forward(conn, session.ID(), dto.FrameProgress, msg)

		case msg, ok := <-eventCh:
			if !ok {
				return
			}
			h.forward(conn, session.ID(), dto.FrameEvent, msg)

		case <-session.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
				time.Now().Add(writeWait))
			return

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// forward relays one bus message if it belongs to this session. The bus
// carries every session's frames; each socket filters by session id.
func (h *NavigateHandler) forward(conn *websocket.Conn, sessionID, frameType string, msg *message.Message) {
	defer msg.Ack()

	var envelope struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil || envelope.SessionID != sessionID {
		return
	}

	_ = h.writeFrame(conn, dto.BusFrame{Type: frameType, Payload: json.RawMessage(msg.Payload)})
}

func (h *NavigateHandler) writeFrame(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func (h *NavigateHandler) closeWithError(conn *websocket.Conn, msg string) {
	_ = h.writeFrame(conn, dto.ErrorFrame{Type: dto.FrameError, Error: msg})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, msg),
		time.Now().Add(writeWait))
}
