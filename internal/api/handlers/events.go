package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/api/middleware"
	"github.com/roksva123/go-bizadmin-backend/internal/apperror"
	"github.com/roksva123/go-bizadmin-backend/internal/events"
	"github.com/roksva123/go-bizadmin-backend/internal/format"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var knownCollections = map[string]bool{
	events.CollectionEmployees:  true,
	events.CollectionAttendance: true,
	events.CollectionPayments:   true,
}

// Subscriber hands out live event feeds.
type Subscriber interface {
	Subscribe(collections ...string) (<-chan events.Event, func())
}

// RevocationChecker reports whether a session token was signed out.
type RevocationChecker interface {
	Revoked(tokenID string) bool
}

type EventsHandler struct {
	Hub    Subscriber
	Logger *zap.Logger
	// Revocations, when set, is consulted on every ping so a signed out
	// session loses its stream.
	Revocations RevocationChecker
	PingPeriod  time.Duration
	upgrader    websocket.Upgrader
}

// NewEventsHandler accepts upgrades from the given origins; "*" allows any.
func NewEventsHandler(hub Subscriber, origins []string, logger *zap.Logger) *EventsHandler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return &EventsHandler{
		Hub:        hub,
		Logger:     logger,
		PingPeriod: pingPeriod,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Stream upgrades to a WebSocket and writes one JSON message per change in
// the collections named by ?collections= (all when empty).
func (h *EventsHandler) Stream(c *gin.Context) {
	collections := splitList(c.Query("collections"))
	for _, name := range collections {
		if !knownCollections[name] {
			fail(c, h.Logger, apperror.InvalidParam{Param: []string{"collections"}})
			return
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	session := middleware.SessionFrom(c)
	admin := session != nil && session.IsAdmin()

	feed, cancel := h.Hub.Subscribe(collections...)
	defer cancel()

	// The client never sends data; reading only detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var expired <-chan time.Time
	if session != nil && !session.ExpiresAt.IsZero() {
		timer := time.NewTimer(time.Until(session.ExpiresAt))
		defer timer.Stop()
		expired = timer.C
	}

	ticker := time.NewTicker(h.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-expired:
			h.closeSession(conn, "session expired")
			return
		case ev, ok := <-feed:
			if !ok {
				return
			}
			if !admin {
				ev = maskEvent(ev)
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.Logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if h.revoked(session) {
				h.closeSession(conn, "session revoked")
				return
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *EventsHandler) revoked(s *service.Session) bool {
	return h.Revocations != nil && s != nil && h.Revocations.Revoked(s.TokenID)
}

func (h *EventsHandler) closeSession(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// maskEvent hides Aadhar numbers in employee payloads. Local events carry
// *model.Employee; events relayed through Redis arrive as decoded JSON maps.
func maskEvent(ev events.Event) events.Event {
	if ev.Collection != events.CollectionEmployees {
		return ev
	}

	switch d := ev.Data.(type) {
	case *model.Employee:
		if d != nil {
			e := *d
			e.AadharID = format.MaskAadhar(e.AadharID)
			ev.Data = &e
		}
	case model.Employee:
		d.AadharID = format.MaskAadhar(d.AadharID)
		ev.Data = d
	case map[string]any:
		masked := make(map[string]any, len(d))
		for k, v := range d {
			masked[k] = v
		}
		if aadhar, ok := masked["aadhar_id"].(string); ok {
			masked["aadhar_id"] = format.MaskAadhar(aadhar)
		}
		ev.Data = masked
	}
	return ev
}
