package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roksva123/go-bizadmin-backend/internal/events"
	"github.com/roksva123/go-bizadmin-backend/internal/model"
)

func TestEventsHandler_Stream(t *testing.T) {
	hub := events.NewHub(4)

	r := gin.New()
	r.GET("/events", NewEventsHandler(hub, []string{"*"}, zap.NewNop()).Stream)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events?collections=payments"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(events.Event{Collection: events.CollectionEmployees, Action: events.ActionCreated, ID: "e1"})
	hub.Publish(events.Event{Collection: events.CollectionPayments, Action: events.ActionCreated, ID: "p1"})

	var got events.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&got))

	assert.Equal(t, events.CollectionPayments, got.Collection)
	assert.Equal(t, "p1", got.ID)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestEventsHandler_UnknownCollection(t *testing.T) {
	r := gin.New()
	r.GET("/events", NewEventsHandler(events.NewHub(1), nil, zap.NewNop()).Stream)

	w, resp := do(t, r, http.MethodGet, "/events?collections=payments,salaries", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Incorrect value for parameter: collections", resp.ApiMessage)
}

func TestEventsHandler_RejectsForeignOrigin(t *testing.T) {
	r := gin.New()
	r.GET("/events", NewEventsHandler(events.NewHub(1), []string{"https://admin.example.com"}, zap.NewNop()).Stream)

	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.example.com"}})

	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

type revokedTokens map[string]bool

func (r revokedTokens) Revoked(tokenID string) bool { return r[tokenID] }

// streamServer serves Stream behind the test auth middleware.
func streamServer(t *testing.T, hub *events.Hub, configure func(*EventsHandler)) *httptest.Server {
	t.Helper()

	h := NewEventsHandler(hub, []string{"*"}, zap.NewNop())
	if configure != nil {
		configure(h)
	}

	r := newEngine()
	r.GET("/events", h.Stream)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

func dialStream(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events?access_token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestEventsHandler_AadharMaskedForViewers(t *testing.T) {
	tests := []struct {
		desc   string
		token  string
		aadhar string
	}{
		{"viewer", "viewer", "XXXX XXXX 9012"},
		{"admin", "admin", "123456789012"},
	}

	for i, tc := range tests {
		hub := events.NewHub(4)
		conn := dialStream(t, streamServer(t, hub, nil), tc.token)

		require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

		emp := &model.Employee{ID: "emp01", Name: "Asha Verma", AadharID: "123456789012"}
		hub.Publish(events.Event{Collection: events.CollectionEmployees, Action: events.ActionCreated, ID: "emp01", Data: emp})

		var got struct {
			Data map[string]interface{} `json:"data"`
		}
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, conn.ReadJSON(&got), "TEST[%d], failed.\n%s", i, tc.desc)

		assert.Equal(t, tc.aadhar, got.Data["aadhar_id"], "TEST[%d], failed.\n%s", i, tc.desc)
		assert.Equal(t, "123456789012", emp.AadharID, "TEST[%d], failed.\n%s", i, tc.desc)
	}
}

func TestMaskEvent(t *testing.T) {
	relayed := map[string]interface{}{"id": "emp01", "aadhar_id": "123456789012"}

	tests := []struct {
		desc string
		in   events.Event
		want interface{}
	}{
		{"local employee", events.Event{Collection: events.CollectionEmployees, Data: &model.Employee{AadharID: "123456789012"}},
			&model.Employee{AadharID: "XXXX XXXX 9012"}},
		{"relayed employee", events.Event{Collection: events.CollectionEmployees, Data: relayed},
			map[string]interface{}{"id": "emp01", "aadhar_id": "XXXX XXXX 9012"}},
		{"deleted employee", events.Event{Collection: events.CollectionEmployees}, nil},
		{"payment untouched", events.Event{Collection: events.CollectionPayments, Data: relayed}, relayed},
	}

	for i, tc := range tests {
		assert.Equal(t, tc.want, maskEvent(tc.in).Data, "TEST[%d], failed.\n%s", i, tc.desc)
	}

	assert.Equal(t, "123456789012", relayed["aadhar_id"])
}

func TestEventsHandler_ClosesExpiredSession(t *testing.T) {
	conn := dialStream(t, streamServer(t, events.NewHub(1), nil), "short")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()

	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "unexpected error: %v", err)
}

func TestEventsHandler_ClosesRevokedSession(t *testing.T) {
	srv := streamServer(t, events.NewHub(1), func(h *EventsHandler) {
		h.Revocations = revokedTokens{"t2": true}
		h.PingPeriod = 20 * time.Millisecond
	})

	revoked := dialStream(t, srv, "viewer")

	require.NoError(t, revoked.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := revoked.ReadMessage()

	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), "unexpected error: %v", err)
}
