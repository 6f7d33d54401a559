// Package ws is the gorilla WebSocket transport: upgrade an HTTP
// connection, run the join handshake, then read frames into the
// router.Router and write frames back directly through a mutex-guarded
// sender. Grounded on the teacher's internal/net/ws/handler.go (the
// upgrade-then-read-loop shape, discarding malformed frames rather than
// closing the connection, tearing the session down and force-broadcasting
// on any read/write error) and session.go (wrapping the hub behind a
// narrow interface so the transport never imports the simulation
// package directly).
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"skyfleet/server/internal/net/proto"
	"skyfleet/server/internal/net/router"
	"skyfleet/server/internal/net/session"
	"skyfleet/server/internal/telemetry"
)

// writeWait bounds how long a single frame write may block before the
// connection is treated as a slow consumer and dropped.
const writeWait = 5 * time.Second

// connSender adapts a *websocket.Conn to broadcast.Sender. gorilla
// connections do not allow concurrent writers, so every write — whether
// from the read loop or a tick-driven broadcast goroutine — is
// serialized through mu.
type connSender struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *connSender) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *connSender) close(code int, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, reason)
	c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	c.conn.Close()
}

// Handler upgrades HTTP connections to WebSocket and drives each one's
// read loop.
type Handler struct {
	Sessions *session.Manager
	Router   *router.Router
	Logger   telemetry.Logger

	upgrader websocket.Upgrader
}

// NewHandler constructs a Handler bound to sessions and router. logger
// may be nil, in which case the standard library's default logger is
// wrapped.
func NewHandler(sessions *session.Manager, r *router.Router, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		Sessions: sessions,
		Router:   r,
		Logger:   telemetry.WrapLogger(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request, then blocks reading frames until the
// connection closes or the join handshake fails. mapID is taken from the
// `mapId` query parameter, matching the teacher's query-parameter-based
// session addressing (its own handler reads `id` the same way).
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mapID := r.URL.Query().Get("mapId")
	if mapID == "" {
		http.Error(w, "missing mapId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Printf("ws: upgrade failed: %v", err)
		return
	}
	sender := &connSender{conn: conn}

	_, payload, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return
	}

	var join proto.Join
	if err := json.Unmarshal(payload, &join); err != nil {
		sender.close(websocket.CloseInvalidFramePayloadData, "malformed join")
		return
	}

	welcome, err := h.Sessions.Join(r.Context(), mapID, join, sender)
	if err != nil {
		sender.close(websocket.ClosePolicyViolation, "join rejected")
		return
	}

	data, err := proto.EncodeWelcome(welcome)
	if err != nil {
		h.Logger.Printf("ws: failed to encode welcome for %s: %v", join.ClientID, err)
		sender.close(websocket.CloseInternalServerErr, "internal error")
		return
	}
	if err := sender.Send(data); err != nil {
		h.Sessions.Disconnect(r.Context(), join.ClientID, "write_failed")
		conn.Close()
		return
	}

	h.readLoop(conn, join.ClientID)
}

func (h *Handler) readLoop(conn *websocket.Conn, clientID string) {
	ctx := context.Background()
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.Sessions.Disconnect(ctx, clientID, "connection_closed")
			return
		}

		if err := h.Router.Dispatch(ctx, clientID, payload); err != nil {
			h.Logger.Printf("ws: dispatch error for %s: %v", clientID, err)
		}
	}
}
