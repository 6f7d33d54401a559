package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/websocket"

	"skyfleet/server/internal/app"
	"skyfleet/server/internal/config"
	"skyfleet/server/internal/net/proto"
	"skyfleet/server/internal/net/router"
	"skyfleet/server/internal/net/session"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	a := app.New(nil)
	if _, err := a.AddMap(app.MapSpec{ID: "map-1", Config: config.Default()}); err != nil {
		t.Fatalf("unexpected error registering map: %v", err)
	}
	mgr := session.NewManager(a, a.PlayerStore, a.TokenVerify, a.Publisher)
	r := router.New()
	session.RegisterHandlers(r, mgr)
	return NewHandler(mgr, r, nil)
}

func wsURL(t *testing.T, baseURL, mapID string) string {
	t.Helper()
	parsed, err := url.Parse(baseURL)
	if err != nil {
		t.Fatalf("failed to parse test server url: %v", err)
	}
	parsed.Scheme = "ws"
	query := parsed.Query()
	query.Set("mapId", mapID)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func TestServeHTTPCompletesJoinHandshake(t *testing.T) {
	handler := newTestHandler(t)
	srv := httptest.NewServer(http.HandlerFunc(handler.ServeHTTP))
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(t, srv.URL, "map-1"), nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to dial test server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	join := proto.Join{ClientID: "p1", AuthToken: "user-1"}
	payload, err := json.Marshal(join)
	if err != nil {
		t.Fatalf("failed to marshal join: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		t.Fatalf("failed to write join frame: %v", err)
	}

	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read welcome frame: %v", err)
	}

	var welcome proto.Welcome
	if err := json.Unmarshal(raw, &welcome); err != nil {
		t.Fatalf("failed to decode welcome frame: %v", err)
	}
	if welcome.ClientID != "p1" || welcome.MapID != "map-1" {
		t.Fatalf("unexpected welcome: %+v", welcome)
	}
}

func TestServeHTTPRejectsMissingMapParam(t *testing.T) {
	handler := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a missing map param, got %d", rec.Code)
	}
}

func TestServeHTTPRejectsUnknownMap(t *testing.T) {
	handler := newTestHandler(t)
	srv := httptest.NewServer(http.HandlerFunc(handler.ServeHTTP))
	t.Cleanup(srv.Close)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(t, srv.URL, "no-such-map"), nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		t.Fatalf("failed to dial test server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	join := proto.Join{ClientID: "p1", AuthToken: "user-1"}
	payload, _ := json.Marshal(join)
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		t.Fatalf("failed to write join frame: %v", err)
	}

	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected the server to close the connection after a rejected join")
	}
}
