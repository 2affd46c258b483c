package http

import (
	"context"
	"encoding/json"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/estlcameo/backend/internal/application/session"
	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/estlcameo/backend/internal/infrastructure/singleton"
	"github.com/estlcameo/backend/internal/infrastructure/websocket"
	"github.com/estlcameo/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCoordinator struct{}

func (stubCoordinator) Status() session.Status { return session.Status{Cursor: -1} }
func (stubCoordinator) Bind(context.Context, string) error { return nil }
func (stubCoordinator) Unbind(context.Context) (string, error) { return "", nil }
func (stubCoordinator) ListSnapshots() []snapshot.Record { return nil }
func (stubCoordinator) Undo(context.Context) (bool, error) { return false, snapshot.ErrNoTrackedFile }
func (stubCoordinator) Redo(context.Context) (bool, error) { return false, snapshot.ErrNoTrackedFile }
func (stubCoordinator) OpenFolder(context.Context) (string, error) { return "", snapshot.ErrNoTrackedFile }
func (stubCoordinator) RestoreAsCopy(context.Context, string) (string, error) {
	return "", snapshot.ErrNoTrackedFile
}
func (stubCoordinator) CreateSnapshot(context.Context, string) (snapshot.Record, error) {
	return snapshot.Record{}, snapshot.ErrNoTrackedFile
}

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	hub := websocket.NewHub()
	coord := stubCoordinator{}
	return NewServer(
		&cfg.Server,
		handler.NewSessionHandler(coord),
		handler.NewSnapshotHandler(coord, nil),
		handler.NewHostHandler(nil),
		handler.NewNotificationHandler(nil),
		handler.NewWebSocketHandler(hub, &cfg.WebSocket),
		nil,
	)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, singleton.HealthPath, nil))

	require.Equal(t, nethttp.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, singleton.ServiceName, body["service"])
}

func TestServer_RequestID(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(nethttp.MethodGet, "/api/v1/session/status", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(nethttp.MethodGet, "/api/v1/session/status", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{nethttp.MethodGet, "/api/v1/session/status", nethttp.StatusOK},
		{nethttp.MethodGet, "/api/v1/snapshots", nethttp.StatusOK},
		{nethttp.MethodPost, "/api/v1/snapshots/undo", nethttp.StatusConflict},
		{nethttp.MethodPost, "/api/v1/snapshots/open-folder", nethttp.StatusConflict},
		{nethttp.MethodGet, "/api/v1/host/resolve", nethttp.StatusBadRequest},
		{nethttp.MethodGet, "/api/v1/notifications?limit=0", nethttp.StatusBadRequest},
		{nethttp.MethodGet, "/api/v1/unknown", nethttp.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestServer_ServeAndStop(t *testing.T) {
	srv := newTestServer(t)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(listener) }()

	url := "http://" + listener.Addr().String() + singleton.HealthPath
	require.Eventually(t, func() bool {
		resp, err := nethttp.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == nethttp.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, srv.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
