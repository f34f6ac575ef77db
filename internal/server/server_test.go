package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minerdev/codenames-api/config"
	"github.com/minerdev/codenames-api/internal/container"
	"github.com/minerdev/codenames-api/internal/interface/ws"
	"github.com/minerdev/codenames-api/internal/router"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Load()
	cfg.Port = "0"
	return cfg
}

func startServer(t *testing.T, cfg *config.Config) (*Server, *test.Hook, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	srv, err := New(container.New(cfg, logger))
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	_, port, err := net.SplitHostPort(srv.Addr().String())
	require.NoError(t, err)
	return srv, hook, "http://127.0.0.1:" + port
}

func fetch(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func hasEntry(hook *test.Hook, prefix string) bool {
	for _, e := range hook.AllEntries() {
		if strings.HasPrefix(e.Message, prefix) {
			return true
		}
	}
	return false
}

func TestEndpoints(t *testing.T) {
	_, hook, base := startServer(t, newTestConfig(t))
	assert.True(t, hasEntry(hook, "🚀 Gin running on http://localhost:"))

	resp, body := fetch(t, base+"/user")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"id":"1","name":"MinerDev"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, body = fetch(t, base+"/doc")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var doc struct {
		Info  map[string]string         `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, map[string]string{"title": "Codenames API", "version": "1.0.0"}, doc.Info)
	require.Len(t, doc.Paths, 1)
	assert.Contains(t, doc.Paths["/user"], "get")

	resp, _ = fetch(t, base+"/ui")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	resp, body = fetch(t, base+"/nonexistent")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "NotFoundError")
}

func TestTrailingSlashIsNotRedirected(t *testing.T) {
	_, _, base := startServer(t, newTestConfig(t))

	for _, path := range []string{"/user/", "/doc/"} {
		resp, body := fetch(t, base+path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Contains(t, string(body), "NotFoundError", path)
	}
}

func TestWebSocketSameOriginWithAllowList(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.CORSAllowedOrigins = "http://allowed.test"
	_, _, base := startServer(t, cfg)
	url := "ws" + strings.TrimPrefix(base, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.test"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {base}})
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, ws.Reply, string(msg))
}

func TestWebSocketScenario(t *testing.T) {
	_, hook, base := startServer(t, newTestConfig(t))

	for _, path := range []string{"/ws", "/"} {
		conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(base, "http")+path, nil)
		require.NoError(t, err)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, ws.Reply, string(msg))
		_ = conn.Close()
	}
	assert.True(t, hasEntry(hook, "Received: hello"))
}

func TestShutdownClosesSockets(t *testing.T) {
	srv, _, base := startServer(t, newTestConfig(t))

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(base, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hi")))
	_, _, err = conn.ReadMessage()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)

	select {
	case err := <-srv.Done():
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve loop did not stop")
	}
}

func TestStartBindError(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := newTestConfig(t)
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	cfg.Port = port

	logger, _ := test.NewNullLogger()
	srv, err := New(container.New(cfg, logger))
	require.NoError(t, err)

	err = srv.Start()
	var berr *ListenerBindError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, ":"+port, berr.Addr)
	assert.Nil(t, srv.Addr())
}

func TestNewRejectsBadPaths(t *testing.T) {
	logger, _ := test.NewNullLogger()

	for name, mutate := range map[string]func(*config.Config){
		"relative": func(c *config.Config) { c.DocPath = "doc" },
		"collide":  func(c *config.Config) { c.UIPath = c.DocPath },
		"user":     func(c *config.Config) { c.WSPath = "/user" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := newTestConfig(t)
			mutate(cfg)
			_, err := New(container.New(cfg, logger))
			var cerr *router.ConfigurationError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestDescribedRoutes(t *testing.T) {
	logger, _ := test.NewNullLogger()
	srv, err := New(container.New(newTestConfig(t), logger))
	require.NoError(t, err)

	routes := srv.Registry().Routes()
	require.Len(t, routes, 1)
	assert.Equal(t, http.MethodGet, routes[0].Method)
	assert.Equal(t, "/user", routes[0].Path)
	assert.NotNil(t, srv.Handler())
}
