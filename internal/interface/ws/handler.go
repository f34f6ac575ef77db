// Package ws serves the WebSocket endpoint. Every inbound message is logged
// and answered with a fixed acknowledgment.
package ws

import (
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Reply is sent back for every inbound message.
const Reply = "Pong from Bun WebSockets"

const closeGrace = time.Second

type Handler struct {
	Logger *logrus.Logger

	upgrader  websocket.Upgrader
	readLimit int64
	origins   []string

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewHandler builds a Handler. Same-origin upgrades are always accepted;
// cross-origin ones only from allowedOrigins, or from anywhere when the
// list is empty.
func NewHandler(logger *logrus.Logger, readLimit int64, allowedOrigins []string) *Handler {
	h := &Handler{
		Logger:    logger,
		readLimit: readLimit,
		origins:   allowedOrigins,
		conns:     make(map[*websocket.Conn]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.origins) == 0 {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return slices.Contains(h.origins, origin)
}

// Middleware upgrades WebSocket handshakes on any path and passes every
// other request down the chain.
func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !websocket.IsWebSocketUpgrade(c.Request) {
			c.Next()
			return
		}
		h.Serve(c)
		c.Abort()
	}
}

// Serve upgrades the request and runs the read loop until the peer goes away.
func (h *Handler) Serve(c *gin.Context) {
	remote := c.GetString("real_ip")
	if remote == "" {
		remote = c.ClientIP()
	}
	log := h.Logger.WithFields(logrus.Fields{"remote": remote, "request_id": c.GetString("request_id")})

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already replied with an HTTP error
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	h.track(conn)
	defer h.untrack(conn)

	log.Debug("websocket connected")
	h.readLoop(conn, log)
	log.Debug("websocket disconnected")
}

func (h *Handler) readLoop(conn *websocket.Conn, log *logrus.Entry) {
	if h.readLimit > 0 {
		conn.SetReadLimit(h.readLimit)
	}
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			switch {
			case errors.Is(err, websocket.ErrReadLimit):
				log.WithField("limit", h.readLimit).Warn("websocket message over read limit")
			case websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
				log.WithError(err).Warn("websocket read failed")
			}
			return
		}
		log.Infof("Received: %s", msg)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(Reply)); err != nil {
			log.WithError(err).Warn("websocket write failed")
			return
		}
	}
}

func (h *Handler) track(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Handler) untrack(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Active returns the number of open connections.
func (h *Handler) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// CloseAll sends a going-away close frame to every open connection.
// Read loops then exit on their own.
func (h *Handler) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn := range h.conns {
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
	}
}
