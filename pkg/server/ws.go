package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"maestro/pkg/api"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS middleware on the rest of the
	// surface; the upgrade itself is token-gated.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SafeConn serializes writes to one websocket connection.
type SafeConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// WriteJSON sends one frame.
func (c *SafeConn) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(v)
}

// Close closes the underlying connection.
func (c *SafeConn) Close() error {
	return c.conn.Close()
}

// Hub tracks the open websocket sessions per user so loop progress can
// be streamed to every tab the user has open.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*SafeConn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]map[*SafeConn]struct{}),
	}
}

func (h *Hub) add(userID string, conn *SafeConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*SafeConn]struct{})
	}
	h.conns[userID][conn] = struct{}{}
}

func (h *Hub) remove(userID string, conn *SafeConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

// Send delivers an event to every session of one user. Dead connections
// are dropped.
func (h *Hub) Send(userID string, event api.LoopEvent) {
	h.mu.RLock()
	conns := make([]*SafeConn, 0, len(h.conns[userID]))
	for c := range h.conns[userID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteJSON(event); err != nil {
			slog.Debug("Dropping dead websocket session", "user", userID, "error", err)
			c.Close()
			h.remove(userID, c)
		}
	}
}

// CloseAll closes every session, used during shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.conns {
		for c := range conns {
			c.Close()
		}
		delete(h.conns, userID)
	}
}

// handleWS upgrades the connection and registers it for loop progress
// events until the client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	safe := &SafeConn{conn: conn}
	s.hub.add(claims.UserID, safe)
	slog.Info("🔌 WebSocket session opened", "user", claims.Username)

	defer func() {
		s.hub.remove(claims.UserID, safe)
		safe.Close()
		slog.Info("WebSocket session closed", "user", claims.Username)
	}()

	// Clients only receive; reads just detect disconnects and answer pings.
	conn.SetReadLimit(1024)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
