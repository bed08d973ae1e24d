package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wolfman30/scambait/pkg/logging"
)

const (
	liveSendBuffer   = 32
	liveWriteTimeout = 5 * time.Second
)

// LiveHub pushes every record as JSON to connected dashboard websockets.
// Clients that fall behind are disconnected rather than slowing appends.
type LiveHub struct {
	mu       sync.Mutex
	clients  map[*liveClient]struct{}
	upgrader websocket.Upgrader
	logger   *logging.Logger
}

type liveClient struct {
	conn *websocket.Conn
	send chan []byte
}

// NewLiveHub creates a hub. An empty allowedOrigins accepts any origin.
func NewLiveHub(logger *logging.Logger, allowedOrigins []string) *LiveHub {
	if logger == nil {
		logger = logging.Default()
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimSpace(o)] = true
	}
	return &LiveHub{
		clients: make(map[*liveClient]struct{}),
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// ServeHTTP upgrades the request and streams records until the client
// goes away.
func (h *LiveHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("live feed upgrade failed", "error", err)
		return
	}
	c := &liveClient{conn: conn, send: make(chan []byte, liveSendBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("live feed client connected", "remote_addr", r.RemoteAddr)

	go h.writeLoop(c)

	// Inbound frames are ignored; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
}

func (h *LiveHub) writeLoop(c *liveClient) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(c)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func (h *LiveHub) remove(c *liveClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *LiveHub) Append(_ context.Context, rec Record) error {
	data, err := json.Marshal(liveEvent{Type: "turn", Record: rec})
	if err != nil {
		return fmt.Errorf("analytics: marshal live record: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			close(c.send)
			h.logger.Warn("dropping slow live feed client")
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *LiveHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *LiveHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

type liveEvent struct {
	Type   string `json:"type"`
	Record Record `json:"record"`
}
