// Package webchat lets an operator play the scammer from a browser over a
// WebSocket, with an HTTP fallback for scripted clients.
package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/scambait/internal/engine"
	"github.com/wolfman30/scambait/internal/session"
	"github.com/wolfman30/scambait/pkg/logging"
)

const historyLimit = 50

// Responder is the part of the engine the chat needs.
type Responder interface {
	Respond(ctx context.Context, msg engine.Message) (engine.Reply, error)
	Snapshot(ctx context.Context, conversationID string) (session.Snapshot, error)
}

// Handler manages web chat connections and messages.
type Handler struct {
	engine Responder
	logger *logging.Logger

	mu       sync.RWMutex
	sessions map[string]*wsConn // conversationID -> active connection
}

type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(msg OutboundMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return websocket.JSON.Send(c.conn, msg)
}

// InboundMessage is what the browser sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send back.
type OutboundMessage struct {
	Type      string           `json:"type"` // "message", "typing", "history", "session", "pong", "error"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	Strategy  string           `json:"strategy,omitempty"`
	Turn      int              `json:"turn,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is one earlier scammer line.
type HistoryMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

func NewHandler(eng Responder, logger *logging.Logger) *Handler {
	if eng == nil {
		panic("webchat: engine cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		engine:   eng,
		logger:   logger,
		sessions: make(map[string]*wsConn),
	}
}

// ConversationID builds the engine conversation id for a chat session.
func ConversationID(sessionID string) string {
	return "webchat:" + sessionID
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and runs the chat loop.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" {
		sessionID = generateSessionID()
	}
	convID := ConversationID(sessionID)

	wsc := &wsConn{conn: conn}
	_ = wsc.send(OutboundMessage{Type: "session", SessionID: sessionID})
	if history := h.history(r.Context(), convID, historyLimit); len(history) > 0 {
		_ = wsc.send(OutboundMessage{Type: "history", Messages: history})
	}

	h.mu.Lock()
	h.sessions[convID] = wsc
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.sessions[convID] == wsc {
			delete(h.sessions, convID)
		}
		h.mu.Unlock()
	}()

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = wsc.send(OutboundMessage{Type: "pong"})
			continue
		}
		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		_ = wsc.send(OutboundMessage{Type: "typing"})
		out, err := h.processMessage(r.Context(), sessionID, msg.Text)
		if err != nil {
			_ = wsc.send(OutboundMessage{Type: "error", Text: "Sorry, something went wrong. Please try again."})
			continue
		}
		_ = wsc.send(out)
	}
}

func (h *Handler) processMessage(ctx context.Context, sessionID, text string) (OutboundMessage, error) {
	convID := ConversationID(sessionID)
	reply, err := h.engine.Respond(ctx, engine.Message{
		ConversationID: convID,
		Text:           text,
		From:           sessionID,
	})
	if err != nil {
		h.logger.Error("webchat: engine failed", "error", err, "session_id", sessionID)
		return OutboundMessage{}, err
	}
	return OutboundMessage{
		Type:      "message",
		Role:      "victim",
		Text:      reply.Text,
		Strategy:  string(reply.Strategy),
		Turn:      reply.Turn,
		SessionID: sessionID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// SendToSession pushes a message to an open chat, if there is one.
func (h *Handler) SendToSession(convID string, msg OutboundMessage) bool {
	h.mu.RLock()
	wsc, ok := h.sessions[convID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return wsc.send(msg) == nil
}

func (h *Handler) history(ctx context.Context, convID string, limit int) []HistoryMessage {
	snap, err := h.engine.Snapshot(ctx, convID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			h.logger.Warn("webchat: failed to load history", "conversation_id", convID, "error", err)
		}
		return nil
	}
	lines := snap.History
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	out := make([]HistoryMessage, 0, len(lines))
	for _, line := range lines {
		out = append(out, HistoryMessage{Role: "scammer", Text: line})
	}
	return out
}

// HandleMessage is the HTTP fallback for sending messages.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	out, err := h.processMessage(r.Context(), req.SessionID, req.Text)
	if err != nil {
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// HandleHistory returns the scammer lines seen so far in a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	history := h.history(r.Context(), ConversationID(sessionID), 100)
	if history == nil {
		history = []HistoryMessage{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"messages": history})
}
