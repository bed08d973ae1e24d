package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wolfman30/scambait/internal/engine"
	"github.com/wolfman30/scambait/internal/session"
	"github.com/wolfman30/scambait/pkg/logging"
)

// ConversationEngine is the engine surface the conversation API drives.
type ConversationEngine interface {
	Respond(ctx context.Context, msg engine.Message) (engine.Reply, error)
	Snapshot(ctx context.Context, conversationID string) (session.Snapshot, error)
	Reset(ctx context.Context, conversationID string) (session.Snapshot, error)
}

// ConversationsHandler exposes the engine over JSON for scripted clients
// and the operator dashboard.
type ConversationsHandler struct {
	engine ConversationEngine
	logger *logging.Logger
	newID  func() string
}

func NewConversationsHandler(eng ConversationEngine, logger *logging.Logger) *ConversationsHandler {
	if eng == nil {
		panic("handlers: conversation engine cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ConversationsHandler{engine: eng, logger: logger, newID: uuid.NewString}
}

type createConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

type postMessageRequest struct {
	Text string `json:"text"`
	From string `json:"from,omitempty"`
}

// Create hands out a fresh conversation id. State is created lazily on the
// first message.
func (h *ConversationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, createConversationResponse{ConversationID: h.newID()})
}

// PostMessage runs one scammer message through the engine.
func (h *ConversationsHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	var req postMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := h.engine.Respond(r.Context(), engine.Message{ConversationID: id, Text: req.Text, From: req.From})
	if err != nil {
		if errors.Is(err, engine.ErrMissingConversationID) {
			jsonError(w, "conversation id required", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to process message", "conversation_id", id, "error", err)
		jsonError(w, "failed to process message", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// Get returns the conversation's accumulated state.
func (h *ConversationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	snap, err := h.engine.Snapshot(r.Context(), id)
	switch {
	case errors.Is(err, session.ErrNotFound):
		jsonError(w, "conversation not found", http.StatusNotFound)
	case errors.Is(err, engine.ErrMissingConversationID):
		jsonError(w, "conversation id required", http.StatusBadRequest)
	case err != nil:
		h.logger.Error("failed to load conversation", "conversation_id", id, "error", err)
		jsonError(w, "failed to load conversation", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, snap)
	}
}

// Reset zeroes the conversation's totals and returns the cleared state.
func (h *ConversationsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	snap, err := h.engine.Reset(r.Context(), id)
	if err != nil {
		if errors.Is(err, engine.ErrMissingConversationID) {
			jsonError(w, "conversation id required", http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to reset conversation", "conversation_id", id, "error", err)
		jsonError(w, "failed to reset conversation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
