package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/scambait/internal/calls"
	"github.com/wolfman30/scambait/internal/http/middleware"
	"github.com/wolfman30/scambait/pkg/logging"
)

// CallEnder stops a call and its conversation.
type CallEnder interface {
	End(ctx context.Context, conversationID string) (bool, error)
}

type callStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CallsHandler serves the operator call endpoints.
type CallsHandler struct {
	ender  CallEnder
	active ActiveCalls
	logger *logging.Logger
}

func NewCallsHandler(ender CallEnder, active ActiveCalls, logger *logging.Logger) *CallsHandler {
	if ender == nil || active == nil {
		panic("handlers: call ender and active calls are required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CallsHandler{ender: ender, active: active, logger: logger}
}

// List returns the calls in progress, oldest first.
func (h *CallsHandler) List(w http.ResponseWriter, r *http.Request) {
	active, err := h.active.Active(r.Context())
	if err != nil {
		h.logger.Error("failed to list active calls", "error", err)
		jsonError(w, "failed to list calls", http.StatusInternalServerError)
		return
	}
	if active == nil {
		active = []calls.Call{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"calls": active})
}

// End hangs up an active call.
func (h *CallsHandler) End(w http.ResponseWriter, r *http.Request) {
	id := calls.Sanitize(chi.URLParam(r, "id"), calls.MaxIDLength)
	if id == "" {
		writeJSON(w, http.StatusNotFound, callStatusResponse{Status: "error", Message: "Call not found"})
		return
	}

	ended, err := h.ender.End(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to end call", "call_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, callStatusResponse{Status: "error", Message: "Internal error"})
		return
	}
	if !ended {
		writeJSON(w, http.StatusNotFound, callStatusResponse{Status: "error", Message: "Call not found"})
		return
	}

	operator := "unknown"
	if claims, ok := middleware.AdminClaimsFromContext(r.Context()); ok && claims.Subject != "" {
		operator = claims.Subject
	}
	h.logger.Info("call ended by operator", "call_id", id, "operator", operator, "remote_ip", r.RemoteAddr)
	writeJSON(w, http.StatusOK, callStatusResponse{Status: "success", Message: "Call ended"})
}
