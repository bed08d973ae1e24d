package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/scambait/internal/calls"
	"github.com/wolfman30/scambait/internal/engine"
)

func engineMessage(id, text, from string) engine.Message {
	return engine.Message{ConversationID: id, Text: text, From: from}
}

func callsRouter(h *CallsHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/admin/calls", h.List)
	r.Post("/admin/calls/{id}/end", h.End)
	return r
}

func TestEndCall(t *testing.T) {
	tracker := calls.NewMemoryTracker()
	eng := newTestEngine(tracker)
	_, err := eng.Respond(context.Background(), engineMessage("call:CA1", "Send the gift card numbers", "+15550100"))
	require.NoError(t, err)
	router := callsRouter(NewCallsHandler(eng, tracker, nil))

	rec := doJSON(t, router, http.MethodGet, "/admin/calls", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Calls []calls.Call `json:"calls"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Calls, 1)
	assert.Equal(t, "call:CA1", list.Calls[0].ID)

	rec = doJSON(t, router, http.MethodPost, "/admin/calls/call:CA1/end", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","message":"Call ended"}`, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/admin/calls/call:CA1/end", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Call not found"}`, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/admin/calls", "")
	assert.JSONEq(t, `{"calls":[]}`, rec.Body.String())
}

type erroringEnder struct{}

func (erroringEnder) End(context.Context, string) (bool, error) { return false, errors.New("boom") }

func TestEndCallInternalError(t *testing.T) {
	router := callsRouter(NewCallsHandler(erroringEnder{}, calls.NewMemoryTracker(), nil))
	rec := doJSON(t, router, http.MethodPost, "/admin/calls/x/end", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Internal error"}`, rec.Body.String())
}

func TestEndCallSanitizesID(t *testing.T) {
	var got string
	ender := enderFunc(func(_ context.Context, id string) (bool, error) {
		got = id
		return true, nil
	})
	router := callsRouter(NewCallsHandler(ender, calls.NewMemoryTracker(), nil))
	rec := doJSON(t, router, http.MethodPost, "/admin/calls/ab'c&d/end", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abcd", got)

	rec = doJSON(t, router, http.MethodPost, "/admin/calls/'&'/end", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type enderFunc func(ctx context.Context, id string) (bool, error)

func (f enderFunc) End(ctx context.Context, id string) (bool, error) { return f(ctx, id) }
