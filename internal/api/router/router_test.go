package router

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/scambait/internal/analytics"
	"github.com/wolfman30/scambait/internal/calls"
	"github.com/wolfman30/scambait/internal/catalog"
	"github.com/wolfman30/scambait/internal/engine"
	"github.com/wolfman30/scambait/internal/http/handlers"
	"github.com/wolfman30/scambait/internal/observability/metrics"
	"github.com/wolfman30/scambait/internal/session"
	"github.com/wolfman30/scambait/internal/voice"
	"github.com/wolfman30/scambait/internal/webchat"
	"github.com/wolfman30/scambait/pkg/logging"
)

const (
	testAPIKey      = "test-api-key"
	testAdminSecret = "test-admin-secret"
)

type testRouter struct {
	handler http.Handler
	hub     *analytics.LiveHub
	tracker *calls.MemoryTracker
}

func newTestRouter(t *testing.T) testRouter {
	t.Helper()

	logger := logging.New("error")
	reg := prometheus.NewRegistry()
	m := metrics.NewEngineMetrics(reg)
	hub := analytics.NewLiveHub(logger, nil)
	t.Cleanup(hub.Close)
	tracker := calls.NewMemoryTracker()
	cat := catalog.New(rand.New(rand.NewSource(21)))
	eng := engine.New(session.NewStore(logger), logger,
		engine.WithSink(hub),
		engine.WithCatalog(cat),
		engine.WithCallTracker(tracker),
		engine.WithMetrics(m),
		engine.WithRand(rand.New(rand.NewSource(21))),
	)

	cfg := &Config{
		Logger:          logger,
		Voice:           voice.NewHandler(eng, cat, voice.Config{}, m, logger),
		Conversations:   handlers.NewConversationsHandler(eng, logger),
		Stats:           handlers.NewStatsHandler(nil, tracker, eng, logger),
		Calls:           handlers.NewCallsHandler(eng, tracker, logger),
		WebChat:         webchat.NewHandler(eng, logger),
		LiveFeed:        hub,
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		APIKey:          testAPIKey,
		AdminAuthSecret: testAdminSecret,
	}
	return testRouter{handler: New(cfg), hub: hub, tracker: tracker}
}

func (tr testRouter) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	tr.handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthEndpoint(t *testing.T) {
	tr := newTestRouter(t)
	rec := tr.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouterAPIRequiresKey(t *testing.T) {
	tr := newTestRouter(t)

	rec := tr.do(http.MethodPost, "/api/conversations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = tr.do(http.MethodGet, "/api/stats?api_key="+testAPIKey, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats handlers.StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "operational", stats.SystemStatus)
}

func TestRouterConversationFlow(t *testing.T) {
	tr := newTestRouter(t)
	auth := map[string]string{"X-API-Key": testAPIKey, "Content-Type": "application/json"}

	rec := tr.do(http.MethodPost, "/api/conversations", "", auth)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ConversationID string `json:"conversation_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ConversationID)

	path := "/api/conversations/" + created.ConversationID
	rec = tr.do(http.MethodPost, path+"/messages", `{"text":"Your computer has a virus, call Microsoft support now"}`, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reply"`)

	rec = tr.do(http.MethodGet, path, "", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.Turns)

	rec = tr.do(http.MethodDelete, path, "", auth)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterVoiceWebhookAndAdminEnd(t *testing.T) {
	tr := newTestRouter(t)

	form := url.Values{"CallSid": {"CA42"}, "From": {"+15550100"}, "SpeechResult": {"Pay the fine with gift cards"}}
	rec := tr.do(http.MethodPost, voice.VoicePath, form.Encode(),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<Gather")

	rec = tr.do(http.MethodPost, "/admin/calls/call:CA42/end", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bearer := map[string]string{"Authorization": "Bearer " + adminToken(t)}
	rec = tr.do(http.MethodGet, "/admin/calls", "", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "call:CA42")

	rec = tr.do(http.MethodPost, "/admin/calls/call:CA42/end", "", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","message":"Call ended"}`, rec.Body.String())

	rec = tr.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `scambait_voice_webhook_total{kind="voice",status="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "scambait_engine_turns_total")
}

func TestRouterLiveFeed(t *testing.T) {
	tr := newTestRouter(t)
	srv := httptest.NewServer(tr.handler)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/live"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?api_key="+testAPIKey, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return tr.hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/conversations/live-1/messages", strings.NewReader(`{"text":"hello"}`))
	require.NoError(t, err)
	req.Header.Set("X-API-Key", testAPIKey)
	httpResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	httpResp.Body.Close()
	require.Equal(t, http.StatusOK, httpResp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type   string           `json:"type"`
		Record analytics.Record `json:"record"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "turn", msg.Type)
	assert.Equal(t, "live-1", msg.Record.ConversationID)
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "operator",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAdminSecret))
	require.NoError(t, err)
	return signed
}
