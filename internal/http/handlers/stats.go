package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wolfman30/scambait/internal/analytics"
	"github.com/wolfman30/scambait/internal/calls"
	"github.com/wolfman30/scambait/internal/session"
	"github.com/wolfman30/scambait/pkg/logging"
)

const recentCallsLimit = 5

// Reporter reads aggregate analytics.
type Reporter interface {
	Summary(ctx context.Context) (analytics.Summary, error)
	Recent(ctx context.Context, limit int) ([]analytics.ConversationSummary, error)
}

// ActiveCalls lists calls in progress.
type ActiveCalls interface {
	Active(ctx context.Context) ([]calls.Call, error)
}

// SnapshotReader looks up a live conversation.
type SnapshotReader interface {
	Snapshot(ctx context.Context, conversationID string) (session.Snapshot, error)
}

// StatsResponse is the dashboard payload. Field names follow the
// dashboard's camelCase contract.
type StatsResponse struct {
	TotalTimeWasted   string           `json:"totalTimeWasted"`
	TotalSeconds      float64          `json:"totalSeconds"`
	TotalCalls        int64            `json:"totalCalls"`
	TotalTurns        int64            `json:"totalTurns"`
	ActiveNow         int              `json:"activeNow"`
	AvgFrustration    float64          `json:"avgFrustration"`
	StrategyBreakdown map[string]int64 `json:"strategyBreakdown"`
	RecentCalls       []RecentCall     `json:"recentCalls"`
	CurrentCall       *CurrentCall     `json:"currentCall"`
	LastUpdated       string           `json:"lastUpdated"`
	SystemStatus      string           `json:"systemStatus"`
}

// RecentCall summarizes a finished or ongoing conversation.
type RecentCall struct {
	ID         string `json:"id"`
	Turns      int64  `json:"turns"`
	Strategy   string `json:"strategy"`
	WastedTime int64  `json:"wastedTime"`
	Timestamp  string `json:"timestamp"`
}

// CurrentCall is the longest-running active call.
type CurrentCall struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phoneNumber"`
	Duration    int64  `json:"duration"`
	Status      string `json:"status"`
	ScamType    string `json:"scamType"`
	Strategy    string `json:"strategy"`
	WastedTime  int64  `json:"wastedTime"`
}

// StatsHandler serves GET /api/stats.
type StatsHandler struct {
	reports   Reporter
	calls     ActiveCalls
	snapshots SnapshotReader
	logger    *logging.Logger
	now       func() time.Time
}

// NewStatsHandler builds the stats endpoint. reports and snapshots may be
// nil; without a report store the totals stay at zero.
func NewStatsHandler(reports Reporter, active ActiveCalls, snapshots SnapshotReader, logger *logging.Logger) *StatsHandler {
	if active == nil {
		panic("handlers: active calls source cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StatsHandler{reports: reports, calls: active, snapshots: snapshots, logger: logger, now: time.Now}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := h.build(r.Context())
	if err != nil {
		// Failures still answer 200 with a zeroed payload.
		h.logger.Error("failed to build stats", "error", err)
		resp = h.emptyStats("error")
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *StatsHandler) emptyStats(status string) StatsResponse {
	return StatsResponse{
		TotalTimeWasted:   FormatDuration(0),
		StrategyBreakdown: map[string]int64{},
		RecentCalls:       []RecentCall{},
		LastUpdated:       h.now().UTC().Format(time.RFC3339),
		SystemStatus:      status,
	}
}

func (h *StatsHandler) build(ctx context.Context) (StatsResponse, error) {
	resp := h.emptyStats("operational")

	if h.reports != nil {
		sum, err := h.reports.Summary(ctx)
		if err != nil {
			return StatsResponse{}, err
		}
		resp.TotalSeconds = sum.TotalSecondsWasted
		resp.TotalTimeWasted = FormatDuration(sum.TotalSecondsWasted)
		resp.TotalCalls = sum.Conversations
		resp.TotalTurns = sum.TotalTurns
		resp.AvgFrustration = sum.AvgFrustration
		if sum.StrategyBreakdown != nil {
			resp.StrategyBreakdown = sum.StrategyBreakdown
		}

		recent, err := h.reports.Recent(ctx, recentCallsLimit)
		if err != nil {
			return StatsResponse{}, err
		}
		for _, c := range recent {
			resp.RecentCalls = append(resp.RecentCalls, RecentCall{
				ID:         calls.Sanitize(c.ConversationID, calls.MaxScamTypeLength),
				Turns:      c.Turns,
				Strategy:   c.LastStrategy,
				WastedTime: int64(c.SecondsWasted),
				Timestamp:  c.LastSeen.UTC().Format(time.RFC3339),
			})
		}
	}

	active, err := h.calls.Active(ctx)
	if err != nil {
		return StatsResponse{}, err
	}
	resp.ActiveNow = len(active)
	if len(active) > 0 {
		resp.CurrentCall = h.currentCall(ctx, active[0])
	}
	return resp, nil
}

func (h *StatsHandler) currentCall(ctx context.Context, c calls.Call) *CurrentCall {
	duration := int64(c.Duration(h.now()).Seconds())
	cur := &CurrentCall{
		ID:          calls.Sanitize(c.ID, calls.MaxScamTypeLength),
		PhoneNumber: c.PhoneNumber,
		Duration:    duration,
		Status:      "active",
		ScamType:    c.ScamType,
		WastedTime:  duration,
	}
	if h.snapshots == nil {
		return cur
	}
	if snap, err := h.snapshots.Snapshot(ctx, c.ID); err == nil {
		cur.Strategy = string(snap.LastStrategy)
		cur.WastedTime = int64(snap.TimeWasted)
	}
	return cur
}
