package engine

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/wolfman30/scambait/internal/session"
	"github.com/wolfman30/scambait/pkg/logging"
)

// Event is a structured entry in a conversation's lifecycle. All events
// share the same base fields for easy filtering.
type Event struct {
	Time           string         `json:"time"`
	Event          string         `json:"event"`
	ConversationID string         `json:"conversation_id"`
	Data           map[string]any `json:"data,omitempty"`
}

// EventLogger emits one JSON line per decision point:
//
//	grep '"event":"turn_processed"' /var/log/scambait.log
//	grep '"conversation_id":"call:CA123"' /var/log/scambait.log
type EventLogger struct {
	logger *logging.Logger
}

func NewEventLogger(logger *logging.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Log emits a structured event.
func (e *EventLogger) Log(_ context.Context, event, convID string, data map[string]any) {
	if e == nil || e.logger == nil {
		return
	}
	evt := Event{
		Time:           time.Now().UTC().Format(time.RFC3339Nano),
		Event:          event,
		ConversationID: convID,
		Data:           data,
	}
	b, _ := json.Marshal(evt)
	e.logger.Info(string(b))
}

func (e *EventLogger) TurnProcessed(ctx context.Context, convID, message string, d Decision) {
	e.Log(ctx, "turn_processed", convID, map[string]any{
		"message":                truncate(message, 200),
		"turn":                   d.Turn,
		"strategy":               d.Strategy,
		"rule":                   d.Rule,
		"reason":                 d.Reason,
		"estimated_seconds":      d.EstimatedSeconds,
		"frustration_level":      d.Analysis.FrustrationLevel,
		"cumulative_frustration": d.CumulativeFrustration,
		"cumulative_time_wasted": d.CumulativeTimeWasted,
		"flags":                  d.Analysis.Flags(),
	})
}

func (e *EventLogger) AnalyticsFailed(ctx context.Context, convID string, sinks []string, err error) {
	e.Log(ctx, "analytics_failed", convID, map[string]any{
		"sinks": sinks,
		"error": err.Error(),
	})
}

func (e *EventLogger) ConversationReset(ctx context.Context, convID string) {
	e.Log(ctx, "conversation_reset", convID, nil)
}

func (e *EventLogger) ConversationEnded(ctx context.Context, convID string, final session.Snapshot) {
	e.Log(ctx, "conversation_ended", convID, map[string]any{
		"turns":                  final.Turns,
		"cumulative_time_wasted": final.TimeWasted,
	})
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
