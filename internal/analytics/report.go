package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Summary aggregates the analytics table.
type Summary struct {
	TotalTurns         int64            `json:"total_turns"`
	TotalSecondsWasted float64          `json:"total_seconds_wasted"`
	Conversations      int64            `json:"conversations"`
	ActiveDays         int64            `json:"active_days"`
	AvgUrgency         float64          `json:"avg_urgency"`
	AvgFrustration     float64          `json:"avg_frustration"`
	StrategyBreakdown  map[string]int64 `json:"strategy_breakdown"`
}

// ConversationSummary is one row of the recent-conversations report.
type ConversationSummary struct {
	ConversationID string    `json:"conversation_id"`
	Turns          int64     `json:"turns"`
	SecondsWasted  float64   `json:"seconds_wasted"`
	LastStrategy   string    `json:"last_strategy"`
	LastSeen       time.Time `json:"last_seen"`
}

// ReportStore runs read-only aggregate queries for the stats endpoint.
type ReportStore struct {
	db *sql.DB
}

// OpenReportStore connects with the lib/pq driver.
func OpenReportStore(databaseURL string) (*ReportStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("analytics: open report db: %w", err)
	}
	return &ReportStore{db: db}, nil
}

func NewReportStore(db *sql.DB) *ReportStore {
	if db == nil {
		panic("analytics: sql db required")
	}
	return &ReportStore{db: db}
}

const summarySQL = `
	SELECT
		COUNT(*),
		COALESCE(SUM(estimated_time_waste), 0),
		COUNT(DISTINCT conversation_id),
		COUNT(DISTINCT DATE(timestamp)),
		COALESCE(AVG(urgency_score), 0),
		COALESCE(AVG(frustration_score), 0)
	FROM scammer_analytics
	WHERE timestamp IS NOT NULL
`

const breakdownSQL = `
	SELECT strategy, COUNT(*)
	FROM scammer_analytics
	GROUP BY strategy
	ORDER BY strategy
`

// Summary returns totals across every stored turn.
func (s *ReportStore) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx, summarySQL).Scan(
		&sum.TotalTurns,
		&sum.TotalSecondsWasted,
		&sum.Conversations,
		&sum.ActiveDays,
		&sum.AvgUrgency,
		&sum.AvgFrustration,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("analytics: query summary: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, breakdownSQL)
	if err != nil {
		return Summary{}, fmt.Errorf("analytics: query breakdown: %w", err)
	}
	defer rows.Close()

	sum.StrategyBreakdown = make(map[string]int64)
	for rows.Next() {
		var name string
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return Summary{}, fmt.Errorf("analytics: scan breakdown: %w", err)
		}
		sum.StrategyBreakdown[name] = n
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("analytics: iterate breakdown: %w", err)
	}
	return sum, nil
}

const recentSQL = `
	SELECT
		conversation_id,
		COUNT(*),
		COALESCE(SUM(estimated_time_waste), 0),
		(ARRAY_AGG(strategy ORDER BY turn DESC))[1],
		MAX(timestamp)
	FROM scammer_analytics
	GROUP BY conversation_id
	ORDER BY MAX(timestamp) DESC
	LIMIT $1
`

// Recent returns the most recently active conversations, newest first.
func (s *ReportStore) Recent(ctx context.Context, limit int) ([]ConversationSummary, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, recentSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics: query recent: %w", err)
	}
	defer rows.Close()

	var out []ConversationSummary
	for rows.Next() {
		var c ConversationSummary
		if err := rows.Scan(&c.ConversationID, &c.Turns, &c.SecondsWasted, &c.LastStrategy, &c.LastSeen); err != nil {
			return nil, fmt.Errorf("analytics: scan recent: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics: iterate recent: %w", err)
	}
	return out, nil
}

// Ping checks the connection.
func (s *ReportStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ReportStore) Close() error {
	return s.db.Close()
}
