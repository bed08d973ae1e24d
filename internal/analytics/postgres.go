package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresSink inserts one scammer_analytics row per record.
type PostgresSink struct {
	pool execer
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	if pool == nil {
		panic("analytics: pgx pool required")
	}
	return &PostgresSink{pool: pool}
}

func newPostgresSinkWithExec(exec execer) *PostgresSink {
	if exec == nil {
		panic("analytics: exec required")
	}
	return &PostgresSink{pool: exec}
}

const insertRecordSQL = `
	INSERT INTO scammer_analytics (
		timestamp, conversation_id, turn, scammer_input, strategy, response_preview,
		urgency_score, authority_score, payment_score, info_score,
		frustration_score, escalation_score, threat_score,
		question_count, command_count, caps_ratio, exclamation_count, all_caps_words,
		frustration_level, estimated_time_waste, total_time_wasted, scammer_frustration,
		is_high_urgency, is_authority_claim, is_payment_scam, is_info_phishing,
		is_highly_frustrated, is_escalating, is_threatening
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10,
		$11, $12, $13,
		$14, $15, $16, $17, $18,
		$19, $20, $21, $22,
		$23, $24, $25, $26,
		$27, $28, $29
	)
`

func (s *PostgresSink) Append(ctx context.Context, rec Record) error {
	_, err := s.pool.Exec(ctx, insertRecordSQL,
		rec.Timestamp.UTC(), rec.ConversationID, rec.Turn, rec.Message, string(rec.Strategy), rec.ReplyPreview,
		rec.UrgencyScore, rec.AuthorityScore, rec.PaymentScore, rec.InfoScore,
		rec.FrustrationScore, rec.EscalationScore, rec.ThreatScore,
		rec.QuestionCount, rec.CommandCount, rec.CapsRatio, rec.ExclamationCount, rec.AllCapsWords,
		rec.FrustrationLevel, rec.EstimatedSeconds, rec.TotalTimeWasted, rec.CumulativeFrustration,
		rec.HighUrgency, rec.AuthorityClaim, rec.PaymentScam, rec.InfoPhishing,
		rec.HighlyFrustrated, rec.Escalating, rec.Threatening,
	)
	if err != nil {
		return fmt.Errorf("analytics: insert record: %w", err)
	}
	return nil
}
