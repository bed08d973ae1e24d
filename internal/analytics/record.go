// Package analytics records one row per processed turn and ships those rows
// to files, Postgres, S3 and live dashboard clients.
package analytics

import (
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/wolfman30/scambait/internal/analysis"
	"github.com/wolfman30/scambait/internal/strategy"
)

// Truncation limits for free text stored with a record.
const (
	MaxMessageRunes = 200
	MaxPreviewRunes = 100
)

// Record is the flat per-turn row handed to a Sink.
type Record struct {
	Timestamp      time.Time    `json:"timestamp"`
	ConversationID string       `json:"conversation_id"`
	Turn           int          `json:"turn"`
	Message        string       `json:"scammer_input"`
	Strategy       strategy.Tag `json:"strategy"`
	ReplyPreview   string       `json:"response_preview"`

	analysis.Result

	EstimatedSeconds      float64 `json:"estimated_time_waste"`
	TotalTimeWasted       float64 `json:"total_time_wasted"`
	CumulativeFrustration float64 `json:"scammer_frustration"`
}

// TruncateMessage cuts inbound text to MaxMessageRunes.
func TruncateMessage(s string) string {
	if utf8.RuneCountInString(s) <= MaxMessageRunes {
		return s
	}
	return string([]rune(s)[:MaxMessageRunes])
}

// Preview cuts a reply to MaxPreviewRunes and marks the cut with "...".
func Preview(s string) string {
	if utf8.RuneCountInString(s) <= MaxPreviewRunes {
		return s
	}
	return string([]rune(s)[:MaxPreviewRunes]) + "..."
}

var csvHeader = []string{
	"timestamp", "conversation_id", "turn", "scammer_input", "strategy", "response_preview",
	"urgency_score", "authority_score", "payment_score", "info_score",
	"frustration_score", "escalation_score", "threat_score",
	"question_count", "command_count", "caps_ratio", "exclamation_count", "all_caps_words",
	"frustration_level", "estimated_time_waste", "total_time_wasted", "scammer_frustration",
	"is_high_urgency", "is_authority_claim", "is_payment_scam", "is_info_phishing",
	"is_highly_frustrated", "is_escalating", "is_threatening",
}

// Header returns the column names used by the CSV sink.
func Header() []string {
	return append([]string(nil), csvHeader...)
}

// Row renders the record in Header order.
func (r Record) Row() []string {
	return []string{
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.ConversationID,
		strconv.Itoa(r.Turn),
		r.Message,
		string(r.Strategy),
		r.ReplyPreview,
		strconv.Itoa(r.UrgencyScore),
		strconv.Itoa(r.AuthorityScore),
		strconv.Itoa(r.PaymentScore),
		strconv.Itoa(r.InfoScore),
		strconv.Itoa(r.FrustrationScore),
		strconv.Itoa(r.EscalationScore),
		strconv.Itoa(r.ThreatScore),
		strconv.Itoa(r.QuestionCount),
		strconv.Itoa(r.CommandCount),
		formatFloat(r.CapsRatio, 3),
		strconv.Itoa(r.ExclamationCount),
		strconv.Itoa(r.AllCapsWords),
		formatFloat(r.FrustrationLevel, 3),
		formatFloat(r.EstimatedSeconds, 1),
		formatFloat(r.TotalTimeWasted, 1),
		formatFloat(r.CumulativeFrustration, 3),
		strconv.FormatBool(r.HighUrgency),
		strconv.FormatBool(r.AuthorityClaim),
		strconv.FormatBool(r.PaymentScam),
		strconv.FormatBool(r.InfoPhishing),
		strconv.FormatBool(r.HighlyFrustrated),
		strconv.FormatBool(r.Escalating),
		strconv.FormatBool(r.Threatening),
	}
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
