package session

import (
	"time"

	"github.com/wolfman30/scambait/internal/analysis"
	"github.com/wolfman30/scambait/internal/strategy"
)

// State accumulates one conversation's metrics. RecordTurn and Reset are
// the only mutators, so the frustration and time-wasted totals never
// decrease between resets. A State is not safe for concurrent use; the
// Store serializes access per conversation.
type State struct {
	conversationID        string
	history               []string
	cumulativeFrustration float64
	timeWasted            float64
	turns                 int
	lastStrategy          strategy.Tag
	startedAt             time.Time
	updatedAt             time.Time
}

// Snapshot is a read-only copy of a State.
type Snapshot struct {
	ConversationID        string       `json:"conversation_id"`
	History               []string     `json:"history"`
	CumulativeFrustration float64      `json:"cumulative_frustration"`
	TimeWasted            float64      `json:"time_wasted"`
	Turns                 int          `json:"turns"`
	LastStrategy          strategy.Tag `json:"last_strategy,omitempty"`
	StartedAt             time.Time    `json:"started_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// New creates an empty state for a conversation.
func New(conversationID string, now time.Time) *State {
	return &State{conversationID: conversationID, startedAt: now, updatedAt: now}
}

// FromSnapshot rebuilds a state, e.g. after loading it from Redis.
func FromSnapshot(s Snapshot) *State {
	return &State{
		conversationID:        s.ConversationID,
		history:               append([]string(nil), s.History...),
		cumulativeFrustration: s.CumulativeFrustration,
		timeWasted:            s.TimeWasted,
		turns:                 s.Turns,
		lastStrategy:          s.LastStrategy,
		startedAt:             s.StartedAt,
		updatedAt:             s.UpdatedAt,
	}
}

// RecordTurn folds one processed message into the totals.
func (s *State) RecordTurn(text string, r analysis.Result, tag strategy.Tag, seconds float64, now time.Time) {
	s.history = append(s.history, text)
	if r.FrustrationLevel > 0 {
		s.cumulativeFrustration += r.FrustrationLevel
	}
	if seconds > 0 {
		s.timeWasted += seconds
	}
	s.turns++
	s.lastStrategy = tag
	s.updatedAt = now
}

// Reset clears every accumulated value. The conversation id is kept.
func (s *State) Reset(now time.Time) {
	*s = State{conversationID: s.conversationID, startedAt: now, updatedAt: now}
}

func (s *State) ConversationID() string { return s.conversationID }
func (s *State) CumulativeFrustration() float64 { return s.cumulativeFrustration }
func (s *State) TimeWasted() float64 { return s.timeWasted }
func (s *State) Turns() int { return s.turns }
func (s *State) LastStrategy() strategy.Tag { return s.lastStrategy }

// Snapshot copies the state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		ConversationID:        s.conversationID,
		History:               append([]string(nil), s.history...),
		CumulativeFrustration: s.cumulativeFrustration,
		TimeWasted:            s.timeWasted,
		Turns:                 s.turns,
		LastStrategy:          s.lastStrategy,
		StartedAt:             s.startedAt,
		UpdatedAt:             s.updatedAt,
	}
}
