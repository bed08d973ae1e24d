// Package engine is the entry point for one inbound message: it analyzes
// the text, picks a response strategy, estimates the time it will cost the
// caller and records the turn against the conversation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/scambait/internal/analysis"
	"github.com/wolfman30/scambait/internal/analytics"
	"github.com/wolfman30/scambait/internal/calls"
	"github.com/wolfman30/scambait/internal/observability/metrics"
	"github.com/wolfman30/scambait/internal/session"
	"github.com/wolfman30/scambait/internal/strategy"
	"github.com/wolfman30/scambait/pkg/logging"
)

var engineTracer = otel.Tracer("scambait.internal.engine")

// ErrMissingConversationID is the only error Process returns.
var ErrMissingConversationID = errors.New("engine: conversation id is required")

// CallPrefix marks conversations that belong to a phone call. Only those
// are reported to the CallTracker.
const CallPrefix = "call:"

// fallbackReply is spoken when the catalog fails.
const fallbackReply = "I'm sorry dear, could you say that again? The line went funny."

// Message is one inbound turn.
type Message struct {
	ConversationID string
	Text           string
	From           string
	ReceivedAt     time.Time
}

// Decision is the outcome of one processed turn.
type Decision struct {
	ConversationID        string          `json:"conversation_id"`
	Turn                  int             `json:"turn"`
	Strategy              strategy.Tag    `json:"strategy"`
	Rule                  int             `json:"rule"`
	Reason                string          `json:"reason"`
	Candidates            []strategy.Tag  `json:"candidates"`
	EstimatedSeconds      float64         `json:"estimated_seconds"`
	Analysis              analysis.Result `json:"analysis"`
	CumulativeFrustration float64         `json:"cumulative_frustration"`
	CumulativeTimeWasted  float64         `json:"cumulative_time_wasted"`
}

// Reply is a decision plus the text to send back.
type Reply struct {
	Decision
	Text string `json:"reply"`
}

// Catalog supplies reply text for a strategy.
type Catalog interface {
	PickFor(tag strategy.Tag, text string) string
}

// CallTracker is told when a conversation starts and ends.
type CallTracker interface {
	Start(ctx context.Context, call calls.Call) error
	End(ctx context.Context, id string) (bool, error)
}

type nopTracker struct{}

func (nopTracker) Start(context.Context, calls.Call) error { return nil }
func (nopTracker) End(context.Context, string) (bool, error) { return false, nil }

// Engine is safe for concurrent use. Turns for the same conversation are
// serialized by the session store; different conversations never wait on
// each other.
type Engine struct {
	analyzer *analysis.Analyzer
	store    *session.Store
	catalog  Catalog
	sink     analytics.Sink
	tracker  CallTracker
	metrics  *metrics.EngineMetrics
	events   *EventLogger
	logger   *logging.Logger
	now      func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets where per-turn records go. Defaults to analytics.Nop.
func WithSink(s analytics.Sink) Option {
	return func(e *Engine) {
		if s != nil {
			e.sink = s
		}
	}
}

// WithCatalog sets the reply catalog used by Respond.
func WithCatalog(c Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithCallTracker sets the active-call tracker. Defaults to a no-op.
func WithCallTracker(t CallTracker) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracker = t
		}
	}
}

// WithMetrics enables prometheus instrumentation.
func WithMetrics(m *metrics.EngineMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithRand sets the tie-break source. Tests pass a seeded generator.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over store.
func New(store *session.Store, logger *logging.Logger, opts ...Option) *Engine {
	if store == nil {
		panic("engine: session store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		analyzer: analysis.NewAnalyzer(),
		store:    store,
		sink:     analytics.Nop{},
		tracker:  nopTracker{},
		logger:   logger,
		events:   NewEventLogger(logger),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(e.now().UnixNano()))
	}
	return e
}

// Process handles one message and returns the decision. Sink and tracker
// failures are logged and counted, never returned.
func (e *Engine) Process(ctx context.Context, conversationID, text string) (Decision, error) {
	reply, err := e.handle(ctx, Message{ConversationID: conversationID, Text: text}, false)
	return reply.Decision, err
}

// Respond handles one message and also picks the reply text.
func (e *Engine) Respond(ctx context.Context, msg Message) (Reply, error) {
	return e.handle(ctx, msg, true)
}

func (e *Engine) handle(ctx context.Context, msg Message, withReply bool) (Reply, error) {
	id := strings.TrimSpace(msg.ConversationID)
	if id == "" {
		return Reply{}, ErrMissingConversationID
	}
	start := e.now()
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = start
	}

	ctx, span := engineTracer.Start(ctx, "engine.process")
	defer span.End()

	result := e.analyzer.Analyze(ctx, msg.Text)

	var out Reply
	e.store.Do(ctx, id, func(st *session.State) {
		choice := e.selectStrategy(result, st.CumulativeFrustration())
		seconds := strategy.Estimate(choice.Tag, result)
		if withReply {
			out.Text = e.pickReply(choice.Tag, msg.Text)
		}
		st.RecordTurn(msg.Text, result, choice.Tag, seconds, msg.ReceivedAt)

		out.Decision = Decision{
			ConversationID:        id,
			Turn:                  st.Turns(),
			Strategy:              choice.Tag,
			Rule:                  choice.Rule,
			Reason:                choice.Reason,
			Candidates:            choice.Candidates,
			EstimatedSeconds:      seconds,
			Analysis:              result,
			CumulativeFrustration: st.CumulativeFrustration(),
			CumulativeTimeWasted:  st.TimeWasted(),
		}
	})
	d := out.Decision

	span.SetAttributes(
		attribute.String("engine.conversation_id", id),
		attribute.Int("engine.turn", d.Turn),
		attribute.String("engine.strategy", string(d.Strategy)),
		attribute.Int("engine.rule", d.Rule),
		attribute.Float64("engine.estimated_seconds", d.EstimatedSeconds),
	)

	if d.Turn == 1 && IsCall(id) {
		e.startCall(ctx, id, msg.From, result)
	}

	e.events.TurnProcessed(ctx, id, msg.Text, d)
	e.emit(ctx, msg, out)

	e.metrics.ObserveTurn(string(d.Strategy), d.EstimatedSeconds)
	e.metrics.ObserveProcessLatency(e.now().Sub(start).Seconds())
	e.metrics.SetActiveConversations(e.store.Len())
	return out, nil
}

func (e *Engine) selectStrategy(r analysis.Result, cumulative float64) strategy.Decision {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return strategy.Select(r, cumulative, e.rng)
}

func (e *Engine) pickReply(tag strategy.Tag, text string) (reply string) {
	if e.catalog == nil {
		return fallbackReply
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("reply catalog failed", "strategy", tag, "panic", r)
			reply = fallbackReply
		}
	}()
	reply = e.catalog.PickFor(tag, text)
	if reply == "" {
		reply = fallbackReply
	}
	return reply
}

func (e *Engine) emit(ctx context.Context, msg Message, out Reply) {
	d := out.Decision
	rec := analytics.Record{
		Timestamp:             msg.ReceivedAt.UTC(),
		ConversationID:        d.ConversationID,
		Turn:                  d.Turn,
		Message:               analytics.TruncateMessage(msg.Text),
		Strategy:              d.Strategy,
		ReplyPreview:          analytics.Preview(out.Text),
		Result:                d.Analysis,
		EstimatedSeconds:      d.EstimatedSeconds,
		TotalTimeWasted:       d.CumulativeTimeWasted,
		CumulativeFrustration: d.CumulativeFrustration,
	}
	if err := e.appendRecord(ctx, rec); err != nil {
		names := analytics.FailedSinks(err)
		if len(names) == 0 {
			names = []string{"default"}
		}
		for _, name := range names {
			e.metrics.ObserveSinkFailure(name)
		}
		e.events.AnalyticsFailed(ctx, d.ConversationID, names, err)
	}
}

// appendRecord turns a panicking sink into an error.
func (e *Engine) appendRecord(ctx context.Context, rec analytics.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine: analytics sink panicked: %v", r)
		}
	}()
	return e.sink.Append(ctx, rec)
}

func (e *Engine) startCall(ctx context.Context, id, from string, r analysis.Result) {
	call := calls.Call{ID: id, PhoneNumber: from, ScamType: ScamType(r), StartedAt: e.now()}
	if err := e.tracker.Start(ctx, call); err != nil {
		e.logger.Warn("failed to start call tracking", "conversation_id", id, "error", err)
	}
}

// Reset clears a conversation's totals.
func (e *Engine) Reset(ctx context.Context, conversationID string) (session.Snapshot, error) {
	if strings.TrimSpace(conversationID) == "" {
		return session.Snapshot{}, ErrMissingConversationID
	}
	snap := e.store.Reset(ctx, conversationID)
	e.events.ConversationReset(ctx, conversationID)
	return snap, nil
}

// Snapshot returns the conversation's current state, or session.ErrNotFound.
func (e *Engine) Snapshot(ctx context.Context, conversationID string) (session.Snapshot, error) {
	if strings.TrimSpace(conversationID) == "" {
		return session.Snapshot{}, ErrMissingConversationID
	}
	return e.store.Snapshot(ctx, conversationID)
}

// End drops the conversation and stops tracking its call. It reports
// whether anything was active.
func (e *Engine) End(ctx context.Context, conversationID string) (bool, error) {
	if strings.TrimSpace(conversationID) == "" {
		return false, ErrMissingConversationID
	}
	var final session.Snapshot
	if snap, err := e.store.Snapshot(ctx, conversationID); err == nil {
		final = snap
	}
	live := e.store.End(ctx, conversationID)
	tracked, err := e.tracker.End(ctx, conversationID)
	if err != nil {
		e.logger.Warn("failed to end call tracking", "conversation_id", conversationID, "error", err)
	}
	e.events.ConversationEnded(ctx, conversationID, final)
	e.metrics.SetActiveConversations(e.store.Len())
	return live || tracked, nil
}

// IsCall reports whether a conversation id belongs to a phone call.
func IsCall(conversationID string) bool {
	return strings.HasPrefix(conversationID, CallPrefix)
}

// Sweep drops conversations idle for longer than ttl and stops tracking
// any calls among them. It returns how many conversations were dropped.
func (e *Engine) Sweep(ctx context.Context, ttl time.Duration) int {
	evicted := e.store.Sweep(ttl)
	for _, id := range evicted {
		if !IsCall(id) {
			continue
		}
		if _, err := e.tracker.End(ctx, id); err != nil {
			e.logger.Warn("failed to end call tracking", "conversation_id", id, "error", err)
		}
	}
	if len(evicted) > 0 {
		e.metrics.SetActiveConversations(e.store.Len())
	}
	return len(evicted)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (e *Engine) RunSweeper(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := e.Sweep(ctx, ttl); n > 0 {
				e.logger.Info("swept idle conversations", "count", n)
			}
		}
	}
}

// ScamType labels a message by its strongest scam signal.
func ScamType(r analysis.Result) string {
	best, label := 0, "unknown"
	for _, c := range []struct {
		score int
		label string
	}{
		{r.PaymentScore, "payment"},
		{r.AuthorityScore, "authority"},
		{r.InfoScore, "info_phishing"},
		{r.UrgencyScore, "urgency"},
	} {
		if c.score > best {
			best, label = c.score, c.label
		}
	}
	return label
}
