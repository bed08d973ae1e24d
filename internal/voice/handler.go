// Package voice serves the Twilio webhooks that put a scammer's call or
// text through the engine.
package voice

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/scambait/internal/engine"
	"github.com/wolfman30/scambait/internal/observability/metrics"
	"github.com/wolfman30/scambait/pkg/logging"
)

var twilioTracer = otel.Tracer("scambait.internal.voice")

const (
	VoicePath  = "/webhooks/twilio/voice"
	StatusPath = "/webhooks/twilio/status"
	SMSPath    = "/webhooks/twilio/sms"

	defaultVoice = "Polly.Joanna"
)

// Call statuses after which Twilio sends no more speech.
var terminalStatuses = map[string]bool{
	"completed": true,
	"busy":      true,
	"failed":    true,
	"no-answer": true,
	"canceled":  true,
}

// Responder runs one turn through the engine.
type Responder interface {
	Respond(ctx context.Context, msg engine.Message) (engine.Reply, error)
	End(ctx context.Context, conversationID string) (bool, error)
}

// Greeter supplies the opener for a call that has not spoken yet.
type Greeter interface {
	Greeting() string
}

// Config controls signature checks and TwiML output.
type Config struct {
	AuthToken     string
	PublicBaseURL string
	Voice         string
}

// Handler serves the Twilio webhooks.
type Handler struct {
	engine  Responder
	greeter Greeter
	cfg     Config
	metrics *metrics.EngineMetrics
	logger  *logging.Logger
}

func NewHandler(eng Responder, greeter Greeter, cfg Config, m *metrics.EngineMetrics, logger *logging.Logger) *Handler {
	if eng == nil {
		panic("voice: engine cannot be nil")
	}
	if greeter == nil {
		panic("voice: greeter cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Voice == "" {
		cfg.Voice = defaultVoice
	}
	return &Handler{engine: eng, greeter: greeter, cfg: cfg, metrics: m, logger: logger}
}

// ConversationID is the engine conversation for a Twilio call.
func ConversationID(callSid string) string {
	return engine.CallPrefix + callSid
}

// SMSConversationID is the engine conversation for a texting number.
func SMSConversationID(from string) string {
	return "sms:" + from
}

func (h *Handler) authorized(w http.ResponseWriter, r *http.Request, kind string) bool {
	if h.cfg.AuthToken == "" {
		return true
	}
	if ValidateTwilioSignature(r, h.cfg.AuthToken, webhookURL(r, h.cfg.PublicBaseURL)) {
		return true
	}
	h.logger.Warn("invalid twilio signature", "kind", kind)
	h.metrics.ObserveWebhook(kind, "unauthorized")
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
	return false
}

// Voice answers a call turn with a spoken reply and a new speech gather.
func (h *Handler) Voice(w http.ResponseWriter, r *http.Request) {
	ctx, span := twilioTracer.Start(r.Context(), "voice.twilio.voice")
	defer span.End()

	if !h.authorized(w, r, "voice") {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.metrics.ObserveWebhook("voice", "bad_request")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	callSid := strings.TrimSpace(r.PostFormValue("CallSid"))
	if callSid == "" {
		err := errors.New("missing CallSid")
		span.RecordError(err)
		h.metrics.ObserveWebhook("voice", "bad_request")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	convID := ConversationID(callSid)
	from := NormalizeE164(r.PostFormValue("From"))
	speech := strings.TrimSpace(r.PostFormValue("SpeechResult"))
	span.SetAttributes(
		attribute.String("scambait.twilio.call_sid", callSid),
		attribute.Bool("scambait.twilio.has_speech", speech != ""),
	)

	text := h.greeter.Greeting()
	if speech != "" {
		reply, err := h.engine.Respond(ctx, engine.Message{ConversationID: convID, Text: speech, From: from})
		if err != nil {
			span.RecordError(err)
			h.logger.Error("engine failed to respond", "conversation_id", convID, "error", err)
		} else {
			text = reply.Text
			span.SetAttributes(attribute.String("scambait.strategy", string(reply.Strategy)))
		}
	}

	h.metrics.ObserveWebhook("voice", "ok")
	writeTwiML(w, http.StatusOK, gatherResponse(text, VoicePath, h.cfg.Voice))
}

// Status ends the conversation once Twilio reports the call is over.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, span := twilioTracer.Start(r.Context(), "voice.twilio.status")
	defer span.End()

	if !h.authorized(w, r, "status") {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.metrics.ObserveWebhook("status", "bad_request")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	callSid := strings.TrimSpace(r.PostFormValue("CallSid"))
	status := strings.ToLower(strings.TrimSpace(r.PostFormValue("CallStatus")))
	if callSid == "" {
		h.metrics.ObserveWebhook("status", "bad_request")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	span.SetAttributes(
		attribute.String("scambait.twilio.call_sid", callSid),
		attribute.String("scambait.twilio.call_status", status),
	)

	if terminalStatuses[status] {
		convID := ConversationID(callSid)
		if _, err := h.engine.End(ctx, convID); err != nil {
			span.RecordError(err)
			h.logger.Error("failed to end conversation", "conversation_id", convID, "error", err)
		} else {
			h.logger.Info("call ended", "conversation_id", convID, "status", status)
		}
	}

	h.metrics.ObserveWebhook("status", "ok")
	writeTwiML(w, http.StatusOK, twimlResponse{})
}

// SMS answers an inbound text with a single message.
func (h *Handler) SMS(w http.ResponseWriter, r *http.Request) {
	ctx, span := twilioTracer.Start(r.Context(), "voice.twilio.sms")
	defer span.End()

	if !h.authorized(w, r, "sms") {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.metrics.ObserveWebhook("sms", "bad_request")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	from := NormalizeE164(r.PostFormValue("From"))
	body := strings.TrimSpace(r.PostFormValue("Body"))
	if from == "" {
		h.metrics.ObserveWebhook("sms", "bad_request")
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	text := h.greeter.Greeting()
	if body != "" {
		reply, err := h.engine.Respond(ctx, engine.Message{ConversationID: SMSConversationID(from), Text: body, From: from})
		if err != nil {
			span.RecordError(err)
			h.logger.Error("engine failed to respond", "from", from, "error", err)
		} else {
			text = reply.Text
		}
	}

	h.metrics.ObserveWebhook("sms", "ok")
	writeTwiML(w, http.StatusOK, messageResponse(text))
}
