package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/scambait/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/scambait/internal/http/middleware"
	"github.com/wolfman30/scambait/internal/voice"
	"github.com/wolfman30/scambait/internal/webchat"
	"github.com/wolfman30/scambait/pkg/logging"
)

// Config holds router configuration. Optional handlers left nil are not
// mounted.
type Config struct {
	Logger        *logging.Logger
	Voice         *voice.Handler
	Conversations *handlers.ConversationsHandler
	Stats         *handlers.StatsHandler
	Calls         *handlers.CallsHandler
	WebChat       *webchat.Handler
	LiveFeed      http.Handler
	Health        http.HandlerFunc

	MetricsHandler     http.Handler
	APIKey             string
	AdminAuthSecret    string
	CORSAllowedOrigins []string
	RateLimiter        *httpmiddleware.RateLimiter
	Production         bool
}

// New creates the chi router with every route configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.SecurityHeaders(cfg.Production))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	limited := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimiter != nil {
		limited = cfg.RateLimiter.Middleware
	}

	// Public endpoints (health, metrics, Twilio webhooks)
	r.Group(func(public chi.Router) {
		health := cfg.Health
		if health == nil {
			health = handlers.Health(nil, 0)
		}
		public.Get("/health", health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.Voice != nil {
			public.With(limited).Route("/webhooks/twilio", func(r chi.Router) {
				r.Post("/voice", cfg.Voice.Voice)
				r.Post("/status", cfg.Voice.Status)
				r.Post("/sms", cfg.Voice.SMS)
			})
		}
	})

	// API routes (shared API key)
	r.Route("/api", func(api chi.Router) {
		api.Use(limited)
		api.Use(httpmiddleware.APIKey(cfg.APIKey))
		api.Use(middleware.Compress(5))
		if cfg.Conversations != nil {
			api.Route("/conversations", func(r chi.Router) {
				r.Post("/", cfg.Conversations.Create)
				r.Post("/{id}/messages", cfg.Conversations.PostMessage)
				r.Get("/{id}", cfg.Conversations.Get)
				r.Delete("/{id}", cfg.Conversations.Reset)
			})
		}
		if cfg.Stats != nil {
			api.Method(http.MethodGet, "/stats", cfg.Stats)
		}
		if cfg.WebChat != nil {
			api.Post("/chat/message", cfg.WebChat.HandleMessage)
			api.Get("/chat/history", cfg.WebChat.HandleHistory)
		}
	})

	// Websocket clients pass the key as the api_key query parameter.
	r.Group(func(ws chi.Router) {
		ws.Use(httpmiddleware.APIKey(cfg.APIKey))
		if cfg.LiveFeed != nil {
			ws.Handle("/ws/live", cfg.LiveFeed)
		}
		if cfg.WebChat != nil {
			ws.Get("/ws/chat", cfg.WebChat.HandleWebSocket)
		}
	})

	// Operator routes (admin JWT)
	if cfg.Calls != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(limited)
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/calls", cfg.Calls.List)
			admin.Post("/calls/{id}/end", cfg.Calls.End)
		})
	}

	return r
}
