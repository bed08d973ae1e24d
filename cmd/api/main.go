package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/scambait/cmd/mainconfig"
	"github.com/wolfman30/scambait/internal/analytics"
	"github.com/wolfman30/scambait/internal/api/router"
	"github.com/wolfman30/scambait/internal/app/bootstrap"
	"github.com/wolfman30/scambait/internal/catalog"
	appconfig "github.com/wolfman30/scambait/internal/config"
	"github.com/wolfman30/scambait/internal/engine"
	"github.com/wolfman30/scambait/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/scambait/internal/http/middleware"
	"github.com/wolfman30/scambait/internal/observability/metrics"
	"github.com/wolfman30/scambait/internal/voice"
	"github.com/wolfman30/scambait/internal/webchat"
	"github.com/wolfman30/scambait/pkg/logging"
)

func main() {
	// .env is optional.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting scambait API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}

	pool, err := bootstrap.BuildPostgresPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Warn("postgres unavailable; analytics table disabled", "error", err)
	}
	if pool != nil {
		defer pool.Close()
	}

	reportStore, err := bootstrap.BuildReportStore(cfg)
	if err != nil {
		logger.Warn("report store unavailable", "error", err)
	}
	var reporter handlers.Reporter
	if reportStore != nil {
		defer reportStore.Close()
		reporter = reportStore
	}

	hub := analytics.NewLiveHub(logger, cfg.CORSAllowedOrigins)
	defer hub.Close()

	sinks, err := bootstrap.BuildSinks(cfg, pool, hub, logger)
	if err != nil {
		logger.Error("failed to configure analytics sinks", "error", err)
		os.Exit(1)
	}

	metricsHandler, engineMetrics := setupMetrics()

	store := bootstrap.BuildSessionStore(cfg, redisClient, logger)

	tracker := bootstrap.BuildCallTracker(redisClient)
	cat := catalog.New(bootstrap.NewRand(cfg.RandomSeed))
	eng := engine.New(store, logger,
		engine.WithSink(sinks),
		engine.WithCatalog(cat),
		engine.WithCallTracker(tracker),
		engine.WithMetrics(engineMetrics),
		engine.WithRand(bootstrap.NewRand(cfg.RandomSeed)),
	)

	go eng.RunSweeper(ctx, time.Minute, cfg.SessionTTL)

	archiver, err := newArchiver(ctx, cfg, logger)
	if err != nil {
		logger.Warn("csv archive disabled", "error", err)
	}
	if archiver.Enabled() {
		go archiver.Run(ctx, cfg.ArchiveInterval)
	}

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.RunEviction(ctx, 5*time.Minute, 10*time.Minute)

	voiceHandler := voice.NewHandler(eng, cat, voice.Config{
		AuthToken:     cfg.TwilioAuthToken,
		PublicBaseURL: cfg.PublicBaseURL,
	}, engineMetrics, logger)
	if cfg.TwilioAuthToken == "" {
		logger.Warn("TWILIO_AUTH_TOKEN not set; webhook signatures are not verified")
	}

	r := router.New(&router.Config{
		Logger:             logger,
		Voice:              voiceHandler,
		Conversations:      handlers.NewConversationsHandler(eng, logger),
		Stats:              handlers.NewStatsHandler(reporter, tracker, eng, logger),
		Calls:              handlers.NewCallsHandler(eng, tracker, logger),
		WebChat:            webchat.NewHandler(eng, logger),
		LiveFeed:           hub,
		Health:             handlers.Health(buildHealthChecks(redisClient, pool), 2*time.Second),
		MetricsHandler:     metricsHandler,
		APIKey:             cfg.APIKey,
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
		Production:         cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped", "active_conversations", store.Len())
	fmt.Println("Server exited gracefully")
}

// setupMetrics registers the engine collectors on a private registry.
func setupMetrics() (http.Handler, *metrics.EngineMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewEngineMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), m
}

// newArchiver returns nil when no bucket is configured.
func newArchiver(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*analytics.Archiver, error) {
	if cfg.ArchiveBucket == "" {
		return nil, nil
	}
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := mainconfig.NewS3Client(awsCfg, cfg)
	return analytics.NewArchiver(client, cfg.ArchiveBucket, cfg.AnalyticsCSVDir, logger), nil
}

func buildHealthChecks(redisClient *redis.Client, pool *pgxpool.Pool) map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	if pool != nil {
		checks["postgres"] = pool.Ping
	}
	return checks
}
