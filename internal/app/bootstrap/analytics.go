package bootstrap

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/scambait/internal/analytics"
	appconfig "github.com/wolfman30/scambait/internal/config"
	"github.com/wolfman30/scambait/pkg/logging"
)

// Sink names accepted in ANALYTICS_SINKS.
const (
	SinkCSV      = "csv"
	SinkPostgres = "postgres"
	SinkLive     = "live"
)

// BuildSinks wires the analytics sinks named in cfg. A sink whose backing
// resource is missing is skipped with a warning; an unknown name is an
// error.
func BuildSinks(cfg *appconfig.Config, pool *pgxpool.Pool, hub *analytics.LiveHub, logger *logging.Logger) (*analytics.Fanout, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	var sinks []analytics.Named
	for _, name := range cfg.AnalyticsSinks {
		switch strings.ToLower(name) {
		case SinkCSV:
			csvSink, err := analytics.NewCSVSink(cfg.AnalyticsCSVDir)
			if err != nil {
				return nil, fmt.Errorf("bootstrap: csv sink: %w", err)
			}
			sinks = append(sinks, analytics.Named{Name: SinkCSV, Sink: csvSink})
		case SinkPostgres:
			if pool == nil {
				logger.Warn("postgres sink requested without DATABASE_URL; skipping")
				continue
			}
			sinks = append(sinks, analytics.Named{Name: SinkPostgres, Sink: analytics.NewPostgresSink(pool)})
		case SinkLive:
			if hub == nil {
				logger.Warn("live sink requested without a hub; skipping")
				continue
			}
			sinks = append(sinks, analytics.Named{Name: SinkLive, Sink: hub})
		default:
			return nil, fmt.Errorf("bootstrap: unknown analytics sink %q", name)
		}
	}

	fanout := analytics.NewFanout(sinks...)
	logger.Info("analytics sinks configured", "sinks", fanout.Names())
	return fanout, nil
}

// BuildReportStore opens the read side of the analytics table, or returns
// nil when no database is configured.
func BuildReportStore(cfg *appconfig.Config) (*analytics.ReportStore, error) {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil
	}
	return analytics.OpenReportStore(cfg.DatabaseURL)
}
