package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/scambait/internal/calls"
	appconfig "github.com/wolfman30/scambait/internal/config"
	"github.com/wolfman30/scambait/internal/session"
	"github.com/wolfman30/scambait/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildPostgresPool opens the analytics pool. An empty URL disables it.
func BuildPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) (*pgxpool.Pool, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("bootstrap: ping postgres: %w", err)
	}
	logger.Info("postgres connected")
	return pool, nil
}

// BuildSessionStore returns the conversation store, backed by Redis
// snapshots when a client is available.
func BuildSessionStore(cfg *appconfig.Config, redisClient *redis.Client, logger *logging.Logger) *session.Store {
	if logger == nil {
		logger = logging.Default()
	}
	var opts []session.StoreOption
	if redisClient != nil {
		ttl := 2 * time.Hour
		if cfg != nil && cfg.SessionTTL > 0 {
			ttl = cfg.SessionTTL
		}
		opts = append(opts, session.WithPersister(session.NewRedisSnapshots(redisClient, ttl)))
		logger.Info("conversation snapshots enabled", "backend", "redis", "ttl", ttl.String())
	}
	return session.NewStore(logger, opts...)
}

// BuildCallTracker keeps active calls in Redis when available so every
// replica sees the same list.
func BuildCallTracker(redisClient *redis.Client) calls.Tracker {
	if redisClient == nil {
		return calls.NewMemoryTracker()
	}
	return calls.NewRedisTracker(redisClient)
}

// NewRand seeds from the clock when seed is zero.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
