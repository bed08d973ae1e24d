package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultSnapshotTTL = 2 * time.Hour

// RedisSnapshots persists conversation snapshots as JSON with a TTL.
type RedisSnapshots struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisSnapshots creates a redis-backed persister.
func NewRedisSnapshots(client *redis.Client, ttl time.Duration) *RedisSnapshots {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &RedisSnapshots{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("scambait.internal.session.redis"),
	}
}

func (r *RedisSnapshots) Save(ctx context.Context, snap Snapshot) error {
	ctx, span := r.tracer.Start(ctx, "session.save_snapshot")
	defer span.End()

	data, err := json.Marshal(snap)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal snapshot: %w", err)
	}
	if err := r.redis.Set(ctx, snapshotKey(snap.ConversationID), data, r.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist snapshot: %w", err)
	}
	return nil
}

func (r *RedisSnapshots) Load(ctx context.Context, conversationID string) (Snapshot, bool, error) {
	ctx, span := r.tracer.Start(ctx, "session.load_snapshot")
	defer span.End()

	data, err := r.redis.Get(ctx, snapshotKey(conversationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, false, nil
		}
		span.RecordError(err)
		return Snapshot{}, false, fmt.Errorf("session: failed to load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		span.RecordError(err)
		return Snapshot{}, false, fmt.Errorf("session: failed to decode snapshot: %w", err)
	}
	return snap, true, nil
}

func (r *RedisSnapshots) Delete(ctx context.Context, conversationID string) error {
	if err := r.redis.Del(ctx, snapshotKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("session: failed to delete snapshot: %w", err)
	}
	return nil
}

func snapshotKey(id string) string {
	return fmt.Sprintf("conversation:%s", id)
}
