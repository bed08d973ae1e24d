package calls

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const activeCallsKey = "calls:active"

// RedisTracker keeps active calls in a Redis hash so every replica sees
// the same set.
type RedisTracker struct {
	redis *redis.Client
	key   string
	now   func() time.Time
}

func NewRedisTracker(client *redis.Client) *RedisTracker {
	if client == nil {
		panic("calls: redis client cannot be nil")
	}
	return &RedisTracker{redis: client, key: activeCallsKey, now: time.Now}
}

func (t *RedisTracker) Start(ctx context.Context, call Call) error {
	call = normalize(call, t.now())
	if call.ID == "" {
		return ErrInvalidID
	}
	data, err := json.Marshal(call)
	if err != nil {
		return fmt.Errorf("calls: marshal call: %w", err)
	}
	if err := t.redis.HSetNX(ctx, t.key, call.ID, data).Err(); err != nil {
		return fmt.Errorf("calls: start call: %w", err)
	}
	return nil
}

func (t *RedisTracker) End(ctx context.Context, id string) (bool, error) {
	id = Sanitize(id, MaxIDLength)
	n, err := t.redis.HDel(ctx, t.key, id).Result()
	if err != nil {
		return false, fmt.Errorf("calls: end call: %w", err)
	}
	return n > 0, nil
}

func (t *RedisTracker) Active(ctx context.Context) ([]Call, error) {
	raw, err := t.redis.HGetAll(ctx, t.key).Result()
	if err != nil {
		return nil, fmt.Errorf("calls: list active: %w", err)
	}
	out := make([]Call, 0, len(raw))
	for id, v := range raw {
		var c Call
		if err := json.Unmarshal([]byte(v), &c); err != nil {
			return nil, fmt.Errorf("calls: decode call %s: %w", id, err)
		}
		out = append(out, c)
	}
	sortCalls(out)
	return out, nil
}
