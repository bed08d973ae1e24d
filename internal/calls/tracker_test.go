package calls

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "scriptalert(1)/script", Sanitize(`<script>alert(1)</script>`, 0))
	assert.Equal(t, "+1555", Sanitize("+1555\x00\n", 0))
	assert.Equal(t, "abc", Sanitize("abcdef", 3))
	assert.Equal(t, "héllo", Sanitize("h\"é'llo&", 10))
}

func TestCallDuration(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Call{StartedAt: start}
	assert.Equal(t, 90*time.Second, c.Duration(start.Add(90*time.Second)))
	assert.Zero(t, c.Duration(start.Add(-time.Second)))
	assert.Zero(t, Call{}.Duration(start))
}

func exerciseTracker(t *testing.T, tr Tracker) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, tr.Start(ctx, Call{ID: "CA2", PhoneNumber: "+15550002", StartedAt: base.Add(time.Minute)}))
	require.NoError(t, tr.Start(ctx, Call{ID: "CA1", PhoneNumber: "<+15550001>", ScamType: "irs", StartedAt: base}))
	// restarting keeps the first start time
	require.NoError(t, tr.Start(ctx, Call{ID: "CA1", StartedAt: base.Add(time.Hour)}))
	assert.ErrorIs(t, tr.Start(ctx, Call{ID: "<>"}), ErrInvalidID)

	active, err := tr.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "CA1", active[0].ID)
	assert.Equal(t, "+15550001", active[0].PhoneNumber)
	assert.Equal(t, "irs", active[0].ScamType)
	assert.True(t, base.Equal(active[0].StartedAt))
	assert.Equal(t, "Unknown", active[1].ScamType)

	ended, err := tr.End(ctx, "CA1")
	require.NoError(t, err)
	assert.True(t, ended)
	ended, err = tr.End(ctx, "CA1")
	require.NoError(t, err)
	assert.False(t, ended)

	active, err = tr.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "CA2", active[0].ID)
}

func TestMemoryTracker(t *testing.T) {
	exerciseTracker(t, NewMemoryTracker())
}

func TestRedisTracker(t *testing.T) {
	client, mr := setupTestRedis(t)
	exerciseTracker(t, NewRedisTracker(client))
	assert.True(t, mr.Exists(activeCallsKey))
}

func TestRedisTrackerDecodeError(t *testing.T) {
	client, mr := setupTestRedis(t)
	mr.HSet(activeCallsKey, "CA9", "{not json")
	_, err := NewRedisTracker(client).Active(context.Background())
	assert.Error(t, err)
}

func TestRedisTrackerRequiresClient(t *testing.T) {
	assert.Panics(t, func() { NewRedisTracker(nil) })
}
