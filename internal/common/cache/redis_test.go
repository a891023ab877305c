package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"sme-predictor/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(addr string) config.RedisConfig {
	return config.RedisConfig{Enabled: true, Address: addr, KeyPrefix: "sme-test", TTL: 60}
}

func newMiniredisCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	cfg := testConfig(mr.Addr())
	c := NewSnapshotCache(NewRedis(cfg), cfg)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestSnapshotCache_SaveAndLoad(t *testing.T) {
	c, mr := newMiniredisCache(t)
	ctx := context.Background()
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, c.Ping(ctx))

	written, err := c.Save(ctx, issued, []byte(`{"total_predictions":7}`))
	require.NoError(t, err)
	assert.True(t, written)

	payload, at, err := c.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_predictions":7}`, string(payload))
	assert.True(t, issued.Equal(at))
	assert.Equal(t, time.Minute, mr.TTL("sme-test:dashboard:snapshot"))
}

func TestSnapshotCache_OlderSnapshotIsIgnored(t *testing.T) {
	c, _ := newMiniredisCache(t)
	ctx := context.Background()
	newer := time.Now()
	older := newer.Add(-time.Second)

	written, err := c.Save(ctx, newer, []byte(`"newer"`))
	require.NoError(t, err)
	require.True(t, written)

	written, err = c.Save(ctx, older, []byte(`"older"`))
	require.NoError(t, err)
	assert.False(t, written)

	payload, _, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `"newer"`, string(payload))
}

func TestSnapshotCache_LoadMiss(t *testing.T) {
	c, _ := newMiniredisCache(t)

	_, _, err := c.Load(context.Background())
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSnapshotCache_Errors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewSnapshotCache(db, testConfig("unused"))
	ctx := context.Background()

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	err := c.Ping(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")

	mock.ExpectHGetAll("sme-test:dashboard:snapshot").SetErr(errors.New("timeout"))
	_, _, err = c.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load snapshot")

	mock.ExpectHGetAll("sme-test:dashboard:snapshot").SetVal(map[string]string{
		"payload":   "{}",
		"issued_at": "not-a-number",
	})
	_, _, err = c.Load(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, redis.Nil)

	assert.NoError(t, mock.ExpectationsWereMet())
}
