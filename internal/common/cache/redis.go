// internal/common/cache/redis.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"sme-predictor/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Load when nothing has been stored yet.
var ErrMiss = errors.New("CACHE_MISS")

// saveIfNewer writes the payload only when its issue time is newer than the
// stored one. Returns 1 when written, 0 when the stored entry is newer.
var saveIfNewer = redis.NewScript(`
local current = redis.call("HGET", KEYS[1], "issued_at")
if current and tonumber(current) >= tonumber(ARGV[1]) then
  return 0
end
redis.call("HSET", KEYS[1], "issued_at", ARGV[1], "payload", ARGV[2])
if tonumber(ARGV[3]) > 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[3])
end
return 1
`)

// SnapshotCache keeps the newest serialized dashboard snapshot in Redis.
type SnapshotCache struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedis creates a Redis client from configuration.
func NewRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

func NewSnapshotCache(client redis.UniversalClient, cfg config.RedisConfig) *SnapshotCache {
	return &SnapshotCache{
		client: client,
		key:    cfg.GetKey("dashboard:snapshot"),
		ttl:    time.Duration(cfg.TTL) * time.Second,
	}
}

// Ping tests the Redis connection
func (c *SnapshotCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Save stores payload when issuedAt is newer than the cached entry and
// reports whether it was written.
func (c *SnapshotCache) Save(ctx context.Context, issuedAt time.Time, payload []byte) (bool, error) {
	res, err := saveIfNewer.Run(ctx, c.client, []string{c.key},
		issuedAt.UnixNano(), payload, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("save snapshot: %w", err)
	}
	return res == 1, nil
}

// Load returns the cached payload and its issue time.
func (c *SnapshotCache) Load(ctx context.Context) ([]byte, time.Time, error) {
	fields, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load snapshot: %w", err)
	}
	payload, ok := fields["payload"]
	if !ok {
		return nil, time.Time{}, ErrMiss
	}

	nanos, err := strconv.ParseInt(fields["issued_at"], 10, 64)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load snapshot: bad issue time %q: %w", fields["issued_at"], err)
	}
	return []byte(payload), time.Unix(0, nanos).UTC(), nil
}

// Close closes the Redis connection
func (c *SnapshotCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
