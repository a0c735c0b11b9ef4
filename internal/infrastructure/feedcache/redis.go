package feedcache

import (
	"context"
	"encoding/binary"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "cashout:feed:"

// RedisCache shares cached responses between service replicas. Each value is
// prefixed with its store time in unix nanoseconds so maxAge can be checked
// independently of the key TTL.
type RedisCache struct {
	rdb       *redis.Client
	retention time.Duration
	timeout   time.Duration
	now       func() time.Time
}

func NewRedisCache(rdb *redis.Client, retention time.Duration) *RedisCache {
	return &RedisCache{
		rdb:       rdb,
		retention: retention,
		timeout:   100 * time.Millisecond,
		now:       time.Now,
	}
}

// NewRedisClient parses a redis:// URL into a client with short timeouts.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	opt.DialTimeout = 2 * time.Second
	opt.ReadTimeout = 500 * time.Millisecond
	opt.WriteTimeout = 500 * time.Millisecond
	return redis.NewClient(opt), nil
}

func (c *RedisCache) Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool) {
	if maxAge <= 0 {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("feed cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	if len(raw) < 8 {
		return nil, false
	}
	storedAt := time.Unix(0, int64(binary.BigEndian.Uint64(raw[:8])))
	if c.now().Sub(storedAt) > maxAge {
		return nil, false
	}
	return raw[8:], true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	buf := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(buf[:8], uint64(c.now().UnixNano()))
	copy(buf[8:], value)

	if err := c.rdb.Set(ctx, redisKeyPrefix+key, buf, c.retention).Err(); err != nil {
		slog.Warn("feed cache write failed", "key", key, "error", err)
	}
}
