package feedcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient("not-a-redis-url")
	assert.Error(t, err)
}

func TestRedisCache_UnreachableServerIsAMiss(t *testing.T) {
	rdb, err := NewRedisClient("redis://127.0.0.1:1/0")
	require.NoError(t, err)
	defer rdb.Close()

	cache := NewRedisCache(rdb, time.Minute)
	cache.Set(context.Background(), "k", []byte(`{"celo":{"usd":0.8}}`))

	_, ok := cache.Get(context.Background(), "k", time.Minute)
	assert.False(t, ok)
}

func TestRedisCache_ZeroMaxAgeSkipsRedis(t *testing.T) {
	cache := NewRedisCache(nil, time.Minute)

	_, ok := cache.Get(context.Background(), "k", 0)
	assert.False(t, ok)
}
