package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycflow/internal/platform/config"
)

func TestNew(t *testing.T) {
	t.Run("no url disables the client", func(t *testing.T) {
		client, err := New(context.Background(), config.RedisConfig{})
		require.NoError(t, err)
		assert.Nil(t, client)
	})

	t.Run("malformed url", func(t *testing.T) {
		client, err := New(context.Background(), config.RedisConfig{URL: "http://not-redis"})
		require.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), "parse redis URL")
	})
}

func TestApplyPoolSettings(t *testing.T) {
	opts, err := redis.ParseURL("redis://localhost:6379/0?pool_size=4&dial_timeout=2s")
	require.NoError(t, err)

	applyPoolSettings(opts, config.RedisConfig{MinIdleConns: 2, ReadTimeout: time.Second})

	assert.Equal(t, 4, opts.PoolSize, "URL value kept when config is unset")
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
	assert.Equal(t, 2, opts.MinIdleConns)
	assert.Equal(t, time.Second, opts.ReadTimeout)
}
