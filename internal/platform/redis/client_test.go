package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regnet/internal/platform/config"
)

func TestNewWithoutURLIsDisabled(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNewRejectsMalformedURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisConfig{URL: "http://not-redis"})
	require.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	opts, err := redis.ParseURL("redis://localhost:6379/2")
	require.NoError(t, err)
	defaultPool := opts.PoolSize

	applyOverrides(opts, config.RedisConfig{MinIdleConns: 3, ReadTimeout: 2 * time.Second})

	assert.Equal(t, clientName, opts.ClientName)
	assert.Equal(t, defaultPool, opts.PoolSize)
	assert.Equal(t, 3, opts.MinIdleConns)
	assert.Equal(t, 2*time.Second, opts.ReadTimeout)
	assert.Equal(t, 2, opts.DB)
}
