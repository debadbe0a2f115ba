package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisCache_NilIsEmpty(t *testing.T) {
	var c *RedisCache
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "http://nope", "")
	assert.Error(t, err)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	c, err := NewRedisCache(ctx, url, "")
	require.NoError(t, err)
	defer c.Close()

	_, ok, err := c.Get(ctx, "reports")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "reports", []byte(`{"top_books":[]}`), time.Minute))
	val, ok, err := c.Get(ctx, "reports")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"top_books":[]}`, string(val))

	require.NoError(t, c.Delete(ctx, "reports"))
	_, ok, err = c.Get(ctx, "reports")
	require.NoError(t, err)
	assert.False(t, ok)
}
