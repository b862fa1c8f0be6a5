package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "roles:admin", []string{"admin", "lecture"}, time.Minute))

	var roles []string
	found, err := c.Get(ctx, "roles:admin", &roles)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"admin", "lecture"}, roles)
}

func TestRedisCache_GetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var roles []string
	found, err := c.Get(context.Background(), "roles:nobody", &roles)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, roles)
}

func TestRedisCache_TTLExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Second))
	mr.FastForward(2 * time.Second)

	var v string
	found, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_DeletePattern(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "roles:a", []string{"admin"}, 0))
	require.NoError(t, c.Set(ctx, "roles:b", []string{"lecture"}, 0))
	require.NoError(t, c.Set(ctx, "other", 1, 0))

	require.NoError(t, c.DeletePattern(ctx, "roles:*"))

	assert.False(t, mr.Exists("roles:a"))
	assert.False(t, mr.Exists("roles:b"))
	assert.True(t, mr.Exists("other"))
}

func TestRedisCache_IncrementExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	n, err := c.Increment(ctx, "login:failed:admin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Increment(ctx, "login:failed:admin")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, c.Expire(ctx, "login:failed:admin", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("login:failed:admin"))

	var count int
	found, err := c.Get(ctx, "login:failed:admin", &count)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, count)
}

func TestRedisCache_Ping(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	c := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	assert.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
