package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	c := New("", "", 0)
	assert.Nil(t, c)
	assert.False(t, c.Enabled())

	n, err := c.Hit(context.Background(), "login:127.0.0.1", time.Minute)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}

func TestNewWithAddr(t *testing.T) {
	c := New("127.0.0.1:0", "", 0)
	assert.True(t, c.Enabled())
	assert.NoError(t, c.Close())
}

func TestHitFixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	defer c.Close()
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	for want := int64(1); want <= 3; want++ {
		n, err := c.Hit(ctx, "login:10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	// 计数与过期一起建立，不会出现无 TTL 的 key
	assert.Equal(t, time.Minute, mr.TTL("login:10.0.0.1"))

	mr.FastForward(time.Minute)
	assert.False(t, mr.Exists("login:10.0.0.1"))
	n, err := c.Hit(ctx, "login:10.0.0.1", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestHitRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	defer c.Close()
	mr.Close()

	_, err := c.Hit(context.Background(), "login:10.0.0.1", time.Minute)
	assert.Error(t, err)
}
