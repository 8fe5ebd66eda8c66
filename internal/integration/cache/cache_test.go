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

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestPayoutLock(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	lock := NewPayoutLock(client)

	release, ok, err := lock.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Minute, mr.TTL(PayoutLockKey))

	_, ok, err = lock.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must be refused")

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists(PayoutLockKey))

	_, ok, err = lock.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPayoutLock_ReleaseAfterExpiryKeepsNewHolder(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	lock := NewPayoutLock(client)

	release, ok, err := lock.Acquire(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)
	_, ok, err = lock.Acquire(ctx, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	assert.ErrorIs(t, release(ctx), ErrLockLost)
	assert.True(t, mr.Exists(PayoutLockKey))
}

func TestTokenCache(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	tokens := NewTokenCache(client, "mpesa:token:")

	_, ok, err := tokens.Get(ctx, "consumer")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, tokens.Set(ctx, "consumer", "abc123", time.Hour))
	token, ok, err := tokens.Get(ctx, "consumer")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)
	assert.True(t, mr.Exists("mpesa:token:consumer"))

	mr.FastForward(time.Hour + time.Second)
	_, ok, err = tokens.Get(ctx, "consumer")
	require.NoError(t, err)
	assert.False(t, ok)
}
