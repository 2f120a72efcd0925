package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/chit-ledger/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLock(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *GroupLock) {
	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter(t.Name(), "chit:", &redis.Options{Addrs: []string{mr.Addr()}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = adapter.Close() })
	return mr, NewGroupLock(adapter, ttl)
}

func TestGroupLock_Exclusive(t *testing.T) {
	mr, l := setupLock(t, time.Minute)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("chit:lock:group:g1"))

	_, err = l.Acquire(ctx, "g1")
	assert.ErrorIs(t, err, ErrLocked)

	other, err := l.Acquire(ctx, "g2")
	require.NoError(t, err)
	other()

	release()
	assert.False(t, mr.Exists("chit:lock:group:g1"))

	again, err := l.Acquire(ctx, "g1")
	require.NoError(t, err)
	again()
}

func TestGroupLock_ExpiresAfterTTL(t *testing.T) {
	mr, l := setupLock(t, 2*time.Second)
	ctx := context.Background()

	stale, err := l.Acquire(ctx, "g1")
	require.NoError(t, err)

	mr.FastForward(3 * time.Second)

	fresh, err := l.Acquire(ctx, "g1")
	require.NoError(t, err)

	// the stale holder must not drop the new holder's lock
	stale()
	assert.True(t, mr.Exists("chit:lock:group:g1"))

	fresh()
	assert.False(t, mr.Exists("chit:lock:group:g1"))
}

func TestGroupLock_RedisDown(t *testing.T) {
	mr, l := setupLock(t, time.Second)
	mr.Close()

	_, err := l.Acquire(context.Background(), "g1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocked)
}

func TestNewGroupLock_DefaultTTL(t *testing.T) {
	l := NewGroupLock(nil, 0)
	assert.Equal(t, DefaultTTL, l.ttl)
}
