package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseMutualExclusion(t *testing.T, l Locker) {
	t.Helper()
	var (
		wg      sync.WaitGroup
		inside  int32
		overlap int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "r1")
			if !assert.NoError(t, err) {
				return
			}
			if atomic.AddInt32(&inside, 1) > 1 {
				atomic.StoreInt32(&overlap, 1)
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(0), overlap)
}

func TestKeyedMutex_MutualExclusion(t *testing.T) {
	m := NewKeyedMutex()
	exerciseMutualExclusion(t, m)
	assert.Equal(t, 0, m.size())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	m := NewKeyedMutex()
	unlockA, err := m.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	unlockB, err := m.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestKeyedMutex_ContextCancelled(t *testing.T) {
	m := NewKeyedMutex()
	unlock, err := m.Lock(context.Background(), "r1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.Lock(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotAcquired)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Equal(t, 0, m.size())
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRedisLocker_MutualExclusion(t *testing.T) {
	_, client := setupTestRedis(t)
	exerciseMutualExclusion(t, NewRedisLocker(client, "review", 5*time.Second))
}

func TestRedisLocker_ReleaseOnlyOwnLock(t *testing.T) {
	mr, client := setupTestRedis(t)
	l := NewRedisLocker(client, "review", 5*time.Second)

	unlock, err := l.Lock(context.Background(), "r1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:review:r1"))

	// a different owner took over after expiry; our release must not delete it
	require.NoError(t, mr.Set("lock:review:r1", "someone-else"))
	unlock()
	assert.True(t, mr.Exists("lock:review:r1"))

	mr.Del("lock:review:r1")
	unlock2, err := l.Lock(context.Background(), "r1")
	require.NoError(t, err)
	unlock2()
	assert.False(t, mr.Exists("lock:review:r1"))
}

func TestRedisLocker_ContextCancelled(t *testing.T) {
	_, client := setupTestRedis(t)
	l := NewRedisLocker(client, "review", 5*time.Second)

	unlock, err := l.Lock(context.Background(), "r1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotAcquired)
}

func TestRedisLocker_RefreshesWhileHeld(t *testing.T) {
	mr, client := setupTestRedis(t)
	ttl := 300 * time.Millisecond
	l := NewRedisLocker(client, "review", ttl)

	unlock, err := l.Lock(context.Background(), "r1")
	require.NoError(t, err)

	// pretend the lock is about to expire; the holder must push it back out
	mr.SetTTL("lock:review:r1", time.Millisecond)
	assert.Eventually(t, func() bool {
		return mr.TTL("lock:review:r1") == ttl
	}, 2*time.Second, 10*time.Millisecond)

	mr.FastForward(ttl / 2)
	assert.Eventually(t, func() bool {
		return mr.TTL("lock:review:r1") == ttl
	}, 2*time.Second, 10*time.Millisecond)

	unlock()
	assert.False(t, mr.Exists("lock:review:r1"))
}

func TestRedisLocker_StopsRefreshingLostLock(t *testing.T) {
	mr, client := setupTestRedis(t)
	ttl := 60 * time.Millisecond
	l := NewRedisLocker(client, "review", ttl)

	unlock, err := l.Lock(context.Background(), "r1")
	require.NoError(t, err)

	require.NoError(t, mr.Set("lock:review:r1", "someone-else"))
	time.Sleep(3 * ttl)
	assert.Equal(t, time.Duration(0), mr.TTL("lock:review:r1"))

	v, err := mr.Get("lock:review:r1")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", v)
	unlock()
}
