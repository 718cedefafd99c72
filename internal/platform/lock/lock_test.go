package lock

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestLocal_SerializesSameKey(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	var mu sync.Mutex
	inside, maxInside := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(ctx, "org_1")
			require.NoError(t, err)
			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			require.NoError(t, unlock(ctx))
		}()
	}
	wg.Wait()
	require.Equal(t, 1, maxInside)
	require.Empty(t, l.slots)
}

func TestLocal_DistinctKeysDoNotBlock(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()
	u1, err := l.Lock(ctx, "a")
	require.NoError(t, err)
	u2, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, u1(ctx))
	require.NoError(t, u2(ctx))
}

func TestLocal_ContextCancelled(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "a")
	require.True(t, errors.Is(err, ErrNotAcquired))

	require.NoError(t, unlock(context.Background()))
	require.NoError(t, unlock(context.Background()))

	again, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	require.NoError(t, again(context.Background()))
}

func TestRedis_LockUnlock(t *testing.T) {
	url := os.Getenv("APP_REDIS_URL")
	if url == "" {
		t.Skip("APP_REDIS_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opt)
	defer client.Close()
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unavailable: %v", err)
	}

	r := NewRedis(client, 2*time.Second)
	unlock, err := r.Lock(ctx, "test/lock")
	require.NoError(t, err)

	shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = r.Lock(shortCtx, "test/lock")
	require.True(t, errors.Is(err, ErrNotAcquired))

	require.NoError(t, unlock(ctx))
	unlock, err = r.Lock(ctx, "test/lock")
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}
