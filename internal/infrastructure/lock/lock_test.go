package lock

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/config"
)

func TestPeriodKey(t *testing.T) {
	assert.Equal(t, "growthplan:period:2025-01", PeriodKey(planning.Period{Month: "January", Year: 2025}))
}

func TestLocalLocker_BusyKeyTimesOut(t *testing.T) {
	l := NewLocalLocker(20 * time.Millisecond)
	ctx := context.Background()

	release, err := l.Obtain(ctx, "k")
	require.NoError(t, err)

	_, err = l.Obtain(ctx, "k")
	assert.True(t, errors.Is(err, planning.ErrLocked))

	// Other keys are independent.
	releaseOther, err := l.Obtain(ctx, "other")
	require.NoError(t, err)
	require.NoError(t, releaseOther(ctx))

	require.NoError(t, release(ctx))
	release2, err := l.Obtain(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, release2(ctx))
}

func TestLocalLocker_ReleaseIsIdempotent(t *testing.T) {
	l := NewLocalLocker(10 * time.Millisecond)
	ctx := context.Background()

	release, err := l.Obtain(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx))

	_, err = l.Obtain(ctx, "k")
	require.NoError(t, err)
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	l := NewLocalLocker(time.Second)
	_, err := l.Obtain(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Obtain(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalLocker_SerializesHolders(t *testing.T) {
	l := NewLocalLocker(5 * time.Second)
	ctx := context.Background()

	var (
		inside int32
		maxIn  int32
		wg     sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Obtain(ctx, "period")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxIn)
				if n <= m || atomic.CompareAndSwapInt32(&maxIn, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			_ = release(ctx)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxIn)
}

func TestNew_DisabledRedisIsLocal(t *testing.T) {
	locker, closeFn, err := New(context.Background(), config.RedisConfig{Enabled: false, LockWait: time.Second})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &LocalLocker{}, locker)
}

// TestRedisLocker needs a running Redis; set REDIS_ADDRESS to enable it.
func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_ADDRESS not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx).Err())

	l := NewRedisLocker(rdb, 5*time.Second, 200*time.Millisecond)
	key := "growthplan:test:" + time.Now().Format(time.RFC3339Nano)

	release, err := l.Obtain(ctx, key)
	require.NoError(t, err)

	_, err = l.Obtain(ctx, key)
	assert.True(t, errors.Is(err, planning.ErrLocked))

	require.NoError(t, release(ctx))
	release2, err := l.Obtain(ctx, key)
	require.NoError(t, err)
	require.NoError(t, release2(ctx))
}

func TestProductKey(t *testing.T) {
	assert.Equal(t, "growthplan:ad-product:7", ProductKey(7))
}
