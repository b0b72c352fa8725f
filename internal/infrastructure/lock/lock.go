// Package lock serializes work on a planning period. A Redis-backed locker
// coordinates several API instances; the local locker covers a single process.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
)

// Release frees a lock obtained from a Locker.
type Release func(ctx context.Context) error

// Locker hands out exclusive locks by key. Obtain waits up to the locker's
// configured wait and then fails with planning.ErrLocked.
type Locker interface {
	Obtain(ctx context.Context, key string) (Release, error)
}

// PeriodKey is the lock key of a planning period.
func PeriodKey(p planning.Period) string {
	return "growthplan:period:" + p.Key()
}

// ProductKey is the lock key of one ad product entry's daily plan.
func ProductKey(adProductEntryID int64) string {
	return fmt.Sprintf("growthplan:ad-product:%d", adProductEntryID)
}

// LocalLocker is an in-process Locker.
type LocalLocker struct {
	wait time.Duration

	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocalLocker returns a locker that waits at most wait for a busy key.
func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{
		wait:  wait,
		slots: make(map[string]chan struct{}),
	}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

// Obtain implements Locker.
func (l *LocalLocker) Obtain(ctx context.Context, key string) (Release, error) {
	ch := l.slot(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, lockedError(key)
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-ch })
		return nil
	}, nil
}

// Compile-time checks
var (
	_ Locker = (*LocalLocker)(nil)
	_ Locker = (*RedisLocker)(nil)
)
