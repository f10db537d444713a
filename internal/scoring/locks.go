package scoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// readerSlots bounds concurrent shared holders of one key. A writer takes
// every slot, so it waits for readers to drain and blocks new ones.
const readerSlots = 64

// DefaultLockTimeout bounds how long an operation waits for a match or
// tournament lock before failing with a Contention error.
const DefaultLockTimeout = 2 * time.Second

// KeyedLocker hands out shared/exclusive locks per key with a bounded wait.
// A key's semaphore lives only while someone holds or waits for it.
type KeyedLocker struct {
	mu      sync.Mutex
	sems    map[string]*keyedSem
	timeout time.Duration
	onBusy  func(key string)
}

type keyedSem struct {
	sem  *semaphore.Weighted
	refs int
}

func NewKeyedLocker(timeout time.Duration) *KeyedLocker {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &KeyedLocker{
		sems:    make(map[string]*keyedSem),
		timeout: timeout,
	}
}

func (l *KeyedLocker) ref(key string) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	ks, ok := l.sems[key]
	if !ok {
		ks = &keyedSem{sem: semaphore.NewWeighted(readerSlots)}
		l.sems[key] = ks
	}
	ks.refs++
	return ks.sem
}

func (l *KeyedLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ks, ok := l.sems[key]
	if !ok {
		return
	}
	ks.refs--
	if ks.refs <= 0 {
		delete(l.sems, key)
	}
}

// Lock takes key exclusively. The returned func releases it.
func (l *KeyedLocker) Lock(ctx context.Context, key string) (func(), error) {
	return l.acquire(ctx, key, readerSlots)
}

// RLock takes key in shared mode. The returned func releases it.
func (l *KeyedLocker) RLock(ctx context.Context, key string) (func(), error) {
	return l.acquire(ctx, key, 1)
}

func (l *KeyedLocker) acquire(ctx context.Context, key string, weight int64) (func(), error) {
	s := l.ref(key)
	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := s.Acquire(waitCtx, weight); err != nil {
		l.unref(key)
		if l.onBusy != nil {
			l.onBusy(key)
		}
		return nil, contention(key, err)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			s.Release(weight)
			l.unref(key)
		})
	}, nil
}

func matchKey(id uint) string {
	return fmt.Sprintf("match:%d", id)
}

func tournamentKey(id uint) string {
	return fmt.Sprintf("tournament:%d", id)
}
