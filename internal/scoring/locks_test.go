package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (l *KeyedLocker) liveKeys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sems)
}

func TestKeyedLockerDropsIdleKeys(t *testing.T) {
	l := NewKeyedLocker(20 * time.Millisecond)
	ctx := context.Background()

	for id := uint(1); id <= 50; id++ {
		unlock, err := l.Lock(ctx, matchKey(id))
		require.NoError(t, err)
		unlock()
	}
	assert.Zero(t, l.liveKeys())

	r1, err := l.RLock(ctx, matchKey(7))
	require.NoError(t, err)
	r2, err := l.RLock(ctx, matchKey(7))
	require.NoError(t, err)
	assert.Equal(t, 1, l.liveKeys(), "readers share one entry")

	_, err = l.Lock(ctx, matchKey(7))
	require.True(t, IsContention(err))
	assert.Equal(t, 1, l.liveKeys(), "a timed out writer leaves the readers' entry")

	r1()
	r1()
	assert.Equal(t, 1, l.liveKeys(), "a release func only counts once")
	r2()
	assert.Zero(t, l.liveKeys())

	w, err := l.Lock(ctx, tournamentKey(3))
	require.NoError(t, err)
	w()
	assert.Zero(t, l.liveKeys())
}
