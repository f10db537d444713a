package scoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	f := newFixture(t, WithMetrics(metrics), WithLockTimeout(20*time.Millisecond))

	playChase(f, nil)

	assert.Equal(t, 14.0, testutil.ToFloat64(metrics.ballsRecorded.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.oversClosed.WithLabelValues("six_balls")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.oversClosed.WithLabelValues("inning_end")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.matchesCompleted.WithLabelValues("won")))

	m := f.createMatch(20, nil)
	unlock, err := f.engine.locks.Lock(f.ctx, matchKey(m.ID))
	require.NoError(t, err)
	_, err = f.engine.StartMatch(f.ctx, m.ID, creatorID)
	unlock()
	require.True(t, IsContention(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.lockContention.WithLabelValues("match")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ballRecorded(true) })
}
