package scoring

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts scoring activity. A nil *Metrics records nothing.
type Metrics struct {
	ballsRecorded    *prometheus.CounterVec
	oversClosed      *prometheus.CounterVec
	matchesCompleted *prometheus.CounterVec
	lockContention   *prometheus.CounterVec
	pointsRecomputed prometheus.Counter
}

// NewMetrics creates the scoring collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ballsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scoring",
			Name:      "balls_recorded_total",
			Help:      "Deliveries appended to the ledger.",
		}, []string{"legal"}),
		oversClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scoring",
			Name:      "overs_closed_total",
			Help:      "Overs closed, by how they were closed.",
		}, []string{"reason"}),
		matchesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scoring",
			Name:      "matches_completed_total",
			Help:      "Matches moved to completed, by outcome.",
		}, []string{"outcome"}),
		lockContention: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scoring",
			Name:      "lock_contention_total",
			Help:      "Lock acquisitions that timed out.",
		}, []string{"scope"}),
		pointsRecomputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scoring",
			Name:      "points_table_recalculations_total",
			Help:      "Full points table recalculations.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.ballsRecorded, m.oversClosed, m.matchesCompleted, m.lockContention, m.pointsRecomputed)
	}
	return m
}

func (m *Metrics) ballRecorded(legal bool) {
	if m == nil {
		return
	}
	label := "false"
	if legal {
		label = "true"
	}
	m.ballsRecorded.WithLabelValues(label).Inc()
}

func (m *Metrics) overClosed(reason string) {
	if m == nil {
		return
	}
	m.oversClosed.WithLabelValues(reason).Inc()
}

func (m *Metrics) matchCompleted(r *MatchResult) {
	if m == nil {
		return
	}
	outcome := "won"
	switch {
	case r.IsAbandoned:
		outcome = "abandoned"
	case r.IsTie:
		outcome = "tie"
	}
	m.matchesCompleted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) contended(key string) {
	if m == nil {
		return
	}
	scope, _, _ := strings.Cut(key, ":")
	m.lockContention.WithLabelValues(scope).Inc()
}

func (m *Metrics) pointsTableRecalculated() {
	if m == nil {
		return
	}
	m.pointsRecomputed.Inc()
}
