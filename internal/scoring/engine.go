package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultMinOvers = 2
	DefaultMaxOvers = 50
)

// Engine runs the scoring state machine for every match and tournament. All
// mutations of one match are serialized by a per-match lock; points table
// recomputations are serialized per tournament.
type Engine struct {
	store   Store
	roster  Roster
	invites ScorerInvitations
	locks   *KeyedLocker
	metrics *Metrics
	logger  zerolog.Logger
	now     func() time.Time

	lockTimeout time.Duration
	minOvers    int
	maxOvers    int
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLockTimeout(d time.Duration) Option {
	return func(e *Engine) { e.lockTimeout = d }
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithOversRange bounds the over quota accepted when creating or editing a match.
func WithOversRange(minOvers, maxOvers int) Option {
	return func(e *Engine) {
		e.minOvers = minOvers
		e.maxOvers = maxOvers
	}
}

// NewEngine creates an Engine over the given store and roster collaborators.
func NewEngine(store Store, roster Roster, invites ScorerInvitations, opts ...Option) *Engine {
	e := &Engine{
		store:       store,
		roster:      roster,
		invites:     invites,
		logger:      zerolog.Nop(),
		now:         time.Now,
		lockTimeout: DefaultLockTimeout,
		minOvers:    DefaultMinOvers,
		maxOvers:    DefaultMaxOvers,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.locks = NewKeyedLocker(e.lockTimeout)
	e.locks.onBusy = e.metrics.contended
	e.logger = e.logger.With().Str("component", "scoring").Logger()
	return e
}

// mutateMatch runs fn under the exclusive match lock inside one transaction.
func (e *Engine) mutateMatch(ctx context.Context, matchID uint, fn func(Store) error) error {
	unlock, err := e.locks.Lock(ctx, matchKey(matchID))
	if err != nil {
		e.logger.Warn().Uint("match_id", matchID).Err(err).Msg("match lock busy")
		return err
	}
	defer unlock()
	return e.store.WithTx(ctx, fn)
}

// readMatch runs fn under the shared match lock.
func (e *Engine) readMatch(ctx context.Context, matchID uint, fn func() error) error {
	unlock, err := e.locks.RLock(ctx, matchKey(matchID))
	if err != nil {
		return err
	}
	defer unlock()
	return fn()
}

func (e *Engine) stamp() *time.Time {
	t := e.now().UTC()
	return &t
}

func loadMatch(ctx context.Context, s Store, id uint) (*Match, error) {
	m, err := s.GetMatch(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, notFound("match %d not found", id)
		}
		return nil, fmt.Errorf("load match %d: %w", id, err)
	}
	return m, nil
}

// requireScorer checks that callerID is the match's assigned scorer.
func requireScorer(m *Match, callerID uint) error {
	if m.ScorerID == nil {
		return precondition("match %d has no scorer assigned", m.ID)
	}
	if *m.ScorerID != callerID {
		return forbidden("only the assigned scorer may score match %d", m.ID)
	}
	return nil
}

func requireCreator(m *Match, callerID uint) error {
	if m.CreatedByUserID != callerID {
		return forbidden("only the creator may change match %d", m.ID)
	}
	return nil
}

func requireStatus(m *Match, want MatchStatus) error {
	if m.Status != want {
		return precondition("match %d is %s, expected %s", m.ID, m.Status, want)
	}
	return nil
}
