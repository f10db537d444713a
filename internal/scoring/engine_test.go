package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	creatorID uint = 900
	team1     uint = 1
	team2     uint = 2
)

type fakeRoster struct {
	members map[uint][]uint
}

// newFakeRoster gives each team n players numbered team*100+1 upward.
func newFakeRoster(n int) *fakeRoster {
	r := &fakeRoster{members: make(map[uint][]uint)}
	for _, team := range []uint{team1, team2} {
		for i := 1; i <= n; i++ {
			r.members[team] = append(r.members[team], team*100+uint(i))
		}
	}
	return r
}

func (r *fakeRoster) IsMember(_ context.Context, _, teamID, playerID uint) (bool, error) {
	for _, id := range r.members[teamID] {
		if id == playerID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRoster) Size(_ context.Context, _, teamID uint) (int, error) {
	return len(r.members[teamID]), nil
}

type fakeInvites map[uint]bool

func (f fakeInvites) HasAccepted(_ context.Context, _, scorerID uint) (bool, error) {
	return f[scorerID], nil
}

type fixture struct {
	t       *testing.T
	ctx     context.Context
	store   *MemoryStore
	roster  *fakeRoster
	invites fakeInvites
	engine  *Engine
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		t:       t,
		ctx:     context.Background(),
		store:   NewMemoryStore(),
		roster:  newFakeRoster(11),
		invites: fakeInvites{},
	}
	clock := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	opts = append([]Option{WithClock(func() time.Time { return clock })}, opts...)
	f.engine = NewEngine(f.store, f.roster, f.invites, opts...)
	return f
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) createMatch(overs int, tournamentID *uint) *Match {
	f.t.Helper()
	m, err := f.engine.CreateMatch(f.ctx, creatorID, CreateMatchInput{
		TournamentID: tournamentID,
		Team1ID:      team1,
		Team2ID:      team2,
		Overs:        overs,
		ScheduledAt:  time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC),
		ScorerID:     ptr(creatorID),
	})
	require.NoError(f.t, err)
	return m
}

// inProgress returns a match where team1 won the toss and bats first.
func (f *fixture) inProgress(overs int, tournamentID *uint) *Match {
	f.t.Helper()
	m := f.createMatch(overs, tournamentID)
	_, err := f.engine.StartMatch(f.ctx, m.ID, creatorID)
	require.NoError(f.t, err)
	m, err = f.engine.RecordToss(f.ctx, m.ID, creatorID, team1, TossBat)
	require.NoError(f.t, err)
	return m
}

func (f *fixture) openOver(m *Match, inning, number int, bowler uint, openers ...uint) *Over {
	f.t.Helper()
	in := OpenOverInput{InningNumber: inning, OverNumber: number, BowlerID: bowler}
	if len(openers) == 2 {
		in.StrikerID, in.NonStrikerID = &openers[0], &openers[1]
	}
	o, err := f.engine.OpenOver(f.ctx, m.ID, creatorID, in)
	require.NoError(f.t, err)
	return o
}

func (f *fixture) ball(m *Match, d Delivery) *Ball {
	f.t.Helper()
	b, err := f.engine.RecordBall(f.ctx, m.ID, creatorID, BallInput{Delivery: d})
	require.NoError(f.t, err)
	return b
}

func (f *fixture) dots(m *Match, n int) {
	f.t.Helper()
	for i := 0; i < n; i++ {
		f.ball(m, Delivery{})
	}
}

func (f *fixture) overs(m *Match) []Over {
	f.t.Helper()
	overs, err := f.store.ListOvers(f.ctx, m.ID)
	require.NoError(f.t, err)
	return overs
}

func TestCreateMatch(t *testing.T) {
	f := newFixture(t)

	m := f.createMatch(20, nil)
	assert.Equal(t, StatusScheduled, m.Status)
	assert.Equal(t, BallLeather, m.BallType)
	assert.Equal(t, FormatT20, m.Format)
	assert.Equal(t, 20, m.OversLimit())
	assert.Equal(t, creatorID, m.CreatedByUserID)

	custom, err := f.engine.CreateMatch(f.ctx, creatorID, CreateMatchInput{
		Team1ID: team1, Team2ID: team2, Overs: 20,
		Format: FormatCustom, CustomOvers: ptr(8),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, custom.OversLimit())
}

func TestCreateMatchRejects(t *testing.T) {
	f := newFixture(t)
	f.store.AddTournament(&Tournament{Name: "Spring Cup"}, team1)

	tests := []struct {
		name string
		in   CreateMatchInput
		kind ErrorKind
	}{
		{"same teams", CreateMatchInput{Team1ID: team1, Team2ID: team1, Overs: 20}, KindValidationFailed},
		{"missing team", CreateMatchInput{Team1ID: team1, Overs: 20}, KindValidationFailed},
		{"too few overs", CreateMatchInput{Team1ID: team1, Team2ID: team2, Overs: 1}, KindValidationFailed},
		{"too many overs", CreateMatchInput{Team1ID: team1, Team2ID: team2, Overs: 51}, KindValidationFailed},
		{"custom without overs", CreateMatchInput{Team1ID: team1, Team2ID: team2, Overs: 20, Format: FormatCustom}, KindValidationFailed},
		{"unknown ball", CreateMatchInput{Team1ID: team1, Team2ID: team2, Overs: 20, BallType: "cork"}, KindValidationFailed},
		{"missing tournament", CreateMatchInput{TournamentID: ptr(uint(77)), Team1ID: team1, Team2ID: team2, Overs: 20}, KindNotFound},
		{"team not registered", CreateMatchInput{TournamentID: ptr(uint(1)), Team1ID: team1, Team2ID: team2, Overs: 20}, KindPreconditionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.CreateMatch(f.ctx, creatorID, tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestUpdateMatch(t *testing.T) {
	f := newFixture(t)
	m := f.createMatch(20, nil)

	_, err := f.engine.UpdateMatch(f.ctx, m.ID, 12345, UpdateMatchInput{Overs: ptr(10)})
	assert.True(t, IsForbidden(err))

	_, err = f.engine.UpdateMatch(f.ctx, m.ID, creatorID, UpdateMatchInput{Overs: ptr(0)})
	assert.True(t, IsValidationFailed(err))

	updated, err := f.engine.UpdateMatch(f.ctx, m.ID, creatorID, UpdateMatchInput{
		Overs:    ptr(10),
		BallType: ptr(BallTennis),
		Format:   ptr(FormatT10),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Overs)
	assert.Equal(t, BallTennis, updated.BallType)

	_, err = f.engine.StartMatch(f.ctx, m.ID, creatorID)
	require.NoError(t, err)
	_, err = f.engine.UpdateMatch(f.ctx, m.ID, creatorID, UpdateMatchInput{Overs: ptr(12)})
	assert.True(t, IsPreconditionFailed(err))

	stored, err := f.engine.GetMatch(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Overs)
}

func TestStartMatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.StartMatch(f.ctx, 404, creatorID)
	assert.True(t, IsNotFound(err))

	unscored, err := f.engine.CreateMatch(f.ctx, creatorID, CreateMatchInput{Team1ID: team1, Team2ID: team2, Overs: 20})
	require.NoError(t, err)
	_, err = f.engine.StartMatch(f.ctx, unscored.ID, creatorID)
	assert.True(t, IsPreconditionFailed(err), "no scorer assigned")

	const delegate uint = 555
	_, err = f.engine.AssignScorer(f.ctx, unscored.ID, delegate, delegate)
	assert.True(t, IsForbidden(err), "only the creator assigns")
	_, err = f.engine.AssignScorer(f.ctx, unscored.ID, creatorID, delegate)
	require.NoError(t, err)

	_, err = f.engine.StartMatch(f.ctx, unscored.ID, creatorID)
	assert.True(t, IsForbidden(err), "creator is not the scorer")

	_, err = f.engine.StartMatch(f.ctx, unscored.ID, delegate)
	assert.True(t, IsPreconditionFailed(err), "invitation not accepted")

	f.invites[delegate] = true
	started, err := f.engine.StartMatch(f.ctx, unscored.ID, delegate)
	require.NoError(t, err)
	assert.Equal(t, StatusToss, started.Status)

	_, err = f.engine.StartMatch(f.ctx, unscored.ID, delegate)
	assert.True(t, IsPreconditionFailed(err), "already started")
}

func TestRecordToss(t *testing.T) {
	f := newFixture(t)
	m := f.createMatch(20, nil)

	_, err := f.engine.RecordToss(f.ctx, m.ID, creatorID, team1, TossBat)
	assert.True(t, IsPreconditionFailed(err), "toss before start")

	_, err = f.engine.StartMatch(f.ctx, m.ID, creatorID)
	require.NoError(t, err)

	_, err = f.engine.RecordToss(f.ctx, m.ID, creatorID, 99, TossBat)
	assert.True(t, IsValidationFailed(err))
	_, err = f.engine.RecordToss(f.ctx, m.ID, creatorID, team1, "bowl")
	assert.True(t, IsValidationFailed(err))

	m, err = f.engine.RecordToss(f.ctx, m.ID, creatorID, team1, TossField)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, m.Status)
	require.NotNil(t, m.StartedAt)

	batting, fielding, ok := m.Sides(1)
	require.True(t, ok)
	assert.Equal(t, team2, batting)
	assert.Equal(t, team1, fielding)
	batting, _, _ = m.Sides(2)
	assert.Equal(t, team1, batting)

	_, err = f.engine.RecordToss(f.ctx, m.ID, creatorID, team2, TossBat)
	assert.True(t, IsPreconditionFailed(err), "toss is written once")
}

func TestLockContention(t *testing.T) {
	f := newFixture(t, WithLockTimeout(20*time.Millisecond))
	m := f.createMatch(20, nil)

	unlock, err := f.engine.locks.Lock(f.ctx, matchKey(m.ID))
	require.NoError(t, err)
	defer unlock()

	_, err = f.engine.StartMatch(f.ctx, m.ID, creatorID)
	require.Error(t, err)
	assert.True(t, IsContention(err))

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Retryable())

	_, err = f.engine.GetCurrentState(f.ctx, m.ID)
	assert.True(t, IsContention(err), "readers wait for the writer too")
}
