package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inningBalls builds 120 legal balls scoring runs for the loss of wickets,
// scored in twos.
func inningBalls(inning, runs, wickets int) []Ball {
	balls := make([]Ball, 0, 120)
	for i := 0; i < 120; i++ {
		b := Ball{InningNumber: inning, ExtraKind: ExtraNone, WicketType: WicketNone}
		switch {
		case i < wickets:
			id := uint(i + 1)
			b.WicketType = WicketBowled
			b.DismissedBatsmanID = &id
		case runs >= 2:
			b.RunsOffBat = 2
			runs -= 2
		case runs == 1:
			b.RunsOffBat = 1
			runs--
		}
		balls = append(balls, b)
	}
	return balls
}

func tossedMatch() *Match {
	winner := team1
	return &Match{
		Team1ID:          team1,
		Team2ID:          team2,
		Overs:            20,
		Status:           StatusInProgress,
		TossWinnerTeamID: &winner,
		TossDecision:     TossBat,
	}
}

func TestComputeResult(t *testing.T) {
	m := tossedMatch()
	balls := append(inningBalls(1, 150, 6), inningBalls(2, 140, 8)...)

	r := ComputeResult(m, balls, false)
	assert.Equal(t, 150, r.Team1Score)
	assert.Equal(t, 6, r.Team1Wickets)
	assert.Equal(t, "20.0", r.Team1Overs.String())
	assert.Equal(t, 140, r.Team2Score)
	assert.Equal(t, 8, r.Team2Wickets)
	assert.Equal(t, "20.0", r.Team2Overs.String())
	require.NotNil(t, r.WinningTeamID)
	assert.Equal(t, team1, *r.WinningTeamID)
	assert.False(t, r.IsTie)
	assert.False(t, r.IsAbandoned)
}

func TestComputeResultTieAndAbandoned(t *testing.T) {
	m := tossedMatch()
	balls := append(inningBalls(1, 120, 2), inningBalls(2, 120, 9)...)

	tie := ComputeResult(m, balls, false)
	assert.True(t, tie.IsTie)
	assert.Nil(t, tie.WinningTeamID)

	abandoned := ComputeResult(m, balls[:40], true)
	assert.True(t, abandoned.IsAbandoned)
	assert.False(t, abandoned.IsTie)
	assert.Nil(t, abandoned.WinningTeamID)
	assert.Equal(t, "6.4", abandoned.Team1Overs.String())
}

func TestComputeResultFieldFirst(t *testing.T) {
	m := tossedMatch()
	m.TossDecision = TossField
	balls := append(inningBalls(1, 90, 1), inningBalls(2, 91, 3)...)

	r := ComputeResult(m, balls, false)
	assert.Equal(t, 90, r.Team2Score, "team2 batted first")
	assert.Equal(t, 91, r.Team1Score)
	require.NotNil(t, r.WinningTeamID)
	assert.Equal(t, team1, *r.WinningTeamID)
}

// playChase plays a two-over match in which team1 makes 4 and team2 passes it
// on the second ball of the chase.
func playChase(f *fixture, tournamentID *uint) *Match {
	f.t.Helper()
	m := f.inProgress(2, tournamentID)

	f.openOver(m, 1, 1, 201, 101, 102)
	f.ball(m, runs(4))
	f.dots(m, 5)
	f.openOver(m, 1, 2, 202)
	f.dots(m, 6)

	f.openOver(m, 2, 1, 101, 201, 202)
	f.ball(m, runs(4))
	f.ball(m, runs(1))
	return m
}

func TestChaseCompletesMatch(t *testing.T) {
	f := newFixture(t)
	f.store.AddTournament(&Tournament{Name: "Spring Cup"}, team1, team2)
	m := playChase(f, ptr(uint(1)))

	stored, err := f.engine.GetMatch(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	r, err := f.engine.GetResult(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Team1Score)
	assert.Equal(t, 5, r.Team2Score)
	assert.Equal(t, "2.0", r.Team1Overs.String())
	assert.Equal(t, "0.2", r.Team2Overs.String())
	require.NotNil(t, r.WinningTeamID)
	assert.Equal(t, team2, *r.WinningTeamID)

	overs := f.overs(m)
	require.Len(t, overs, 3)
	assert.False(t, overs[2].IsOpen(), "the chasing over is closed")

	_, err = f.engine.RecordBall(f.ctx, m.ID, creatorID, BallInput{})
	assert.True(t, IsPreconditionFailed(err))

	again, err := f.engine.CompleteMatch(f.ctx, m.ID, creatorID, false)
	require.NoError(t, err)
	assert.Equal(t, r.ID, again.ID, "completion is idempotent")

	table, err := f.engine.GetPointsTable(f.ctx, 1)
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, team2, table[0].TeamID)
	assert.Equal(t, 2, table[0].Points)
	assert.Equal(t, 13.0, table[0].NetRunRate)
	assert.Equal(t, team1, table[1].TeamID)
	assert.Equal(t, 1, table[1].MatchesLost)
	assert.Equal(t, -13.0, table[1].NetRunRate)
}

func TestResultReplaysFromBalls(t *testing.T) {
	f := newFixture(t)
	m := playChase(f, nil)

	stored, err := f.engine.GetResult(f.ctx, m.ID)
	require.NoError(t, err)
	match, err := f.engine.GetMatch(f.ctx, m.ID)
	require.NoError(t, err)
	balls, err := f.store.ListBalls(f.ctx, m.ID)
	require.NoError(t, err)

	replayed := ComputeResult(match, balls, false)
	replayed.Model = stored.Model
	assert.Equal(t, stored, replayed)
}

func TestLastOverClosedEndsMatch(t *testing.T) {
	f := newFixture(t)
	m := f.inProgress(2, nil)

	f.openOver(m, 1, 1, 201, 101, 102)
	f.ball(m, runs(6))
	_, err := f.engine.CloseOver(f.ctx, m.ID, creatorID)
	require.NoError(t, err)
	f.openOver(m, 1, 2, 202)
	_, err = f.engine.CloseOver(f.ctx, m.ID, creatorID)
	require.NoError(t, err)

	_, err = f.engine.CompleteMatch(f.ctx, m.ID, creatorID, false)
	assert.True(t, IsPreconditionFailed(err), "second inning not played")

	f.openOver(m, 2, 1, 101, 201, 202)
	f.ball(m, runs(2))
	_, err = f.engine.CloseOver(f.ctx, m.ID, creatorID)
	require.NoError(t, err)
	f.openOver(m, 2, 2, 102)
	_, err = f.engine.CloseOver(f.ctx, m.ID, creatorID)
	require.NoError(t, err)

	r, err := f.engine.GetResult(f.ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, r.WinningTeamID)
	assert.Equal(t, team1, *r.WinningTeamID)
	assert.Equal(t, 6, r.Team1Score)
	assert.Equal(t, 2, r.Team2Score)
}

func TestAbandonMatch(t *testing.T) {
	f := newFixture(t)

	scheduled := f.createMatch(20, nil)
	_, err := f.engine.CompleteMatch(f.ctx, scheduled.ID, creatorID, true)
	assert.True(t, IsPreconditionFailed(err), "cannot abandon before the start")

	_, err = f.engine.GetResult(f.ctx, scheduled.ID)
	assert.True(t, IsNotFound(err))

	m := f.inProgress(20, nil)
	f.openOver(m, 1, 1, 201, 101, 102)
	f.ball(m, runs(3))

	r, err := f.engine.CompleteMatch(f.ctx, m.ID, creatorID, true)
	require.NoError(t, err)
	assert.True(t, r.IsAbandoned)
	assert.Nil(t, r.WinningTeamID)
	assert.Equal(t, 3, r.Team1Score)

	assert.False(t, f.overs(m)[0].IsOpen(), "open over is closed on abandonment")

	st, err := f.engine.GetCurrentState(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, st.Match.Status)
	require.NotNil(t, st.Result)
	assert.True(t, st.Result.IsAbandoned)
}
