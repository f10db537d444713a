package scoring

import (
	"context"
	"errors"
	"fmt"
)

// MatchState is a consistent snapshot of a match taken under its shared lock.
type MatchState struct {
	Match         *Match        `json:"match"`
	CurrentInning int           `json:"current_inning"`
	Innings       []InningState `json:"innings"`
	CurrentOver   *OverState    `json:"current_over,omitempty"`
	Result        *MatchResult  `json:"result,omitempty"`
}

// InningState is the read model of one inning.
type InningState struct {
	InningTotals
	InningNumber   int     `json:"inning_number"`
	BattingTeamID  uint    `json:"batting_team_id"`
	FieldingTeamID uint    `json:"fielding_team_id"`
	RunRate        float64 `json:"run_rate"`
	Target         int     `json:"target,omitempty"`
	Complete       bool    `json:"complete"`
}

// OverState is the over in play and who is at the crease for the next ball.
type OverState struct {
	Over            *Over `json:"over"`
	StrikerID       uint  `json:"striker_id,omitempty"`
	NonStrikerID    uint  `json:"non_striker_id,omitempty"`
	NeedsNewBatsman bool  `json:"needs_new_batsman"`
	LastBall        *Ball `json:"last_ball,omitempty"`
}

// GetCurrentState returns the inning in play, the open over and both
// innings' running scores.
func (e *Engine) GetCurrentState(ctx context.Context, matchID uint) (*MatchState, error) {
	var st *MatchState
	err := e.readMatch(ctx, matchID, func() error {
		m, err := loadMatch(ctx, e.store, matchID)
		if err != nil {
			return err
		}
		l, err := loadLedger(ctx, e.store, m)
		if err != nil {
			return err
		}
		st, err = e.snapshot(ctx, l)
		if err != nil {
			return err
		}
		if m.Status == StatusCompleted {
			r, err := e.store.GetResult(ctx, m.ID)
			if err != nil && !errors.Is(err, ErrRecordNotFound) {
				return fmt.Errorf("load result of match %d: %w", m.ID, err)
			}
			st.Result = r
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (e *Engine) snapshot(ctx context.Context, l *ledger) (*MatchState, error) {
	m := l.match
	st := &MatchState{Match: m, Innings: []InningState{}}
	if _, _, ok := m.Sides(1); !ok {
		return st, nil
	}

	st.CurrentInning = 1
	for n := 1; n <= 2; n++ {
		batting, fielding, _ := m.Sides(n)
		done, err := e.inningComplete(ctx, l, n)
		if err != nil {
			return nil, err
		}
		t := l.totals(n)
		is := InningState{
			InningNumber:   n,
			BattingTeamID:  batting,
			FieldingTeamID: fielding,
			InningTotals:   t,
			RunRate:        round4(RunRate(t.Runs, t.Overs)),
			Complete:       done,
		}
		if n == 2 {
			is.Target = st.Innings[0].Runs + 1
		}
		st.Innings = append(st.Innings, is)
		if n == 1 && done {
			st.CurrentInning = 2
		}
	}

	if ov := l.openOver(); ov != nil {
		balls := l.overBalls(ov.ID)
		c := creaseAfter(ov, balls)
		os := &OverState{
			Over:            ov,
			StrikerID:       c.striker,
			NonStrikerID:    c.nonStriker,
			NeedsNewBatsman: c.vacant(),
		}
		if len(balls) > 0 {
			last := balls[len(balls)-1]
			os.LastBall = &last
		}
		st.CurrentOver = os
		st.CurrentInning = ov.InningNumber
	}
	return st, nil
}
