package scoring

import (
	"context"
	"errors"
	"fmt"
)

// ComputeResult folds the balls of a match into its result. It is pure:
// replaying the same balls always yields the same result. Abandonment is an
// input, and an abandoned match has no winner.
func ComputeResult(m *Match, balls []Ball, abandoned bool) *MatchResult {
	r := &MatchResult{MatchID: m.ID, IsAbandoned: abandoned}

	var legal1, legal2 int
	for _, b := range balls {
		batting, _, ok := m.Sides(b.InningNumber)
		if !ok {
			continue
		}
		out := b.Outcome()
		switch batting {
		case m.Team1ID:
			r.Team1Score += out.Total
			if out.Wicket {
				r.Team1Wickets++
			}
			if out.Legal {
				legal1++
			}
		case m.Team2ID:
			r.Team2Score += out.Total
			if out.Wicket {
				r.Team2Wickets++
			}
			if out.Legal {
				legal2++
			}
		}
	}
	r.Team1Overs = OversFromBalls(legal1)
	r.Team2Overs = OversFromBalls(legal2)

	if abandoned {
		return r
	}
	switch {
	case r.Team1Score > r.Team2Score:
		winner := m.Team1ID
		r.WinningTeamID = &winner
	case r.Team2Score > r.Team1Score:
		winner := m.Team2ID
		r.WinningTeamID = &winner
	default:
		r.IsTie = true
	}
	return r
}

// finishMatch closes any open over, writes the result and completes the match.
func (e *Engine) finishMatch(ctx context.Context, s Store, l *ledger, abandoned bool) (*MatchResult, error) {
	if ov := l.openOver(); ov != nil {
		ov.CompletedAt = e.stamp()
		if err := s.UpdateOver(ctx, ov); err != nil {
			return nil, fmt.Errorf("update over %d: %w", ov.ID, err)
		}
	}

	r := ComputeResult(l.match, l.balls, abandoned)
	if err := s.CreateResult(ctx, r); err != nil {
		return nil, fmt.Errorf("create result: %w", err)
	}

	l.match.Status = StatusCompleted
	l.match.CompletedAt = e.stamp()
	if err := s.UpdateMatch(ctx, l.match); err != nil {
		return nil, fmt.Errorf("update match %d: %w", l.match.ID, err)
	}
	return r, nil
}

// matchFinished runs after the completing transaction commits. A points
// table failure is logged and left for the next recalculation.
func (e *Engine) matchFinished(ctx context.Context, m *Match, r *MatchResult) {
	e.metrics.matchCompleted(r)
	ev := e.logger.Info().
		Uint("match_id", m.ID).
		Int("team1_score", r.Team1Score).
		Int("team2_score", r.Team2Score).
		Bool("tie", r.IsTie).
		Bool("abandoned", r.IsAbandoned)
	if r.WinningTeamID != nil {
		ev = ev.Uint("winning_team_id", *r.WinningTeamID)
	}
	ev.Msg("match completed")

	if m.TournamentID == nil {
		return
	}
	if _, err := e.RecalculatePointsTable(ctx, *m.TournamentID); err != nil {
		e.logger.Error().Err(err).
			Uint("match_id", m.ID).
			Uint("tournament_id", *m.TournamentID).
			Msg("points table recalculation failed")
	}
}

// CompleteMatch completes a match whose second inning is over, or abandons
// one that is at the toss or in progress. Completing an already completed
// match returns the stored result.
func (e *Engine) CompleteMatch(ctx context.Context, matchID, callerID uint, abandoned bool) (*MatchResult, error) {
	var (
		out      *MatchResult
		finished *Match
	)
	err := e.mutateMatch(ctx, matchID, func(s Store) error {
		m, err := loadMatch(ctx, s, matchID)
		if err != nil {
			return err
		}
		if err := requireScorer(m, callerID); err != nil {
			return err
		}
		if m.Status == StatusCompleted {
			out, err = s.GetResult(ctx, m.ID)
			if err != nil {
				return fmt.Errorf("load result of match %d: %w", m.ID, err)
			}
			return nil
		}

		l, err := loadLedger(ctx, s, m)
		if err != nil {
			return err
		}
		if abandoned {
			if m.Status != StatusToss && m.Status != StatusInProgress {
				return precondition("match %d is %s and cannot be abandoned", m.ID, m.Status)
			}
		} else {
			if err := requireStatus(m, StatusInProgress); err != nil {
				return err
			}
			done, err := e.inningComplete(ctx, l, 2)
			if err != nil {
				return err
			}
			if !done {
				return precondition("second inning of match %d is not complete", m.ID)
			}
		}

		if out, err = e.finishMatch(ctx, s, l, abandoned); err != nil {
			return err
		}
		finished = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	if finished != nil {
		e.matchFinished(ctx, finished, out)
	}
	return out, nil
}

// GetResult returns the result of a completed match.
func (e *Engine) GetResult(ctx context.Context, matchID uint) (*MatchResult, error) {
	var out *MatchResult
	err := e.readMatch(ctx, matchID, func() error {
		if _, err := loadMatch(ctx, e.store, matchID); err != nil {
			return err
		}
		r, err := e.store.GetResult(ctx, matchID)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return notFound("match %d has no result yet", matchID)
			}
			return fmt.Errorf("load result of match %d: %w", matchID, err)
		}
		out = r
		return nil
	})
	return out, err
}
