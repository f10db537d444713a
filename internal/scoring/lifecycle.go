package scoring

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
)

// CreateMatchInput describes a new fixture.
type CreateMatchInput struct {
	TournamentID *uint
	Team1ID      uint
	Team2ID      uint
	Overs        int
	BallType     BallType
	Format       MatchFormat
	CustomOvers  *int
	ScheduledAt  time.Time
	ScorerID     *uint
}

// UpdateMatchInput is a partial edit of a scheduled match. Nil fields are left alone.
type UpdateMatchInput struct {
	Overs       *int
	BallType    *BallType
	Format      *MatchFormat
	CustomOvers *int
	ScheduledAt *time.Time
}

// CreateMatch validates and stores a new match in the Scheduled state.
func (e *Engine) CreateMatch(ctx context.Context, callerID uint, in CreateMatchInput) (*Match, error) {
	if in.Team1ID == 0 || in.Team2ID == 0 {
		return nil, invalid("both teams are required")
	}
	if in.Team1ID == in.Team2ID {
		return nil, invalid("a team cannot play itself")
	}
	m := &Match{
		TournamentID:    in.TournamentID,
		Team1ID:         in.Team1ID,
		Team2ID:         in.Team2ID,
		Overs:           in.Overs,
		BallType:        in.BallType,
		Format:          in.Format,
		CustomOvers:     in.CustomOvers,
		ScheduledAt:     in.ScheduledAt,
		CreatedByUserID: callerID,
		ScorerID:        in.ScorerID,
		Status:          StatusScheduled,
	}
	if m.BallType == "" {
		m.BallType = BallLeather
	}
	if m.Format == "" {
		m.Format = FormatT20
	}
	if err := e.validateSetup(m); err != nil {
		return nil, err
	}

	if in.TournamentID != nil {
		if _, err := e.store.GetTournament(ctx, *in.TournamentID); err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return nil, notFound("tournament %d not found", *in.TournamentID)
			}
			return nil, fmt.Errorf("load tournament %d: %w", *in.TournamentID, err)
		}
		teams, err := e.store.ListTournamentTeams(ctx, *in.TournamentID)
		if err != nil {
			return nil, fmt.Errorf("list tournament teams: %w", err)
		}
		if !slices.Contains(teams, in.Team1ID) || !slices.Contains(teams, in.Team2ID) {
			return nil, precondition("both teams must be registered in tournament %d", *in.TournamentID)
		}
	}

	if err := e.store.CreateMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	e.logger.Info().
		Uint("match_id", m.ID).
		Uint("team1_id", m.Team1ID).
		Uint("team2_id", m.Team2ID).
		Int("overs", m.OversLimit()).
		Msg("match created")
	return m, nil
}

// validateSetup checks the editable configuration of a match.
func (e *Engine) validateSetup(m *Match) error {
	if m.Overs < e.minOvers || m.Overs > e.maxOvers {
		return invalid("overs must be between %d and %d", e.minOvers, e.maxOvers)
	}
	switch m.BallType {
	case BallLeather, BallTennis, BallRubber:
	default:
		return invalid("unknown ball type %q", m.BallType)
	}
	switch m.Format {
	case FormatT10, FormatT20, FormatODI:
	case FormatCustom:
		if m.CustomOvers == nil {
			return invalid("custom format requires custom overs")
		}
		if *m.CustomOvers < e.minOvers || *m.CustomOvers > e.maxOvers {
			return invalid("custom overs must be between %d and %d", e.minOvers, e.maxOvers)
		}
	default:
		return invalid("unknown format %q", m.Format)
	}
	return nil
}

// GetMatch returns a match by id.
func (e *Engine) GetMatch(ctx context.Context, matchID uint) (*Match, error) {
	var m *Match
	err := e.readMatch(ctx, matchID, func() error {
		var err error
		m, err = loadMatch(ctx, e.store, matchID)
		return err
	})
	return m, err
}

// UpdateMatch edits a match's configuration. Only the creator may do so, and
// only before the match has started.
func (e *Engine) UpdateMatch(ctx context.Context, matchID, callerID uint, in UpdateMatchInput) (*Match, error) {
	var out *Match
	err := e.mutateMatch(ctx, matchID, func(s Store) error {
		m, err := loadMatch(ctx, s, matchID)
		if err != nil {
			return err
		}
		if err := requireCreator(m, callerID); err != nil {
			return err
		}
		if err := requireStatus(m, StatusScheduled); err != nil {
			return err
		}

		if in.Overs != nil {
			m.Overs = *in.Overs
		}
		if in.BallType != nil {
			m.BallType = *in.BallType
		}
		if in.Format != nil {
			m.Format = *in.Format
		}
		if in.CustomOvers != nil {
			m.CustomOvers = in.CustomOvers
		}
		if in.ScheduledAt != nil {
			m.ScheduledAt = *in.ScheduledAt
		}
		if err := e.validateSetup(m); err != nil {
			return err
		}
		if err := s.UpdateMatch(ctx, m); err != nil {
			return fmt.Errorf("update match %d: %w", matchID, err)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info().Uint("match_id", matchID).Msg("match updated")
	return out, nil
}

// AssignScorer delegates scoring of a scheduled match to scorerID.
func (e *Engine) AssignScorer(ctx context.Context, matchID, callerID, scorerID uint) (*Match, error) {
	if scorerID == 0 {
		return nil, invalid("scorer is required")
	}
	var out *Match
	err := e.mutateMatch(ctx, matchID, func(s Store) error {
		m, err := loadMatch(ctx, s, matchID)
		if err != nil {
			return err
		}
		if err := requireCreator(m, callerID); err != nil {
			return err
		}
		if err := requireStatus(m, StatusScheduled); err != nil {
			return err
		}
		m.ScorerID = &scorerID
		if err := s.UpdateMatch(ctx, m); err != nil {
			return fmt.Errorf("update match %d: %w", matchID, err)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info().Uint("match_id", matchID).Uint("scorer_id", scorerID).Msg("scorer assigned")
	return out, nil
}

// StartMatch moves a scheduled match to the toss. A delegated scorer must have
// accepted the scoring invitation first.
func (e *Engine) StartMatch(ctx context.Context, matchID, callerID uint) (*Match, error) {
	var out *Match
	err := e.mutateMatch(ctx, matchID, func(s Store) error {
		m, err := loadMatch(ctx, s, matchID)
		if err != nil {
			return err
		}
		if err := requireScorer(m, callerID); err != nil {
			return err
		}
		if err := requireStatus(m, StatusScheduled); err != nil {
			return err
		}
		if *m.ScorerID != m.CreatedByUserID {
			ok, err := e.invites.HasAccepted(ctx, m.ID, *m.ScorerID)
			if err != nil {
				return fmt.Errorf("check scorer invitation: %w", err)
			}
			if !ok {
				return precondition("scorer %d has not accepted the invitation for match %d", *m.ScorerID, m.ID)
			}
		}
		m.Status = StatusToss
		if err := s.UpdateMatch(ctx, m); err != nil {
			return fmt.Errorf("update match %d: %w", matchID, err)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info().Uint("match_id", matchID).Str("status", string(out.Status)).Msg("match started")
	return out, nil
}

// RecordToss writes the toss once and puts the match in progress.
func (e *Engine) RecordToss(ctx context.Context, matchID, callerID, winnerID uint, decision TossDecision) (*Match, error) {
	var out *Match
	err := e.mutateMatch(ctx, matchID, func(s Store) error {
		m, err := loadMatch(ctx, s, matchID)
		if err != nil {
			return err
		}
		if err := requireScorer(m, callerID); err != nil {
			return err
		}
		if err := requireStatus(m, StatusToss); err != nil {
			return err
		}
		if !m.HasTeam(winnerID) {
			return invalid("toss winner %d is not playing match %d", winnerID, m.ID)
		}
		if decision != TossBat && decision != TossField {
			return invalid("toss decision must be %q or %q", TossBat, TossField)
		}

		m.TossWinnerTeamID = &winnerID
		m.TossDecision = decision
		m.Status = StatusInProgress
		m.StartedAt = e.stamp()
		if err := s.UpdateMatch(ctx, m); err != nil {
			return fmt.Errorf("update match %d: %w", matchID, err)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	batting, _, _ := out.Sides(1)
	e.logger.Info().
		Uint("match_id", matchID).
		Uint("toss_winner_id", winnerID).
		Str("decision", string(decision)).
		Uint("batting_first_id", batting).
		Msg("toss recorded")
	return out, nil
}
