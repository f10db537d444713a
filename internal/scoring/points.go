package scoring

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

const (
	pointsWin = 2
	pointsTie = 1
)

// BuildPointsTable replays every completed, non-abandoned fixture from zero.
// Every team in teamIDs gets an entry even with no games played. The result
// is sorted for presentation.
func BuildPointsTable(tournamentID uint, teamIDs []uint, fixtures []Fixture) []PointsTableEntry {
	byTeam := make(map[uint]*PointsTableEntry, len(teamIDs))
	var order []uint
	entry := func(teamID uint) *PointsTableEntry {
		if p, ok := byTeam[teamID]; ok {
			return p
		}
		p := &PointsTableEntry{TournamentID: tournamentID, TeamID: teamID}
		byTeam[teamID] = p
		order = append(order, teamID)
		return p
	}
	for _, id := range teamIDs {
		entry(id)
	}

	for _, f := range fixtures {
		r := f.Result
		if f.Match.Status != StatusCompleted || r == nil || r.IsAbandoned {
			continue
		}
		t1, t2 := entry(f.Match.Team1ID), entry(f.Match.Team2ID)

		t1.MatchesPlayed++
		t1.RunsScored += r.Team1Score
		t1.RunsConceded += r.Team2Score
		t1.OversFaced += r.Team1Overs
		t1.OversBowled += r.Team2Overs

		t2.MatchesPlayed++
		t2.RunsScored += r.Team2Score
		t2.RunsConceded += r.Team1Score
		t2.OversFaced += r.Team2Overs
		t2.OversBowled += r.Team1Overs

		switch {
		case r.IsTie:
			t1.MatchesTied++
			t2.MatchesTied++
			t1.Points += pointsTie
			t2.Points += pointsTie
		case r.WinningTeamID != nil && *r.WinningTeamID == f.Match.Team1ID:
			t1.MatchesWon++
			t1.Points += pointsWin
			t2.MatchesLost++
		case r.WinningTeamID != nil && *r.WinningTeamID == f.Match.Team2ID:
			t2.MatchesWon++
			t2.Points += pointsWin
			t1.MatchesLost++
		}
	}

	out := make([]PointsTableEntry, 0, len(order))
	for _, id := range order {
		p := byTeam[id]
		p.NetRunRate = NetRunRate(p.RunsScored, p.OversFaced, p.RunsConceded, p.OversBowled)
		out = append(out, *p)
	}
	SortPointsTable(out)
	return out
}

// NetRunRate is run rate scored minus run rate conceded, rounded to four
// places. It is 0 while either side of the ratio has no overs.
func NetRunRate(scored int, faced Overs, conceded int, bowled Overs) float64 {
	if faced == 0 || bowled == 0 {
		return 0
	}
	return round4(RunRate(scored, faced) - RunRate(conceded, bowled))
}

// SortPointsTable orders entries by points, then net run rate, then team id.
func SortPointsTable(entries []PointsTableEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.NetRunRate != b.NetRunRate {
			return a.NetRunRate > b.NetRunRate
		}
		return a.TeamID < b.TeamID
	})
}

func loadTournament(ctx context.Context, s Store, id uint) (*Tournament, error) {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, notFound("tournament %d not found", id)
		}
		return nil, fmt.Errorf("load tournament %d: %w", id, err)
	}
	return t, nil
}

// RecalculatePointsTable rebuilds a tournament's standings from its completed
// matches and replaces the stored entries. It returns the fold itself, so
// running it twice yields identical entries; the stored rows carry their own
// IDs and timestamps.
func (e *Engine) RecalculatePointsTable(ctx context.Context, tournamentID uint) ([]PointsTableEntry, error) {
	unlock, err := e.locks.Lock(ctx, tournamentKey(tournamentID))
	if err != nil {
		e.logger.Warn().Uint("tournament_id", tournamentID).Err(err).Msg("tournament lock busy")
		return nil, err
	}
	defer unlock()

	var out []PointsTableEntry
	err = e.store.WithTx(ctx, func(s Store) error {
		if _, err := loadTournament(ctx, s, tournamentID); err != nil {
			return err
		}
		teams, err := s.ListTournamentTeams(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("list tournament teams: %w", err)
		}
		fixtures, err := s.ListCompletedMatches(ctx, tournamentID)
		if err != nil {
			return fmt.Errorf("list completed matches: %w", err)
		}
		out = BuildPointsTable(tournamentID, teams, fixtures)
		if err := s.ReplacePointsTable(ctx, tournamentID, out); err != nil {
			return fmt.Errorf("replace points table: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.pointsTableRecalculated()
	e.logger.Info().
		Uint("tournament_id", tournamentID).
		Int("teams", len(out)).
		Msg("points table recalculated")
	return out, nil
}

// GetPointsTable returns the stored standings of a tournament, sorted.
func (e *Engine) GetPointsTable(ctx context.Context, tournamentID uint) ([]PointsTableEntry, error) {
	unlock, err := e.locks.RLock(ctx, tournamentKey(tournamentID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := loadTournament(ctx, e.store, tournamentID); err != nil {
		return nil, err
	}
	entries, err := e.store.ListPointsTable(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("list points table: %w", err)
	}
	SortPointsTable(entries)
	return entries, nil
}
