package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/DhavalSuthar-24/crease/internal/scoring"
	"gorm.io/gorm"
)

// GormStore implements scoring.Store using GORM
type GormStore struct {
	db *gorm.DB
}

var _ scoring.Store = (*GormStore)(nil)

// NewGormStore creates a new GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Models lists the tables owned by the scoring store, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&scoring.Match{}, &scoring.Over{}, &scoring.Ball{}, &scoring.MatchResult{},
		&scoring.Tournament{}, &scoring.TournamentTeam{}, &scoring.PointsTableEntry{},
	}
}

// WithTx runs fn inside a database transaction
func (r *GormStore) WithTx(ctx context.Context, fn func(scoring.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, scoring.ErrRecordNotFound)
	}
	return fmt.Errorf("%s %d: %w", what, id, err)
}

// Match Methods

// CreateMatch creates a new match
func (r *GormStore) CreateMatch(ctx context.Context, m *scoring.Match) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// GetMatch retrieves a match by ID
func (r *GormStore) GetMatch(ctx context.Context, id uint) (*scoring.Match, error) {
	var m scoring.Match
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, "match", id)
	}
	return &m, nil
}

// UpdateMatch saves every field of an existing match
func (r *GormStore) UpdateMatch(ctx context.Context, m *scoring.Match) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Over and Ball Methods

// CreateOver creates a new over
func (r *GormStore) CreateOver(ctx context.Context, o *scoring.Over) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// UpdateOver saves the aggregates and completion of an over
func (r *GormStore) UpdateOver(ctx context.Context, o *scoring.Over) error {
	return r.db.WithContext(ctx).Save(o).Error
}

// ListOvers retrieves the overs of a match in inning and over order
func (r *GormStore) ListOvers(ctx context.Context, matchID uint) ([]scoring.Over, error) {
	var overs []scoring.Over
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("inning_number ASC").
		Order("over_number ASC").
		Find(&overs).Error
	return overs, err
}

// CreateBall appends a ball to its over
func (r *GormStore) CreateBall(ctx context.Context, b *scoring.Ball) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// ListBalls retrieves the balls of a match in inning, over and sequence order
func (r *GormStore) ListBalls(ctx context.Context, matchID uint) ([]scoring.Ball, error) {
	var balls []scoring.Ball
	err := r.db.WithContext(ctx).
		Joins("JOIN overs ON overs.id = balls.over_id").
		Where("balls.match_id = ?", matchID).
		Order("balls.inning_number ASC").
		Order("overs.over_number ASC").
		Order("balls.sequence ASC").
		Find(&balls).Error
	return balls, err
}

// Result Methods

// CreateResult stores the result of a match
func (r *GormStore) CreateResult(ctx context.Context, res *scoring.MatchResult) error {
	return r.db.WithContext(ctx).Create(res).Error
}

// GetResult retrieves the result of a match
func (r *GormStore) GetResult(ctx context.Context, matchID uint) (*scoring.MatchResult, error) {
	var res scoring.MatchResult
	if err := r.db.WithContext(ctx).Where("match_id = ?", matchID).First(&res).Error; err != nil {
		return nil, notFound(err, "result of match", matchID)
	}
	return &res, nil
}

// Tournament Methods

// GetTournament retrieves a tournament by ID
func (r *GormStore) GetTournament(ctx context.Context, id uint) (*scoring.Tournament, error) {
	var t scoring.Tournament
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err, "tournament", id)
	}
	return &t, nil
}

// ListTournamentTeams retrieves the ids of accepted teams of a tournament
func (r *GormStore) ListTournamentTeams(ctx context.Context, tournamentID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&scoring.TournamentTeam{}).
		Where("tournament_id = ? AND status = ?", tournamentID, "accepted").
		Order("team_id ASC").
		Pluck("team_id", &ids).Error
	return ids, err
}

// ListCompletedMatches retrieves completed matches of a tournament with their results
func (r *GormStore) ListCompletedMatches(ctx context.Context, tournamentID uint) ([]scoring.Fixture, error) {
	var matches []scoring.Match
	err := r.db.WithContext(ctx).
		Where("tournament_id = ? AND status = ?", tournamentID, scoring.StatusCompleted).
		Order("id ASC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	var results []scoring.MatchResult
	if err := r.db.WithContext(ctx).Where("match_id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	byMatch := make(map[uint]*scoring.MatchResult, len(results))
	for i := range results {
		byMatch[results[i].MatchID] = &results[i]
	}

	fixtures := make([]scoring.Fixture, 0, len(matches))
	for _, m := range matches {
		fixtures = append(fixtures, scoring.Fixture{Match: m, Result: byMatch[m.ID]})
	}
	return fixtures, nil
}

// ReplacePointsTable hard-deletes a tournament's entries and inserts a copy of
// the new ones, so the caller's slice keeps the fold's values
func (r *GormStore) ReplacePointsTable(ctx context.Context, tournamentID uint, entries []scoring.PointsTableEntry) error {
	db := r.db.WithContext(ctx)
	if err := db.Unscoped().Where("tournament_id = ?", tournamentID).Delete(&scoring.PointsTableEntry{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	rows := append([]scoring.PointsTableEntry(nil), entries...)
	return db.Create(&rows).Error
}

// ListPointsTable retrieves the stored entries of a tournament
func (r *GormStore) ListPointsTable(ctx context.Context, tournamentID uint) ([]scoring.PointsTableEntry, error) {
	var entries []scoring.PointsTableEntry
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("points DESC").
		Order("net_run_rate DESC").
		Order("team_id ASC").
		Find(&entries).Error
	return entries, err
}
