package team

import (
	"context"
	"errors"

	"github.com/DhavalSuthar-24/crease/internal/scoring"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	// Team operations
	CreateTeam(ctx context.Context, team *Team) error
	GetTeamByID(ctx context.Context, id uint) (*Team, error)
	IsUserTeamCreator(ctx context.Context, teamID, userID uint) (bool, error)

	// TeamMember operations
	AddTeamMember(ctx context.Context, member *TeamMember) error
	GetTeamMember(ctx context.Context, teamID, userID uint) (*TeamMember, error)

	// Match squad operations
	SetMatchSquad(ctx context.Context, matchID, teamID uint, userIDs []uint) error
	GetMatchSquad(ctx context.Context, matchID, teamID uint) ([]uint, error)

	// ScorerInvitation operations
	InviteScorer(ctx context.Context, invitation *ScorerInvitation) error
	GetScorerInvitation(ctx context.Context, matchID, scorerID uint) (*ScorerInvitation, error)
	UpdateScorerInvitation(ctx context.Context, invitation *ScorerInvitation) error

	// Roster and invitation facts read by the scoring engine
	IsMember(ctx context.Context, matchID, teamID, playerID uint) (bool, error)
	Size(ctx context.Context, matchID, teamID uint) (int, error)
	HasAccepted(ctx context.Context, matchID, scorerID uint) (bool, error)

	WithTransaction(ctx context.Context, txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

var (
	_ scoring.Roster            = (*teamRepository)(nil)
	_ scoring.ScorerInvitations = (*teamRepository)(nil)
)

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

// --- Team Operations ---

func (r *teamRepository) CreateTeam(ctx context.Context, team *Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepository) GetTeamByID(ctx context.Context, id uint) (*Team, error) {
	var team Team
	if err := r.db.WithContext(ctx).First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) IsUserTeamCreator(ctx context.Context, teamID, userID uint) (bool, error) {
	var team Team
	if err := r.db.WithContext(ctx).Select("created_by_id").First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return team.CreatedByID == userID, nil
}

// --- TeamMember Operations ---

func (r *teamRepository) AddTeamMember(ctx context.Context, member *TeamMember) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "is_active", "jersey_number", "updated_at"}),
	}).Create(member).Error
}

func (r *teamRepository) GetTeamMember(ctx context.Context, teamID, userID uint) (*TeamMember, error) {
	var member TeamMember
	if err := r.db.WithContext(ctx).Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

// --- Match Squad Operations ---

// SetMatchSquad replaces a team's squad for a match
func (r *teamRepository) SetMatchSquad(ctx context.Context, matchID, teamID uint, userIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Unscoped().Where("match_id = ? AND team_id = ?", matchID, teamID).Delete(&MatchPlayer{}).Error; err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}
	players := make([]MatchPlayer, 0, len(userIDs))
	for _, id := range userIDs {
		players = append(players, MatchPlayer{MatchID: matchID, TeamID: teamID, UserID: id})
	}
	return db.Create(&players).Error
}

func (r *teamRepository) GetMatchSquad(ctx context.Context, matchID, teamID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&MatchPlayer{}).
		Where("match_id = ? AND team_id = ?", matchID, teamID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// --- ScorerInvitation Operations ---

// InviteScorer creates a pending invitation, or resets an earlier one to pending
func (r *teamRepository) InviteScorer(ctx context.Context, invitation *ScorerInvitation) error {
	invitation.Status = StatusPending
	invitation.RespondedAt = nil
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}, {Name: "scorer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"invited_by_id", "status", "responded_at", "updated_at"}),
	}).Create(invitation).Error
}

func (r *teamRepository) GetScorerInvitation(ctx context.Context, matchID, scorerID uint) (*ScorerInvitation, error) {
	var invitation ScorerInvitation
	if err := r.db.WithContext(ctx).Where("match_id = ? AND scorer_id = ?", matchID, scorerID).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

func (r *teamRepository) UpdateScorerInvitation(ctx context.Context, invitation *ScorerInvitation) error {
	return r.db.WithContext(ctx).Save(invitation).Error
}

// --- Scoring Engine Facts ---

// squadQuery selects the match squad when one was named, otherwise the
// team's active members.
func (r *teamRepository) squadQuery(ctx context.Context, matchID, teamID uint) (*gorm.DB, error) {
	db := r.db.WithContext(ctx)
	var named int64
	if err := db.Model(&MatchPlayer{}).Where("match_id = ? AND team_id = ?", matchID, teamID).Count(&named).Error; err != nil {
		return nil, err
	}
	if named > 0 {
		return db.Model(&MatchPlayer{}).Where("match_id = ? AND team_id = ?", matchID, teamID), nil
	}
	return db.Model(&TeamMember{}).Where("team_id = ? AND is_active = ?", teamID, true), nil
}

// IsMember reports whether playerID may play for teamID in the match
func (r *teamRepository) IsMember(ctx context.Context, matchID, teamID, playerID uint) (bool, error) {
	q, err := r.squadQuery(ctx, matchID, teamID)
	if err != nil {
		return false, err
	}
	var count int64
	err = q.Where("user_id = ?", playerID).Count(&count).Error
	return count > 0, err
}

// Size counts the players available to teamID in the match
func (r *teamRepository) Size(ctx context.Context, matchID, teamID uint) (int, error) {
	q, err := r.squadQuery(ctx, matchID, teamID)
	if err != nil {
		return 0, err
	}
	var count int64
	err = q.Count(&count).Error
	return int(count), err
}

// HasAccepted reports whether scorerID accepted the invitation to score the match
func (r *teamRepository) HasAccepted(ctx context.Context, matchID, scorerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ScorerInvitation{}).
		Where("match_id = ? AND scorer_id = ? AND status = ?", matchID, scorerID, StatusAccepted).
		Count(&count).Error
	return count > 0, err
}

func (r *teamRepository) WithTransaction(ctx context.Context, txFunc func(TeamRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &teamRepository{db: tx}
		// Execute the function with the transactional repository
		return txFunc(txRepo)
	})
}
