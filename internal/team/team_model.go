package team

import (
	"time"

	"gorm.io/gorm"
)

const (
	RolePlayer      = "player"
	RoleViceCaptain = "vice_captain"
	RoleCaptain     = "captain"

	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Team represents a cricket side
type Team struct {
	gorm.Model
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	CreatedByID uint   `json:"created_by_id" gorm:"index"`
}

// TeamMember represents a user's membership in a team
type TeamMember struct {
	gorm.Model
	TeamID       uint      `json:"team_id" gorm:"uniqueIndex:idx_team_member"`
	UserID       uint      `json:"user_id" gorm:"uniqueIndex:idx_team_member"`
	Role         string    `json:"role" gorm:"default:'player'"`
	JoinedAt     time.Time `json:"joined_at"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	JerseyNumber int       `json:"jersey_number"`
}

// MatchPlayer names a player in a team's squad for one match. A team with no
// squad rows for a match fields its active members.
type MatchPlayer struct {
	gorm.Model
	MatchID uint `json:"match_id" gorm:"not null;uniqueIndex:idx_match_player"`
	TeamID  uint `json:"team_id" gorm:"not null;uniqueIndex:idx_match_player"`
	UserID  uint `json:"user_id" gorm:"not null;uniqueIndex:idx_match_player"`
}

// ScorerInvitation asks a user to score a match on the creator's behalf
type ScorerInvitation struct {
	gorm.Model
	MatchID     uint       `json:"match_id" gorm:"not null;uniqueIndex:idx_scorer_invitation"`
	ScorerID    uint       `json:"scorer_id" gorm:"not null;uniqueIndex:idx_scorer_invitation"`
	InvitedByID uint       `json:"invited_by_id" gorm:"index"`
	Status      string     `json:"status" gorm:"default:'pending'"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// Models lists the tables owned by this package, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{&Team{}, &TeamMember{}, &MatchPlayer{}, &ScorerInvitation{}}
}
