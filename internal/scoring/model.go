package scoring

import (
	"time"

	"gorm.io/gorm"
)

// MatchStatus is the coarse lifecycle state of a match.
type MatchStatus string

const (
	StatusScheduled  MatchStatus = "scheduled"
	StatusToss       MatchStatus = "toss"
	StatusInProgress MatchStatus = "in_progress"
	StatusCompleted  MatchStatus = "completed"
)

type MatchFormat string

const (
	FormatT10    MatchFormat = "t10"
	FormatT20    MatchFormat = "t20"
	FormatODI    MatchFormat = "odi"
	FormatCustom MatchFormat = "custom"
)

type BallType string

const (
	BallLeather BallType = "leather"
	BallTennis  BallType = "tennis"
	BallRubber  BallType = "rubber"
)

type TossDecision string

const (
	TossBat   TossDecision = "bat"
	TossField TossDecision = "field"
)

// Match is a limited-overs fixture between two teams.
type Match struct {
	gorm.Model
	TournamentID    *uint       `json:"tournament_id,omitempty" gorm:"index"`
	Team1ID         uint        `json:"team1_id" gorm:"index;not null"`
	Team2ID         uint        `json:"team2_id" gorm:"index;not null"`
	Overs           int         `json:"overs" gorm:"not null"`
	BallType        BallType    `json:"ball_type" gorm:"not null;default:'leather'"`
	Format          MatchFormat `json:"format" gorm:"not null;default:'t20'"`
	CustomOvers     *int        `json:"custom_overs,omitempty"`
	ScheduledAt     time.Time   `json:"scheduled_at" gorm:"index"`
	CreatedByUserID uint        `json:"created_by_user_id" gorm:"index;not null"`
	ScorerID        *uint       `json:"scorer_id,omitempty" gorm:"index"`
	Status          MatchStatus `json:"status" gorm:"index;not null;default:'scheduled'"`

	// Toss Information
	TossWinnerTeamID *uint        `json:"toss_winner_team_id,omitempty"`
	TossDecision     TossDecision `json:"toss_decision,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// OversLimit is the per-inning over quota, honouring the custom format override.
func (m *Match) OversLimit() int {
	if m.Format == FormatCustom && m.CustomOvers != nil {
		return *m.CustomOvers
	}
	return m.Overs
}

// HasTeam reports whether teamID is one of the two sides.
func (m *Match) HasTeam(teamID uint) bool {
	return teamID == m.Team1ID || teamID == m.Team2ID
}

// Opponent returns the other side.
func (m *Match) Opponent(teamID uint) uint {
	if teamID == m.Team1ID {
		return m.Team2ID
	}
	return m.Team1ID
}

// Sides returns the batting and fielding team for an inning. The toss winner
// bats first when they chose to bat; the second inning swaps.
func (m *Match) Sides(inning int) (batting, fielding uint, ok bool) {
	if m.TossWinnerTeamID == nil || m.TossDecision == "" {
		return 0, 0, false
	}
	first := *m.TossWinnerTeamID
	if m.TossDecision == TossField {
		first = m.Opponent(first)
	}
	switch inning {
	case 1:
		return first, m.Opponent(first), true
	case 2:
		return m.Opponent(first), first, true
	}
	return 0, 0, false
}

// Over belongs to one inning of one match. Its run, extras and wicket totals
// are recomputed from its balls and never set directly.
type Over struct {
	gorm.Model
	MatchID        uint `json:"match_id" gorm:"not null;uniqueIndex:idx_over_match_inning_number"`
	InningNumber   int  `json:"inning_number" gorm:"not null;uniqueIndex:idx_over_match_inning_number"`
	OverNumber     int  `json:"over_number" gorm:"not null;uniqueIndex:idx_over_match_inning_number"`
	BowlerID       uint `json:"bowler_id" gorm:"index;not null"`
	BattingTeamID  uint `json:"batting_team_id" gorm:"not null"`
	FieldingTeamID uint `json:"fielding_team_id" gorm:"not null"`

	// Batsmen at the crease when the over began. Zero marks a vacancy left
	// by a wicket on the last ball of the previous over.
	OpeningStrikerID    uint `json:"opening_striker_id"`
	OpeningNonStrikerID uint `json:"opening_non_striker_id"`

	Runs        int        `json:"runs" gorm:"default:0"`
	Extras      int        `json:"extras" gorm:"default:0"`
	Wickets     int        `json:"wickets" gorm:"default:0"`
	LegalBalls  int        `json:"legal_balls" gorm:"default:0"`
	IsMaiden    bool       `json:"is_maiden" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// EndsInning is set on the over that closed its inning. Once set the
	// inning stays complete whatever the roster says later.
	EndsInning bool `json:"ends_inning" gorm:"default:false"`
}

// IsOpen reports whether balls can still be recorded in the over.
func (o *Over) IsOpen() bool {
	return o.CompletedAt == nil
}

// Ball is one recorded delivery. Balls are never updated once written.
type Ball struct {
	gorm.Model
	OverID       uint `json:"over_id" gorm:"not null;uniqueIndex:idx_ball_over_sequence"`
	MatchID      uint `json:"match_id" gorm:"index;not null"`
	InningNumber int  `json:"inning_number" gorm:"not null"`
	Sequence     int  `json:"sequence" gorm:"not null;uniqueIndex:idx_ball_over_sequence"`

	StrikerID    uint `json:"striker_id" gorm:"index;not null"`
	NonStrikerID uint `json:"non_striker_id" gorm:"not null"`
	BowlerID     uint `json:"bowler_id" gorm:"index;not null"`

	RunsOffBat int       `json:"runs_off_bat" gorm:"default:0"`
	ExtraKind  ExtraKind `json:"extra_kind" gorm:"not null;default:'none'"`
	ExtraRuns  int       `json:"extra_runs" gorm:"default:0"`

	WicketType         WicketType `json:"wicket_type" gorm:"not null;default:'none'"`
	DismissedBatsmanID *uint      `json:"dismissed_batsman_id,omitempty"`
	FielderID          *uint      `json:"fielder_id,omitempty"`

	// Derived from the delivery when written.
	TotalRuns  int  `json:"total_runs"`
	BatRuns    int  `json:"bat_runs"`
	ExtrasRuns int  `json:"extras_runs"`
	IsLegal    bool `json:"is_legal"`
	IsDotBall  bool `json:"is_dot_ball"`
}

// Delivery reconstructs the scorer's input from a stored ball.
func (b *Ball) Delivery() Delivery {
	d := Delivery{
		RunsOffBat: b.RunsOffBat,
		Extra:      Extra{Kind: b.ExtraKind, Runs: b.ExtraRuns},
		Wicket:     Wicket{Type: b.WicketType, FielderID: b.FielderID},
	}
	if b.DismissedBatsmanID != nil {
		d.Wicket.DismissedID = *b.DismissedBatsmanID
	}
	return d
}

// Outcome reclassifies the stored delivery.
func (b *Ball) Outcome() Outcome {
	return Classify(b.Delivery())
}

// MatchResult is written once, when a match completes.
type MatchResult struct {
	gorm.Model
	MatchID       uint  `json:"match_id" gorm:"uniqueIndex;not null"`
	WinningTeamID *uint `json:"winning_team_id,omitempty"`
	IsTie         bool  `json:"is_tie"`
	IsAbandoned   bool  `json:"is_abandoned"`

	Team1Score   int   `json:"team1_score"`
	Team1Wickets int   `json:"team1_wickets"`
	Team1Overs   Overs `json:"team1_overs" gorm:"column:team1_balls"`
	Team2Score   int   `json:"team2_score"`
	Team2Wickets int   `json:"team2_wickets"`
	Team2Overs   Overs `json:"team2_overs" gorm:"column:team2_balls"`
}

// Tournament owns a set of matches and a points table.
type Tournament struct {
	gorm.Model
	Name            string `json:"name" gorm:"not null"`
	CreatedByUserID uint   `json:"created_by_user_id" gorm:"index"`
}

// TournamentTeam registers a team in a tournament. Registration itself is
// handled by the invitation workflow; the engine only reads it.
type TournamentTeam struct {
	gorm.Model
	TournamentID uint   `json:"tournament_id" gorm:"not null;uniqueIndex:idx_tournament_team_unique"`
	TeamID       uint   `json:"team_id" gorm:"not null;uniqueIndex:idx_tournament_team_unique"`
	Status       string `json:"status" gorm:"default:'accepted'"`
}

// PointsTableEntry is one team's standing in a tournament.
type PointsTableEntry struct {
	gorm.Model
	TournamentID  uint    `json:"tournament_id" gorm:"not null;uniqueIndex:idx_points_tournament_team"`
	TeamID        uint    `json:"team_id" gorm:"not null;uniqueIndex:idx_points_tournament_team"`
	MatchesPlayed int     `json:"matches_played"`
	MatchesWon    int     `json:"matches_won"`
	MatchesLost   int     `json:"matches_lost"`
	MatchesTied   int     `json:"matches_tied"`
	Points        int     `json:"points"`
	RunsScored    int     `json:"runs_scored"`
	RunsConceded  int     `json:"runs_conceded"`
	OversFaced    Overs   `json:"overs_faced" gorm:"column:balls_faced"`
	OversBowled   Overs   `json:"overs_bowled" gorm:"column:balls_bowled"`
	NetRunRate    float64 `json:"net_run_rate"`
}
