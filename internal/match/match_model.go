package match

import (
	"time"

	"github.com/DhavalSuthar-24/crease/internal/scoring"
)

// --- DTOs for requests ---

// CreateMatchRequest defines the request payload for creating a match
type CreateMatchRequest struct {
	TournamentID *uint     `json:"tournament_id,omitempty"`
	Team1ID      uint      `json:"team1_id" binding:"required"`
	Team2ID      uint      `json:"team2_id" binding:"required,nefield=Team1ID"`
	Overs        int       `json:"overs" binding:"required,min=1"`
	BallType     string    `json:"ball_type" binding:"omitempty,oneof=leather tennis rubber"`
	Format       string    `json:"format" binding:"omitempty,oneof=t10 t20 odi custom"`
	CustomOvers  *int      `json:"custom_overs,omitempty" binding:"omitempty,min=1"`
	ScheduledAt  time.Time `json:"scheduled_at" binding:"required"`
	ScorerID     *uint     `json:"scorer_id,omitempty"`
}

func (r CreateMatchRequest) input() scoring.CreateMatchInput {
	return scoring.CreateMatchInput{
		TournamentID: r.TournamentID,
		Team1ID:      r.Team1ID,
		Team2ID:      r.Team2ID,
		Overs:        r.Overs,
		BallType:     scoring.BallType(r.BallType),
		Format:       scoring.MatchFormat(r.Format),
		CustomOvers:  r.CustomOvers,
		ScheduledAt:  r.ScheduledAt,
		ScorerID:     r.ScorerID,
	}
}

// UpdateMatchRequest defines the request payload for updating a scheduled match
type UpdateMatchRequest struct {
	Overs       *int       `json:"overs,omitempty" binding:"omitempty,min=1"`
	BallType    *string    `json:"ball_type,omitempty" binding:"omitempty,oneof=leather tennis rubber"`
	Format      *string    `json:"format,omitempty" binding:"omitempty,oneof=t10 t20 odi custom"`
	CustomOvers *int       `json:"custom_overs,omitempty" binding:"omitempty,min=1"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

func (r UpdateMatchRequest) input() scoring.UpdateMatchInput {
	in := scoring.UpdateMatchInput{
		Overs:       r.Overs,
		CustomOvers: r.CustomOvers,
		ScheduledAt: r.ScheduledAt,
	}
	if r.BallType != nil {
		bt := scoring.BallType(*r.BallType)
		in.BallType = &bt
	}
	if r.Format != nil {
		f := scoring.MatchFormat(*r.Format)
		in.Format = &f
	}
	return in
}

// AssignScorerRequest defines the request payload for assigning a scorer
type AssignScorerRequest struct {
	ScorerID uint `json:"scorer_id" binding:"required"`
}

// TossRequest defines the request payload for recording the toss
type TossRequest struct {
	WinnerTeamID uint   `json:"winner_team_id" binding:"required"`
	Decision     string `json:"decision" binding:"required,oneof=bat field"`
}

// OpenOverRequest defines the request payload for starting an over
type OpenOverRequest struct {
	InningNumber int   `json:"inning_number" binding:"required,oneof=1 2"`
	OverNumber   int   `json:"over_number" binding:"required,min=1"`
	BowlerID     uint  `json:"bowler_id" binding:"required"`
	StrikerID    *uint `json:"striker_id,omitempty"`
	NonStrikerID *uint `json:"non_striker_id,omitempty"`
}

func (r OpenOverRequest) input() scoring.OpenOverInput {
	return scoring.OpenOverInput{
		InningNumber: r.InningNumber,
		OverNumber:   r.OverNumber,
		BowlerID:     r.BowlerID,
		StrikerID:    r.StrikerID,
		NonStrikerID: r.NonStrikerID,
	}
}

// RecordBallRequest is a delivery in the flat form scoring clients submit
type RecordBallRequest struct {
	RunsOffBat         int    `json:"runs_off_bat" binding:"min=0,max=6"`
	IsWide             bool   `json:"is_wide"`
	WideExtra          int    `json:"wide_extra" binding:"min=0"`
	IsNoBall           bool   `json:"is_no_ball"`
	NoBallExtra        int    `json:"no_ball_extra" binding:"min=0"`
	IsBye              bool   `json:"is_bye"`
	ByeExtra           int    `json:"bye_extra" binding:"min=0"`
	IsLegBye           bool   `json:"is_leg_bye"`
	LegByeExtra        int    `json:"leg_bye_extra" binding:"min=0"`
	WicketType         string `json:"wicket_type,omitempty" binding:"omitempty,oneof=none bowled caught lbw run_out stumped hit_wicket handled_ball obstructing_field"`
	DismissedBatsmanID *uint  `json:"dismissed_batsman_id,omitempty"`
	FielderID          *uint  `json:"fielder_id,omitempty"`
	NewBatsmanID       *uint  `json:"new_batsman_id,omitempty"`
}

func (r RecordBallRequest) flags() scoring.DeliveryFlags {
	return scoring.DeliveryFlags{
		RunsOffBat:         r.RunsOffBat,
		IsWide:             r.IsWide,
		WideExtra:          r.WideExtra,
		IsNoBall:           r.IsNoBall,
		NoBallExtra:        r.NoBallExtra,
		IsBye:              r.IsBye,
		ByeExtra:           r.ByeExtra,
		IsLegBye:           r.IsLegBye,
		LegByeExtra:        r.LegByeExtra,
		WicketType:         scoring.WicketType(r.WicketType),
		DismissedBatsmanID: r.DismissedBatsmanID,
		FielderID:          r.FielderID,
	}
}

// CompleteMatchRequest defines the request payload for completing or abandoning a match
type CompleteMatchRequest struct {
	Abandoned bool `json:"abandoned"`
}
