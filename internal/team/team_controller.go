package team

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	mw "github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/DhavalSuthar-24/crease/internal/scoring"
	responses "github.com/DhavalSuthar-24/crease/pkg/matchresponse"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Matches looks up the match a squad or scorer invitation belongs to.
// *scoring.Engine satisfies it.
type Matches interface {
	GetMatch(ctx context.Context, matchID uint) (*scoring.Match, error)
}

// TeamController handles team, squad and scorer invitation HTTP requests
type TeamController struct {
	repo    TeamRepository
	matches Matches
	now     func() time.Time
}

// NewTeamController creates a new team controller
func NewTeamController(repo TeamRepository, matches Matches) *TeamController {
	return &TeamController{repo: repo, matches: matches, now: time.Now}
}

// --- Helper Functions for Auth ---

func getCurrentUserID(c *gin.Context) (uint, bool) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return 0, false
	}
	return userID, true
}

func parseParam(c *gin.Context, name, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid "+what+" ID")
		return 0, false
	}
	return uint(id), true
}

// isTeamManager checks if the user is creator, captain or vice_captain of the team
func (tc *TeamController) isTeamManager(c *gin.Context, teamID, userID uint) (bool, error) {
	ctx := c.Request.Context()
	isCreator, err := tc.repo.IsUserTeamCreator(ctx, teamID, userID)
	if err != nil {
		return false, err
	}
	if isCreator {
		return true, nil
	}

	member, err := tc.repo.GetTeamMember(ctx, teamID, userID)
	if err != nil {
		return false, err
	}
	if member == nil || !member.IsActive {
		return false, nil
	}
	return member.Role == RoleCaptain || member.Role == RoleViceCaptain, nil
}

// requireManager writes the error response and returns false unless the caller manages the team.
func (tc *TeamController) requireManager(c *gin.Context, teamID, userID uint) bool {
	isManager, err := tc.isTeamManager(c, teamID, userID)
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Uint("team_id", teamID).Msg("team manager check failed")
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to check team management")
		return false
	}
	if !isManager {
		responses.ErrorResponse(c, http.StatusForbidden, "Only team managers can do this")
		return false
	}
	return true
}

// scheduledMatch loads the match and writes the error response unless it is
// still Scheduled. Squads and scorers are fixed once play starts.
func (tc *TeamController) scheduledMatch(c *gin.Context, matchID uint) (*scoring.Match, bool) {
	m, err := tc.matches.GetMatch(c.Request.Context(), matchID)
	if err != nil {
		responses.ScoringError(c, err)
		return nil, false
	}
	if m.Status != scoring.StatusScheduled {
		responses.ErrorResponse(c, http.StatusConflict, "Match is "+string(m.Status)+", squads and scorers can no longer change")
		return nil, false
	}
	return m, true
}

// --- DTOs for requests ---

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

type AddMemberRequest struct {
	UserID       uint   `json:"user_id" binding:"required"`
	Role         string `json:"role" binding:"omitempty,oneof=player vice_captain captain"`
	JerseyNumber int    `json:"jersey_number" binding:"min=0"`
}

type SetSquadRequest struct {
	PlayerIDs []uint `json:"player_ids" binding:"required,min=2,max=11,unique,dive,required"`
}

type InviteScorerRequest struct {
	ScorerID uint `json:"scorer_id" binding:"required"`
}

// --- Team Handlers ---

// CreateTeam godoc
// @Summary Create a new team
// @Description Creates a new team with the authenticated user as the creator and captain.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team Creation Data"
// @Success 201 {object} Team "Team created successfully"
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	team := &Team{Name: req.Name, Description: req.Description, CreatedByID: userID}
	err := tc.repo.WithTransaction(c.Request.Context(), func(repo TeamRepository) error {
		if err := repo.CreateTeam(c.Request.Context(), team); err != nil {
			return err
		}
		return repo.AddTeamMember(c.Request.Context(), &TeamMember{
			TeamID:   team.ID,
			UserID:   userID,
			Role:     RoleCaptain,
			JoinedAt: tc.now(),
			IsActive: true,
		})
	})
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to create team: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusCreated, team)
}

// AddTeamMember godoc
// @Summary Add a team member
// @Description Adds a player to the team, or reactivates them. Managers only.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param member body AddMemberRequest true "Member"
// @Success 201 {object} TeamMember
// @Failure 403 {object} map[string]string "Caller does not manage the team"
// @Security BearerAuth
// @Router /teams/{team_id}/members [post]
func (tc *TeamController) AddTeamMember(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		return
	}
	teamID, ok := parseParam(c, "team_id", "team")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}
	if !tc.requireManager(c, teamID, userID) {
		return
	}

	role := req.Role
	if role == "" {
		role = RolePlayer
	}
	member := &TeamMember{
		TeamID:       teamID,
		UserID:       req.UserID,
		Role:         role,
		JoinedAt:     tc.now(),
		IsActive:     true,
		JerseyNumber: req.JerseyNumber,
	}
	if err := tc.repo.AddTeamMember(c.Request.Context(), member); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to add member: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusCreated, member)
}

// --- Match Squad Handlers ---

// SetMatchSquad godoc
// @Summary Name a match squad
// @Description Names the players a team fields in a scheduled match. Managers only.
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path uint true "Match ID"
// @Param team_id path uint true "Team ID"
// @Param squad body SetSquadRequest true "Players"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string "Caller does not manage the team"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Match already started"
// @Failure 422 {object} map[string]string "Team not in the match or player not a member"
// @Security BearerAuth
// @Router /matches/{id}/squads/{team_id} [put]
func (tc *TeamController) SetMatchSquad(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		return
	}
	matchID, ok := parseParam(c, "id", "match")
	if !ok {
		return
	}
	teamID, ok := parseParam(c, "team_id", "team")
	if !ok {
		return
	}

	var req SetSquadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}
	if !tc.requireManager(c, teamID, userID) {
		return
	}
	m, ok := tc.scheduledMatch(c, matchID)
	if !ok {
		return
	}
	if teamID != m.Team1ID && teamID != m.Team2ID {
		responses.ErrorResponse(c, http.StatusUnprocessableEntity, "Team is not playing this match")
		return
	}

	ctx := c.Request.Context()
	for _, playerID := range req.PlayerIDs {
		member, err := tc.repo.GetTeamMember(ctx, teamID, playerID)
		if err != nil {
			responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to check team membership: "+err.Error())
			return
		}
		if member == nil || !member.IsActive {
			responses.ErrorResponse(c, http.StatusUnprocessableEntity, "Player "+strconv.FormatUint(uint64(playerID), 10)+" is not an active member of the team")
			return
		}
	}

	err := tc.repo.WithTransaction(ctx, func(repo TeamRepository) error {
		return repo.SetMatchSquad(ctx, matchID, teamID, req.PlayerIDs)
	})
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to set squad: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Squad saved", "player_ids": req.PlayerIDs})
}

// GetMatchSquad godoc
// @Summary List a match squad
// @Tags Teams
// @Produce json
// @Param id path uint true "Match ID"
// @Param team_id path uint true "Team ID"
// @Success 200 {object} map[string]interface{}
// @Router /matches/{id}/squads/{team_id} [get]
func (tc *TeamController) GetMatchSquad(c *gin.Context) {
	matchID, ok := parseParam(c, "id", "match")
	if !ok {
		return
	}
	teamID, ok := parseParam(c, "team_id", "team")
	if !ok {
		return
	}

	ids, err := tc.repo.GetMatchSquad(c.Request.Context(), matchID, teamID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch squad: "+err.Error())
		return
	}
	if ids == nil {
		ids = []uint{}
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"player_ids": ids})
}

// --- Scorer Invitation Handlers ---

// InviteScorer godoc
// @Summary Invite a scorer
// @Description The match creator invites a user to score a scheduled match. The invitation
// @Description only takes effect once the creator also assigns that user as scorer.
// @Tags Scorer Invitations
// @Accept json
// @Produce json
// @Param id path uint true "Match ID"
// @Param invitation body InviteScorerRequest true "Invited user"
// @Success 201 {object} ScorerInvitation
// @Failure 403 {object} map[string]string "Caller did not create the match"
// @Failure 404 {object} map[string]string "Match not found"
// @Failure 409 {object} map[string]string "Match started or invitation already accepted"
// @Security BearerAuth
// @Router /matches/{id}/scorer-invitation [post]
func (tc *TeamController) InviteScorer(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		return
	}
	matchID, ok := parseParam(c, "id", "match")
	if !ok {
		return
	}

	var req InviteScorerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	m, ok := tc.scheduledMatch(c, matchID)
	if !ok {
		return
	}
	if m.CreatedByUserID != userID {
		responses.ErrorResponse(c, http.StatusForbidden, "Only the match creator can invite a scorer")
		return
	}

	ctx := c.Request.Context()
	existing, err := tc.repo.GetScorerInvitation(ctx, matchID, req.ScorerID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch invitation: "+err.Error())
		return
	}
	if existing != nil && existing.Status == StatusAccepted {
		responses.ErrorResponse(c, http.StatusConflict, "Invitation was already accepted")
		return
	}

	invitation := &ScorerInvitation{MatchID: matchID, ScorerID: req.ScorerID, InvitedByID: userID}
	if err := tc.repo.InviteScorer(ctx, invitation); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to invite scorer: "+err.Error())
		return
	}
	responses.SuccessResponse(c, http.StatusCreated, invitation)
}

// RespondToScorerInvitation godoc
// @Summary Respond to a scorer invitation
// @Description The invited user accepts or rejects scoring the match.
// @Tags Scorer Invitations
// @Produce json
// @Param id path uint true "Match ID"
// @Param action path string true "accept or reject"
// @Success 200 {object} ScorerInvitation
// @Failure 404 {object} map[string]string "Invitation not found"
// @Failure 409 {object} map[string]string "Invitation is not pending"
// @Security BearerAuth
// @Router /matches/{id}/scorer-invitation/{action} [put]
func (tc *TeamController) RespondToScorerInvitation(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		return
	}
	matchID, ok := parseParam(c, "id", "match")
	if !ok {
		return
	}
	action := strings.ToLower(c.Param("action"))
	if action != "accept" && action != "reject" {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid action. Must be 'accept' or 'reject'.")
		return
	}

	ctx := c.Request.Context()
	invitation, err := tc.repo.GetScorerInvitation(ctx, matchID, userID)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch invitation: "+err.Error())
		return
	}
	if invitation == nil {
		responses.ErrorResponse(c, http.StatusNotFound, "Invitation not found")
		return
	}
	if invitation.Status != StatusPending {
		responses.ErrorResponse(c, http.StatusConflict, "Invitation is not pending, cannot be processed.")
		return
	}

	invitation.Status = StatusRejected
	if action == "accept" {
		invitation.Status = StatusAccepted
	}
	now := tc.now()
	invitation.RespondedAt = &now
	if err := tc.repo.UpdateScorerInvitation(ctx, invitation); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to update invitation: "+err.Error())
		return
	}

	zerolog.Ctx(ctx).Info().
		Uint("match_id", matchID).
		Str("status", invitation.Status).
		Msg("scorer invitation answered")
	responses.SuccessResponse(c, http.StatusOK, invitation)
}
