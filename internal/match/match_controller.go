package match

import (
	"net/http"
	"strconv"

	mw "github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/DhavalSuthar-24/crease/internal/scoring"
	responses "github.com/DhavalSuthar-24/crease/pkg/matchresponse"
	"github.com/gin-gonic/gin"
)

// MatchController handles match scoring HTTP requests
type MatchController struct {
	engine *scoring.Engine
}

// NewMatchController creates a new match controller
func NewMatchController(engine *scoring.Engine) *MatchController {
	return &MatchController{engine: engine}
}

// --- Helper Functions ---

func getCurrentUserID(c *gin.Context) (uint, bool) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return 0, false
	}
	return userID, true
}

func parseID(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		responses.ErrorResponse(c, http.StatusBadRequest, "Invalid "+what+" ID")
		return 0, false
	}
	return uint(id), true
}

// caller resolves the authenticated user and the match id of the request.
func caller(c *gin.Context) (userID, matchID uint, ok bool) {
	if userID, ok = getCurrentUserID(c); !ok {
		return 0, 0, false
	}
	if matchID, ok = parseID(c, "match"); !ok {
		return 0, 0, false
	}
	return userID, matchID, true
}

// --- Match Lifecycle ---

// CreateMatch godoc
// @Summary      Create a match
// @Description  Creates a scheduled limited-overs match owned by the caller. A scorer must be assigned before it can start.
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        match  body  CreateMatchRequest  true  "Match setup"
// @Success      201  {object}  scoring.Match
// @Failure      400  {object}  map[string]string  "Invalid payload"
// @Failure      409  {object}  map[string]string  "Teams not registered in the tournament"
// @Failure      422  {object}  map[string]string  "Invalid match setup"
// @Router       /matches [post]
func (mc *MatchController) CreateMatch(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	match, err := mc.engine.CreateMatch(c.Request.Context(), userID, req.input())
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusCreated, match)
}

// GetMatch godoc
// @Summary      Get a match
// @Tags         Matches
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Match ID"
// @Success      200  {object}  scoring.Match
// @Failure      404  {object}  map[string]string  "Match not found"
// @Router       /matches/{id} [get]
func (mc *MatchController) GetMatch(c *gin.Context) {
	id, ok := parseID(c, "match")
	if !ok {
		return
	}

	match, err := mc.engine.GetMatch(c.Request.Context(), id)
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, match)
}

// UpdateMatch godoc
// @Summary      Edit a scheduled match
// @Description  Changes the overs, ball type, format or start time. Creator only, and only before the match starts.
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path  int                 true  "Match ID"
// @Param        match  body  UpdateMatchRequest  true  "Fields to change"
// @Success      200  {object}  scoring.Match
// @Failure      403  {object}  map[string]string  "Caller did not create the match"
// @Failure      409  {object}  map[string]string  "Match already started"
// @Failure      422  {object}  map[string]string  "Invalid match setup"
// @Router       /matches/{id} [put]
func (mc *MatchController) UpdateMatch(c *gin.Context) {
	userID, matchID, ok := caller(c)
	if !ok {
		return
	}

	var req UpdateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	match, err := mc.engine.UpdateMatch(c.Request.Context(), matchID, userID, req.input())
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, match)
}

// AssignScorer godoc
// @Summary      Assign the scorer
// @Description  Delegates scoring of a scheduled match. A scorer other than the creator must accept an invitation before the match can start.
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int                  true  "Match ID"
// @Param        scorer  body  AssignScorerRequest  true  "Scorer"
// @Success      200  {object}  map[string]interface{}  "Scorer assigned, with the match"
// @Failure      403  {object}  map[string]string  "Caller did not create the match"
// @Failure      409  {object}  map[string]string  "Match already started"
// @Router       /matches/{id}/scorer [post]
func (mc *MatchController) AssignScorer(c *gin.Context) {
	userID, matchID, ok := caller(c)
	if !ok {
		return
	}

	var req AssignScorerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	match, err := mc.engine.AssignScorer(c.Request.Context(), matchID, userID, req.ScorerID)
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Scorer assigned", "match": match})
}

// StartMatch godoc
// @Summary      Start a match
// @Description  Moves a scheduled match to the toss. Only the assigned scorer may start it.
// @Tags         Matches
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Match ID"
// @Success      200  {object}  scoring.Match
// @Failure      403  {object}  map[string]string  "Caller is not the scorer"
// @Failure      409  {object}  map[string]string  "Match is not scheduled"
// @Router       /matches/{id}/start [post]
func (mc *MatchController) StartMatch(c *gin.Context) {
	userID, matchID, ok := caller(c)
	if !ok {
		return
	}

	match, err := mc.engine.StartMatch(c.Request.Context(), matchID, userID)
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Match started", "match": match})
}

// RecordToss godoc
// @Summary      Record the toss
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int          true  "Match ID"
// @Param        toss  body  TossRequest  true  "Toss winner and decision"
// @Success      200  {object}  scoring.Match
// @Router       /matches/{id}/toss [post]
func (mc *MatchController) RecordToss(c *gin.Context) {
	userID, matchID, ok := caller(c)
	if !ok {
		return
	}

	var req TossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	match, err := mc.engine.RecordToss(c.Request.Context(), matchID, userID, req.WinnerTeamID, scoring.TossDecision(req.Decision))
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, gin.H{"message": "Toss recorded", "match": match})
}

// --- Ball by Ball Scoring ---

// OpenOver godoc
// @Summary      Open an over
// @Description  Starts the next over of an inning. Opening batsmen are given with the first over of each inning.
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int              true  "Match ID"
// @Param        over  body  OpenOverRequest  true  "Over details"
// @Success      201  {object}  scoring.Over
// @Failure      409  {object}  map[string]string  "Over out of sequence"
// @Router       /matches/{id}/overs [post]
func (mc *MatchController) OpenOver(c *gin.Context) {
	userID, matchID, ok := caller(c)
	if !ok {
		return
	}

	var req OpenOverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	over, err := mc.engine.OpenOver(c.Request.Context(), matchID, userID, req.input())
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusCreated, over)
}

// RecordBall godoc
// @Summary      Record a ball
// @Description  Appends a delivery to the open over and returns the stored ball with its derived totals.
// @Tags         Scoring
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                true  "Match ID"
// @Param        ball  body  RecordBallRequest  true  "Delivery"
// @Success      201  {object}  scoring.Ball
// @Failure      409  {object}  map[string]string  "No open over"
// @Failure      422  {object}  map[string]string  "Inconsistent delivery"
// @Failure      503  {object}  map[string]string  "Match busy, retry"
// @Router       /matches/{id}/balls [post]
func (mc *MatchController) RecordBall(c *gin.Context) {
	userID, matchID, ok := caller(c)
	if !ok {
		return
	}

	var req RecordBallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	delivery, err := scoring.ParseDelivery(req.flags())
	if err != nil {
		responses.ScoringError(c, err)
		return
	}

	ball, err := mc.engine.RecordBall(c.Request.Context(), matchID, userID, scoring.BallInput{
		Delivery:     delivery,
		NewBatsmanID: req.NewBatsmanID,
	})
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusCreated, ball)
}

// CloseOver godoc
// @Summary      Close the open over
// @Description  Completes the open over early. Closing when no over is open returns the last over unchanged.
// @Tags         Scoring
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Match ID"
// @Success      200  {object}  scoring.Over
// @Failure      403  {object}  map[string]string  "Caller is not the scorer"
// @Failure      409  {object}  map[string]string  "Match has no overs"
// @Failure      503  {object}  map[string]string  "Match busy, retry"
// @Router       /matches/{id}/overs/close [post]
func (mc *MatchController) CloseOver(c *gin.Context) {
	userID, matchID, ok := caller(c)
	if !ok {
		return
	}

	over, err := mc.engine.CloseOver(c.Request.Context(), matchID, userID)
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, over)
}

// CompleteMatch godoc
// @Summary      Complete or abandon a match
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int                   true   "Match ID"
// @Param        result  body  CompleteMatchRequest  false  "Set abandoned to end the match without a winner"
// @Success      200  {object}  scoring.MatchResult
// @Router       /matches/{id}/complete [post]
func (mc *MatchController) CompleteMatch(c *gin.Context) {
	userID, matchID, ok := caller(c)
	if !ok {
		return
	}

	var req CompleteMatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.ValidationErrorResponse(c, err)
			return
		}
	}

	result, err := mc.engine.CompleteMatch(c.Request.Context(), matchID, userID, req.Abandoned)
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, result)
}

// --- Reads ---

// GetState godoc
// @Summary      Live match state
// @Description  Current inning, per-inning totals, the open over with the batsmen at the crease, and the result once completed.
// @Tags         Scoring
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Match ID"
// @Success      200  {object}  scoring.MatchState
// @Router       /matches/{id}/state [get]
func (mc *MatchController) GetState(c *gin.Context) {
	id, ok := parseID(c, "match")
	if !ok {
		return
	}

	state, err := mc.engine.GetCurrentState(c.Request.Context(), id)
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, state)
}

// GetResult godoc
// @Summary      Match result
// @Description  The stored result of a completed or abandoned match.
// @Tags         Matches
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Match ID"
// @Success      200  {object}  scoring.MatchResult
// @Failure      404  {object}  map[string]string  "Match or result not found"
// @Router       /matches/{id}/result [get]
func (mc *MatchController) GetResult(c *gin.Context) {
	id, ok := parseID(c, "match")
	if !ok {
		return
	}

	result, err := mc.engine.GetResult(c.Request.Context(), id)
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, result)
}

// --- Tournament Standings ---

// GetPointsTable godoc
// @Summary      Tournament points table
// @Description  Standings ordered by points, then net run rate.
// @Tags         Tournaments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Tournament ID"
// @Success      200  {array}  scoring.PointsTableEntry
// @Router       /tournaments/{id}/points-table [get]
func (mc *MatchController) GetPointsTable(c *gin.Context) {
	id, ok := parseID(c, "tournament")
	if !ok {
		return
	}

	table, err := mc.engine.GetPointsTable(c.Request.Context(), id)
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, table)
}

// RecalculatePointsTable godoc
// @Summary      Rebuild the points table
// @Description  Resets the standings and replays every completed, non-abandoned match of the tournament.
// @Tags         Tournaments
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Tournament ID"
// @Success      200  {array}   scoring.PointsTableEntry
// @Failure      404  {object}  map[string]string  "Tournament not found"
// @Failure      503  {object}  map[string]string  "Tournament busy, retry"
// @Router       /tournaments/{id}/points-table/recalculate [post]
func (mc *MatchController) RecalculatePointsTable(c *gin.Context) {
	id, ok := parseID(c, "tournament")
	if !ok {
		return
	}

	table, err := mc.engine.RecalculatePointsTable(c.Request.Context(), id)
	if err != nil {
		responses.ScoringError(c, err)
		return
	}
	responses.SuccessResponse(c, http.StatusOK, table)
}
