package team

import (
	mw "github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/gin-gonic/gin"
)

// TeamRoutes sets up team, squad and scorer invitation routes
func TeamRoutes(router *gin.RouterGroup, repo TeamRepository, matches Matches, jwtSecret string) {
	teamController := NewTeamController(repo, matches)

	// Public squad listing
	router.GET("/matches/:id/squads/:team_id", teamController.GetMatchSquad)

	// Authenticated user routes
	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret))
	{
		authRoutes.POST("/teams", teamController.CreateTeam)
		authRoutes.POST("/teams/:team_id/members", teamController.AddTeamMember) // Manager access

		authRoutes.PUT("/matches/:id/squads/:team_id", teamController.SetMatchSquad) // Manager access

		authRoutes.POST("/matches/:id/scorer-invitation", teamController.InviteScorer) // Match creator only
		authRoutes.PUT("/matches/:id/scorer-invitation/:action", teamController.RespondToScorerInvitation) // action: accept/reject
	}
}
