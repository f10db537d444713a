package match

import (
	mw "github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/DhavalSuthar-24/crease/internal/scoring"
	"github.com/gin-gonic/gin"
)

// MatchRoutes sets up all match scoring routes.
func MatchRoutes(router *gin.RouterGroup, engine *scoring.Engine, jwtSecret string) {
	matchController := NewMatchController(engine)

	// Authenticated routes
	authRoutes := router.Group("/matches")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret)) // Require authentication
	{
		// Match lifecycle
		authRoutes.POST("", matchController.CreateMatch)
		authRoutes.GET("/:id", matchController.GetMatch)
		authRoutes.PUT("/:id", matchController.UpdateMatch)
		authRoutes.POST("/:id/scorer", matchController.AssignScorer)
		authRoutes.POST("/:id/start", matchController.StartMatch)
		authRoutes.POST("/:id/toss", matchController.RecordToss)
		authRoutes.POST("/:id/complete", matchController.CompleteMatch)

		// Ball by ball scoring
		authRoutes.POST("/:id/overs", matchController.OpenOver)
		authRoutes.POST("/:id/overs/close", matchController.CloseOver)
		authRoutes.POST("/:id/balls", matchController.RecordBall)

		authRoutes.GET("/:id/state", matchController.GetState)
		authRoutes.GET("/:id/result", matchController.GetResult)
	}

	// Tournament routes
	tournamentRoutes := router.Group("/tournaments")
	tournamentRoutes.Use(mw.AuthMiddleware(jwtSecret)) // Require authentication
	{
		tournamentRoutes.GET("/:id/points-table", matchController.GetPointsTable)
		tournamentRoutes.POST("/:id/points-table/recalculate", matchController.RecalculatePointsTable)
	}
}
