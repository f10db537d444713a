package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/DhavalSuthar-24/crease/config"
	"github.com/DhavalSuthar-24/crease/internal/match"
	mw "github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/DhavalSuthar-24/crease/internal/scoring"
	"github.com/DhavalSuthar-24/crease/internal/team"
)

// Deps carries what the HTTP layer is built from.
type Deps struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Engine   *scoring.Engine
	Teams    team.TeamRepository
	Gatherer prometheus.Gatherer
}

func SetupRoutes(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestLogger(d.Logger))

	if d.Config.App.FrontendURL != "" {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = []string{d.Config.App.FrontendURL}
		corsCfg.AddAllowHeaders("Authorization", mw.RequestIDHeader)
		corsCfg.AddExposeHeaders(mw.RequestIDHeader, "Retry-After")
		r.Use(cors.New(corsCfg))
	} else {
		r.Use(cors.Default()) // allows all origins, GET/POST/PUT
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// API routes
	api := r.Group("/api")
	match.MatchRoutes(api, d.Engine, d.Config.JWT.AccessTokenSecret)
	team.TeamRoutes(api, d.Teams, d.Engine, d.Config.JWT.AccessTokenSecret)

	return r
}
