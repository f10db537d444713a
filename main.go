package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/DhavalSuthar-24/crease/config"
	_ "github.com/DhavalSuthar-24/crease/docs"
	"github.com/DhavalSuthar-24/crease/internal/match"
	"github.com/DhavalSuthar-24/crease/internal/scoring"
	"github.com/DhavalSuthar-24/crease/internal/team"
	"github.com/DhavalSuthar-24/crease/pkg/logger"
	"github.com/DhavalSuthar-24/crease/routes"
)

// @title Crease Live Scoring API
// @version 1.0
// @description Ball-by-ball cricket scoring, results and tournament standings.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	cfg := config.GetConfig()
	appLogger := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	models := append(match.Models(), team.Models()...)
	if err := config.DB.AutoMigrate(models...); err != nil {
		appLogger.Fatal().Err(err).Msg("AutoMigrate failed")
	}
	appLogger.Info().Msg("AutoMigrate successful")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	teamRepo := team.NewTeamRepository(config.DB)
	engine := scoring.NewEngine(
		match.NewGormStore(config.DB),
		teamRepo,
		teamRepo,
		scoring.WithLogger(appLogger),
		scoring.WithMetrics(scoring.NewMetrics(registry)),
		scoring.WithLockTimeout(cfg.Scoring.LockTimeout),
		scoring.WithOversRange(cfg.Scoring.MinOvers, cfg.Scoring.MaxOvers),
	)

	r := routes.SetupRoutes(routes.Deps{
		Config:   cfg,
		Logger:   appLogger,
		Engine:   engine,
		Teams:    teamRepo,
		Gatherer: registry,
	})

	appLogger.Info().Str("port", cfg.App.Port).Str("env", cfg.App.Env).Msg("Starting server")
	if err := r.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal().Err(err).Msg("Failed to run server")
	}
}
