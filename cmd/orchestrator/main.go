package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"linkhub/internal/config"
	"linkhub/internal/database"
	"linkhub/internal/logger"
	"linkhub/internal/orchestrator/retention"
	"linkhub/internal/repository"
	"linkhub/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// Parse mode flag
	mode := flag.String("mode", "retention", "Orchestrator mode: retention")
	flag.Parse()

	// Initialize logger
	logger := logger.New()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// Set up context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DBConnectionString, cfg.DBMaxConns, cfg.IsDevelopment())
	if err != nil {
		logger.Fatal().Msgf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	logger.Info().Msg("Database connection established")

	// Dispatch to the selected orchestrator
	var runErr error
	switch *mode {
	case "retention":
		analyticsSvc := service.NewAnalyticsService(
			repository.NewAnalyticsRepo(pool),
			repository.NewLinkRepo(pool),
			repository.NewUserRepo(pool),
			0,
			logger,
		)
		runErr = retention.Run(ctx, logger, analyticsSvc, cfg.AnalyticsRetentionDays, cfg.RetentionInterval)
	default:
		logger.Fatal().Msgf("Invalid mode: %s", *mode)
	}

	if runErr != nil {
		logger.Fatal().Msgf("Orchestrator %s exited with error: %v", *mode, runErr)
	}
	logger.Info().Msgf("Orchestrator %s shut down", *mode)
}
