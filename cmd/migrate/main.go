package main

import (
	"context"
	"flag"
	"time"

	"linkhub/internal/config"
	"linkhub/internal/database"
	"linkhub/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	command := flag.String("command", "up", "Migration command: up|down|status|reset|version")
	flag.Parse()

	logger := logger.New()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DBConnectionString, 2, cfg.IsDevelopment())
	if err != nil {
		logger.Fatal().Msgf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, *command); err != nil {
		logger.Fatal().Msgf("Migration %s failed: %v", *command, err)
	}
	logger.Info().Str("command", *command).Msg("Migrations complete")
}
