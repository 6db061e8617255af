package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/config"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/database"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/migrations"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/seeds"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
)

func main() {
	// Seeding usually runs from a developer shell, export .env first
	if err := godotenv.Load(); err != nil {
		logger.Init("development")
		logger.Warn().Msg("No .env file found, using the process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(cfg.Env)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Database connection failed")
	}
	defer database.Close(db)

	logger.Info().Msg("Running migrations (just in case)...")
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate tables")
	}
	if err := migrations.NewMigrator(db).Run(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	sum, err := seeds.SeedDemo(context.Background(), db)
	if err != nil {
		logger.Fatal().Err(err).Msg("Seeding failed")
	}
	logger.Info().Int("created", sum.Created).Int("existing", sum.Existing).Str("password", seeds.DemoPassword).Msg("Seed complete")
}
