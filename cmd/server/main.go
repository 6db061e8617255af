package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/app"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/config"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/database"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/migrations"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/scheduler"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/storage"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 0. Load Config & Initialize Logger
	cfg, err := config.Load()
	if err != nil {
		logger.Init("development")
		logger.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(cfg.Env)
	logger.Info().Str("environment", cfg.Env).Msg("Starting LifeStyle Coach Backend...")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()

	// 1. Connect Database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Database connection failed")
	}
	defer database.Close(db)

	logger.Info().Msg("Running database migrations...")
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate tables")
	}
	if err := migrations.NewMigrator(db).Run(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// 2. Optional infrastructure
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient = database.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	} else {
		logger.Warn().Msg("REDIS_ADDR not set: token revocation and scheduled reminders are disabled")
	}

	deps := app.Deps{DB: db, Redis: redisClient, Realtime: true}

	r2, err := storage.NewR2Store(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to configure object storage")
	}
	if r2 != nil {
		deps.Store = r2
	}

	if cfg.AIEnabled() {
		deps.Completer = services.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.AITimeout())
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set: matching returns unscored results")
	}

	application := app.New(cfg, deps)

	// 3. Socket.io
	go func() {
		if err := application.Hub.Serve(); err != nil {
			logger.Error().Err(err).Msg("Socket server stopped")
		}
	}()
	defer application.Hub.Close()

	// 4. Reminder scheduler
	var runner *scheduler.Runner
	if redisClient != nil {
		runner, err = scheduler.New(cfg, application.Reminders)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to configure reminder scheduler")
		}
		if err := runner.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start reminder scheduler")
		}
	}

	// 5. Start Server with graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      application.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if runner != nil {
		runner.Shutdown()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info().Msg("Server exited gracefully")
}
