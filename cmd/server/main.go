package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"moodflow/backend/internal/catalog"
	"moodflow/backend/internal/config"
	"moodflow/backend/internal/db"
	"moodflow/backend/internal/handler"
	"moodflow/backend/internal/logging"
	"moodflow/backend/internal/repository"
	"moodflow/backend/internal/router"
	"moodflow/backend/internal/service"
	"moodflow/backend/internal/timer"
	"moodflow/backend/internal/workspace"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		fatal(logger, "open database", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
		fatal(logger, "run migrations", err)
	}

	moodCatalog, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		fatal(logger, "load catalog", err)
	}

	userRepo := repository.NewUserRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	ratingRepo := repository.NewRatingRepository(database)
	analyticsRepo := repository.NewAnalyticsRepository(database)

	workspaces := workspace.NewManager(sessionRepo, workspace.Config{
		Durations:    timer.Durations{Work: cfg.WorkDuration, Break: cfg.BreakDuration},
		TickInterval: cfg.TickInterval,
		IdleTTL:      cfg.WorkspaceIdleTTL,
	}, logger.With("component", "workspace"))

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, logger)
	studyService := service.NewStudyService(workspaces, moodCatalog, sessionRepo, logger)
	ratingService := service.NewRatingService(ratingRepo, sessionRepo, logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, moodCatalog, logger)

	engine := router.New(authService, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Study:     handler.NewStudyHandler(studyService),
		Timer:     handler.NewTimerHandler(studyService),
		Rating:    handler.NewRatingHandler(ratingService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
	}, cfg.CORSOrigins, logger.With("component", "http"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go workspaces.Run(ctx)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("backend listening", "port", cfg.Port, "db_driver", cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Closing the workspaces first ends open sessions and the timer event
	// streams, which would otherwise hold Shutdown until the deadline.
	workspaces.Close(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("backend stopped")
}

func fatal(logger *slog.Logger, message string, err error) {
	logger.Error(message, "error", err)
	os.Exit(1)
}
