package main

import (
	"log/slog"
	"os"

	"moodflow/backend/internal/config"
	"moodflow/backend/internal/db"
	"moodflow/backend/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsDir); err != nil {
		logger.Error("run migrations", "error", err, "dir", cfg.MigrationsDir)
		os.Exit(1)
	}

	logger.Info("migrations applied successfully", "db_driver", cfg.DBDriver)
}
