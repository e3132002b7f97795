package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DBDriver         string
	DBPath           string
	DatabaseURL      string
	JWTSecret        string
	TokenTTL         time.Duration
	CORSOrigins      []string
	MigrationsDir    string
	CatalogPath      string
	LogLevel         string
	LogFormat        string
	GinMode          string
	WorkDuration     time.Duration
	BreakDuration    time.Duration
	TickInterval     time.Duration
	WorkspaceIdleTTL time.Duration
}

// DSN returns the data source for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

// Load reads the configuration from the environment. Values from a .env file
// in the working directory are loaded first without overriding the
// environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:             getEnv("PORT", "8080"),
		DBDriver:         getEnv("DB_DRIVER", "sqlite3"),
		DBPath:           getEnv("DB_PATH", "./data/moodflow.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", "change-this-secret"),
		TokenTTL:         time.Duration(getEnvInt("TOKEN_TTL_HOURS", 72)) * time.Hour,
		CORSOrigins:      getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		MigrationsDir:    getEnv("MIGRATIONS_DIR", "./migrations"),
		CatalogPath:      getEnv("CATALOG_PATH", ""),
		LogLevel:         strings.ToUpper(getEnv("LOG_LEVEL", "INFO")),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", "json")),
		GinMode:          getEnv("GIN_MODE", "release"),
		WorkDuration:     time.Duration(getEnvInt("WORK_MINUTES", 25)) * time.Minute,
		BreakDuration:    time.Duration(getEnvInt("BREAK_MINUTES", 5)) * time.Minute,
		TickInterval:     time.Duration(getEnvInt("TIMER_TICK_MS", 1000)) * time.Millisecond,
		WorkspaceIdleTTL: time.Duration(getEnvInt("WORKSPACE_IDLE_MINUTES", 120)) * time.Minute,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
