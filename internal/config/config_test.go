package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "WORK_MINUTES", "BREAK_MINUTES", "TIMER_TICK_MS", "CORS_ORIGINS", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, cfg.DBPath, cfg.DSN())
	assert.Equal(t, 25*time.Minute, cfg.WorkDuration)
	assert.Equal(t, 5*time.Minute, cfg.BreakDuration)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Len(t, cfg.CORSOrigins, 2)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/moodflow?sslmode=disable")
	t.Setenv("WORK_MINUTES", "50")
	t.Setenv("BREAK_MINUTES", "not-a-number")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "postgres://localhost/moodflow?sslmode=disable", cfg.DSN())
	assert.Equal(t, 50*time.Minute, cfg.WorkDuration)
	assert.Equal(t, 5*time.Minute, cfg.BreakDuration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}
