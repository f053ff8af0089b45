package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE_TYPE", "ADMIN_GATE", "APP_ENV", "BALLOT_SCHEMA", "REJECT_SELF_VOTE", "LOG_LEVEL", "SSE_CLEANUP_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.Equal(t, "session", cfg.AdminGate)
	assert.Equal(t, 2*time.Hour, cfg.AdminSessionDuration)
	assert.Equal(t, 5*time.Minute, cfg.SSECleanupInterval)
	assert.Equal(t, "pillars", cfg.BallotSchema)
	assert.True(t, cfg.RejectSelfVote)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_TYPE", "SQLite")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_SESSION_DURATION", "30m")
	t.Setenv("REJECT_SELF_VOTE", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SSE_CLEANUP_INTERVAL", "1m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StorageSQLite, cfg.StorageType)
	assert.Equal(t, "file:awards.db", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Minute, cfg.AdminSessionDuration)
	assert.False(t, cfg.RejectSelfVote)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, time.Minute, cfg.SSECleanupInterval)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("ADMIN_SESSION_DURATION", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.AdminSessionDuration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"memory ok", Config{StorageType: StorageMemory}, ""},
		{"unknown storage", Config{StorageType: "mongo"}, "invalid STORAGE_TYPE"},
		{"postgres needs url", Config{StorageType: StoragePostgres}, "DATABASE_URL required"},
		{"query-param needs password", Config{StorageType: StorageMemory, AdminGate: "query-param"}, "ADMIN_PASSWORD required"},
		{"production needs secret", Config{StorageType: StorageMemory, Environment: "production"}, "SESSION_SECRET required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}
