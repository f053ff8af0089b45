// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds every server setting
type Config struct {
	Host        string
	Port        int
	Environment string
	LogLevel    slog.Level

	StorageType string
	RedisURL    string
	DatabaseURL string
	// SeedOnEmpty seeds the team at startup when the store has no players
	SeedOnEmpty bool

	AdminGate            string
	AdminPassword        string
	AdminPIN             string
	DefaultPIN           string
	SessionSecret        string
	AdminSessionDuration time.Duration

	BallotSchema   string
	RejectSelfVote bool

	NATSURL     string
	NATSSubject string

	// SSECleanupInterval is how often event hubs without listeners are stopped
	SSECleanupInterval time.Duration
}

// Load reads the configuration from the environment, falling back to development defaults
func Load() (Config, error) {
	cfg := Config{
		Host:                 getenv("HOST", ""),
		Port:                 getenvInt("PORT", 8080),
		Environment:          getenv("APP_ENV", "development"),
		LogLevel:             ParseLogLevel(getenv("LOG_LEVEL", "info")),
		StorageType:          strings.ToLower(getenv("STORAGE_TYPE", StorageMemory)),
		RedisURL:             getenv("REDIS_URL", "redis://localhost:6379"),
		DatabaseURL:          getenv("DATABASE_URL", ""),
		SeedOnEmpty:          getenvBool("SEED_ON_EMPTY", true),
		AdminGate:            getenv("ADMIN_GATE", "session"),
		AdminPassword:        getenv("ADMIN_PASSWORD", ""),
		AdminPIN:             getenv("ADMIN_PIN", "0000"),
		DefaultPIN:           getenv("DEFAULT_PIN", "1234"),
		SessionSecret:        getenv("SESSION_SECRET", ""),
		AdminSessionDuration: getenvDuration("ADMIN_SESSION_DURATION", 2*time.Hour),
		BallotSchema:         getenv("BALLOT_SCHEMA", "pillars"),
		RejectSelfVote:       getenvBool("REJECT_SELF_VOTE", true),
		NATSURL:              getenv("NATS_URL", ""),
		NATSSubject:          getenv("NATS_SUBJECT", "awards.events"),
		SSECleanupInterval:   getenvDuration("SSE_CLEANUP_INTERVAL", 5*time.Minute),
	}

	if cfg.DatabaseURL == "" && cfg.StorageType == StorageSQLite {
		cfg.DatabaseURL = "file:awards.db"
	}
	return cfg, cfg.Validate()
}

// Validate rejects combinations the server cannot start with
func (c Config) Validate() error {
	switch c.StorageType {
	case StorageMemory, StorageRedis, StorageSQLite:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL required when STORAGE_TYPE=%s", c.StorageType)
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q", c.StorageType)
	}
	if c.AdminGate == "query-param" && c.AdminPassword == "" {
		return fmt.Errorf("ADMIN_PASSWORD required when ADMIN_GATE=query-param")
	}
	if c.IsProduction() && c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET required in production")
	}
	return nil
}

// IsProduction controls secure cookies and secret requirements
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Addr is the listen address
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewLogger builds the JSON logger used by the server
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLogLevel accepts debug, info, warn/warning and error; anything else is info
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
