package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mcoot/matchawards/internal/api"
	"github.com/mcoot/matchawards/internal/config"
	"github.com/mcoot/matchawards/internal/factory"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/services/roster"
	"github.com/mcoot/matchawards/internal/services/voting"
	redisstorage "github.com/mcoot/matchawards/internal/storage/redis"
)

func main() {
	// A .env file is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to read .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.Load()
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factoryCfg, err := factoryConfig(cfg, logger)
	if err != nil {
		return err
	}

	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close application", slog.String("error", err.Error()))
		}
	}()

	if cfg.SeedOnEmpty {
		seeded, err := app.Roster.SeedIfEmpty(ctx)
		if err != nil {
			return err
		}
		if seeded {
			logger.Info("seeded empty store with the default team")
		}
	}

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(app.Handler(factory.HandlerOptions{
		Logger:        logger,
		SecureCookies: cfg.IsProduction(),
	}), serverConfig, logger)
	server.OnShutdown(app.Hubs.Close)
	app.Hubs.StartCleanup(ctx, cfg.SSECleanupInterval)

	logger.Info("server starting",
		slog.String("addr", server.Addr()),
		slog.String("env", cfg.Environment),
		slog.String("storage", cfg.StorageType),
		slog.String("ballot", cfg.BallotSchema),
		slog.String("admin_gate", cfg.AdminGate))
	return server.Run(ctx)
}

// factoryConfig maps environment settings onto the application factory
func factoryConfig(cfg config.Config, logger *slog.Logger) (factory.Config, error) {
	schema, err := model.SchemaByName(cfg.BallotSchema)
	if err != nil {
		return factory.Config{}, err
	}
	gate, err := auth.ParseGateMode(cfg.AdminGate)
	if err != nil {
		return factory.Config{}, err
	}

	authCfg := auth.DefaultConfig()
	authCfg.DefaultPIN = cfg.DefaultPIN
	authCfg.AdminPassword = cfg.AdminPassword
	authCfg.AdminSessionDuration = cfg.AdminSessionDuration
	if cfg.SessionSecret != "" {
		authCfg.SessionSecret = []byte(cfg.SessionSecret)
	} else {
		logger.Warn("SESSION_SECRET not set, coach sessions end on restart")
	}

	rosterCfg := roster.DefaultConfig()
	rosterCfg.CoachPIN = cfg.AdminPIN

	out := factory.Config{
		Logger:       logger,
		StorageType:  cfg.StorageType,
		DatabaseURL:  cfg.DatabaseURL,
		AuthConfig:   authCfg,
		GateMode:     gate,
		VotingConfig: &voting.Config{Schema: schema, RejectSelfVote: cfg.RejectSelfVote},
		RosterConfig: &rosterCfg,
		NATSURL:      cfg.NATSURL,
		NATSSubject:  cfg.NATSSubject,
	}
	if cfg.StorageType == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		out.RedisConfig = &redisCfg
	}
	return out, nil
}
