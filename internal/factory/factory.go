package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/matchawards/internal/dependencies/clock"
	"github.com/mcoot/matchawards/internal/dependencies/ids"
	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/metrics"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/services/messaging"
	"github.com/mcoot/matchawards/internal/services/roster"
	"github.com/mcoot/matchawards/internal/services/tally"
	"github.com/mcoot/matchawards/internal/services/voting"
	"github.com/mcoot/matchawards/internal/storage"
	"github.com/mcoot/matchawards/internal/storage/memory"
	redisstorage "github.com/mcoot/matchawards/internal/storage/redis"
	"github.com/mcoot/matchawards/internal/storage/sqlstore"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Live updates
	Hubs      *events.HubManager
	Publisher events.Publisher

	Metrics *metrics.Metrics

	// Services
	AuthService *auth.Service
	Gate        *auth.Gate
	Messaging   *messaging.Service
	Voting      *voting.Controller
	Tally       *tally.Service
	Roster      *roster.Service

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// DatabaseURL is the SQLite DSN or Postgres connection string
	DatabaseURL string

	// AuthConfig holds configuration for the auth service (optional)
	AuthConfig auth.Config
	// GateMode selects admin gating, defaults to session
	GateMode auth.GateMode
	// VotingConfig selects the ballot schema and self-vote policy (optional)
	VotingConfig *voting.Config
	// RosterConfig is the team a reseed recreates (optional)
	RosterConfig *roster.Config

	// NATSURL enables the NATS event bridge when set
	NATSURL     string
	NATSSubject string
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closer, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var closers []io.Closer
	if closer != nil {
		closers = append(closers, closer)
	}

	hubs := events.NewHubManager(logger)
	var publisher events.Publisher = events.NewLocalPublisher(hubs, logger)
	if cfg.NATSURL != "" {
		bridge, err := events.NewNATSBridge(cfg.NATSURL, cfg.NATSSubject, publisher, logger)
		if err != nil {
			closeAll(closers)
			return nil, err
		}
		closers = append(closers, bridge)
		publisher = bridge
	}

	app := newWithDependencies(store, clock.New(), ids.New(), hubs, publisher, metrics.New(), cfg, logger)
	app.closers = closers
	return app, nil
}

func newStorage(ctx context.Context, cfg Config) (storage.Storage, io.Closer, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case StorageTypeSQLite, StorageTypePostgres:
		if cfg.DatabaseURL == "" {
			return nil, nil, fmt.Errorf("DatabaseURL required when StorageType is %s", storageType)
		}
		store, err := sqlstore.New(ctx, sqlstore.Config{Driver: storageType, DSN: cfg.DatabaseURL})
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, sqlite or postgres", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	idGen ids.Generator,
	hubs *events.HubManager,
	publisher events.Publisher,
	m *metrics.Metrics,
	cfg Config,
	logger *slog.Logger,
) *App {
	votingCfg := voting.DefaultConfig()
	if cfg.VotingConfig != nil {
		votingCfg = *cfg.VotingConfig
	}
	rosterCfg := roster.DefaultConfig()
	if cfg.RosterConfig != nil {
		rosterCfg = *cfg.RosterConfig
	}

	authService := auth.New(store, clk, publisher, m, cfg.AuthConfig)
	gate := auth.NewGate(cfg.GateMode, authService)
	messagingService := messaging.New(store, clk, idGen, publisher, m, logger)
	votingController := voting.NewController(store, authService, messagingService, clk, idGen, publisher, m, logger, votingCfg)
	tallyService := tally.New(store, publisher, m, logger)
	rosterService := roster.New(store, authService, clk, publisher, logger, rosterCfg)

	return &App{
		Storage:     store,
		Clock:       clk,
		IDs:         idGen,
		Hubs:        hubs,
		Publisher:   publisher,
		Metrics:     m,
		AuthService: authService,
		Gate:        gate,
		Messaging:   messagingService,
		Voting:      votingController,
		Tally:       tallyService,
		Roster:      rosterService,
	}
}

// Close stops the SSE hubs and releases storage and NATS connections
func (a *App) Close() error {
	if a.Hubs != nil {
		a.Hubs.Close()
	}
	return closeAll(a.closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	// reverse order of creation
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
