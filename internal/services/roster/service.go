package roster

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/matchawards/internal/dependencies/clock"
	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage"
)

// PINHasher hashes PINs for newly seeded accounts
type PINHasher interface {
	HashPIN(pin string) (string, error)
	DefaultPIN() string
}

// Config holds the roster a reseed recreates
type Config struct {
	Team []model.RosterEntry
	// CoachPIN is the coach account's PIN after a reseed
	CoachPIN string
}

// DefaultConfig seeds the built-in team
func DefaultConfig() Config {
	return Config{
		Team:     model.DefaultRoster(),
		CoachPIN: "0000",
	}
}

// Service seeds and lists the team
type Service struct {
	storage   storage.Storage
	hasher    PINHasher
	clock     clock.Clock
	publisher events.Publisher
	logger    *slog.Logger
	cfg       Config
}

// New creates a new roster Service
func New(storage storage.Storage, hasher PINHasher, clock clock.Clock, publisher events.Publisher, logger *slog.Logger, cfg Config) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		storage:   storage,
		hasher:    hasher,
		clock:     clock,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
	}
}

// SeedTeam deletes every player and recreates the configured roster plus the
// coach account. Votes and messages are kept. Counters and credentials start over.
func (s *Service) SeedTeam(ctx context.Context) error {
	teamHash, err := s.hasher.HashPIN(s.hasher.DefaultPIN())
	if err != nil {
		return err
	}
	coachHash, err := s.hasher.HashPIN(s.cfg.CoachPIN)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteAllPlayers(ctx); err != nil {
		return persistence(err)
	}

	now := s.clock.Now()
	coach := &model.Player{
		ShirtNumber: model.CoachShirtNumber,
		Name:        model.CoachName,
		PINHash:     coachHash,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.storage.SavePlayer(ctx, coach); err != nil {
		return persistence(err)
	}

	for _, entry := range s.cfg.Team {
		if entry.ShirtNumber.IsCoach() {
			continue
		}
		p := &model.Player{
			ShirtNumber:    entry.ShirtNumber,
			Name:           entry.Name,
			PINHash:        teamHash,
			NeedsPINChange: true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.storage.SavePlayer(ctx, p); err != nil {
			return persistence(err)
		}
	}

	s.publisher.Publish(ctx, events.Event{
		Type:  events.TypeRosterSeeded,
		Topic: events.TopicCoach,
		Data:  map[string]any{"players": len(s.cfg.Team)},
	})
	s.logger.Info("team seeded", slog.Int("players", len(s.cfg.Team)))
	return nil
}

// SeedIfEmpty seeds the team when the store holds no players at all.
// It reports whether a seed happened.
func (s *Service) SeedIfEmpty(ctx context.Context) (bool, error) {
	all, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return false, persistence(err)
	}
	if len(all) > 0 {
		return false, nil
	}
	return true, s.SeedTeam(ctx)
}

// Players lists the team without the coach, by shirt number
func (s *Service) Players(ctx context.Context) ([]*model.Player, error) {
	all, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	team := make([]*model.Player, 0, len(all))
	for _, p := range all {
		if !p.IsCoach() {
			team = append(team, p)
		}
	}
	return team, nil
}

// PendingVoters lists team members who have not voted this round
func (s *Service) PendingVoters(ctx context.Context) ([]*model.Player, error) {
	team, err := s.Players(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]*model.Player, 0, len(team))
	for _, p := range team {
		if !p.HasVoted {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

// CandidateNames lists the names a voter may pick on a ballot. The voter is
// left out; pass model.NoShirt to list everyone.
func (s *Service) CandidateNames(ctx context.Context, voter model.ShirtNumber) ([]string, error) {
	team, err := s.Players(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(team))
	for _, p := range team {
		if p.ShirtNumber != voter {
			names = append(names, p.Name)
		}
	}
	return names, nil
}

func persistence(err error) error {
	return fmt.Errorf("%w: %w", model.ErrPersistence, err)
}
