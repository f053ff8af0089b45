package tally

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/metrics"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage"
)

// Service derives standings and reconciles the denormalized vote counters
type Service struct {
	storage   storage.Storage
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a new tally Service
func New(storage storage.Storage, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		storage:   storage,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Standings reads the stored counters of every team member, best first
func (s *Service) Standings(ctx context.Context) ([]model.Standing, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, persistence(err)
	}
	standings := make([]model.Standing, 0, len(players))
	for _, p := range players {
		if p.IsCoach() {
			continue
		}
		standings = append(standings, model.NewStanding(p.ShirtNumber, p.Name, p.Votes))
	}
	sortStandings(standings)
	return standings, nil
}

// Count tallies stored votes per player without writing anything.
// Every pick counts once. Picks stored without a target are matched by name
// against the current roster, so a renamed or reseeded player can pick them up.
func (s *Service) Count(ctx context.Context) (map[model.ShirtNumber]int, []*model.Player, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, nil, persistence(err)
	}
	votes, err := s.storage.ListVotes(ctx)
	if err != nil {
		return nil, nil, persistence(err)
	}

	known := make(map[model.ShirtNumber]bool, len(players))
	byName := make(map[string]model.ShirtNumber, len(players))
	for _, p := range players {
		if p.IsCoach() {
			continue
		}
		known[p.ShirtNumber] = true
		// players are ordered by shirt, so the lowest number wins a name clash
		if _, ok := byName[p.Name]; !ok {
			byName[p.Name] = p.ShirtNumber
		}
	}

	counts := make(map[model.ShirtNumber]int, len(players))
	for _, v := range votes {
		for _, pick := range v.Picks {
			target := pick.Target
			if !pick.Resolved() {
				shirt, ok := byName[pick.TargetName]
				if !ok {
					continue
				}
				target = shirt
			}
			if known[target] {
				counts[target]++
			}
		}
	}
	return counts, players, nil
}

// Resync overwrites every player's counter with the count derived from stored votes.
// Running it twice gives the same result.
func (s *Service) Resync(ctx context.Context) ([]model.Standing, error) {
	counts, players, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}

	standings := make([]model.Standing, 0, len(players))
	corrected := 0
	for _, p := range players {
		if p.IsCoach() {
			continue
		}
		n := counts[p.ShirtNumber]
		if n != p.Votes {
			corrected++
		}
		if err := s.storage.SetPlayerVotes(ctx, p.ShirtNumber, n); err != nil {
			return nil, persistence(err)
		}
		standings = append(standings, model.NewStanding(p.ShirtNumber, p.Name, n))
	}
	sortStandings(standings)

	s.metrics.Resynced()
	s.publisher.Publish(ctx, events.Event{
		Type:  events.TypeTallyResynced,
		Topic: events.TopicCoach,
		Data:  map[string]any{"corrected": corrected},
	})
	s.logger.Info("tally resynced", slog.Int("players", len(standings)), slog.Int("corrected", corrected))
	return standings, nil
}

func sortStandings(standings []model.Standing) {
	slices.SortStableFunc(standings, func(a, b model.Standing) int {
		if a.Votes != b.Votes {
			return b.Votes - a.Votes
		}
		return int(a.ShirtNumber) - int(b.ShirtNumber)
	})
}

func persistence(err error) error {
	return fmt.Errorf("%w: %w", model.ErrPersistence, err)
}
