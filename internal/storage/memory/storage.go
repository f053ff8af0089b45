package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	players  map[model.ShirtNumber]*model.Player
	votes    []*model.Vote
	messages []*model.Message
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[model.ShirtNumber]*model.Player),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ShirtNumber] = player.Clone()
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, shirt model.ShirtNumber) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[shirt]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.sortedPlayers() {
		if p.Name == name {
			return p.Clone(), nil
		}
	}
	return nil, model.ErrPlayerNotFound
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sorted := s.sortedPlayers()
	result := make([]*model.Player, 0, len(sorted))
	for _, p := range sorted {
		result = append(result, p.Clone())
	}
	return result, nil
}

func (s *Storage) DeleteAllPlayers(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.players)
	return nil
}

// sortedPlayers must be called with the lock held
func (s *Storage) sortedPlayers() []*model.Player {
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	slices.SortFunc(players, func(a, b *model.Player) int {
		return int(a.ShirtNumber) - int(b.ShirtNumber)
	})
	return players
}

// Field updates

func (s *Storage) SetPlayerPIN(ctx context.Context, shirt model.ShirtNumber, pinHash string, needsChange bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[shirt]
	if !ok {
		return model.ErrPlayerNotFound
	}
	p.PINHash = pinHash
	p.NeedsPINChange = needsChange
	p.UpdatedAt = at
	return nil
}

func (s *Storage) MarkVoted(ctx context.Context, shirt model.ShirtNumber, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[shirt]
	if !ok {
		return model.ErrPlayerNotFound
	}
	p.HasVoted = true
	p.UpdatedAt = at
	return nil
}

// Counter and round operations

func (s *Storage) IncrementPlayerVotes(ctx context.Context, shirt model.ShirtNumber, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[shirt]; ok {
		p.Votes += delta
	}
	return nil
}

func (s *Storage) SetPlayerVotes(ctx context.Context, shirt model.ShirtNumber, votes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[shirt]
	if !ok {
		return model.ErrPlayerNotFound
	}
	p.Votes = votes
	return nil
}

func (s *Storage) ResetHasVoted(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		p.HasVoted = false
	}
	return nil
}

// Vote operations

func (s *Storage) SaveVote(ctx context.Context, vote *model.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes = append(s.votes, cloneVote(vote))
	return nil
}

func (s *Storage) ListVotes(ctx context.Context) ([]*model.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Vote, 0, len(s.votes))
	for _, v := range s.votes {
		result = append(result, cloneVote(v))
	}
	return result, nil
}

func cloneVote(v *model.Vote) *model.Vote {
	cp := *v
	cp.Picks = slices.Clone(v.Picks)
	return &cp
}

// Message operations

func (s *Storage) SaveMessage(ctx context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *msg
	s.messages = append(s.messages, &cp)
	return nil
}

func (s *Storage) ListMessagesFor(ctx context.Context, recipient model.ShirtNumber) ([]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Message
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Recipient == recipient {
			cp := *s.messages[i]
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (s *Storage) ListMessages(ctx context.Context) ([]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Message, 0, len(s.messages))
	for i := len(s.messages) - 1; i >= 0; i-- {
		cp := *s.messages[i]
		result = append(result, &cp)
	}
	return result, nil
}
