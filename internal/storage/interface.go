package storage

import (
	"context"
	"time"

	"github.com/mcoot/matchawards/internal/model"
)

// Storage defines the interface for the record store.
//
// Every method is a single store call; callers get no cross-record atomicity.
// IncrementPlayerVotes is the only read-modify-write and must be atomic per player;
// the other player updates touch only their own fields so they never lose an increment.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, shirt model.ShirtNumber) (*model.Player, error)
	// GetPlayerByName returns the lowest-numbered player with exactly this name
	GetPlayerByName(ctx context.Context, name string) (*model.Player, error)
	// ListPlayers returns every player, coach included, ordered by shirt number
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	DeleteAllPlayers(ctx context.Context) error

	// Field updates, returning model.ErrPlayerNotFound when the player does not exist
	SetPlayerPIN(ctx context.Context, shirt model.ShirtNumber, pinHash string, needsChange bool, at time.Time) error
	MarkVoted(ctx context.Context, shirt model.ShirtNumber, at time.Time) error

	// Counter and round operations
	// IncrementPlayerVotes is a no-op when the player does not exist
	IncrementPlayerVotes(ctx context.Context, shirt model.ShirtNumber, delta int) error
	SetPlayerVotes(ctx context.Context, shirt model.ShirtNumber, votes int) error
	ResetHasVoted(ctx context.Context) error

	// Vote operations, listed oldest first
	SaveVote(ctx context.Context, vote *model.Vote) error
	ListVotes(ctx context.Context) ([]*model.Vote, error)

	// Message operations, listed newest first
	SaveMessage(ctx context.Context, msg *model.Message) error
	ListMessagesFor(ctx context.Context, recipient model.ShirtNumber) ([]*model.Message, error)
	ListMessages(ctx context.Context) ([]*model.Message, error)
}
