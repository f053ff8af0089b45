package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage"
)

// Player hash fields
const (
	fieldName           = "name"
	fieldPINHash        = "pin_hash"
	fieldHasVoted       = "has_voted"
	fieldNeedsPINChange = "needs_pin_change"
	fieldVotes          = "votes"
	fieldCreatedAt      = "created_at"
	fieldUpdatedAt      = "updated_at"
)

// incrementIfExists bumps a hash field only when the hash is present, so a
// vote for a deleted player matches nothing instead of resurrecting it.
var incrementIfExists = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return redis.call('HINCRBY', KEYS[1], ARGV[1], ARGV[2])
end
return nil
`)

// setIfExists writes field/value pairs only when the hash is present
var setIfExists = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	redis.call('HSET', KEYS[1], unpack(ARGV))
	return 1
end
return 0
`)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	keys   keys
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Storage{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.keys.player(player.ShirtNumber), playerToHash(player))
	pipe.SAdd(ctx, s.keys.players(), int(player.ShirtNumber))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, shirt model.ShirtNumber) (*model.Player, error) {
	fields, err := s.client.HGetAll(ctx, s.keys.player(shirt)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return playerFromHash(shirt, fields)
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	players, err := s.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, model.ErrPlayerNotFound
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	shirts, err := s.shirtNumbers(ctx)
	if err != nil {
		return nil, err
	}
	if len(shirts) == 0 {
		return []*model.Player{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(shirts))
	for i, shirt := range shirts {
		cmds[i] = pipe.HGetAll(ctx, s.keys.player(shirt))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(shirts))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		p, err := playerFromHash(shirts[i], fields)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

func (s *Storage) DeleteAllPlayers(ctx context.Context) error {
	shirts, err := s.shirtNumbers(ctx)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, shirt := range shirts {
		pipe.Del(ctx, s.keys.player(shirt))
	}
	pipe.Del(ctx, s.keys.players())
	_, err = pipe.Exec(ctx)
	return err
}

// shirtNumbers returns the indexed shirt numbers in ascending order
func (s *Storage) shirtNumbers(ctx context.Context) ([]model.ShirtNumber, error) {
	members, err := s.client.SMembers(ctx, s.keys.players()).Result()
	if err != nil {
		return nil, err
	}
	shirts := make([]model.ShirtNumber, 0, len(members))
	for _, m := range members {
		n, err := strconv.Atoi(m)
		if err != nil {
			return nil, err
		}
		shirts = append(shirts, model.ShirtNumber(n))
	}
	slices.Sort(shirts)
	return shirts, nil
}

// Field updates

func (s *Storage) SetPlayerPIN(ctx context.Context, shirt model.ShirtNumber, pinHash string, needsChange bool, at time.Time) error {
	return s.updateFields(ctx, shirt,
		fieldPINHash, pinHash,
		fieldNeedsPINChange, formatBool(needsChange),
		fieldUpdatedAt, at.UnixMilli(),
	)
}

func (s *Storage) MarkVoted(ctx context.Context, shirt model.ShirtNumber, at time.Time) error {
	return s.updateFields(ctx, shirt,
		fieldHasVoted, formatBool(true),
		fieldUpdatedAt, at.UnixMilli(),
	)
}

// updateFields sets field/value pairs on an existing player hash
func (s *Storage) updateFields(ctx context.Context, shirt model.ShirtNumber, pairs ...any) error {
	updated, err := setIfExists.Run(ctx, s.client, []string{s.keys.player(shirt)}, pairs...).Int()
	if err != nil {
		return err
	}
	if updated == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

// Counter and round operations

func (s *Storage) IncrementPlayerVotes(ctx context.Context, shirt model.ShirtNumber, delta int) error {
	err := incrementIfExists.Run(ctx, s.client, []string{s.keys.player(shirt)}, fieldVotes, delta).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (s *Storage) SetPlayerVotes(ctx context.Context, shirt model.ShirtNumber, votes int) error {
	return s.updateFields(ctx, shirt, fieldVotes, votes)
}

func (s *Storage) ResetHasVoted(ctx context.Context) error {
	shirts, err := s.shirtNumbers(ctx)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, shirt := range shirts {
		pipe.HSet(ctx, s.keys.player(shirt), fieldHasVoted, formatBool(false))
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Vote operations

func (s *Storage) SaveVote(ctx context.Context, vote *model.Vote) error {
	data, err := json.Marshal(vote)
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, s.keys.votes(), data).Err()
}

func (s *Storage) ListVotes(ctx context.Context) ([]*model.Vote, error) {
	items, err := s.client.LRange(ctx, s.keys.votes(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	votes := make([]*model.Vote, 0, len(items))
	for _, item := range items {
		var v model.Vote
		if err := json.Unmarshal([]byte(item), &v); err != nil {
			return nil, err
		}
		votes = append(votes, &v)
	}
	return votes, nil
}

// Message operations

func (s *Storage) SaveMessage(ctx context.Context, msg *model.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.keys.messages(), data)
	pipe.LPush(ctx, s.keys.inbox(msg.Recipient), data)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListMessagesFor(ctx context.Context, recipient model.ShirtNumber) ([]*model.Message, error) {
	return s.listMessages(ctx, s.keys.inbox(recipient))
}

func (s *Storage) ListMessages(ctx context.Context) ([]*model.Message, error) {
	return s.listMessages(ctx, s.keys.messages())
}

func (s *Storage) listMessages(ctx context.Context, key string) ([]*model.Message, error) {
	items, err := s.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	msgs := make([]*model.Message, 0, len(items))
	for _, item := range items {
		var m model.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, err
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}

// Hash encoding

func playerToHash(p *model.Player) map[string]any {
	return map[string]any{
		fieldName:           p.Name,
		fieldPINHash:        p.PINHash,
		fieldHasVoted:       formatBool(p.HasVoted),
		fieldNeedsPINChange: formatBool(p.NeedsPINChange),
		fieldVotes:          p.Votes,
		fieldCreatedAt:      p.CreatedAt.UnixMilli(),
		fieldUpdatedAt:      p.UpdatedAt.UnixMilli(),
	}
}

func playerFromHash(shirt model.ShirtNumber, fields map[string]string) (*model.Player, error) {
	votes, err := strconv.Atoi(fields[fieldVotes])
	if err != nil {
		return nil, err
	}
	created, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, err
	}
	updated, err := strconv.ParseInt(fields[fieldUpdatedAt], 10, 64)
	if err != nil {
		return nil, err
	}
	return &model.Player{
		ShirtNumber:    shirt,
		Name:           fields[fieldName],
		PINHash:        fields[fieldPINHash],
		HasVoted:       fields[fieldHasVoted] == "1",
		NeedsPINChange: fields[fieldNeedsPINChange] == "1",
		Votes:          votes,
		CreatedAt:      time.UnixMilli(created).UTC(),
		UpdatedAt:      time.UnixMilli(updated).UTC(),
	}, nil
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
