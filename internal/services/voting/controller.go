package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/matchawards/internal/dependencies/clock"
	"github.com/mcoot/matchawards/internal/dependencies/ids"
	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/metrics"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/services/messaging"
	"github.com/mcoot/matchawards/internal/storage"
)

// Authenticator revalidates a player's credentials
type Authenticator interface {
	Authenticate(ctx context.Context, shirt model.ShirtNumber, pin string) (*model.Player, error)
}

// MessageSender stores a message and notifies its audience
type MessageSender interface {
	Send(ctx context.Context, d messaging.Draft) (*model.Message, error)
}

// Config holds the voting rules of a deployment
type Config struct {
	Schema         model.BallotSchema
	RejectSelfVote bool
}

// DefaultConfig uses the three-pillar ballot and forbids self-votes
func DefaultConfig() Config {
	return Config{
		Schema:         model.PillarsSchema(),
		RejectSelfVote: true,
	}
}

// Controller runs the voting round: ballots, coach bonuses and round resets.
//
// Each step is a separate store call with no transaction around it. A failure
// part way through leaves the earlier steps applied; the tally resync repairs
// the vote counters from the stored votes.
type Controller struct {
	storage   storage.Storage
	auth      Authenticator
	messages  MessageSender
	clock     clock.Clock
	ids       ids.Generator
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	cfg       Config
}

// NewController creates a new voting Controller
func NewController(
	storage storage.Storage,
	auth Authenticator,
	messages MessageSender,
	clock clock.Clock,
	ids ids.Generator,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Controller{
		storage:   storage,
		auth:      auth,
		messages:  messages,
		clock:     clock,
		ids:       ids,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		cfg:       cfg,
	}
}

// Schema returns the ballot this deployment votes on
func (c *Controller) Schema() model.BallotSchema {
	return c.cfg.Schema
}

// CastVote records a player's ballot for the current round
func (c *Controller) CastVote(ctx context.Context, voter model.ShirtNumber, pin string, ballot model.Ballot) (*model.Vote, error) {
	player, err := c.auth.Authenticate(ctx, voter, pin)
	if err != nil {
		return nil, err
	}
	// The coach account is not on the ballot and does not vote
	if player.IsCoach() {
		return nil, model.ErrInvalidCredentials
	}
	if player.HasVoted {
		return nil, model.ErrAlreadyVoted
	}

	picks, err := c.resolveBallot(ctx, player, ballot)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	vote := &model.Vote{
		ID:        model.VoteID(c.ids.NewID()),
		Voter:     voter,
		Kind:      model.VoteKindBallot,
		Picks:     picks,
		Reason:    strings.TrimSpace(ballot.Reason),
		CreatedAt: now,
	}
	if err := c.storage.SaveVote(ctx, vote); err != nil {
		return nil, persistence(err)
	}

	for _, pick := range picks {
		if !pick.Resolved() {
			continue
		}
		if err := c.storage.IncrementPlayerVotes(ctx, pick.Target, 1); err != nil {
			c.logger.Error("vote stored but tally increment failed",
				slog.String("vote_id", string(vote.ID)),
				slog.Int("target", int(pick.Target)),
				slog.Any("error", err))
			return nil, persistence(err)
		}
	}

	if err := c.storage.MarkVoted(ctx, voter, now); err != nil {
		return nil, persistence(err)
	}

	if target, ok := c.reasonTarget(picks); ok && vote.Reason != "" {
		_, err := c.messages.Send(ctx, messaging.Draft{
			Recipient:  target,
			Sender:     voter,
			SenderName: player.Name,
			Text:       vote.Reason,
			Anonymous:  ballot.Anonymous,
			Direction:  model.DirectionToPlayer,
		})
		if err != nil {
			return nil, err
		}
	}

	c.metrics.VoteCast()
	c.publisher.Publish(ctx, events.Event{
		Type:  events.TypeVoteCast,
		Topic: events.TopicCoach,
		Data:  map[string]any{"voter": int(voter)},
	})
	c.logger.Info("vote cast",
		slog.String("vote_id", string(vote.ID)),
		slog.Int("voter", int(voter)),
		slog.Int("picks", len(picks)))
	return vote, nil
}

// resolveBallot validates the ballot against the schema and turns names into shirt numbers
func (c *Controller) resolveBallot(ctx context.Context, voter *model.Player, ballot model.Ballot) ([]model.Pick, error) {
	picks := make([]model.Pick, 0, len(c.cfg.Schema.Categories))
	for _, spec := range c.cfg.Schema.Categories {
		name := strings.TrimSpace(ballot.Selections[spec.Category])
		if name == "" {
			if spec.Required {
				return nil, fmt.Errorf("%w: %s is required", model.ErrIncompleteBallot, spec.Label)
			}
			continue
		}

		target, err := c.resolveName(ctx, name)
		if err != nil {
			return nil, err
		}
		if target == model.NoShirt && spec.Strict {
			return nil, fmt.Errorf("%w: %q", model.ErrTargetNotFound, name)
		}
		if target == voter.ShirtNumber && c.cfg.RejectSelfVote {
			return nil, model.ErrSelfVote
		}

		picks = append(picks, model.Pick{Category: spec.Category, Target: target, TargetName: name})
	}

	if c.cfg.Schema.RequireReason && strings.TrimSpace(ballot.Reason) == "" {
		return nil, fmt.Errorf("%w: a reason is required", model.ErrIncompleteBallot)
	}
	return picks, nil
}

// resolveName maps a teammate's name to a shirt number, or NoShirt.
// The coach is never a valid target.
func (c *Controller) resolveName(ctx context.Context, name string) (model.ShirtNumber, error) {
	p, err := c.storage.GetPlayerByName(ctx, name)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return model.NoShirt, nil
	}
	if err != nil {
		return model.NoShirt, persistence(err)
	}
	if p.IsCoach() {
		return model.NoShirt, nil
	}
	return p.ShirtNumber, nil
}

func (c *Controller) reasonTarget(picks []model.Pick) (model.ShirtNumber, bool) {
	if c.cfg.Schema.ReasonCategory == "" {
		return model.NoShirt, false
	}
	for _, p := range picks {
		if p.Category == c.cfg.Schema.ReasonCategory && p.Resolved() {
			return p.Target, true
		}
	}
	return model.NoShirt, false
}

// GiveBonus awards a coach bonus point with a reason the player gets to read.
// Callers must have checked admin access.
func (c *Controller) GiveBonus(ctx context.Context, target model.ShirtNumber, reason string) (*model.Vote, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a reason is required", model.ErrIncompleteBallot)
	}
	if target.IsCoach() {
		return nil, model.ErrPlayerNotFound
	}
	player, err := c.storage.GetPlayer(ctx, target)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, err
		}
		return nil, persistence(err)
	}

	vote := &model.Vote{
		ID:    model.VoteID(c.ids.NewID()),
		Voter: model.CoachShirtNumber,
		Kind:  model.VoteKindCoachBonus,
		Picks: []model.Pick{
			{Category: model.CategoryBonus, Target: target, TargetName: player.Name},
		},
		Reason:    reason,
		CreatedAt: c.clock.Now(),
	}
	if err := c.storage.SaveVote(ctx, vote); err != nil {
		return nil, persistence(err)
	}
	if err := c.storage.IncrementPlayerVotes(ctx, target, 1); err != nil {
		return nil, persistence(err)
	}
	if _, err := c.messages.Send(ctx, messaging.Draft{
		Recipient:  target,
		Sender:     model.CoachShirtNumber,
		SenderName: model.CoachName,
		Text:       reason,
		Direction:  model.DirectionToPlayer,
	}); err != nil {
		return nil, err
	}

	c.metrics.BonusGiven()
	c.publisher.Publish(ctx, events.Event{
		Type:  events.TypeBonusGiven,
		Topic: events.TopicCoach,
		Data:  map[string]any{"target": int(target)},
	})
	c.logger.Info("coach bonus given", slog.Int("target", int(target)))
	return vote, nil
}

// StartNewMatch opens a new round. Votes, messages and tallies are kept.
func (c *Controller) StartNewMatch(ctx context.Context) error {
	if err := c.storage.ResetHasVoted(ctx); err != nil {
		return persistence(err)
	}
	c.publisher.Publish(ctx, events.Event{Type: events.TypeRoundReset, Topic: events.TopicCoach})
	c.logger.Info("new match started")
	return nil
}

func persistence(err error) error {
	return fmt.Errorf("%w: %w", model.ErrPersistence, err)
}
