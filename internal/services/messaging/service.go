package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mcoot/matchawards/internal/dependencies/clock"
	"github.com/mcoot/matchawards/internal/dependencies/ids"
	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/metrics"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage"
)

// MaxTextLength caps message text in runes; longer text is truncated
const MaxTextLength = 1000

// Draft is a message before it has an ID and timestamp
type Draft struct {
	Recipient  model.ShirtNumber
	Sender     model.ShirtNumber
	SenderName string
	Text       string
	Anonymous  bool
	Direction  model.MessageDirection
}

// Service stores and lists messages between the coach and players
type Service struct {
	storage   storage.Storage
	clock     clock.Clock
	ids       ids.Generator
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a new messaging Service
func New(storage storage.Storage, clock clock.Clock, ids ids.Generator, publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		storage:   storage,
		clock:     clock,
		ids:       ids,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Send validates and stores a draft, then notifies the recipient's audience
func (s *Service) Send(ctx context.Context, d Draft) (*model.Message, error) {
	text := strings.TrimSpace(d.Text)
	if text == "" {
		return nil, model.ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		text = string([]rune(text)[:MaxTextLength])
	}

	msg := &model.Message{
		ID:          model.MessageID(s.ids.NewID()),
		Recipient:   d.Recipient,
		Sender:      d.Sender,
		SenderName:  strings.TrimSpace(d.SenderName),
		Text:        text,
		IsAnonymous: d.Anonymous,
		Direction:   d.Direction,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SaveMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}

	s.metrics.MessageStored(string(msg.Direction))
	topic := events.TopicCoach
	if msg.Direction == model.DirectionToPlayer {
		topic = events.PlayerTopic(msg.Recipient)
	}
	s.publisher.Publish(ctx, events.Event{
		Type:  events.TypeMessageSent,
		Topic: topic,
		Data: map[string]any{
			"id":     string(msg.ID),
			"sender": msg.DisplaySender(),
		},
	})
	s.logger.Info("message stored",
		slog.String("message_id", string(msg.ID)),
		slog.String("direction", string(msg.Direction)),
		slog.Int("recipient", int(msg.Recipient)))
	return msg, nil
}

// SendFeedback stores a player's note to the coach. An empty display name
// falls back to the sender's roster name.
func (s *Service) SendFeedback(ctx context.Context, sender model.ShirtNumber, displayName, text string, anonymous bool) (*model.Message, error) {
	if strings.TrimSpace(displayName) == "" && !anonymous {
		p, err := s.storage.GetPlayer(ctx, sender)
		switch {
		case err == nil:
			displayName = p.Name
		case !errors.Is(err, model.ErrPlayerNotFound):
			return nil, fmt.Errorf("%w: %w", model.ErrPersistence, err)
		}
	}
	return s.Send(ctx, Draft{
		Recipient:  model.CoachShirtNumber,
		Sender:     sender,
		SenderName: displayName,
		Text:       text,
		Anonymous:  anonymous,
		Direction:  model.DirectionToCoach,
	})
}

// SendNote stores a note from the coach to an existing player
func (s *Service) SendNote(ctx context.Context, recipient model.ShirtNumber, text string) (*model.Message, error) {
	if recipient.IsCoach() {
		return nil, model.ErrPlayerNotFound
	}
	if _, err := s.storage.GetPlayer(ctx, recipient); err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}
	return s.Send(ctx, Draft{
		Recipient:  recipient,
		Sender:     model.CoachShirtNumber,
		SenderName: model.CoachName,
		Text:       text,
		Direction:  model.DirectionToPlayer,
	})
}

// GetMessagesFor lists messages addressed to a shirt number, newest first
func (s *Service) GetMessagesFor(ctx context.Context, shirt model.ShirtNumber) ([]*model.Message, error) {
	msgs, err := s.storage.ListMessagesFor(ctx, shirt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}
	return msgs, nil
}

// Inbox lists the feedback sent to the coach, newest first
func (s *Service) Inbox(ctx context.Context) ([]*model.Message, error) {
	return s.GetMessagesFor(ctx, model.CoachShirtNumber)
}

// All lists every message, newest first
func (s *Service) All(ctx context.Context) ([]*model.Message, error) {
	msgs, err := s.storage.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}
	return msgs, nil
}
