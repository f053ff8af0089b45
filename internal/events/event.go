package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/mcoot/matchawards/internal/model"
)

// Type names what happened
type Type string

const (
	TypeVoteCast      Type = "vote-cast"
	TypeBonusGiven    Type = "bonus-given"
	TypeRoundReset    Type = "round-reset"
	TypeRosterSeeded  Type = "roster-seeded"
	TypeTallyResynced Type = "tally-resynced"
	TypePINReset      Type = "pin-reset"
	TypeMessageSent   Type = "message-sent"
)

// Topic is the audience of an event: the coach dashboard or one player's inbox
type Topic string

// TopicCoach reaches every open coach dashboard
const TopicCoach Topic = "coach"

// PlayerTopic reaches the inbox of one player
func PlayerTopic(shirt model.ShirtNumber) Topic {
	return Topic(fmt.Sprintf("player:%d", shirt))
}

// Event is a change notification. Data must be JSON-encodable.
type Event struct {
	Type  Type           `json:"type"`
	Topic Topic          `json:"topic"`
	Data  map[string]any `json:"data,omitempty"`
}

// Publisher delivers events. Publishing never fails the caller's operation.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Recorder keeps published events in memory for assertions in tests
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything published so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the recorded event types in publish order
func (r *Recorder) Types() []Type {
	events := r.Events()
	types := make([]Type, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}
