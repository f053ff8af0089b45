package model

import "time"

// MessageID uniquely identifies a message
type MessageID string

// MessageDirection says which way a message travels between coach and player
type MessageDirection string

const (
	DirectionToCoach  MessageDirection = "to_coach"
	DirectionToPlayer MessageDirection = "to_player"
)

// AnonymousSenderLabel replaces the sender on anonymous messages
const AnonymousSenderLabel = "Anonymous"

// Message is a short note between the coach and a player.
// Recipient is the coach's shirt number for feedback.
type Message struct {
	ID          MessageID        `json:"id"`
	Recipient   ShirtNumber      `json:"recipient"`
	Sender      ShirtNumber      `json:"sender"`
	SenderName  string           `json:"sender_name"`
	Text        string           `json:"text"`
	IsAnonymous bool             `json:"is_anonymous"`
	Direction   MessageDirection `json:"direction"`
	CreatedAt   time.Time        `json:"created_at"`
}

// DisplaySender is the sender label shown to readers of the message
func (m *Message) DisplaySender() string {
	if m.IsAnonymous {
		return AnonymousSenderLabel
	}
	return m.SenderName
}
