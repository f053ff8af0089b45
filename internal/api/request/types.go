package request

import "github.com/mcoot/matchawards/internal/model"

// Credentials identify a player. The player flow is stateless, so every
// player request carries them again.
type Credentials struct {
	ShirtNumber int    `json:"shirt_number"`
	PIN         string `json:"pin"`
}

// Shirt returns the shirt number as a model value
func (c Credentials) Shirt() model.ShirtNumber {
	return model.ShirtNumber(c.ShirtNumber)
}

// LoginRequest is the request body for logging in
type LoginRequest = Credentials

// InboxRequest is the request body for reading a player's messages
type InboxRequest = Credentials

// ChangePINRequest is the request body for changing a PIN
type ChangePINRequest struct {
	ShirtNumber int    `json:"shirt_number"`
	OldPIN      string `json:"old_pin"`
	NewPIN      string `json:"new_pin"`
}

// VoteRequest is the request body for casting a ballot.
// Selections map a category to a teammate's name.
type VoteRequest struct {
	Credentials
	Selections map[string]string `json:"selections"`
	Reason     string            `json:"reason,omitempty"`
	Anonymous  bool              `json:"anonymous,omitempty"`
}

// Ballot converts the request to a model ballot
func (r VoteRequest) Ballot() model.Ballot {
	selections := make(map[model.Category]string, len(r.Selections))
	for k, v := range r.Selections {
		selections[model.Category(k)] = v
	}
	return model.Ballot{Selections: selections, Reason: r.Reason, Anonymous: r.Anonymous}
}

// FeedbackRequest is the request body for messaging the coach
type FeedbackRequest struct {
	Credentials
	DisplayName string `json:"display_name,omitempty"`
	Text        string `json:"text"`
	Anonymous   bool   `json:"anonymous,omitempty"`
}

// BonusRequest is the request body for a coach bonus
type BonusRequest struct {
	Reason string `json:"reason"`
}

// NoteRequest is the request body for a coach note to a player
type NoteRequest struct {
	Text string `json:"text"`
}
