package response

import (
	"time"

	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/services/auth"
)

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}

// Login is the response for a successful login
type Login struct {
	ShirtNumber    int    `json:"shirt_number"`
	Name           string `json:"name"`
	IsAdmin        bool   `json:"is_admin"`
	NeedsPINChange bool   `json:"needs_pin_change"`
	// AdminToken is only set for coach logins
	AdminToken     string     `json:"admin_token,omitempty"`
	AdminExpiresAt *time.Time `json:"admin_expires_at,omitempty"`
}

// LoginFromResult converts an auth.LoginResult
func LoginFromResult(r *auth.LoginResult) Login {
	resp := Login{
		ShirtNumber:    int(r.Player.ShirtNumber),
		Name:           r.UserName(),
		IsAdmin:        r.IsAdmin,
		NeedsPINChange: r.NeedsPINChange,
	}
	if r.AdminSession != nil {
		resp.AdminToken = r.AdminSession.Token
		expires := r.AdminSession.ExpiresAt
		resp.AdminExpiresAt = &expires
	}
	return resp
}

// Ballot describes what a voter may submit
type Ballot struct {
	Schema     model.BallotSchema `json:"schema"`
	Candidates []string           `json:"candidates"`
}

// Pick is one resolved ballot selection
type Pick struct {
	Category   string `json:"category"`
	TargetName string `json:"target_name"`
	// Target is omitted when the name matched nobody
	Target *int `json:"target,omitempty"`
}

// Vote is the response for a cast ballot or coach bonus
type Vote struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Picks     []Pick    `json:"picks"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteFromModel converts a model.Vote
func VoteFromModel(v *model.Vote) Vote {
	picks := make([]Pick, len(v.Picks))
	for i, p := range v.Picks {
		picks[i] = Pick{Category: string(p.Category), TargetName: p.TargetName}
		if p.Resolved() {
			target := int(p.Target)
			picks[i].Target = &target
		}
	}
	return Vote{
		ID:        string(v.ID),
		Kind:      string(v.Kind),
		Picks:     picks,
		CreatedAt: v.CreatedAt,
	}
}

// Message is a message as its recipient sees it
type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	Text      string    `json:"text"`
	Anonymous bool      `json:"anonymous"`
	Direction string    `json:"direction"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageFromModel converts a model.Message, hiding anonymous senders
func MessageFromModel(m *model.Message) Message {
	return Message{
		ID:        string(m.ID),
		From:      m.DisplaySender(),
		Text:      m.Text,
		Anonymous: m.IsAnonymous,
		Direction: string(m.Direction),
		CreatedAt: m.CreatedAt,
	}
}

// Messages is a list of messages, newest first
type Messages struct {
	Messages []Message `json:"messages"`
}

// MessagesFromModel converts a list of model messages
func MessagesFromModel(msgs []*model.Message) Messages {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = MessageFromModel(m)
	}
	return Messages{Messages: out}
}

// Standings is the coach's leaderboard
type Standings struct {
	Milestone int              `json:"milestone"`
	Standings []model.Standing `json:"standings"`
}

// Player is a roster entry as the coach sees it
type Player struct {
	ShirtNumber    int    `json:"shirt_number"`
	Name           string `json:"name"`
	HasVoted       bool   `json:"has_voted"`
	NeedsPINChange bool   `json:"needs_pin_change"`
	Votes          int    `json:"votes"`
}

// PlayerFromModel converts a model.Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ShirtNumber:    int(p.ShirtNumber),
		Name:           p.Name,
		HasVoted:       p.HasVoted,
		NeedsPINChange: p.NeedsPINChange,
		Votes:          p.Votes,
	}
}

// Roster lists the team and who still has to vote
type Roster struct {
	Players []Player `json:"players"`
	Pending []int    `json:"pending"`
}

// RosterFromModel builds the roster response
func RosterFromModel(players []*model.Player) Roster {
	resp := Roster{Players: make([]Player, len(players)), Pending: []int{}}
	for i, p := range players {
		resp.Players[i] = PlayerFromModel(p)
		if !p.HasVoted {
			resp.Pending = append(resp.Pending, int(p.ShirtNumber))
		}
	}
	return resp
}

// Status is a generic acknowledgement
type Status struct {
	Status string `json:"status"`
}
