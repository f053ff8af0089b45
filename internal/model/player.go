package model

import "time"

// ShirtNumber identifies a player. Shirt numbers are unique across the roster.
type ShirtNumber int

const (
	// CoachShirtNumber is reserved for the coach account, which doubles as the admin login.
	CoachShirtNumber ShirtNumber = 0

	// NoShirt marks a ballot pick whose name did not resolve to any player
	NoShirt ShirtNumber = -1
)

// IsCoach reports whether the shirt number is the admin sentinel
func (s ShirtNumber) IsCoach() bool {
	return s == CoachShirtNumber
}

// Player is a roster member (or the coach) with credentials and voting state
type Player struct {
	ShirtNumber    ShirtNumber
	Name           string
	PINHash        string // bcrypt hash
	HasVoted       bool   // cleared at the start of every round
	NeedsPINChange bool
	Votes          int // denormalized tally, repaired by resync
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsCoach reports whether this player is the coach account
func (p *Player) IsCoach() bool {
	return p.ShirtNumber.IsCoach()
}

// Clone returns a copy that can be mutated without affecting the original
func (p *Player) Clone() *Player {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
