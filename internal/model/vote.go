package model

import "time"

// VoteID uniquely identifies a stored vote
type VoteID string

// VoteKind distinguishes ballots cast by players from coach bonuses
type VoteKind string

const (
	VoteKindBallot     VoteKind = "ballot"
	VoteKindCoachBonus VoteKind = "coach_bonus"
)

// Pick is a single category entry on a stored vote
type Pick struct {
	Category   Category    `json:"category"`
	Target     ShirtNumber `json:"target"` // NoShirt when the name did not resolve
	TargetName string      `json:"target_name"`
}

// Resolved reports whether the pick points at a known player
func (p Pick) Resolved() bool {
	return p.Target != NoShirt
}

// Vote is an immutable ballot record. Votes survive round resets and reseeds.
type Vote struct {
	ID        VoteID      `json:"id"`
	Voter     ShirtNumber `json:"voter"`
	Kind      VoteKind    `json:"kind"`
	Picks     []Pick      `json:"picks"`
	Reason    string      `json:"reason,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Ballot is what a player submits: category to teammate name, plus an optional reason
type Ballot struct {
	Selections map[Category]string
	Reason     string
	Anonymous  bool // hide the voter on the message carrying the reason
}
