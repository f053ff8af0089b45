package model

// GiftMilestone is the number of votes that earns a player a gift
const GiftMilestone = 15

// Standing is one row of the coach's leaderboard
type Standing struct {
	ShirtNumber ShirtNumber `json:"shirt_number"`
	Name        string      `json:"name"`
	Votes       int         `json:"votes"`
	Gifts       int         `json:"gifts"`
	Progress    int         `json:"progress"` // votes towards the next gift
}

// NewStanding derives gift progress from a vote count
func NewStanding(shirt ShirtNumber, name string, votes int) Standing {
	return Standing{
		ShirtNumber: shirt,
		Name:        name,
		Votes:       votes,
		Gifts:       votes / GiftMilestone,
		Progress:    votes % GiftMilestone,
	}
}
