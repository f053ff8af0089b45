package model

// RosterEntry is a player that the seed operation (re)creates
type RosterEntry struct {
	ShirtNumber ShirtNumber
	Name        string
}

// CoachName is the display name of the coach account
const CoachName = "Coach"

// DefaultRoster is the team recreated by a reseed. The coach account is not part of it.
func DefaultRoster() []RosterEntry {
	return []RosterEntry{
		{ShirtNumber: 3, Name: "Eda"},
		{ShirtNumber: 7, Name: "Elonie"},
		{ShirtNumber: 9, Name: "Yarina"},
		{ShirtNumber: 10, Name: "Seraina"},
		{ShirtNumber: 11, Name: "Ainoa"},
		{ShirtNumber: 14, Name: "Jeanne"},
		{ShirtNumber: 15, Name: "Jaël"},
		{ShirtNumber: 18, Name: "Theresa"},
		{ShirtNumber: 21, Name: "Vera"},
		{ShirtNumber: 22, Name: "Sofia"},
		{ShirtNumber: 23, Name: "Emily"},
		{ShirtNumber: 24, Name: "Ela"},
	}
}
