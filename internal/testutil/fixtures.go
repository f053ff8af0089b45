package testutil

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage"
)

// FixedTime is the instant mock clocks start at
var FixedTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// HashPIN hashes at the minimum bcrypt cost so tests stay fast
func HashPIN(t testing.TB, pin string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash pin: %v", err)
	}
	return string(hash)
}

// SeedPlayers stores one player per roster entry, all sharing the same PIN
func SeedPlayers(t testing.TB, store storage.Storage, pin string, entries ...model.RosterEntry) {
	t.Helper()
	hash := HashPIN(t, pin)
	for _, e := range entries {
		err := store.SavePlayer(context.Background(), &model.Player{
			ShirtNumber: e.ShirtNumber,
			Name:        e.Name,
			PINHash:     hash,
			CreatedAt:   FixedTime,
			UpdatedAt:   FixedTime,
		})
		if err != nil {
			t.Fatalf("seed player %d: %v", e.ShirtNumber, err)
		}
	}
}
