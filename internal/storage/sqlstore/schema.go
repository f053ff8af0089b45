package sqlstore

import (
	"context"
	"fmt"
)

// createSchema creates all tables. Safe to call multiple times.
func (s *Storage) createSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Statements are kept to the subset both SQLite and Postgres accept.
// Timestamps are unix milliseconds.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS player (
		shirt_number INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		pin_hash TEXT NOT NULL,
		has_voted BOOLEAN NOT NULL DEFAULT FALSE,
		needs_pin_change BOOLEAN NOT NULL DEFAULT TRUE,
		votes INTEGER NOT NULL DEFAULT 0,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_player_name ON player(name)`,
	`CREATE TABLE IF NOT EXISTS vote (
		id TEXT PRIMARY KEY,
		voter INTEGER NOT NULL,
		kind TEXT NOT NULL,
		picks TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_created_at ON vote(created_at)`,
	`CREATE TABLE IF NOT EXISTS message (
		id TEXT PRIMARY KEY,
		recipient INTEGER NOT NULL,
		sender INTEGER NOT NULL,
		sender_name TEXT NOT NULL,
		text TEXT NOT NULL,
		is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
		direction TEXT NOT NULL,
		created_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_message_recipient ON message(recipient, created_at)`,
}
