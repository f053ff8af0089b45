package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	// Registers the "postgres" driver
	_ "github.com/lib/pq"
	// Registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage"
)

// Driver names accepted by New
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the database
type Config struct {
	Driver string // DriverSQLite or DriverPostgres
	DSN    string
}

// Storage is a database/sql implementation of the storage interface
type Storage struct {
	db       *sql.DB
	postgres bool
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// New opens the database and creates the schema
func New(ctx context.Context, cfg Config) (*Storage, error) {
	switch cfg.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// each SQLite connection to :memory: is its own database
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Storage{db: db, postgres: cfg.Driver == DriverPostgres}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database handle
func (s *Storage) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders into $n for Postgres
func (s *Storage) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Storage) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

// Player operations

const playerColumns = `shirt_number, name, pin_hash, has_voted, needs_pin_change, votes, created_at, updated_at`

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.exec(ctx, `
		INSERT INTO player (`+playerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (shirt_number) DO UPDATE SET
			name = excluded.name,
			pin_hash = excluded.pin_hash,
			has_voted = excluded.has_voted,
			needs_pin_change = excluded.needs_pin_change,
			votes = excluded.votes,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		int(player.ShirtNumber), player.Name, player.PINHash, player.HasVoted,
		player.NeedsPINChange, player.Votes,
		player.CreatedAt.UnixMilli(), player.UpdatedAt.UnixMilli(),
	)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, shirt model.ShirtNumber) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+playerColumns+` FROM player WHERE shirt_number = ?`), int(shirt))
	return scanPlayer(row)
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+playerColumns+` FROM player WHERE name = ? ORDER BY shirt_number LIMIT 1`), name)
	return scanPlayer(row)
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM player ORDER BY shirt_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []*model.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *Storage) DeleteAllPlayers(ctx context.Context) error {
	_, err := s.exec(ctx, `DELETE FROM player`)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (*model.Player, error) {
	var (
		p       model.Player
		shirt   int
		created int64
		updated int64
	)
	err := row.Scan(&shirt, &p.Name, &p.PINHash, &p.HasVoted, &p.NeedsPINChange, &p.Votes, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	p.ShirtNumber = model.ShirtNumber(shirt)
	p.CreatedAt = time.UnixMilli(created).UTC()
	p.UpdatedAt = time.UnixMilli(updated).UTC()
	return &p, nil
}

// Field updates

func (s *Storage) SetPlayerPIN(ctx context.Context, shirt model.ShirtNumber, pinHash string, needsChange bool, at time.Time) error {
	return s.updatePlayer(ctx,
		`UPDATE player SET pin_hash = ?, needs_pin_change = ?, updated_at = ? WHERE shirt_number = ?`,
		pinHash, needsChange, at.UnixMilli(), int(shirt))
}

func (s *Storage) MarkVoted(ctx context.Context, shirt model.ShirtNumber, at time.Time) error {
	return s.updatePlayer(ctx,
		`UPDATE player SET has_voted = ?, updated_at = ? WHERE shirt_number = ?`,
		true, at.UnixMilli(), int(shirt))
}

// updatePlayer runs an UPDATE and maps zero affected rows to ErrPlayerNotFound
func (s *Storage) updatePlayer(ctx context.Context, query string, args ...any) error {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

// Counter and round operations

func (s *Storage) IncrementPlayerVotes(ctx context.Context, shirt model.ShirtNumber, delta int) error {
	_, err := s.exec(ctx, `UPDATE player SET votes = votes + ? WHERE shirt_number = ?`, delta, int(shirt))
	return err
}

func (s *Storage) SetPlayerVotes(ctx context.Context, shirt model.ShirtNumber, votes int) error {
	return s.updatePlayer(ctx, `UPDATE player SET votes = ? WHERE shirt_number = ?`, votes, int(shirt))
}

func (s *Storage) ResetHasVoted(ctx context.Context) error {
	_, err := s.exec(ctx, `UPDATE player SET has_voted = ?`, false)
	return err
}

// Vote operations

func (s *Storage) SaveVote(ctx context.Context, vote *model.Vote) error {
	picks, err := json.Marshal(vote.Picks)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx, `
		INSERT INTO vote (id, voter, kind, picks, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(vote.ID), int(vote.Voter), string(vote.Kind), string(picks), vote.Reason, vote.CreatedAt.UnixMilli(),
	)
	return err
}

func (s *Storage) ListVotes(ctx context.Context) ([]*model.Vote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, voter, kind, picks, reason, created_at FROM vote ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	votes := []*model.Vote{}
	for rows.Next() {
		var (
			v       model.Vote
			id      string
			voter   int
			kind    string
			picks   string
			created int64
		)
		if err := rows.Scan(&id, &voter, &kind, &picks, &v.Reason, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(picks), &v.Picks); err != nil {
			return nil, fmt.Errorf("vote %s has malformed picks: %w", id, err)
		}
		v.ID = model.VoteID(id)
		v.Voter = model.ShirtNumber(voter)
		v.Kind = model.VoteKind(kind)
		v.CreatedAt = time.UnixMilli(created).UTC()
		votes = append(votes, &v)
	}
	return votes, rows.Err()
}

// Message operations

const messageColumns = `id, recipient, sender, sender_name, text, is_anonymous, direction, created_at`

func (s *Storage) SaveMessage(ctx context.Context, msg *model.Message) error {
	_, err := s.exec(ctx, `
		INSERT INTO message (`+messageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(msg.ID), int(msg.Recipient), int(msg.Sender), msg.SenderName, msg.Text,
		msg.IsAnonymous, string(msg.Direction), msg.CreatedAt.UnixMilli(),
	)
	return err
}

func (s *Storage) ListMessagesFor(ctx context.Context, recipient model.ShirtNumber) ([]*model.Message, error) {
	return s.queryMessages(ctx,
		`SELECT `+messageColumns+` FROM message WHERE recipient = ? ORDER BY created_at DESC, id DESC`, int(recipient))
}

func (s *Storage) ListMessages(ctx context.Context) ([]*model.Message, error) {
	return s.queryMessages(ctx, `SELECT `+messageColumns+` FROM message ORDER BY created_at DESC, id DESC`)
}

func (s *Storage) queryMessages(ctx context.Context, query string, args ...any) ([]*model.Message, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []*model.Message{}
	for rows.Next() {
		var (
			m         model.Message
			id        string
			recipient int
			sender    int
			direction string
			created   int64
		)
		err := rows.Scan(&id, &recipient, &sender, &m.SenderName, &m.Text, &m.IsAnonymous, &direction, &created)
		if err != nil {
			return nil, err
		}
		m.ID = model.MessageID(id)
		m.Recipient = model.ShirtNumber(recipient)
		m.Sender = model.ShirtNumber(sender)
		m.Direction = model.MessageDirection(direction)
		m.CreatedAt = time.UnixMilli(created).UTC()
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}
