package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.Ctx = context.Background()
	st, err := New(s.Ctx, Config{Driver: DriverSQLite, DSN: ":memory:"})
	s.Require().NoError(err)
	s.storage = st
	s.Store = st
}

func (s *StorageSuite) TearDownTest() {
	_ = s.storage.Close()
}

func (s *StorageSuite) TestSchemaIsIdempotent() {
	s.NoError(s.storage.createSchema(s.Ctx))
}

func (s *StorageSuite) TestBooleansRoundTrip() {
	s.Require().NoError(s.storage.SavePlayer(s.Ctx, &model.Player{ShirtNumber: 3, Name: "Eda", HasVoted: true}))

	var hasVoted, needsChange bool
	row := s.storage.db.QueryRowContext(s.Ctx, `SELECT has_voted, needs_pin_change FROM player WHERE shirt_number = 3`)
	s.Require().NoError(row.Scan(&hasVoted, &needsChange))
	s.True(hasVoted)
	s.False(needsChange)
}

func (s *StorageSuite) TestUnsupportedDriver() {
	_, err := New(s.Ctx, Config{Driver: "mysql", DSN: "x"})
	s.ErrorContains(err, "unsupported sql driver")
}

func TestRebind(t *testing.T) {
	pg := &Storage{postgres: true}
	lite := &Storage{}

	query := `UPDATE player SET votes = ? WHERE shirt_number = ?`
	if got := pg.rebind(query); got != `UPDATE player SET votes = $1 WHERE shirt_number = $2` {
		t.Fatalf("unexpected postgres query: %s", got)
	}
	if got := lite.rebind(query); got != query {
		t.Fatalf("sqlite query should be unchanged: %s", got)
	}
}
