package memory

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
	s.storage = New()
	s.Store = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestReturnedPlayerIsACopy() {
	s.Require().NoError(s.storage.SavePlayer(s.Ctx, &model.Player{ShirtNumber: 3, Name: "Eda"}))

	got, err := s.storage.GetPlayer(s.Ctx, 3)
	s.Require().NoError(err)
	got.Name = "changed"

	again, err := s.storage.GetPlayer(s.Ctx, 3)
	s.Require().NoError(err)
	s.Equal("Eda", again.Name)
}
