package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.Store = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	_ = s.storage.Close()
}

func (s *StorageSuite) TestPlayerStoredAsHash() {
	s.Require().NoError(s.storage.SavePlayer(s.Ctx, &model.Player{ShirtNumber: 7, Name: "Elonie", HasVoted: true}))

	s.Equal("Elonie", s.mini.HGet("awards:player:7", "name"))
	s.Equal("1", s.mini.HGet("awards:player:7", "has_voted"))
	members, err := s.mini.Members("awards:idx:players")
	s.Require().NoError(err)
	s.Equal([]string{"7"}, members)
}

func (s *StorageSuite) TestIncrementDoesNotCreatePlayer() {
	s.Require().NoError(s.storage.IncrementPlayerVotes(s.Ctx, 5, 1))

	s.False(s.mini.Exists("awards:player:5"))
}

func (s *StorageSuite) TestFieldUpdateDoesNotCreatePlayer() {
	err := s.storage.MarkVoted(s.Ctx, 5, time.Now())
	s.ErrorIs(err, model.ErrPlayerNotFound)

	s.False(s.mini.Exists("awards:player:5"))
}

func (s *StorageSuite) TestCustomKeyPrefix() {
	cfg := DefaultConfig()
	cfg.KeyPrefix = "team2"
	other := NewWithClient(redis.NewClient(&redis.Options{Addr: s.mini.Addr()}), cfg)
	defer other.Close()

	s.Require().NoError(other.SavePlayer(s.Ctx, &model.Player{ShirtNumber: 3, Name: "Eda"}))

	s.True(s.mini.Exists("team2:player:3"))
	_, err := s.storage.GetPlayer(s.Ctx, 3)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "not-a-url"
	_, err := New(cfg)
	s.Error(err)
}

func (s *StorageSuite) TestNewConnects() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()
	st, err := New(cfg)
	s.Require().NoError(err)
	s.NoError(st.Close())
}
