// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage"
)

// Suite is embedded by backend test suites, which set Store in SetupTest
type Suite struct {
	suite.Suite
	Store storage.Storage
	Ctx   context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) savePlayer(shirt model.ShirtNumber, name string) *model.Player {
	p := &model.Player{
		ShirtNumber:    shirt,
		Name:           name,
		PINHash:        "hash-" + name,
		NeedsPINChange: true,
		CreatedAt:      baseTime,
		UpdatedAt:      baseTime,
	}
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, p))
	return p
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	s.savePlayer(7, "Elonie")

	got, err := s.Store.GetPlayer(s.Ctx, 7)
	s.Require().NoError(err)
	s.Equal(model.ShirtNumber(7), got.ShirtNumber)
	s.Equal("Elonie", got.Name)
	s.Equal("hash-Elonie", got.PINHash)
	s.True(got.NeedsPINChange)
	s.False(got.HasVoted)
	s.Equal(0, got.Votes)
	s.WithinDuration(baseTime, got.CreatedAt, time.Millisecond)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Store.GetPlayer(s.Ctx, 99)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestSavePlayerOverwrites() {
	p := s.savePlayer(3, "Eda")
	p.HasVoted = true
	p.NeedsPINChange = false
	p.PINHash = "new-hash"
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, p))

	got, err := s.Store.GetPlayer(s.Ctx, 3)
	s.Require().NoError(err)
	s.True(got.HasVoted)
	s.False(got.NeedsPINChange)
	s.Equal("new-hash", got.PINHash)
}

func (s *Suite) TestGetPlayerByName() {
	s.savePlayer(9, "Yarina")
	s.savePlayer(10, "Seraina")

	got, err := s.Store.GetPlayerByName(s.Ctx, "Seraina")
	s.Require().NoError(err)
	s.Equal(model.ShirtNumber(10), got.ShirtNumber)

	_, err = s.Store.GetPlayerByName(s.Ctx, "seraina")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestListPlayersOrderedByShirt() {
	s.savePlayer(22, "Sofia")
	s.savePlayer(0, "Coach")
	s.savePlayer(3, "Eda")

	players, err := s.Store.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal(model.ShirtNumber(0), players[0].ShirtNumber)
	s.Equal(model.ShirtNumber(3), players[1].ShirtNumber)
	s.Equal(model.ShirtNumber(22), players[2].ShirtNumber)
}

func (s *Suite) TestDeleteAllPlayers() {
	s.savePlayer(3, "Eda")
	s.savePlayer(7, "Elonie")

	s.Require().NoError(s.Store.DeleteAllPlayers(s.Ctx))

	players, err := s.Store.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(players)
	_, err = s.Store.GetPlayerByName(s.Ctx, "Eda")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Field update tests

func (s *Suite) TestSetPlayerPINKeepsVotes() {
	s.savePlayer(7, "Elonie")
	s.Require().NoError(s.Store.IncrementPlayerVotes(s.Ctx, 7, 3))
	later := baseTime.Add(time.Hour)

	s.Require().NoError(s.Store.SetPlayerPIN(s.Ctx, 7, "other-hash", false, later))

	got, err := s.Store.GetPlayer(s.Ctx, 7)
	s.Require().NoError(err)
	s.Equal("other-hash", got.PINHash)
	s.False(got.NeedsPINChange)
	s.Equal(3, got.Votes)
	s.WithinDuration(later, got.UpdatedAt, time.Millisecond)
}

func (s *Suite) TestMarkVoted() {
	s.savePlayer(9, "Yarina")

	s.Require().NoError(s.Store.MarkVoted(s.Ctx, 9, baseTime.Add(time.Minute)))

	got, err := s.Store.GetPlayer(s.Ctx, 9)
	s.Require().NoError(err)
	s.True(got.HasVoted)
	s.True(got.NeedsPINChange)
}

func (s *Suite) TestFieldUpdatesOnMissingPlayer() {
	s.ErrorIs(s.Store.MarkVoted(s.Ctx, 42, baseTime), model.ErrPlayerNotFound)
	s.ErrorIs(s.Store.SetPlayerPIN(s.Ctx, 42, "h", true, baseTime), model.ErrPlayerNotFound)
	s.ErrorIs(s.Store.SetPlayerVotes(s.Ctx, 42, 1), model.ErrPlayerNotFound)

	_, err := s.Store.GetPlayer(s.Ctx, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Counter tests

func (s *Suite) TestIncrementPlayerVotes() {
	s.savePlayer(14, "Jeanne")

	s.Require().NoError(s.Store.IncrementPlayerVotes(s.Ctx, 14, 1))
	s.Require().NoError(s.Store.IncrementPlayerVotes(s.Ctx, 14, 2))

	got, err := s.Store.GetPlayer(s.Ctx, 14)
	s.Require().NoError(err)
	s.Equal(3, got.Votes)
}

func (s *Suite) TestIncrementMissingPlayerIsNoop() {
	s.Require().NoError(s.Store.IncrementPlayerVotes(s.Ctx, 42, 1))

	_, err := s.Store.GetPlayer(s.Ctx, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestIncrementIsAtomic() {
	s.savePlayer(15, "Jaël")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.Store.IncrementPlayerVotes(s.Ctx, 15, 1))
		}()
	}
	wg.Wait()

	got, err := s.Store.GetPlayer(s.Ctx, 15)
	s.Require().NoError(err)
	s.Equal(20, got.Votes)
}

func (s *Suite) TestSetPlayerVotes() {
	s.savePlayer(18, "Theresa")
	s.Require().NoError(s.Store.IncrementPlayerVotes(s.Ctx, 18, 5))

	s.Require().NoError(s.Store.SetPlayerVotes(s.Ctx, 18, 2))

	got, err := s.Store.GetPlayer(s.Ctx, 18)
	s.Require().NoError(err)
	s.Equal(2, got.Votes)
}

func (s *Suite) TestResetHasVoted() {
	p := s.savePlayer(21, "Vera")
	p.HasVoted = true
	p.Votes = 4
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, p))
	s.savePlayer(23, "Emily")

	s.Require().NoError(s.Store.ResetHasVoted(s.Ctx))

	players, err := s.Store.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	for _, p := range players {
		s.False(p.HasVoted)
	}
	got, err := s.Store.GetPlayer(s.Ctx, 21)
	s.Require().NoError(err)
	s.Equal(4, got.Votes)
}

// Vote tests

func (s *Suite) TestSaveAndListVotes() {
	first := &model.Vote{
		ID:    "vote-1",
		Voter: 3,
		Kind:  model.VoteKindBallot,
		Picks: []model.Pick{
			{Category: model.CategoryShield, Target: 7, TargetName: "Elonie"},
			{Category: model.CategorySpark, Target: model.NoShirt, TargetName: "Ghost"},
		},
		CreatedAt: baseTime,
	}
	second := &model.Vote{
		ID:        "vote-2",
		Voter:     model.CoachShirtNumber,
		Kind:      model.VoteKindCoachBonus,
		Picks:     []model.Pick{{Category: model.CategoryBonus, Target: 7, TargetName: "Elonie"}},
		Reason:    "great save",
		CreatedAt: baseTime.Add(time.Minute),
	}
	s.Require().NoError(s.Store.SaveVote(s.Ctx, first))
	s.Require().NoError(s.Store.SaveVote(s.Ctx, second))

	votes, err := s.Store.ListVotes(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(votes, 2)
	s.Equal(model.VoteID("vote-1"), votes[0].ID)
	s.Equal(model.ShirtNumber(3), votes[0].Voter)
	s.Equal(model.VoteKindBallot, votes[0].Kind)
	s.Equal(first.Picks, votes[0].Picks)
	s.Equal(model.VoteID("vote-2"), votes[1].ID)
	s.Equal(model.VoteKindCoachBonus, votes[1].Kind)
	s.Equal("great save", votes[1].Reason)
	s.WithinDuration(second.CreatedAt, votes[1].CreatedAt, time.Millisecond)
}

func (s *Suite) TestVotesSurvivePlayerDeletion() {
	s.savePlayer(3, "Eda")
	s.Require().NoError(s.Store.SaveVote(s.Ctx, &model.Vote{
		ID: "vote-1", Voter: 3, Kind: model.VoteKindBallot, CreatedAt: baseTime,
	}))

	s.Require().NoError(s.Store.DeleteAllPlayers(s.Ctx))

	votes, err := s.Store.ListVotes(s.Ctx)
	s.Require().NoError(err)
	s.Len(votes, 1)
}

// Message tests

func (s *Suite) TestMessagesNewestFirst() {
	msgs := []*model.Message{
		{ID: "m1", Recipient: 0, Sender: 3, SenderName: "Eda", Text: "first", Direction: model.DirectionToCoach, CreatedAt: baseTime},
		{ID: "m2", Recipient: 7, Sender: 0, SenderName: "Coach", Text: "well played", Direction: model.DirectionToPlayer, CreatedAt: baseTime.Add(time.Minute)},
		{ID: "m3", Recipient: 0, Sender: 9, SenderName: "Yarina", Text: "second", IsAnonymous: true, Direction: model.DirectionToCoach, CreatedAt: baseTime.Add(2 * time.Minute)},
	}
	for _, m := range msgs {
		s.Require().NoError(s.Store.SaveMessage(s.Ctx, m))
	}

	all, err := s.Store.ListMessages(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(model.MessageID("m3"), all[0].ID)
	s.Equal(model.MessageID("m1"), all[2].ID)

	coach, err := s.Store.ListMessagesFor(s.Ctx, model.CoachShirtNumber)
	s.Require().NoError(err)
	s.Require().Len(coach, 2)
	s.Equal("second", coach[0].Text)
	s.True(coach[0].IsAnonymous)
	s.Equal(model.DirectionToCoach, coach[0].Direction)
	s.Equal("first", coach[1].Text)

	player, err := s.Store.ListMessagesFor(s.Ctx, 7)
	s.Require().NoError(err)
	s.Require().Len(player, 1)
	s.Equal("well played", player[0].Text)
	s.Equal(model.ShirtNumber(0), player[0].Sender)
}

func (s *Suite) TestListMessagesForNobody() {
	msgs, err := s.Store.ListMessagesFor(s.Ctx, 11)
	s.Require().NoError(err)
	s.Empty(msgs)
}
