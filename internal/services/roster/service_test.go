package roster

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/matchawards/internal/dependencies/mocks"
	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/storage/memory"
	"github.com/mcoot/matchawards/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage   *memory.Storage
	clock     *mocks.MockClock
	auth      *auth.Service
	publisher *events.Recorder
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(testutil.FixedTime)
	cfg := auth.DefaultConfig()
	cfg.HashCost = bcrypt.MinCost
	s.auth = auth.New(s.storage, s.clock, nil, nil, cfg)
	s.publisher = &events.Recorder{}
	s.service = New(s.storage, s.auth, s.clock, s.publisher, testutil.NopLogger(), Config{
		Team: []model.RosterEntry{
			{ShirtNumber: 3, Name: "Eda"},
			{ShirtNumber: 7, Name: "Elonie"},
			{ShirtNumber: 9, Name: "Yarina"},
		},
		CoachPIN: "9999",
	})
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestSeedTeamCreatesRosterAndCoach() {
	s.Require().NoError(s.service.SeedTeam(s.ctx))

	all, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	s.True(all[0].IsCoach())
	s.False(all[0].NeedsPINChange)

	for _, p := range all[1:] {
		s.True(p.NeedsPINChange)
		s.False(p.HasVoted)
		s.Equal(0, p.Votes)
	}

	login, err := s.auth.VerifyLogin(s.ctx, 7, "1234")
	s.Require().NoError(err)
	s.True(login.NeedsPINChange)
	coach, err := s.auth.VerifyLogin(s.ctx, model.CoachShirtNumber, "9999")
	s.Require().NoError(err)
	s.True(coach.IsAdmin)
	s.Equal([]events.Type{events.TypeRosterSeeded}, s.publisher.Types())
}

func (s *ServiceSuite) TestSeedTeamResetsExistingState() {
	s.Require().NoError(s.service.SeedTeam(s.ctx))
	s.Require().NoError(s.auth.UpdatePIN(s.ctx, 7, "1234", "5678"))
	s.Require().NoError(s.storage.IncrementPlayerVotes(s.ctx, 7, 4))
	s.Require().NoError(s.storage.MarkVoted(s.ctx, 7, s.clock.Now()))
	testutil.SeedPlayers(s.T(), s.storage, "1111", model.RosterEntry{ShirtNumber: 99, Name: "Guest"})
	s.Require().NoError(s.storage.SaveVote(s.ctx, &model.Vote{ID: "v1", Voter: 7}))

	s.clock.Advance(time.Hour)
	s.Require().NoError(s.service.SeedTeam(s.ctx))

	p, err := s.storage.GetPlayer(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal(0, p.Votes)
	s.False(p.HasVoted)
	s.True(p.NeedsPINChange)
	s.Equal(s.clock.Now(), p.CreatedAt)
	_, err = s.auth.Authenticate(s.ctx, 7, "1234")
	s.NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, 99)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	votes, err := s.storage.ListVotes(s.ctx)
	s.Require().NoError(err)
	s.Len(votes, 1)
}

func (s *ServiceSuite) TestPlayersExcludesCoach() {
	s.Require().NoError(s.service.SeedTeam(s.ctx))

	team, err := s.service.Players(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(team, 3)
	s.Equal(model.ShirtNumber(3), team[0].ShirtNumber)
}

func (s *ServiceSuite) TestPendingVoters() {
	s.Require().NoError(s.service.SeedTeam(s.ctx))
	s.Require().NoError(s.storage.MarkVoted(s.ctx, 3, s.clock.Now()))

	pending, err := s.service.PendingVoters(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal("Elonie", pending[0].Name)
	s.Equal("Yarina", pending[1].Name)
}

func (s *ServiceSuite) TestCandidateNamesExcludeVoter() {
	s.Require().NoError(s.service.SeedTeam(s.ctx))

	names, err := s.service.CandidateNames(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal([]string{"Eda", "Yarina"}, names)

	all, err := s.service.CandidateNames(s.ctx, model.NoShirt)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *ServiceSuite) TestSeedIfEmpty() {
	seeded, err := s.service.SeedIfEmpty(s.ctx)
	s.Require().NoError(err)
	s.True(seeded)

	s.Require().NoError(s.storage.IncrementPlayerVotes(s.ctx, 3, 2))

	seeded, err = s.service.SeedIfEmpty(s.ctx)
	s.Require().NoError(err)
	s.False(seeded)

	p, err := s.storage.GetPlayer(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal(2, p.Votes)
}
