package tally

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage/memory"
	"github.com/mcoot/matchawards/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage   *memory.Storage
	publisher *events.Recorder
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.publisher = &events.Recorder{}
	s.service = New(s.storage, s.publisher, nil, testutil.NopLogger())
	s.ctx = context.Background()

	testutil.SeedPlayers(s.T(), s.storage, "1234",
		model.RosterEntry{ShirtNumber: model.CoachShirtNumber, Name: model.CoachName},
		model.RosterEntry{ShirtNumber: 3, Name: "Eda"},
		model.RosterEntry{ShirtNumber: 7, Name: "Elonie"},
		model.RosterEntry{ShirtNumber: 9, Name: "Yarina"},
	)
}

func (s *ServiceSuite) saveVote(id string, picks ...model.Pick) {
	s.Require().NoError(s.storage.SaveVote(s.ctx, &model.Vote{
		ID: model.VoteID(id), Voter: 3, Kind: model.VoteKindBallot, Picks: picks, CreatedAt: testutil.FixedTime,
	}))
}

func pick(target model.ShirtNumber, name string) model.Pick {
	return model.Pick{Category: model.CategoryShield, Target: target, TargetName: name}
}

func (s *ServiceSuite) TestResyncRepairsDriftedCounters() {
	s.saveVote("v1", pick(7, "Elonie"), pick(7, "Elonie"), pick(9, "Yarina"))
	s.saveVote("v2", pick(7, "Elonie"))
	// drift: one increment was lost, another was applied twice
	s.Require().NoError(s.storage.SetPlayerVotes(s.ctx, 7, 2))
	s.Require().NoError(s.storage.SetPlayerVotes(s.ctx, 9, 2))

	standings, err := s.service.Resync(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(standings, 3)
	s.Equal(model.ShirtNumber(7), standings[0].ShirtNumber)
	s.Equal(3, standings[0].Votes)
	s.Equal(model.ShirtNumber(9), standings[1].ShirtNumber)
	s.Equal(1, standings[1].Votes)
	s.Equal(0, standings[2].Votes)

	p, err := s.storage.GetPlayer(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal(3, p.Votes)
	s.Equal([]events.Type{events.TypeTallyResynced}, s.publisher.Types())
	s.Equal(2, s.publisher.Events()[0].Data["corrected"])
}

func (s *ServiceSuite) TestResyncIsIdempotent() {
	s.saveVote("v1", pick(7, "Elonie"), pick(9, "Yarina"))

	first, err := s.service.Resync(s.ctx)
	s.Require().NoError(err)
	second, err := s.service.Resync(s.ctx)
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *ServiceSuite) TestResyncMatchesUnresolvedPicksByName() {
	s.saveVote("v1", pick(model.NoShirt, "Yarina"), pick(model.NoShirt, "Ghost"))

	standings, err := s.service.Resync(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.ShirtNumber(9), standings[0].ShirtNumber)
	s.Equal(1, standings[0].Votes)
}

func (s *ServiceSuite) TestResyncIgnoresDeletedPlayersAndCoach() {
	s.saveVote("v1", pick(42, "Former"), pick(model.CoachShirtNumber, model.CoachName))

	standings, err := s.service.Resync(s.ctx)
	s.Require().NoError(err)

	for _, st := range standings {
		s.Equal(0, st.Votes)
		s.NotEqual(model.CoachShirtNumber, st.ShirtNumber)
	}
	coach, err := s.storage.GetPlayer(s.ctx, model.CoachShirtNumber)
	s.Require().NoError(err)
	s.Equal(0, coach.Votes)
}

func (s *ServiceSuite) TestResyncCountsCoachBonuses() {
	s.Require().NoError(s.storage.SaveVote(s.ctx, &model.Vote{
		ID:    "bonus",
		Voter: model.CoachShirtNumber,
		Kind:  model.VoteKindCoachBonus,
		Picks: []model.Pick{{Category: model.CategoryBonus, Target: 3, TargetName: "Eda"}},
	}))

	standings, err := s.service.Resync(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.ShirtNumber(3), standings[0].ShirtNumber)
	s.Equal(1, standings[0].Votes)
}

func (s *ServiceSuite) TestStandingsGiftsAndProgress() {
	s.Require().NoError(s.storage.SetPlayerVotes(s.ctx, 9, 32))
	s.Require().NoError(s.storage.SetPlayerVotes(s.ctx, 3, 15))

	standings, err := s.service.Standings(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(standings, 3)
	s.Equal(model.Standing{ShirtNumber: 9, Name: "Yarina", Votes: 32, Gifts: 2, Progress: 2}, standings[0])
	s.Equal(model.Standing{ShirtNumber: 3, Name: "Eda", Votes: 15, Gifts: 1, Progress: 0}, standings[1])
	s.Equal(model.Standing{ShirtNumber: 7, Name: "Elonie", Votes: 0, Gifts: 0, Progress: 0}, standings[2])
}

func (s *ServiceSuite) TestCountDoesNotWrite() {
	s.saveVote("v1", pick(7, "Elonie"))

	counts, _, err := s.service.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, counts[7])

	p, err := s.storage.GetPlayer(s.ctx, 7)
	s.Require().NoError(err)
	s.Equal(0, p.Votes)
}
