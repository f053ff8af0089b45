package voting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/matchawards/internal/dependencies/mocks"
	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/services/messaging"
	"github.com/mcoot/matchawards/internal/storage/memory"
	"github.com/mcoot/matchawards/internal/testutil"
)

const pin = "1234"

type ControllerSuite struct {
	suite.Suite
	storage   *memory.Storage
	clock     *mocks.MockClock
	publisher *events.Recorder
	messages  *messaging.Service
	auth      *auth.Service
	ctx       context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(testutil.FixedTime)
	s.publisher = &events.Recorder{}
	s.auth = auth.New(s.storage, s.clock, nil, nil, auth.DefaultConfig())
	s.messages = messaging.New(s.storage, s.clock, mocks.NewMockIDs("msg"), s.publisher, nil, testutil.NopLogger())
	s.ctx = context.Background()

	testutil.SeedPlayers(s.T(), s.storage, pin,
		model.RosterEntry{ShirtNumber: model.CoachShirtNumber, Name: model.CoachName},
		model.RosterEntry{ShirtNumber: 3, Name: "Eda"},
		model.RosterEntry{ShirtNumber: 7, Name: "Elonie"},
		model.RosterEntry{ShirtNumber: 9, Name: "Yarina"},
		model.RosterEntry{ShirtNumber: 10, Name: "Seraina"},
	)
}

func (s *ControllerSuite) controller(cfg Config) *Controller {
	return NewController(s.storage, s.auth, s.messages, s.clock, mocks.NewMockIDs("vote"),
		s.publisher, nil, testutil.NopLogger(), cfg)
}

func (s *ControllerSuite) votesOf(shirt model.ShirtNumber) int {
	p, err := s.storage.GetPlayer(s.ctx, shirt)
	s.Require().NoError(err)
	return p.Votes
}

func pillars(shield, spark, catalyst string) model.Ballot {
	return model.Ballot{Selections: map[model.Category]string{
		model.CategoryShield:   shield,
		model.CategorySpark:    spark,
		model.CategoryCatalyst: catalyst,
	}}
}

// CastVote tests (pillars ballot)

func (s *ControllerSuite) TestCastVoteStoresVoteAndIncrements() {
	c := s.controller(DefaultConfig())

	vote, err := c.CastVote(s.ctx, 3, pin, pillars("Elonie", "Yarina", "Elonie"))
	s.Require().NoError(err)

	s.Equal(model.VoteID("vote-1"), vote.ID)
	s.Equal(model.VoteKindBallot, vote.Kind)
	s.Len(vote.Picks, 3)
	s.Equal(2, s.votesOf(7))
	s.Equal(1, s.votesOf(9))

	voter, err := s.storage.GetPlayer(s.ctx, 3)
	s.Require().NoError(err)
	s.True(voter.HasVoted)

	votes, err := s.storage.ListVotes(s.ctx)
	s.Require().NoError(err)
	s.Len(votes, 1)
	s.Equal([]events.Type{events.TypeVoteCast}, s.publisher.Types())
}

func (s *ControllerSuite) TestCastVoteTwiceRejected() {
	c := s.controller(DefaultConfig())
	_, err := c.CastVote(s.ctx, 3, pin, pillars("Elonie", "Yarina", "Seraina"))
	s.Require().NoError(err)

	_, err = c.CastVote(s.ctx, 3, pin, pillars("Elonie", "Yarina", "Seraina"))
	s.ErrorIs(err, model.ErrAlreadyVoted)
	s.Equal(1, s.votesOf(7))
}

func (s *ControllerSuite) TestCastVoteWrongPIN() {
	c := s.controller(DefaultConfig())

	_, err := c.CastVote(s.ctx, 3, "0000", pillars("Elonie", "Yarina", "Seraina"))
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *ControllerSuite) TestCastVoteMissingCategory() {
	c := s.controller(DefaultConfig())

	_, err := c.CastVote(s.ctx, 3, pin, pillars("Elonie", "  ", "Seraina"))
	s.ErrorIs(err, model.ErrIncompleteBallot)

	votes, err := s.storage.ListVotes(s.ctx)
	s.Require().NoError(err)
	s.Empty(votes)
	voter, err := s.storage.GetPlayer(s.ctx, 3)
	s.Require().NoError(err)
	s.False(voter.HasVoted)
}

func (s *ControllerSuite) TestCastVoteUnknownNameStoredWithoutIncrement() {
	c := s.controller(DefaultConfig())

	vote, err := c.CastVote(s.ctx, 3, pin, pillars("Nobody", "Yarina", "Seraina"))
	s.Require().NoError(err)

	s.Equal(model.NoShirt, vote.Picks[0].Target)
	s.Equal("Nobody", vote.Picks[0].TargetName)
	s.Equal(1, s.votesOf(9))
	s.Equal(1, s.votesOf(10))
}

func (s *ControllerSuite) TestCastVoteForCoachNotCounted() {
	c := s.controller(DefaultConfig())

	vote, err := c.CastVote(s.ctx, 3, pin, pillars(model.CoachName, "Yarina", "Seraina"))
	s.Require().NoError(err)

	s.False(vote.Picks[0].Resolved())
	s.Equal(0, s.votesOf(model.CoachShirtNumber))
}

func (s *ControllerSuite) TestSelfVoteRejectedByDefault() {
	c := s.controller(DefaultConfig())

	_, err := c.CastVote(s.ctx, 3, pin, pillars("Eda", "Yarina", "Seraina"))
	s.ErrorIs(err, model.ErrSelfVote)
}

func (s *ControllerSuite) TestSelfVoteAllowedWhenConfigured() {
	cfg := DefaultConfig()
	cfg.RejectSelfVote = false
	c := s.controller(cfg)

	_, err := c.CastVote(s.ctx, 3, pin, pillars("Eda", "Yarina", "Seraina"))
	s.Require().NoError(err)
	s.Equal(1, s.votesOf(3))
}

// CastVote tests (support ballot)

func support(mental, bonus, reason string) model.Ballot {
	return model.Ballot{
		Selections: map[model.Category]string{
			model.CategoryMentalSupport: mental,
			model.CategoryBonus:         bonus,
		},
		Reason: reason,
	}
}

func (s *ControllerSuite) supportController() *Controller {
	return s.controller(Config{Schema: model.SupportSchema(), RejectSelfVote: true})
}

func (s *ControllerSuite) TestSupportBallotSendsReasonToBonusTarget() {
	c := s.supportController()

	_, err := c.CastVote(s.ctx, 3, pin, support("Elonie", "Yarina", "kept us calm"))
	s.Require().NoError(err)

	msgs, err := s.storage.ListMessagesFor(s.ctx, 9)
	s.Require().NoError(err)
	s.Require().Len(msgs, 1)
	s.Equal("kept us calm", msgs[0].Text)
	s.Equal("Eda", msgs[0].SenderName)
	s.Equal(model.DirectionToPlayer, msgs[0].Direction)
	s.Equal(1, s.votesOf(7))
	s.Equal(1, s.votesOf(9))
}

func (s *ControllerSuite) TestSupportBallotRequiresReason() {
	c := s.supportController()

	_, err := c.CastVote(s.ctx, 3, pin, support("Elonie", "Yarina", " "))
	s.ErrorIs(err, model.ErrIncompleteBallot)
}

func (s *ControllerSuite) TestSupportBallotBonusMustResolve() {
	c := s.supportController()

	_, err := c.CastVote(s.ctx, 3, pin, support("Elonie", "Ghost", "why not"))
	s.ErrorIs(err, model.ErrTargetNotFound)

	votes, err := s.storage.ListVotes(s.ctx)
	s.Require().NoError(err)
	s.Empty(votes)
}

func (s *ControllerSuite) TestSupportBallotMentalSupportIsLenient() {
	c := s.supportController()

	vote, err := c.CastVote(s.ctx, 3, pin, support("Ghost", "Yarina", "great pass"))
	s.Require().NoError(err)
	s.False(vote.Picks[0].Resolved())
}

// GiveBonus tests

func (s *ControllerSuite) TestGiveBonus() {
	c := s.controller(DefaultConfig())

	vote, err := c.GiveBonus(s.ctx, 7, "great save")
	s.Require().NoError(err)

	s.Equal(model.VoteKindCoachBonus, vote.Kind)
	s.Equal(model.CoachShirtNumber, vote.Voter)
	s.Equal(1, s.votesOf(7))

	msgs, err := s.storage.ListMessagesFor(s.ctx, 7)
	s.Require().NoError(err)
	s.Require().Len(msgs, 1)
	s.Equal("great save", msgs[0].Text)
	s.Equal(model.CoachName, msgs[0].SenderName)
	s.Contains(s.publisher.Types(), events.TypeBonusGiven)
}

func (s *ControllerSuite) TestGiveBonusIgnoresHasVoted() {
	c := s.controller(DefaultConfig())
	_, err := c.CastVote(s.ctx, 7, pin, pillars("Eda", "Yarina", "Seraina"))
	s.Require().NoError(err)

	_, err = c.GiveBonus(s.ctx, 7, "again")
	s.Require().NoError(err)
	_, err = c.GiveBonus(s.ctx, 7, "and again")
	s.Require().NoError(err)
	s.Equal(2, s.votesOf(7))
}

func (s *ControllerSuite) TestGiveBonusUnknownTarget() {
	c := s.controller(DefaultConfig())

	_, err := c.GiveBonus(s.ctx, 42, "nice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = c.GiveBonus(s.ctx, model.CoachShirtNumber, "nice")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ControllerSuite) TestGiveBonusRequiresReason() {
	c := s.controller(DefaultConfig())

	_, err := c.GiveBonus(s.ctx, 7, "")
	s.ErrorIs(err, model.ErrIncompleteBallot)
	s.Equal(0, s.votesOf(7))
}

func (s *ControllerSuite) TestCastVoteRejectsCoach() {
	c := s.controller(DefaultConfig())

	_, err := c.CastVote(s.ctx, model.CoachShirtNumber, pin, pillars("Elonie", "Yarina", "Seraina"))
	s.ErrorIs(err, model.ErrInvalidCredentials)

	votes, err := s.storage.ListVotes(s.ctx)
	s.Require().NoError(err)
	s.Empty(votes)
	s.Equal(0, s.votesOf(7))
}

// StartNewMatch tests

func (s *ControllerSuite) TestStartNewMatchReopensVoting() {
	c := s.controller(DefaultConfig())
	_, err := c.CastVote(s.ctx, 3, pin, pillars("Elonie", "Yarina", "Seraina"))
	s.Require().NoError(err)

	_, err = s.messages.SendFeedback(s.ctx, 9, "Yari", "Good game", false)
	s.Require().NoError(err)

	s.Require().NoError(c.StartNewMatch(s.ctx))

	// Ballots, tallies and messages carry over into the new round
	voter, err := s.storage.GetPlayer(s.ctx, 3)
	s.Require().NoError(err)
	s.False(voter.HasVoted)
	s.Equal(1, s.votesOf(7))
	votes, err := s.storage.ListVotes(s.ctx)
	s.Require().NoError(err)
	s.Len(votes, 1)
	msgs, err := s.storage.ListMessages(s.ctx)
	s.Require().NoError(err)
	s.Len(msgs, 1)

	_, err = c.CastVote(s.ctx, 3, pin, pillars("Elonie", "Yarina", "Seraina"))
	s.Require().NoError(err)
	s.Equal(2, s.votesOf(7))

	votes, err = s.storage.ListVotes(s.ctx)
	s.Require().NoError(err)
	s.Len(votes, 2)
}
