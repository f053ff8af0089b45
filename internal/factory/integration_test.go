package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/services/roster"
	"github.com/mcoot/matchawards/internal/services/voting"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestAppWithConfig(Config{
		RosterConfig: &roster.Config{
			Team: []model.RosterEntry{
				{ShirtNumber: 3, Name: "Eda"},
				{ShirtNumber: 7, Name: "Elonie"},
				{ShirtNumber: 9, Name: "Yarina"},
			},
			CoachPIN: "0000",
		},
	})
	s.ctx = context.Background()
	s.Require().NoError(s.app.Roster.SeedTeam(s.ctx))
}

func (s *IntegrationSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

func pillars(shield, spark, catalyst string) model.Ballot {
	return model.Ballot{Selections: map[model.Category]string{
		model.CategoryShield:   shield,
		model.CategorySpark:    spark,
		model.CategoryCatalyst: catalyst,
	}}
}

// Test: a full round from first login to the coach starting the next match
func (s *IntegrationSuite) TestCompleteRound() {
	// Step 1: first login with the default PIN demands a change
	login, err := s.app.AuthService.VerifyLogin(s.ctx, 3, "1234")
	s.Require().NoError(err)
	s.True(login.NeedsPINChange)
	s.False(login.IsAdmin)

	// Step 2: change the PIN, old one stops working
	s.Require().NoError(s.app.AuthService.UpdatePIN(s.ctx, 3, "1234", "4711"))
	_, err = s.app.AuthService.VerifyLogin(s.ctx, 3, "1234")
	s.ErrorIs(err, model.ErrInvalidCredentials)
	login, err = s.app.AuthService.VerifyLogin(s.ctx, 3, "4711")
	s.Require().NoError(err)
	s.False(login.NeedsPINChange)

	// Step 3: two players vote
	_, err = s.app.Voting.CastVote(s.ctx, 3, "4711", pillars("Elonie", "Yarina", "Elonie"))
	s.Require().NoError(err)
	_, err = s.app.Voting.CastVote(s.ctx, 7, "1234", pillars("Eda", "Yarina", "Nobody"))
	s.Require().NoError(err)

	_, err = s.app.Voting.CastVote(s.ctx, 3, "4711", pillars("Elonie", "Yarina", "Elonie"))
	s.ErrorIs(err, model.ErrAlreadyVoted)

	pending, err := s.app.Roster.PendingVoters(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(model.ShirtNumber(9), pending[0].ShirtNumber)

	// Step 4: coach bonus lands in the player's inbox
	_, err = s.app.Voting.GiveBonus(s.ctx, 9, "Great pressing")
	s.Require().NoError(err)
	inbox, err := s.app.Messaging.GetMessagesFor(s.ctx, 9)
	s.Require().NoError(err)
	s.Require().Len(inbox, 1)
	s.Equal(model.CoachName, inbox[0].SenderName)

	// Step 5: standings reflect picks and bonus; unresolved names count nowhere
	standings, err := s.app.Tally.Standings(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(standings, 3)
	s.Equal(model.ShirtNumber(9), standings[0].ShirtNumber)
	s.Equal(3, standings[0].Votes)
	s.Equal(model.ShirtNumber(7), standings[1].ShirtNumber)
	s.Equal(2, standings[1].Votes)
	s.Equal(1, standings[2].Votes)

	// Step 6: a drifted counter is repaired by resync
	s.Require().NoError(s.app.Storage.SetPlayerVotes(s.ctx, 7, 40))
	standings, err = s.app.Tally.Resync(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.ShirtNumber(9), standings[0].ShirtNumber)
	s.Equal(2, standings[1].Votes)

	// Step 7: new match lets everyone vote again, tallies stay
	s.Require().NoError(s.app.Voting.StartNewMatch(s.ctx))
	pending, err = s.app.Roster.PendingVoters(s.ctx)
	s.Require().NoError(err)
	s.Len(pending, 3)
	_, err = s.app.Voting.CastVote(s.ctx, 3, "4711", pillars("Yarina", "Yarina", "Yarina"))
	s.Require().NoError(err)

	p, err := s.app.Storage.GetPlayer(s.ctx, 9)
	s.Require().NoError(err)
	s.Equal(6, p.Votes)

	s.Equal([]events.Type{
		events.TypeVoteCast,
		events.TypeVoteCast,
		events.TypeMessageSent,
		events.TypeBonusGiven,
		events.TypeTallyResynced,
		events.TypeRoundReset,
		events.TypeVoteCast,
	}, s.app.Events.Types()[1:])
}

// Test: coach login issues a session the gate accepts
func (s *IntegrationSuite) TestCoachSessionPassesGate() {
	login, err := s.app.AuthService.VerifyLogin(s.ctx, model.CoachShirtNumber, "0000")
	s.Require().NoError(err)
	s.True(login.IsAdmin)
	s.Require().NotNil(login.AdminSession)

	s.NoError(s.app.Gate.Authorize(authCreds(login.AdminSession.Token)))
	s.ErrorIs(s.app.Gate.Authorize(authCreds("")), model.ErrUnauthorized)
}

// Test: PIN reset by the coach forces a change on next login
func (s *IntegrationSuite) TestPINReset() {
	s.Require().NoError(s.app.AuthService.UpdatePIN(s.ctx, 7, "1234", "8888"))
	s.Require().NoError(s.app.AuthService.ResetPlayerPIN(s.ctx, 7))

	login, err := s.app.AuthService.VerifyLogin(s.ctx, 7, "1234")
	s.Require().NoError(err)
	s.True(login.NeedsPINChange)
}

// Test: support ballots send the reason to the bonus target
func (s *IntegrationSuite) TestSupportSchemaFlow() {
	app := NewTestAppWithConfig(Config{
		VotingConfig: &voting.Config{Schema: model.SupportSchema(), RejectSelfVote: true},
	})
	defer app.Close()
	s.Require().NoError(app.Roster.SeedTeam(s.ctx))

	_, err := app.Voting.CastVote(s.ctx, 3, "1234", model.Ballot{
		Selections: map[model.Category]string{
			model.CategoryMentalSupport: "Vera",
			model.CategoryBonus:         "Elonie",
		},
		Reason:    "Kept us calm",
		Anonymous: true,
	})
	s.Require().NoError(err)

	msgs, err := app.Messaging.GetMessagesFor(s.ctx, 7)
	s.Require().NoError(err)
	s.Require().Len(msgs, 1)
	s.True(msgs[0].IsAnonymous)
	s.Equal(model.AnonymousSenderLabel, msgs[0].DisplaySender())
}

func authCreds(token string) auth.AdminCredentials {
	return auth.AdminCredentials{SessionToken: token}
}
