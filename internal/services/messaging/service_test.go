package messaging

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/matchawards/internal/dependencies/mocks"
	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage/memory"
	"github.com/mcoot/matchawards/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage   *memory.Storage
	clock     *mocks.MockClock
	publisher *events.Recorder
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.publisher = &events.Recorder{}
	s.service = New(s.storage, s.clock, mocks.NewMockIDs("msg"), s.publisher, nil, testutil.NopLogger())
	s.ctx = context.Background()
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ShirtNumber: 7, Name: "Elonie"}))
}

func (s *ServiceSuite) TestSendFeedback() {
	msg, err := s.service.SendFeedback(s.ctx, 7, "Elo", "  more sprints please ", false)
	s.Require().NoError(err)

	s.Equal(model.MessageID("msg-1"), msg.ID)
	s.Equal(model.CoachShirtNumber, msg.Recipient)
	s.Equal(model.DirectionToCoach, msg.Direction)
	s.Equal("Elo", msg.SenderName)
	s.Equal("more sprints please", msg.Text)
	s.Equal(s.clock.Now(), msg.CreatedAt)

	inbox, err := s.service.Inbox(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(inbox, 1)
	s.Equal(msg.ID, inbox[0].ID)

	s.Require().Len(s.publisher.Events(), 1)
	s.Equal(events.TopicCoach, s.publisher.Events()[0].Topic)
}

func (s *ServiceSuite) TestSendFeedbackDefaultsToRosterName() {
	msg, err := s.service.SendFeedback(s.ctx, 7, "", "hello", false)
	s.Require().NoError(err)
	s.Equal("Elonie", msg.SenderName)
}

func (s *ServiceSuite) TestAnonymousFeedbackHidesSender() {
	msg, err := s.service.SendFeedback(s.ctx, 7, "", "hello", true)
	s.Require().NoError(err)

	s.True(msg.IsAnonymous)
	s.Equal(model.AnonymousSenderLabel, msg.DisplaySender())
	s.Equal("Anonymous", s.publisher.Events()[0].Data["sender"])
}

func (s *ServiceSuite) TestBlankFeedbackRejected() {
	_, err := s.service.SendFeedback(s.ctx, 7, "Elonie", "   ", false)
	s.ErrorIs(err, model.ErrEmptyMessage)

	all, err := s.service.All(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *ServiceSuite) TestLongTextTruncated() {
	msg, err := s.service.SendFeedback(s.ctx, 7, "Elonie", strings.Repeat("a", MaxTextLength+50), false)
	s.Require().NoError(err)
	s.Len(msg.Text, MaxTextLength)
}

func (s *ServiceSuite) TestSendNote() {
	msg, err := s.service.SendNote(s.ctx, 7, "great game")
	s.Require().NoError(err)

	s.Equal(model.DirectionToPlayer, msg.Direction)
	s.Equal(model.CoachName, msg.SenderName)
	s.Equal(events.PlayerTopic(7), s.publisher.Events()[0].Topic)

	got, err := s.service.GetMessagesFor(s.ctx, 7)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("great game", got[0].Text)
}

func (s *ServiceSuite) TestSendNoteUnknownPlayer() {
	_, err := s.service.SendNote(s.ctx, 42, "hi")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.service.SendNote(s.ctx, model.CoachShirtNumber, "hi")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestGetMessagesForNewestFirst() {
	_, err := s.service.SendNote(s.ctx, 7, "first")
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.service.SendNote(s.ctx, 7, "second")
	s.Require().NoError(err)

	got, err := s.service.GetMessagesFor(s.ctx, 7)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("second", got[0].Text)
	s.Equal("first", got[1].Text)
}
