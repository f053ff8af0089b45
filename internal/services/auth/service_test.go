package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/matchawards/internal/dependencies/mocks"
	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/storage/memory"
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
	cfg := DefaultConfig()
	cfg.HashCost = bcrypt.MinCost
	cfg.SessionSecret = []byte("test-secret")
	cfg.AdminPassword = "letmein"
	s.service = New(s.storage, s.clock, s.publisher, nil, cfg)
	s.ctx = context.Background()
}

func (s *ServiceSuite) givenPlayer(shirt model.ShirtNumber, name, pin string, needsChange bool) {
	hash, err := s.service.HashPIN(pin)
	s.Require().NoError(err)
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{
		ShirtNumber:    shirt,
		Name:           name,
		PINHash:        hash,
		NeedsPINChange: needsChange,
	}))
}

// VerifyLogin tests

func (s *ServiceSuite) TestVerifyLoginPlayer() {
	s.givenPlayer(7, "Elonie", "1234", true)

	result, err := s.service.VerifyLogin(s.ctx, 7, "1234")
	s.Require().NoError(err)
	s.False(result.IsAdmin)
	s.True(result.NeedsPINChange)
	s.Equal("Elonie", result.UserName())
	s.Nil(result.AdminSession)
}

func (s *ServiceSuite) TestVerifyLoginCoachGetsSession() {
	s.givenPlayer(model.CoachShirtNumber, model.CoachName, "9999", false)

	result, err := s.service.VerifyLogin(s.ctx, 0, "9999")
	s.Require().NoError(err)
	s.True(result.IsAdmin)
	s.Require().NotNil(result.AdminSession)
	s.Equal(s.clock.Now().Add(2*time.Hour), result.AdminSession.ExpiresAt)
	s.NoError(s.service.ValidateAdminSession(result.AdminSession.Token))
}

func (s *ServiceSuite) TestVerifyLoginWrongPIN() {
	s.givenPlayer(7, "Elonie", "1234", false)

	_, err := s.service.VerifyLogin(s.ctx, 7, "0000")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestVerifyLoginUnknownShirt() {
	_, err := s.service.VerifyLogin(s.ctx, 42, "1234")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestPINIsNotStoredInPlainText() {
	s.givenPlayer(7, "Elonie", "1234", false)

	p, err := s.storage.GetPlayer(s.ctx, 7)
	s.Require().NoError(err)
	s.NotEqual("1234", p.PINHash)
}

// UpdatePIN tests

func (s *ServiceSuite) TestUpdatePINSucceeds() {
	s.givenPlayer(7, "Elonie", "1234", true)

	err := s.service.UpdatePIN(s.ctx, 7, "1234", "5678")
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx, 7, "1234")
	s.ErrorIs(err, model.ErrInvalidCredentials)
	p, err := s.service.Authenticate(s.ctx, 7, "5678")
	s.Require().NoError(err)
	s.False(p.NeedsPINChange)
	s.Equal(s.clock.Now(), p.UpdatedAt)
}

func (s *ServiceSuite) TestUpdatePINTooShort() {
	s.givenPlayer(7, "Elonie", "1234", true)

	err := s.service.UpdatePIN(s.ctx, 7, "1234", "12")
	s.ErrorIs(err, model.ErrWeakPIN)

	_, err = s.service.Authenticate(s.ctx, 7, "1234")
	s.NoError(err)
}

func (s *ServiceSuite) TestUpdatePINWrongOldPIN() {
	s.givenPlayer(7, "Elonie", "1234", true)

	err := s.service.UpdatePIN(s.ctx, 7, "9999", "5678")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// ResetPlayerPIN tests

func (s *ServiceSuite) TestResetPlayerPIN() {
	s.givenPlayer(7, "Elonie", "5678", false)

	s.Require().NoError(s.service.ResetPlayerPIN(s.ctx, 7))

	result, err := s.service.VerifyLogin(s.ctx, 7, "1234")
	s.Require().NoError(err)
	s.True(result.NeedsPINChange)
	s.Equal([]events.Type{events.TypePINReset}, s.publisher.Types())
}

func (s *ServiceSuite) TestResetPlayerPINUnknownShirt() {
	err := s.service.ResetPlayerPIN(s.ctx, 42)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestResetPlayerPINRejectsCoach() {
	s.givenPlayer(model.CoachShirtNumber, model.CoachName, "9999", false)

	err := s.service.ResetPlayerPIN(s.ctx, model.CoachShirtNumber)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.service.VerifyLogin(s.ctx, model.CoachShirtNumber, "1234")
	s.ErrorIs(err, model.ErrInvalidCredentials)
	s.Empty(s.publisher.Events())
}

// Admin session tests

func (s *ServiceSuite) TestAdminSessionExpires() {
	session, err := s.service.IssueAdminSession()
	s.Require().NoError(err)

	s.clock.Advance(2*time.Hour + time.Second)

	s.ErrorIs(s.service.ValidateAdminSession(session.Token), model.ErrUnauthorized)
}

func (s *ServiceSuite) TestAdminSessionRejectsForeignSignature() {
	cfg := DefaultConfig()
	cfg.SessionSecret = []byte("other-secret")
	other := New(s.storage, s.clock, nil, nil, cfg)
	session, err := other.IssueAdminSession()
	s.Require().NoError(err)

	s.ErrorIs(s.service.ValidateAdminSession(session.Token), model.ErrUnauthorized)
}

func (s *ServiceSuite) TestAdminSessionRejectsGarbage() {
	s.ErrorIs(s.service.ValidateAdminSession(""), model.ErrUnauthorized)
	s.ErrorIs(s.service.ValidateAdminSession("authenticated"), model.ErrUnauthorized)
}

// Gate tests

func (s *ServiceSuite) TestSessionGate() {
	gate := NewGate(GateSession, s.service)
	session, err := s.service.IssueAdminSession()
	s.Require().NoError(err)

	s.NoError(gate.Authorize(AdminCredentials{SessionToken: session.Token}))
	s.ErrorIs(gate.Authorize(AdminCredentials{Password: "letmein"}), model.ErrUnauthorized)
}

func (s *ServiceSuite) TestQueryParamGate() {
	gate := NewGate(GateQueryParam, s.service)

	s.NoError(gate.Authorize(AdminCredentials{Password: "letmein"}))
	s.ErrorIs(gate.Authorize(AdminCredentials{Password: "wrong"}), model.ErrUnauthorized)
	s.ErrorIs(gate.Authorize(AdminCredentials{}), model.ErrUnauthorized)
}

func (s *ServiceSuite) TestQueryParamGateWithoutConfiguredPassword() {
	svc := New(s.storage, s.clock, nil, nil, DefaultConfig())
	gate := NewGate(GateQueryParam, svc)

	s.ErrorIs(gate.Authorize(AdminCredentials{Password: ""}), model.ErrUnauthorized)
}

func TestParseGateMode(t *testing.T) {
	mode, err := ParseGateMode("")
	if err != nil || mode != GateSession {
		t.Fatalf("empty mode should default to session, got %q %v", mode, err)
	}
	mode, err = ParseGateMode("query-param")
	if err != nil || mode != GateQueryParam {
		t.Fatalf("got %q %v", mode, err)
	}
	if _, err := ParseGateMode("cookie"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
