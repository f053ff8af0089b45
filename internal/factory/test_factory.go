package factory

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/matchawards/internal/dependencies/mocks"
	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/metrics"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/storage/memory"
	"github.com/mcoot/matchawards/internal/testutil"
)

// TestSessionSecret signs admin sessions in test apps
var TestSessionSecret = []byte("test-session-secret")

// TestAdminPassword is accepted by test apps in query-param gate mode
const TestAdminPassword = "letmein"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
	// Events records every published event
	Events *events.Recorder
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(Config{})
}

// NewTestAppWithConfig is NewTestApp with the gate, ballot and roster taken from cfg
func NewTestAppWithConfig(cfg Config) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(testutil.FixedTime)
	mockIDs := mocks.NewMockIDs("id")
	recorder := &events.Recorder{}

	if cfg.AuthConfig.HashCost == 0 {
		cfg.AuthConfig.HashCost = bcrypt.MinCost
	}
	if len(cfg.AuthConfig.SessionSecret) == 0 {
		cfg.AuthConfig.SessionSecret = TestSessionSecret
	}
	if cfg.AuthConfig.AdminPassword == "" {
		cfg.AuthConfig.AdminPassword = TestAdminPassword
	}
	if cfg.GateMode == "" {
		cfg.GateMode = auth.GateSession
	}

	logger := cfg.Logger
	if logger == nil {
		logger = testutil.NopLogger()
	}
	hubs := events.NewHubManager(logger)
	app := newWithDependencies(store, mockClock, mockIDs, hubs, recorder, metrics.New(), cfg, logger)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
		Events:    recorder,
	}
}
