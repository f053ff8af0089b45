package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/matchawards/internal/config"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/testutil"
)

func TestFactoryConfig(t *testing.T) {
	cfg := config.Config{
		StorageType:          config.StorageRedis,
		RedisURL:             "redis://cache:6379",
		AdminGate:            "query-param",
		AdminPassword:        "pw",
		AdminPIN:             "4242",
		DefaultPIN:           "1111",
		SessionSecret:        "secret",
		AdminSessionDuration: time.Hour,
		BallotSchema:         "support",
		RejectSelfVote:       false,
	}

	out, err := factoryConfig(cfg, testutil.NopLogger())
	require.NoError(t, err)

	assert.Equal(t, auth.GateQueryParam, out.GateMode)
	assert.Equal(t, "1111", out.AuthConfig.DefaultPIN)
	assert.Equal(t, "pw", out.AuthConfig.AdminPassword)
	assert.Equal(t, []byte("secret"), out.AuthConfig.SessionSecret)
	assert.Equal(t, time.Hour, out.AuthConfig.AdminSessionDuration)
	assert.Equal(t, "4242", out.RosterConfig.CoachPIN)
	assert.Equal(t, model.DefaultRoster(), out.RosterConfig.Team)
	assert.Equal(t, model.SchemaNameSupport, out.VotingConfig.Schema.Name)
	assert.False(t, out.VotingConfig.RejectSelfVote)
	require.NotNil(t, out.RedisConfig)
	assert.Equal(t, "redis://cache:6379", out.RedisConfig.URL)
}

func TestFactoryConfigRejectsUnknownValues(t *testing.T) {
	_, err := factoryConfig(config.Config{BallotSchema: "trophies"}, testutil.NopLogger())
	assert.Error(t, err)

	_, err = factoryConfig(config.Config{AdminGate: "magic"}, testutil.NopLogger())
	assert.Error(t, err)
}
