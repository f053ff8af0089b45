package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.Login(LoginPlayer)
	m.Login(LoginInvalid)
	m.VoteCast()
	m.VoteCast()
	m.MessageStored("to_coach")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `awards_logins_total{result="player"} 1`)
	assert.Contains(t, string(body), `awards_logins_total{result="invalid"} 1`)
	assert.Contains(t, string(body), "awards_votes_cast_total 2")
	assert.Contains(t, string(body), `awards_messages_total{direction="to_coach"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Login(LoginCoach)
		m.VoteCast()
		m.BonusGiven()
		m.Resynced()
		m.MessageStored("to_player")
	})
}
