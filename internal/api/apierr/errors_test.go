package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/matchawards/internal/model"
)

func TestWriteErrorMapsModelErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{model.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
		{model.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
		{model.ErrAlreadyVoted, http.StatusConflict, CodeAlreadyVoted},
		{fmt.Errorf("%w: Shield is required", model.ErrIncompleteBallot), http.StatusBadRequest, CodeIncompleteBallot},
		{model.ErrTargetNotFound, http.StatusUnprocessableEntity, CodeTargetNotFound},
		{model.ErrWeakPIN, http.StatusBadRequest, CodeWeakPIN},
		{model.ErrPlayerNotFound, http.StatusNotFound, CodeNotFound},
		{model.ErrSelfVote, http.StatusBadRequest, CodeSelfVote},
		{model.ErrEmptyMessage, http.StatusBadRequest, CodeEmptyMessage},
		{fmt.Errorf("%w: %w", model.ErrPersistence, errors.New("dial tcp")), http.StatusServiceUnavailable, CodePersistenceFailure},
		{NewInvalidRequestError("bad"), http.StatusBadRequest, CodeInvalidRequest},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestPersistenceDetailNotLeaked(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("%w: %w", model.ErrPersistence, errors.New("password=hunter2")))
	assert.NotContains(t, rr.Body.String(), "hunter2")
}

func TestIncompleteBallotKeepsDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("%w: Spark is required", model.ErrIncompleteBallot))
	assert.Contains(t, rr.Body.String(), "Spark is required")
}
