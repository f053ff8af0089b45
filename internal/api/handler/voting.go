package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/matchawards/internal/api/request"
	"github.com/mcoot/matchawards/internal/api/response"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/services/roster"
	"github.com/mcoot/matchawards/internal/services/voting"
)

// VotingHandler handles the ballot and vote endpoints
type VotingHandler struct {
	voting *voting.Controller
	roster *roster.Service
}

// NewVotingHandler creates a new voting handler
func NewVotingHandler(votingController *voting.Controller, rosterService *roster.Service) *VotingHandler {
	return &VotingHandler{
		voting: votingController,
		roster: rosterService,
	}
}

// Ballot handles GET /api/v1/ballot
// An optional ?shirt_number= leaves the voter out of the candidates.
func (h *VotingHandler) Ballot(w http.ResponseWriter, r *http.Request) {
	voter := model.NoShirt
	if raw := r.URL.Query().Get("shirt_number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, NewInvalidRequestError("invalid shirt_number"))
			return
		}
		voter = shirt(n)
	}

	names, err := h.roster.CandidateNames(r.Context(), voter)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Ballot{
		Schema:     h.voting.Schema(),
		Candidates: names,
	})
}

// Cast handles POST /api/v1/votes
func (h *VotingHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req request.VoteRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	vote, err := h.voting.CastVote(r.Context(), req.Shirt(), req.PIN, req.Ballot())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.VoteFromModel(vote))
}
