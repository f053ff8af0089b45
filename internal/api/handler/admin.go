package handler

import (
	"net/http"

	"github.com/mcoot/matchawards/internal/api/request"
	"github.com/mcoot/matchawards/internal/api/response"
	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/services/messaging"
	"github.com/mcoot/matchawards/internal/services/roster"
	"github.com/mcoot/matchawards/internal/services/tally"
	"github.com/mcoot/matchawards/internal/services/voting"
)

// AdminHandler handles the coach endpoints. Routes are gated by the admin middleware.
type AdminHandler struct {
	authService *auth.Service
	voting      *voting.Controller
	tally       *tally.Service
	roster      *roster.Service
	messaging   *messaging.Service
	hubs        *events.HubManager
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	authService *auth.Service,
	votingController *voting.Controller,
	tallyService *tally.Service,
	rosterService *roster.Service,
	messagingService *messaging.Service,
	hubs *events.HubManager,
) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		voting:      votingController,
		tally:       tallyService,
		roster:      rosterService,
		messaging:   messagingService,
		hubs:        hubs,
	}
}

// Standings handles GET /api/v1/admin/standings
func (h *AdminHandler) Standings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.tally.Standings(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Standings{Milestone: model.GiftMilestone, Standings: standings})
}

// Players handles GET /api/v1/admin/players
func (h *AdminHandler) Players(w http.ResponseWriter, r *http.Request) {
	players, err := h.roster.Players(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RosterFromModel(players))
}

// Messages handles GET /api/v1/admin/messages
func (h *AdminHandler) Messages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.messaging.Inbox(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MessagesFromModel(msgs))
}

// Resync handles POST /api/v1/admin/resync
func (h *AdminHandler) Resync(w http.ResponseWriter, r *http.Request) {
	standings, err := h.tally.Resync(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Standings{Milestone: model.GiftMilestone, Standings: standings})
}

// NewMatch handles POST /api/v1/admin/new-match
func (h *AdminHandler) NewMatch(w http.ResponseWriter, r *http.Request) {
	if err := h.voting.StartNewMatch(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, "new_match_started")
}

// Seed handles POST /api/v1/admin/seed
func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if err := h.roster.SeedTeam(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, "team_seeded")
}

// ResetPIN handles POST /api/v1/admin/players/{shirt}/reset-pin
func (h *AdminHandler) ResetPIN(w http.ResponseWriter, r *http.Request) {
	target, err := shirtFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := h.authService.ResetPlayerPIN(r.Context(), target); err != nil {
		WriteError(w, err)
		return
	}
	response.OK(w, "pin_reset")
}

// Bonus handles POST /api/v1/admin/players/{shirt}/bonus
func (h *AdminHandler) Bonus(w http.ResponseWriter, r *http.Request) {
	target, err := shirtFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.BonusRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	vote, err := h.voting.GiveBonus(r.Context(), target, req.Reason)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.VoteFromModel(vote))
}

// Note handles POST /api/v1/admin/players/{shirt}/notes
func (h *AdminHandler) Note(w http.ResponseWriter, r *http.Request) {
	target, err := shirtFromPath(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req request.NoteRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	msg, err := h.messaging.SendNote(r.Context(), target, req.Text)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.MessageFromModel(msg))
}

// Events handles GET /api/v1/admin/events, the dashboard's change stream
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	events.ServeSSE(w, r, h.hubs.GetOrCreateHub(events.TopicCoach))
}
