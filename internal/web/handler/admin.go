package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/matchawards/internal/events"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/services/messaging"
	"github.com/mcoot/matchawards/internal/services/roster"
	"github.com/mcoot/matchawards/internal/services/tally"
	"github.com/mcoot/matchawards/internal/services/voting"
	"github.com/mcoot/matchawards/internal/web/middleware"
	"github.com/mcoot/matchawards/internal/web/templates/pages"
)

// AdminHandler serves the coach dashboard and its actions.
// Routes are gated by the admin middleware.
type AdminHandler struct {
	authService *auth.Service
	gate        *auth.Gate
	voting      *voting.Controller
	tally       *tally.Service
	roster      *roster.Service
	messaging   *messaging.Service
	hubs        *events.HubManager
	logger      *slog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	authService *auth.Service,
	gate *auth.Gate,
	votingController *voting.Controller,
	tallyService *tally.Service,
	rosterService *roster.Service,
	messagingService *messaging.Service,
	hubs *events.HubManager,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		gate:        gate,
		voting:      votingController,
		tally:       tallyService,
		roster:      rosterService,
		messaging:   messagingService,
		hubs:        hubs,
		logger:      logger,
	}
}

// Dashboard renders the coach dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := pages.AdminData{
		PageData:  pageData(r, "Coach dashboard"),
		AuthQuery: middleware.AuthQuery(h.gate, r),
	}

	var err error
	if data.Players, err = h.roster.Players(ctx); err != nil {
		h.fail(w, r, err)
		return
	}
	if data.Pending, err = h.roster.PendingVoters(ctx); err != nil {
		h.fail(w, r, err)
		return
	}
	if data.Standings, err = h.tally.Standings(ctx); err != nil {
		h.fail(w, r, err)
		return
	}
	if data.Messages, err = h.messaging.Inbox(ctx); err != nil {
		h.fail(w, r, err)
		return
	}

	render(w, r, pages.Admin(data))
}

// Events streams dashboard updates
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	events.ServeSSE(w, r, h.hubs.GetOrCreateHub(events.TopicCoach))
}

// NewMatch opens a new round
func (h *AdminHandler) NewMatch(w http.ResponseWriter, r *http.Request) {
	h.done(w, r, h.voting.StartNewMatch(r.Context()), "New match started. Everyone can vote again.")
}

// Resync recounts all votes
func (h *AdminHandler) Resync(w http.ResponseWriter, r *http.Request) {
	_, err := h.tally.Resync(r.Context())
	h.done(w, r, err, "Votes recounted.")
}

// Seed recreates the team
func (h *AdminHandler) Seed(w http.ResponseWriter, r *http.Request) {
	h.done(w, r, h.roster.SeedTeam(r.Context()), "Team reseeded with default PINs.")
}

// ResetPIN restores a player's default PIN
func (h *AdminHandler) ResetPIN(w http.ResponseWriter, r *http.Request) {
	shirt, ok := h.shirt(w, r)
	if !ok {
		return
	}
	err := h.authService.ResetPlayerPIN(r.Context(), shirt)
	h.done(w, r, err, fmt.Sprintf("PIN for #%d reset to the default.", shirt))
}

// Bonus gives a player a coach bonus point
func (h *AdminHandler) Bonus(w http.ResponseWriter, r *http.Request) {
	shirt, ok := h.shirt(w, r)
	if !ok {
		return
	}
	_, err := h.voting.GiveBonus(r.Context(), shirt, r.FormValue("reason"))
	h.done(w, r, err, fmt.Sprintf("Bonus given to #%d.", shirt))
}

// Note sends a player a message from the coach
func (h *AdminHandler) Note(w http.ResponseWriter, r *http.Request) {
	shirt, ok := h.shirt(w, r)
	if !ok {
		return
	}
	_, err := h.messaging.SendNote(r.Context(), shirt, r.FormValue("text"))
	h.done(w, r, err, fmt.Sprintf("Note sent to #%d.", shirt))
}

func (h *AdminHandler) shirt(w http.ResponseWriter, r *http.Request) (model.ShirtNumber, bool) {
	n, err := strconv.Atoi(mux.Vars(r)["shirt"])
	if err != nil {
		h.done(w, r, model.ErrPlayerNotFound, "")
		return model.NoShirt, false
	}
	return model.ShirtNumber(n), true
}

// done flashes the outcome of an action and returns to the dashboard
func (h *AdminHandler) done(w http.ResponseWriter, r *http.Request, err error, success string) {
	if err != nil {
		h.logger.Warn("admin action failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		middleware.SetFlash(w, "error", userMessage(err))
	} else {
		middleware.SetFlash(w, "success", success)
	}
	http.Redirect(w, r, "/admin"+middleware.AuthQuery(h.gate, r), http.StatusSeeOther)
}

func (h *AdminHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("dashboard failed", slog.Any("error", err))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = pages.ErrorPage(pageData(r, "Error"), userMessage(err)).Render(r.Context(), w)
}
