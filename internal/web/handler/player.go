package handler

import (
	"errors"
	"net/http"

	"github.com/mcoot/matchawards/internal/middleware"
	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/services/auth"
	"github.com/mcoot/matchawards/internal/services/roster"
	"github.com/mcoot/matchawards/internal/services/voting"
	webmw "github.com/mcoot/matchawards/internal/web/middleware"
	"github.com/mcoot/matchawards/internal/web/templates/pages"
)

// PlayerHandler runs the login, PIN change and voting flow.
// The flow is stateless: every form resends shirt number and PIN.
type PlayerHandler struct {
	authService   *auth.Service
	voting        *voting.Controller
	roster        *roster.Service
	secureCookies bool
}

// NewPlayerHandler creates a new PlayerHandler
func NewPlayerHandler(authService *auth.Service, votingController *voting.Controller, rosterService *roster.Service, secureCookies bool) *PlayerHandler {
	return &PlayerHandler{
		authService:   authService,
		voting:        votingController,
		roster:        rosterService,
		secureCookies: secureCookies,
	}
}

// LoginPage renders the login form
func (h *PlayerHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.Login(pages.LoginData{PageData: pageData(r, "Login")}))
}

// Login handles the login form. Coaches go to the dashboard, players with a
// default PIN to the PIN form, everyone else straight to the ballot.
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "Invalid form data")
		return
	}
	shirt, ok := formShirt(r)
	pin := r.FormValue("pin")
	if !ok || pin == "" {
		h.renderLoginError(w, r, "Shirt number and PIN are required.")
		return
	}

	result, err := h.authService.VerifyLogin(r.Context(), shirt, pin)
	if err != nil {
		h.renderLoginError(w, r, userMessage(err))
		return
	}

	if result.IsAdmin {
		middleware.SetAdminCookie(w, result.AdminSession, h.secureCookies)
		webmw.SetFlash(w, "success", "Welcome, coach!")
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	if result.NeedsPINChange {
		render(w, r, pages.ChangePIN(pages.ChangePINData{
			PageData:    pageData(r, "Choose your PIN"),
			ShirtNumber: int(shirt),
			PlayerName:  result.UserName(),
			OldPIN:      pin,
		}))
		return
	}

	if result.Player.HasVoted {
		webmw.SetFlash(w, "info", "You have already voted this round.")
		http.Redirect(w, r, "/success", http.StatusSeeOther)
		return
	}

	h.renderBallot(w, r, result.Player, pin, nil, "")
}

// ChangePIN handles the forced PIN change and continues to the ballot
func (h *PlayerHandler) ChangePIN(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "Invalid form data")
		return
	}
	shirt, ok := formShirt(r)
	if !ok {
		h.renderLoginError(w, r, "Shirt number and PIN are required.")
		return
	}
	oldPIN := r.FormValue("old_pin")
	newPIN := r.FormValue("new_pin")

	player, err := h.authService.Authenticate(r.Context(), shirt, oldPIN)
	if err != nil {
		h.renderLoginError(w, r, userMessage(err))
		return
	}

	retry := func(msg string) {
		render(w, r, pages.ChangePIN(pages.ChangePINData{
			PageData:    pageData(r, "Choose your PIN"),
			ShirtNumber: int(shirt),
			PlayerName:  player.Name,
			OldPIN:      oldPIN,
			Error:       msg,
		}))
	}
	if newPIN != r.FormValue("confirm_pin") {
		retry("The PINs do not match.")
		return
	}
	if err := h.authService.UpdatePIN(r.Context(), shirt, oldPIN, newPIN); err != nil {
		retry(userMessage(err))
		return
	}

	if player.HasVoted {
		webmw.SetFlash(w, "success", "PIN saved.")
		http.Redirect(w, r, "/success", http.StatusSeeOther)
		return
	}
	h.renderBallot(w, r, player, newPIN, nil, "")
}

// Vote handles the ballot form
func (h *PlayerHandler) Vote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "Invalid form data")
		return
	}
	shirt, ok := formShirt(r)
	pin := r.FormValue("pin")
	if !ok {
		h.renderLoginError(w, r, "Shirt number and PIN are required.")
		return
	}

	ballot := model.Ballot{
		Selections: make(map[model.Category]string),
		Reason:     r.FormValue("reason"),
		Anonymous:  formBool(r, "anonymous"),
	}
	for _, spec := range h.voting.Schema().Categories {
		ballot.Selections[spec.Category] = r.FormValue("pick_" + string(spec.Category))
	}

	_, err := h.voting.CastVote(r.Context(), shirt, pin, ballot)
	switch {
	case err == nil:
		http.Redirect(w, r, "/success", http.StatusSeeOther)
	case errors.Is(err, model.ErrInvalidCredentials):
		h.renderLoginError(w, r, userMessage(err))
	case errors.Is(err, model.ErrAlreadyVoted):
		webmw.SetFlash(w, "info", userMessage(err))
		http.Redirect(w, r, "/success", http.StatusSeeOther)
	default:
		player, perr := h.authService.Authenticate(r.Context(), shirt, pin)
		if perr != nil {
			h.renderLoginError(w, r, userMessage(perr))
			return
		}
		h.renderBallot(w, r, player, pin, &ballot, userMessage(err))
	}
}

// Success confirms the vote
func (h *PlayerHandler) Success(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.Success(pageData(r, "Thank you")))
}

// Logout clears the coach session
func (h *PlayerHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearAdminCookie(w, h.secureCookies)
	webmw.SetFlash(w, "info", "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PlayerHandler) renderBallot(w http.ResponseWriter, r *http.Request, player *model.Player, pin string, ballot *model.Ballot, errMsg string) {
	candidates, err := h.roster.CandidateNames(r.Context(), player.ShirtNumber)
	if err != nil {
		h.renderLoginError(w, r, userMessage(err))
		return
	}
	data := pages.VoteData{
		PageData:    pageData(r, "Vote"),
		ShirtNumber: int(player.ShirtNumber),
		PlayerName:  player.Name,
		PIN:         pin,
		Schema:      h.voting.Schema(),
		Candidates:  candidates,
		Error:       errMsg,
	}
	if ballot != nil {
		data.Selected = ballot.Selections
		data.Reason = ballot.Reason
		data.Anonymous = ballot.Anonymous
	}
	render(w, r, pages.Vote(data))
}

func (h *PlayerHandler) renderLoginError(w http.ResponseWriter, r *http.Request, msg string) {
	data := pages.LoginData{
		PageData: pageData(r, "Login"),
		Error:    msg,
	}
	if shirt, ok := formShirt(r); ok {
		data.ShirtNumber = shirtString(shirt)
	}
	render(w, r, pages.Login(data))
}
