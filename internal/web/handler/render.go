package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/matchawards/internal/model"
	"github.com/mcoot/matchawards/internal/web/middleware"
	"github.com/mcoot/matchawards/internal/web/templates/layout"
)

// render writes a page as HTML
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// pageData fills the shell data every page shares
func pageData(r *http.Request, title string) layout.PageData {
	return layout.PageData{
		Title:   title,
		Flash:   middleware.GetFlash(r.Context()),
		IsAdmin: middleware.IsAdmin(r.Context()),
	}
}

// userMessage turns a service error into text for the form
func userMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		return "Shirt number or PIN is wrong."
	case errors.Is(err, model.ErrAlreadyVoted):
		return "You have already voted this round."
	case errors.Is(err, model.ErrIncompleteBallot):
		return "Please fill in every field of the ballot."
	case errors.Is(err, model.ErrTargetNotFound):
		return "That teammate is not on the roster."
	case errors.Is(err, model.ErrSelfVote):
		return "You cannot vote for yourself."
	case errors.Is(err, model.ErrWeakPIN):
		return "The new PIN needs at least 4 digits."
	case errors.Is(err, model.ErrPlayerNotFound):
		return "Player not found."
	case errors.Is(err, model.ErrEmptyMessage):
		return "Please write a message."
	case errors.Is(err, model.ErrPersistence):
		return "Could not save right now. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

// formShirt parses the shirt_number form field
func formShirt(r *http.Request) (model.ShirtNumber, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue("shirt_number")))
	if err != nil || n < 0 {
		return model.NoShirt, false
	}
	return model.ShirtNumber(n), true
}

func formBool(r *http.Request, field string) bool {
	v := r.FormValue(field)
	return v == "1" || v == "on" || v == "true"
}

func shirtString(s model.ShirtNumber) string {
	return strconv.Itoa(int(s))
}
