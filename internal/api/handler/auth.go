package handler

import (
	"net/http"

	"github.com/mcoot/matchawards/internal/api/request"
	"github.com/mcoot/matchawards/internal/api/response"
	"github.com/mcoot/matchawards/internal/middleware"
	"github.com/mcoot/matchawards/internal/services/auth"
)

// AuthHandler handles login, logout and PIN changes
type AuthHandler struct {
	authService   *auth.Service
	secureCookies bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

// Login handles POST /api/v1/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.PIN == "" {
		WriteError(w, NewInvalidRequestError("pin is required"))
		return
	}

	result, err := h.authService.VerifyLogin(r.Context(), req.Shirt(), req.PIN)
	if err != nil {
		WriteError(w, err)
		return
	}
	if result.AdminSession != nil {
		middleware.SetAdminCookie(w, result.AdminSession, h.secureCookies)
	}

	response.JSON(w, http.StatusOK, response.LoginFromResult(result))
}

// Logout handles POST /api/v1/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	middleware.ClearAdminCookie(w, h.secureCookies)
	response.NoContent(w)
}

// ChangePIN handles POST /api/v1/pin
func (h *AuthHandler) ChangePIN(w http.ResponseWriter, r *http.Request) {
	var req request.ChangePINRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	err := h.authService.UpdatePIN(r.Context(), shirt(req.ShirtNumber), req.OldPIN, req.NewPIN)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, "pin_updated")
}
