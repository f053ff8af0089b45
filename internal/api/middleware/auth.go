package middleware

import (
	"net/http"

	"github.com/mcoot/matchawards/internal/api/apierr"
	"github.com/mcoot/matchawards/internal/middleware"
	"github.com/mcoot/matchawards/internal/services/auth"
)

// Admin rejects requests that do not pass the admin gate with a JSON 401
func Admin(gate *auth.Gate) func(http.Handler) http.Handler {
	return middleware.RequireAdmin(gate, func(w http.ResponseWriter, _ *http.Request, _ error) {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
	})
}
