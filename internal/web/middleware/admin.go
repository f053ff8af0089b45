package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mcoot/matchawards/internal/middleware"
	"github.com/mcoot/matchawards/internal/services/auth"
)

type adminKey struct{}

// Admin sends visitors who fail the admin gate back to the login page
func Admin(gate *auth.Gate) func(http.Handler) http.Handler {
	deny := middleware.RequireAdmin(gate, func(w http.ResponseWriter, r *http.Request, _ error) {
		SetFlash(w, "error", "Please log in as coach")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	return func(next http.Handler) http.Handler {
		return deny(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey{}, true)))
		}))
	}
}

// DetectAdmin marks requests that would pass the gate, without rejecting any.
// Public pages use it to show the coach navigation.
func DetectAdmin(gate *auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate.Authorize(middleware.AdminCredentials(r)) == nil {
				r = r.WithContext(context.WithValue(r.Context(), adminKey{}, true))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsAdmin reports whether the request passed the admin gate
func IsAdmin(ctx context.Context) bool {
	ok, _ := ctx.Value(adminKey{}).(bool)
	return ok
}

// AuthQuery is the query string admin links must carry in query-param mode
func AuthQuery(gate *auth.Gate, r *http.Request) string {
	if gate.Mode() != auth.GateQueryParam {
		return ""
	}
	return "?" + url.Values{"password": {r.URL.Query().Get("password")}}.Encode()
}
