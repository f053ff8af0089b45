package middleware

import (
	"net/http"
	"strings"

	"github.com/mcoot/matchawards/internal/services/auth"
)

// AdminCookieName holds the coach's session token
const AdminCookieName = "admin_session"

// DenyHandler writes the response for a request that failed the admin gate
type DenyHandler func(w http.ResponseWriter, r *http.Request, err error)

// AdminCredentials collects whatever the request offers for admin access:
// a Bearer token or session cookie, and the ?password= query parameter.
func AdminCredentials(r *http.Request) auth.AdminCredentials {
	creds := auth.AdminCredentials{Password: r.URL.Query().Get("password")}

	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		creds.SessionToken = strings.TrimPrefix(header, "Bearer ")
		return creds
	}
	if cookie, err := r.Cookie(AdminCookieName); err == nil {
		creds.SessionToken = cookie.Value
	}
	return creds
}

// RequireAdmin rejects requests the gate does not authorize
func RequireAdmin(gate *auth.Gate, deny DenyHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.Authorize(AdminCredentials(r)); err != nil {
				deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetAdminCookie stores the coach session in an http-only, site-wide cookie
func SetAdminCookie(w http.ResponseWriter, session *auth.AdminSession, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAdminCookie removes the coach session cookie
func ClearAdminCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
