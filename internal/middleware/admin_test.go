package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/matchawards/internal/services/auth"
)

func TestAdminCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin?password=pw", nil)
	req.AddCookie(&http.Cookie{Name: AdminCookieName, Value: "from-cookie"})
	assert.Equal(t, auth.AdminCredentials{SessionToken: "from-cookie", Password: "pw"}, AdminCredentials(req))

	req.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", AdminCredentials(req).SessionToken)
}

func TestAdminCookieAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	SetAdminCookie(rec, &auth.AdminSession{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, true)

	cookies := rec.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		c := cookies[0]
		assert.Equal(t, "tok", c.Value)
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	}

	rec = httptest.NewRecorder()
	ClearAdminCookie(rec, false)
	cookies = rec.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, -1, cookies[0].MaxAge)
	}
}
