package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/matchawards/internal/web/templates/layout"
)

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetFlash(rec, "success", "PIN reset for #7: done")
	cookie := rec.Result().Cookies()[0]

	var got *layout.FlashMessage
	h := Flash()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = GetFlash(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, "success", got.Type)
	assert.Equal(t, "PIN reset for #7: done", got.Message)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestParseFlashWithoutType(t *testing.T) {
	assert.Equal(t, &layout.FlashMessage{Type: "info", Message: "hello"}, parseFlash("hello"))
}
