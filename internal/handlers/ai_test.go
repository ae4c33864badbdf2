package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/auth"
)

// postJSON sends an editor-style request: JSON body, CSRF token in the header.
func (a *testApp) postJSON(path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-CSRF-Token", "test-csrf")
	r.AddCookie(&http.Cookie{Name: auth.CSRFCookie, Value: "test-csrf"})
	for _, c := range cookies {
		r.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, r)
	return rec
}

func TestAssist_UnconfiguredReturns503(t *testing.T) {
	app := newTestApp(t, http.NewServeMux())
	cookie := app.signIn(t)

	rec := app.postJSON("/ai/assist", `{"action":"enhance","text":"hello"}`, cookie)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"AI assist is not configured"}`, rec.Body.String())
}

func TestAssist_RejectsEmptyText(t *testing.T) {
	app := newTestApp(t, http.NewServeMux())
	app.cfg.OpenAIKey = "sk-test"
	cookie := app.signIn(t)

	rec := app.postJSON("/ai/assist", `{"action":"enhance","text":"   "}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Text is required"}`, rec.Body.String())
}

func TestAssist_RejectsUnknownAction(t *testing.T) {
	app := newTestApp(t, http.NewServeMux())
	app.cfg.OpenAIKey = "sk-test"
	cookie := app.signIn(t)

	rec := app.postJSON("/ai/assist", `{"action":"translate","text":"hello"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid action"}`, rec.Body.String())
}

func TestAssist_RejectsBadJSON(t *testing.T) {
	app := newTestApp(t, http.NewServeMux())
	app.cfg.OpenAIKey = "sk-test"
	cookie := app.signIn(t)

	rec := app.postJSON("/ai/assist", `{broken`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request"}`, rec.Body.String())
}

func TestAssist_RequiresSession(t *testing.T) {
	app := newTestApp(t, http.NewServeMux())

	rec := app.postJSON("/ai/assist", `{"action":"enhance","text":"hello"}`)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fai%2Fassist", rec.Header().Get("Location"))
}
