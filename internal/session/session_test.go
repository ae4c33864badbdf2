package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/models"
)

func issueCookie(t *testing.T, m *Manager, token string, user models.User) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, token, user))
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("session cookie was not set")
	return nil
}

func TestManager_IssueThenRead(t *testing.T) {
	m := NewManager("test-secret", time.Hour, false)
	cookie := issueCookie(t, m, "tok-1", models.User{ID: "u1", Email: "ada@example.com", Name: "Ada"})

	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.AddCookie(cookie)

	state, err := m.Read(r)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", state.Token)
	assert.Equal(t, "u1", state.UserID)
	assert.Equal(t, "ada@example.com", state.Email)
	assert.Equal(t, "Ada", state.Name)
}

func TestManager_Read_MissingCookie(t *testing.T) {
	m := NewManager("test-secret", time.Hour, false)
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	_, err := m.Read(r)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_Read_WrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour, false)
	cookie := issueCookie(t, issuer, "tok-1", models.User{ID: "u1"})

	reader := NewManager("secret-b", time.Hour, false)
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.AddCookie(cookie)

	_, err := reader.Read(r)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_Read_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, false)
	cookie := issueCookie(t, m, "tok-1", models.User{ID: "u1"})

	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.AddCookie(cookie)

	_, err := m.Read(r)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_Clear(t *testing.T) {
	m := NewManager("test-secret", time.Hour, false)
	rec := httptest.NewRecorder()
	m.Clear(rec)

	var cleared *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
}

func TestFlashes_AddThenPop(t *testing.T) {
	f := NewFlashes("test-secret")

	rec := httptest.NewRecorder()
	f.Add(rec, httptest.NewRequest(http.MethodPost, "/notes/new", nil), "Note created")

	// Carry the flash cookie into the next request, as the browser would
	// across the redirect.
	next := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}

	msgs := f.Pop(httptest.NewRecorder(), next)
	assert.Equal(t, []string{"Note created"}, msgs)
}

func TestFlashes_PopWithoutCookie(t *testing.T) {
	f := NewFlashes("test-secret")
	msgs := f.Pop(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Nil(t, msgs)
}
