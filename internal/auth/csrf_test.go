package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCSRF_MintsThenReuses(t *testing.T) {
	rec := httptest.NewRecorder()
	token := EnsureCSRF(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NotEmpty(t, token)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CSRFCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, token, cookie.Value)

	// A request that already carries the cookie gets the same token back
	// without a new Set-Cookie.
	r := httptest.NewRequest(http.MethodGet, "/login", nil)
	r.AddCookie(cookie)
	rec2 := httptest.NewRecorder()
	assert.Equal(t, token, EnsureCSRF(rec2, r))
	assert.Empty(t, rec2.Result().Cookies())
}

func postForm(path string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestCheckCSRF_FormField(t *testing.T) {
	r := postForm("/notes/new", url.Values{CSRFField: {"tok-1"}})
	r.AddCookie(&http.Cookie{Name: CSRFCookie, Value: "tok-1"})
	assert.True(t, CheckCSRF(r))
}

func TestCheckCSRF_HeaderFallback(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/ai/assist", strings.NewReader(`{"action":"enhance"}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("X-CSRF-Token", "tok-1")
	r.AddCookie(&http.Cookie{Name: CSRFCookie, Value: "tok-1"})
	assert.True(t, CheckCSRF(r))
}

func TestCheckCSRF_Mismatch(t *testing.T) {
	r := postForm("/notes/new", url.Values{CSRFField: {"tok-1"}})
	r.AddCookie(&http.Cookie{Name: CSRFCookie, Value: "tok-2"})
	assert.False(t, CheckCSRF(r))
}

func TestCheckCSRF_MissingCookie(t *testing.T) {
	r := postForm("/notes/new", url.Values{CSRFField: {"tok-1"}})
	assert.False(t, CheckCSRF(r))
}

func TestCheckCSRF_MissingField(t *testing.T) {
	r := postForm("/notes/new", url.Values{})
	r.AddCookie(&http.Cookie{Name: CSRFCookie, Value: "tok-1"})
	assert.False(t, CheckCSRF(r))
}

func TestCSRFProtect(t *testing.T) {
	h := CSRFProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Reads pass without any token.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Writes without a token are rejected.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, postForm("/notes/new", url.Values{}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Writes with a matching cookie and field go through.
	r := postForm("/notes/new", url.Values{CSRFField: {"tok-1"}})
	r.AddCookie(&http.Cookie{Name: CSRFCookie, Value: "tok-1"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
}
