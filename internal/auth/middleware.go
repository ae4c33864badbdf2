// Package auth implements the gating between guest and signed-in pages.
//
// Three layers cooperate, in the order a request meets them:
//
//  1. Route middleware (RequireSession / RedirectAuthenticated) does a purely
//     local check: the session cookie parses and is unexpired. It never
//     calls the API, so it can sit on every route cheaply.
//  2. CurrentUser verifies the session against the API (GET /api/auth/me)
//     and returns fresh user data, clearing the cookie when the API says the
//     bearer token is dead.
//  3. Handlers redirect to sign-in whenever any API call fails with
//     apiclient.ErrUnauthorized mid-flow.
//
// All three derive their destinations from LoginPath and DashboardPath so
// they cannot disagree about where a user belongs.
package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/apiclient"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/models"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/session"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

type ctxKey int

const sessionKey ctxKey = 0

// Guard holds the pieces the gating layers share.
type Guard struct {
	sessions *session.Manager
	api      *apiclient.Client
}

func NewGuard(sessions *session.Manager, api *apiclient.Client) *Guard {
	return &Guard{sessions: sessions, api: api}
}

// RequireSession protects signed-in routes. Guests are redirected to sign-in
// with the original path preserved in ?next= so verification can land them
// back where they were headed.
func (g *Guard) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, err := g.sessions.Read(r)
		if err != nil {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, state)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RedirectAuthenticated keeps signed-in users off guest pages (sign-in,
// sign-up, verify); they land on the dashboard instead.
func (g *Guard) RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.sessions.Read(r); err == nil {
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FromContext returns the session state placed by RequireSession, or nil on
// routes outside the guarded subrouter.
func FromContext(ctx context.Context) *session.State {
	state, _ := ctx.Value(sessionKey).(*session.State)
	return state
}

// CurrentUser is the authoritative check: it asks the API who the bearer
// token belongs to. When the API answers 401 the cookie is cleared so the
// stale session cannot keep bouncing between layers.
func (g *Guard) CurrentUser(w http.ResponseWriter, r *http.Request) (*models.User, error) {
	state := FromContext(r.Context())
	if state == nil {
		return nil, session.ErrNoSession
	}

	user, err := g.api.Me(r.Context(), state.Token)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			g.sessions.Clear(w)
		}
		return nil, err
	}
	return user, nil
}

// LoginURL builds the sign-in path, carrying next only when it is worth
// returning to.
func LoginURL(next string) string {
	if next == "" || next == DashboardPath || next == "/" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext filters a ?next= value down to a local path, discarding anything
// that could redirect off-site.
func SafeNext(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return DashboardPath
	}
	return raw
}
