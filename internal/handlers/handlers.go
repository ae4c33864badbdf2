// Package handlers serves the HTML pages. Handlers hold no business logic:
// every mutation is forwarded to the notes API and the answer decides what to
// render. Successful form posts redirect (PRG) with a flash message; failures
// re-render the same page with the fields preserved and an error banner.
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/apiclient"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/auth"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/config"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/session"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/templates"
)

type Handler struct {
	cfg      *config.Config
	api      *apiclient.Client
	sessions *session.Manager
	flashes  *session.Flashes
	guard    *auth.Guard
	pages    *templates.Registry
}

func New(cfg *config.Config, api *apiclient.Client, sessions *session.Manager, flashes *session.Flashes, guard *auth.Guard, pages *templates.Registry) *Handler {
	return &Handler{
		cfg:      cfg,
		api:      api,
		sessions: sessions,
		flashes:  flashes,
		guard:    guard,
		pages:    pages,
	}
}

// render executes a page inside the layout. The common keys (CSRFToken,
// Flashes, IsAuthenticated, UserName, CurrentYear) are filled in here; the
// cookie-writing helpers must run before the first byte of the body.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["CSRFToken"] = auth.EnsureCSRF(w, r)
	data["Flashes"] = h.flashes.Pop(w, r)
	data["CurrentYear"] = time.Now().Year()

	state := auth.FromContext(r.Context())
	if state == nil {
		if s, err := h.sessions.Read(r); err == nil {
			state = s
		}
	}
	if state != nil {
		data["IsAuthenticated"] = true
		data["UserName"] = state.Name
	}

	if err := h.pages.Render(w, page, data); err != nil {
		log.Printf("render %s: %v", page, err)
	}
}

// redirectToLogin handles a bearer token the API no longer accepts mid-flow.
// The cookie is cleared so the route middleware does not wave the dead
// session through again.
func (h *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	next := ""
	if r.Method == http.MethodGet {
		next = r.URL.RequestURI()
	}
	http.Redirect(w, r, auth.LoginURL(next), http.StatusSeeOther)
}

// errorMessage turns an API failure into copy fit for the error banner.
func errorMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "The notes service is unreachable. Please try again."
}

// Home sends everyone toward the dashboard; the session middleware turns
// guests around at the door.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, auth.DashboardPath, http.StatusSeeOther)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
