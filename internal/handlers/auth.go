package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/apiclient"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/auth"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/models"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/session"
)

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// verifyURL builds the OTP page address for an email, carrying ?next= when
// there is somewhere to return to.
func verifyURL(email, next string) string {
	q := url.Values{}
	q.Set("email", email)
	if next != "" {
		q.Set("next", next)
	}
	return "/verify?" + q.Encode()
}

// Login asks the API to email a one-time code to an existing account, then
// hands off to the verify page.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, "login.html", map[string]interface{}{
			"Title": "Sign in",
			"Next":  r.URL.Query().Get("next"),
		})
		return
	}

	email := normalizeEmail(r.FormValue("email"))
	next := r.FormValue("next")

	if email == "" || !strings.Contains(email, "@") {
		h.render(w, r, "login.html", map[string]interface{}{
			"Title": "Sign in",
			"Error": "Enter a valid email address",
			"Email": email,
			"Next":  next,
		})
		return
	}

	if _, err := h.api.Signin(r.Context(), email); err != nil {
		msg := errorMessage(err)
		if errors.Is(err, apiclient.ErrNotFound) {
			msg = "No account found for that email. Sign up to create one."
		}
		h.render(w, r, "login.html", map[string]interface{}{
			"Title": "Sign in",
			"Error": msg,
			"Email": email,
			"Next":  next,
		})
		return
	}

	http.Redirect(w, r, verifyURL(email, next), http.StatusSeeOther)
}

// Signup creates a pending account; the account becomes real once the emailed
// code is verified.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, "signup.html", map[string]interface{}{"Title": "Sign up"})
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := normalizeEmail(r.FormValue("email"))

	if name == "" || email == "" || !strings.Contains(email, "@") {
		h.render(w, r, "signup.html", map[string]interface{}{
			"Title": "Sign up",
			"Error": "Name and a valid email address are required",
			"Name":  name,
			"Email": email,
		})
		return
	}

	msg, err := h.api.Signup(r.Context(), name, email)
	if err != nil {
		h.render(w, r, "signup.html", map[string]interface{}{
			"Title": "Sign up",
			"Error": errorMessage(err),
			"Name":  name,
			"Email": email,
		})
		return
	}

	h.flashes.Add(w, r, msg)
	http.Redirect(w, r, verifyURL(email, ""), http.StatusSeeOther)
}

// Verify exchanges the emailed code for a session. On success the bearer
// token moves into the session cookie and the user lands on ?next= or the
// dashboard.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		email := normalizeEmail(r.URL.Query().Get("email"))
		if email == "" {
			http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
			return
		}
		h.render(w, r, "verify.html", map[string]interface{}{
			"Title": "Verify your email",
			"Email": email,
			"Next":  r.URL.Query().Get("next"),
		})
		return
	}

	email := normalizeEmail(r.FormValue("email"))
	otp := strings.TrimSpace(r.FormValue("otp"))
	next := r.FormValue("next")

	if email == "" {
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}
	if len(otp) != 6 {
		h.render(w, r, "verify.html", map[string]interface{}{
			"Title": "Verify your email",
			"Error": "Enter the 6-digit code from your email",
			"Email": email,
			"Next":  next,
		})
		return
	}

	result, err := h.api.Verify(r.Context(), email, otp)
	if err != nil {
		h.render(w, r, "verify.html", map[string]interface{}{
			"Title": "Verify your email",
			"Error": errorMessage(err),
			"Email": email,
			"Next":  next,
		})
		return
	}

	if err := h.sessions.Issue(w, result.Token, result.User); err != nil {
		log.Printf("issue session: %v", err)
		h.render(w, r, "verify.html", map[string]interface{}{
			"Title": "Verify your email",
			"Error": "Could not start a session. Please try again.",
			"Email": email,
			"Next":  next,
		})
		return
	}

	h.flashes.Add(w, r, "Signed in as "+result.User.Email)
	http.Redirect(w, r, auth.SafeNext(next), http.StatusSeeOther)
}

// Resend reissues the code, invalidating the previous one.
func (h *Handler) Resend(w http.ResponseWriter, r *http.Request) {
	email := normalizeEmail(r.FormValue("email"))
	next := r.FormValue("next")

	if email == "" {
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}

	msg, err := h.api.Resend(r.Context(), email)
	if err != nil {
		h.render(w, r, "verify.html", map[string]interface{}{
			"Title": "Verify your email",
			"Error": errorMessage(err),
			"Email": email,
			"Next":  next,
		})
		return
	}

	h.flashes.Add(w, r, msg)
	http.Redirect(w, r, verifyURL(email, next), http.StatusSeeOther)
}

// Logout revokes the bearer token remotely, best effort, and always ends the
// local session. A failed remote signout must not trap the user.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if state, err := h.sessions.Read(r); err == nil {
		if err := h.api.Signout(r.Context(), state.Token); err != nil {
			log.Printf("remote signout: %v", err)
		}
	}

	h.sessions.Clear(w)
	h.flashes.Add(w, r, "Signed out")
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}

// Profile shows the account as the API sees it right now. This is the page
// that always re-verifies the session remotely rather than trusting the
// cookie snapshot.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.guard.CurrentUser(w, r)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, session.ErrNoSession) {
			http.Redirect(w, r, auth.LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		// API unreachable: fall back to the signed cookie snapshot so the
		// page still renders something truthful.
		state := auth.FromContext(r.Context())
		h.render(w, r, "profile.html", map[string]interface{}{
			"Title": "Profile",
			"Error": errorMessage(err),
			"User":  models.User{ID: state.UserID, Email: state.Email, Name: state.Name},
		})
		return
	}

	h.render(w, r, "profile.html", map[string]interface{}{
		"Title": "Profile",
		"User":  *user,
	})
}
