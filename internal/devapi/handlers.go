package devapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Printf("encode response: %v", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// handleSignup starts registration. The account is not created yet; it
// appears once the emailed code verifies, so abandoning a signup leaves
// nothing behind but an expiring code.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	switch {
	case name == "":
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	case utf8.RuneCountInString(name) > 100:
		writeError(w, http.StatusBadRequest, "Name must be 100 characters or less")
		return
	case email == "" || !strings.Contains(email, "@"):
		writeError(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	if _, err := s.store.UserByEmail(r.Context(), email); err == nil {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to look up account")
		return
	}

	code, err := s.store.IssueOTP(r.Context(), email, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue code")
		return
	}
	if err := s.mailer.SendOTP(email, code); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Verification code sent to " + email,
	})
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	if _, err := s.store.UserByEmail(r.Context(), email); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "No account found for that email")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to look up account")
		return
	}

	code, err := s.store.IssueOTP(r.Context(), email, "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue code")
		return
	}
	if err := s.mailer.SendOTP(email, code); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Sign-in code sent to " + email,
	})
}

// handleResend covers both flows: existing accounts get a fresh sign-in
// code, pending signups get their signup code reissued with the name kept.
func (s *Server) handleResend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	name := ""
	if _, err := s.store.UserByEmail(r.Context(), email); err != nil {
		if !errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "Failed to look up account")
			return
		}
		pending, perr := s.store.PendingSignup(r.Context(), email)
		if perr != nil || pending == "" {
			writeError(w, http.StatusNotFound, "No account found for that email")
			return
		}
		name = pending
	}

	code, err := s.store.IssueOTP(r.Context(), email, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue code")
		return
	}
	if err := s.mailer.SendOTP(email, code); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to send email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "New code sent to " + email,
	})
}

// handleVerify exchanges email+code for a bearer token. On the signup path
// this is the moment the account is created, already verified.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	email := normalizeEmail(req.Email)
	otp := strings.TrimSpace(req.OTP)
	if email == "" || otp == "" {
		writeError(w, http.StatusBadRequest, "Email and code are required")
		return
	}

	pendingName, err := s.store.VerifyOTP(r.Context(), email, otp)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoCode):
			writeError(w, http.StatusUnauthorized, "No active code, request a new one")
		case errors.Is(err, ErrCodeExpired):
			writeError(w, http.StatusUnauthorized, "Code expired, request a new one")
		case errors.Is(err, ErrTooManyAttempts):
			writeError(w, http.StatusUnauthorized, "Too many attempts, request a new code")
		case errors.Is(err, ErrCodeMismatch):
			writeError(w, http.StatusUnauthorized, "Invalid code")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to verify code")
		}
		return
	}

	user, err := s.store.UserByEmail(r.Context(), email)
	if errors.Is(err, ErrNotFound) {
		if pendingName == "" {
			writeError(w, http.StatusNotFound, "No account found for that email")
			return
		}
		user = &models.User{
			ID:         uuid.NewString(),
			Email:      email,
			Name:       pendingName,
			IsVerified: true,
			CreatedAt:  time.Now().UTC().Truncate(time.Second),
		}
		if err := s.store.CreateUser(r.Context(), *user); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create account")
			return
		}
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up account")
		return
	}

	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.UserByID(r.Context(), userFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// The account behind the token is gone; the token is dead too.
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to look up account")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// handleSignout exists for contract fidelity. Tokens are stateless JWTs, so
// there is nothing to revoke here; clients drop the token on their side.
func (s *Server) handleSignout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func validateTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required"
	}
	if utf8.RuneCountInString(title) > 200 {
		return "Title must be 200 characters or less"
	}
	return ""
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := NoteQuery{
		Search: strings.TrimSpace(q.Get("search")),
		Sort:   q.Get("sort"),
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		query.Page = p
	}
	if ps, err := strconv.Atoi(q.Get("pageSize")); err == nil {
		query.PageSize = ps
	}

	page, err := s.store.ListNotes(r.Context(), userFromContext(r.Context()), query)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list notes")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	title := strings.TrimSpace(req.Title)
	if msg := validateTitle(title); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	now := time.Now().UTC().Truncate(time.Second)
	note := models.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateNote(r.Context(), userFromContext(r.Context()), note); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create note")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"note": note})
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {
	note, err := s.store.NoteByID(r.Context(), userFromContext(r.Context()), noteID(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Note not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch note")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	title := strings.TrimSpace(req.Title)
	if msg := validateTitle(title); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	note, err := s.store.UpdateNote(r.Context(), userFromContext(r.Context()), noteID(r), title, req.Content)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Note not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update note")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"note": note})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteNote(r.Context(), userFromContext(r.Context()), noteID(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "Note not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
