package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/apiclient"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/auth"
	"github.com/TheKyban/highway-delite-notes-frontend/internal/models"
)

const notesPageSize = 9

var sortOptions = map[string]bool{
	"created_desc": true,
	"created_asc":  true,
	"title_asc":    true,
	"title_desc":   true,
}

// Dashboard lists the user's notes. Search, sort and paging are query
// parameters passed straight to the API; this handler only parses and
// re-renders.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	state := auth.FromContext(r.Context())
	q := r.URL.Query()

	search := strings.TrimSpace(q.Get("search"))
	sort := q.Get("sort")
	if !sortOptions[sort] {
		sort = ""
	}
	page := 1
	if p := q.Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	notes, err := h.api.ListNotes(r.Context(), state.Token, apiclient.ListOptions{
		Search:   search,
		Sort:     sort,
		Page:     page,
		PageSize: notesPageSize,
	})
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.redirectToLogin(w, r)
			return
		}
		h.render(w, r, "dashboard.html", map[string]interface{}{
			"Title":  "Dashboard",
			"Error":  errorMessage(err),
			"Page":   &models.NotePage{Page: 1, PageSize: notesPageSize},
			"Search": search,
			"Sort":   sort,
			"Query":  q,
		})
		return
	}

	h.render(w, r, "dashboard.html", map[string]interface{}{
		"Title":  "Dashboard",
		"Page":   notes,
		"Search": search,
		"Sort":   sort,
		"Query":  q,
	})
}

func (h *Handler) NewNote(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, "note_form.html", map[string]interface{}{
			"Title":      "New note",
			"FormAction": "/notes/new",
			"AIEnabled":  h.cfg.OpenAIKey != "",
		})
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := r.FormValue("content")

	if title == "" {
		h.render(w, r, "note_form.html", map[string]interface{}{
			"Title":       "New note",
			"Error":       "Title is required",
			"FormAction":  "/notes/new",
			"NoteTitle":   title,
			"NoteContent": content,
			"AIEnabled":   h.cfg.OpenAIKey != "",
		})
		return
	}

	state := auth.FromContext(r.Context())
	if _, err := h.api.CreateNote(r.Context(), state.Token, title, content); err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.redirectToLogin(w, r)
			return
		}
		h.render(w, r, "note_form.html", map[string]interface{}{
			"Title":       "New note",
			"Error":       errorMessage(err),
			"FormAction":  "/notes/new",
			"NoteTitle":   title,
			"NoteContent": content,
			"AIEnabled":   h.cfg.OpenAIKey != "",
		})
		return
	}

	h.flashes.Add(w, r, "Note created")
	http.Redirect(w, r, auth.DashboardPath, http.StatusSeeOther)
}

func (h *Handler) EditNote(w http.ResponseWriter, r *http.Request) {
	state := auth.FromContext(r.Context())
	id := mux.Vars(r)["id"]
	action := "/notes/edit/" + id

	if r.Method == http.MethodGet {
		note, err := h.api.GetNote(r.Context(), state.Token, id)
		if err != nil {
			switch {
			case errors.Is(err, apiclient.ErrUnauthorized):
				h.redirectToLogin(w, r)
			case errors.Is(err, apiclient.ErrNotFound):
				http.NotFound(w, r)
			default:
				http.Error(w, errorMessage(err), http.StatusInternalServerError)
			}
			return
		}

		h.render(w, r, "note_form.html", map[string]interface{}{
			"Title":       "Edit note",
			"IsEdit":      true,
			"FormAction":  action,
			"NoteTitle":   note.Title,
			"NoteContent": note.Content,
			"AIEnabled":   h.cfg.OpenAIKey != "",
		})
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	content := r.FormValue("content")

	if title == "" {
		h.render(w, r, "note_form.html", map[string]interface{}{
			"Title":       "Edit note",
			"Error":       "Title is required",
			"IsEdit":      true,
			"FormAction":  action,
			"NoteTitle":   title,
			"NoteContent": content,
			"AIEnabled":   h.cfg.OpenAIKey != "",
		})
		return
	}

	if _, err := h.api.UpdateNote(r.Context(), state.Token, id, title, content); err != nil {
		switch {
		case errors.Is(err, apiclient.ErrUnauthorized):
			h.redirectToLogin(w, r)
		case errors.Is(err, apiclient.ErrNotFound):
			http.NotFound(w, r)
		default:
			h.render(w, r, "note_form.html", map[string]interface{}{
				"Title":       "Edit note",
				"Error":       errorMessage(err),
				"IsEdit":      true,
				"FormAction":  action,
				"NoteTitle":   title,
				"NoteContent": content,
				"AIEnabled":   h.cfg.OpenAIKey != "",
			})
		}
		return
	}

	h.flashes.Add(w, r, "Note updated")
	http.Redirect(w, r, auth.DashboardPath, http.StatusSeeOther)
}

func (h *Handler) ViewNote(w http.ResponseWriter, r *http.Request) {
	state := auth.FromContext(r.Context())

	note, err := h.api.GetNote(r.Context(), state.Token, mux.Vars(r)["id"])
	if err != nil {
		switch {
		case errors.Is(err, apiclient.ErrUnauthorized):
			h.redirectToLogin(w, r)
		case errors.Is(err, apiclient.ErrNotFound):
			http.NotFound(w, r)
		default:
			http.Error(w, errorMessage(err), http.StatusInternalServerError)
		}
		return
	}

	h.render(w, r, "note_view.html", map[string]interface{}{
		"Title": note.Title,
		"Note":  note,
	})
}

func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	state := auth.FromContext(r.Context())

	err := h.api.DeleteNote(r.Context(), state.Token, mux.Vars(r)["id"])
	switch {
	case err == nil, errors.Is(err, apiclient.ErrNotFound):
		// A 404 means it was already gone; either way it is gone now.
	case errors.Is(err, apiclient.ErrUnauthorized):
		h.redirectToLogin(w, r)
		return
	default:
		http.Error(w, errorMessage(err), http.StatusInternalServerError)
		return
	}

	h.flashes.Add(w, r, "Note deleted")
	http.Redirect(w, r, auth.DashboardPath, http.StatusSeeOther)
}
