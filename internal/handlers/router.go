package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/templates"
)

// Router wires every page route behind the right gating middleware.
// Routes registered directly on the root router skip both guards.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", h.Home).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/logout", h.Logout).Methods("POST")

	// Guest pages bounce signed-in visitors back to the dashboard.
	guest := r.PathPrefix("/").Subrouter()
	guest.Use(h.guard.RedirectAuthenticated)
	guest.HandleFunc("/login", h.Login).Methods("GET", "POST")
	guest.HandleFunc("/signup", h.Signup).Methods("GET", "POST")
	guest.HandleFunc("/verify", h.Verify).Methods("GET", "POST")
	guest.HandleFunc("/verify/resend", h.Resend).Methods("POST")

	// Everything below needs a session cookie.
	app := r.PathPrefix("/").Subrouter()
	app.Use(h.guard.RequireSession)
	app.HandleFunc("/dashboard", h.Dashboard).Methods("GET")
	app.HandleFunc("/notes/new", h.NewNote).Methods("GET", "POST")
	app.HandleFunc("/notes/edit/{id}", h.EditNote).Methods("GET", "POST")
	app.HandleFunc("/notes/view/{id}", h.ViewNote).Methods("GET")
	app.HandleFunc("/notes/delete/{id}", h.DeleteNote).Methods("POST")
	app.HandleFunc("/profile", h.Profile).Methods("GET")
	app.HandleFunc("/ai/assist", h.Assist).Methods("POST")

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(templates.Static())))

	return r
}
