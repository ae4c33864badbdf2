package devapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Server wires the store, token service and mailer behind the HTTP contract.
type Server struct {
	store  *Store
	tokens *TokenService
	mailer *Mailer
}

func NewServer(store *Store, tokens *TokenService, mailer *Mailer) *Server {
	return &Server{store: store, tokens: tokens, mailer: mailer}
}

// Router builds the endpoint surface behind CORS for the given browser
// origin. The production API is browser-facing, so the stand-in is too.
func (s *Server) Router(allowOrigin string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	r.HandleFunc("/api/auth/signup", s.handleSignup).Methods("POST")
	r.HandleFunc("/api/auth/signin", s.handleSignin).Methods("POST")
	r.HandleFunc("/api/auth/resend", s.handleResend).Methods("POST")
	r.HandleFunc("/api/auth/verify", s.handleVerify).Methods("POST")
	r.HandleFunc("/api/auth/me", s.requireBearer(s.handleMe)).Methods("GET")
	r.HandleFunc("/api/auth/signout", s.requireBearer(s.handleSignout)).Methods("POST")

	r.HandleFunc("/api/notes", s.requireBearer(s.handleListNotes)).Methods("GET")
	r.HandleFunc("/api/notes", s.requireBearer(s.handleCreateNote)).Methods("POST")
	r.HandleFunc("/api/notes/{id}", s.requireBearer(s.handleGetNote)).Methods("GET")
	r.HandleFunc("/api/notes/{id}", s.requireBearer(s.handleUpdateNote)).Methods("PUT")
	r.HandleFunc("/api/notes/{id}", s.requireBearer(s.handleDeleteNote)).Methods("DELETE")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{allowOrigin}),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	return cors(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type ctxKey int

const userIDKey ctxKey = 0

// requireBearer authenticates the Authorization header and stores the
// token's user ID in the request context.
func (s *Server) requireBearer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}

		userID, err := s.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func userFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func noteID(r *http.Request) string {
	return mux.Vars(r)["id"]
}
