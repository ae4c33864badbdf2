// Package session keeps the signed-in state between requests. The API bearer
// token and the user's identity ride in an HttpOnly cookie as a signed JWT;
// nothing is stored server-side and no refresh is attempted. When the token
// expires the user signs in again.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/models"
)

// CookieName is the auth cookie. Kept apart from the flash cookie so
// clearing one never touches the other.
const CookieName = "notes_session"

// ErrNoSession means the request carries no usable session: the cookie is
// absent, expired, or fails signature verification.
var ErrNoSession = errors.New("no session")

// State is what the cookie carries. Token is the remote API bearer token;
// the identity fields are a convenience snapshot taken at sign-in, not a
// substitute for asking the API (see auth.CurrentUser).
type State struct {
	Token  string
	UserID string
	Email  string
	Name   string
}

type sessionClaims struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Issue writes a fresh session cookie for a user who just verified an OTP.
func (m *Manager) Issue(w http.ResponseWriter, token string, user models.User) error {
	now := time.Now()
	claims := &sessionClaims{
		Token: token,
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  now.Add(m.ttl),
	})
	return nil
}

// Read parses the session cookie. It proves only that this frontend issued
// the cookie and it has not expired; whether the bearer token inside is still
// accepted by the API is a separate question.
func (m *Manager) Read(r *http.Request) (*State, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}

	return &State{
		Token:  claims.Token,
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
