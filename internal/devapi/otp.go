package devapi

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	otpTTL         = 5 * time.Minute
	otpMaxAttempts = 3
)

var (
	// ErrNoCode means no active code exists for the email.
	ErrNoCode          = errors.New("no active code")
	ErrCodeExpired     = errors.New("code expired")
	ErrCodeMismatch    = errors.New("code mismatch")
	ErrTooManyAttempts = errors.New("too many attempts")
)

// IssueOTP mints a 6-digit code for the email and stores only its hash.
// REPLACE keeps at most one active code per address, which is how resending
// invalidates the previous code. name is set only on the signup path, where
// no account exists until the code verifies.
func (s *Store) IssueOTP(ctx context.Context, email, name string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC().Truncate(time.Second)
	_, err = s.db.ExecContext(ctx,
		`REPLACE INTO otps (email, name, code_hash, attempts, expires_at, created_at) VALUES (?, ?, ?, 0, ?, ?)`,
		email, name, string(hash), now.Add(otpTTL), now)
	if err != nil {
		return "", err
	}
	return code, nil
}

// PendingSignup returns the name attached to an email's active code, or
// ErrNoCode. A non-empty name marks a signup waiting to be verified.
func (s *Store) PendingSignup(ctx context.Context, email string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM otps WHERE email = ?`, email).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoCode
	}
	return name, err
}

// VerifyOTP checks a submitted code. Success consumes it and returns the
// pending signup name ("" for sign-in codes); after otpMaxAttempts failures
// the code is dead even if the right one arrives later.
func (s *Store) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	var (
		name     string
		hash     string
		attempts int
		expires  time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, code_hash, attempts, expires_at FROM otps WHERE email = ?`, email).
		Scan(&name, &hash, &attempts, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoCode
	}
	if err != nil {
		return "", err
	}

	if time.Now().After(expires) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM otps WHERE email = ?`, email)
		return "", ErrCodeExpired
	}
	if attempts >= otpMaxAttempts {
		return "", ErrTooManyAttempts
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		_, _ = s.db.ExecContext(ctx, `UPDATE otps SET attempts = attempts + 1 WHERE email = ?`, email)
		return "", ErrCodeMismatch
	}

	// Consumed; a code never verifies twice.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM otps WHERE email = ?`, email); err != nil {
		return "", err
	}
	return name, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
