package devapi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/models"
)

type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	Email string     `yaml:"email"`
	Name  string     `yaml:"name"`
	Notes []seedNote `yaml:"notes"`
}

type seedNote struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Seed loads users and notes from a YAML fixture. Emails that already exist
// are skipped, so seeding the same file twice is harmless. Seeded accounts
// are verified; they sign in through the normal OTP flow.
func (s *Store) Seed(ctx context.Context, path string) (int, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}

	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return 0, 0, fmt.Errorf("parse %s: %w", path, err)
	}

	users, notes := 0, 0
	now := time.Now().UTC().Truncate(time.Second)

	for _, su := range f.Users {
		email := normalizeEmail(su.Email)
		if email == "" {
			continue
		}

		if _, err := s.UserByEmail(ctx, email); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return users, notes, err
		}

		name := strings.TrimSpace(su.Name)
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}

		u := models.User{
			ID:         uuid.NewString(),
			Email:      email,
			Name:       name,
			IsVerified: true,
			CreatedAt:  now,
		}
		if err := s.CreateUser(ctx, u); err != nil {
			return users, notes, err
		}
		users++

		// Staggered creation times keep the default newest-first order
		// meaningful for seeded data.
		for i, sn := range su.Notes {
			created := now.Add(-time.Duration(len(su.Notes)-i) * time.Hour)
			n := models.Note{
				ID:        uuid.NewString(),
				Title:     sn.Title,
				Content:   sn.Content,
				CreatedAt: created,
				UpdatedAt: created,
			}
			if err := s.CreateNote(ctx, u.ID, n); err != nil {
				return users, notes, err
			}
			notes++
		}
	}

	return users, notes, nil
}
