package devapi

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const seedFixture = `users:
  - email: ada@example.com
    name: Ada
    notes:
      - title: Reading list
        content: Three books for the train
      - title: Grocery run
        content: Eggs and oat milk
  - email: grace@example.com
    notes:
      - title: Talk ideas
        content: Compilers for humans
`

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestSeed_LoadsUsersAndNotes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	path := writeSeedFile(t, seedFixture)

	users, notes, err := s.Seed(ctx, path)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if users != 2 || notes != 3 {
		t.Errorf("Seed() = %d users, %d notes, want 2 and 3", users, notes)
	}

	ada, err := s.UserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("UserByEmail() error = %v", err)
	}
	if ada.Name != "Ada" || !ada.IsVerified {
		t.Errorf("seeded user = %+v", ada)
	}

	// A missing name falls back to the email's local part.
	grace, err := s.UserByEmail(ctx, "grace@example.com")
	if err != nil {
		t.Fatalf("UserByEmail() error = %v", err)
	}
	if grace.Name != "grace" {
		t.Errorf("fallback name = %q, want grace", grace.Name)
	}

	page, err := s.ListNotes(ctx, ada.ID, NoteQuery{})
	if err != nil {
		t.Fatalf("ListNotes() error = %v", err)
	}
	if page.Total != 2 {
		t.Errorf("Ada's notes = %d, want 2", page.Total)
	}
	// Fixture order is oldest first, so the default listing reverses it.
	if got := titles(page); !equalStrings(got, []string{"Grocery run", "Reading list"}) {
		t.Errorf("ListNotes() order = %v", got)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	path := writeSeedFile(t, seedFixture)

	if _, _, err := s.Seed(ctx, path); err != nil {
		t.Fatalf("first Seed() error = %v", err)
	}

	users, notes, err := s.Seed(ctx, path)
	if err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	if users != 0 || notes != 0 {
		t.Errorf("second Seed() = %d users, %d notes, want 0 and 0", users, notes)
	}
}

func TestSeed_BadFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, _, err := s.Seed(ctx, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Seed() with a missing file should fail")
	}

	path := writeSeedFile(t, "users: [this is: not valid yaml")
	if _, _, err := s.Seed(ctx, path); err == nil {
		t.Error("Seed() with broken YAML should fail")
	}
}
