// Package devapi is a self-contained implementation of the notes API
// contract, used to run and test the frontend without the real service. It
// keeps users, notes and one-time codes in a local database and speaks the
// same JSON the production API does. It is a development stand-in, not the
// backend.
package devapi

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound covers rows that do not exist, including notes that belong to
// a different user.
var ErrNotFound = errors.New("not found")

// Store is the emulator's database. Timestamps are stored in UTC truncated
// to seconds so both backends round-trip them identically.
type Store struct {
	db *sql.DB
}

// Open connects according to the DSN scheme: "sqlite:notes.db" or
// "mysql:user:pass@tcp(host:3306)/notes". Both backends share the same
// schema and `?` placeholders.
func Open(dsn string) (*Store, error) {
	scheme, source, ok := strings.Cut(dsn, ":")
	if !ok {
		return nil, fmt.Errorf("dsn %q: want scheme:source, e.g. sqlite:devapi.db", dsn)
	}

	var db *sql.DB
	var err error
	switch scheme {
	case "sqlite":
		db, err = sql.Open("sqlite3", source)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite allows one writer at a time; more connections would just
		// trade queueing for SQLITE_BUSY errors.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	case "mysql":
		if !strings.Contains(source, "parseTime") {
			sep := "?"
			if strings.Contains(source, "?") {
				sep = "&"
			}
			source += sep + "parseTime=true"
		}
		db, err = sql.Open("mysql", source)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
	default:
		return nil, fmt.Errorf("dsn scheme %q: want sqlite or mysql", scheme)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect: %w", err)
	}

	if scheme == "sqlite" {
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// The column types are the portable subset both backends accept. Timestamps
// are inserted explicitly, never defaulted, so the dialects cannot drift.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(100) NOT NULL,
		is_verified BOOLEAN NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL,
		title VARCHAR(200) NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS otps (
		email VARCHAR(255) PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		code_hash VARCHAR(255) NOT NULL,
		attempts INT NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL
	)`,
}

func applySchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
