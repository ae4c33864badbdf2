package devapi

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/models"
)

const (
	defaultPageSize = 9
	maxPageSize     = 100
)

// NoteQuery mirrors the list endpoint's query parameters.
type NoteQuery struct {
	Search   string
	Sort     string
	Page     int
	PageSize int
}

func (s *Store) CreateNote(ctx context.Context, userID string, n models.Note) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, user_id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, userID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt)
	return err
}

func (s *Store) NoteByID(ctx context.Context, userID, id string) (*models.Note, error) {
	n := &models.Note{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM notes WHERE id = ? AND user_id = ?`,
		id, userID).
		Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Store) UpdateNote(ctx context.Context, userID, id, title, content string) (*models.Note, error) {
	if _, err := s.NoteByID(ctx, userID, id); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Second)
	_, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		title, content, now, id, userID)
	if err != nil {
		return nil, err
	}

	return s.NoteByID(ctx, userID, id)
}

func (s *Store) DeleteNote(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListNotes filters, orders and pages a user's notes. The id tiebreaker
// keeps ordering stable when timestamps collide.
func (s *Store) ListNotes(ctx context.Context, userID string, q NoteQuery) (*models.NotePage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	where := "WHERE user_id = ?"
	args := []interface{}{userID}
	if q.Search != "" {
		where += " AND (title LIKE ? OR content LIKE ?)"
		pattern := "%" + q.Search + "%"
		args = append(args, pattern, pattern)
	}

	orderBy := "created_at DESC, id DESC"
	switch q.Sort {
	case "created_asc":
		orderBy = "created_at ASC, id ASC"
	case "title_asc":
		orderBy = "title ASC, id ASC"
	case "title_desc":
		orderBy = "title DESC, id DESC"
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes "+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	argsWithLimit := append(args, pageSize, (page-1)*pageSize)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM notes `+where+
			` ORDER BY `+orderBy+` LIMIT ? OFFSET ?`, argsWithLimit...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.NotePage{
		Notes:    notes,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
