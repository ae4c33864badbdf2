package models

import "time"

// Note mirrors a note object from the notes API.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NotePage is one page of a user's notes as returned by GET /api/notes.
type NotePage struct {
	Notes    []Note `json:"notes"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// TotalPages returns the number of pages needed for Total notes.
func (p NotePage) TotalPages() int {
	if p.PageSize <= 0 {
		return 1
	}
	n := (p.Total + p.PageSize - 1) / p.PageSize
	if n < 1 {
		n = 1
	}
	return n
}
