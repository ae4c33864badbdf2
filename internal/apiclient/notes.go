package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/models"
)

// ListOptions are passed straight through to GET /api/notes as query
// parameters; the API owns filtering, ordering and paging.
type ListOptions struct {
	Search   string
	Sort     string
	Page     int
	PageSize int
}

type noteResponse struct {
	Note models.Note `json:"note"`
}

type notePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (c *Client) ListNotes(ctx context.Context, token string, opts ListOptions) (*models.NotePage, error) {
	q := url.Values{}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}

	path := "/api/notes"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page models.NotePage
	if err := c.do(ctx, http.MethodGet, path, token, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateNote(ctx context.Context, token, title, content string) (*models.Note, error) {
	var resp noteResponse
	err := c.do(ctx, http.MethodPost, "/api/notes", token, notePayload{Title: title, Content: content}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Note, nil
}

func (c *Client) GetNote(ctx context.Context, token, id string) (*models.Note, error) {
	var resp noteResponse
	if err := c.do(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(id), token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Note, nil
}

func (c *Client) UpdateNote(ctx context.Context, token, id, title, content string) (*models.Note, error) {
	var resp noteResponse
	err := c.do(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(id), token, notePayload{Title: title, Content: content}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Note, nil
}

func (c *Client) DeleteNote(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(id), token, nil, nil)
}
