package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/models"
)

func TestClient_Verify_SendsPayloadAndDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/verify", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req struct {
			Email string `json:"email"`
			OTP   string `json:"otp"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@example.com", req.Email)
		assert.Equal(t, "123456", req.OTP)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "tok-1",
			"user": map[string]interface{}{
				"id":         "u1",
				"email":      "ada@example.com",
				"name":       "Ada",
				"isVerified": true,
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Verify(context.Background(), "ada@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", result.Token)
	assert.Equal(t, "u1", result.User.ID)
	assert.Equal(t, "Ada", result.User.Name)
	assert.True(t, result.User.IsVerified)
}

func TestClient_Me_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"user": map[string]interface{}{"id": "u1", "email": "ada@example.com"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	user, err := c.Me(context.Background(), "tok-42")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-42", gotAuth)
	assert.Equal(t, "u1", user.ID)
}

func TestClient_Unauthorized_MatchesSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid or expired token"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Me(context.Background(), "dead")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.False(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid or expired token", apiErr.Message)
}

func TestClient_NotFound_MatchesSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Note not found"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetNote(context.Background(), "tok", "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClient_ErrorWithoutBody_FallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Me(context.Background(), "tok")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestClient_ListNotes_BuildsQuery(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(models.NotePage{Notes: []models.Note{}, Page: 2, PageSize: 9})
	}))
	defer srv.Close()

	c := New(srv.URL)
	page, err := c.ListNotes(context.Background(), "tok", ListOptions{
		Search:   "milk",
		Sort:     "title_asc",
		Page:     2,
		PageSize: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, "milk", gotQuery.Get("search"))
	assert.Equal(t, "title_asc", gotQuery.Get("sort"))
	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "9", gotQuery.Get("pageSize"))
	assert.Equal(t, 2, page.Page)
}

func TestClient_ListNotes_OmitsEmptyOptions(t *testing.T) {
	var gotRaw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRaw = r.URL.RawQuery
		json.NewEncoder(w).Encode(models.NotePage{Notes: []models.Note{}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListNotes(context.Background(), "tok", ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, gotRaw)
}

func TestClient_UpdateNote_PutsToNotePath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/notes/n1", r.URL.Path)

		var req struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"note": map[string]interface{}{"id": "n1", "title": req.Title, "content": req.Content},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	note, err := c.UpdateNote(context.Background(), "tok", "n1", "New title", "New content")
	require.NoError(t, err)
	assert.Equal(t, "New title", note.Title)
	assert.Equal(t, "New content", note.Content)
}

func TestClient_DeleteNote_AcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL)
	assert.NoError(t, c.DeleteNote(context.Background(), "tok", "n1"))
}
