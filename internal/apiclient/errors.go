package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrUnauthorized covers every 401 from the API: missing, expired or
	// revoked bearer tokens, and bad OTP codes. Handlers treat it as
	// "send the user back to sign-in".
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound covers 404s, typically a note id that does not exist or
	// belongs to another user.
	ErrNotFound = errors.New("not found")
)

// APIError is a non-2xx response from the notes API. Message carries the
// API's own error text, which the UI shows verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notes api: %d: %s", e.Status, e.Message)
}

// Unwrap maps the status onto the sentinel errors so callers can branch with
// errors.Is without looking at status codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
