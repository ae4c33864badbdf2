package apiclient

import (
	"context"
	"net/http"

	"github.com/TheKyban/highway-delite-notes-frontend/internal/models"
)

type messageResponse struct {
	Message string `json:"message"`
}

// VerifyResult is the API's answer to a correct OTP: the bearer token and the
// signed-in user.
type VerifyResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Signup asks the API to create a pending account and email an OTP.
func (c *Client) Signup(ctx context.Context, name, email string) (string, error) {
	req := struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}{Name: name, Email: email}

	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", "", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Signin asks the API to email an OTP to an existing account.
func (c *Client) Signin(ctx context.Context, email string) (string, error) {
	req := struct {
		Email string `json:"email"`
	}{Email: email}

	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", "", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Resend reissues the OTP for an email, invalidating the previous code.
func (c *Client) Resend(ctx context.Context, email string) (string, error) {
	req := struct {
		Email string `json:"email"`
	}{Email: email}

	var resp messageResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/resend", "", req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Verify exchanges an email+OTP pair for a bearer token. A wrong, expired or
// already-consumed code comes back as ErrUnauthorized.
func (c *Client) Verify(ctx context.Context, email, otp string) (*VerifyResult, error) {
	req := struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}{Email: email, OTP: otp}

	var resp VerifyResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the user behind a bearer token. This is the authoritative
// session check; the cookie alone is never trusted for fresh user data.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var resp struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Signout invalidates the bearer token server-side.
func (c *Client) Signout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/signout", token, nil, nil)
}
