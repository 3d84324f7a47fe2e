package gateway

import (
	"context"
	"net/http"

	"github.com/aurafashions/storefront/internal/domain"
)

// TokenResponse is the backend's answer to both login endpoints.
type TokenResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	User        domain.UserProfile `json:"user"`
}

type googleLoginRequest struct {
	Token string `json:"token"`
}

// DevLoginRequest mints a synthetic session; only honored by the backend
// when dev mode is on.
type DevLoginRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type devModeResponse struct {
	DevMode bool `json:"dev_mode"`
}

// GoogleLogin exchanges an external identity assertion for a backend
// session.
func (c *Client) GoogleLogin(ctx context.Context, assertion string) (*TokenResponse, error) {
	var resp TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/google", nil, googleLoginRequest{Token: assertion}, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DevLogin mints a session for a synthetic profile without external
// identity proof.
func (c *Client) DevLogin(ctx context.Context, req DevLoginRequest) (*TokenResponse, error) {
	var resp TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/dev-login", nil, req, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DevMode reports whether the backend advertises the developer-login
// bypass.
func (c *Client) DevMode(ctx context.Context) (bool, error) {
	var resp devModeResponse
	if err := c.do(ctx, http.MethodGet, "/auth/dev-mode", nil, nil, &resp, nil); err != nil {
		return false, err
	}
	return resp.DevMode, nil
}

// Me revalidates the current bearer token and returns the profile it
// belongs to.
func (c *Client) Me(ctx context.Context) (*domain.UserProfile, error) {
	var user domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user, nil); err != nil {
		return nil, err
	}
	return &user, nil
}
