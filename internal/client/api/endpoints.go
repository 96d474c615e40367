package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/sportconnect/internal/client/storage"
	"github.com/iudanet/sportconnect/pkg/api"
)

// API paths, relative to the base URL
const (
	PathToken    = "auth/token/"
	PathRefresh  = "auth/token/refresh/"
	PathRegister = "auth/register/"
	PathMe       = "users/me/"
)

// ObtainToken выдаёт пару токенов по логину и паролю.
// Credential endpoints are sent without a bearer and a 401 here is returned as is.
func (c *Client) ObtainToken(ctx context.Context, username, password string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	err := c.call(ctx, http.MethodPost, PathToken, api.TokenRequest{Username: username, Password: password}, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// RefreshToken обменивает refresh token на новый access token.
// It bypasses the 401 interceptor: a rejected refresh is reported, never retried.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*api.RefreshResponse, error) {
	var resp api.RefreshResponse
	err := c.call(ctx, http.MethodPost, PathRefresh, api.RefreshRequest{Refresh: refreshToken}, &resp, true)
	if err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.User, error) {
	var user api.User
	if err := c.call(ctx, http.MethodPost, PathRegister, req, &user, true); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &user, nil
}

// Me returns the profile of the authenticated user.
func (c *Client) Me(ctx context.Context) (*api.User, error) {
	var user api.User
	if err := c.Do(ctx, http.MethodGet, PathMe, nil, &user); err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return &user, nil
}

// UpdateMe partially updates the authenticated user's profile.
func (c *Client) UpdateMe(ctx context.Context, update api.ProfileUpdate) (*api.User, error) {
	var user api.User
	if err := c.Do(ctx, http.MethodPatch, PathMe, update, &user); err != nil {
		return nil, fmt.Errorf("update profile failed: %w", err)
	}
	return &user, nil
}

// DeleteMe irreversibly deletes the authenticated user's account.
func (c *Client) DeleteMe(ctx context.Context) error {
	if err := c.Do(ctx, http.MethodDelete, PathMe, nil, nil); err != nil {
		return fmt.Errorf("delete account failed: %w", err)
	}
	return nil
}

// Do performs an authenticated JSON request against path (relative to the base URL).
// body is marshalled to JSON when non-nil; a successful response is decoded into out.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.call(ctx, method, path, body, out, false)
}

func (c *Client) call(ctx context.Context, method, path string, body, out any, anonymous bool) error {
	req, err := newRequest(method, path, body)
	if err != nil {
		return err
	}
	req.anonymous = anonymous
	return c.do(ctx, req, out)
}

// refreshCredentials is the RenewFunc of the client's own Refresher.
func (c *Client) refreshCredentials(ctx context.Context, refreshToken string) (storage.Credentials, error) {
	resp, err := c.RefreshToken(ctx, refreshToken)
	if err != nil {
		return storage.Credentials{}, err
	}
	return storage.Credentials{Access: resp.Access, Refresh: resp.Refresh}, nil
}
