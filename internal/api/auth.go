package api

import (
	"context"
	"net/http"

	"tastebook/internal/model"
)

// Register creates an account. It does not establish a session.
func (c *Client) Register(ctx context.Context, creds model.Credentials) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodPost, "/auth/register", creds, &user)
	return user, err
}

// Login authenticates and stores the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodPost, "/auth/login", creds, &user)
	return user, err
}

// Logout invalidates the current session on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Me returns the user bound to the current session.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &user)
	return user, err
}

// Check reports whether the current session is valid.
func (c *Client) Check(ctx context.Context) (bool, error) {
	var status model.AuthStatus
	if err := c.do(ctx, http.MethodGet, "/auth/check", nil, &status); err != nil {
		return false, err
	}
	return status.Authenticated, nil
}
