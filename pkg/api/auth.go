package api

import (
	"context"
	"net/http"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	if username == "" || password == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "username and password are required")
	}
	var s Session
	if err := c.send(ctx, http.MethodPost, "/auth/login", Credentials{Username: username, Password: password}, &s); err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, errors.New(errors.ErrCodeAPI, "login response did not include a token")
	}
	return &s, nil
}

// Register creates a principal and returns its first session.
func (c *Client) Register(ctx context.Context, r Registration) (*Session, error) {
	if r.Username == "" || r.Password == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "username and password are required")
	}
	var s Session
	if err := c.send(ctx, http.MethodPost, "/auth/register", r, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Me returns the principal that owns the current token.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.get(ctx, "/auth/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}
