// Package session stores platform credentials between CLI invocations.
//
// A session holds the bearer token returned by /auth/login together with the
// principal it belongs to and the API endpoint that issued it. Sessions
// expire after their TTL; expired sessions read as absent.
//
// # Usage
//
//	store, err := session.NewCLIStore("", apiURL)
//	if err != nil {
//	    return err
//	}
//
//	sess, err := session.New(resp.Token, apiURL, resp.User, session.CLITTL)
//	if err != nil {
//	    return err
//	}
//	store.SaveSession(ctx, sess)
//
//	// Use the stored token for API calls
//	client, err := api.New(apiURL, api.WithTokenSource(store))
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/api"
)

// Session stores an authenticated principal's token.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	APIURL    string    `json:"api_url"`
	User      *api.User `json:"user,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Principal returns the display name of the session's user, or "unknown".
func (s *Session) Principal() string {
	if s == nil || s.User == nil {
		return "unknown"
	}
	return s.User.Name()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// CLITTL is how long a CLI login lasts.
const CLITTL = 30 * 24 * time.Hour

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// New creates a new session for token issued by apiURL.
func New(token, apiURL string, user *api.User, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        id,
		Token:     token,
		APIURL:    apiURL,
		User:      user,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}
