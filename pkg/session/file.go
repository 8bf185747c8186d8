package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/cache"
	"github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors"
)

// FileStore is a file-based session store for CLI applications.
// Sessions are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based session store.
// If baseDir is empty, defaults to the sessions directory under the user
// config dir (~/.config/spatialdash/sessions/ on Linux).
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) sessionPath(sessionID string) string {
	return filepath.Join(s.baseDir, sessionID+".json")
}

func (s *FileStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.read(sessionID)
	if err != nil || sess == nil {
		return nil, err
	}
	if sess.IsExpired() {
		return nil, s.Delete(ctx, sessionID)
	}
	return sess, nil
}

// read returns the stored session, expired or not, or nil when there is none.
func (s *FileStore) read(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.sessionPath(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &sess, nil
}

func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	path := s.sessionPath(sess.ID)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.sessionPath(sessionID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *FileStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read session dir: %w", err)
	}

	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			continue
		}
		if now.After(sess.ExpiresAt) {
			os.Remove(path)
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for session files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

// DefaultDir returns the default session directory.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "spatialdash", "sessions"), nil
}

// =============================================================================
// CLI convenience wrapper
// =============================================================================

// CLIStore keeps one session per API endpoint, so logging in to a local
// development server does not replace a production login.
type CLIStore struct {
	store     *FileStore
	sessionID string
	apiURL    string
}

// NewCLIStore creates a store for the CLI's session with apiURL. An empty
// baseDir selects DefaultDir.
func NewCLIStore(baseDir, apiURL string) (*CLIStore, error) {
	store, err := NewFileStore(baseDir)
	if err != nil {
		return nil, err
	}
	return &CLIStore{store: store, sessionID: cliSessionID(apiURL), apiURL: apiURL}, nil
}

func cliSessionID(apiURL string) string {
	return "cli-" + cache.Hash([]byte(apiURL))[:16]
}

// GetSession retrieves the CLI session. It returns nil, nil when there is
// none or it has expired.
func (c *CLIStore) GetSession(ctx context.Context) (*Session, error) {
	return c.store.Get(ctx, c.sessionID)
}

// SaveSession stores the CLI session.
func (c *CLIStore) SaveSession(ctx context.Context, sess *Session) error {
	sess.ID = c.sessionID
	sess.APIURL = c.apiURL
	return c.store.Set(ctx, sess)
}

// DeleteSession removes the CLI session.
func (c *CLIStore) DeleteSession(ctx context.Context) error {
	return c.store.Delete(ctx, c.sessionID)
}

// Token implements api.TokenSource with the stored session's token. An
// expired session is removed and reported as SESSION_EXPIRED.
func (c *CLIStore) Token(ctx context.Context) (string, error) {
	sess, err := c.store.read(c.sessionID)
	if err != nil {
		return "", err
	}
	if sess == nil {
		return "", errors.New(errors.ErrCodeSessionNotFound, "not logged in to %s (run 'spatialdash login')", c.apiURL)
	}
	if sess.IsExpired() {
		if err := c.store.Delete(ctx, c.sessionID); err != nil {
			return "", err
		}
		return "", errors.New(errors.ErrCodeSessionExpired, "session for %s expired %s (run 'spatialdash login')",
			c.apiURL, sess.ExpiresAt.Format(time.DateOnly))
	}
	return sess.Token, nil
}

// Path returns the session file path.
func (c *CLIStore) Path() string {
	return c.store.sessionPath(c.sessionID)
}
