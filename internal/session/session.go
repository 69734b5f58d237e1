// Package session owns the bearer-token lifecycle on the client side.
// The token is written once at login, read by every outgoing request,
// and cleared on logout or when the backend revokes it with a 401.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hrnexus/hrnexus-cli/internal/utils"
)

// FileName is the session file inside the state directory.
const FileName = "session.json"

// Data is the persisted session state.
type Data struct {
	AccessToken    string    `json:"access_token"`
	OrganizationID string    `json:"organization_id,omitempty"`
	SavedAt        time.Time `json:"saved_at"`
}

// Store is a file-backed session store. It implements api.TokenSource.
type Store struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	data Data
}

// Open loads (or initializes) the session store at path. A missing
// file is an empty session, not an error.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(b, &s.data); err != nil {
		// A corrupt session file is recoverable: the user logs in again.
		logger.Debug("session file corrupt, starting empty", "path", path, "err", err)
		s.data = Data{}
	}
	return s, nil
}

// OpenDefault opens the store at ~/.hrnexus/session.json.
func OpenDefault(logger *slog.Logger) (*Store, error) {
	dir, err := utils.StateDir()
	if err != nil {
		return nil, err
	}
	return Open(filepath.Join(dir, FileName), logger)
}

// Token returns the current access token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.AccessToken
}

// OrganizationID returns the organization identifier decoded from the
// token at login time, or "" when none was present.
func (s *Store) OrganizationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.OrganizationID
}

// LoggedIn reports whether a token is present. Presence is all the
// client checks; actual validity is the backend's call, surfaced
// reactively through 401 handling.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// SaveToken persists a freshly issued token, extracting the
// organization identifier from its payload on a best-effort basis.
func (s *Store) SaveToken(accessToken string) error {
	orgID := decodeOrganizationID(accessToken, s.logger)
	s.mu.Lock()
	s.data = Data{AccessToken: accessToken, OrganizationID: orgID, SavedAt: time.Now().UTC()}
	s.mu.Unlock()
	return s.flush()
}

// Clear wipes the session, both in memory and on disk. Called on
// logout and by the client's unauthorized hook.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.data = Data{}
	s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *Store) flush() error {
	s.mu.Lock()
	b, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := utils.WriteFileAtomic(s.path, b); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// decodeOrganizationID parses the JWT without verifying its signature
// (the backend is the verifier; the client only wants one claim). Any
// decode failure skips the organization id rather than failing login.
func decodeOrganizationID(accessToken string, logger *slog.Logger) string {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		logger.Debug("token decode failed, skipping organization id", "err", err)
		return ""
	}
	switch v := claims["organization_id"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return ""
	}
}
