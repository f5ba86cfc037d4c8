package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	sessionFile = "session.json"
)

// SessionState identifies this installation to the assistant service. The
// service keys conversation lists by session id, so the id must be stable
// across runs.
type SessionState struct {
	// SessionID is a UUID generated on first use.
	SessionID string `json:"session_id"`

	// CreatedAt records when the session was first established.
	CreatedAt time.Time `json:"created_at"`
}

// LoadOrCreateSession returns the persisted session state, generating and
// persisting a fresh one if none exists yet.
// If overrideDir is non-empty, it is used instead of the default ~/.foreman/ location.
func (m *Manager) LoadOrCreateSession(overrideDir string) (*SessionState, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, sessionFile)
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading session state: %w", err)
	}

	if err == nil {
		state := &SessionState{}
		if err := json.Unmarshal(data, state); err != nil {
			return nil, fmt.Errorf("parsing session state: %w", err)
		}
		if state.SessionID != "" {
			return state, nil
		}
		// Empty id means a corrupt or hand-edited file; regenerate.
	}

	state := &SessionState{
		SessionID: uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	if err := m.saveSession(state, dir); err != nil {
		return nil, err
	}

	return state, nil
}

// ClearSession removes the session state file. The next chat session will
// establish a new identity with an empty conversation list.
// Returns nil if the file doesn't exist (already cleared).
func (m *Manager) ClearSession(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, sessionFile)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing session state: %w", err)
	}

	return nil
}

func (m *Manager) saveSession(state *SessionState, dir string) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}

	path := filepath.Join(dir, sessionFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}

	return nil
}
