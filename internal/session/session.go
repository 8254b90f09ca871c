// Package session persists the signed-in user and last active tab between
// runs, so the app reopens where it was left.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Context is the per-machine session state. It is loaded once at startup and
// saved explicitly at shutdown and after login/logout; nothing else touches
// the file.
type Context struct {
	UserName  string `json:"userName"`
	ActiveTab string `json:"activeTab"`
}

// SignedIn reports whether a user is attached to the context.
func (c Context) SignedIn() bool {
	return c.UserName != ""
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(configDir, "flowtrack", "session.json"), nil
}

// Load reads the context at path. A missing file is not an error: it returns
// a zero context, meaning nobody is signed in.
func Load(path string) (Context, error) {
	var c Context
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("read session: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		// A corrupt session file should not block startup.
		return Context{}, nil
	}
	return c, nil
}

// Save writes the context to path, creating parent directories as needed.
func Save(path string, c Context) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
