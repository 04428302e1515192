package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lironatar/TasksList/pkg/client"
)

const sessionFileMode = 0o600

// sessionFile is the on-disk form of a signed-in CLI session.
type sessionFile struct {
	Server  string       `yaml:"server,omitempty"`
	Token   string       `yaml:"token,omitempty"`
	User    *client.User `yaml:"user,omitempty"`
	SavedAt time.Time    `yaml:"saved_at,omitempty"`
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".tasklist", "session.yaml")
	}
	return filepath.Join(home, ".tasklist", "session.yaml")
}

// loadSession reads path. A missing file is an empty session.
func loadSession(path string) (*sessionFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &sessionFile{}, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var file sessionFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse session file %s: %w", path, err)
	}
	return &file, nil
}

// saveSession writes the session atomically, readable only by the owner.
func saveSession(path string, file *sessionFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	raw, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, sessionFileMode); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
