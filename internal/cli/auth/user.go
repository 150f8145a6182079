package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// lastLoginPath returns the full path to the file storing last successful login name.
func (s *Store) lastLoginPath() string {
	return filepath.Join(filepath.Dir(s.TokenPath), "last_login")
}

// SaveLastLogin stores the provided login as the current user context for the CLI.
func (s *Store) SaveLastLogin(login string) error {
	if login == "" {
		return errors.New("empty login")
	}
	if err := s.ensureDir(); err != nil {
		return err
	}
	return os.WriteFile(s.lastLoginPath(), []byte(login), 0o600)
}

// LoadLastLogin returns last stored login.
func (s *Store) LoadLastLogin() (string, error) {
	b, err := os.ReadFile(s.lastLoginPath())
	if err != nil {
		return "", err
	}
	login := strings.TrimRight(string(b), "\r\n ")
	if login == "" {
		return "", errors.New("no stored login")
	}
	return login, nil
}
