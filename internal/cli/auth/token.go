package auth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Store — файловое хранилище auth-токена и последнего логина CLI.
// Файл логина лежит рядом с файлом токена.
type Store struct {
	TokenPath string
}

// NewStore создаёт хранилище по пути из конфигурации (TOKEN_FILE / --token-file).
func NewStore(tokenPath string) *Store {
	return &Store{TokenPath: tokenPath}
}

func (s *Store) ensureDir() error {
	if s.TokenPath == "" {
		return errors.New("token file path is not configured")
	}
	return os.MkdirAll(filepath.Dir(s.TokenPath), 0o700)
}

// Save writes token to the auth token file.
func (s *Store) Save(token string) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	return os.WriteFile(s.TokenPath, []byte(token), 0o600)
}

// Load reads token from the auth token file.
func (s *Store) Load() (string, error) {
	b, err := os.ReadFile(s.TokenPath)
	if err != nil {
		return "", err
	}
	token := strings.TrimRight(string(b), "\r\n\t ")
	if token == "" {
		return "", errors.New("empty token file")
	}
	return token, nil
}

// Clear удаляет токен и логин; отсутствие файлов не ошибка.
func (s *Store) Clear() error {
	for _, p := range []string{s.TokenPath, s.lastLoginPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
