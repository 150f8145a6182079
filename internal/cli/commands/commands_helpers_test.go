package commands

import (
	"Testify/internal/config"
	"path/filepath"
	"testing"
)

// withTempConfig кладёт токен и последний логин во временный каталог теста
func withTempConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	return &config.Config{
		ServerURL: serverURL,
		TokenFile: filepath.Join(t.TempDir(), "token"),
	}
}
