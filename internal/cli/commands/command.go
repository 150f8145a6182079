package commands

import (
	"Testify/internal/cli/auth"
	"Testify/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "login".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "login <login> <password>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// helpGroups раскладывает команды по разделам справки в порядке показа.
// Команды без раздела попадают в "Other".
var helpGroups = []struct {
	title string
	names []string
}{
	{"Account", []string{"register", "login", "logout", "status"}},
	{"Spaces (owner)", []string{"spaces", "space-create", "space-edit", "space-delete", "publish"}},
	{"Public", []string{"wall", "submit"}},
}

// FormatGlobalUsage builds a help text for all commands, grouped by area.
func FormatGlobalUsage() string {
	lines := []string{
		"Testify CLI",
		"",
		"Usage:",
		"  tfcli [--base-url <host:port>] [--https] [--token-file <path>] <command> [args]",
	}
	listed := map[string]bool{}
	section := func(title string, cmds []Command) {
		if len(cmds) == 0 {
			return
		}
		lines = append(lines, "", title+":")
		for _, c := range cmds {
			lines = append(lines, fmt.Sprintf("  %-50s %s", c.Usage(), c.Description()))
			listed[c.Name()] = true
		}
	}
	for _, g := range helpGroups {
		var cmds []Command
		for _, name := range g.names {
			if c, ok := Get(name); ok {
				cmds = append(cmds, c)
			}
		}
		section(g.title, cmds)
	}
	var rest []Command
	for _, c := range List() {
		if !listed[c.Name()] {
			rest = append(rest, c)
		}
	}
	section("Other", rest)
	return strings.Join(lines, "\n") + "\n"
}

// suggest подбирает команды, похожие на опечатку: "space" -> space-create, space-edit...
func suggest(name string) []string {
	var out []string
	for _, c := range List() {
		if strings.HasPrefix(c.Name(), name) || strings.HasPrefix(name, c.Name()) {
			out = append(out, c.Name())
		}
	}
	return out
}

// endpoint склеивает адрес сервера и путь API
func endpoint(cfg *config.Config, path string) string {
	return strings.TrimRight(cfg.ServerURL, "/") + path
}

// tokenStore — хранилище токена по пути из конфигурации
func tokenStore(cfg *config.Config) *auth.Store {
	return auth.NewStore(cfg.TokenFile)
}

// loadToken читает токен; без него команды владельца бессмысленны
func loadToken(cfg *config.Config) (string, error) {
	token, err := tokenStore(cfg).Load()
	if err != nil {
		return "", errors.New("not logged in: run login or register first")
	}
	return token, nil
}
