package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN       string        `env:"DATABASE_URI"`
	AuthSecret        string        `env:"AUTH_SECRET"`
	AppURL            string        `env:"APP_URL"`
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW"`
	CacheTTL          time.Duration `env:"CACHE_TTL" envDefault:"30s"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	origins := strings.Join(cfg.AllowedOrigins, ",")

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.StringVar(&cfg.AppURL, "app-url", cfg.AppURL, "публичный URL приложения для ссылок сборщика и стены")
	flag.StringVar(&origins, "allowed-origins", origins, "разрешённые CORS origin через запятую")
	flag.IntVar(&cfg.RateLimitRequests, "rate-limit", cfg.RateLimitRequests, "отзывов с одного IP за окно")
	flag.DurationVar(&cfg.RateLimitWindow, "rate-window", cfg.RateLimitWindow, "окно лимитера")
	flag.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "TTL кэша чтений (0 — выключен)")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.AllowedOrigins = splitOrigins(origins)
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	// BaseURL только в виде "address:port" (без схемы и пути), иначе дефолт
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}

	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	if cfg.AppURL == "" {
		cfg.AppURL = cfg.ServerURL
	}

	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = 5
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = 0
	}

	if cfg.TokenFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir, _ = os.UserHomeDir()
		}
		cfg.TokenFile = filepath.Join(dir, "testify", "token")
	}
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
