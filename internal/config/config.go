package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"cwms_shell/internal/login"
)

// EnvPrefix is stripped from environment overrides: SHELL_PORT -> port.
const EnvPrefix = "SHELL_"

// Config holds runtime settings for the server, worker and tools.
// The deployment (base path, routes, menu) is not part of it; that is
// chosen when the binary is built.
type Config struct {
	Env       string `koanf:"env"`
	Port      string `koanf:"port"`
	StaticDir string `koanf:"static_dir"`

	DatabaseURL string `koanf:"database_url"`
	RedisURL    string `koanf:"redis_url"`

	LoginDomainMarker string `koanf:"login_domain_marker"`
	LoginLocalMarker  string `koanf:"login_local_marker"`

	WorkerInterval time.Duration `koanf:"worker_interval"`

	// TrustProxy honours X-Forwarded-Proto and X-Forwarded-Host. Enable only
	// behind a reverse proxy that overwrites both headers.
	TrustProxy bool `koanf:"trust_proxy"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		Env:               "development",
		Port:              "8080",
		StaticDir:         "web/static",
		LoginDomainMarker: ".ds.",
		LoginLocalMarker:  "localhost",
		WorkerInterval:    5 * time.Minute,
	}
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// LoginGate returns the login visibility gate built from the markers.
func (c *Config) LoginGate() login.Gate {
	return login.Gate{DomainMarker: c.LoginDomainMarker, LocalMarker: c.LoginLocalMarker}
}

// Load builds the configuration: defaults, then .env, then the optional YAML
// file at path, then SHELL_* environment variables. The unprefixed PORT,
// DATABASE_URL, REDIS_URL and ENV variables are honoured as well.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	legacy := map[string]string{
		"PORT":         "port",
		"ENV":          "env",
		"DATABASE_URL": "database_url",
		"REDIS_URL":    "redis_url",
	}
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return legacy[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.WorkerInterval <= 0 {
		return fmt.Errorf("worker_interval must be positive")
	}
	if c.LoginDomainMarker == "" && c.LoginLocalMarker == "" {
		return fmt.Errorf("at least one of login_domain_marker, login_local_marker is required")
	}
	return nil
}
