package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.TrustProxy)
}

func TestLoadTrustProxyFromEnv(t *testing.T) {
	t.Setenv("SHELL_TRUST_PROXY", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.TrustProxy)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ".ds.", cfg.LoginDomainMarker)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shell.yaml")
	yaml := "port: \"9000\"\nenv: production\nlogin_local_marker: dev.local\nworker_interval: 1m\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	t.Setenv("SHELL_PORT", "9100")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "dev.local", cfg.LoginLocalMarker)
	assert.Equal(t, time.Minute, cfg.WorkerInterval)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"zero interval", func(c *Config) { c.WorkerInterval = 0 }},
		{"no login markers", func(c *Config) { c.LoginDomainMarker = ""; c.LoginLocalMarker = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoginGate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoginDomainMarker = ".corp."
	cfg.LoginLocalMarker = ""

	gate := cfg.LoginGate()
	assert.True(t, gate.ShouldShowLogin("https://api.CORP.example"))
	assert.False(t, gate.ShouldShowLogin("http://localhost:8080"))
}
