package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "combatsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadServerMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadServer(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultServer(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadServerOverrides(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
tick_interval: 250ms
seed: 42
registry_path: data/registry.yaml
database:
  enabled: true
  host: db
  port: 6543
`)
	cfg, err := LoadServer(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, "data/registry.yaml", cfg.RegistryPath)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "postgres://magecombat:magecombat@db:6543/magecombat?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, 1024, cfg.CommandQueue, "unset keys keep defaults")
}

func TestLoadServerInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "log_level: [unterminated"},
		{"log level", "log_level: verbose"},
		{"tick", "tick_interval: 0s"},
		{"queues", "command_queue: 0\nreplication_queue: -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadServer(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	assert.Equal(t, DefaultPath, Path())

	t.Setenv(EnvPath, "/etc/magecombat.yaml")
	assert.Equal(t, "/etc/magecombat.yaml", Path())
}
