package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults tests the zero-environment defaults.
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
	assert.Equal(t, "./roster.db", cfg.Storage.BoltPath)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

// TestLoad_EnvOverridesFile tests precedence: environment beats the yaml
// file.
func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
storage:
  backend: memory
`), 0644))

	t.Setenv("PORT", "7000")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port, "env wins")
	assert.Equal(t, BackendMemory, cfg.Storage.Backend, "file value kept when env unset")
}

// TestLoad_MissingFileIsFine tests that a nonexistent config path falls back
// to defaults.
func TestLoad_MissingFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
}

// TestValidate tests per-backend requirements.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"bolt ok", func(c *Config) {}, false},
		{"bolt without path", func(c *Config) { c.Storage.BoltPath = "" }, true},
		{"memory ok", func(c *Config) { c.Storage.Backend = BackendMemory }, false},
		{"postgres without dsn", func(c *Config) { c.Storage.Backend = BackendPostgres }, true},
		{"postgres ok", func(c *Config) {
			c.Storage.Backend = BackendPostgres
			c.Storage.PostgresDSN = "postgres://localhost/roster"
		}, false},
		{"remote without url", func(c *Config) { c.Storage.Backend = BackendRemote }, true},
		{"remote ok", func(c *Config) {
			c.Storage.Backend = BackendRemote
			c.Remote.BaseURL = "https://api.example.com/api"
		}, false},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
