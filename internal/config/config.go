// Package config loads process configuration from an optional yaml file with
// environment variables taking precedence.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by Storage.Backend.
const (
	BackendBolt     = "bolt"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRemote   = "remote"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Remote  RemoteConfig  `yaml:"remote"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	Backend     string `yaml:"backend"` // bolt | memory | postgres | remote
	BoltPath    string `yaml:"bolt_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// RemoteConfig points at the hosted teams API for the remote backend.
type RemoteConfig struct {
	BaseURL string `yaml:"base_url"`
	GroupID string `yaml:"group_id"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Load reads the yaml file at path when it exists, then applies environment
// overrides and defaults. An absent file is not an error; an unreadable or
// malformed one is.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.Server.Port = getEnv("PORT", defaultStr(cfg.Server.Port, "8080"))
	cfg.Storage.Backend = getEnv("STORAGE_BACKEND", defaultStr(cfg.Storage.Backend, BackendBolt))
	cfg.Storage.BoltPath = getEnv("BOLT_PATH", defaultStr(cfg.Storage.BoltPath, "./roster.db"))
	cfg.Storage.PostgresDSN = getEnv("POSTGRES_DSN", cfg.Storage.PostgresDSN)
	cfg.Remote.BaseURL = getEnv("REMOTE_BASE_URL", cfg.Remote.BaseURL)
	cfg.Remote.GroupID = getEnv("REMOTE_GROUP_ID", defaultStr(cfg.Remote.GroupID, "1"))
	cfg.Log.Level = getEnv("LOG_LEVEL", defaultStr(cfg.Log.Level, "info"))
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		cfg.Log.Pretty = v == "true" || v == "1"
	}

	return &cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendBolt:
		if c.Storage.BoltPath == "" {
			return fmt.Errorf("storage.bolt_path is required for the bolt backend")
		}
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres backend")
		}
	case BackendRemote:
		if c.Remote.BaseURL == "" {
			return fmt.Errorf("remote.base_url is required for the remote backend")
		}
		if c.Remote.GroupID == "" {
			return fmt.Errorf("remote.group_id is required for the remote backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultStr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
