// ABOUTME: Lift configuration management with backend selection.
// ABOUTME: Handles settings, environment overrides, and the storage backend factory.

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/lift/internal/charm"
	"github.com/harperreed/lift/internal/kv"
	"github.com/harperreed/lift/internal/rediskv"
	"github.com/harperreed/lift/internal/storage"
)

// Supported storage backends.
const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Backends lists every accepted backend name.
var Backends = []string{BackendSQLite, BackendCharm, BackendRedis, BackendMemory}

// Config stores lift tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "charm",
	// "redis" or "memory".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage. SQLite puts lift.db here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/lift.
	DataDir string `json:"data_dir,omitempty"`

	RedisAddr     string `json:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty"`

	CharmHost string `json:"charm_host,omitempty"`
	// DisableAutoSync stops the charm backend from syncing after every write.
	DisableAutoSync bool `json:"disable_auto_sync,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetRedisAddr returns the Redis address, defaulting to localhost.
func (c *Config) GetRedisAddr() string {
	if c.RedisAddr == "" {
		return "localhost:6379"
	}
	return c.RedisAddr
}

// GetCharmHost returns the Charm server host.
func (c *Config) GetCharmHost() string {
	if c.CharmHost == "" {
		return charm.DefaultHost
	}
	return c.CharmHost
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate reports an unknown backend.
func (c *Config) Validate() error {
	backend := c.GetBackend()
	for _, b := range Backends {
		if b == backend {
			return nil
		}
	}
	return fmt.Errorf("unknown backend: %q (want one of %s)", c.Backend, strings.Join(Backends, ", "))
}

// OpenStorage creates the kv.Backend selected by the configuration.
func (c *Config) OpenStorage(ctx context.Context, logger *log.Logger) (kv.Backend, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.GetBackend() {
	case BackendCharm:
		return charm.Open(charm.Options{
			Host:     c.GetCharmHost(),
			AutoSync: !c.DisableAutoSync,
			Logger:   logger,
		})
	case BackendRedis:
		return rediskv.Dial(ctx, rediskv.Options{
			Addr:     c.GetRedisAddr(),
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
	case BackendMemory:
		return kv.NewMemory(), nil
	default:
		return storage.Open(filepath.Join(c.GetDataDir(), "lift.db"))
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "lift", "config.json")
}

// Load reads config from disk and applies LIFT_* environment overrides.
func Load() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(GetConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFT_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("LIFT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LIFT_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("LIFT_REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("LIFT_CHARM_HOST"); v != "" {
		cfg.CharmHost = v
	}
	if v := os.Getenv("LIFT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
