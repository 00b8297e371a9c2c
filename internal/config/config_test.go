// ABOUTME: Tests for lift configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, backend selection, and path expansion.
package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harperreed/lift/internal/kv"
	"github.com/harperreed/lift/internal/storage"
)

// isolate points config and env lookups at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	for _, key := range []string{"LIFT_BACKEND", "LIFT_DATA_DIR", "LIFT_REDIS_ADDR", "LIFT_REDIS_PASSWORD", "LIFT_CHARM_HOST", "LIFT_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	return tmpDir
}

func TestGetBackend(t *testing.T) {
	tests := []struct {
		backend string
		want    string
	}{
		{"", BackendSQLite},
		{"charm", BackendCharm},
		{"Redis", BackendRedis},
		{"memory", BackendMemory},
	}
	for _, tt := range tests {
		cfg := &Config{Backend: tt.backend}
		if got := cfg.GetBackend(); got != tt.want {
			t.Errorf("GetBackend(%q) = %q, want %q", tt.backend, got, tt.want)
		}
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetDataDir(); got != storage.DataDir() {
		t.Errorf("GetDataDir() = %q, want %q", got, storage.DataDir())
	}
	if got := cfg.GetRedisAddr(); got != "localhost:6379" {
		t.Errorf("GetRedisAddr() = %q", got)
	}
	if got := cfg.GetCharmHost(); got != "charm.2389.dev" {
		t.Errorf("GetCharmHost() = %q", got)
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/lift-data"}
	want := filepath.Join(home, "lift-data")
	if got := cfg.GetDataDir(); got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/lift", filepath.Join(home, "data/lift")},
		{"data/lift", "data/lift"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Backend != "" || cfg.DataDir != "" {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{Backend: "redis", RedisAddr: "cache:6379", LogLevel: "debug"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Backend != "redis" || loaded.RedisAddr != "cache:6379" || loaded.LogLevel != "debug" {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	if err := (&Config{Backend: "sqlite"}).Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "nonexistent", "lift")); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := isolate(t)

	configDir := filepath.Join(tmpDir, "lift")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	if err := (&Config{Backend: "sqlite", DataDir: "/from/file"}).Save(); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LIFT_BACKEND", "memory")
	t.Setenv("LIFT_DATA_DIR", "/from/env")
	t.Setenv("LIFT_REDIS_ADDR", "redis:6380")
	t.Setenv("LIFT_LOG_LEVEL", "info")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Backend != "memory" || cfg.DataDir != "/from/env" || cfg.RedisAddr != "redis:6380" || cfg.LogLevel != "info" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := isolate(t)

	want := filepath.Join(tmpDir, "lift", "config.json")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{DataDir: tmpDir}

	backend, err := cfg.OpenStorage(context.Background(), log.New(os.Stderr))
	if err != nil {
		t.Fatalf("OpenStorage() for sqlite failed: %v", err)
	}
	defer backend.Close()

	if _, ok := backend.(*storage.DB); !ok {
		t.Errorf("expected *storage.DB, got %T", backend)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "lift.db")); os.IsNotExist(err) {
		t.Error("Expected lift.db to be created")
	}
}

func TestOpenStorageMemory(t *testing.T) {
	cfg := &Config{Backend: "memory"}

	backend, err := cfg.OpenStorage(context.Background(), log.New(os.Stderr))
	if err != nil {
		t.Fatalf("OpenStorage() for memory failed: %v", err)
	}
	defer backend.Close()

	if _, ok := backend.(*kv.Memory); !ok {
		t.Errorf("expected *kv.Memory, got %T", backend)
	}
}

func TestOpenStorageInvalidBackend(t *testing.T) {
	cfg := &Config{Backend: "markdown"}

	if _, err := cfg.OpenStorage(context.Background(), log.New(os.Stderr)); err == nil {
		t.Error("Expected error for invalid backend")
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate should reject unknown backends")
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}
