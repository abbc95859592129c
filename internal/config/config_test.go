package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `[review]
deck = "Animaux"
shuffle = false
match = "lenient"
advance-delay-ms = 300

[stats]
curve-window = 5

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Review.Deck == nil || *cfg.Review.Deck != "Animaux" {
		t.Fatalf("unexpected deck: %v", cfg.Review.Deck)
	}
	if cfg.Review.Shuffle == nil || *cfg.Review.Shuffle {
		t.Fatalf("expected shuffle=false")
	}
	if cfg.Review.User != nil {
		t.Fatalf("expected unset user to stay nil")
	}
	if cfg.Review.AdvanceDelayMs == nil || *cfg.Review.AdvanceDelayMs != 300 {
		t.Fatalf("unexpected delay: %v", cfg.Review.AdvanceDelayMs)
	}
	if cfg.Stats.CurveWindow == nil || *cfg.Stats.CurveWindow != 5 {
		t.Fatalf("unexpected curve window: %v", cfg.Stats.CurveWindow)
	}
	if LogLevel(cfg.Log.Level) != "debug" {
		t.Fatalf("unexpected log level: %s", LogLevel(cfg.Log.Level))
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected missing config to be ignored: %v", err)
	}
	if cfg.Review.Deck != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[review]\nwords = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadEnvOverridesDBPath(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	dbPath := filepath.Join(dir, "custom.db")
	if err := os.WriteFile(envPath, []byte("TUIVOC_DB="+dbPath+"\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(EnvDB, "")
	if err := os.Unsetenv(EnvDB); err != nil {
		t.Fatalf("unset env: %v", err)
	}
	if err := LoadEnv(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := DefaultDBPath(); got != dbPath {
		t.Fatalf("expected db path %s, got %s", dbPath, got)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv(EnvDB, "")
	if got := DefaultConfigPath(); got != filepath.Join(dir, "tuivoc", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join(dir, "tuivoc", "tuivoc.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
}
