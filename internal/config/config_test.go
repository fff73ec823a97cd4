package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.TUI.Theme != "dark" {
		t.Errorf("expected default theme 'dark', got '%s'", cfg.TUI.Theme)
	}

	if cfg.TUI.Placeholder != "Selecione..." {
		t.Errorf("expected default placeholder 'Selecione...', got '%s'", cfg.TUI.Placeholder)
	}

	if cfg.TUI.PopupHeight != 8 {
		t.Errorf("expected popup height 8, got %d", cfg.TUI.PopupHeight)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}

	if !strings.HasSuffix(cfg.Store.DBPath, "oficina.db") {
		t.Errorf("unexpected db path '%s'", cfg.Store.DBPath)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, ".oficina", "config.yaml")

	// Load config (should create default)
	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	if cfg.Session.ClockSkew != 30*time.Second {
		t.Errorf("expected clock skew 30s, got %v", cfg.Session.ClockSkew)
	}

	// Load again to test reading existing file
	cfg2, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("failed to load existing config: %v", err)
	}

	if cfg2.Store.DBPath != cfg.Store.DBPath {
		t.Error("config values changed on reload")
	}
}

func TestLoadPartialFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "tui:\n  theme: light\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.TUI.Theme != "light" {
		t.Errorf("expected theme 'light', got '%s'", cfg.TUI.Theme)
	}
	if cfg.TUI.PopupHeight != 8 {
		t.Errorf("missing keys should fall back to defaults, got popup height %d", cfg.TUI.PopupHeight)
	}
}

func TestEnvOverride(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("OFICINA_TUI_THEME", "light")
	t.Setenv("OFICINA_STORE_DB_PATH", "/tmp/override.db")

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.TUI.Theme != "light" {
		t.Errorf("expected env theme 'light', got '%s'", cfg.TUI.Theme)
	}
	if cfg.Store.DBPath != "/tmp/override.db" {
		t.Errorf("expected env db path, got '%s'", cfg.Store.DBPath)
	}
}

func TestSaveToPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.TUI.Theme = "light"
	cfg.TUI.PopupHeight = 5
	cfg.Session.ClockSkew = time.Minute

	if err := cfg.SaveToPath(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	if loaded.TUI.Theme != "light" {
		t.Errorf("expected theme 'light', got '%s'", loaded.TUI.Theme)
	}
	if loaded.TUI.PopupHeight != 5 {
		t.Errorf("expected popup height 5, got %d", loaded.TUI.PopupHeight)
	}
	if loaded.Session.ClockSkew != time.Minute {
		t.Errorf("expected clock skew 1m, got %v", loaded.Session.ClockSkew)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"empty db path", func(c *Config) { c.Store.DBPath = "" }, true},
		{"empty keyring service", func(c *Config) { c.Session.KeyringService = "" }, true},
		{"negative skew", func(c *Config) { c.Session.ClockSkew = -time.Second }, true},
		{"invalid theme", func(c *Config) { c.TUI.Theme = "blue" }, true},
		{"popup height zero", func(c *Config) { c.TUI.PopupHeight = 0 }, true},
		{"popup height too large", func(c *Config) { c.TUI.PopupHeight = 51 }, true},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	tempDir := t.TempDir()
	cfg := Default()
	cfg.Store.DBPath = filepath.Join(tempDir, "data", "oficina.db")
	cfg.Logging.File = filepath.Join(tempDir, "logs", "oficina.log")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("failed to ensure directories: %v", err)
	}

	for _, dir := range []string{"data", "logs"} {
		if info, err := os.Stat(filepath.Join(tempDir, dir)); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist", dir)
		}
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := expandPath("~/x/y.db"); got != filepath.Join(homeDir, "x", "y.db") {
		t.Errorf("expected expanded path, got '%s'", got)
	}
	if got := expandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path should be unchanged, got '%s'", got)
	}
}
