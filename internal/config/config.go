package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the console configuration.
// It is loaded from ~/.oficina/config.yaml and can be overridden by environment variables.
type Config struct {
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	TUI     TUIConfig     `mapstructure:"tui" yaml:"tui"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// StoreConfig contains configuration for the local record store.
type StoreConfig struct {
	// DBPath is the path to the SQLite database
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// SessionConfig contains configuration for the signed-in session.
type SessionConfig struct {
	// KeyringService and KeyringAccount locate the token in the OS keychain
	KeyringService string `mapstructure:"keyring_service" yaml:"keyring_service"`
	KeyringAccount string `mapstructure:"keyring_account" yaml:"keyring_account"`
	// ClockSkew is tolerated when checking token expiry
	ClockSkew time.Duration `mapstructure:"clock_skew" yaml:"clock_skew"`
}

// TUIConfig contains configuration for the terminal user interface.
type TUIConfig struct {
	// Theme is the UI theme ("dark" or "light")
	Theme string `mapstructure:"theme" yaml:"theme"`
	// Placeholder is shown by dropdowns with no matching selection
	Placeholder string `mapstructure:"placeholder" yaml:"placeholder"`
	// PopupHeight is the number of option rows a dropdown shows at once
	PopupHeight int `mapstructure:"popup_height" yaml:"popup_height"`
	// Mouse enables pointer input
	Mouse bool `mapstructure:"mouse" yaml:"mouse"`
}

// LoggingConfig contains configuration for application logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error")
	Level string `mapstructure:"level" yaml:"level"`
	// File is the path to the log file
	File string `mapstructure:"file" yaml:"file"`
	// MaxSizeMB and MaxBackups control log rotation
	MaxSizeMB  int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	dataDir := DataDir()

	return &Config{
		Store: StoreConfig{
			DBPath: filepath.Join(dataDir, "oficina.db"),
		},
		Session: SessionConfig{
			KeyringService: "oficina",
			KeyringAccount: "auth-token",
			ClockSkew:      30 * time.Second,
		},
		TUI: TUIConfig{
			Theme:       "dark",
			Placeholder: "Selecione...",
			PopupHeight: 8,
			Mouse:       true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       filepath.Join(dataDir, "logs", "oficina.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// DataDir returns the data directory path (~/.oficina).
func DataDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".oficina")
}

// DefaultPath returns the full path to the default config file.
func DefaultPath() string {
	return filepath.Join(DataDir(), "config.yaml")
}

// Load reads configuration from the default location.
func Load() (*Config, error) {
	return LoadFromPath(DefaultPath())
}

// LoadFromPath reads configuration from a specific file path and merges with
// environment variables. If the file doesn't exist, it creates one with default values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Example: OFICINA_STORE_DB_PATH
	v.SetEnvPrefix("OFICINA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Store.DBPath = expandPath(cfg.Store.DBPath)
	cfg.Logging.File = expandPath(cfg.Logging.File)

	return &cfg, nil
}

// setDefaults registers every key so that partial files and env-only
// overrides still resolve.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("store.db_path", d.Store.DBPath)
	v.SetDefault("session.keyring_service", d.Session.KeyringService)
	v.SetDefault("session.keyring_account", d.Session.KeyringAccount)
	v.SetDefault("session.clock_skew", d.Session.ClockSkew)
	v.SetDefault("tui.theme", d.TUI.Theme)
	v.SetDefault("tui.placeholder", d.TUI.Placeholder)
	v.SetDefault("tui.popup_height", d.TUI.PopupHeight)
	v.SetDefault("tui.mouse", d.TUI.Mouse)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
}

// Save writes the current configuration to the default config file location.
func (c *Config) Save() error {
	return c.SaveToPath(DefaultPath())
}

// SaveToPath writes the current configuration to a specific file path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return writeConfigFile(path, c)
}

// EnsureDirectories creates the directories holding the database and logs.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Logging.File),
		filepath.Dir(c.Store.DBPath),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Validate checks the configuration for common errors and inconsistencies.
func (c *Config) Validate() error {
	if c.Store.DBPath == "" {
		return fmt.Errorf("store.db_path cannot be empty")
	}

	if c.Session.KeyringService == "" || c.Session.KeyringAccount == "" {
		return fmt.Errorf("session keyring service and account cannot be empty")
	}
	if c.Session.ClockSkew < 0 {
		return fmt.Errorf("session.clock_skew cannot be negative")
	}

	if c.TUI.Theme != "dark" && c.TUI.Theme != "light" {
		return fmt.Errorf("invalid theme '%s', must be 'dark' or 'light'", c.TUI.Theme)
	}
	if c.TUI.PopupHeight < 1 || c.TUI.PopupHeight > 50 {
		return fmt.Errorf("popup_height must be between 1 and 50")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 {
		return fmt.Errorf("log rotation limits cannot be negative")
	}

	return nil
}

// writeConfigFile writes a Config struct to a YAML file.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
