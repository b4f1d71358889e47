package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jamesainslie/tidy/pkg/tidy/category"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// ReportConfig configures report generation.
type ReportConfig struct {
	// TopN is the number of entries in the largest/oldest file sections.
	TopN int `mapstructure:"top_n"`
}

// HistoryConfig configures the run history manifest.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	// SourceDir is the directory whose files are organized.
	SourceDir string `mapstructure:"source_dir"`

	// Categories maps category labels to extension lists. Empty means use
	// the built-in table.
	Categories map[string][]string `mapstructure:"categories"`

	// Exclude contains glob patterns for file names to skip during scanning.
	Exclude []string `mapstructure:"exclude"`

	Report  ReportConfig  `mapstructure:"report"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CategoryTable builds the categorizer table for this configuration.
// An empty Categories section falls back to the built-in groups.
func (c *Config) CategoryTable() *category.Table {
	if len(c.Categories) == 0 {
		return category.NewDefault()
	}
	return category.New(c.Categories)
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/tidy/config.yaml
//   - $HOME/.config/tidy/config.yaml
//
// Environment variables are prefixed with TIDY_ (e.g., TIDY_SOURCE_DIR).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "tidy"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "tidy"))

	v.SetEnvPrefix("TIDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	v.SetDefault("history.path", filepath.Join(homeDir, ".config", "tidy", ".history"))

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.SourceDir, err = ExpandPath(cfg.SourceDir); err != nil {
		return nil, err
	}
	if cfg.History.Path, err = ExpandPath(cfg.History.Path); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SetDefaults registers the default configuration values on a viper
// instance. Shared by Load and the CLI's flag-bound viper.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source_dir", DefaultSourceDir)
	v.SetDefault("exclude", DefaultExclusions)
	v.SetDefault("report.top_n", DefaultTopN)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.retention_days", DefaultHistoryRetentionDays)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"scanner":   "info",
		"organizer": "info",
		"report":    "info",
		"manifest":  "warn",
	})
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	if path == "~" {
		return homeDir, nil
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~/")), nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "tidy"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "tidy"), nil
}

// HistoryDir returns the run history directory path.
func HistoryDir() (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, ".history"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns the path written, or the existing path with no error.
func WriteDefault() (string, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}

	return path, nil
}

// defaultConfigYAML is the commented starter configuration written by
// `tidy config init`.
const defaultConfigYAML = `# tidy configuration
#
# source_dir is the directory to organize. Files move into
# <source_dir>/Organized/<Category>/.
source_dir: ~/Downloads

# exclude lists file name patterns skipped during scanning.
exclude:
  - ".*"
  - "*.part"
  - "*.crdownload"
  - "*.download"

# categories overrides the built-in extension table. Uncomment to customize.
# Unlisted extensions fall into the "Other" category.
#categories:
#  Documents: [".pdf", ".docx", ".txt", ".md"]
#  Images: [".jpg", ".jpeg", ".png", ".gif"]

report:
  # Number of entries in the largest-files and oldest-files sections.
  top_n: 10

history:
  enabled: true
  retention_days: 30

logging:
  level: info
  rotation:
    max_size: 10MB
    max_age: 30
    max_backups: 5
    daily: true
`
