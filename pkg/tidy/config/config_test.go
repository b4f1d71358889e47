package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Use a temp directory that doesn't have a config file
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// DefaultSourceDir's ~ is expanded against HOME.
	if cfg.SourceDir != filepath.Join(tempDir, "Downloads") {
		t.Errorf("SourceDir = %q, want %q", cfg.SourceDir, filepath.Join(tempDir, "Downloads"))
	}

	if cfg.Report.TopN != DefaultTopN {
		t.Errorf("Report.TopN = %d, want %d", cfg.Report.TopN, DefaultTopN)
	}

	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}

	if cfg.History.RetentionDays != DefaultHistoryRetentionDays {
		t.Errorf("History.RetentionDays = %d, want %d", cfg.History.RetentionDays, DefaultHistoryRetentionDays)
	}

	if len(cfg.Exclude) != len(DefaultExclusions) {
		t.Errorf("len(Exclude) = %d, want %d", len(cfg.Exclude), len(DefaultExclusions))
	}

	if len(cfg.Categories) != 0 {
		t.Errorf("Categories = %v, want empty (use built-in table)", cfg.Categories)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Rotation.MaxSize != "10MB" {
		t.Errorf("Logging.Rotation.MaxSize = %q, want 10MB", cfg.Logging.Rotation.MaxSize)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "tidy")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
source_dir: /data/inbox
exclude:
  - "*.tmp"
categories:
  Books: [".epub", ".mobi"]
  Pictures: [".jpg", ".png"]
report:
  top_n: 5
history:
  enabled: false
  retention_days: 7
logging:
  level: debug
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SourceDir != "/data/inbox" {
		t.Errorf("SourceDir = %q, want /data/inbox", cfg.SourceDir)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "*.tmp" {
		t.Errorf("Exclude = %v, want [*.tmp]", cfg.Exclude)
	}
	if cfg.Report.TopN != 5 {
		t.Errorf("Report.TopN = %d, want 5", cfg.Report.TopN)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.History.RetentionDays != 7 {
		t.Errorf("History.RetentionDays = %d, want 7", cfg.History.RetentionDays)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}

	table := cfg.CategoryTable()
	if got := table.Classify(".epub"); got != "Books" {
		t.Errorf("Classify(.epub) = %q, want Books", got)
	}
	if got := table.Classify(".pdf"); got != "Other" {
		t.Errorf("Classify(.pdf) = %q, want Other (custom table replaces built-ins)", got)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("TIDY_SOURCE_DIR", "/mnt/drop")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SourceDir != "/mnt/drop" {
		t.Errorf("SourceDir = %q, want /mnt/drop", cfg.SourceDir)
	}
}

func TestLoad_XDGConfigHome(t *testing.T) {
	tempDir := t.TempDir()
	xdgDir := filepath.Join(tempDir, "xdg")
	configDir := filepath.Join(xdgDir, "tidy")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("source_dir: /from/xdg\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", xdgDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SourceDir != "/from/xdg" {
		t.Errorf("SourceDir = %q, want /from/xdg", cfg.SourceDir)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("getting home dir: %v", err)
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare tilde", input: "~", want: home},
		{name: "tilde prefix", input: "~/Downloads", want: filepath.Join(home, "Downloads")},
		{name: "absolute path unchanged", input: "/var/data", want: "/var/data"},
		{name: "relative path unchanged", input: "data", want: "data"},
		{name: "empty unchanged", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	path, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	// A second call must not clobber the existing file.
	if err := os.WriteFile(path, []byte("source_dir: /custom\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	again, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault() second call error = %v", err)
	}
	if again != path {
		t.Errorf("WriteDefault() = %q, want %q", again, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "source_dir: /custom\n" {
		t.Error("WriteDefault() overwrote an existing config file")
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg/config")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}
		if dir != "/xdg/config/tidy" {
			t.Errorf("ConfigDir() = %q, want /xdg/config/tidy", dir)
		}
	})

	t.Run("falls back to HOME", func(t *testing.T) {
		tempDir := t.TempDir()
		t.Setenv("HOME", tempDir)
		t.Setenv("XDG_CONFIG_HOME", "")

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}
		want := filepath.Join(tempDir, ".config", "tidy")
		if dir != want {
			t.Errorf("ConfigDir() = %q, want %q", dir, want)
		}
	})
}
