package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvTheme, "")
	t.Setenv(EnvDebug, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	def := DefaultConfig()
	if cfg.Theme != def.Theme || cfg.Reload.Debounce != def.Reload.Debounce || cfg.Discovery.MaxDepth != 3 {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
	if cfg.Debug {
		t.Error("Debug should be off by default")
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvTheme, "")
	t.Setenv(EnvDebug, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `theme: light
orientation: vertical
variant: minimal
wizards:
  - name: deploy
    path: ~/deploy.yaml
discovery:
  scan_paths: [~/src]
  max_depth: 2
reload:
  debounce: 500ms
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Theme != "light" || cfg.Orientation != "vertical" || cfg.Variant != "minimal" {
		t.Errorf("Unexpected presentation settings %+v", cfg)
	}
	if len(cfg.Wizards) != 1 || cfg.Wizards[0].Name != "deploy" {
		t.Errorf("Unexpected wizards %v", cfg.Wizards)
	}
	if cfg.Discovery.MaxDepth != 2 || len(cfg.Discovery.ScanPaths) != 1 {
		t.Errorf("Unexpected discovery %+v", cfg.Discovery)
	}
	if cfg.Reload.Debounce != 500*time.Millisecond {
		t.Errorf("Expected 500ms debounce, got %v", cfg.Reload.Debounce)
	}
	if strings.HasPrefix(cfg.Wizards[0].ResolvedPath(), "~") {
		t.Errorf("ResolvedPath should expand ~, got %q", cfg.Wizards[0].ResolvedPath())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvTheme, "DARK")
	t.Setenv(EnvDebug, "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Expected theme from env, got %q", cfg.Theme)
	}
	if !cfg.Debug {
		t.Error("Expected debug from env")
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvTheme, "")

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"Theme", "theme: neon\n", "theme must be"},
		{"Orientation", "orientation: diagonal\n", "invalid orientation"},
		{"WizardPath", "wizards:\n  - name: x\n", "path is required"},
		{"Malformed", "theme: [\n", "parsing config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvTheme, "")
	t.Setenv(EnvDebug, "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Theme = "dark"
	cfg.Reload.Debounce = time.Second

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Theme != "dark" || loaded.Reload.Debounce != time.Second {
		t.Errorf("Round trip lost settings: %+v", loaded)
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := Path(); got != filepath.Join("/xdg", "stepwise", "config.yaml") {
		t.Errorf("Path() = %q", got)
	}

	t.Setenv(EnvConfig, "/custom.yaml")
	if got := Path(); got != "/custom.yaml" {
		t.Errorf("Path() with override = %q", got)
	}
}
