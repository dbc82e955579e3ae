// Package config loads the stepwise user configuration and discovers wizard
// definitions on disk.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanderheijden86/stepwise/pkg/stepper"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvTheme  = "STEPWISE_THEME"
	EnvDebug  = "STEPWISE_DEBUG"
	EnvConfig = "STEPWISE_CONFIG"
)

// DirName is the per-project directory holding wizard definitions.
const DirName = ".stepwise"

// Config is the user configuration file.
type Config struct {
	Theme       string          `yaml:"theme,omitempty"`       // dark, light or auto
	Orientation string          `yaml:"orientation,omitempty"` // default for definitions that omit it
	Variant     string          `yaml:"variant,omitempty"`
	Wizards     []Wizard        `yaml:"wizards,omitempty"`
	Discovery   DiscoveryConfig `yaml:"discovery,omitempty"`
	Reload      ReloadConfig    `yaml:"reload,omitempty"`

	// Debug is set from STEPWISE_DEBUG only.
	Debug bool `yaml:"-"`
}

// Wizard is a registered or discovered definition file.
type Wizard struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// ResolvedPath returns the wizard's path with ~ expanded and made absolute.
func (w Wizard) ResolvedPath() string {
	p := expandHome(w.Path)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// DiscoveryConfig controls where DiscoverWizards looks.
type DiscoveryConfig struct {
	ScanPaths []string `yaml:"scan_paths,omitempty"`
	MaxDepth  int      `yaml:"max_depth,omitempty"`
}

// ReloadConfig tunes the definition file watcher.
type ReloadConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"`
	Disabled bool          `yaml:"disabled,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Theme:       "auto",
		Orientation: string(stepper.Horizontal),
		Variant:     string(stepper.VariantCard),
		Discovery: DiscoveryConfig{
			MaxDepth: 3,
		},
		Reload: ReloadConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}

// Dir returns the stepwise config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stepwise")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "stepwise")
	}
	return filepath.Join(home, ".config", "stepwise")
}

// Path returns the config file path, honouring STEPWISE_CONFIG.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the config at path. A missing file yields DefaultConfig.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the config from Path().
func LoadDefault() (Config, error) {
	return Load(Path())
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("theme must be dark, light or auto, got %q", c.Theme)
	}
	if c.Orientation != "" && !stepper.Orientation(c.Orientation).IsValid() {
		return fmt.Errorf("invalid orientation %q", c.Orientation)
	}
	if c.Variant != "" && !stepper.Variant(c.Variant).IsValid() {
		return fmt.Errorf("invalid variant %q", c.Variant)
	}
	for i, w := range c.Wizards {
		if w.Path == "" {
			return fmt.Errorf("wizards[%d]: path is required", i)
		}
	}
	if c.Discovery.MaxDepth < 0 {
		return fmt.Errorf("discovery.max_depth must not be negative")
	}
	if c.Reload.Debounce < 0 {
		return fmt.Errorf("reload.debounce must not be negative")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if theme := strings.ToLower(strings.TrimSpace(os.Getenv(EnvTheme))); theme != "" {
		cfg.Theme = theme
	}
	switch strings.ToLower(os.Getenv(EnvDebug)) {
	case "1", "true", "yes", "on":
		cfg.Debug = true
	}
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
