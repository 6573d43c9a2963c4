package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all vetrina configuration.
type Config struct {
	Shop    ShopConfig    `yaml:"shop"`
	Media   MediaConfig   `yaml:"media"`
	Browser BrowserConfig `yaml:"browser"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// ShopConfig configures storefront copy.
type ShopConfig struct {
	Title          string `yaml:"title"`
	CurrencySymbol string `yaml:"currency_symbol"`
}

// MediaConfig configures how product media is resolved and loaded.
type MediaConfig struct {
	// Root directory that root-relative and relative locators resolve against.
	Root string `yaml:"root"`

	// Per-element load timeout.
	Timeout string `yaml:"timeout"`

	// Backend: "http" (file and HTTP readers) or "browser" (headless Chromium).
	Backend string `yaml:"backend"`

	// Upper bound on bytes read from a single resource.
	MaxBytes int64 `yaml:"max_bytes"`

	// Watch the media root and remount cards whose files change.
	Watch bool `yaml:"watch"`

	// Concurrent loads for the probe command.
	ProbeConcurrency int `yaml:"probe_concurrency"`
}

// BrowserConfig configures the headless browser backend.
type BrowserConfig struct {
	Headless    bool   `yaml:"headless"`
	Bin         string `yaml:"bin"`
	DebuggerURL string `yaml:"debugger_url"`
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	Theme      string `yaml:"theme"` // auto, light, dark
	DebugPanel bool   `yaml:"debug_panel"`
	SeedLog    bool   `yaml:"seed_log"`
	AltScreen  bool   `yaml:"alt_screen"`
}

// Backends lists the supported media backends.
var Backends = []string{"http", "browser"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Shop: ShopConfig{
			Title:          "Il nostro Ecommerce",
			CurrencySymbol: "$",
		},
		Media: MediaConfig{
			Root:             "public",
			Timeout:          "10s",
			Backend:          "http",
			MaxBytes:         8 << 20,
			Watch:            true,
			ProbeConcurrency: 4,
		},
		Browser: BrowserConfig{
			Headless: true,
		},
		UI: UIConfig{
			Theme:      "auto",
			DebugPanel: true,
			SeedLog:    true,
			AltScreen:  true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns .vetrina/config.yaml under the working directory.
func DefaultPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".vetrina", "config.yaml")
	}
	return filepath.Join(cwd, ".vetrina", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if root := os.Getenv("VETRINA_MEDIA_ROOT"); root != "" {
		c.Media.Root = root
	}
	if backend := os.Getenv("VETRINA_BACKEND"); backend != "" {
		c.Media.Backend = backend
	}
	if v := os.Getenv("VETRINA_DEBUG_PANEL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.UI.DebugPanel = b
		}
	}
	if sym := os.Getenv("VETRINA_CURRENCY"); sym != "" {
		c.Shop.CurrencySymbol = sym
	}
	if url := os.Getenv("VETRINA_CHROME_URL"); url != "" {
		c.Browser.DebuggerURL = url
	}
}

// MediaTimeout returns the per-element load timeout.
func (c *Config) MediaTimeout() time.Duration {
	d, err := time.ParseDuration(c.Media.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// ProbeConcurrency returns a positive worker count.
func (c *Config) ProbeConcurrency() int {
	if c.Media.ProbeConcurrency <= 0 {
		return 1
	}
	return c.Media.ProbeConcurrency
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validBackend := false
	for _, b := range Backends {
		if c.Media.Backend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid media backend: %s (valid: %v)", c.Media.Backend, Backends)
	}

	switch c.UI.Theme {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("invalid theme: %s (valid: auto, light, dark)", c.UI.Theme)
	}

	if c.Media.MaxBytes < 0 {
		return fmt.Errorf("media.max_bytes must not be negative")
	}

	return nil
}
