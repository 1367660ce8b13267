package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all jobfill configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Target site
	Site SiteConfig `yaml:"site"`

	// Answer store (INI file)
	Settings SettingsConfig `yaml:"settings"`

	// Browser automation
	Browser BrowserConfig `yaml:"browser"`

	// Form filling behavior
	Filler FillerConfig `yaml:"filler"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// SiteConfig configures the job-search site.
type SiteConfig struct {
	BaseURL string `yaml:"base_url"`
}

// SettingsConfig configures the persisted answers file.
type SettingsConfig struct {
	File string `yaml:"file"` // relative paths resolve against the workspace
}

// BrowserConfig configures the Chrome instance driven through go-rod.
type BrowserConfig struct {
	Headless          bool   `yaml:"headless"`
	Bin               string `yaml:"bin"`          // empty = auto-detect or download
	DebuggerURL       string `yaml:"debugger_url"` // attach to a running Chrome instead of launching
	UserDataDir       string `yaml:"user_data_dir"`
	NoSandbox         bool   `yaml:"no_sandbox"`
	Stealth           bool   `yaml:"stealth"`
	ViewportWidth     int    `yaml:"viewport_width"`
	ViewportHeight    int    `yaml:"viewport_height"`
	ElementTimeout    string `yaml:"element_timeout"`
	NavigationTimeout string `yaml:"navigation_timeout"`
	ScreenshotDir     string `yaml:"screenshot_dir"`
}

// FillerConfig configures the form filler.
type FillerConfig struct {
	FillDelay          string `yaml:"fill_delay"`           // settle time after each filled field
	PageSettle         string `yaml:"page_settle"`          // wait after navigating to a specific page
	ScreenshotOnFinish bool   `yaml:"screenshot_on_finish"` // capture the page after filling
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "jobfill",
		Version: "1.0.0",

		Site: SiteConfig{
			BaseURL: "https://www.zhipin.com",
		},

		Settings: SettingsConfig{
			File: "config.ini",
		},

		Browser: BrowserConfig{
			Headless:          false,
			NoSandbox:         true,
			Stealth:           true,
			ViewportWidth:     1920,
			ViewportHeight:    1080,
			ElementTimeout:    "15s",
			NavigationTimeout: "30s",
			ScreenshotDir:     ".jobfill/screenshots",
		},

		Filler: FillerConfig{
			FillDelay:  "500ms",
			PageSettle: "2s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultConfigPath returns .jobfill/config.yaml inside the workspace.
func DefaultConfigPath(workspace string) string {
	return filepath.Join(workspace, ".jobfill", "config.yaml")
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Defaults if config file doesn't exist
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
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
	if path := os.Getenv("JOBFILL_SETTINGS_FILE"); path != "" {
		c.Settings.File = path
	}
	if u := os.Getenv("JOBFILL_BASE_URL"); u != "" {
		c.Site.BaseURL = u
	}
	if v := os.Getenv("JOBFILL_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Browser.Headless = b
		}
	}
	if bin := os.Getenv("JOBFILL_CHROME_BIN"); bin != "" {
		c.Browser.Bin = bin
	}
	if u := os.Getenv("JOBFILL_DEBUGGER_URL"); u != "" {
		c.Browser.DebuggerURL = u
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid site base_url: %q (must be an absolute http(s) URL)", c.Site.BaseURL)
	}

	if strings.TrimSpace(c.Settings.File) == "" {
		return fmt.Errorf("settings file path not configured")
	}

	durations := map[string]string{
		"browser.element_timeout":    c.Browser.ElementTimeout,
		"browser.navigation_timeout": c.Browser.NavigationTimeout,
		"filler.fill_delay":          c.Filler.FillDelay,
		"filler.page_settle":         c.Filler.PageSettle,
	}
	for name, raw := range durations {
		if raw == "" {
			continue
		}
		if d, err := time.ParseDuration(raw); err != nil || d < 0 {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}

	if c.Browser.ViewportWidth < 0 || c.Browser.ViewportHeight < 0 {
		return fmt.Errorf("invalid viewport %dx%d", c.Browser.ViewportWidth, c.Browser.ViewportHeight)
	}

	return nil
}

// SettingsPath resolves the settings file against the workspace.
func (c *Config) SettingsPath(workspace string) string {
	if filepath.IsAbs(c.Settings.File) {
		return c.Settings.File
	}
	return filepath.Join(workspace, c.Settings.File)
}

// ScreenshotPath resolves the screenshot directory against the workspace.
func (c *Config) ScreenshotPath(workspace string) string {
	if c.Browser.ScreenshotDir == "" || filepath.IsAbs(c.Browser.ScreenshotDir) {
		return c.Browser.ScreenshotDir
	}
	return filepath.Join(workspace, c.Browser.ScreenshotDir)
}

// GetElementTimeout returns the element lookup timeout as a duration.
func (c *Config) GetElementTimeout() time.Duration {
	return parseDurationOr(c.Browser.ElementTimeout, 15*time.Second)
}

// GetNavigationTimeout returns the page navigation timeout as a duration.
func (c *Config) GetNavigationTimeout() time.Duration {
	return parseDurationOr(c.Browser.NavigationTimeout, 30*time.Second)
}

// GetFillDelay returns the settle time after each filled field.
func (c *Config) GetFillDelay() time.Duration {
	return parseDurationOr(c.Filler.FillDelay, 500*time.Millisecond)
}

// GetPageSettle returns the wait applied after navigating to a specific page.
func (c *Config) GetPageSettle() time.Duration {
	return parseDurationOr(c.Filler.PageSettle, 2*time.Second)
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
