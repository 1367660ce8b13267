package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "jobfill" {
		t.Errorf("expected Name=jobfill, got %s", cfg.Name)
	}
	if cfg.Site.BaseURL != "https://www.zhipin.com" {
		t.Errorf("unexpected base URL %s", cfg.Site.BaseURL)
	}
	if cfg.Settings.File != "config.ini" {
		t.Errorf("expected settings file config.ini, got %s", cfg.Settings.File)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("JOBFILL_SETTINGS_FILE", "")
	t.Setenv("JOBFILL_BASE_URL", "")
	t.Setenv("JOBFILL_HEADLESS", "")

	path := filepath.Join(t.TempDir(), ".jobfill", "config.yaml")

	cfg := DefaultConfig()
	cfg.Browser.Headless = true
	cfg.Browser.UserDataDir = "/tmp/profile"
	cfg.Logging.DebugMode = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.Browser.Headless {
		t.Error("expected Headless=true after reload")
	}
	if loaded.Browser.UserDataDir != "/tmp/profile" {
		t.Errorf("expected UserDataDir=/tmp/profile, got %s", loaded.Browser.UserDataDir)
	}
	if !loaded.Logging.DebugMode {
		t.Error("expected DebugMode=true after reload")
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("JOBFILL_SETTINGS_FILE", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Settings.File != DefaultConfig().Settings.File {
		t.Errorf("expected defaults, got settings file %s", cfg.Settings.File)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("site: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Site.BaseURL = "zhipin.com"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for relative base URL")
	}

	cfg = DefaultConfig()
	cfg.Settings.File = "  "
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty settings file")
	}

	cfg = DefaultConfig()
	cfg.Filler.FillDelay = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for bad duration")
	}

	cfg = DefaultConfig()
	cfg.Browser.ViewportWidth = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for negative viewport")
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.GetElementTimeout() != 15*time.Second {
		t.Errorf("unexpected element timeout %v", cfg.GetElementTimeout())
	}
	if cfg.GetFillDelay() != 500*time.Millisecond {
		t.Errorf("unexpected fill delay %v", cfg.GetFillDelay())
	}

	cfg.Browser.NavigationTimeout = "garbage"
	if cfg.GetNavigationTimeout() != 30*time.Second {
		t.Errorf("expected fallback navigation timeout, got %v", cfg.GetNavigationTimeout())
	}
	cfg.Filler.PageSettle = "0s"
	if cfg.GetPageSettle() != 0 {
		t.Errorf("expected zero page settle, got %v", cfg.GetPageSettle())
	}
}

func TestConfig_Paths(t *testing.T) {
	ws := t.TempDir()
	cfg := DefaultConfig()

	if got := cfg.SettingsPath(ws); got != filepath.Join(ws, "config.ini") {
		t.Errorf("unexpected settings path %s", got)
	}
	abs := filepath.Join(ws, "elsewhere", "answers.ini")
	cfg.Settings.File = abs
	if got := cfg.SettingsPath(ws); got != abs {
		t.Errorf("absolute settings path should be kept, got %s", got)
	}
	if got := cfg.ScreenshotPath(ws); got != filepath.Join(ws, ".jobfill", "screenshots") {
		t.Errorf("unexpected screenshot path %s", got)
	}
	if got := DefaultConfigPath(ws); got != filepath.Join(ws, ".jobfill", "config.yaml") {
		t.Errorf("unexpected config path %s", got)
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	if lc.IsCategoryEnabled("browser") {
		t.Error("categories must be disabled without debug mode")
	}
	lc.DebugMode = true
	if !lc.IsCategoryEnabled("browser") {
		t.Error("categories default to enabled in debug mode")
	}
	lc.Categories = map[string]bool{"browser": false}
	if lc.IsCategoryEnabled("browser") {
		t.Error("explicitly disabled category reported enabled")
	}
}
