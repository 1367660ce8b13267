package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetLogging(t *testing.T) {
	t.Helper()
	CloseAll()
	configMu.Lock()
	config = Config{}
	configMu.Unlock()
	t.Cleanup(func() {
		CloseAll()
		configMu.Lock()
		config = Config{}
		configMu.Unlock()
	})
}

// TestAllCategoriesLog tests that all categories create log files when debug_mode is true
func TestAllCategoriesLog(t *testing.T) {
	resetLogging(t)
	ws := t.TempDir()

	require.NoError(t, Initialize(ws, Config{DebugMode: true, Level: "debug"}))
	assert.True(t, IsDebugMode())

	categories := []Category{CategoryBoot, CategorySettings, CategoryBrowser, CategoryFiller}
	for _, cat := range categories {
		assert.True(t, IsCategoryEnabled(cat), "category %s should be enabled", cat)
		l := Get(cat)
		l.Info("info for %s", cat)
		l.Debug("debug for %s", cat)
		l.Warn("warn for %s", cat)
		l.Error("error for %s", cat)
	}
	Settings("convenience settings log")
	Browser("convenience browser log")
	Filler("convenience filler log")

	CloseAll()

	logsPath := filepath.Join(ws, ".jobfill", "logs")
	entries, err := os.ReadDir(logsPath)
	require.NoError(t, err)

	for _, cat := range categories {
		found := false
		for _, entry := range entries {
			if !strings.HasSuffix(entry.Name(), "_"+string(cat)+".log") {
				continue
			}
			found = true
			content, err := os.ReadFile(filepath.Join(logsPath, entry.Name()))
			require.NoError(t, err)
			assert.NotEmpty(t, content, "log file for %s is empty", cat)
		}
		assert.True(t, found, "no log file for category %s", cat)
	}
}

// TestDebugModeDisabled tests that no logs are created when debug_mode is false
func TestDebugModeDisabled(t *testing.T) {
	resetLogging(t)
	ws := t.TempDir()

	require.NoError(t, Initialize(ws, Config{DebugMode: false}))
	assert.False(t, IsDebugMode())

	Settings("should not be written")
	Get(CategoryBrowser).Error("should not be written either")

	_, err := os.Stat(filepath.Join(ws, ".jobfill", "logs"))
	assert.True(t, os.IsNotExist(err), "logs directory must not exist in production mode")
}

func TestCategoryToggle(t *testing.T) {
	resetLogging(t)
	ws := t.TempDir()

	cfg := Config{
		DebugMode:  true,
		Level:      "info",
		Categories: map[string]bool{"browser": false},
	}
	require.NoError(t, Initialize(ws, cfg))

	assert.False(t, IsCategoryEnabled(CategoryBrowser))
	assert.True(t, IsCategoryEnabled(CategorySettings), "unlisted categories default to enabled")

	Browser("dropped")
	Settings("kept")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(ws, ".jobfill", "logs"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "_browser.log")
	}
}

func TestJSONFormat(t *testing.T) {
	resetLogging(t)
	ws := t.TempDir()

	require.NoError(t, Initialize(ws, Config{DebugMode: true, Level: "info", JSONFormat: true}))
	Get(CategoryFiller).With("run", "abc").Info("filled %d fields", 3)
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(ws, ".jobfill", "logs"))
	require.NoError(t, err)

	var content []byte
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), "_filler.log") {
			content, err = os.ReadFile(filepath.Join(ws, ".jobfill", "logs", e.Name()))
			require.NoError(t, err)
		}
	}
	require.NotEmpty(t, content)
	assert.Contains(t, string(content), `"msg":"filled 3 fields"`)
	assert.Contains(t, string(content), `"run":"abc"`)
}

func TestNoopLoggerIsSafe(t *testing.T) {
	var l Logger
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	assert.Same(t, &l, l.With("k", "v"))
}

func TestInitializeRequiresWorkspace(t *testing.T) {
	resetLogging(t)
	assert.Error(t, Initialize("", Config{}))
}

func TestTimerLogging(t *testing.T) {
	resetLogging(t)
	timer := StartTimer(CategoryFiller, "apply")
	assert.GreaterOrEqual(t, int64(timer.Stop()), int64(0))
}
