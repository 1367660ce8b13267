package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"jobfill/internal/browser"
	"jobfill/internal/config"
	"jobfill/internal/logging"
	"jobfill/internal/settings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose      bool
	workspace    string
	timeout      time.Duration
	settingsFile string
	headless     bool

	// Logger
	logger *zap.Logger

	// Operator input, swapped in tests
	stdin io.Reader = os.Stdin

	// Process exit, swapped in tests
	exit = os.Exit
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jobfill",
	Short: "jobfill - resume form filler for job-search sites",
	Long: `jobfill opens a job-search site in Chrome, waits for you to log in and
open your resume editor, then fills the profile form with answers kept in a
local INI file. Missing answers are asked for once and remembered.

Run 'jobfill guide' for a walkthrough.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flushLogs()
	},
}

// flushLogs closes the category log files and syncs the CLI logger.
func flushLogs() {
	logging.CloseAll()
	if logger != nil {
		_ = logger.Sync()
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Minute, "Overall run timeout")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "Settings INI file (default: from .jobfill/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", false, "Run Chrome without a window")

	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(guideCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

func resolveWorkspace() string {
	if workspace != "" {
		return workspace
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// loadConfig reads .jobfill/config.yaml, applies command-line overrides and
// starts category logging.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	ws := resolveWorkspace()
	cfg, err := config.Load(config.DefaultConfigPath(ws))
	if err != nil {
		return nil, ws, err
	}
	if settingsFile != "" {
		cfg.Settings.File = settingsFile
	}
	if cmd != nil && cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = headless
	}
	if err := cfg.Validate(); err != nil {
		return nil, ws, fmt.Errorf("invalid config: %w", err)
	}

	if err := logging.Initialize(ws, logging.Config{
		DebugMode:  cfg.Logging.DebugMode,
		Level:      cfg.Logging.Level,
		JSONFormat: cfg.Logging.IsJSON(),
		Categories: cfg.Logging.Categories,
	}); err != nil {
		logger.Warn("category logging unavailable", zap.Error(err))
	}
	logging.Boot("workspace %s, settings %s", ws, cfg.SettingsPath(ws))
	logger.Debug("Loaded config",
		zap.String("workspace", ws),
		zap.String("settings", cfg.SettingsPath(ws)),
		zap.Bool("headless", cfg.Browser.Headless))
	return cfg, ws, nil
}

func openStore(cfg *config.Config, ws string, prompter settings.Prompter) *settings.Store {
	return settings.Open(cfg.SettingsPath(ws), prompter, settings.WithOutput(os.Stdout))
}

// readStore loads the settings file for display without creating it.
func readStore(cfg *config.Config, ws string) *settings.Store {
	return settings.Load(cfg.SettingsPath(ws), settings.WithOutput(os.Stdout))
}

func browserConfig(cfg *config.Config, ws string) browser.Config {
	return browser.Config{
		Headless:          cfg.Browser.Headless,
		Bin:               cfg.Browser.Bin,
		DebuggerURL:       cfg.Browser.DebuggerURL,
		UserDataDir:       cfg.Browser.UserDataDir,
		NoSandbox:         cfg.Browser.NoSandbox,
		Stealth:           cfg.Browser.Stealth,
		ViewportWidth:     cfg.Browser.ViewportWidth,
		ViewportHeight:    cfg.Browser.ViewportHeight,
		ElementTimeout:    cfg.GetElementTimeout(),
		NavigationTimeout: cfg.GetNavigationTimeout(),
		ScreenshotDir:     cfg.ScreenshotPath(ws),
	}
}
