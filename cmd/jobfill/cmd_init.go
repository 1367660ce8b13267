package main

import (
	"fmt"
	"os"

	"jobfill/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var forceInit bool

// initCmd writes the application config and the default settings file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .jobfill/config.yaml and the settings file",
	Long: `Creates the workspace files jobfill needs:
  1. .jobfill/config.yaml with default browser and filler settings
  2. the settings INI file with empty PersonalInfo, WorkInfo, Education
     and Others sections

Existing files are kept unless --force is given (the settings file is never
overwritten; use 'jobfill config clear' for that).`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config.yaml with defaults")
}

func runInit(cmd *cobra.Command, args []string) error {
	ws := resolveWorkspace()
	path := config.DefaultConfigPath(ws)

	if _, err := os.Stat(path); err == nil && !forceInit {
		fmt.Println("Already initialized: " + path)
		fmt.Println("To reset it, use 'jobfill init --force'.")
	} else {
		cfg := config.DefaultConfig()
		if settingsFile != "" {
			cfg.Settings.File = settingsFile
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		logger.Info("Wrote config", zap.String("path", path))
		fmt.Println(successStyle.Render("Wrote " + path))
	}

	cfg, ws, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store := openStore(cfg, ws, nil)
	fmt.Println(successStyle.Render("Settings file: " + store.Path()))
	fmt.Println("Next: 'jobfill config set PersonalInfo.name <your name>' or just run 'jobfill fill'.")
	return nil
}
