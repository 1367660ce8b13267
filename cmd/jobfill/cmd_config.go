package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"jobfill/internal/settings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var clearForce bool

// configCmd groups commands that inspect and edit stored answers
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit stored answers",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every stored answer",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [Section.key]",
	Short: "Print one stored answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [Section.key] [value]",
	Short: "Store an answer",
	Example: `  jobfill config set PersonalInfo.name "Li Wei"
  jobfill config set WorkInfo.expected_salary 15k-25k`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConfigSet,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit answers interactively",
	Long: `Asks for a Section.key name, shows its current value and stores the new
value you type. Enter 'list' to see all answers and 'quit' to stop.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the settings file",
	Long: `Deletes every stored answer. You are asked to confirm twice unless
--force is given. The default file is recreated on the next run.`,
	Args: cobra.NoArgs,
	RunE: runConfigClear,
}

func init() {
	configClearCmd.Flags().BoolVar(&clearForce, "force", false, "Skip confirmation")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configClearCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	printSettings(readStore(cfg, ws))
	return nil
}

func printSettings(store *settings.Store) {
	fmt.Println(titleStyle.Render("=== Stored answers ===") + " " + keyStyle.Render(store.Path()))
	sections := store.Sections()
	if len(sections) == 0 {
		fmt.Println(keyStyle.Render("(empty)"))
		return
	}
	for _, sec := range sections {
		fmt.Println()
		fmt.Println(sectionStyle.Render("[" + sec.Name + "]"))
		for _, e := range sec.Entries {
			value := e.Value
			if value == "" {
				value = keyStyle.Render("(not set)")
			}
			fmt.Printf("%s = %s\n", e.Key, value)
		}
	}
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	section, key, err := settings.ParseName(args[0])
	if err != nil {
		return err
	}
	cfg, ws, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fmt.Println(readStore(cfg, ws).Get(section, key, ""))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	section, key, err := settings.ParseName(args[0])
	if err != nil {
		return err
	}
	value := strings.TrimSpace(strings.Join(args[1:], " "))
	if value == "" {
		return fmt.Errorf("value for %s.%s must not be empty", section, key)
	}

	cfg, ws, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store := openStore(cfg, ws, nil)
	if err := store.Set(section, key, value); err != nil {
		return err
	}
	logger.Info("Stored answer", zap.String("section", section), zap.String("key", key))
	fmt.Println(successStyle.Render(fmt.Sprintf("%s.%s updated", section, key)))
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	prompter := settings.NewConsolePrompter(stdin, os.Stdout)
	store := openStore(cfg, ws, prompter)

	fmt.Println(titleStyle.Render("Edit stored answers"))
	fmt.Println("Enter a name as Section.key, e.g. PersonalInfo.name or WorkInfo.expected_salary")
	fmt.Println("Enter 'list' to see all answers, 'quit' to stop.")

	for {
		ref, err := prompter.Ask("\nAnswer name:")
		if err != nil {
			if errors.Is(err, settings.ErrPromptAborted) {
				return nil
			}
			return err
		}
		switch strings.ToLower(ref) {
		case "quit", "exit", "q":
			return nil
		case "list":
			printSettings(store)
			continue
		case "":
			continue
		}

		section, key, err := settings.ParseName(ref)
		if err != nil {
			fmt.Println(warnStyle.Render("Use the Section.key format."))
			continue
		}

		fmt.Printf("Current value: %s\n", store.Get(section, key, "(not set)"))
		value, err := prompter.Ask("New value (press Enter to keep):")
		if err != nil {
			if errors.Is(err, settings.ErrPromptAborted) {
				return nil
			}
			return err
		}
		if value == "" {
			fmt.Println("Unchanged.")
			continue
		}
		if err := store.Set(section, key, value); err != nil {
			fmt.Println(errorStyle.Render("Update failed: ") + err.Error())
			continue
		}
		fmt.Println(successStyle.Render("Updated."))
	}
}

func runConfigClear(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := cfg.SettingsPath(ws)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println("Settings file does not exist.")
		return nil
	}

	if !clearForce {
		prompter := settings.NewConsolePrompter(stdin, os.Stdout)
		fmt.Println(warnStyle.Render("This deletes every stored answer in " + path))
		if !confirm(prompter, "Continue? (yes/no)", "yes") ||
			!confirm(prompter, "Type DELETE to confirm:", "DELETE") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := readStore(cfg, ws).Wipe(); err != nil {
		return err
	}
	logger.Info("Cleared settings file", zap.String("path", path))
	fmt.Println(successStyle.Render("Settings file deleted. A fresh one is created on the next run."))
	return nil
}

func confirm(p settings.Prompter, prompt, want string) bool {
	answer, err := p.Ask(prompt)
	if err != nil {
		return false
	}
	if want == "yes" {
		return strings.EqualFold(answer, want)
	}
	return answer == want
}
