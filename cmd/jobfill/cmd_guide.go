package main

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

//go:embed guide.md
var guideMarkdown string

var guidePlain bool

// guideCmd prints the usage guide
var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Show how to use jobfill",
	Args:  cobra.NoArgs,
	RunE:  runGuide,
}

func init() {
	guideCmd.Flags().BoolVar(&guidePlain, "plain", false, "Print raw markdown")
}

func runGuide(cmd *cobra.Command, args []string) error {
	out, err := renderGuide(guidePlain)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func renderGuide(plain bool) (string, error) {
	if plain {
		return guideMarkdown, nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	return renderer.Render(guideMarkdown)
}
