package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"jobfill/internal/browser"
	"jobfill/internal/filler"
	"jobfill/internal/logging"
	"jobfill/internal/settings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fillURL        string
	fillPageURL    string
	fillYes        bool
	fillScreenshot bool
)

// fillCmd runs the fill flow
var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Open the site, wait for login and fill the resume form",
	Long: `Starts Chrome, opens the site and waits for you to log in and open the
resume editor. After you press Enter every known field on the page is filled.
Answers that are not yet stored are asked for and saved to the settings file.

Fields that are not on the page are skipped.`,
	Args: cobra.NoArgs,
	RunE: runFill,
}

func init() {
	fillCmd.Flags().StringVar(&fillURL, "url", "", "Site to open for login (default: site.base_url)")
	fillCmd.Flags().StringVar(&fillPageURL, "page", "", "Open this page after login and fill it")
	fillCmd.Flags().BoolVarP(&fillYes, "yes", "y", false, "Do not pause for login or before closing")
	fillCmd.Flags().BoolVar(&fillScreenshot, "screenshot", false, "Save a screenshot after filling")
}

func runFill(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	prompter := settings.NewConsolePrompter(stdin, os.Stdout)
	store := openStore(cfg, ws, prompter)
	engine := browser.New(browserConfig(cfg, ws), browser.WithOutput(os.Stdout))

	// Handle graceful shutdown. A pending prompt blocks on stdin, so the
	// browser is closed here rather than waiting for the run to unwind.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigCh:
		case <-done:
			return
		}
		interrupt(cancel, engine)
	}()

	f := filler.New(engine, store, prompter,
		filler.WithOutput(os.Stdout),
		filler.WithBaseURL(cfg.Site.BaseURL),
		filler.WithFillDelay(cfg.GetFillDelay()),
		filler.WithPageSettle(cfg.GetPageSettle()),
	)

	logger.Info("Starting fill run", zap.String("settings", store.Path()))
	report, err := f.Run(ctx, filler.RunOptions{
		URL:         fillURL,
		PageURL:     fillPageURL,
		SkipConfirm: fillYes,
		Screenshot:  fillScreenshot || cfg.Filler.ScreenshotOnFinish,
	})
	if err != nil {
		if errors.Is(err, settings.ErrPromptAborted) {
			fmt.Println(warnStyle.Render("Input closed, run aborted."))
		}
		return err
	}

	logger.Info("Fill run finished",
		zap.String("run", report.RunID),
		zap.Int("filled", report.Filled()),
		zap.Int("not_found", report.Count(filler.StatusNotFound)))
	fmt.Println(successStyle.Render(report.Summary()))
	return nil
}

// interrupt ends a fill run after SIGINT or SIGTERM. PersistentPostRun does
// not run on exit, so logs are flushed here.
func interrupt(cancel context.CancelFunc, engine io.Closer) {
	logger.Info("Received shutdown signal")
	logging.Boot("interrupted, closing browser")
	cancel()
	_ = engine.Close()
	fmt.Println(warnStyle.Render("\nInterrupted, browser closed."))
	flushLogs()
	exit(130)
}
