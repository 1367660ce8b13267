// Package filler walks a table of field descriptors, resolves a value for
// each from the settings store and types it into the page. A field that
// cannot be found or filled is skipped; there is no rollback.
package filler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"jobfill/internal/logging"
)

// ErrNavigationFailed is returned when the page to fill could not be opened.
var ErrNavigationFailed = errors.New("navigation failed")

// DefaultBaseURL is the site opened for login.
const DefaultBaseURL = "https://www.zhipin.com"

// Driver is the browser surface the filler needs.
type Driver interface {
	Start(ctx context.Context) error
	Close() error
	Navigate(ctx context.Context, url string) bool
	WaitFor(ctx context.Context, locator string, timeout time.Duration) bool
	Fill(ctx context.Context, locator, value string) bool
	Screenshot(ctx context.Context, path string) (string, bool)
	Wait(ctx context.Context, d time.Duration) error
}

// Resolver supplies values for descriptors, asking the operator when needed.
type Resolver interface {
	Resolve(section, key, prompt string) (string, error)
	ResolveOptional(section, key, prompt string) (string, error)
}

// Prompter pauses for operator acknowledgement.
type Prompter interface {
	Ask(prompt string) (string, error)
}

// Filler fills forms through a Driver with values from a Resolver.
type Filler struct {
	driver     Driver
	values     Resolver
	prompter   Prompter
	out        io.Writer
	baseURL    string
	fillDelay  time.Duration
	pageSettle time.Duration
}

// Option configures a Filler.
type Option func(*Filler)

// WithOutput sets the operator console.
func WithOutput(w io.Writer) Option {
	return func(f *Filler) { f.out = w }
}

// WithBaseURL sets the site opened by Run.
func WithBaseURL(u string) Option {
	return func(f *Filler) { f.baseURL = u }
}

// WithFillDelay sets the pause after each successful fill.
func WithFillDelay(d time.Duration) Option {
	return func(f *Filler) { f.fillDelay = d }
}

// WithPageSettle sets the pause after FillPage navigates.
func WithPageSettle(d time.Duration) Option {
	return func(f *Filler) { f.pageSettle = d }
}

// New creates a Filler.
func New(driver Driver, values Resolver, prompter Prompter, opts ...Option) *Filler {
	f := &Filler{
		driver:     driver,
		values:     values,
		prompter:   prompter,
		out:        io.Discard,
		baseURL:    DefaultBaseURL,
		fillDelay:  500 * time.Millisecond,
		pageSettle: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Apply fills descriptors in order. Each field is independent: a missing
// element, a blank optional value or a failed fill is recorded and skipped.
// The only errors are context cancellation and an aborted operator prompt,
// in which case the partial report is returned with the error.
func (f *Filler) Apply(ctx context.Context, fields []Descriptor) (Report, error) {
	report := newReport()
	err := f.apply(ctx, fields, &report)
	return report, err
}

func (f *Filler) apply(ctx context.Context, fields []Descriptor, report *Report) error {
	log := logging.Get(logging.CategoryFiller).With("run", report.RunID)

	for _, d := range fields {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !f.driver.WaitFor(ctx, d.Locator, 0) {
			if err := ctx.Err(); err != nil {
				return err
			}
			f.say("[skip] field not found: %s", d.Key)
			log.Debug("not found %s.%s", d.Section, d.Key)
			report.add(d, StatusNotFound, d.Locator)
			continue
		}

		value, err := f.resolve(d)
		if err != nil {
			return fmt.Errorf("resolve %s.%s: %w", d.Section, d.Key, err)
		}
		if value == "" {
			f.say("[skip] field is empty: %s", d.Key)
			report.add(d, StatusEmpty, "")
			continue
		}

		if !f.driver.Fill(ctx, d.Locator, value) {
			if err := ctx.Err(); err != nil {
				return err
			}
			f.say("[skip] could not fill field: %s", d.Key)
			log.Warn("fill failed %s.%s", d.Section, d.Key)
			report.add(d, StatusFillFailed, d.Locator)
			continue
		}

		report.add(d, StatusFilled, "")
		log.Info("filled %s.%s", d.Section, d.Key)
		if err := f.driver.Wait(ctx, f.fillDelay); err != nil {
			return err
		}
	}
	return nil
}

func (f *Filler) resolve(d Descriptor) (string, error) {
	if d.Required {
		return f.values.Resolve(d.Section, d.Key, d.Prompt)
	}
	return f.values.ResolveOptional(d.Section, d.Key, d.Prompt)
}

// FillGroups applies each group in order under a heading.
func (f *Filler) FillGroups(ctx context.Context, groups []Group) (Report, error) {
	report := newReport()
	for _, g := range groups {
		f.say("\n--- %s ---", g.Title)
		if err := f.apply(ctx, g.Fields, &report); err != nil {
			return report, err
		}
	}
	logging.Filler("run %s: %s", report.RunID, report.Summary())
	return report, nil
}

// FillPage opens url, lets it settle and fills groups.
func (f *Filler) FillPage(ctx context.Context, url string, groups []Group) (Report, error) {
	f.say("opening page: %s", url)
	if !f.driver.Navigate(ctx, url) {
		if err := ctx.Err(); err != nil {
			return newReport(), err
		}
		return newReport(), fmt.Errorf("%w: %s", ErrNavigationFailed, url)
	}
	if err := f.driver.Wait(ctx, f.pageSettle); err != nil {
		return newReport(), err
	}
	return f.FillGroups(ctx, groups)
}

// RunOptions controls Run.
type RunOptions struct {
	// URL is opened for login; empty means the base URL.
	URL string
	// PageURL, when set, is opened after login and filled instead of the
	// page the operator navigated to.
	PageURL string
	// SkipConfirm skips both operator pauses.
	SkipConfirm bool
	// Screenshot saves a screenshot after filling.
	Screenshot bool
	// Groups to fill; nil means DefaultForm.
	Groups []Group
}

// Run is the end-to-end flow: start the browser, open the site, wait for
// the operator to log in and open the resume editor, fill every group and
// close the browser. The browser is closed on every exit path.
func (f *Filler) Run(ctx context.Context, opts RunOptions) (Report, error) {
	timer := logging.StartTimer(logging.CategoryFiller, "fill run")
	defer timer.Stop()

	groups := opts.Groups
	if groups == nil {
		groups = DefaultForm()
	}
	url := opts.URL
	if url == "" {
		url = f.baseURL
	}

	f.say("=== Resume auto-fill ===")
	if err := f.driver.Start(ctx); err != nil {
		return newReport(), fmt.Errorf("start browser: %w", err)
	}
	defer func() {
		if err := f.driver.Close(); err != nil {
			logging.FillerWarn("close browser: %v", err)
		}
	}()

	f.say("1. The browser opens %s", url)
	f.say("2. Log in to your account manually")
	f.say("3. Open the resume editing page")
	f.say("4. Come back here and press Enter to start filling")
	if !f.driver.Navigate(ctx, url) {
		if err := ctx.Err(); err != nil {
			return newReport(), err
		}
		logging.FillerWarn("could not open %s, continuing", url)
	}

	if !opts.SkipConfirm {
		if _, err := f.ask("Finish logging in and open the resume editor, then press Enter..."); err != nil {
			return newReport(), err
		}
	}

	var (
		report Report
		err    error
	)
	if opts.PageURL != "" {
		report, err = f.FillPage(ctx, opts.PageURL, groups)
	} else {
		report, err = f.FillGroups(ctx, groups)
	}
	if err != nil {
		return report, err
	}

	f.say("\n=== Done: %s ===", report.Summary())
	if opts.Screenshot {
		if path, ok := f.driver.Screenshot(ctx, ""); ok {
			report.Screenshot = path
			f.say("Screenshot saved: %s", path)
		} else {
			logging.FillerWarn("screenshot after fill run %s failed", report.RunID)
			f.say("Screenshot could not be saved.")
		}
	}
	f.say("Check the page and edit anything that needs fixing.")
	if !opts.SkipConfirm {
		// An aborted prompt here only means close now.
		_, _ = f.ask("Press Enter to close the browser...")
	}
	return report, nil
}

func (f *Filler) ask(prompt string) (string, error) {
	if f.prompter == nil {
		return "", nil
	}
	return f.prompter.Ask(prompt)
}

func (f *Filler) say(format string, args ...interface{}) {
	fmt.Fprintf(f.out, format+"\n", args...)
}
