// Package browser is a thin facade over go-rod for filling web forms.
// Expected conditions (an element that never shows up, a click that never
// becomes possible) are reported as booleans; only a failure to start the
// driver is an error.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"jobfill/internal/logging"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/rod/lib/utils"
)

// ErrNotStarted reports use of an engine that was never started or has
// been closed.
var ErrNotStarted = errors.New("browser not started")

// stealthScript hides the automation marker before any page script runs.
const stealthScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

// Config holds browser configuration.
type Config struct {
	Headless          bool
	Bin               string   // Chrome binary; empty means look it up
	DebuggerURL       string   // attach to a running Chrome instead of launching
	UserDataDir       string   // profile directory, keeps login state between runs
	NoSandbox         bool
	Stealth           bool
	Flags             []string // extra launch flags, "--name=value" or "--name"
	ViewportWidth     int
	ViewportHeight    int
	ElementTimeout    time.Duration
	NavigationTimeout time.Duration
	ScreenshotDir     string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:          false,
		NoSandbox:         true,
		Stealth:           true,
		ViewportWidth:     1920,
		ViewportHeight:    1080,
		ElementTimeout:    15 * time.Second,
		NavigationTimeout: 30 * time.Second,
	}
}

// GetViewportWidth returns viewport width.
func (c Config) GetViewportWidth() int {
	if c.ViewportWidth <= 0 {
		return 1920
	}
	return c.ViewportWidth
}

// GetViewportHeight returns viewport height.
func (c Config) GetViewportHeight() int {
	if c.ViewportHeight <= 0 {
		return 1080
	}
	return c.ViewportHeight
}

func (c Config) elementTimeout() time.Duration {
	if c.ElementTimeout <= 0 {
		return 15 * time.Second
	}
	return c.ElementTimeout
}

func (c Config) navigationTimeout() time.Duration {
	if c.NavigationTimeout <= 0 {
		return 30 * time.Second
	}
	return c.NavigationTimeout
}

// Engine owns one Chrome instance and a single working page.
type Engine struct {
	cfg Config
	out io.Writer

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	attached bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithOutput sets where operator-facing driver messages are written.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.out = w
	}
}

// New creates an engine. Nothing is launched until Start.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg, out: io.Discard}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Start connects to DebuggerURL or launches a new Chrome and opens the
// working page. Calling Start on a started engine is a no-op.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.page != nil {
		return nil
	}

	controlURL := e.cfg.DebuggerURL
	e.attached = controlURL != ""
	if controlURL == "" {
		l := e.newLauncher()
		u, err := l.Context(ctx).Launch()
		if err != nil {
			e.say("failed to start browser: %v", err)
			e.say("make sure Chrome or Chromium is installed, or set browser.bin")
			return fmt.Errorf("launch chrome: %w", err)
		}
		e.launcher = l
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		e.killLauncherLocked()
		return fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		if !e.attached {
			_ = b.Close()
		}
		e.killLauncherLocked()
		return fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             e.cfg.GetViewportWidth(),
		Height:            e.cfg.GetViewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		logging.BrowserWarn("set viewport: %v", err)
	}

	if e.cfg.Stealth {
		if _, err := page.EvalOnNewDocument(stealthScript); err != nil {
			logging.BrowserWarn("install stealth script: %v", err)
		}
	}

	e.browser = b
	e.page = page
	logging.Browser("browser started (attached=%v headless=%v)", e.attached, e.cfg.Headless)
	e.say("browser started")
	return nil
}

func (e *Engine) newLauncher() *launcher.Launcher {
	l := launcher.New().Headless(e.cfg.Headless)

	bin := e.cfg.Bin
	if bin == "" {
		if path, ok := launcher.LookPath(); ok {
			bin = path
		}
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	if e.cfg.UserDataDir != "" {
		l = l.UserDataDir(e.cfg.UserDataDir).KeepUserDataDir()
	}
	if e.cfg.NoSandbox {
		l = l.NoSandbox(true)
	}
	l = l.Set(flags.Flag("disable-dev-shm-usage"))
	if e.cfg.Stealth {
		l = l.Delete(flags.Flag("enable-automation")).
			Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	}
	for _, raw := range e.cfg.Flags {
		name, val, hasVal := strings.Cut(strings.TrimLeft(raw, "-"), "=")
		if name == "" {
			continue
		}
		if hasVal {
			l = l.Set(flags.Flag(name), val)
		} else {
			l = l.Set(flags.Flag(name))
		}
	}
	return l
}

// Started reports whether the driver is running.
func (e *Engine) Started() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.page != nil
}

// Close closes the working page and the browser. A browser that was attached
// through DebuggerURL is left running. Close is safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browser == nil {
		return nil
	}

	var err error
	if e.attached {
		if e.page != nil {
			err = e.page.Close()
		}
	} else {
		err = e.browser.Close()
	}
	e.killLauncherLocked()

	e.page = nil
	e.browser = nil
	logging.Browser("browser closed")
	e.say("browser closed")
	return err
}

func (e *Engine) killLauncherLocked() {
	if e.launcher == nil {
		return
	}
	e.launcher.Cleanup()
	e.launcher = nil
}

// Page returns the working page.
func (e *Engine) Page() (*rod.Page, error) {
	return e.current()
}

func (e *Engine) current() (*rod.Page, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.page == nil {
		return nil, ErrNotStarted
	}
	return e.page, nil
}

// Navigate loads url and waits for the load event.
func (e *Engine) Navigate(ctx context.Context, url string) bool {
	page, err := e.current()
	if err != nil {
		e.say("navigation failed: %v", err)
		return false
	}

	p := page.Context(ctx).Timeout(e.cfg.navigationTimeout())
	defer p.CancelTimeout()

	if err := p.Navigate(url); err != nil {
		logging.BrowserError("navigate %s: %v", url, err)
		e.say("navigation failed: %v", err)
		return false
	}
	if err := p.WaitLoad(); err != nil {
		logging.BrowserWarn("wait load %s: %v", url, err)
	}
	logging.Browser("navigated to %s", url)
	e.say("opened %s", url)
	return true
}

// Find waits up to timeout for an element matching locator to be present in
// the document. A zero timeout uses the configured element timeout.
// Comma-joined selectors resolve to the first match in document order.
func (e *Engine) Find(ctx context.Context, locator string, timeout time.Duration) (*rod.Element, bool) {
	page, err := e.current()
	if err != nil {
		return nil, false
	}
	if timeout <= 0 {
		timeout = e.cfg.elementTimeout()
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := page.Context(waitCtx).Element(locator)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logging.BrowserDebug("element not found within %v: %s", timeout, locator)
		} else {
			logging.BrowserWarn("find %s: %v", locator, err)
		}
		return nil, false
	}
	return el.Context(ctx), true
}

// Exists reports whether locator matches right now, without waiting.
func (e *Engine) Exists(ctx context.Context, locator string) bool {
	page, err := e.current()
	if err != nil {
		return false
	}
	has, _, err := page.Context(ctx).Has(locator)
	return err == nil && has
}

// WaitFor waits up to timeout for locator to be present and reports whether
// it appeared.
func (e *Engine) WaitFor(ctx context.Context, locator string, timeout time.Duration) bool {
	if _, ok := e.Find(ctx, locator, timeout); !ok {
		e.say("timed out waiting for element: %s", locator)
		return false
	}
	return true
}

// WaitVisible waits up to timeout for locator to be present and visible.
func (e *Engine) WaitVisible(ctx context.Context, locator string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = e.cfg.elementTimeout()
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, ok := e.Find(waitCtx, locator, timeout)
	if !ok {
		return false
	}
	return el.WaitVisible() == nil
}

// Fill clears the element and types value into it. Locating and typing share
// the element timeout, so a disabled or read-only field fails instead of
// blocking.
func (e *Engine) Fill(ctx context.Context, locator, value string) bool {
	timeout := e.cfg.elementTimeout()
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, ok := e.Find(waitCtx, locator, timeout)
	if !ok {
		e.say("element not found: %s", locator)
		return false
	}
	if err := el.SelectAllText(); err != nil {
		logging.BrowserDebug("select text %s: %v", locator, err)
	}
	if err := el.Input(value); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("field not editable within %v", timeout)
		}
		logging.BrowserError("fill %s: %v", locator, err)
		e.say("fill failed %s: %v", locator, err)
		return false
	}
	logging.Browser("filled %s", locator)
	e.say("filled %s = %s", locator, value)
	return true
}

// Click waits until the element can receive a pointer event and clicks it.
func (e *Engine) Click(ctx context.Context, locator string) bool {
	timeout := e.cfg.elementTimeout()
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, ok := e.Find(waitCtx, locator, timeout)
	if !ok {
		e.say("element not clickable: %s", locator)
		return false
	}
	if _, err := el.WaitInteractable(); err != nil {
		logging.BrowserWarn("not interactable %s: %v", locator, err)
		e.say("element not clickable: %s", locator)
		return false
	}
	if err := el.Context(ctx).Click(proto.InputMouseButtonLeft, 1); err != nil {
		logging.BrowserError("click %s: %v", locator, err)
		e.say("click failed %s: %v", locator, err)
		return false
	}
	logging.Browser("clicked %s", locator)
	e.say("clicked %s", locator)
	return true
}

// Select picks the option of a <select> element whose visible text is value,
// falling back to the option whose value attribute is value.
func (e *Engine) Select(ctx context.Context, locator, value string) bool {
	el, ok := e.Find(ctx, locator, 0)
	if !ok {
		e.say("element not found: %s", locator)
		return false
	}

	// Select retries until an option matches, so bound each attempt.
	try := func(selectors []string, t rod.SelectorType) error {
		attemptCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		return el.Context(attemptCtx).Select(selectors, true, t)
	}

	if err := try([]string{value}, rod.SelectorTypeText); err != nil {
		byValue := fmt.Sprintf(`option[value="%s"]`, strings.ReplaceAll(value, `"`, `\"`))
		if err := try([]string{byValue}, rod.SelectorTypeCSSSector); err != nil {
			logging.BrowserError("select %s=%s: %v", locator, value, err)
			e.say("dropdown selection failed %s: %v", locator, err)
			return false
		}
	}
	logging.Browser("selected %s", locator)
	e.say("selected %s = %s", locator, value)
	return true
}

// ScrollTo scrolls the element into view.
func (e *Engine) ScrollTo(ctx context.Context, locator string) bool {
	el, ok := e.Find(ctx, locator, 0)
	if !ok {
		return false
	}
	if err := el.ScrollIntoView(); err != nil {
		logging.BrowserWarn("scroll to %s: %v", locator, err)
		return false
	}
	return e.Wait(ctx, 500*time.Millisecond) == nil
}

// Screenshot saves a PNG of the viewport. An empty path writes
// screenshot_<unix>.png into the configured screenshot directory. It returns
// the written path.
func (e *Engine) Screenshot(ctx context.Context, path string) (string, bool) {
	page, err := e.current()
	if err != nil {
		e.say("screenshot failed: %v", err)
		return "", false
	}
	if path == "" {
		path = ScreenshotName(e.cfg.ScreenshotDir, time.Now())
	}

	data, err := page.Context(ctx).Screenshot(false, nil)
	if err != nil {
		logging.BrowserError("screenshot: %v", err)
		e.say("screenshot failed: %v", err)
		return "", false
	}
	if err := utils.OutputFile(path, data); err != nil {
		logging.BrowserError("write screenshot %s: %v", path, err)
		e.say("screenshot failed: %v", err)
		return "", false
	}
	logging.Browser("screenshot saved to %s", path)
	e.say("screenshot saved: %s", path)
	return path, true
}

// ScreenshotName returns the default screenshot file name for t inside dir.
func ScreenshotName(dir string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("screenshot_%d.png", t.Unix()))
}

// CurrentURL returns the page URL, or "" when unavailable.
func (e *Engine) CurrentURL(ctx context.Context) string {
	info := e.info(ctx)
	if info == nil {
		return ""
	}
	return info.URL
}

// Title returns the page title, or "" when unavailable.
func (e *Engine) Title(ctx context.Context) string {
	info := e.info(ctx)
	if info == nil {
		return ""
	}
	return info.Title
}

func (e *Engine) info(ctx context.Context) *proto.TargetTargetInfo {
	page, err := e.current()
	if err != nil {
		return nil
	}
	info, err := page.Context(ctx).Info()
	if err != nil {
		return nil
	}
	return info
}

// Wait sleeps for d or until ctx is done.
func (e *Engine) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Engine) say(format string, args ...interface{}) {
	fmt.Fprintf(e.out, "[browser] "+format+"\n", args...)
}
