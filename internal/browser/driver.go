// Package browser implements the Headless Browser Driver (C2): a single
// shared browser instance, context, and page, created lazily on first use
// and reused across calls, serialized by a mutex so exactly one navigation
// or postback is in flight at a time.
//
// Grounded on domwatch/internal/browser/manager.go and tab.go's Rod +
// stealth wiring, trimmed to the single-page model spec.md §4.2 calls for:
// no memory monitor, no time-based recycling, no Xvfb headful mode, no
// multi-tab pool. Only the procurement-authority adapter uses this driver.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultTimeout is the per-operation deadline for navigation and selector
// waits, per spec.md §4.2/§5.
const DefaultTimeout = 60 * time.Second

// Config configures the Driver.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance. Empty
	// launches a local headless Chrome via launcher.
	RemoteURL string
	Logger    *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Driver owns one browser, one context/page, created lazily. All exported
// methods take the driver's mutex, so exactly one operation is in flight at
// any time (spec.md §4.2's concurrency rule).
type Driver struct {
	cfg Config
	mu  sync.Mutex

	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
}

// New builds a Driver. The browser process is not started until the first
// call that needs it.
func New(cfg Config) *Driver {
	cfg.defaults()
	return &Driver{cfg: cfg}
}

// EnsureReady launches the browser and opens a fresh stealth page if none
// exists yet, and returns the live page.
func (d *Driver) EnsureReady(ctx context.Context) (*rod.Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ensureReadyLocked(ctx)
}

func (d *Driver) ensureReadyLocked(ctx context.Context) (*rod.Page, error) {
	if d.browser == nil {
		b, err := d.launch()
		if err != nil {
			return nil, err
		}
		d.browser = b
	}
	if d.page == nil {
		p, err := stealth.Page(d.browser)
		if err != nil {
			return nil, fmt.Errorf("browser: open page: %w", err)
		}
		d.page = p
	}
	return d.page, nil
}

func (d *Driver) launch() (*rod.Browser, error) {
	log := d.cfg.Logger

	var wsURL string
	if d.cfg.RemoteURL != "" {
		wsURL = d.cfg.RemoteURL
		log.Info("browser: connecting to remote", "url", wsURL)
	} else {
		l := launcher.New().Headless(true).Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch: %w", err)
		}
		wsURL = u
		d.lnch = l
		log.Info("browser: launched local chrome", "url", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	if err := b.IgnoreCertErrors(true); err != nil {
		log.Warn("browser: ignore cert errors failed", "error", err)
	}
	return b, nil
}

// Navigate loads url on the shared page and waits for load. On failure the
// page is closed and reset so the next call gets a fresh one, but the
// browser/context is kept (spec.md §4.2).
func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	page, err := d.ensureReadyLocked(ctx)
	if err != nil {
		return err
	}

	navCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		d.resetPageLocked()
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		d.cfg.Logger.Warn("browser: wait load timeout", "url", url, "error", err)
	}
	return nil
}

// Fill sets the value of a form field matched by selector.
func (d *Driver) Fill(ctx context.Context, selector, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	page, err := d.ensureReadyLocked(ctx)
	if err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	el, err := page.Context(opCtx).Element(selector)
	if err != nil {
		return fmt.Errorf("browser: find %s: %w", selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("browser: select text in %s: %w", selector, err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("browser: fill %s: %w", selector, err)
	}
	return nil
}

// Click clicks the element matched by selector.
func (d *Driver) Click(ctx context.Context, selector string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	page, err := d.ensureReadyLocked(ctx)
	if err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	el, err := page.Context(opCtx).Element(selector)
	if err != nil {
		return fmt.Errorf("browser: find %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("browser: click %s: %w", selector, err)
	}
	return nil
}

// EvalPostback runs a JavaScript expression against the live page — the
// usual shape is __doPostBack('target', 'argument') — and waits for the
// resulting page reload.
func (d *Driver) EvalPostback(ctx context.Context, script string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	page, err := d.ensureReadyLocked(ctx)
	if err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	if _, err := page.Context(opCtx).Eval(script); err != nil {
		return fmt.Errorf("browser: eval postback: %w", err)
	}
	if err := page.Context(opCtx).WaitLoad(); err != nil {
		d.cfg.Logger.Warn("browser: postback wait load timeout", "error", err)
	}
	return nil
}

// WaitForSelector blocks until selector reaches the given state ("visible"
// or "attached") or the timeout expires.
func (d *Driver) WaitForSelector(ctx context.Context, selector, state string, timeout time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	page, err := d.ensureReadyLocked(ctx)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	el, err := page.Context(opCtx).Element(selector)
	if err != nil {
		return fmt.Errorf("browser: wait for %s: %w", selector, err)
	}
	switch state {
	case "visible":
		return el.Context(opCtx).WaitVisible()
	default:
		return nil
	}
}

// Content returns the current page's full outer HTML.
func (d *Driver) Content(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	page, err := d.ensureReadyLocked(ctx)
	if err != nil {
		return "", err
	}
	opCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	res, err := page.Context(opCtx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: get content: %w", err)
	}
	return res.Value.Str(), nil
}

// OpenChildPage opens url (typically an iframe modal target) on a fresh
// page sharing the same browser/context, navigates, and returns its
// rendered content. The child page is closed before returning.
func (d *Driver) OpenChildPage(ctx context.Context, url string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.browser == nil {
		if _, err := d.ensureReadyLocked(ctx); err != nil {
			return "", err
		}
	}

	child, err := stealth.Page(d.browser)
	if err != nil {
		return "", fmt.Errorf("browser: open child page: %w", err)
	}
	defer child.Close()

	navCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	if err := child.Context(navCtx).Navigate(url); err != nil {
		return "", fmt.Errorf("browser: navigate child %s: %w", url, err)
	}
	if err := child.Context(navCtx).WaitLoad(); err != nil {
		d.cfg.Logger.Warn("browser: child wait load timeout", "url", url, "error", err)
	}

	res, err := child.Context(navCtx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: get child content: %w", err)
	}
	return res.Value.Str(), nil
}

// resetPageLocked closes the current page on navigation failure and clears
// it so the next call opens a fresh one, keeping the browser/context alive.
// Must be called with d.mu held.
func (d *Driver) resetPageLocked() {
	if d.page != nil {
		d.page.Close()
		d.page = nil
	}
}

// Close shuts down the page, then the browser. Best-effort: errors from
// intermediate steps are not fatal to the overall close.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.page != nil {
		d.page.Close()
		d.page = nil
	}
	var err error
	if d.browser != nil {
		err = d.browser.Close()
		d.browser = nil
	}
	if d.lnch != nil {
		d.lnch.Cleanup()
		d.lnch = nil
	}
	return err
}
