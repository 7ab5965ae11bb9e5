// CLAUDE:SUMMARY Chrome renderer on Rod: lazy launch, stealth pages, navigation timeout, age-based recycle.
// Package render drives headless Chrome through Rod to produce the full
// rendered DOM of a page. It is the only network-touching component; the
// service above serializes calls so a single Chrome session is enough.
package render

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

// Config configures the browser renderer.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local headless Chrome via launcher.
	RemoteURL string

	// UserAgent overrides the browser user agent on every page.
	UserAgent string

	// NavTimeout bounds navigation plus load wait. Default: 30s.
	NavTimeout time.Duration

	// RecycleAfter is the maximum lifetime of a Chrome process before it
	// is relaunched on the next render. Default: 4h.
	RecycleAfter time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.RecycleAfter <= 0 {
		c.RecycleAfter = 4 * time.Hour
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Browser renders pages with a lazily launched Chrome. Safe for
// sequential use; callers wanting concurrency must serialize externally.
type Browser struct {
	cfg Config

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	startAt time.Time
	closed  bool
}

// New creates a Browser. Chrome is launched on the first Render call.
func New(cfg Config) *Browser {
	cfg.defaults()
	return &Browser{cfg: cfg}
}

// Render navigates to pageURL with a fresh stealth page, waits for load,
// and returns the serialized DOM. A loaded-but-empty page returns empty
// bytes with a nil error; navigation and timeout failures return an error.
func (b *Browser) Render(ctx context.Context, pageURL string) ([]byte, error) {
	br, err := b.acquire()
	if err != nil {
		return nil, err
	}

	page, err := stealth.Page(br)
	if err != nil {
		return nil, fmt.Errorf("render: create page: %w", err)
	}
	defer page.Close()

	if b.cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.cfg.UserAgent}); err != nil {
			return nil, fmt.Errorf("render: set user agent: %w", err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, b.cfg.NavTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("render: navigate %s: %w", pageURL, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		b.cfg.Logger.Warn("render: wait load timeout", "url", pageURL, "error", err)
	}

	res, err := page.Context(navCtx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("render: serialize DOM: %w", err)
	}
	return []byte(res.Value.Str()), nil
}

// Close shuts down Chrome. The Browser cannot be reused afterwards.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return b.cleanupLocked()
}

// acquire returns a live Chrome handle, launching or recycling as needed.
func (b *Browser) acquire() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("render: browser is closed")
	}

	if b.browser != nil && time.Since(b.startAt) > b.cfg.RecycleAfter {
		b.cfg.Logger.Info("render: recycling chrome", "uptime", time.Since(b.startAt))
		if err := b.cleanupLocked(); err != nil {
			b.cfg.Logger.Warn("render: cleanup during recycle", "error", err)
		}
	}

	if b.browser != nil {
		return b.browser, nil
	}

	br, err := b.launchLocked()
	if err != nil {
		return nil, err
	}
	b.browser = br
	b.startAt = time.Now()
	return br, nil
}

func (b *Browser) launchLocked() (*rod.Browser, error) {
	log := b.cfg.Logger
	var wsURL string

	if b.cfg.RemoteURL != "" {
		wsURL = b.cfg.RemoteURL
		log.Info("render: connecting to remote chrome", "url", wsURL)
	} else {
		l := launcher.New().
			Headless(true).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("render: launch: %w", err)
		}
		wsURL = u
		b.lnch = l
		log.Info("render: launched local chrome")
	}

	br := rod.New().ControlURL(wsURL)
	if err := br.Connect(); err != nil {
		return nil, fmt.Errorf("render: connect: %w", err)
	}
	return br, nil
}

func (b *Browser) cleanupLocked() error {
	if b.browser != nil {
		b.browser.Close()
		b.browser = nil
	}
	if b.lnch != nil {
		b.lnch.Cleanup()
		b.lnch = nil
	}
	return nil
}
