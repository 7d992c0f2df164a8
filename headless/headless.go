// Package headless manages the shared headless Chrome instance behind the
// PDF rasterizer and the diagram renderer: lazy launch, connect via Rod,
// transparent reuse, cleanup on close. No window is ever shown.
package headless

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Config configures the browser.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	RemoteURL string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Browser is a lazily started headless Chrome handle. Safe for concurrent
// use; the underlying Chrome is launched on first Page call.
type Browser struct {
	cfg Config

	mu      sync.Mutex
	browser *rod.Browser
	lnch    *launcher.Launcher
	closed  bool
}

// New creates a Browser. Chrome is not launched until first use.
func New(cfg Config) *Browser {
	cfg.defaults()
	return &Browser{cfg: cfg}
}

// Page opens a blank page, launching or connecting to Chrome on first
// use. The caller must Close the page when done.
func (b *Browser) Page(ctx context.Context) (*rod.Page, error) {
	br, err := b.connect()
	if err != nil {
		return nil, err
	}
	page, err := br.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("headless: new page: %w", err)
	}
	return page.Context(ctx), nil
}

func (b *Browser) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, fmt.Errorf("headless: browser is closed")
	}
	if b.browser != nil {
		return b.browser, nil
	}

	log := b.cfg.Logger
	var wsURL string

	if b.cfg.RemoteURL != "" {
		wsURL = b.cfg.RemoteURL
		log.Info("headless: connecting to remote chrome", "url", wsURL)
	} else {
		l := launcher.New().Headless(true)
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("headless: launch: %w", err)
		}
		wsURL = u
		b.lnch = l
		log.Info("headless: launched local chrome")
	}

	br := rod.New().ControlURL(wsURL)
	if err := br.Connect(); err != nil {
		return nil, fmt.Errorf("headless: connect: %w", err)
	}
	b.browser = br
	return br, nil
}

// Eval loads pageHTML in a fresh off-screen page, waits for it to load,
// runs js (a function expression; promises are awaited) with args, and
// returns the string result. The page is closed before returning.
func (b *Browser) Eval(ctx context.Context, pageHTML, js string, args ...any) (string, error) {
	page, err := b.Page(ctx)
	if err != nil {
		return "", err
	}
	defer page.Close()

	if err := page.SetDocumentContent(pageHTML); err != nil {
		return "", fmt.Errorf("headless: set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("headless: wait load: %w", err)
	}

	res, err := page.Eval(js, args...)
	if err != nil {
		return "", fmt.Errorf("headless: eval: %w", err)
	}
	return res.Value.Str(), nil
}

// Close shuts down Chrome. Subsequent Page calls fail.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
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
