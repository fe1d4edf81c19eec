package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/dumpchat"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Ensure BrowserManager implements dumpchat.Browser at compile time.
var _ dumpchat.Browser = (*BrowserManager)(nil)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// BrowserManager opens conversation pages in Chrome. It either launches its
// own browser, recycling it after maxPages pages, or attaches to a running
// Chrome through its DevTools URL. An attached browser is where the user is
// signed in, so it is never recycled or closed, and a tab already showing
// the requested URL is reused as is.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	browser    *rod.Browser
	launcher   *launcher.Launcher
	controlURL string
	headless   bool
	stealth    bool
	pageCount  int64
	maxPages   int64
	mu         sync.Mutex
	closed     atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the maximum number of pages before a launched browser is
// recycled. Defaults to 75 if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithControlURL attaches to the browser at the given DevTools URL instead
// of launching one.
func WithControlURL(u string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.controlURL = u
	}
}

// WithHeadless controls whether a launched browser shows a window.
// Defaults to true.
func WithHeadless(headless bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.headless = headless
	}
}

// WithStealth opens new pages with automation fingerprints masked.
func WithStealth(enabled bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.stealth = enabled
	}
}

// NewBrowserManager creates a BrowserManager and starts or attaches to its
// browser. Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		headless: true,
	}
	for _, opt := range opts {
		opt(bm)
	}

	if err := bm.connect(); err != nil {
		return nil, err
	}

	return bm, nil
}

// Browser returns the current browser instance, recycling a launched browser
// once the page count has reached maxPages.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.controlURL == "" && atomic.LoadInt64(&bm.pageCount) >= bm.maxPages {
		bm.recycleBrowser()
	}

	return bm.browser
}

// IncrementPageCount increments the page counter toward the recycling
// threshold.
func (bm *BrowserManager) IncrementPageCount() {
	atomic.AddInt64(&bm.pageCount, 1)
}

// OpenPage returns a loaded page showing pageURL. On an attached browser an
// open tab at pageURL is used without navigating, so the conversation the
// user already has on screen is extracted as rendered.
func (bm *BrowserManager) OpenPage(ctx context.Context, pageURL string) (dumpchat.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bm.closed.Load() {
		return nil, dumpchat.Errorf(dumpchat.EINVALID, "browser is closed")
	}

	browser := bm.Browser()
	if bm.controlURL != "" {
		existing, err := findTab(browser, pageURL)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return NewPage(existing, false), nil
		}
	}

	var (
		page *rod.Page
		err  error
	)
	if bm.stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}

	if err := page.Context(ctx).Navigate(pageURL); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigating to %s: %w", pageURL, err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("waiting for %s: %w", pageURL, err)
	}
	bm.IncrementPageCount()

	return NewPage(page, true), nil
}

// findTab returns the open tab whose URL is pageURL, or nil.
func findTab(browser *rod.Browser, pageURL string) (*rod.Page, error) {
	pages, err := browser.Pages()
	if err != nil {
		return nil, fmt.Errorf("listing tabs: %w", err)
	}
	for _, p := range pages {
		info, err := p.Info()
		if err != nil {
			continue
		}
		if info.Type == proto.TargetTargetInfoTypePage && info.URL == pageURL {
			return p, nil
		}
	}
	return nil, nil
}

// Close releases browser resources. An attached browser is left running.
// Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.controlURL != "" {
		bm.browser = nil
		return nil
	}
	return bm.closeBrowser()
}

// connect attaches to controlURL or launches a browser.
func (bm *BrowserManager) connect() error {
	if bm.controlURL == "" {
		return bm.launchBrowser()
	}

	u, err := launcher.ResolveURL(bm.controlURL)
	if err != nil {
		return dumpchat.Errorf(dumpchat.EINVALID, "invalid control URL %q: %v", bm.controlURL, err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("attaching to browser: %w", err)
	}
	bm.browser = browser
	return nil
}

// launchBrowser starts a new browser instance with stability flags.
func (bm *BrowserManager) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-blink-features", "AutomationControlled").
		Leakless(true).
		Headless(bm.headless)

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser = browser
	bm.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (bm *BrowserManager) closeBrowser() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycleBrowser starts a fresh browser and closes the old one.
// If launching the new browser fails, the old browser is kept.
// Must be called with mu held.
func (bm *BrowserManager) recycleBrowser() {
	oldBrowser := bm.browser
	oldLauncher := bm.launcher
	bm.browser = nil
	bm.launcher = nil

	if err := bm.launchBrowser(); err != nil {
		bm.browser = oldBrowser
		bm.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	atomic.StoreInt64(&bm.pageCount, 0)
}

// LauncherPID returns the process ID of the browser launcher, or 0 for an
// attached browser. This method exists for testing purposes to verify
// proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}
