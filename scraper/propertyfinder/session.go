package propertyfinder

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"propertyfinder-monitor/config"
	"propertyfinder-monitor/utils"
)

// Dubai city centre, matching the timezone and locale overrides below.
const (
	dubaiLatitude  = 25.2048
	dubaiLongitude = 55.2708
)

// Session is one stealth browser tab. The same tab is reused for the
// whole run so clicked pagination state survives between operations.
type Session struct {
	cfg         *config.Config
	allocCancel context.CancelFunc
	tab         context.Context
	tabCancel   context.CancelFunc
}

// NewSession launches Chrome with the stealth flags, opens a tab, and
// primes it: the automation-hiding script runs before any page script,
// and timezone, locale and geolocation match the target market.
func NewSession(cfg *config.Config) (*Session, error) {
	utils.Info("Launching Chrome browser...")
	allocCtx, allocCancel := chromedp.NewExecAllocator(
		context.Background(),
		utils.StealthOpts(cfg.Headless)...,
	)
	tab, tabCancel := chromedp.NewContext(allocCtx)

	bootCtx, cancel := context.WithTimeout(tab, 30*time.Second)
	defer cancel()

	err := chromedp.Run(bootCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(utils.StealthScript).Do(ctx)
			return err
		}),
		emulation.SetTimezoneOverride("Asia/Dubai"),
		emulation.SetLocaleOverride().WithLocale("en-US"),
		emulation.SetGeolocationOverride().
			WithLatitude(dubaiLatitude).
			WithLongitude(dubaiLongitude).
			WithAccuracy(100),
	)
	if err != nil {
		tabCancel()
		allocCancel()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	utils.Success("Browser ready")
	return &Session{
		cfg:         cfg,
		allocCancel: allocCancel,
		tab:         tab,
		tabCancel:   tabCancel,
	}, nil
}

// Close releases the tab first, then the browser process.
func (s *Session) Close() {
	utils.Info("Closing browser...")
	s.tabCancel()
	s.allocCancel()
}

// opCtx bounds one browser operation: the given timeout, shrunk to the
// caller's deadline when that is sooner.
func (s *Session) opCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return context.WithDeadline(s.tab, deadline)
}

// Navigate loads pageURL in the session tab and reports the HTTP status
// of the main document. A zero status means the navigation produced no
// response.
func (s *Session) Navigate(ctx context.Context, pageURL string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	runCtx, cancel := s.opCtx(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	resp, err := chromedp.RunResponse(runCtx, chromedp.Navigate(pageURL))
	if err != nil {
		return 0, fmt.Errorf("navigation failed: %w", err)
	}
	if resp == nil {
		return 0, nil
	}
	return int(resp.Status), nil
}

// Location returns the tab's current URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	runCtx, cancel := s.opCtx(ctx, 10*time.Second)
	defer cancel()

	var loc string
	if err := chromedp.Run(runCtx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("could not read location: %w", err)
	}
	return loc, nil
}

// HTML returns the full rendered document markup.
func (s *Session) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	runCtx, cancel := s.opCtx(ctx, 15*time.Second)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("could not read page: %w", err)
	}
	return html, nil
}

// WaitVisible blocks until sel is visible or the timeout passes.
func (s *Session) WaitVisible(ctx context.Context, sel string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := s.opCtx(ctx, timeout)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.WaitVisible(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("%s not visible: %w", sel, err)
	}
	return nil
}

// ScrollBy scrolls the page down by the given number of pixels.
func (s *Session) ScrollBy(ctx context.Context, pixels int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := s.opCtx(ctx, 10*time.Second)
	defer cancel()

	script := fmt.Sprintf(`window.scrollBy(0, %d)`, pixels)
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return nil
}

// Enabled reports whether sel matches an element that is present and not
// disabled. A missing element is reported as not enabled, not an error.
func (s *Session) Enabled(ctx context.Context, sel string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	runCtx, cancel := s.opCtx(ctx, 10*time.Second)
	defer cancel()

	script := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return false;
		return !el.disabled && !el.hasAttribute('disabled');
	})()`, sel)

	var enabled bool
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &enabled)); err != nil {
		return false, fmt.Errorf("could not inspect %s: %w", sel, err)
	}
	return enabled, nil
}

// Click clicks the first element matching sel.
func (s *Session) Click(ctx context.Context, sel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := s.opCtx(ctx, 15*time.Second)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("could not click %s: %w", sel, err)
	}
	return nil
}
