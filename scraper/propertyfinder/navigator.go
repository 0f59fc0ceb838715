package propertyfinder

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"propertyfinder-monitor/config"
	"propertyfinder-monitor/models"
	"propertyfinder-monitor/utils"
)

// Driver is the browser surface the navigator drives. *Session implements
// it; tests substitute a scripted fake.
type Driver interface {
	Navigate(ctx context.Context, url string) (status int, err error)
	Location(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
	WaitVisible(ctx context.Context, sel string, timeout time.Duration) error
	ScrollBy(ctx context.Context, pixels int) error
	Enabled(ctx context.Context, sel string) (bool, error)
	Click(ctx context.Context, sel string) error
}

type navState int

const (
	stateNavigate navState = iota
	stateDetect
	stateExtract
	statePaginate
	stateDone
	stateBlocked
	stateFailed
)

// blockMarkers are the phrases bot walls and rate limiters put on an
// interstitial page instead of results.
var blockMarkers = []string{
	"captcha",
	"robot",
	"blocked",
	"access denied",
	"429",
	"too many requests",
}

// BlockedPage reports whether rendered page content or the current URL
// indicates the client was blocked rather than served results.
func BlockedPage(content, pageURL string) bool {
	lower := strings.ToLower(content)
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return !strings.Contains(pageURL, "propertyfinder")
}

// Navigator walks the search results: load, detect blocking, scroll,
// extract, paginate. Pagination is strictly sequential and capped.
type Navigator struct {
	driver    Driver
	extractor *Extractor
	cfg       *config.Config

	// pause is swappable so tests run without real sleeps.
	pause func(min, max time.Duration)
}

func NewNavigator(driver Driver, extractor *Extractor, cfg *config.Config) *Navigator {
	return &Navigator{
		driver:    driver,
		extractor: extractor,
		cfg:       cfg,
		pause:     utils.RandomDelay,
	}
}

// FetchAll runs the state machine over up to MaxPages result pages and
// returns the extracted listings in page-visit order. A detected block
// yields an empty result and a nil error so the caller persists nothing.
// Navigation failures and unexpected statuses are run-level errors.
func (n *Navigator) FetchAll(ctx context.Context, searchURL string) ([]models.Listing, error) {
	var (
		listings []models.Listing
		pageNum  = 1
		state    = stateNavigate
		failErr  error
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run canceled: %w", err)
		}

		switch state {
		case stateNavigate:
			utils.Info("Opening %s", searchURL)
			status, err := n.driver.Navigate(ctx, searchURL)
			if err != nil {
				failErr = err
				state = stateFailed
				break
			}
			if status != 0 && status != http.StatusOK {
				failErr = fmt.Errorf("unexpected status %d for %s", status, searchURL)
				state = stateFailed
				break
			}
			n.pause(n.cfg.LoadDelayMin, n.cfg.LoadDelayMax)
			state = stateDetect

		case stateDetect:
			if n.blocked(ctx) {
				state = stateBlocked
				break
			}
			n.scroll(ctx)
			state = stateExtract

		case stateExtract:
			listings = append(listings, n.extractPage(ctx, pageNum)...)
			state = statePaginate

		case statePaginate:
			if pageNum >= n.cfg.MaxPages {
				state = stateDone
				break
			}
			enabled, err := n.driver.Enabled(ctx, SelectorNextPage)
			if err != nil || !enabled {
				state = stateDone
				break
			}
			if err := n.driver.Click(ctx, SelectorNextPage); err != nil {
				utils.Warn("Could not open page %d: %v", pageNum+1, err)
				state = stateDone
				break
			}
			pageNum++
			utils.Info("Going to page %d...", pageNum)
			n.pause(n.cfg.PageDelayMin, n.cfg.PageDelayMax)
			n.scroll(ctx)
			state = stateExtract

		case stateBlocked:
			utils.Warn("Possible bot detection triggered; returning nothing")
			return nil, nil

		case stateFailed:
			return nil, failErr

		case stateDone:
			utils.Success("Collected %d listings from %d page(s)", len(listings), pageNum)
			return listings, nil
		}
	}
}

// blocked checks the rendered page for a bot wall. Any failure to read
// the page or its URL is treated as blocked.
func (n *Navigator) blocked(ctx context.Context) bool {
	content, err := n.driver.HTML(ctx)
	if err != nil {
		return true
	}
	loc, err := n.driver.Location(ctx)
	if err != nil {
		return true
	}
	return BlockedPage(content, loc)
}

// scroll nudges the page down in a few randomized steps so lazy content
// loads the way it would for a human reader.
func (n *Navigator) scroll(ctx context.Context) {
	steps := utils.RandomBetween(3, 7)
	for i := 0; i < steps; i++ {
		if err := n.driver.ScrollBy(ctx, utils.RandomBetween(300, 800)); err != nil {
			return
		}
		n.pause(500*time.Millisecond, 1500*time.Millisecond)
	}
}

// extractPage waits for cards, then parses the rendered page. A wait
// timeout yields an empty page; pagination is still evaluated.
func (n *Navigator) extractPage(ctx context.Context, pageNum int) []models.Listing {
	if err := n.driver.WaitVisible(ctx, n.extractor.Selector(), n.cfg.CardTimeout); err != nil {
		utils.Warn("No cards on page %d: %v", pageNum, err)
		return nil
	}
	html, err := n.driver.HTML(ctx)
	if err != nil {
		utils.Warn("Could not read page %d: %v", pageNum, err)
		return nil
	}
	pageListings, err := n.extractor.Extract(html)
	if err != nil {
		utils.Warn("Could not parse page %d: %v", pageNum, err)
		return nil
	}
	utils.Info("Found %d listings on page %d", len(pageListings), pageNum)
	return pageListings
}
