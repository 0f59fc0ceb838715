package propertyfinder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propertyfinder-monitor/config"
)

// fakeDriver scripts the browser surface: pages holds the HTML served
// per pagination step, and Click advances through them.
type fakeDriver struct {
	status      int
	navErr      error
	location    string
	locErr      error
	htmlErr     error
	waitErr     error
	nextEnabled bool
	enabledErr  error
	clickErr    error

	pages   []string
	current int

	navigates int
	waits     int
	clicks    int
}

func (d *fakeDriver) Navigate(_ context.Context, _ string) (int, error) {
	d.navigates++
	if d.navErr != nil {
		return 0, d.navErr
	}
	if d.status == 0 {
		return 200, nil
	}
	return d.status, nil
}

func (d *fakeDriver) Location(_ context.Context) (string, error) {
	if d.locErr != nil {
		return "", d.locErr
	}
	if d.location == "" {
		return "https://www.propertyfinder.ae/en/search", nil
	}
	return d.location, nil
}

func (d *fakeDriver) HTML(_ context.Context) (string, error) {
	if d.htmlErr != nil {
		return "", d.htmlErr
	}
	if d.current < len(d.pages) {
		return d.pages[d.current], nil
	}
	return "<html><body></body></html>", nil
}

func (d *fakeDriver) WaitVisible(_ context.Context, _ string, _ time.Duration) error {
	d.waits++
	return d.waitErr
}

func (d *fakeDriver) ScrollBy(_ context.Context, _ int) error { return nil }

func (d *fakeDriver) Enabled(_ context.Context, _ string) (bool, error) {
	if d.enabledErr != nil {
		return false, d.enabledErr
	}
	return d.nextEnabled, nil
}

func (d *fakeDriver) Click(_ context.Context, _ string) error {
	if d.clickErr != nil {
		return d.clickErr
	}
	d.clicks++
	if d.current < len(d.pages)-1 {
		d.current++
	}
	return nil
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.MaxPages = 3
	cfg.CardTimeout = 50 * time.Millisecond
	return cfg
}

func newTestNavigator(d Driver, cfg *config.Config) *Navigator {
	n := NewNavigator(d, newTestExtractor(), cfg)
	n.pause = func(_, _ time.Duration) {}
	return n
}

func unitPage(ids ...string) string {
	cards := make([]string, len(ids))
	for i, id := range ids {
		cards[i] = cardFixture{
			href:  "/en/plp/unit-" + id + ".html",
			title: "Unit " + id,
			price: "1,500,000 AED",
			area:  "800 sqft",
			beds:  "1 BR",
			baths: "1 Bath",
		}.html()
	}
	return resultsPage(cards...)
}

func TestFetchAllPaginatesToCap(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{
		nextEnabled: true,
		pages: []string{
			unitPage("1", "2"),
			unitPage("3"),
			unitPage("4"),
			unitPage("5"),
		},
	}
	nav := newTestNavigator(driver, testConfig())

	listings, err := nav.FetchAll(context.Background(), "https://www.propertyfinder.ae/en/search")
	require.NoError(t, err)

	var ids []string
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
	assert.Equal(t, 2, driver.clicks)
	assert.Equal(t, 3, driver.waits)
	assert.Equal(t, 1, driver.navigates)
}

func TestFetchAllStopsWhenNextDisabled(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{
		nextEnabled: false,
		pages:       []string{unitPage("1", "2")},
	}
	nav := newTestNavigator(driver, testConfig())

	listings, err := nav.FetchAll(context.Background(), "https://www.propertyfinder.ae/en/search")
	require.NoError(t, err)
	assert.Len(t, listings, 2)
	assert.Equal(t, 0, driver.clicks)
}

func TestFetchAllBlockedContent(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{
		pages: []string{`<html><body><h1>Please complete the CAPTCHA to continue</h1></body></html>`},
	}
	nav := newTestNavigator(driver, testConfig())

	listings, err := nav.FetchAll(context.Background(), "https://www.propertyfinder.ae/en/search")
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.Equal(t, 0, driver.waits)
}

func TestFetchAllBlockedRedirect(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{
		location: "https://www.google.com/sorry/index",
		pages:    []string{unitPage("1")},
	}
	nav := newTestNavigator(driver, testConfig())

	listings, err := nav.FetchAll(context.Background(), "https://www.propertyfinder.ae/en/search")
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestFetchAllUnreadablePageTreatedAsBlocked(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{htmlErr: errors.New("target crashed")}
	nav := newTestNavigator(driver, testConfig())

	listings, err := nav.FetchAll(context.Background(), "https://www.propertyfinder.ae/en/search")
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestFetchAllRejectedStatus(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{status: 403}
	nav := newTestNavigator(driver, testConfig())

	_, err := nav.FetchAll(context.Background(), "https://www.propertyfinder.ae/en/search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, 0, driver.waits)
}

func TestFetchAllNavigationError(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{navErr: errors.New("net::ERR_TIMED_OUT")}
	nav := newTestNavigator(driver, testConfig())

	_, err := nav.FetchAll(context.Background(), "https://www.propertyfinder.ae/en/search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERR_TIMED_OUT")
}

func TestFetchAllCardTimeoutYieldsEmptyPage(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{
		waitErr: errors.New("waiting for selector timed out"),
		pages:   []string{unitPage("1")},
	}
	nav := newTestNavigator(driver, testConfig())

	listings, err := nav.FetchAll(context.Background(), "https://www.propertyfinder.ae/en/search")
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.Equal(t, 1, driver.waits)
}

func TestFetchAllClickFailureStopsPagination(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{
		nextEnabled: true,
		clickErr:    errors.New("node detached"),
		pages:       []string{unitPage("1")},
	}
	nav := newTestNavigator(driver, testConfig())

	listings, err := nav.FetchAll(context.Background(), "https://www.propertyfinder.ae/en/search")
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, 1, driver.waits)
}

func TestFetchAllEnabledErrorStopsPagination(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{
		enabledErr: errors.New("evaluate failed"),
		pages:      []string{unitPage("1")},
	}
	nav := newTestNavigator(driver, testConfig())

	listings, err := nav.FetchAll(context.Background(), "https://www.propertyfinder.ae/en/search")
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, 0, driver.clicks)
}

func TestFetchAllCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nav := newTestNavigator(&fakeDriver{}, testConfig())
	_, err := nav.FetchAll(ctx, "https://www.propertyfinder.ae/en/search")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBlockedPage(t *testing.T) {
	t.Parallel()

	searchURL := "https://www.propertyfinder.ae/en/search"

	tests := []struct {
		name    string
		content string
		url     string
		want    bool
	}{
		{"captcha any case", "<html>Complete the CAPTCHA</html>", searchURL, true},
		{"robot check", "<html>Are you a robot?</html>", searchURL, true},
		{"access denied", "<html>Access Denied</html>", searchURL, true},
		{"rate limited", "<html>Error 429</html>", searchURL, true},
		{"too many requests", "<html>too many requests</html>", searchURL, true},
		{"redirected off site", "<html><div>results</div></html>", "https://consent.example.com", true},
		{"clean results page", "<html><div>results</div></html>", searchURL, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BlockedPage(tt.content, tt.url))
		})
	}
}
