package propertyfinder

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"propertyfinder-monitor/models"
)

const siteBase = "https://www.propertyfinder.ae"

var (
	digitRun = regexp.MustCompile(`[0-9]+`)
	idInURL  = regexp.MustCompile(`-([0-9]+)\.html`)
)

// knownBuildings are the Creek Harbour towers we recognise in titles.
var knownBuildings = []string{
	"17 Icon Bay", "Harbour Gate", "Dubai Creek Residences",
	"Creek Horizon", "The Cove", "Summer", "Creek Edge",
	"Palace Residences", "Creek Beach", "Grove",
	"Lotus", "Orchid", "Bayshore",
}

// extractNumber pulls the first run of digits out of display text like
// "1,750,000 AED" or "780 sqft". Thousands separators are stripped first
// so the run covers the whole figure. Text without digits yields 0.
func extractNumber(text string) int {
	cleaned := strings.ReplaceAll(text, ",", "")
	m := digitRun.FindString(cleaned)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// parseCount reads a bed or bath count. Text without digits falls back to
// def so a card lacking explicit "1 BR" markup is not spuriously excluded
// downstream.
func parseCount(text string, def int) int {
	m := digitRun.FindString(text)
	if m == "" {
		return def
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return def
	}
	return n
}

// listingID derives a stable id from a listing URL: the numeric suffix of
// the canonical "...-12345678.html" form when present, else the last path
// segment.
func listingID(rawURL string) string {
	if m := idInURL.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	trimmed := strings.TrimSuffix(rawURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// resolveURL turns a card href into an absolute URL.
func resolveURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return siteBase + href
	}
	return href
}

// resolveBuilding matches a title against the known tower names,
// case-insensitively, falling back to the first three title words.
func resolveBuilding(title string) string {
	lower := strings.ToLower(title)
	for _, b := range knownBuildings {
		if strings.Contains(lower, strings.ToLower(b)) {
			return b
		}
	}
	words := strings.Fields(title)
	if len(words) == 0 {
		return "Unknown"
	}
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

// SearchURL builds the fixed search query for the given criteria:
// apartments (t=1), completed projects (c=1), any furnishing (fu=0),
// newest first (ob=mr), plus the bedroom count, price ceiling, size
// floor, quoted location text and the ready flag (rp=y) when the
// criteria ask for ready units.
func SearchURL(c models.Criteria) string {
	q := url.Values{}
	q.Set("c", "1")
	q.Set("fu", "0")
	q.Set("ob", "mr")
	q.Set("t", "1")
	q.Set("beds_in", strconv.Itoa(c.Bedrooms))
	q.Set("pr", strconv.Itoa(c.MaxPrice))
	q.Set("pf", strconv.Itoa(c.MinSize))
	q.Set("q", `"`+c.Location+`"`)
	if c.Status == "ready" {
		q.Set("rp", "y")
	}
	return siteBase + "/en/search?" + q.Encode()
}
