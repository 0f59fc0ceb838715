package propertyfinder

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"propertyfinder-monitor/models"
	"propertyfinder-monitor/utils"
)

// CardParser turns one result card into a Listing. Implementations own
// the markup contract for a card layout; the Extractor stays layout-agnostic.
type CardParser interface {
	// Selector locates card containers in the page.
	Selector() string
	// Parse extracts a listing from one card. An error drops the card
	// without failing the page.
	Parse(card *goquery.Selection) (models.Listing, error)
}

// Extractor walks rendered search-results HTML and collects listings.
type Extractor struct {
	parser CardParser
}

func NewExtractor(parser CardParser) *Extractor {
	return &Extractor{parser: parser}
}

// Selector exposes the card-container selector of the underlying parser.
func (e *Extractor) Selector() string { return e.parser.Selector() }

// Extract parses every card in the document. Cards that fail to parse are
// logged and skipped; the rest of the page is still extracted.
func (e *Extractor) Extract(html string) ([]models.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("could not parse page: %w", err)
	}

	var listings []models.Listing
	doc.Find(e.parser.Selector()).Each(func(i int, card *goquery.Selection) {
		l, err := e.parser.Parse(card)
		if err != nil {
			utils.Warn("Skipping card %d: %v", i, err)
			return
		}
		listings = append(listings, l)
	})

	return listings, nil
}

// SearchCardParser reads the data-testid card markup on search results
// pages. The configured location string is attached to every listing.
type SearchCardParser struct {
	location string
}

func NewSearchCardParser(location string) *SearchCardParser {
	return &SearchCardParser{location: location}
}

func (p *SearchCardParser) Selector() string { return SelectorCard }

// Parse extracts one listing from a card. Missing price, size, bed or
// bath elements yield defaults rather than failing the card; only a card
// without a usable link, and therefore without an id, is dropped.
func (p *SearchCardParser) Parse(card *goquery.Selection) (models.Listing, error) {
	priceText := strings.TrimSpace(card.Find(SelectorPrice).First().Text())
	title := strings.TrimSpace(card.Find(SelectorTitle).First().Text())
	sizeText := strings.TrimSpace(card.Find(SelectorArea).First().Text())
	bedsText := strings.TrimSpace(card.Find(SelectorBeds).First().Text())
	bathsText := strings.TrimSpace(card.Find(SelectorBaths).First().Text())

	href, ok := card.Find(SelectorLink).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return models.Listing{}, fmt.Errorf("card has no link")
	}
	listingURL := resolveURL(strings.TrimSpace(href))

	id := listingID(listingURL)
	if id == "" {
		return models.Listing{}, fmt.Errorf("no id in url %q", listingURL)
	}

	imageURL, _ := card.Find(SelectorImage).First().Attr("src")

	return models.Listing{
		ID:           id,
		Title:        title,
		Price:        extractNumber(priceText),
		PriceDisplay: priceText,
		Size:         extractNumber(sizeText),
		SizeDisplay:  sizeText,
		Bedrooms:     parseCount(bedsText, 1),
		Bathrooms:    parseCount(bathsText, 1),
		Building:     resolveBuilding(title),
		Location:     p.location,
		URL:          listingURL,
		ImageURL:     imageURL,
		ScrapedAt:    time.Now(),
	}, nil
}
