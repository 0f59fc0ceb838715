package models

import "time"

// Listing is one property card extracted from a search results page.
// All fields are set during extraction; records are not mutated afterwards.
type Listing struct {
	ID           string
	Title        string
	Price        int
	PriceDisplay string
	Size         int
	SizeDisplay  string
	Bedrooms     int
	Bathrooms    int
	Building     string
	Location     string
	URL          string
	ImageURL     string
	ScrapedAt    time.Time
}

// Criteria is the fixed search filter a listing must satisfy to be
// worth a notification.
type Criteria struct {
	Location string
	City     string
	Bedrooms int
	MaxPrice int
	MinSize  int
	Status   string
}

// DefaultCriteria matches 1-bedroom ready apartments in Dubai Creek Harbour
// up to 1.8M AED with at least 740 sqft.
func DefaultCriteria() Criteria {
	return Criteria{
		Location: "Creek Harbour",
		City:     "Dubai",
		Bedrooms: 1,
		MaxPrice: 1_800_000,
		MinSize:  740,
		Status:   "ready",
	}
}

// Matches reports whether a listing satisfies the filter: exact bedroom
// count, price at or below the cap, size at or above the floor.
func (c Criteria) Matches(l Listing) bool {
	if l.Bedrooms != c.Bedrooms {
		return false
	}
	if l.Price > c.MaxPrice {
		return false
	}
	if l.Size < c.MinSize {
		return false
	}
	return true
}
