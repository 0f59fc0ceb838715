package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"propertyfinder-monitor/models"
)

type Report struct {
	TotalListings      int
	Qualifying         int
	AveragePrice       float64
	MinPrice           int
	MaxPrice           int
	CheapestQualifying models.Listing
	ListingsByBuilding map[string]int
}

// GenerateReport cleans the run's dataset and computes the market summary.
// Price statistics cover priced listings only; unpriced cards still count
// toward totals and the per-building breakdown.
func GenerateReport(listings []models.Listing, criteria models.Criteria) Report {
	cleaned := CleanListings(listings)

	report := Report{
		TotalListings:      len(cleaned),
		ListingsByBuilding: make(map[string]int),
	}

	if len(cleaned) == 0 {
		return report
	}

	var (
		priceSum   int
		priceCount int
		maxPrice   = -1
		minPrice   = math.MaxInt
		cheapest   = math.MaxInt
	)

	for _, l := range cleaned {
		report.ListingsByBuilding[normalizeBuilding(l.Building)]++

		if criteria.Matches(l) {
			report.Qualifying++
			if l.Price > 0 && l.Price < cheapest {
				cheapest = l.Price
				report.CheapestQualifying = l
			}
		}

		if l.Price > 0 {
			priceSum += l.Price
			priceCount++

			if l.Price > maxPrice {
				maxPrice = l.Price
			}
			if l.Price < minPrice {
				minPrice = l.Price
			}
		}
	}

	if priceCount > 0 {
		report.AveragePrice = float64(priceSum) / float64(priceCount)
		report.MinPrice = minPrice
		report.MaxPrice = maxPrice
	}

	return report
}

func PrintReport(report Report) {
	fmt.Println()
	fmt.Println("┌──────────────────────────────────────────────────────────────┐")
	fmt.Println("│                 Creek Harbour Market Summary                 │")
	fmt.Println("├───────────────────────────────┬──────────────────────────────┤")
	fmt.Printf("│ %-29s │ %-28d │\n", "Listings Extracted", report.TotalListings)
	fmt.Printf("│ %-29s │ %-28d │\n", "Matching Criteria", report.Qualifying)
	fmt.Printf("│ %-29s │ %-28.0f │\n", "Average Price (AED)", report.AveragePrice)
	fmt.Printf("│ %-29s │ %-28d │\n", "Minimum Price (AED)", report.MinPrice)
	fmt.Printf("│ %-29s │ %-28d │\n", "Maximum Price (AED)", report.MaxPrice)
	fmt.Println("└───────────────────────────────┴──────────────────────────────┘")

	if report.CheapestQualifying.Title != "" {
		fmt.Println()
		fmt.Println("┌──────────────────────────────────────────────────────────────┐")
		fmt.Println("│                   Best Value Qualifying Unit                 │")
		fmt.Println("├───────────────────────────────┬──────────────────────────────┤")
		fmt.Printf("│ %-29s │ %-28d │\n", "Price (AED)", report.CheapestQualifying.Price)
		fmt.Printf("│ %-29s │ %-28d │\n", "Size (sqft)", report.CheapestQualifying.Size)
		fmt.Printf("│ %-29s │ %-28s │\n", "Building", truncateText(report.CheapestQualifying.Building, 28))
		fmt.Println("└───────────────────────────────┴──────────────────────────────┘")
		fmt.Printf("Title: %s\n", report.CheapestQualifying.Title)
	}

	fmt.Println()
	fmt.Println("┌──────────────────────────────────────────────┬───────────────┐")
	fmt.Println("│ Listings per Building                        │ Count         │")
	fmt.Println("├──────────────────────────────────────────────┼───────────────┤")
	for _, b := range sortedBuildings(report.ListingsByBuilding) {
		fmt.Printf("│ %-44s │ %-13d │\n", truncateText(b, 44), report.ListingsByBuilding[b])
	}
	fmt.Println("└──────────────────────────────────────────────┴───────────────┘")
}

// CleanListings trims fields, drops records without an id or URL, and
// removes duplicates that pagination overlap produced.
func CleanListings(listings []models.Listing) []models.Listing {
	seen := make(map[string]bool)
	cleaned := make([]models.Listing, 0, len(listings))

	for _, l := range listings {
		l.ID = strings.TrimSpace(l.ID)
		l.Title = strings.TrimSpace(l.Title)
		l.URL = strings.TrimSpace(l.URL)
		l.Building = strings.TrimSpace(l.Building)

		if l.ID == "" || l.URL == "" {
			continue
		}
		if seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		cleaned = append(cleaned, l)
	}

	return cleaned
}

func normalizeBuilding(building string) string {
	building = strings.TrimSpace(building)
	if building == "" {
		return "Unknown"
	}
	return building
}

func sortedBuildings(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
