package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"propertyfinder-monitor/models"
	"propertyfinder-monitor/utils"
)

// CSVWriter archives every run's full extracted listing set, pre-filter,
// so price history survives outside the dedup store.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write saves all listings to the CSV file, overwriting the previous run.
// Creates the output directory if it does not exist.
func (w *CSVWriter) Write(listings []models.Listing) error {
	if len(listings) == 0 {
		utils.Warn("No listings to write")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer file.Close()

	// csv.NewWriter handles quoting, commas inside fields, line endings
	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{
		"id", "title", "price", "price_display", "size", "size_display",
		"bedrooms", "bathrooms", "building", "location", "url", "image_url", "scraped_at",
	})

	for _, l := range listings {
		writer.Write([]string{
			l.ID,
			l.Title,
			strconv.Itoa(l.Price),
			l.PriceDisplay,
			strconv.Itoa(l.Size),
			l.SizeDisplay,
			strconv.Itoa(l.Bedrooms),
			strconv.Itoa(l.Bathrooms),
			l.Building,
			l.Location,
			l.URL,
			l.ImageURL,
			l.ScrapedAt.Format(time.RFC3339),
		})
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	utils.Success("Saved %d listings → %s", len(listings), w.path)
	return nil
}
