package services

import (
	"fmt"

	"propertyfinder-monitor/models"
)

// SeenStore is the dedup memory the filter consults. Adds must be visible
// to later Contains calls within the run; Save persists the accumulated
// ids durably.
type SeenStore interface {
	Contains(id string) bool
	Add(id string)
	Save() error
}

// DedupFilter turns the raw extracted stream into new qualifying
// listings, remembering only what it reported.
type DedupFilter struct {
	store    SeenStore
	criteria models.Criteria
}

func NewDedupFilter(store SeenStore, criteria models.Criteria) *DedupFilter {
	return &DedupFilter{store: store, criteria: criteria}
}

// FilterNew returns, in input order, the listings that are both unseen and
// qualifying. Their ids are added to the store and persisted in one batch
// at the end. Non-qualifying listings are not remembered, so a listing
// whose price later drops into range is still reported then. A persist
// failure returns an error and the caller must not treat the run as clean.
func (f *DedupFilter) FilterNew(listings []models.Listing) ([]models.Listing, error) {
	var fresh []models.Listing

	for _, l := range listings {
		if f.store.Contains(l.ID) {
			continue
		}
		if !f.criteria.Matches(l) {
			continue
		}
		f.store.Add(l.ID)
		fresh = append(fresh, l)
	}

	if len(fresh) > 0 {
		if err := f.store.Save(); err != nil {
			return nil, fmt.Errorf("could not persist seen listings: %w", err)
		}
	}

	return fresh, nil
}
