package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// seenFile is the on-disk shape of the store. Field names match the file
// produced by earlier versions of the monitor so existing state stays readable.
type seenFile struct {
	Listings  []string `json:"listings"`
	UpdatedAt string   `json:"updated_at"`
}

// SeenStore remembers ids of listings already notified about.
// Ids are only ever added; Save rewrites the file wholesale.
type SeenStore struct {
	path string
	ids  map[string]struct{}
}

// LoadSeenStore reads the store file at path. A missing file yields an
// empty store. An unreadable or malformed file is an error so a run never
// starts with silently forgotten state.
func LoadSeenStore(path string) (*SeenStore, error) {
	s := &SeenStore{path: path, ids: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read seen store: %w", err)
	}

	var f seenFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("could not parse seen store %s: %w", path, err)
	}
	for _, id := range f.Listings {
		s.ids[id] = struct{}{}
	}
	return s, nil
}

func (s *SeenStore) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *SeenStore) Add(id string) {
	s.ids[id] = struct{}{}
}

// Len reports how many ids the store holds.
func (s *SeenStore) Len() int { return len(s.ids) }

// Save rewrites the store file with sorted ids and a fresh timestamp.
func (s *SeenStore) Save() error {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	data, err := json.MarshalIndent(seenFile{
		Listings:  ids,
		UpdatedAt: time.Now().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode seen store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("could not write seen store: %w", err)
	}
	return nil
}
