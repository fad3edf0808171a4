package participant

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PageInfo locates a page within the registry. Page is 1-based and Pages is
// never below 1. Start is the 0-based offset of the page's first entry.
type PageInfo struct {
	Page  int
	Pages int
	Start int
	Total int
}

// Store is the registry persisted as a JSON array on disk. Every mutation is
// saved immediately and only applied in memory once the write succeeded.
type Store struct {
	path  string
	items []Participant
}

// NewStore creates a store backed by path. Call Load to read existing data.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the registry. A missing file yields an empty registry.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.items = nil
			return nil
		}
		return fmt.Errorf("participant: read %s: %w", s.path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		s.items = nil
		return nil
	}
	var items []Participant
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("participant: decode %s: %w", s.path, err)
	}
	s.items = items
	return nil
}

func (s *Store) write(items []Participant) error {
	if items == nil {
		items = []Participant{}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("participant: create dir: %w", err)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("participant: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("participant: write %s: %w", s.path, err)
	}
	return nil
}

// Save writes the current registry to disk.
func (s *Store) Save() error {
	return s.write(s.items)
}

// Add registers a new participant.
func (s *Store) Add(name, number string) (Participant, error) {
	p, err := New(name, number)
	if err != nil {
		return Participant{}, err
	}
	if IndexOf(s.items, p.Number) >= 0 {
		return Participant{}, fmt.Errorf("%w: %s", ErrDuplicateNumber, p.Number)
	}
	next := append(s.All(), p)
	if err := s.write(next); err != nil {
		return Participant{}, err
	}
	s.items = next
	return p, nil
}

// Remove deletes the participant with the given number.
func (s *Store) Remove(number string) error {
	idx := IndexOf(s.items, number)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(number))
	}
	next := make([]Participant, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	if err := s.write(next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// Clear removes every participant.
func (s *Store) Clear() error {
	if err := s.write(nil); err != nil {
		return err
	}
	s.items = nil
	return nil
}

func (s *Store) Count() int { return len(s.items) }

// All returns a copy of the registry in insertion order.
func (s *Store) All() []Participant {
	out := make([]Participant, len(s.items))
	copy(out, s.items)
	return out
}

// Page returns one page of the registry. Out of range pages are clamped.
func (s *Store) Page(page, perPage int) ([]Participant, PageInfo) {
	if perPage < 1 {
		perPage = 1
	}
	total := len(s.items)
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * perPage
	end := min(start+perPage, total)
	out := make([]Participant, end-start)
	copy(out, s.items[start:end])
	return out, PageInfo{Page: page, Pages: pages, Start: start, Total: total}
}
