package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMalformed reports stored queue data that is not a JSON array of
// strings or numbers.
var ErrMalformed = errors.New("queue: malformed storage")

// Store persists the queue as a JSON array.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load returns the stored queue. A missing or blank file is an empty queue.
// Malformed content also yields an empty queue, together with an error
// wrapping ErrMalformed so the caller can warn about it.
func (s *Store) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return []string{}, fmt.Errorf("queue: read %s: %w", s.path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return []string{}, nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	entries, ok := raw.([]any)
	if !ok {
		return []string{}, fmt.Errorf("%w: expected an array", ErrMalformed)
	}
	out := make([]string, 0, len(entries))
	for i, entry := range entries {
		switch v := entry.(type) {
		case string:
			out = append(out, v)
		case float64:
			out = append(out, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			return []string{}, fmt.Errorf("%w: entry %d is %T", ErrMalformed, i, entry)
		}
	}
	return out, nil
}

// Save replaces the stored queue.
func (s *Store) Save(queue []string) error {
	if queue == nil {
		queue = []string{}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("queue: create dir: %w", err)
	}
	data, err := json.Marshal(queue)
	if err != nil {
		return fmt.Errorf("queue: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("queue: write %s: %w", s.path, err)
	}
	return nil
}
