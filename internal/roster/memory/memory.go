package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"billsplit/internal/core"
)

// Store is an in-memory roster, optionally seeded from a people.json file.
// Insertion order is preserved; duplicates are dropped.
type Store struct {
	mu    sync.Mutex
	names []string
}

func New(names []string) *Store {
	return &Store{names: dedupe(names)}
}

// NewFromFiles seeds the store from base/people.json, a JSON array of names.
// A missing or unreadable file yields an empty roster with a warning; the
// picker simply starts with no candidates.
func NewFromFiles(base string) *Store {
	path := filepath.Join(base, "people.json")
	names, err := readPeopleFile(path)
	if err != nil {
		slog.Warn("Could not load roster file, starting empty", "path", path, "error", err)
	}
	return New(names)
}

func readPeopleFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("decode roster file: %w", err)
	}
	return names, nil
}

// Names implements roster.NameReader.
func (s *Store) Names(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...), nil
}

// Add implements roster.NameWriter.
func (s *Store) Add(_ context.Context, name string) (string, error) {
	if err := core.ValidateName(name); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.names {
		if existing == name {
			return "", fmt.Errorf("%q: %w", name, core.ErrDuplicateName)
		}
	}
	s.names = append(s.names, name)
	return fmt.Sprintf("mem:%d", len(s.names)), nil
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	// Preserve input order; the picker shows names as the file lists them.
	return out
}
