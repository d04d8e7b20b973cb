// Package history is the engine-hosted recently-viewed store: an ordered,
// deduplicated, capped list of listing ids, most-recent-first, persisted as
// a small JSON file in the data dir.
package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// MaxEntries caps the history the recommendation context consumes.
const MaxEntries = 8

type Store struct {
	path string
	lock *flock.Flock
}

func NewStore(dataDir string) *Store {
	path := filepath.Join(dataDir, "history.json")
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Push records a viewed listing id at the front of the history, dropping any
// earlier occurrence and trimming to MaxEntries.
func (s *Store) Push(id string) error {
	if id == "" {
		return errors.New("empty listing id")
	}
	if err := s.lock.Lock(); err != nil {
		return err
	}
	defer func() { _ = s.lock.Unlock() }()

	ids := s.read()
	out := make([]string, 0, len(ids)+1)
	out = append(out, id)
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return s.write(out)
}

// List returns the history most-recent-first. Missing or corrupt files read
// as empty.
func (s *Store) List() ([]string, error) {
	if err := s.lock.RLock(); err != nil {
		return nil, err
	}
	defer func() { _ = s.lock.Unlock() }()
	return s.read(), nil
}

func (s *Store) Clear() error {
	if err := s.lock.Lock(); err != nil {
		return err
	}
	defer func() { _ = s.lock.Unlock() }()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) read() []string {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return nil
	}
	out := ids[:0]
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

func (s *Store) write(ids []string) error {
	b, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
