package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Store persists all profiles in a single JSON file keyed by user id.
//
// Every Save rewrites the entire mapping through a temp-file-plus-rename
// protocol, so a reader never observes a half-written file. There is no
// in-process locking: two concurrent saves race and the second writer's
// snapshot of the whole mapping wins. Write concurrency is expected to be
// low; this is a documented limitation, not a guarantee.
type Store struct {
	path string
}

// NewStore creates a Store backed by the file at path. The file is created
// lazily on first save; its parent directory must exist.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load returns the stored profile for userID. A missing file, unparseable
// file, or unknown user all yield a zero-value profile; load never fails.
func (s *Store) Load(userID string) Profile {
	all := s.loadAll()
	return all[userID]
}

// Save writes profile under userID and persists the whole mapping. A failed
// write is surfaced to the caller; the partially written temp file is
// removed best-effort.
func (s *Store) Save(userID string, profile Profile) error {
	all := s.loadAll()
	all[userID] = profile
	return s.writeAll(all)
}

// Delete removes userID's profile from the mapping. Deleting an unknown
// user is a no-op that still rewrites the file.
func (s *Store) Delete(userID string) error {
	all := s.loadAll()
	delete(all, userID)
	return s.writeAll(all)
}

// UserIDs returns the ids of all users with a stored profile.
func (s *Store) UserIDs() []string {
	all := s.loadAll()
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	return ids
}

// loadAll reads the full mapping. Corruption is treated as "no data": a
// profile we cannot read must not block future saves.
func (s *Store) loadAll() map[string]Profile {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("memory file unreadable, treating as empty", "path", s.path, "error", err)
		}
		return map[string]Profile{}
	}

	var all map[string]Profile
	if err := json.Unmarshal(data, &all); err != nil {
		slog.Warn("memory file corrupted, treating as empty", "path", s.path, "error", err)
		return map[string]Profile{}
	}
	if all == nil {
		all = map[string]Profile{}
	}
	return all
}

// writeAll serializes the mapping to a temp file and renames it into place.
func (s *Store) writeAll(all map[string]Profile) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling memory file: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing memory temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing memory file %s: %w", filepath.Base(s.path), err)
	}
	return nil
}
