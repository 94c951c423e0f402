package snapshot

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrSnapshotNotFound is returned when a stored snapshot doesn't exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// StoredSnapshot is the on-disk form of a captured environment. The content
// hash is stored alongside the values so a later replay can verify the file
// was not edited by hand.
type StoredSnapshot struct {
	ID        string            `json:"id"` // content hash at capture time
	Values    map[string]string `json:"values"`
	Timestamp time.Time         `json:"timestamp"`
}

// Summary is a lightweight view for listing stored snapshots.
type Summary struct {
	ID        string    `json:"id"`
	Entries   int       `json:"entries"`
	Timestamp time.Time `json:"timestamp"`
}

// Store manages snapshot persistence.
type Store struct {
	Dir string // Base directory for snapshots
}

// NewStore creates a store with the given directory.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// DefaultDir returns the default snapshot directory (~/.envscope/snapshots).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".envscope/snapshots"
	}
	return filepath.Join(home, ".envscope", "snapshots")
}

// ResolveDir returns the snapshot directory from env var or default.
func ResolveDir(environ []string) string {
	for _, env := range environ {
		if strings.HasPrefix(env, "ENVSCOPE_SNAPSHOT_DIR=") {
			return strings.TrimPrefix(env, "ENVSCOPE_SNAPSHOT_DIR=")
		}
	}
	return DefaultDir()
}

// Save stores a snapshot keyed by its content hash, returns the file path.
// Saving the same environment twice overwrites the same file.
func (s *Store) Save(snap Snapshot) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", err
	}

	stored := StoredSnapshot{
		ID:        snap.Hash(),
		Values:    snap.Values(),
		Timestamp: time.Now().UTC(),
	}

	path := s.Path(stored.ID)

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}

	return path, nil
}

// Load retrieves a stored snapshot by ID and rebuilds it as a Snapshot.
func (s *Store) Load(id string) (Snapshot, StoredSnapshot, error) {
	path := s.Path(id)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, StoredSnapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, StoredSnapshot{}, err
	}

	var stored StoredSnapshot
	if err := json.Unmarshal(data, &stored); err != nil {
		return Snapshot{}, StoredSnapshot{}, err
	}

	return FromMap(stored.Values), stored, nil
}

// List returns all stored snapshots as summaries.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Summary{}, nil
		}
		return nil, err
	}

	var summaries []Summary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.Dir, entry.Name()))
		if err != nil {
			continue // Skip unreadable files
		}

		var stored StoredSnapshot
		if err := json.Unmarshal(data, &stored); err != nil {
			continue // Skip invalid JSON
		}

		summaries = append(summaries, Summary{
			ID:        stored.ID,
			Entries:   len(stored.Values),
			Timestamp: stored.Timestamp,
		})
	}

	return summaries, nil
}

// Delete removes a stored snapshot by ID.
func (s *Store) Delete(id string) error {
	err := os.Remove(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrSnapshotNotFound
		}
		return err
	}
	return nil
}

// Path returns the file path for a snapshot ID. The "sha256:" prefix is
// replaced so the filename stays portable.
func (s *Store) Path(id string) string {
	return filepath.Join(s.Dir, strings.ReplaceAll(id, ":", "-")+".json")
}
