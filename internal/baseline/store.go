package baseline

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrBaselineNotFound is returned when a baseline doesn't exist.
var ErrBaselineNotFound = errors.New("baseline not found")

// ErrInvalidName is returned when a baseline name is empty.
var ErrInvalidName = errors.New("baseline name must not be empty")

// nameSanitizer maps path separators to "_" so a baseline name can never
// address a file outside the store directory.
var nameSanitizer = strings.NewReplacer("/", "_", "\\", "_")

// Store manages baseline persistence.
type Store struct {
	Dir string // Base directory for baselines
}

// NewStore creates a store with the given directory.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// DefaultDir returns the default baseline directory (~/.envscope/baselines).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".envscope/baselines"
	}
	return filepath.Join(home, ".envscope", "baselines")
}

// ResolveDir returns the baseline directory from env var or default.
func ResolveDir(environ []string) string {
	for _, env := range environ {
		if strings.HasPrefix(env, "ENVSCOPE_BASELINE_DIR=") {
			return strings.TrimPrefix(env, "ENVSCOPE_BASELINE_DIR=")
		}
	}
	return DefaultDir()
}

// Save stores a baseline with the given name.
func (s *Store) Save(b Baseline) error {
	if b.Name == "" {
		return ErrInvalidName
	}

	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path(b.Name), data, 0644)
}

// Load retrieves a baseline by name.
func (s *Store) Load(name string) (Baseline, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return Baseline{}, ErrBaselineNotFound
		}
		return Baseline{}, err
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return Baseline{}, err
	}

	return b, nil
}

// List returns all stored baselines as summaries.
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

		var b Baseline
		if err := json.Unmarshal(data, &b); err != nil {
			continue // Skip invalid JSON
		}

		summaries = append(summaries, Summary{
			Name:       b.Name,
			EnvVersion: b.EnvVersion,
			Entries:    len(b.Values),
			Timestamp:  b.Timestamp,
		})
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })

	return summaries, nil
}

// Delete removes a baseline by name.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrBaselineNotFound
		}
		return err
	}
	return nil
}

// Exists checks if a baseline exists.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// path returns the file path for a baseline name. Names are sanitized so
// every baseline file lands inside the store directory.
func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, nameSanitizer.Replace(name)+".json")
}
