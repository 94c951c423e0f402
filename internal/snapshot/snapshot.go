// Package snapshot captures the process environment as an immutable value.
// A snapshot is taken once per session and passed by argument into the
// resolution engine; nothing downstream reads the process environment
// directly, so resolution stays a pure function of its inputs.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"unicode/utf8"
)

// Snapshot is an immutable capture of an environment. The underlying map is
// never exposed directly; mutating the source environ slice or the process
// environment after capture does not affect it.
type Snapshot struct {
	values map[string]string
}

// Diagnostic reports an environ entry excluded during capture. Exclusion is
// non-fatal; the entry simply does not appear in the snapshot.
type Diagnostic struct {
	Entry  string // the raw environ entry, possibly mangled if not valid text
	Reason string
}

// Capture builds a snapshot from an environ slice (format: "KEY=VALUE",
// typically os.Environ()). Entries without "=" and entries whose name or
// value is not valid UTF-8 are excluded and reported as diagnostics.
// Duplicate names keep the last occurrence, matching OS environ behavior.
func Capture(environ []string) (Snapshot, []Diagnostic) {
	values := make(map[string]string, len(environ))
	var diags []Diagnostic

	for _, entry := range environ {
		idx := strings.Index(entry, "=")
		if idx == -1 {
			diags = append(diags, Diagnostic{Entry: entry, Reason: "no '=' separator"})
			continue
		}
		name := entry[:idx]
		value := entry[idx+1:]

		if !utf8.ValidString(name) || !utf8.ValidString(value) {
			diags = append(diags, Diagnostic{Entry: entry, Reason: "not valid UTF-8"})
			continue
		}

		values[name] = value
	}

	return Snapshot{values: values}, diags
}

// FromMap builds a snapshot from an already-parsed map, copying it so the
// caller's map stays independent. Used when replaying a stored snapshot and
// in tests.
func FromMap(values map[string]string) Snapshot {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Snapshot{values: copied}
}

// Lookup returns the value for name and whether it is present.
func (s Snapshot) Lookup(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Len returns the number of entries in the snapshot.
func (s Snapshot) Len() int {
	return len(s.values)
}

// Names returns all names in the snapshot, sorted for deterministic output.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns an independent copy of the snapshot's entries.
func (s Snapshot) Values() map[string]string {
	copied := make(map[string]string, len(s.values))
	for k, v := range s.values {
		copied[k] = v
	}
	return copied
}

// Hash computes the SHA-256 of the snapshot in canonical form (sorted keys,
// no whitespace), prefixed with "sha256:". Two snapshots with equal contents
// always hash identically.
func (s Snapshot) Hash() string {
	hash := sha256.Sum256(canonicalJSON(s.values))
	return "sha256:" + hex.EncodeToString(hash[:])
}

// canonicalJSON produces deterministic JSON for a values map: keys sorted
// alphabetically, no whitespace.
func canonicalJSON(values map[string]string) []byte {
	if len(values) == 0 {
		return []byte("{}")
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}
		keyJSON, _ := json.Marshal(k)
		valueJSON, _ := json.Marshal(values[k])
		result = append(result, keyJSON...)
		result = append(result, ':')
		result = append(result, valueJSON...)
	}
	result = append(result, '}')
	return result
}
