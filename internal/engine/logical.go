package engine

import "sort"

// LogicalEnvironment is the frozen result of a resolution: the name/value
// view exposed to compile-time lookups. It is immutable once produced and
// safe for concurrent reads without locking.
type LogicalEnvironment struct {
	values map[string]string
}

// Lookup returns the value for name and whether it is present. It is a pure
// read: no side effects, no mutation. This is the sole access path intended
// for the macro-expansion consumer, replacing direct reads of the process
// environment.
func (e *LogicalEnvironment) Lookup(name string) (string, bool) {
	v, ok := e.values[name]
	return v, ok
}

// Len returns the number of entries.
func (e *LogicalEnvironment) Len() int {
	return len(e.values)
}

// Names returns all names, sorted for deterministic output.
func (e *LogicalEnvironment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns an independent copy of the entries, for callers that need a
// plain map (hashing, diffing, serialization).
func (e *LogicalEnvironment) Values() map[string]string {
	copied := make(map[string]string, len(e.values))
	for k, v := range e.values {
		copied[k] = v
	}
	return copied
}

// Equal reports whether two logical environments hold exactly the same
// entries, independent of iteration order.
func (e *LogicalEnvironment) Equal(other *LogicalEnvironment) bool {
	if len(e.values) != len(other.values) {
		return false
	}
	for k, v := range e.values {
		ov, ok := other.values[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}
