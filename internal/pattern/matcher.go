// Package pattern provides the anchored name-matching capability used by
// rule construction and resolution. The engine only depends on the Matcher
// contract, so any conforming full-string match implementation is
// substitutable.
package pattern

import (
	"fmt"
	"regexp"
	"sync"
)

// Matcher is the pattern-matching capability consumed by the resolution engine.
// Validate is called once per pattern during rule construction; FullMatch is
// called during resolution and must not fail for a pattern that passed
// Validate.
type Matcher interface {
	// Validate reports whether the pattern is acceptable syntax.
	Validate(pattern string) error

	// FullMatch reports whether pattern matches the entire name.
	// A partial (substring) match does not count.
	FullMatch(pattern, name string) bool
}

// Regexp implements Matcher on the standard regexp engine.
// Patterns are anchored so they must consume the whole name, and compiled
// patterns are cached so resolution never recompiles.
type Regexp struct {
	mu    sync.RWMutex
	cache map[string]*regexp.Regexp
}

// NewRegexp creates a Regexp matcher with an empty compile cache.
func NewRegexp() *Regexp {
	return &Regexp{cache: make(map[string]*regexp.Regexp)}
}

// Validate compiles the pattern in anchored form and caches the result.
func (m *Regexp) Validate(pattern string) error {
	_, err := m.compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return nil
}

// FullMatch reports whether pattern matches all of name.
// Patterns that never passed Validate are compiled on the fly; if compilation
// fails the name is treated as not matching.
func (m *Regexp) FullMatch(pattern, name string) bool {
	re, err := m.compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(name)
}

// compile returns the anchored compiled form of pattern, consulting the cache
// first.
func (m *Regexp) compile(pattern string) (*regexp.Regexp, error) {
	m.mu.RLock()
	re, ok := m.cache[pattern]
	m.mu.RUnlock()
	if ok {
		return re, nil
	}

	// \A and \z anchor the match to the whole name. The non-capturing group
	// keeps alternations in the pattern from escaping the anchors.
	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[pattern] = re
	m.mu.Unlock()
	return re, nil
}
