// Package engine resolves a logical environment from a snapshot and an
// ordered rule sequence. Resolution is a left fold: each rule is interpreted
// strictly against the current working state, so a blacklist can remove
// entries introduced by an earlier set, and a set can reintroduce entries
// removed by an earlier whitelist or blacklist. The result is a pure
// function of the snapshot and the rules.
package engine

import (
	"errors"

	"envscope/internal/pattern"
	"envscope/internal/rule"
	"envscope/internal/snapshot"
)

// ErrResolved is returned when a rule is applied to an already-frozen
// resolution. Resolved is a terminal state; a different rule set always
// starts a new Resolution.
var ErrResolved = errors.New("resolution already frozen")

// Resolution applies rules one at a time to a private working copy of a
// snapshot. It is single-use: build, apply rules in order, freeze. The
// working state is owned exclusively by this value and discarded on freeze.
type Resolution struct {
	working map[string]string
	matcher pattern.Matcher
	frozen  bool
}

// NewResolution starts a resolution from a snapshot. The working state is an
// independent copy; the snapshot is never mutated.
func NewResolution(snap snapshot.Snapshot, matcher pattern.Matcher) *Resolution {
	return &Resolution{
		working: snap.Values(),
		matcher: matcher,
	}
}

// Apply applies one rule to the working state. Returns ErrResolved if the
// resolution has already been frozen. Given a rule set that passed
// construction, Apply itself cannot fail.
func (r *Resolution) Apply(ru rule.Rule) error {
	if r.frozen {
		return ErrResolved
	}
	apply(r.working, ru, r.matcher)
	return nil
}

// Freeze turns the working state into an immutable LogicalEnvironment and
// marks the resolution terminal. The working state is handed over to the
// result; the Resolution cannot apply further rules.
func (r *Resolution) Freeze() *LogicalEnvironment {
	r.frozen = true
	return &LogicalEnvironment{values: r.working}
}

// Resolve applies the whole rule set to the snapshot in order and freezes
// the result. With an empty rule set the output equals the snapshot exactly.
func Resolve(snap snapshot.Snapshot, rules rule.RuleSet, matcher pattern.Matcher) *LogicalEnvironment {
	r := NewResolution(snap, matcher)
	for _, ru := range rules {
		apply(r.working, ru, matcher)
	}
	return r.Freeze()
}

// apply interprets one rule against the current working state.
func apply(working map[string]string, ru rule.Rule, matcher pattern.Matcher) {
	switch ru.Kind {
	case rule.KindWhitelist:
		// Keep only names the pattern fully matches.
		for name := range working {
			if !matcher.FullMatch(ru.Pattern, name) {
				delete(working, name)
			}
		}

	case rule.KindBlacklist:
		// Drop every name the pattern fully matches.
		for name := range working {
			if matcher.FullMatch(ru.Pattern, name) {
				delete(working, name)
			}
		}

	case rule.KindSet:
		// Insert or overwrite, regardless of whether the name exists.
		working[ru.Name] = ru.Value
	}
}
