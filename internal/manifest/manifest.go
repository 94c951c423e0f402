// Package manifest loads ordered rule lists from a YAML file. A manifest
// plays the same role as rule options on the command line; its rules are
// applied first, before any flags, so a project can pin its environment
// policy in a checked-in file and refine it per invocation.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"envscope/internal/pattern"
	"envscope/internal/rule"
)

// Manifest is a parsed rules file.
type Manifest struct {
	Rules   rule.RuleSet // ordered, applied before command-line rules
	Require []string     // names that must be present after resolution
}

// manifestFile represents the YAML file structure. Each rules entry is a
// single-key mapping naming the operation, so the file preserves order:
//
//	rules:
//	  - blacklist: ".*"
//	  - set: CARGO_HOME=/opt/cargo
//	  - whitelist: "CARGO_.*"
//	require:
//	  - CARGO_HOME
type manifestFile struct {
	Rules   []map[string]string `yaml:"rules"`
	Require []string            `yaml:"require,omitempty"`
}

// Load reads and parses a manifest from path.
func Load(path string, matcher pattern.Matcher) (Manifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}

	m, err := Parse(content, matcher)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse parses YAML content into a Manifest, validating every rule the same
// way command-line construction does: patterns must compile, set entries
// must contain "=". The first invalid entry fails the whole parse.
func Parse(content []byte, matcher pattern.Matcher) (Manifest, error) {
	var mf manifestFile
	if err := yaml.Unmarshal(content, &mf); err != nil {
		return Manifest{}, fmt.Errorf("invalid YAML: %w", err)
	}

	m := Manifest{
		Rules:   make(rule.RuleSet, 0, len(mf.Rules)),
		Require: mf.Require,
	}

	for i, entry := range mf.Rules {
		if len(entry) != 1 {
			return Manifest{}, fmt.Errorf("rules[%d]: expected exactly one of whitelist, blacklist, set", i)
		}

		for op, value := range entry {
			switch op {
			case "whitelist":
				if err := matcher.Validate(value); err != nil {
					return Manifest{}, fmt.Errorf("rules[%d]: %w", i, err)
				}
				m.Rules = append(m.Rules, rule.Whitelist(value))

			case "blacklist":
				if err := matcher.Validate(value); err != nil {
					return Manifest{}, fmt.Errorf("rules[%d]: %w", i, err)
				}
				m.Rules = append(m.Rules, rule.Blacklist(value))

			case "set":
				name, val, ok := rule.SplitSet(value)
				if !ok {
					return Manifest{}, fmt.Errorf("rules[%d]: set %q: %w", i, value, rule.ErrMissingEquals)
				}
				m.Rules = append(m.Rules, rule.Set(name, val))

			default:
				return Manifest{}, fmt.Errorf("rules[%d]: unknown operation %q", i, op)
			}
		}
	}

	return m, nil
}
