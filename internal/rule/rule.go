// Package rule defines the override operations applied to an environment
// snapshot during resolution, and their construction from command-line
// tokens.
package rule

import "strings"

// Kind identifies which override operation a Rule performs.
type Kind string

const (
	KindWhitelist Kind = "whitelist" // keep only names matching the pattern
	KindBlacklist Kind = "blacklist" // drop names matching the pattern
	KindSet       Kind = "set"       // force a name to a value
)

// Rule is one override operation. Exactly one of the operation-specific
// fields is meaningful, selected by Kind.
type Rule struct {
	Kind    Kind   `json:"kind"`
	Pattern string `json:"pattern,omitempty"` // whitelist, blacklist
	Name    string `json:"name,omitempty"`    // set
	Value   string `json:"value,omitempty"`   // set
}

// Whitelist creates a rule that keeps only names fully matching pattern.
func Whitelist(pattern string) Rule {
	return Rule{Kind: KindWhitelist, Pattern: pattern}
}

// Blacklist creates a rule that drops all names fully matching pattern.
func Blacklist(pattern string) Rule {
	return Rule{Kind: KindBlacklist, Pattern: pattern}
}

// Set creates a rule that forces name to value, creating the entry if absent.
func Set(name, value string) Rule {
	return Rule{Kind: KindSet, Name: name, Value: value}
}

// RuleSet is an ordered sequence of rules. Insertion order is the only order
// that matters; duplicates are preserved.
type RuleSet []Rule

// SplitSet parses a VAR=VALUE token into its name and value parts.
// The token splits on the first "=" only, so values may contain "=".
// A token without "=" is malformed.
func SplitSet(token string) (name, value string, ok bool) {
	idx := strings.Index(token, "=")
	if idx == -1 {
		return "", "", false
	}
	return token[:idx], token[idx+1:], true
}
