package rule

import "envscope/internal/pattern"

// Command-line option names that map to rules.
const (
	OptionWhitelist = "--env-whitelist"
	OptionBlacklist = "--env-blacklist"
	OptionSet       = "--env-set"
)

// Token is one rule-bearing command-line option as it appeared on the
// command line. Position is 1-based among the rule options, preserved so
// diagnostics can point at the offending argument.
type Token struct {
	Option   string
	Value    string
	Position int
}

// Build converts an ordered token list into a RuleSet, validating each token
// as it goes. It fails fast on the first malformed token: a set token
// without "=", a pattern the matcher rejects, or an option it does not
// recognize. No rules are returned on error.
func Build(tokens []Token, matcher pattern.Matcher) (RuleSet, error) {
	rules := make(RuleSet, 0, len(tokens))

	for _, tok := range tokens {
		switch tok.Option {
		case OptionWhitelist:
			if err := matcher.Validate(tok.Value); err != nil {
				return nil, &SyntaxError{Option: tok.Option, Value: tok.Value, Position: tok.Position, Err: err}
			}
			rules = append(rules, Whitelist(tok.Value))

		case OptionBlacklist:
			if err := matcher.Validate(tok.Value); err != nil {
				return nil, &SyntaxError{Option: tok.Option, Value: tok.Value, Position: tok.Position, Err: err}
			}
			rules = append(rules, Blacklist(tok.Value))

		case OptionSet:
			name, value, ok := SplitSet(tok.Value)
			if !ok {
				return nil, &SyntaxError{Option: tok.Option, Value: tok.Value, Position: tok.Position, Err: ErrMissingEquals}
			}
			rules = append(rules, Set(name, value))

		default:
			return nil, &SyntaxError{Option: tok.Option, Value: tok.Value, Position: tok.Position, Err: ErrUnknownOption}
		}
	}

	return rules, nil
}
