package rule

import (
	"errors"
	"strings"
	"testing"

	"envscope/internal/pattern"
)

func TestBuild_MapsTokensInOrder(t *testing.T) {
	tokens := []Token{
		{Option: OptionBlacklist, Value: ".*", Position: 1},
		{Option: OptionSet, Value: "CARGO_HOME=/opt/cargo", Position: 2},
		{Option: OptionWhitelist, Value: "CARGO_.*", Position: 3},
	}

	rules, err := Build(tokens, pattern.NewRegexp())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := RuleSet{
		Blacklist(".*"),
		Set("CARGO_HOME", "/opt/cargo"),
		Whitelist("CARGO_.*"),
	}

	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i := range want {
		if rules[i] != want[i] {
			t.Errorf("rule %d = %+v, want %+v", i, rules[i], want[i])
		}
	}
}

func TestBuild_PreservesDuplicates(t *testing.T) {
	tokens := []Token{
		{Option: OptionSet, Value: "FOO=1", Position: 1},
		{Option: OptionSet, Value: "FOO=1", Position: 2},
	}

	rules, err := Build(tokens, pattern.NewRegexp())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected duplicates preserved, got %d rules", len(rules))
	}
}

func TestBuild_SetWithoutEquals(t *testing.T) {
	tokens := []Token{
		{Option: OptionSet, Value: "JUSTANAME", Position: 1},
	}

	_, err := Build(tokens, pattern.NewRegexp())
	if err == nil {
		t.Fatal("expected error for set token without '='")
	}

	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if !errors.Is(err, ErrMissingEquals) {
		t.Errorf("expected ErrMissingEquals, got %v", err)
	}
	if syntaxErr.Option != OptionSet || syntaxErr.Value != "JUSTANAME" || syntaxErr.Position != 1 {
		t.Errorf("syntax error should carry the offending token, got %+v", syntaxErr)
	}
}

func TestBuild_InvalidPattern(t *testing.T) {
	for _, option := range []string{OptionWhitelist, OptionBlacklist} {
		tokens := []Token{
			{Option: option, Value: "[unclosed", Position: 1},
		}

		_, err := Build(tokens, pattern.NewRegexp())
		if err == nil {
			t.Fatalf("%s: expected error for invalid pattern", option)
		}

		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("%s: expected *SyntaxError, got %T", option, err)
		}
		if !strings.Contains(err.Error(), option) {
			t.Errorf("%s: error %q should name the option", option, err)
		}
	}
}

func TestBuild_FailsFastOnFirstBadToken(t *testing.T) {
	tokens := []Token{
		{Option: OptionWhitelist, Value: "OK.*", Position: 1},
		{Option: OptionSet, Value: "NOEQUALS", Position: 2},
		{Option: OptionBlacklist, Value: "[alsobad", Position: 3},
	}

	_, err := Build(tokens, pattern.NewRegexp())

	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if syntaxErr.Position != 2 {
		t.Errorf("expected failure at position 2, got %d", syntaxErr.Position)
	}
}

func TestBuild_UnknownOption(t *testing.T) {
	tokens := []Token{
		{Option: "--env-bogus", Value: "x", Position: 1},
	}

	_, err := Build(tokens, pattern.NewRegexp())
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
}

func TestSplitSet(t *testing.T) {
	tests := []struct {
		token     string
		wantName  string
		wantValue string
		wantOK    bool
	}{
		{"FOO=BAR", "FOO", "BAR", true},
		{"FOO=", "FOO", "", true},
		{"FOO=a=b", "FOO", "a=b", true},
		{"=value", "", "value", true},
		{"FOO", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		name, value, ok := SplitSet(tt.token)
		if name != tt.wantName || value != tt.wantValue || ok != tt.wantOK {
			t.Errorf("SplitSet(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.token, name, value, ok, tt.wantName, tt.wantValue, tt.wantOK)
		}
	}
}
