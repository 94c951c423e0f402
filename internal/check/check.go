// Package check verifies post-resolution requirements: names a manifest
// declares as required must be present in the final logical environment.
package check

import (
	"fmt"
	"strings"

	"envscope/internal/engine"
)

// Violation records one required name missing from the resolved environment.
type Violation struct {
	Name string `json:"name"`
}

// Result contains all requirement outcomes.
type Result struct {
	Passed     bool        `json:"passed"`
	Violations []Violation `json:"violations"`
}

// Evaluate checks every required name against the resolved environment.
// It collects all violations rather than stopping at the first one. A name
// set to the empty string counts as present.
func Evaluate(require []string, env *engine.LogicalEnvironment) Result {
	var violations []Violation
	for _, name := range require {
		if _, ok := env.Lookup(name); !ok {
			violations = append(violations, Violation{Name: name})
		}
	}

	return Result{
		Passed:     len(violations) == 0,
		Violations: violations,
	}
}

// FormatViolations formats all violations into a human-readable report.
func FormatViolations(result Result) string {
	if result.Passed {
		return ""
	}

	var sb strings.Builder
	for _, v := range result.Violations {
		sb.WriteString(fmt.Sprintf("%s: required but not present in the logical environment\n", v.Name))
	}
	sb.WriteString(fmt.Sprintf("\nRequirement check failed: %d missing name(s)\n", len(result.Violations)))
	return sb.String()
}
