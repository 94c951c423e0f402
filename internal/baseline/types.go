// Package baseline persists named resolved environments so later runs can
// be compared against a known-good result.
package baseline

import (
	"time"

	"envscope/internal/rule"
)

// Baseline is a named, persisted resolution result.
type Baseline struct {
	Name         string            `json:"name"`         // Baseline identifier
	ResolutionID string            `json:"resolutionId"` // Resolution fingerprint
	EnvVersion   string            `json:"envVersion"`   // Hash of the resolved values
	Values       map[string]string `json:"values"`       // Resolved logical environment
	Rules        []rule.Rule       `json:"rules"`        // Rules that produced it, in order
	Timestamp    time.Time         `json:"timestamp"`    // When the baseline was saved
}

// Summary is a lightweight view for listing baselines.
type Summary struct {
	Name       string    `json:"name"`
	EnvVersion string    `json:"envVersion"`
	Entries    int       `json:"entries"`
	Timestamp  time.Time `json:"timestamp"`
}
