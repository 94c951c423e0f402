// Package drift compares a freshly resolved logical environment against a
// stored baseline and reports per-name changes.
package drift

import (
	"sort"
	"time"

	"envscope/internal/baseline"
)

// DriftType represents the type of environment change.
type DriftType string

const (
	DriftAdded   DriftType = "added"   // Name in current but not baseline
	DriftRemoved DriftType = "removed" // Name in baseline but not current
	DriftChanged DriftType = "changed" // Name in both with different values
)

// NameDrift represents a single name's drift.
type NameDrift struct {
	Name          string    `json:"name"`
	Type          DriftType `json:"type"`
	BaselineValue string    `json:"baselineValue,omitempty"`
	CurrentValue  string    `json:"currentValue,omitempty"`
}

// Report contains the full drift analysis.
type Report struct {
	HasDrift        bool        `json:"hasDrift"`
	BaselineName    string      `json:"baselineName"`
	BaselineVersion string      `json:"baselineVersion"`
	CurrentVersion  string      `json:"currentVersion"`
	BaselineTime    time.Time   `json:"baselineTime"`
	Changes         []NameDrift `json:"changes"`
}

// Detect compares the current resolved values against a baseline.
func Detect(b baseline.Baseline, current map[string]string, currentVersion string) Report {
	report := Report{
		BaselineName:    b.Name,
		BaselineVersion: b.EnvVersion,
		CurrentVersion:  currentVersion,
		BaselineTime:    b.Timestamp,
		Changes:         []NameDrift{},
	}

	// Quick check: if versions match, no drift
	if b.EnvVersion == currentVersion {
		return report
	}

	// Collect all names from both environments
	allNames := make(map[string]bool)
	for name := range b.Values {
		allNames[name] = true
	}
	for name := range current {
		allNames[name] = true
	}

	// Sort names for deterministic output
	names := make([]string, 0, len(allNames))
	for name := range allNames {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		baselineVal, inBaseline := b.Values[name]
		currentVal, inCurrent := current[name]

		if inBaseline && !inCurrent {
			report.Changes = append(report.Changes, NameDrift{
				Name:          name,
				Type:          DriftRemoved,
				BaselineValue: baselineVal,
			})
		} else if !inBaseline && inCurrent {
			report.Changes = append(report.Changes, NameDrift{
				Name:         name,
				Type:         DriftAdded,
				CurrentValue: currentVal,
			})
		} else if baselineVal != currentVal {
			report.Changes = append(report.Changes, NameDrift{
				Name:          name,
				Type:          DriftChanged,
				BaselineValue: baselineVal,
				CurrentValue:  currentVal,
			})
		}
	}

	report.HasDrift = len(report.Changes) > 0
	return report
}
