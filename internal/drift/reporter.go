package drift

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatCLI formats a drift report for terminal output.
func FormatCLI(report Report) string {
	if !report.HasDrift {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Logical environment drift since baseline '%s':\n", report.BaselineName))

	for _, change := range report.Changes {
		switch change.Type {
		case DriftAdded:
			sb.WriteString(fmt.Sprintf("  + %s: (new) → %s\n", change.Name, change.CurrentValue))
		case DriftRemoved:
			sb.WriteString(fmt.Sprintf("  - %s: %s → (removed)\n", change.Name, change.BaselineValue))
		case DriftChanged:
			sb.WriteString(fmt.Sprintf("  ~ %s: %s → %s\n", change.Name, change.BaselineValue, change.CurrentValue))
		}
	}

	return sb.String()
}

// FormatCI formats a drift report as CI warning annotations.
func FormatCI(report Report) string {
	if !report.HasDrift {
		return ""
	}

	var sb strings.Builder

	for _, change := range report.Changes {
		var msg string
		switch change.Type {
		case DriftAdded:
			msg = fmt.Sprintf("Environment drift: %s added (value: %s)", change.Name, change.CurrentValue)
		case DriftRemoved:
			msg = fmt.Sprintf("Environment drift: %s removed (was: %s)", change.Name, change.BaselineValue)
		case DriftChanged:
			msg = fmt.Sprintf("Environment drift: %s changed from '%s' to '%s'", change.Name, change.BaselineValue, change.CurrentValue)
		}
		sb.WriteString(fmt.Sprintf("::warning::%s\n", msg))
	}

	sb.WriteString(fmt.Sprintf("\nEnvironment drift detected: %d change(s) since baseline '%s'\n", len(report.Changes), report.BaselineName))
	return sb.String()
}

// FormatJSON formats a drift report as JSON.
func FormatJSON(report Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
