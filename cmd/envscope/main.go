package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"envscope/internal/artifact"
	"envscope/internal/baseline"
	"envscope/internal/check"
	"envscope/internal/cli"
	"envscope/internal/drift"
	"envscope/internal/engine"
	"envscope/internal/manifest"
	"envscope/internal/pattern"
	"envscope/internal/rule"
	"envscope/internal/snapshot"
)

// Exit codes: 0 success, 1 configuration error, 2 drift or requirement
// violation, 3 missing file/baseline/snapshot.
const (
	exitOK          = 0
	exitConfigError = 1
	exitViolation   = 2
	exitNotFound    = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Environ()))
}

// run orchestrates the full execution flow and returns an exit code.
// It is separated from main() to enable testing; all inputs (arguments and
// environment) arrive as parameters, nothing is read globally.
func run(args []string, environ []string) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cmd, err := cli.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitConfigError
	}

	// Snapshot and baseline housekeeping commands don't resolve anything.
	if cmd.Subcommand == cli.SubcommandSnapshots {
		return runSnapshots(cmd, environ)
	}
	if cmd.Subcommand == cli.SubcommandBaseline && cmd.Action != "save" {
		return runBaselineHousekeeping(cmd, environ)
	}

	matcher := pattern.NewRegexp()

	// Rules: manifest first, then command-line flags, left to right.
	var rules rule.RuleSet
	var require []string
	if cmd.RulesFile != "" {
		m, err := manifest.Load(cmd.RulesFile, matcher)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "rules file not found: %s\n", cmd.RulesFile)
				return exitNotFound
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitConfigError
		}
		rules = append(rules, m.Rules...)
		require = m.Require
	}

	built, err := rule.Build(cmd.RuleTokens, matcher)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitConfigError
	}
	rules = append(rules, built...)

	// Snapshot: capture the live environment, or replay a stored one.
	var snap snapshot.Snapshot
	if cmd.FromSnapshot != "" {
		store := snapshot.NewStore(snapshot.ResolveDir(environ))
		loaded, _, err := store.Load(cmd.FromSnapshot)
		if err != nil {
			if errors.Is(err, snapshot.ErrSnapshotNotFound) {
				fmt.Fprintf(os.Stderr, "snapshot not found: %s\n", cmd.FromSnapshot)
				return exitNotFound
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitConfigError
		}
		snap = loaded
	} else {
		var diags []snapshot.Diagnostic
		snap, diags = snapshot.Capture(environ)
		for _, d := range diags {
			logger.Warn("excluding environment entry from snapshot",
				"entry", d.Entry, "reason", d.Reason)
		}
	}

	if cmd.SaveSnapshot {
		store := snapshot.NewStore(snapshot.ResolveDir(environ))
		path, err := store.Save(snap)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error: cannot save snapshot:", err)
			return exitConfigError
		}
		fmt.Fprintf(os.Stderr, "Snapshot saved: %s\n", path)
	}

	env := engine.Resolve(snap, rules, matcher)

	// Post-resolution requirements from the manifest.
	result := check.Evaluate(require, env)
	if !result.Passed {
		fmt.Fprint(os.Stderr, check.FormatViolations(result))
		return exitViolation
	}

	switch cmd.Subcommand {
	case cli.SubcommandResolve:
		return runResolve(cmd, snap, rules, env)
	case cli.SubcommandLookup:
		return runLookup(cmd, env)
	case cli.SubcommandBaseline:
		return runBaselineSave(cmd, environ, snap, rules, env)
	case cli.SubcommandDiff:
		return runDiff(cmd, environ, env)
	}

	return exitOK
}

// runResolve prints the resolved logical environment and optionally writes
// the audit artifact.
func runResolve(cmd cli.Command, snap snapshot.Snapshot, rules rule.RuleSet, env *engine.LogicalEnvironment) int {
	art := artifact.Generate(snap, rules, env)

	if cmd.ArtifactFile != "" {
		if err := art.WriteToFile(cmd.ArtifactFile); err != nil {
			fmt.Fprintln(os.Stderr, "Error: cannot write artifact:", err)
			return exitConfigError
		}
	}

	if cmd.JSONOutput {
		jsonBytes, err := art.ToJSON()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitConfigError
		}
		fmt.Println(string(jsonBytes))
		return exitOK
	}

	for _, name := range env.Names() {
		value, _ := env.Lookup(name)
		fmt.Printf("%s=%s\n", name, value)
	}
	return exitOK
}

// runLookup prints one value from the resolved environment. Absent names
// exit non-zero so scripts can distinguish absent from empty.
func runLookup(cmd cli.Command, env *engine.LogicalEnvironment) int {
	value, ok := env.Lookup(cmd.Name)
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: not present in the logical environment\n", cmd.Name)
		return exitConfigError
	}
	fmt.Println(value)
	return exitOK
}

// runBaselineSave persists the current resolution under a name.
func runBaselineSave(cmd cli.Command, environ []string, snap snapshot.Snapshot, rules rule.RuleSet, env *engine.LogicalEnvironment) int {
	art := artifact.Generate(snap, rules, env)

	store := baseline.NewStore(baseline.ResolveDir(environ))
	b := baseline.Baseline{
		Name:         cmd.Name,
		ResolutionID: art.ResolutionID,
		EnvVersion:   art.EnvVersion,
		Values:       art.Values,
		Rules:        rules,
		Timestamp:    time.Now().UTC(),
	}

	if err := store.Save(b); err != nil {
		fmt.Fprintln(os.Stderr, "Error: cannot save baseline:", err)
		return exitConfigError
	}

	fmt.Printf("Baseline '%s' saved (%d entries, %s)\n", b.Name, len(b.Values), b.EnvVersion)
	return exitOK
}

// runBaselineHousekeeping handles baseline list/show/delete.
func runBaselineHousekeeping(cmd cli.Command, environ []string) int {
	store := baseline.NewStore(baseline.ResolveDir(environ))

	switch cmd.Action {
	case "list":
		summaries, err := store.List()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitConfigError
		}
		if len(summaries) == 0 {
			fmt.Fprintln(os.Stderr, "No baselines saved.")
			return exitOK
		}

		tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
		fmt.Fprintf(tw, "NAME\tENTRIES\tVERSION\tSAVED\n")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.Name, s.Entries, shortHash(s.EnvVersion), s.Timestamp.Format("2006-01-02 15:04"))
		}
		tw.Flush()
		return exitOK

	case "show":
		b, err := store.Load(cmd.Name)
		if err != nil {
			if errors.Is(err, baseline.ErrBaselineNotFound) {
				fmt.Fprintf(os.Stderr, "baseline not found: %s\n", cmd.Name)
				return exitNotFound
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitConfigError
		}
		printJSON(b)
		return exitOK

	case "delete":
		if err := store.Delete(cmd.Name); err != nil {
			if errors.Is(err, baseline.ErrBaselineNotFound) {
				fmt.Fprintf(os.Stderr, "baseline not found: %s\n", cmd.Name)
				return exitNotFound
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitConfigError
		}
		fmt.Printf("Baseline '%s' deleted\n", cmd.Name)
		return exitOK
	}

	return exitConfigError
}

// runDiff compares the current resolution against a stored baseline.
func runDiff(cmd cli.Command, environ []string, env *engine.LogicalEnvironment) int {
	store := baseline.NewStore(baseline.ResolveDir(environ))

	b, err := store.Load(cmd.Name)
	if err != nil {
		if errors.Is(err, baseline.ErrBaselineNotFound) {
			fmt.Fprintf(os.Stderr, "baseline not found: %s\n", cmd.Name)
			return exitNotFound
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitConfigError
	}

	values := env.Values()
	report := drift.Detect(b, values, artifact.ComputeEnvVersion(values))

	if !report.HasDrift {
		fmt.Printf("No drift against baseline '%s'\n", b.Name)
		return exitOK
	}

	switch {
	case cmd.JSONOutput:
		out, err := drift.FormatJSON(report)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitConfigError
		}
		fmt.Println(out)
	case cmd.CIMode:
		fmt.Print(drift.FormatCI(report))
	default:
		fmt.Print(drift.FormatCLI(report))
	}

	return exitViolation
}

// runSnapshots handles snapshots list/show/delete.
func runSnapshots(cmd cli.Command, environ []string) int {
	store := snapshot.NewStore(snapshot.ResolveDir(environ))

	switch cmd.Action {
	case "list":
		summaries, err := store.List()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitConfigError
		}
		if len(summaries) == 0 {
			fmt.Fprintln(os.Stderr, "No snapshots saved.")
			return exitOK
		}

		sort.Slice(summaries, func(i, j int) bool { return summaries[i].Timestamp.After(summaries[j].Timestamp) })

		tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
		fmt.Fprintf(tw, "ID\tENTRIES\tCAPTURED\n")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", shortHash(s.ID), s.Entries, s.Timestamp.Format("2006-01-02 15:04"))
		}
		tw.Flush()
		return exitOK

	case "show":
		_, stored, err := store.Load(cmd.Name)
		if err != nil {
			if errors.Is(err, snapshot.ErrSnapshotNotFound) {
				fmt.Fprintf(os.Stderr, "snapshot not found: %s\n", cmd.Name)
				return exitNotFound
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitConfigError
		}
		printJSON(stored)
		return exitOK

	case "delete":
		if err := store.Delete(cmd.Name); err != nil {
			if errors.Is(err, snapshot.ErrSnapshotNotFound) {
				fmt.Fprintf(os.Stderr, "snapshot not found: %s\n", cmd.Name)
				return exitNotFound
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			return exitConfigError
		}
		fmt.Printf("Snapshot %s deleted\n", cmd.Name)
		return exitOK
	}

	return exitConfigError
}
