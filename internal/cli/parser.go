// Package cli parses command-line arguments. Rule options are collected as
// an ordered token list. Order across the three option kinds is semantic,
// so parsing keeps every occurrence in the position it appeared rather than
// bucketing values per flag.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"envscope/internal/rule"
)

// ErrNoSubcommand is returned when no subcommand is provided.
var ErrNoSubcommand = errors.New("missing subcommand: usage: envscope <resolve|lookup|baseline|diff|snapshots> [flags]")

// ErrMissingFlagValue is returned when a flag requires a value but none is provided.
var ErrMissingFlagValue = errors.New("flag requires a value")

// Subcommand represents the CLI subcommand.
type Subcommand string

const (
	SubcommandResolve   Subcommand = "resolve"
	SubcommandLookup    Subcommand = "lookup"
	SubcommandBaseline  Subcommand = "baseline"
	SubcommandDiff      Subcommand = "diff"
	SubcommandSnapshots Subcommand = "snapshots"
)

// Command represents the parsed CLI input.
type Command struct {
	Subcommand Subcommand
	Action     string // baseline: save|list|show|delete; snapshots: list|show|delete
	Name       string // lookup name, baseline name, diff baseline, snapshot ID

	// Rule options in the order they appeared on the command line.
	RuleTokens []rule.Token

	RulesFile    string // --rules-file <path>
	JSONOutput   bool   // --json
	CIMode       bool   // --ci
	ArtifactFile string // --artifact-file <path>
	SaveSnapshot bool   // --save-snapshot
	FromSnapshot string // --from-snapshot <id>
}

// subcommandsWithAction take a second word (baseline save, snapshots list).
var subcommandsWithAction = map[Subcommand]bool{
	SubcommandBaseline:  true,
	SubcommandSnapshots: true,
}

// subcommandsWithName take one positional name argument.
var subcommandsWithName = map[Subcommand]bool{
	SubcommandLookup: true,
	SubcommandDiff:   true,
}

// ParseArgs parses CLI arguments into a Command.
// It expects args to be os.Args[1:] (excluding the program name).
func ParseArgs(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, ErrNoSubcommand
	}

	subcommand := Subcommand(args[0])
	switch subcommand {
	case SubcommandResolve, SubcommandLookup, SubcommandBaseline, SubcommandDiff, SubcommandSnapshots:
	default:
		return Command{}, ErrNoSubcommand
	}

	cmd := Command{Subcommand: subcommand}

	rulePosition := 0
	i := 1

	for i < len(args) {
		arg := args[i]

		if strings.HasPrefix(arg, "--") {
			switch arg {
			case rule.OptionWhitelist, rule.OptionBlacklist, rule.OptionSet:
				if i+1 >= len(args) {
					return Command{}, fmt.Errorf("%s: %w", arg, ErrMissingFlagValue)
				}
				i++
				rulePosition++
				cmd.RuleTokens = append(cmd.RuleTokens, rule.Token{
					Option:   arg,
					Value:    args[i],
					Position: rulePosition,
				})

			case "--rules-file":
				if i+1 >= len(args) {
					return Command{}, fmt.Errorf("%s: %w", arg, ErrMissingFlagValue)
				}
				i++
				cmd.RulesFile = args[i]

			case "--artifact-file":
				if i+1 >= len(args) {
					return Command{}, fmt.Errorf("%s: %w", arg, ErrMissingFlagValue)
				}
				i++
				cmd.ArtifactFile = args[i]

			case "--from-snapshot":
				if i+1 >= len(args) {
					return Command{}, fmt.Errorf("%s: %w", arg, ErrMissingFlagValue)
				}
				i++
				cmd.FromSnapshot = args[i]

			case "--json":
				cmd.JSONOutput = true

			case "--ci":
				cmd.CIMode = true

			case "--save-snapshot":
				cmd.SaveSnapshot = true

			default:
				return Command{}, fmt.Errorf("unknown flag: %s", arg)
			}
			i++
			continue
		}

		// Positional argument: action word first for subcommands that take
		// one, then the name.
		if subcommandsWithAction[cmd.Subcommand] && cmd.Action == "" {
			cmd.Action = arg
		} else if cmd.Name == "" {
			cmd.Name = arg
		} else {
			return Command{}, fmt.Errorf("unexpected argument: %s", arg)
		}
		i++
	}

	if err := validate(cmd); err != nil {
		return Command{}, err
	}

	return cmd, nil
}

// validate checks that the positional arguments a subcommand needs are all
// present.
func validate(cmd Command) error {
	if subcommandsWithName[cmd.Subcommand] && cmd.Name == "" {
		return fmt.Errorf("%s: missing name argument", cmd.Subcommand)
	}

	switch cmd.Subcommand {
	case SubcommandResolve:
		if cmd.Name != "" {
			return fmt.Errorf("resolve: unexpected argument: %s", cmd.Name)
		}

	case SubcommandBaseline:
		switch cmd.Action {
		case "save", "show", "delete":
			if cmd.Name == "" {
				return fmt.Errorf("baseline %s: missing baseline name", cmd.Action)
			}
		case "list":
		case "":
			return errors.New("baseline: missing action: usage: envscope baseline <save|list|show|delete> [name]")
		default:
			return fmt.Errorf("baseline: unknown action %q", cmd.Action)
		}

	case SubcommandSnapshots:
		switch cmd.Action {
		case "show", "delete":
			if cmd.Name == "" {
				return fmt.Errorf("snapshots %s: missing snapshot ID", cmd.Action)
			}
		case "list":
		case "":
			return errors.New("snapshots: missing action: usage: envscope snapshots <list|show|delete> [id]")
		default:
			return fmt.Errorf("snapshots: unknown action %q", cmd.Action)
		}
	}

	return nil
}
