package rule

import (
	"errors"
	"fmt"
)

// ErrMissingEquals is returned when an --env-set token has no "=" separator.
var ErrMissingEquals = errors.New("expected VAR=VALUE")

// ErrUnknownOption is returned when a token names an option Build does not
// recognize.
var ErrUnknownOption = errors.New("unknown environment option")

// SyntaxError is a fatal configuration error detected during rule
// construction, before any resolution runs. It names the offending option,
// its value, and its position among the rule options on the command line.
type SyntaxError struct {
	Option   string
	Value    string
	Position int
	Err      error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s %q (option %d): %v", e.Option, e.Value, e.Position, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
