// Package validate checks command definitions at registration time and
// argument values at parse time.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aallbrig/clause/models"
)

// Registration errors. Every error returned by Command wraps one of these.
var (
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidAlias    = errors.New("invalid short alias")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrVarArgPlacement = errors.New("invalid vararg positional placement")
	ErrDefaultValue    = errors.New("invalid default value")
	ErrEmptyGroup      = errors.New("group has no members")
	ErrNoRunFunc       = errors.New("command has no run function")
)

// RegistrationError describes why a command definition was rejected.
type RegistrationError struct {
	Command string
	Detail  string
	Err     error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("command %q: %s: %s", e.Command, e.Err, e.Detail)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

func reject(cmd, detail string, err error) error {
	return &RegistrationError{Command: cmd, Detail: detail, Err: err}
}

// ArgErrorKind classifies a per-argument problem.
type ArgErrorKind int

const (
	MissingValue ArgErrorKind = iota
	IllegalMultipleValues
	IncorrectType
	IllegalValue
)

// String implements fmt.Stringer.
func (k ArgErrorKind) String() string {
	switch k {
	case MissingValue:
		return "missing value"
	case IllegalMultipleValues:
		return "illegal multiple values"
	case IncorrectType:
		return "incorrect type"
	case IllegalValue:
		return "illegal value"
	}
	return "unknown"
}

// ArgError is one invalid argument. Errors are collected, not thrown, so a
// single parse reports every problem with a clause.
type ArgError struct {
	Kind     ArgErrorKind
	Arg      string
	Got      models.Value
	Expected string
}

func (e *ArgError) Error() string {
	msg := e.Arg + ": " + e.Kind.String()
	if e.Got != nil {
		msg += " (got: " + models.Format(e.Got) + ")"
	}
	if e.Expected != "" {
		msg += " - expected: " + e.Expected
	}
	return msg
}

// Names returns the argument names of errs in order, without duplicates.
func Names(errs []*ArgError) []string {
	seen := make(map[string]bool, len(errs))
	var names []string
	for _, e := range errs {
		if seen[e.Arg] {
			continue
		}
		seen[e.Arg] = true
		names = append(names, e.Arg)
	}
	return names
}

// Summary joins the messages of errs with "; ".
func Summary(errs []*ArgError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
