package runner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aallbrig/clause/models"
	"github.com/aallbrig/clause/validate"
)

// Parse failures. Every UsageError wraps one of these.
var (
	ErrMultipleCommands = errors.New("more than one command specified")
	ErrNoCommand        = errors.New("no command specified")
	ErrInvalidArgs      = errors.New("invalid arguments")
	ErrNotRunnable      = errors.New("command cannot be run directly")
	ErrUnusedArgs       = errors.New("unused arguments")
)

// UsageError is returned with the ParseError outcome.
type UsageError struct {
	Command string
	Detail  string
	Invalid []*validate.ArgError
	Err     error
}

func (e *UsageError) Error() string {
	var b strings.Builder
	if e.Command != "" {
		fmt.Fprintf(&b, "%s: ", e.Command)
	}
	b.WriteString(e.Err.Error())
	if len(e.Invalid) > 0 {
		fmt.Fprintf(&b, ": %s (%s)", strings.Join(validate.Names(e.Invalid), ", "), validate.Summary(e.Invalid))
	}
	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}
	return b.String()
}

func (e *UsageError) Unwrap() error { return e.Err }

// ExecError is returned with the CommandError outcome.
type ExecError struct {
	Command string
	Args    models.Args
	Err     error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("error executing %s: %v", e.Command, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }
