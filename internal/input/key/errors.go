package key

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every chord parse error.
var ErrSyntax = errors.New("invalid key chord")

// SyntaxError describes malformed chord text (empty input, empty step,
// dangling "+").
type SyntaxError struct {
	// Input is the full chord text being parsed.
	Input string
	// Step is the 1-based step index, or 0 when the whole input is at fault.
	Step int
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Step > 0 {
		return fmt.Sprintf("key chord %q: step %d: %s", e.Input, e.Step, e.Message)
	}
	return fmt.Sprintf("key chord %q: %s", e.Input, e.Message)
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// UnknownModifierError is returned for an unrecognized modifier token.
type UnknownModifierError struct {
	Input    string
	Step     int
	Modifier string
}

// Error implements the error interface.
func (e *UnknownModifierError) Error() string {
	return fmt.Sprintf("key chord %q: step %d: unknown modifier %q", e.Input, e.Step, e.Modifier)
}

// Is reports whether target is ErrSyntax.
func (e *UnknownModifierError) Is(target error) bool {
	return target == ErrSyntax
}

// UnknownKeyError is returned for an unrecognized base key token.
type UnknownKeyError struct {
	Input string
	Step  int
	Key   string
}

// Error implements the error interface.
func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("key chord %q: step %d: unknown key %q", e.Input, e.Step, e.Key)
}

// Is reports whether target is ErrSyntax.
func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrSyntax
}
