package when

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every when clause parse error.
var ErrSyntax = errors.New("invalid when clause")

// SyntaxError describes malformed when clause text.
type SyntaxError struct {
	// Input is the full clause being parsed.
	Input string
	// Pos is the byte offset of the offending token.
	Pos int
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("when clause %q: at offset %d: %s", e.Input, e.Pos, e.Message)
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
