package keymap

import (
	"errors"
	"fmt"
)

// Declaration errors.
var (
	// ErrInvalidDeclaration is matched by every rejected declaration.
	ErrInvalidDeclaration = errors.New("invalid key binding declaration")

	// ErrEmptyKeys indicates a binding declaration without a chord.
	ErrEmptyKeys = errors.New("empty key")

	// ErrEmptyCommand indicates a declaration without a command.
	ErrEmptyCommand = errors.New("empty command")
)

// DeclarationError reports a declaration dropped during Build.
type DeclarationError struct {
	// Source is the tier of the declaration.
	Source Source
	// Index is the position within its tier.
	Index int
	// Declaration is the rejected input.
	Declaration Declaration
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DeclarationError) Error() string {
	return fmt.Sprintf("%s binding %d (%s): %v", e.Source, e.Index, e.Declaration, e.Err)
}

// Unwrap returns the underlying error.
func (e *DeclarationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidDeclaration.
func (e *DeclarationError) Is(target error) bool {
	return target == ErrInvalidDeclaration
}

// DeclarationErrors extracts every *DeclarationError joined into err.
func DeclarationErrors(err error) []*DeclarationError {
	if err == nil {
		return nil
	}
	var out []*DeclarationError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, DeclarationErrors(e)...)
		}
		return out
	}
	var de *DeclarationError
	if errors.As(err, &de) {
		out = append(out, de)
	}
	return out
}
