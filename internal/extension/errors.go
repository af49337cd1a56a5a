package extension

import (
	"errors"
	"fmt"
)

// Errors for extension script execution.
var (
	// ErrRuntimeClosed is returned when using a closed runtime.
	ErrRuntimeClosed = errors.New("extension runtime is closed")

	// ErrScriptTimeout is returned when a script runs past its deadline.
	ErrScriptTimeout = errors.New("extension script timeout")
)

// ScriptError reports a script that failed to run.
type ScriptError struct {
	// Script is the file path or chunk name.
	Script string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("extension %s: %v", e.Script, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScriptError) Unwrap() error {
	return e.Err
}
