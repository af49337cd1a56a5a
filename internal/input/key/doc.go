// Package key provides keystroke and chord types for the resolution core.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Shift, Alt, Meta)
//   - KeyPress: A single normalized keystroke with modifiers
//   - Chord: A non-empty series of key presses forming a binding trigger
//   - RawEvent: A physical keyboard event as reported by the host
//
// # Chord Syntax
//
// Chords are written as space-separated steps, each step being
// "+"-joined modifiers followed by a base key:
//
//	"ctrl+s"           - single step
//	"ctrl+k ctrl+s"    - two steps
//	"Ctrl+Shift+P"     - case-insensitive
//	"cmd+plus"         - "plus" names the + key
//
// Modifier aliases cmd, command, meta, super and win all normalize to the
// platform-neutral Meta modifier. The platform mapping is applied by
// ToKeyPress, so a parsed Chord never depends on the running platform.
//
// # Canonical Form
//
// Chord.String returns the canonical form used as the binding table key:
// modifiers are ordered ctrl, shift, alt, meta and every token is lower
// case, so "Shift+Ctrl+K" and "ctrl+shift+k" normalize identically.
package key
