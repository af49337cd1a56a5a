package key

import (
	"fmt"
	"strings"
	"time"
)

// KeyPress is one normalized keystroke: a modifier set plus a base key.
//
// For KeyRune presses the Rune field holds the lower-cased character; for
// every other key Rune is zero. KeyPress values are comparable with ==.
type KeyPress struct {
	// Key identifies the base key.
	Key Key

	// Rune is the character for KeyRune presses.
	Rune rune

	// Modifiers contains the active abstract modifiers.
	Modifiers Modifier
}

// NewRunePress creates a key press for a character.
func NewRunePress(r rune, mods Modifier) KeyPress {
	return KeyPress{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialPress creates a key press for a special key.
func NewSpecialPress(k Key, mods Modifier) KeyPress {
	return KeyPress{Key: k, Modifiers: mods}
}

// IsRune returns true if this is a character key press.
func (p KeyPress) IsRune() bool {
	return p.Key == KeyRune && p.Rune != 0
}

// BaseToken returns the canonical token of the base key without modifiers.
func (p KeyPress) BaseToken() string {
	if p.Key != KeyRune {
		return p.Key.String()
	}
	for alias, r := range runeAliases {
		if r == p.Rune {
			return alias
		}
	}
	return string(p.Rune)
}

// String returns the canonical representation, e.g. "ctrl+shift+k".
func (p KeyPress) String() string {
	parts := p.Modifiers.Names()
	parts = append(parts, p.BaseToken())
	return strings.Join(parts, "+")
}

// Raw returns the physical event that produces p on platforms that keep
// the meta modifier.
func (p KeyPress) Raw(at time.Time) RawEvent {
	return RawEvent{Key: p.Key, Rune: p.Rune, Modifiers: p.Modifiers, Time: at}
}

// GoString implements fmt.GoStringer for debugging.
func (p KeyPress) GoString() string {
	return fmt.Sprintf("KeyPress{Key: %s, Rune: %q, Modifiers: %s}",
		p.Key.String(), p.Rune, p.Modifiers.String())
}
