package key

import (
	"time"
	"unicode"
)

// RawEvent is a physical keyboard event as reported by the host.
type RawEvent struct {
	// Key identifies the key pressed. KeyShift, KeyCtrl, KeyAlt and
	// KeyMeta report a modifier pressed on its own.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers holds the physical modifier keys held down. ModMeta here
	// means the physical Cmd/Super/Win key.
	Modifiers Modifier

	// Time is when the event occurred.
	Time time.Time
}

// NewRawRune creates a raw event for a character key.
func NewRawRune(r rune, mods Modifier, at time.Time) RawEvent {
	return RawEvent{Key: KeyRune, Rune: r, Modifiers: mods, Time: at}
}

// NewRawSpecial creates a raw event for a special or modifier key.
func NewRawSpecial(k Key, mods Modifier, at time.Time) RawEvent {
	return RawEvent{Key: k, Modifiers: mods, Time: at}
}

// IsModifierOnly returns true for a modifier key pressed on its own.
func (e RawEvent) IsModifierOnly() bool {
	return e.Key.IsModifier()
}

// ToKeyPress maps a raw event to a normalized KeyPress for the given
// platform. It returns false for modifier-only presses and for events that
// carry no usable key; such events must not affect chord tracking.
//
// On PlatformMac the physical meta key yields ModMeta; elsewhere it is
// folded into ModCtrl. Upper-case letters are lower-cased and imply Shift.
// For other characters Shift is already reflected in the character itself
// and is dropped.
func ToKeyPress(ev RawEvent, platform Platform) (KeyPress, bool) {
	if ev.Key == KeyNone || ev.Key.IsModifier() {
		return KeyPress{}, false
	}

	mods := ev.Modifiers
	if mods.Has(ModMeta) && !platform.KeepsMeta() {
		mods = mods.Without(ModMeta).With(ModCtrl)
	}

	if ev.Key != KeyRune {
		return NewSpecialPress(ev.Key, mods), true
	}

	r := ev.Rune
	switch {
	case r == 0:
		return KeyPress{}, false
	case r == ' ':
		return NewSpecialPress(KeySpace, mods), true
	case unicode.IsUpper(r):
		return NewRunePress(unicode.ToLower(r), mods.With(ModShift)), true
	case unicode.IsLetter(r):
		return NewRunePress(r, mods), true
	default:
		return NewRunePress(r, mods.Without(ModShift)), true
	}
}
