package key

import "strings"

// Chord is an ordered, non-empty sequence of key presses that triggers a
// binding. Examples: "ctrl+s", "ctrl+k ctrl+s".
//
// The zero Chord is empty and only ever used as "no chord"; ParseChord and
// NewChord never return one without an error.
type Chord struct {
	presses []KeyPress
}

// NewChord creates a chord from the given presses.
// The presses are copied; the caller may reuse the slice.
func NewChord(presses ...KeyPress) Chord {
	cp := make([]KeyPress, len(presses))
	copy(cp, presses)
	return Chord{presses: cp}
}

// Len returns the number of steps in the chord.
func (c Chord) Len() int {
	return len(c.presses)
}

// IsEmpty returns true if the chord has no steps.
func (c Chord) IsEmpty() bool {
	return len(c.presses) == 0
}

// At returns the step at the given index.
func (c Chord) At(i int) KeyPress {
	return c.presses[i]
}

// Presses returns a copy of the chord's steps.
func (c Chord) Presses() []KeyPress {
	cp := make([]KeyPress, len(c.presses))
	copy(cp, c.presses)
	return cp
}

// Equals returns true if two chords have identical steps.
func (c Chord) Equals(other Chord) bool {
	if len(c.presses) != len(other.presses) {
		return false
	}
	for i, p := range c.presses {
		if p != other.presses[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true if prefix is a non-empty leading part of c
// (including c itself).
func (c Chord) HasPrefix(prefix Chord) bool {
	if prefix.IsEmpty() || len(prefix.presses) > len(c.presses) {
		return false
	}
	for i, p := range prefix.presses {
		if p != c.presses[i] {
			return false
		}
	}
	return true
}

// HasStrictPrefix returns true if prefix is a non-empty leading part of c
// and c has more steps after it.
func (c Chord) HasStrictPrefix(prefix Chord) bool {
	return len(prefix.presses) < len(c.presses) && c.HasPrefix(prefix)
}

// Append returns a new chord with p added as the last step.
func (c Chord) Append(p KeyPress) Chord {
	presses := make([]KeyPress, len(c.presses), len(c.presses)+1)
	copy(presses, c.presses)
	return Chord{presses: append(presses, p)}
}

// String returns the canonical text form, e.g. "ctrl+k ctrl+s".
func (c Chord) String() string {
	parts := make([]string, len(c.presses))
	for i, p := range c.presses {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// Canonical returns the canonical text form of a chord.
// It is the inverse of ParseChord and the stable binding table key.
func Canonical(c Chord) string {
	return c.String()
}
