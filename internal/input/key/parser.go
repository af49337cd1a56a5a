package key

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ParseChord parses chord text into a Chord.
//
// Supported formats:
//   - Single step: "a", "enter", "ctrl+s", "Ctrl+Shift+P"
//   - Multiple steps: "ctrl+k ctrl+s", "g g"
//   - The + key: "ctrl++" or "ctrl+plus"
//
// Parsing is case-insensitive. Errors match ErrSyntax.
func ParseChord(text string) (Chord, error) {
	steps := strings.Fields(text)
	if len(steps) == 0 {
		return Chord{}, &SyntaxError{Input: text, Message: "empty chord"}
	}

	presses := make([]KeyPress, 0, len(steps))
	for i, step := range steps {
		p, err := parseStep(text, i+1, step)
		if err != nil {
			return Chord{}, err
		}
		presses = append(presses, p)
	}
	return Chord{presses: presses}, nil
}

// MustParseChord parses chord text and panics on error.
// Use only for known-valid chords in initialization code and tests.
func MustParseChord(text string) Chord {
	c, err := ParseChord(text)
	if err != nil {
		panic("invalid key chord: " + text + ": " + err.Error())
	}
	return c
}

// NormalizeChord parses chord text and re-formats it to its canonical form.
func NormalizeChord(text string) (string, error) {
	c, err := ParseChord(text)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

// ParsePress parses a single step such as "ctrl+s".
func ParsePress(step string) (KeyPress, error) {
	c, err := ParseChord(step)
	if err != nil {
		return KeyPress{}, err
	}
	if c.Len() != 1 {
		return KeyPress{}, &SyntaxError{Input: step, Message: "expected a single step"}
	}
	return c.At(0), nil
}

// parseStep parses one "+"-joined step.
func parseStep(input string, index int, step string) (KeyPress, error) {
	var modPart, keyPart string

	switch {
	case step == "+":
		keyPart = "+"
	case strings.HasSuffix(step, "++"):
		modPart = step[:len(step)-2]
		keyPart = "+"
		if modPart == "" {
			return KeyPress{}, &SyntaxError{Input: input, Step: index, Message: "empty modifier"}
		}
	default:
		i := strings.LastIndexByte(step, '+')
		if i < 0 {
			keyPart = step
			break
		}
		if i == 0 {
			return KeyPress{}, &SyntaxError{Input: input, Step: index, Message: "empty modifier"}
		}
		modPart, keyPart = step[:i], step[i+1:]
		if keyPart == "" {
			return KeyPress{}, &SyntaxError{Input: input, Step: index, Message: "dangling '+'"}
		}
	}

	var mods Modifier
	if modPart != "" {
		for _, tok := range strings.Split(modPart, "+") {
			if tok == "" {
				return KeyPress{}, &SyntaxError{Input: input, Step: index, Message: "empty modifier"}
			}
			mod := ModifierFromName(tok)
			if mod == ModNone {
				return KeyPress{}, &UnknownModifierError{Input: input, Step: index, Modifier: tok}
			}
			mods = mods.With(mod)
		}
	}

	return parseBaseKey(input, index, keyPart, mods)
}

// parseBaseKey parses the key part of a step with already-known modifiers.
func parseBaseKey(input string, index int, tok string, mods Modifier) (KeyPress, error) {
	lower := cases.Lower(language.Und).String(norm.NFC.String(tok))

	if k, ok := keyNameMap[lower]; ok {
		return NewSpecialPress(k, mods), nil
	}
	if r, ok := runeAliases[lower]; ok {
		return runePress(input, index, tok, r, mods)
	}

	// A literal key must be exactly one user-perceived character that
	// is also a single code point after composition.
	if uniseg.GraphemeClusterCount(lower) != 1 {
		return KeyPress{}, &UnknownKeyError{Input: input, Step: index, Key: tok}
	}
	runes := []rune(lower)
	if len(runes) != 1 || !unicode.IsPrint(runes[0]) || unicode.IsSpace(runes[0]) {
		return KeyPress{}, &UnknownKeyError{Input: input, Step: index, Key: tok}
	}
	return runePress(input, index, tok, runes[0], mods)
}

// runePress builds a character press. Shift only qualifies letters: for
// digits and punctuation the shifted character is its own key ("ctrl+?",
// not "ctrl+shift+/"), which is how ToKeyPress reports such events.
func runePress(input string, index int, tok string, r rune, mods Modifier) (KeyPress, error) {
	if mods.Has(ModShift) && !unicode.IsLetter(r) {
		return KeyPress{}, &SyntaxError{
			Input:   input,
			Step:    index,
			Message: fmt.Sprintf("shift cannot qualify %q; bind the shifted character instead", tok),
		}
	}
	return NewRunePress(r, mods), nil
}
