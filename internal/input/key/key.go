package key

import (
	"fmt"
	"strings"
)

// Key represents a keyboard key.
// For character keys, use KeyRune and set the Rune field in KeyPress.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Other special keys
	KeySpace
	KeyPause
	KeyPrintScreen
	KeyScrollLock
	KeyNumLock
	KeyCapsLock

	// Keypad keys
	KeyKP0
	KeyKP1
	KeyKP2
	KeyKP3
	KeyKP4
	KeyKP5
	KeyKP6
	KeyKP7
	KeyKP8
	KeyKP9
	KeyKPAdd
	KeyKPSubtract
	KeyKPMultiply
	KeyKPDivide
	KeyKPDecimal
	KeyKPEnter

	// Physical modifier keys. These only appear in RawEvent values for
	// presses of a modifier on its own and never in a KeyPress.
	KeyShift
	KeyCtrl
	KeyAlt
	KeyMeta

	// KeyRune is used for character keys (letters, numbers, punctuation).
	// The actual character is stored in KeyPress.Rune.
	KeyRune
)

// keyNames holds the canonical (lower-case) token for each named key.
var keyNames = map[Key]string{
	KeyEscape:      "escape",
	KeyEnter:       "enter",
	KeyTab:         "tab",
	KeyBackspace:   "backspace",
	KeyDelete:      "delete",
	KeyInsert:      "insert",
	KeyHome:        "home",
	KeyEnd:         "end",
	KeyPageUp:      "pageup",
	KeyPageDown:    "pagedown",
	KeyUp:          "up",
	KeyDown:        "down",
	KeyLeft:        "left",
	KeyRight:       "right",
	KeyF1:          "f1",
	KeyF2:          "f2",
	KeyF3:          "f3",
	KeyF4:          "f4",
	KeyF5:          "f5",
	KeyF6:          "f6",
	KeyF7:          "f7",
	KeyF8:          "f8",
	KeyF9:          "f9",
	KeyF10:         "f10",
	KeyF11:         "f11",
	KeyF12:         "f12",
	KeySpace:       "space",
	KeyPause:       "pause",
	KeyPrintScreen: "printscreen",
	KeyScrollLock:  "scrolllock",
	KeyNumLock:     "numlock",
	KeyCapsLock:    "capslock",
	KeyKP0:         "numpad0",
	KeyKP1:         "numpad1",
	KeyKP2:         "numpad2",
	KeyKP3:         "numpad3",
	KeyKP4:         "numpad4",
	KeyKP5:         "numpad5",
	KeyKP6:         "numpad6",
	KeyKP7:         "numpad7",
	KeyKP8:         "numpad8",
	KeyKP9:         "numpad9",
	KeyKPAdd:       "numpad_add",
	KeyKPSubtract:  "numpad_subtract",
	KeyKPMultiply:  "numpad_multiply",
	KeyKPDivide:    "numpad_divide",
	KeyKPDecimal:   "numpad_decimal",
	KeyKPEnter:     "numpad_enter",
	KeyShift:       "shift",
	KeyCtrl:        "ctrl",
	KeyAlt:         "alt",
	KeyMeta:        "meta",
}

// String returns the canonical token for the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "none"
	case KeyRune:
		return "rune"
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsSpecial returns true if this is a special (non-character) key.
func (k Key) IsSpecial() bool {
	return k != KeyNone && k != KeyRune
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// IsKeypadKey returns true if this is a keypad key.
func (k Key) IsKeypadKey() bool {
	return k >= KeyKP0 && k <= KeyKPEnter
}

// IsModifier returns true for a physical modifier key pressed on its own.
func (k Key) IsModifier() bool {
	return k >= KeyShift && k <= KeyMeta
}

// keyNameMap maps key names and their aliases (lowercase) to Key values.
// Modifier keys are deliberately absent: a chord step cannot end in one.
var keyNameMap = map[string]Key{
	"escape":          KeyEscape,
	"esc":             KeyEscape,
	"enter":           KeyEnter,
	"return":          KeyEnter,
	"cr":              KeyEnter,
	"tab":             KeyTab,
	"backspace":       KeyBackspace,
	"bs":              KeyBackspace,
	"delete":          KeyDelete,
	"del":             KeyDelete,
	"insert":          KeyInsert,
	"ins":             KeyInsert,
	"home":            KeyHome,
	"end":             KeyEnd,
	"pageup":          KeyPageUp,
	"pgup":            KeyPageUp,
	"pagedown":        KeyPageDown,
	"pgdn":            KeyPageDown,
	"up":              KeyUp,
	"down":            KeyDown,
	"left":            KeyLeft,
	"right":           KeyRight,
	"f1":              KeyF1,
	"f2":              KeyF2,
	"f3":              KeyF3,
	"f4":              KeyF4,
	"f5":              KeyF5,
	"f6":              KeyF6,
	"f7":              KeyF7,
	"f8":              KeyF8,
	"f9":              KeyF9,
	"f10":             KeyF10,
	"f11":             KeyF11,
	"f12":             KeyF12,
	"space":           KeySpace,
	"pause":           KeyPause,
	"printscreen":     KeyPrintScreen,
	"scrolllock":      KeyScrollLock,
	"numlock":         KeyNumLock,
	"capslock":        KeyCapsLock,
	"numpad0":         KeyKP0,
	"numpad1":         KeyKP1,
	"numpad2":         KeyKP2,
	"numpad3":         KeyKP3,
	"numpad4":         KeyKP4,
	"numpad5":         KeyKP5,
	"numpad6":         KeyKP6,
	"numpad7":         KeyKP7,
	"numpad8":         KeyKP8,
	"numpad9":         KeyKP9,
	"numpad_add":      KeyKPAdd,
	"numpad_subtract": KeyKPSubtract,
	"numpad_multiply": KeyKPMultiply,
	"numpad_divide":   KeyKPDivide,
	"numpad_decimal":  KeyKPDecimal,
	"numpad_enter":    KeyKPEnter,
}

// runeAliases names punctuation that cannot be written literally in a step.
var runeAliases = map[string]rune{
	"plus": '+',
}

// KeyFromName returns the Key for a given name (case-insensitive).
// Returns KeyNone if the name is not recognized.
func KeyFromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	return KeyNone
}
