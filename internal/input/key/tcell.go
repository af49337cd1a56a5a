package key

import (
	"github.com/gdamore/tcell/v2"
)

// FromTcell converts a tcell key event into a RawEvent.
//
// Terminals deliver Ctrl+letter as ASCII control codes; those are mapped
// back to the letter with Ctrl held. Backtab becomes Shift+Tab.
func FromTcell(ev *tcell.EventKey) RawEvent {
	mods := fromTcellMod(ev.Modifiers())
	raw := RawEvent{Modifiers: mods, Time: ev.When()}

	k := ev.Key()
	switch k {
	case tcell.KeyRune:
		raw.Key = KeyRune
		raw.Rune = ev.Rune()
		return raw
	case tcell.KeyCtrlSpace:
		raw.Key = KeySpace
		raw.Modifiers = mods.With(ModCtrl)
		return raw
	case tcell.KeyBacktab:
		raw.Key = KeyTab
		raw.Modifiers = mods.With(ModShift)
		return raw
	}

	if tk := convertTcellKey(k); tk != KeyNone {
		raw.Key = tk
		return raw
	}

	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		raw.Key = KeyRune
		raw.Rune = 'a' + rune(k-tcell.KeyCtrlA)
		raw.Modifiers = mods.With(ModCtrl)
	}
	return raw
}

// convertTcellKey converts a tcell special key to our Key type.
func convertTcellKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyEnter:
		return KeyEnter
	case tcell.KeyTab:
		return KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace
	case tcell.KeyDelete:
		return KeyDelete
	case tcell.KeyInsert:
		return KeyInsert
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyPgUp:
		return KeyPageUp
	case tcell.KeyPgDn:
		return KeyPageDown
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyLeft:
		return KeyLeft
	case tcell.KeyRight:
		return KeyRight
	case tcell.KeyF1:
		return KeyF1
	case tcell.KeyF2:
		return KeyF2
	case tcell.KeyF3:
		return KeyF3
	case tcell.KeyF4:
		return KeyF4
	case tcell.KeyF5:
		return KeyF5
	case tcell.KeyF6:
		return KeyF6
	case tcell.KeyF7:
		return KeyF7
	case tcell.KeyF8:
		return KeyF8
	case tcell.KeyF9:
		return KeyF9
	case tcell.KeyF10:
		return KeyF10
	case tcell.KeyF11:
		return KeyF11
	case tcell.KeyF12:
		return KeyF12
	case tcell.KeyPause:
		return KeyPause
	case tcell.KeyPrint:
		return KeyPrintScreen
	default:
		return KeyNone
	}
}

// fromTcellMod converts a tcell modifier mask to our Modifier type.
func fromTcellMod(m tcell.ModMask) Modifier {
	var result Modifier
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= ModMeta
	}
	return result
}
