package keymap

// Defaults returns the built-in default-tier declarations, used when no
// defaults file is configured.
func Defaults() []Declaration {
	return []Declaration{
		// File operations
		{Keys: "ctrl+s", Command: "file.save"},
		{Keys: "ctrl+shift+s", Command: "file.saveAs"},
		{Keys: "ctrl+o", Command: "file.open"},
		{Keys: "ctrl+n", Command: "file.new"},
		{Keys: "ctrl+w", Command: "editor.close", When: "editorFocus"},

		// Edit
		{Keys: "ctrl+z", Command: "edit.undo", When: "editorTextFocus && !editorReadonly"},
		{Keys: "ctrl+shift+z", Command: "edit.redo", When: "editorTextFocus && !editorReadonly"},
		{Keys: "ctrl+y", Command: "edit.redo", When: "editorTextFocus && !editorReadonly"},
		{Keys: "ctrl+c", Command: "edit.copy", When: "editorTextFocus"},
		{Keys: "ctrl+x", Command: "edit.cut", When: "editorTextFocus && !editorReadonly"},
		{Keys: "ctrl+v", Command: "edit.paste", When: "editorTextFocus && !editorReadonly"},
		{Keys: "ctrl+a", Command: "edit.selectAll"},

		// Find
		{Keys: "ctrl+f", Command: "find.open"},
		{Keys: "ctrl+h", Command: "find.replace", When: "!editorReadonly"},
		{Keys: "f3", Command: "find.next", When: "findWidgetVisible"},
		{Keys: "shift+f3", Command: "find.previous", When: "findWidgetVisible"},
		{Keys: "escape", Command: "find.close", When: "findWidgetVisible"},

		// Command palette
		{Keys: "ctrl+shift+p", Command: "palette.show"},
		{Keys: "ctrl+p", Command: "picker.files"},
		{Keys: "ctrl+shift+o", Command: "picker.symbols"},
		{Keys: "ctrl+g", Command: "picker.goto"},

		// Chords
		{Keys: "ctrl+k ctrl+s", Command: "keybindings.edit"},
		{Keys: "ctrl+k ctrl+c", Command: "editor.addComment", When: "editorTextFocus && !editorReadonly"},
		{Keys: "ctrl+k ctrl+u", Command: "editor.removeComment", When: "editorTextFocus && !editorReadonly"},
		{Keys: "ctrl+k ctrl+0", Command: "editor.foldAll", When: "editorTextFocus"},
		{Keys: "ctrl+k ctrl+j", Command: "editor.unfoldAll", When: "editorTextFocus"},
		{Keys: "ctrl+k z", Command: "view.toggleZenMode"},

		// Window management
		{Keys: "ctrl+\\", Command: "window.splitVertical"},
		{Keys: "ctrl+1", Command: "window.focusFirst"},
		{Keys: "ctrl+2", Command: "window.focusSecond"},
		{Keys: "ctrl+tab", Command: "buffer.next"},
		{Keys: "ctrl+shift+tab", Command: "buffer.previous"},

		// Diagnostics
		{Keys: "f8", Command: "diagnostic.next", When: "editorFocus"},
		{Keys: "shift+f8", Command: "diagnostic.prev", When: "editorFocus"},
		{Keys: "ctrl+.", Command: "diagnostic.showActions", When: "editorHasCodeActionsProvider"},

		// Navigation
		{Keys: "f12", Command: "editor.gotoDefinition", When: "editorHasDefinitionProvider"},
		{Keys: "alt+left", Command: "navigate.back"},
		{Keys: "alt+right", Command: "navigate.forward"},
	}
}
