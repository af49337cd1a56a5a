package input

import (
	"github.com/dshills/keychord/internal/input/when"
)

// Context describes host state for when clause evaluation. Hosts update
// it as focus and editor state change and call Snapshot before each key
// event.
type Context struct {
	// Mode is the current editor mode, exposed as "editorMode".
	Mode string

	// FileType is the current language, exposed as "resourceLangId".
	FileType string

	// FilePath is the current file path, exposed as "resourceFilename".
	FilePath string

	// HasSelection is exposed as "editorHasSelection".
	HasSelection bool

	// IsModified is exposed as "activeEditorIsDirty".
	IsModified bool

	// IsReadOnly is exposed as "editorReadonly".
	IsReadOnly bool

	// Focused is exposed as "editorTextFocus" and "editorFocus".
	Focused bool

	// Conditions holds boolean context keys.
	// Keys: "inDiffEditor", "findWidgetVisible", etc.
	Conditions map[string]bool

	// Variables holds string context keys.
	// Keys: "activeViewlet", "terminalShellType", etc.
	Variables map[string]string

	// Values holds numeric or otherwise typed context keys.
	// Keys: "config.editor.tabSize", etc.
	Values map[string]any
}

// NewContext creates a new context with default values.
func NewContext() *Context {
	return &Context{
		Conditions: make(map[string]bool),
		Variables:  make(map[string]string),
		Values:     make(map[string]any),
	}
}

// Clone returns a deep copy of the context.
// Nil maps are preserved as nil in the clone.
func (c *Context) Clone() *Context {
	clone := &Context{
		Mode:         c.Mode,
		FileType:     c.FileType,
		FilePath:     c.FilePath,
		HasSelection: c.HasSelection,
		IsModified:   c.IsModified,
		IsReadOnly:   c.IsReadOnly,
		Focused:      c.Focused,
	}

	if c.Conditions != nil {
		clone.Conditions = make(map[string]bool, len(c.Conditions))
		for k, v := range c.Conditions {
			clone.Conditions[k] = v
		}
	}
	if c.Variables != nil {
		clone.Variables = make(map[string]string, len(c.Variables))
		for k, v := range c.Variables {
			clone.Variables[k] = v
		}
	}
	if c.Values != nil {
		clone.Values = make(map[string]any, len(c.Values))
		for k, v := range c.Values {
			clone.Values[k] = v
		}
	}
	return clone
}

// SetCondition sets a boolean context key.
func (c *Context) SetCondition(name string, value bool) {
	if c.Conditions == nil {
		c.Conditions = make(map[string]bool)
	}
	c.Conditions[name] = value
}

// GetCondition returns a boolean context key.
func (c *Context) GetCondition(name string) bool {
	return c.Conditions[name]
}

// SetVariable sets a string context key.
func (c *Context) SetVariable(name, value string) {
	if c.Variables == nil {
		c.Variables = make(map[string]string)
	}
	c.Variables[name] = value
}

// GetVariable returns a string context key.
func (c *Context) GetVariable(name string) string {
	return c.Variables[name]
}

// SetValue sets a typed context key such as a number.
func (c *Context) SetValue(name string, value any) {
	if c.Values == nil {
		c.Values = make(map[string]any)
	}
	c.Values[name] = value
}

// Snapshot builds the immutable view used for one resolution. Explicit
// conditions, variables and values override the derived editor keys, with
// later groups winning: values over variables over conditions.
func (c *Context) Snapshot() when.Snapshot {
	snap := make(when.Snapshot, 8+len(c.Conditions)+len(c.Variables)+len(c.Values))

	snap["editorTextFocus"] = c.Focused
	snap["editorFocus"] = c.Focused
	snap["editorReadonly"] = c.IsReadOnly
	snap["editorHasSelection"] = c.HasSelection
	snap["activeEditorIsDirty"] = c.IsModified
	if c.Mode != "" {
		snap["editorMode"] = c.Mode
	}
	if c.FileType != "" {
		snap["resourceLangId"] = c.FileType
	}
	if c.FilePath != "" {
		snap["resourceFilename"] = c.FilePath
	}

	for k, v := range c.Conditions {
		snap[k] = v
	}
	for k, v := range c.Variables {
		snap[k] = v
	}
	for k, v := range c.Values {
		snap[k] = v
	}
	return snap
}

// EditorStateProvider provides editor state for context updates.
type EditorStateProvider interface {
	Mode() string
	FileType() string
	FilePath() string
	HasSelection() bool
	IsModified() bool
	IsReadOnly() bool
	HasFocus() bool
}

// UpdateFromEditor refreshes the derived fields from an editor.
func (c *Context) UpdateFromEditor(editor EditorStateProvider) {
	if editor == nil {
		return
	}
	c.Mode = editor.Mode()
	c.FileType = editor.FileType()
	c.FilePath = editor.FilePath()
	c.HasSelection = editor.HasSelection()
	c.IsModified = editor.IsModified()
	c.IsReadOnly = editor.IsReadOnly()
	c.Focused = editor.HasFocus()
}
