package input

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/keychord/internal/input/when"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext()
	if ctx.Conditions == nil || ctx.Variables == nil || ctx.Values == nil {
		t.Error("maps should be initialized")
	}
	if ctx.Focused {
		t.Error("new context should not be focused")
	}
}

func TestContextClone(t *testing.T) {
	ctx := NewContext()
	ctx.Mode = "insert"
	ctx.FilePath = "main.go"
	ctx.SetCondition("inDiffEditor", true)
	ctx.SetVariable("activeViewlet", "workbench.view.explorer")
	ctx.SetValue("config.editor.tabSize", 4)

	clone := ctx.Clone()
	if diff := cmp.Diff(ctx, clone); diff != "" {
		t.Errorf("clone differs (-orig +clone):\n%s", diff)
	}

	clone.SetCondition("inDiffEditor", false)
	clone.SetVariable("activeViewlet", "other")
	clone.SetValue("config.editor.tabSize", 8)
	if !ctx.GetCondition("inDiffEditor") {
		t.Error("clone modification affected original condition")
	}
	if ctx.GetVariable("activeViewlet") != "workbench.view.explorer" {
		t.Error("clone modification affected original variable")
	}
	if ctx.Values["config.editor.tabSize"] != 4 {
		t.Error("clone modification affected original value")
	}
}

func TestContextCloneNilMaps(t *testing.T) {
	ctx := &Context{Mode: "normal"}
	clone := ctx.Clone()
	if clone.Conditions != nil || clone.Variables != nil || clone.Values != nil {
		t.Error("nil maps should stay nil")
	}
	clone.SetCondition("x", true)
	if !clone.GetCondition("x") {
		t.Error("SetCondition should allocate the map")
	}
}

func TestContextSnapshot(t *testing.T) {
	ctx := NewContext()
	ctx.Focused = true
	ctx.Mode = "normal"
	ctx.FileType = "go"
	ctx.HasSelection = true
	ctx.SetCondition("inDiffEditor", true)
	ctx.SetVariable("resourceLangId", "markdown")
	ctx.SetValue("config.editor.tabSize", 4)

	want := when.Snapshot{
		"editorTextFocus":       true,
		"editorFocus":           true,
		"editorReadonly":        false,
		"editorHasSelection":    true,
		"activeEditorIsDirty":   false,
		"editorMode":            "normal",
		"resourceLangId":        "markdown",
		"inDiffEditor":          true,
		"config.editor.tabSize": 4,
	}
	if diff := cmp.Diff(want, ctx.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestContextSnapshotDrivesWhen(t *testing.T) {
	ctx := NewContext()
	ctx.Focused = true
	ctx.FileType = "go"
	ctx.SetValue("config.editor.tabSize", 4)
	ctx.SetValue("workspace.primaryLang", "go")

	tests := []struct {
		expr string
		want bool
	}{
		{"editorTextFocus && resourceLangId == 'go'", true},
		{"resourceLangId == go", false},
		{"resourceLangId == workspace.primaryLang", true},
		{"editorTextFocus && !editorReadonly", true},
		{"config.editor.tabSize == 4.0", true},
		{"editorHasSelection || inDiffEditor", false},
		{"resourceFilename == ''", true},
	}
	snap := ctx.Snapshot()
	for _, tt := range tests {
		if got := when.Evaluate(when.MustParse(tt.expr), snap); got != tt.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

type fakeEditor struct{}

func (fakeEditor) Mode() string       { return "visual" }
func (fakeEditor) FileType() string   { return "rust" }
func (fakeEditor) FilePath() string   { return "lib.rs" }
func (fakeEditor) HasSelection() bool { return true }
func (fakeEditor) IsModified() bool   { return true }
func (fakeEditor) IsReadOnly() bool   { return false }
func (fakeEditor) HasFocus() bool     { return true }

func TestUpdateFromEditor(t *testing.T) {
	ctx := NewContext()
	ctx.UpdateFromEditor(fakeEditor{})
	ctx.UpdateFromEditor(nil)

	want := &Context{
		Mode:         "visual",
		FileType:     "rust",
		FilePath:     "lib.rs",
		HasSelection: true,
		IsModified:   true,
		Focused:      true,
		Conditions:   map[string]bool{},
		Variables:    map[string]string{},
		Values:       map[string]any{},
	}
	if diff := cmp.Diff(want, ctx); diff != "" {
		t.Errorf("UpdateFromEditor mismatch (-want +got):\n%s", diff)
	}
}
