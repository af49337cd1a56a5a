package when

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"editorTextFocus", "editorTextFocus"},
		{"!editorReadonly", "!editorReadonly"},
		{"a && b", "a && b"},
		{"a || b", "a || b"},
		{"a && b || c", "a && b || c"},
		{"(a && b) || c", "a && b || c"},
		{"a && (b || c)", "a && (b || c)"},
		{"a || b && c", "a || b && c"},
		{"(a || b) && c", "(a || b) && c"},
		{"!(a && b)", "!(a && b)"},
		{"!!a", "!!a"},
		{"resourceLangId == 'go'", `resourceLangId == "go"`},
		{`resourceLangId != "md"`, `resourceLangId != "md"`},
		{"config.editor.tabSize == 4", "config.editor.tabSize == 4"},
		{"'go' == resourceLangId", `"go" == resourceLangId`},
		{"a == b", "a == b"},
		{"x == -1.5", "x == -1.5"},
		{"a == true", "a == true"},
		{"!(a == 'x')", `!(a == "x")`},
		{"a && b && c", "a && b && c"},
		{"a && (b && c)", "a && (b && c)"},
		{"  spaced   &&\tkeys ", "spaced && keys"},
		{"view:focused && $ctx_1", "view:focused && $ctx_1"},
		{"true", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if got := String(e); got != tt.want {
				t.Errorf("String(Parse(%q)) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"(a",
		"a)",
		"a &&",
		"|| a",
		"a & b",
		"a | b",
		"a = b",
		"a # b",
		"'unterminated",
		"a == ",
		"'x' == 'y'",
		"1 == 2",
		"(a && b) == c",
		"!a == 'x'",
		"a == b == c",
		"a b",
		"()",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", input)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("Parse(%q) error = %v, want ErrSyntax", input, err)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Parse(%q) error is %T, want *SyntaxError", input, err)
			}
			if se.Input != input {
				t.Errorf("SyntaxError.Input = %q, want %q", se.Input, input)
			}
		})
	}
}

func TestParseOptional(t *testing.T) {
	e, err := ParseOptional("  ")
	if err != nil || e != nil {
		t.Errorf("ParseOptional(blank) = %v, %v; want nil, nil", e, err)
	}
	e, err = ParseOptional("a")
	if err != nil || e == nil {
		t.Errorf("ParseOptional(a) = %v, %v; want expression", e, err)
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse should panic on invalid input")
		}
	}()
	MustParse("a &&")
}

func TestEvaluate(t *testing.T) {
	snap := Snapshot{
		"editorTextFocus": true,
		"editorReadonly":  false,
		"resourceLangId":  "go",
		"emptyString":     "",
		"tabSize":         4,
		"ratio":           0.5,
		"zero":            0,
		"flag":            "true",
	}

	tests := []struct {
		expr string
		want bool
	}{
		{"editorTextFocus", true},
		{"editorReadonly", false},
		{"!editorReadonly", true},
		{"missing", false},
		{"!missing", true},
		{"resourceLangId", true},
		{"emptyString", false},
		{"tabSize", true},
		{"zero", false},
		{"resourceLangId == 'go'", true},
		{"resourceLangId == 'rust'", false},
		{"resourceLangId != 'rust'", true},
		{"missing == ''", true},
		{"missing != ''", false},
		{"tabSize == 4", true},
		{"tabSize == 4.0", true},
		{"tabSize == '4'", true},
		{"tabSize != 2", true},
		{"ratio == 0.5", true},
		{"ratio == '0.50'", true},
		{"resourceLangId == 0", false},
		{"editorTextFocus == true", true},
		{"editorReadonly == false", true},
		{"flag == true", true},
		{"editorTextFocus && resourceLangId == 'go'", true},
		{"editorReadonly && missing || editorTextFocus", true},
		{"editorReadonly && (missing || editorTextFocus)", false},
		{"true", true},
		{"false", false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.expr, err)
			}
			if got := Evaluate(e, snap); got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateNil(t *testing.T) {
	if !Evaluate(nil, nil) {
		t.Error("nil expression should evaluate to true")
	}
	if !Evaluate(nil, Snapshot{"a": false}) {
		t.Error("nil expression should ignore the snapshot")
	}
}

func TestEvaluateUnsupportedValue(t *testing.T) {
	snap := Snapshot{"weird": []int{1}, "nothing": nil}
	if Evaluate(MustParse("weird"), snap) {
		t.Error("unsupported value type should be false in boolean position")
	}
	if !Evaluate(MustParse("nothing == ''"), snap) {
		t.Error("nil value should compare as the empty string")
	}
}

func TestPrecedence(t *testing.T) {
	keys := []string{"a", "b", "c"}
	implicit := MustParse("a && b || c")
	explicit := MustParse("(a && b) || c")
	other := MustParse("a && (b || c)")

	differs := false
	for mask := 0; mask < 1<<len(keys); mask++ {
		snap := Snapshot{}
		for i, k := range keys {
			snap[k] = mask&(1<<i) != 0
		}
		if Evaluate(implicit, snap) != Evaluate(explicit, snap) {
			t.Errorf("precedence mismatch for %v", snap)
		}
		if Evaluate(implicit, snap) != Evaluate(other, snap) {
			differs = true
		}
	}
	if !differs {
		t.Error("a && (b || c) should differ from a && b || c for some snapshot")
	}
}

func TestRoundTrip(t *testing.T) {
	exprs := []string{
		"a && b || c",
		"a && (b || c)",
		"!(a || b) && c",
		"(a || b) && (c || !a)",
		"lang == 'go' || !(b && c)",
		`name == "quote\"d"`,
		"n == 3 && !(m != 'x')",
		"a || (b || c)",
	}
	snaps := []Snapshot{
		{},
		{"a": true},
		{"a": true, "b": true},
		{"b": true, "c": true},
		{"a": true, "b": true, "c": true, "lang": "go"},
		{"name": `quote"d`, "n": 3, "m": "x"},
		{"n": 3.0, "m": "y", "c": true},
	}

	for _, text := range exprs {
		e := MustParse(text)
		printed := String(e)
		again, err := Parse(printed)
		if err != nil {
			t.Fatalf("Parse(String(%q)) = %q: %v", text, printed, err)
		}
		if String(again) != printed {
			t.Errorf("String not stable: %q then %q", printed, String(again))
		}
		for _, s := range snaps {
			if Evaluate(e, s) != Evaluate(again, s) {
				t.Errorf("%q and %q disagree on %v", text, printed, s)
			}
		}
	}
}

func TestSpecificity(t *testing.T) {
	tests := []struct {
		expr string
		want int
	}{
		{"a", 1},
		{"!a", 1},
		{"a && b", 2},
		{"a || b", 2},
		{"a == 'x'", 1},
		{"a == 'x' && !b && c", 3},
		{"true", 0},
	}
	for _, tt := range tests {
		if got := Specificity(MustParse(tt.expr)); got != tt.want {
			t.Errorf("Specificity(%q) = %d, want %d", tt.expr, got, tt.want)
		}
	}
	if got := Specificity(nil); got != 0 {
		t.Errorf("Specificity(nil) = %d, want 0", got)
	}
}

func TestKeys(t *testing.T) {
	got := Keys(MustParse("b && (a == 'x' || !b) && c == d"))
	want := []string{"b", "a", "c", "d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	if got := Keys(nil); len(got) != 0 {
		t.Errorf("Keys(nil) = %v, want empty", got)
	}
}

func TestSnapshotHelpers(t *testing.T) {
	base := Snapshot{"a": 1, "b": "x"}
	merged := base.Merge(Snapshot{"b": "y", "c": true})

	if diff := cmp.Diff([]string{"a", "b", "c"}, merged.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := merged.Lookup("b"); v != "y" {
		t.Errorf("Lookup(b) = %q, want y", v)
	}
	if v, _ := base.Lookup("b"); v != "x" {
		t.Errorf("Merge modified receiver: b = %q", v)
	}
	if _, ok := merged.Lookup("missing"); ok {
		t.Error("Lookup(missing) should report absent")
	}
	if v, _ := (Snapshot{"f": 2.50}).Lookup("f"); v != "2.5" {
		t.Errorf("Lookup(float) = %q, want 2.5", v)
	}
}
