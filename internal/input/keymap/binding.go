package keymap

import (
	"fmt"
	"strings"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/when"
)

// Source is the tier a binding declaration comes from.
// Higher tiers win conflicts.
type Source uint8

const (
	// SourceDefault is the built-in or shipped default bindings.
	SourceDefault Source = iota
	// SourceUser is the user's own keybindings file.
	SourceUser
	// SourceExtension is bindings contributed at runtime by extensions.
	SourceExtension
)

// allSources lists every tier in merge order.
var allSources = []Source{SourceDefault, SourceUser, SourceExtension}

// String returns the tier name.
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceUser:
		return "user"
	case SourceExtension:
		return "extension"
	default:
		return fmt.Sprintf("Source(%d)", uint8(s))
	}
}

// ParseSource parses a tier name.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "default":
		return SourceDefault, nil
	case "user":
		return SourceUser, nil
	case "extension", "ext":
		return SourceExtension, nil
	default:
		return 0, fmt.Errorf("unknown binding source %q", name)
	}
}

// Declaration is a raw binding as authored in a keybindings file or by an
// extension. A command prefixed with "-" declares a removal.
type Declaration struct {
	// Keys is the chord text, e.g. "ctrl+k ctrl+s".
	Keys string `json:"key" toml:"key" yaml:"key"`

	// Command is the command identifier, or "-command" to unbind.
	Command string `json:"command" toml:"command" yaml:"command"`

	// When is the optional context clause. Empty means always active.
	When string `json:"when,omitempty" toml:"when,omitempty" yaml:"when,omitempty"`

	// Args are fixed arguments passed along with the command.
	Args map[string]any `json:"args,omitempty" toml:"args,omitempty" yaml:"args,omitempty"`
}

// IsRemoval reports whether d unbinds a command.
func (d Declaration) IsRemoval() bool {
	return strings.HasPrefix(d.Command, "-")
}

// CommandID returns the command with any removal prefix stripped.
func (d Declaration) CommandID() string {
	return strings.TrimPrefix(d.Command, "-")
}

// String formats the declaration for diagnostics.
func (d Declaration) String() string {
	if d.When == "" {
		return fmt.Sprintf("%q -> %s", d.Keys, d.Command)
	}
	return fmt.Sprintf("%q -> %s when %q", d.Keys, d.Command, d.When)
}

// Sources holds the three declaration tiers fed to Build.
type Sources struct {
	Default   []Declaration
	User      []Declaration
	Extension []Declaration
}

// Tier returns the declarations of a single tier.
func (s Sources) Tier(src Source) []Declaration {
	switch src {
	case SourceDefault:
		return s.Default
	case SourceUser:
		return s.User
	case SourceExtension:
		return s.Extension
	default:
		return nil
	}
}

// Len returns the total number of declarations across all tiers.
func (s Sources) Len() int {
	return len(s.Default) + len(s.User) + len(s.Extension)
}

// Entry is a live binding in a merged Table.
type Entry struct {
	// Chord is the parsed key sequence.
	Chord key.Chord

	// Command is the command identifier.
	Command string

	// When is the parsed context clause. Nil means always active.
	When when.Expr

	// WhenText is the clause as authored.
	WhenText string

	// Args are fixed command arguments.
	Args map[string]any

	// Source is the tier the entry came from.
	Source Source

	// Order is the merge position; later entries have larger values.
	Order int
}

// Specificity returns the number of atomic conditions in the entry's
// when clause.
func (e *Entry) Specificity() int {
	return when.Specificity(e.When)
}

// Active reports whether the entry's when clause holds for snap.
func (e *Entry) Active(snap when.Snapshot) bool {
	return when.Evaluate(e.When, snap)
}

// Keys returns the canonical chord text.
func (e *Entry) Keys() string {
	return key.Canonical(e.Chord)
}

// Declaration converts the entry back to canonical declaration form.
func (e *Entry) Declaration() Declaration {
	return Declaration{
		Keys:    key.Canonical(e.Chord),
		Command: e.Command,
		When:    when.String(e.When),
		Args:    cloneArgs(e.Args),
	}
}

// String formats the entry for diagnostics.
func (e *Entry) String() string {
	s := fmt.Sprintf("%s -> %s [%s]", key.Canonical(e.Chord), e.Command, e.Source)
	if e.When != nil {
		s += " when " + when.String(e.When)
	}
	return s
}

// outranks reports whether e wins a conflict against other: higher source
// first, then strictly more specific when clause, then later merge order.
func (e *Entry) outranks(other *Entry) bool {
	if e.Source != other.Source {
		return e.Source > other.Source
	}
	if es, ot := e.Specificity(), other.Specificity(); es != ot {
		return es > ot
	}
	return e.Order > other.Order
}

func cloneArgs(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	return out
}
