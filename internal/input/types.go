package input

import (
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// ResolutionKind classifies the result of a key event.
type ResolutionKind uint8

const (
	// ResolutionNone means no binding applies; any pending chord was reset.
	ResolutionNone ResolutionKind = iota
	// ResolutionPending means the keys so far are a live chord prefix.
	ResolutionPending
	// ResolutionCommand means a binding resolved to a command.
	ResolutionCommand
)

// String returns a string representation of the kind.
func (k ResolutionKind) String() string {
	switch k {
	case ResolutionNone:
		return "none"
	case ResolutionPending:
		return "pending"
	case ResolutionCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of feeding one key event to a Resolver.
type Resolution struct {
	Kind ResolutionKind

	// Command and Args are set when Kind is ResolutionCommand.
	Command string
	Args    map[string]any

	// Source is the tier of the winning binding.
	Source keymap.Source

	// Chord is the key sequence this resolution refers to, including the
	// current press. Empty for ignored events.
	Chord key.Chord

	// Flushed is a deferred command that became final before this event,
	// because its window elapsed or because this event broke the sequence.
	// Hosts should run it before acting on this resolution.
	Flushed *Resolution

	// Ignored reports a modifier-only or unmappable event that left the
	// tracker untouched.
	Ignored bool

	// Consumed reports that a hook swallowed the event.
	Consumed bool
}

// IsCommand reports whether the resolution carries a command.
func (r Resolution) IsCommand() bool {
	return r.Kind == ResolutionCommand
}

// String formats the resolution for logs and the CLI.
func (r Resolution) String() string {
	var s string
	switch r.Kind {
	case ResolutionCommand:
		s = "command " + r.Command
	case ResolutionPending:
		s = "pending " + key.Canonical(r.Chord)
	default:
		s = "none"
	}
	if r.Flushed != nil {
		s = r.Flushed.String() + "; " + s
	}
	return s
}

func commandResolution(e keymap.Entry) Resolution {
	return Resolution{
		Kind:    ResolutionCommand,
		Command: e.Command,
		Args:    e.Args,
		Source:  e.Source,
		Chord:   e.Chord,
	}
}
