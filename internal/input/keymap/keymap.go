package keymap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/when"
)

// BuildOption configures Build.
type BuildOption func(*builder)

// WithLogger sets the logger that receives merge diagnostics.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

type builder struct {
	logger *slog.Logger

	// live holds merged entries; removed ones are nil.
	live []*Entry
	errs []error

	// slots maps a (tier, chord, clause) triple to its index in live.
	slots map[dedupKey]int
	// byCommand lists the indexes in live bound to each command.
	byCommand map[string][]int
}

type dedupKey struct {
	source Source
	chord  string
	clause string
}

// Build merges the three declaration tiers into an immutable Table.
//
// Tiers are processed default, user, extension. Each declaration's chord
// and when clause are parsed up front; a malformed declaration is dropped,
// logged, and reported in the returned error while the rest of the merge
// continues. The returned table is always usable. The error, when non-nil,
// is an errors.Join of *DeclarationError values.
//
// A removal ("-command") cancels the most recent live entry with the same
// chord and command, ignoring when clauses. A removal with an empty key
// cancels every earlier entry for that command. Since tiers are merged in
// priority order, removals only reach entries from their own or a lower
// tier.
//
// Two declarations from the same tier with the same chord and when clause
// collapse: the later one replaces the earlier.
func Build(src Sources, opts ...BuildOption) (*Table, error) {
	b := &builder{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		live:      make([]*Entry, 0, src.Len()),
		slots:     make(map[dedupKey]int, src.Len()),
		byCommand: make(map[string][]int),
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, tier := range allSources {
		for i, decl := range src.Tier(tier) {
			if err := b.add(tier, i, decl); err != nil {
				de := &DeclarationError{Source: tier, Index: i, Declaration: decl, Err: err}
				b.errs = append(b.errs, de)
				b.logger.Warn("dropping key binding",
					"source", tier.String(),
					"index", i,
					"key", decl.Keys,
					"command", decl.Command,
					"when", decl.When,
					"error", err,
				)
			}
		}
	}

	entries := make([]*Entry, 0, len(b.live))
	for _, e := range b.live {
		if e != nil {
			e.Order = len(entries)
			entries = append(entries, e)
		}
	}

	b.logger.Debug("key bindings merged",
		"declarations", src.Len(),
		"entries", len(entries),
		"rejected", len(b.errs),
	)

	return newTable(entries), errors.Join(b.errs...)
}

func (b *builder) add(tier Source, index int, decl Declaration) error {
	command := strings.TrimSpace(decl.CommandID())
	if command == "" {
		return ErrEmptyCommand
	}

	if decl.IsRemoval() {
		return b.remove(tier, index, decl, command)
	}

	if strings.TrimSpace(decl.Keys) == "" {
		return ErrEmptyKeys
	}
	chord, err := key.ParseChord(decl.Keys)
	if err != nil {
		return fmt.Errorf("parsing key: %w", err)
	}
	expr, err := when.ParseOptional(decl.When)
	if err != nil {
		return fmt.Errorf("parsing when: %w", err)
	}

	entry := &Entry{
		Chord:    chord,
		Command:  command,
		When:     expr,
		WhenText: decl.When,
		Args:     cloneArgs(decl.Args),
		Source:   tier,
	}

	slot := dedupKey{source: tier, chord: key.Canonical(chord), clause: when.String(expr)}
	if i, ok := b.slots[slot]; ok && b.live[i] != nil {
		b.logger.Debug("replacing duplicate key binding",
			"source", tier.String(),
			"index", index,
			"key", slot.chord,
			"previous", b.live[i].Command,
			"command", command,
		)
		b.live[i] = nil
	}

	b.slots[slot] = len(b.live)
	b.byCommand[command] = append(b.byCommand[command], len(b.live))
	b.live = append(b.live, entry)
	return nil
}

func (b *builder) remove(tier Source, index int, decl Declaration, command string) error {
	if strings.TrimSpace(decl.Keys) == "" {
		removed := 0
		for _, i := range b.byCommand[command] {
			if b.live[i] != nil {
				b.live[i] = nil
				removed++
			}
		}
		delete(b.byCommand, command)
		b.logger.Debug("removed command bindings",
			"source", tier.String(),
			"index", index,
			"command", command,
			"removed", removed,
		)
		return nil
	}

	chord, err := key.ParseChord(decl.Keys)
	if err != nil {
		return fmt.Errorf("parsing key: %w", err)
	}

	indexes := b.byCommand[command]
	for j := len(indexes) - 1; j >= 0; j-- {
		i := indexes[j]
		e := b.live[i]
		if e != nil && e.Chord.Equals(chord) {
			b.live[i] = nil
			b.logger.Debug("removed key binding",
				"source", tier.String(),
				"index", index,
				"key", key.Canonical(chord),
				"command", command,
				"from", e.Source.String(),
			)
			return nil
		}
	}

	b.logger.Debug("removal matched no binding",
		"source", tier.String(),
		"index", index,
		"key", key.Canonical(chord),
		"command", command,
	)
	return nil
}

// MustBuild is like Build but panics if any declaration is rejected.
// Use only with known-valid declarations in initialization code and tests.
func MustBuild(src Sources) *Table {
	t, err := Build(src)
	if err != nil {
		panic(err.Error())
	}
	return t
}
