package keymap

import (
	"sort"

	"github.com/tidwall/match"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/when"
)

// Table is a merged, immutable set of live bindings indexed by chord.
//
// A Table is safe for concurrent use. A nil *Table behaves as an empty
// table.
type Table struct {
	entries   []*Entry
	tree      *PrefixTree
	byCommand map[string][]*Entry
}

func newTable(entries []*Entry) *Table {
	t := &Table{
		entries:   entries,
		tree:      NewPrefixTree(),
		byCommand: make(map[string][]*Entry),
	}
	for _, e := range entries {
		t.tree.Insert(e.Chord, e)
		t.byCommand[e.Command] = append(t.byCommand[e.Command], e)
	}
	return t
}

// Empty returns a table with no bindings.
func Empty() *Table {
	return newTable(nil)
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns every live entry in merge order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return copyEntries(t.entries)
}

// Lookup returns the entries bound to exactly chord, in merge order,
// regardless of context.
func (t *Table) Lookup(chord key.Chord) []Entry {
	if t == nil {
		return nil
	}
	return copyEntries(t.tree.Lookup(chord))
}

// HasExact reports whether any entry is bound to exactly chord.
func (t *Table) HasExact(chord key.Chord) bool {
	if t == nil {
		return false
	}
	return len(t.tree.Lookup(chord)) > 0
}

// HasLongerPrefix reports whether any entry's chord has chord as a strict
// prefix.
func (t *Table) HasLongerPrefix(chord key.Chord) bool {
	if t == nil || chord.IsEmpty() {
		return false
	}
	return t.tree.HasLonger(chord)
}

// Resolve returns the winning entry for a completed chord. The boolean is
// false when no entry is bound or every bound entry is excluded by its
// when clause.
func (t *Table) Resolve(chord key.Chord, snap when.Snapshot) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	var best *Entry
	for _, e := range t.tree.Lookup(chord) {
		if !e.Active(snap) {
			continue
		}
		if best == nil || e.outranks(best) {
			best = e
		}
	}
	if best == nil {
		return Entry{}, false
	}
	return *best, true
}

// Candidates returns the active entries for chord ordered from winner to
// loser.
func (t *Table) Candidates(chord key.Chord, snap when.Snapshot) []Entry {
	if t == nil {
		return nil
	}
	var active []*Entry
	for _, e := range t.tree.Lookup(chord) {
		if e.Active(snap) {
			active = append(active, e)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].outranks(active[j])
	})
	return copyEntries(active)
}

// ForCommand returns the entries bound to command, in merge order.
func (t *Table) ForCommand(command string) []Entry {
	if t == nil {
		return nil
	}
	return copyEntries(t.byCommand[command])
}

// MatchCommands returns the entries whose command matches a glob pattern
// such as "editor.*", in merge order.
func (t *Table) MatchCommands(pattern string) []Entry {
	if t == nil {
		return nil
	}
	var out []*Entry
	for _, e := range t.entries {
		if match.Match(e.Command, pattern) {
			out = append(out, e)
		}
	}
	return copyEntries(out)
}

// Commands returns the distinct bound commands in sorted order.
func (t *Table) Commands() []string {
	if t == nil {
		return nil
	}
	cmds := make([]string, 0, len(t.byCommand))
	for c := range t.byCommand {
		cmds = append(cmds, c)
	}
	sort.Strings(cmds)
	return cmds
}

// Conflict lists the entries sharing one chord, highest priority first.
// Whether a lower entry is reachable depends on the when clauses.
type Conflict struct {
	Chord   key.Chord
	Entries []Entry
}

// Conflicts returns every chord bound more than once, in the merge order
// of each chord's first entry.
func (t *Table) Conflicts() []Conflict {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []Conflict
	for _, e := range t.entries {
		c := key.Canonical(e.Chord)
		if seen[c] {
			continue
		}
		seen[c] = true

		group := append([]*Entry(nil), t.tree.Lookup(e.Chord)...)
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].outranks(group[j])
		})
		out = append(out, Conflict{Chord: e.Chord, Entries: copyEntries(group)})
	}
	return out
}

func copyEntries(in []*Entry) []Entry {
	if len(in) == 0 {
		return nil
	}
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = *e
	}
	return out
}

// PrefixTree indexes entries by chord, one level per key press.
type PrefixTree struct {
	root *prefixNode
}

type prefixNode struct {
	children map[key.KeyPress]*prefixNode
	entries  []*Entry
}

// NewPrefixTree creates an empty prefix tree.
func NewPrefixTree() *PrefixTree {
	return &PrefixTree{
		root: &prefixNode{
			children: make(map[key.KeyPress]*prefixNode),
		},
	}
}

// Insert adds an entry at chord.
func (t *PrefixTree) Insert(chord key.Chord, entry *Entry) {
	node := t.root
	for _, press := range chord.Presses() {
		child, ok := node.children[press]
		if !ok {
			child = &prefixNode{
				children: make(map[key.KeyPress]*prefixNode),
			}
			node.children[press] = child
		}
		node = child
	}
	node.entries = append(node.entries, entry)
}

// Lookup returns the entries stored at exactly chord.
func (t *PrefixTree) Lookup(chord key.Chord) []*Entry {
	node := t.find(chord)
	if node == nil {
		return nil
	}
	return node.entries
}

// HasLonger reports whether any entry lies strictly below chord.
func (t *PrefixTree) HasLonger(chord key.Chord) bool {
	node := t.find(chord)
	return node != nil && len(node.children) > 0
}

func (t *PrefixTree) find(chord key.Chord) *prefixNode {
	if chord.IsEmpty() {
		return nil
	}
	node := t.root
	for _, press := range chord.Presses() {
		child, ok := node.children[press]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}
