// Package keymap merges key binding declarations into a queryable table and
// resolves conflicts between them.
//
// # Key Concepts
//
// Declaration: a raw binding {key, command, when, args} from a keybindings
// file or an extension. A command written as "-command" unbinds.
//
// Source: the tier a declaration comes from. Tiers are ordered
// default < user < extension and a higher tier always wins a conflict.
//
// Table: the immutable result of Build, indexed by chord in a prefix tree.
// A Table is rebuilt whenever any tier changes and is published through a
// Store.
//
// # Merge
//
// Build walks the default, user and extension tiers in order. Chord and
// when text are parsed once here; a malformed declaration is dropped and
// reported without stopping the merge, so per-keystroke evaluation never
// sees bad input. Removals cancel the most recent live entry with the same
// chord and command.
//
// # Resolution
//
// When several entries share a chord, Resolve drops those whose when clause
// is false for the snapshot and picks the winner by:
//  1. Source tier (higher wins)
//  2. Specificity: more atomic conditions in the when clause wins
//  3. Merge order (later wins)
//
// # Usage
//
//	table, err := keymap.Build(keymap.Sources{
//	    Default: keymap.Defaults(),
//	    User:    userDecls,
//	}, keymap.WithLogger(logger))
//	if err != nil {
//	    // Some declarations were dropped; table is still usable.
//	}
//
//	chord := key.MustParseChord("ctrl+s")
//	if entry, ok := table.Resolve(chord, when.Snapshot{"inDiffEditor": true}); ok {
//	    // Execute entry.Command with entry.Args
//	}
package keymap
