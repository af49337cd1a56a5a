// Package input resolves keyboard events into commands.
//
// The pipeline for one key event is:
//
//   - Matcher: key.ToKeyPress normalises the raw event for the platform
//   - Tracker: chord.State accumulates presses into multi-step chords
//   - Table: keymap.Table resolves a completed chord against a when.Snapshot
//
// A Resolver ties these together. It keeps no per-surface state; each
// input surface owns a *chord.State, created with Resolver.NewState, and
// passes it to every call. Surfaces wraps that bookkeeping for hosts with
// several panes.
//
// # Chords
//
// Multi-key chords like "ctrl+k ctrl+s" report ResolutionPending until
// they complete. If the gap between presses exceeds the configured
// timeout, evaluation restarts from the new key. When a sequence is both
// bound and the prefix of a longer binding, its command is deferred and
// reported through Resolution.Flushed once the window closes or a
// non-extending key arrives; hosts that want it without waiting for
// another key poll Resolver.Expire.
//
// # Usage
//
//	store := keymap.NewStore(table)
//	resolver := input.NewResolver(store, input.WithLogger(logger))
//	state := resolver.NewState()
//
//	for ev := range events {
//	    res := resolver.HandleKeyEvent(state, key.FromTcell(ev), key.CurrentPlatform(), ctx.Snapshot())
//	    if res.Flushed != nil {
//	        run(res.Flushed.Command, res.Flushed.Args)
//	    }
//	    if res.IsCommand() {
//	        run(res.Command, res.Args)
//	    }
//	}
package input
