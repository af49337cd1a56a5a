// Package session records key event streams with their timing and replays
// them through a resolver.
//
// Chord resolution depends on the gaps between presses, so a recording keeps
// each event's offset from the start of the session. Replaying a recording
// runs it on a virtual clock: the result is the same however fast the replay
// runs.
//
// A Recorder is an input.Hook. Register it on a resolver to capture every
// event the resolver sees:
//
//	rec := session.NewRecorder(platform)
//	resolver.Hooks().RegisterWithOptions(rec, session.HookName, input.HookPriorityHighest)
//	rec.Start(time.Now())
//	...
//	if err := session.Save(rec.Stop(), path); err != nil {
//		return err
//	}
//
// Recordings are stored as versioned JSON.
package session
