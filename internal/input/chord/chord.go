// Package chord tracks multi-step key chords as they are typed.
//
// A State belongs to one input surface and is owned by the caller; the
// package keeps no global state and does no locking. Each call to Advance
// feeds one normalised key press and reports whether the sequence is still
// pending, resolved to a complete chord, or matched nothing.
//
// Timeouts are evaluated lazily by comparing the new press time with the
// previous one. Hosts that want a pending chord to lapse without another
// key poll Expire.
package chord

import (
	"time"

	"github.com/dshills/keychord/internal/input/key"
)

// Index answers the prefix queries the tracker needs. Both methods ignore
// context: a prefix stays live even if no binding under it is currently
// active.
type Index interface {
	// HasExact reports whether some binding is bound to exactly c.
	HasExact(c key.Chord) bool
	// HasLongerPrefix reports whether some binding has c as a strict prefix.
	HasLongerPrefix(c key.Chord) bool
}

// Kind classifies the outcome of a key press.
type Kind uint8

const (
	// None means the sequence matched no binding; the state was reset.
	None Kind = iota
	// Pending means the sequence is a live prefix; more keys are expected.
	Pending
	// Complete means the sequence is a full chord ready for resolution.
	Complete
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Pending:
		return "pending"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Step is the outcome of one Advance.
type Step struct {
	Kind Kind

	// Chord is the sequence including the new press. For Complete it is the
	// chord to resolve.
	Chord key.Chord

	// Flushed is a deferred exact chord that became final before this
	// press, either because the window elapsed or because this press broke
	// the sequence. Empty when nothing was flushed.
	Flushed key.Chord

	// Expired reports that the previous pending sequence timed out before
	// this press.
	Expired bool
}

// State is the per-surface tracker state.
type State struct {
	pending     key.Chord
	lastPressAt time.Time
	timeout     time.Duration

	// deferred marks that pending is itself bound and is waiting to see
	// whether a longer chord follows.
	deferred bool
}

// NewState creates an idle tracker. A timeout <= 0 never expires.
func NewState(timeout time.Duration) *State {
	return &State{timeout: timeout}
}

// Timeout returns the inter-press window.
func (s *State) Timeout() time.Duration {
	return s.timeout
}

// SetTimeout changes the inter-press window. It takes effect on the next
// press.
func (s *State) SetTimeout(d time.Duration) {
	s.timeout = d
}

// Pending returns the steps typed so far in the current attempt.
func (s *State) Pending() key.Chord {
	return s.pending
}

// IsPending reports whether a chord is in progress.
func (s *State) IsPending() bool {
	return !s.pending.IsEmpty()
}

// HasDeferred reports whether the pending sequence is itself bound and
// will resolve if no extending key arrives.
func (s *State) HasDeferred() bool {
	return s.deferred && !s.pending.IsEmpty()
}

// LastPressAt returns the time of the most recent press.
func (s *State) LastPressAt() time.Time {
	return s.lastPressAt
}

// Deadline returns when the pending sequence lapses. The boolean is false
// when nothing is pending or the timeout is disabled.
func (s *State) Deadline() (time.Time, bool) {
	if s.pending.IsEmpty() || s.timeout <= 0 {
		return time.Time{}, false
	}
	return s.lastPressAt.Add(s.timeout), true
}

// Reset returns the tracker to idle, discarding any deferred chord.
func (s *State) Reset() {
	s.pending = key.Chord{}
	s.deferred = false
}

// expired reports whether the gap since the last press exceeds the
// timeout. A gap equal to the timeout is still inside the window.
func (s *State) expired(at time.Time) bool {
	if s.timeout <= 0 || s.pending.IsEmpty() {
		return false
	}
	return at.Sub(s.lastPressAt) > s.timeout
}

// Advance feeds one key press at time at.
func (s *State) Advance(k key.KeyPress, at time.Time, idx Index) Step {
	var step Step

	if s.expired(at) {
		step.Expired = true
		if s.deferred {
			step.Flushed = s.pending
		}
		s.Reset()
	}

	prev, prevDeferred := s.pending, s.deferred
	candidate := s.pending.Append(k)
	s.lastPressAt = at
	step.Chord = candidate

	exact := idx.HasExact(candidate)
	longer := idx.HasLongerPrefix(candidate)

	switch {
	case !exact && !longer:
		if prevDeferred {
			step.Flushed = prev
		}
		s.Reset()
		step.Kind = None
	case exact && !longer:
		s.Reset()
		step.Kind = Complete
	case exact && longer:
		s.pending = candidate
		s.deferred = true
		step.Kind = Pending
	default:
		s.pending = candidate
		s.deferred = false
		step.Kind = Pending
	}
	return step
}

// Expire resets a pending sequence whose window has elapsed at time at.
// It returns the deferred chord that became final, if any, and whether the
// state expired.
func (s *State) Expire(at time.Time) (key.Chord, bool) {
	if !s.expired(at) {
		return key.Chord{}, false
	}
	var flushed key.Chord
	if s.deferred {
		flushed = s.pending
	}
	s.Reset()
	return flushed, true
}
