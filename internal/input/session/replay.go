package session

import (
	"time"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/when"
)

// epoch anchors replays; any non-zero time works since only gaps matter.
var epoch = time.Unix(0, 0)

// Step is the outcome of one replayed event, or of the final expiry.
type Step struct {
	// Event is the replayed event. Unset when Timeout is true.
	Event Event

	Resolution input.Resolution

	// Timeout marks the step produced by letting the last pending chord
	// lapse.
	Timeout bool
}

// Replay feeds rec through r on a fresh tracker state, keeping the
// recorded gaps. A chord still pending after the last event is expired so
// that a deferred binding is reported.
func Replay(r *input.Resolver, rec Recording, ctx when.Snapshot) []Step {
	state := r.NewState()
	steps := make([]Step, 0, len(rec.Events)+1)

	for _, ev := range rec.Events {
		res := r.HandleKeyEvent(state, ev.Raw(epoch), rec.Platform, ctx)
		steps = append(steps, Step{Event: ev, Resolution: res})
	}

	if deadline, ok := state.Deadline(); ok {
		if res, expired := r.Expire(state, deadline.Add(time.Nanosecond), ctx); expired {
			steps = append(steps, Step{Resolution: res, Timeout: true})
		}
	}
	return steps
}
