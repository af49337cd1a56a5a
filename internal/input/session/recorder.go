package session

import (
	"sync"
	"time"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/when"
)

// HookName is the name a Recorder is usually registered under.
const HookName = "session.recorder"

// Event is one recorded key event.
type Event struct {
	// Offset is the time since the start of the recording.
	Offset time.Duration

	Key       key.Key
	Rune      rune
	Modifiers key.Modifier
}

// Raw returns the event as it happened, relative to start.
func (e Event) Raw(start time.Time) key.RawEvent {
	return key.RawEvent{Key: e.Key, Rune: e.Rune, Modifiers: e.Modifiers, Time: start.Add(e.Offset)}
}

// Recording is a timed stream of physical key events.
type Recording struct {
	// Platform is the platform the events were captured on. Replays map
	// modifiers with it.
	Platform key.Platform

	Events []Event
}

// Len returns the number of events.
func (r Recording) Len() int {
	return len(r.Events)
}

// Duration returns the offset of the last event.
func (r Recording) Duration() time.Duration {
	if len(r.Events) == 0 {
		return 0
	}
	return r.Events[len(r.Events)-1].Offset
}

// FromPresses builds a recording of presses spaced gap apart.
func FromPresses(platform key.Platform, presses []key.KeyPress, gap time.Duration) Recording {
	rec := Recording{Platform: platform, Events: make([]Event, len(presses))}
	for i, p := range presses {
		rec.Events[i] = Event{
			Offset:    time.Duration(i) * gap,
			Key:       p.Key,
			Rune:      p.Rune,
			Modifiers: p.Modifiers,
		}
	}
	return rec
}

// Recorder captures key events while recording. It implements input.Hook
// and never consumes events.
type Recorder struct {
	input.BaseHook

	mu        sync.Mutex
	platform  key.Platform
	recording bool
	start     time.Time
	events    []Event
	now       func() time.Time
}

// NewRecorder creates an idle recorder for events from platform.
func NewRecorder(platform key.Platform) *Recorder {
	return &Recorder{platform: platform, now: time.Now}
}

// Start begins a new recording, discarding any events not yet collected.
// Offsets are measured from at.
func (r *Recorder) Start(at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = true
	r.start = at
	r.events = nil
}

// Stop ends the recording and returns it. Stopping an idle recorder
// returns an empty recording.
func (r *Recorder) Stop() Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := Recording{Platform: r.platform, Events: r.events}
	r.recording = false
	r.events = nil
	return rec
}

// IsRecording reports whether events are being captured.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Len returns the number of events captured so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Record captures ev. Events stamped before the start of the recording get
// a zero offset; unstamped events use the current time.
func (r *Recorder) Record(ev key.RawEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	at := ev.Time
	if at.IsZero() {
		at = r.now()
	}
	offset := at.Sub(r.start)
	if offset < 0 {
		offset = 0
	}
	r.events = append(r.events, Event{
		Offset:    offset,
		Key:       ev.Key,
		Rune:      ev.Rune,
		Modifiers: ev.Modifiers,
	})
}

// PreKeyEvent records the event and lets it through.
func (r *Recorder) PreKeyEvent(event *key.RawEvent, _ when.Snapshot) bool {
	r.Record(*event)
	return false
}
