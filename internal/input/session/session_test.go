package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func newResolver(t *testing.T, decls ...keymap.Declaration) *input.Resolver {
	t.Helper()
	table, err := keymap.Build(keymap.Sources{Default: decls})
	if err != nil {
		t.Fatalf("Build error = %v", err)
	}
	return input.NewResolver(input.StaticTable(table), input.WithConfig(input.Config{
		ChordTimeout: 500 * time.Millisecond,
		Platform:     key.PlatformLinux,
	}))
}

func TestRecorderLifecycle(t *testing.T) {
	rec := NewRecorder(key.PlatformLinux)

	rec.Record(key.NewRawRune('a', key.ModNone, at(0)))
	if rec.Len() != 0 {
		t.Fatal("idle recorder should not capture events")
	}

	rec.Start(at(0))
	if !rec.IsRecording() {
		t.Fatal("IsRecording() = false after Start")
	}
	rec.Record(key.NewRawRune('k', key.ModCtrl, at(0)))
	rec.Record(key.NewRawSpecial(key.KeyShift, key.ModNone, at(40)))
	rec.Record(key.NewRawRune('s', key.ModCtrl, at(120)))

	got := rec.Stop()
	if rec.IsRecording() {
		t.Error("IsRecording() = true after Stop")
	}
	want := Recording{
		Platform: key.PlatformLinux,
		Events: []Event{
			{Offset: 0, Key: key.KeyRune, Rune: 'k', Modifiers: key.ModCtrl},
			{Offset: 40 * time.Millisecond, Key: key.KeyShift},
			{Offset: 120 * time.Millisecond, Key: key.KeyRune, Rune: 's', Modifiers: key.ModCtrl},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stop() mismatch (-want +got):\n%s", diff)
	}
	if got.Duration() != 120*time.Millisecond {
		t.Errorf("Duration() = %v", got.Duration())
	}

	if empty := rec.Stop(); empty.Len() != 0 {
		t.Errorf("second Stop() returned %d events", empty.Len())
	}
}

func TestRecorderOffsets(t *testing.T) {
	rec := NewRecorder(key.PlatformLinux)
	rec.now = func() time.Time { return at(250) }
	rec.Start(at(100))

	rec.Record(key.NewRawRune('a', key.ModNone, at(50)))
	rec.Record(key.RawEvent{Key: key.KeyRune, Rune: 'b'})

	got := rec.Stop()
	if got.Events[0].Offset != 0 {
		t.Errorf("early event offset = %v, want 0", got.Events[0].Offset)
	}
	if got.Events[1].Offset != 150*time.Millisecond {
		t.Errorf("unstamped event offset = %v, want 150ms", got.Events[1].Offset)
	}
}

func TestRecorderAsHook(t *testing.T) {
	r := newResolver(t, keymap.Declaration{Keys: "ctrl+k ctrl+s", Command: "keybindings.edit"})
	rec := NewRecorder(key.PlatformLinux)
	r.Hooks().RegisterWithOptions(rec, HookName, input.HookPriorityHighest)
	rec.Start(at(0))

	state := r.NewState()
	r.HandleKeyEvent(state, key.NewRawRune('k', key.ModCtrl, at(0)), key.PlatformLinux, nil)
	res := r.HandleKeyEvent(state, key.NewRawRune('s', key.ModCtrl, at(200)), key.PlatformLinux, nil)
	if res.Command != "keybindings.edit" {
		t.Fatalf("recorder hook changed resolution: %s", res)
	}

	got := rec.Stop()
	if got.Len() != 2 {
		t.Fatalf("recorded %d events, want 2", got.Len())
	}

	// Replaying the capture reproduces the outcome.
	steps := Replay(r, got, nil)
	if len(steps) != 2 || steps[1].Resolution.Command != "keybindings.edit" {
		t.Errorf("Replay = %+v", steps)
	}
}

func TestReplay(t *testing.T) {
	decls := []keymap.Declaration{
		{Keys: "ctrl+k", Command: "kill.line"},
		{Keys: "ctrl+k ctrl+s", Command: "keybindings.edit"},
		{Keys: "ctrl+s", Command: "file.save"},
	}
	ctrlK := key.NewRunePress('k', key.ModCtrl)
	ctrlS := key.NewRunePress('s', key.ModCtrl)

	tests := []struct {
		name    string
		presses []key.KeyPress
		gap     time.Duration
		want    []string
	}{
		{
			name:    "chord inside the window",
			presses: []key.KeyPress{ctrlK, ctrlS},
			gap:     500 * time.Millisecond,
			want:    []string{"pending ctrl+k", "command keybindings.edit"},
		},
		{
			name:    "gap past the window",
			presses: []key.KeyPress{ctrlK, ctrlS},
			gap:     501 * time.Millisecond,
			want:    []string{"pending ctrl+k", "command kill.line; command file.save"},
		},
		{
			name:    "deferred chord flushed at the end",
			presses: []key.KeyPress{ctrlK},
			want:    []string{"pending ctrl+k", "command kill.line"},
		},
		{
			name: "empty recording",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newResolver(t, decls...)
			steps := Replay(r, FromPresses(key.PlatformLinux, tt.presses, tt.gap), nil)

			var got []string
			for _, s := range steps {
				got = append(got, s.Resolution.String())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Replay mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReplayMarksTimeoutStep(t *testing.T) {
	r := newResolver(t, keymap.Declaration{Keys: "g g", Command: "cursor.top"})
	steps := Replay(r, FromPresses(key.PlatformLinux, []key.KeyPress{key.NewRunePress('g', key.ModNone)}, 0), nil)

	if len(steps) != 2 {
		t.Fatalf("got %d steps, want 2", len(steps))
	}
	if steps[0].Timeout || !steps[1].Timeout {
		t.Errorf("Timeout flags = %v, %v", steps[0].Timeout, steps[1].Timeout)
	}
	if steps[1].Resolution.Kind != input.ResolutionNone {
		t.Errorf("lapsed prefix resolved to %s", steps[1].Resolution)
	}
}

func TestReplayUsesRecordedPlatform(t *testing.T) {
	r := newResolver(t, keymap.Declaration{Keys: "meta+s", Command: "file.save"})
	rec := Recording{
		Events: []Event{{Key: key.KeyRune, Rune: 's', Modifiers: key.ModMeta}},
	}

	rec.Platform = key.PlatformMac
	if steps := Replay(r, rec, nil); steps[0].Resolution.Command != "file.save" {
		t.Errorf("mac replay = %s", steps[0].Resolution)
	}
	rec.Platform = key.PlatformLinux
	if steps := Replay(r, rec, nil); steps[0].Resolution.IsCommand() {
		t.Errorf("linux replay = %s, want none", steps[0].Resolution)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions", "chord.json")
	rec := Recording{
		Platform: key.PlatformMac,
		Events: []Event{
			{Offset: 0, Key: key.KeyRune, Rune: 'k', Modifiers: key.ModMeta},
			{Offset: 1500 * time.Microsecond, Key: key.KeyEscape},
			{Offset: 2 * time.Second, Key: key.KeyCtrl},
		},
	}

	if err := Save(rec, path); err != nil {
		t.Fatalf("Save error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"text": "meta+k"`) {
		t.Errorf("saved file lacks press text:\n%s", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory holds %d files, want only the recording", len(entries))
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		is   error
	}{
		{"invalid json", `{`, nil},
		{"newer version", `{"version": 99, "platform": "linux", "events": []}`, ErrUnsupportedVersion},
		{"unknown platform", `{"version": 1, "platform": "beos", "events": []}`, nil},
		{"negative offset", `{"version": 1, "platform": "linux", "events": [{"offset_ms": -1, "key": 1}]}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want ErrNotExist", err)
	}
}
