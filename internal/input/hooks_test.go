package input

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/when"
)

type orderHook struct {
	BaseHook
	name  string
	order *[]string
}

func (h orderHook) PreKeyEvent(*key.RawEvent, when.Snapshot) bool {
	*h.order = append(*h.order, h.name)
	return false
}

func TestHookPriorityOrder(t *testing.T) {
	m := NewHookManager()
	var order []string

	m.RegisterWithOptions(orderHook{name: "low", order: &order}, "", HookPriorityLow)
	m.RegisterWithOptions(orderHook{name: "highest", order: &order}, "", HookPriorityHighest)
	m.Register(orderHook{name: "normal", order: &order})

	m.RunPreKeyEvent(&key.RawEvent{}, nil)

	want := []string{"highest", "normal", "low"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestHookNamedReplace(t *testing.T) {
	m := NewHookManager()
	m.RegisterNamed(BaseHook{}, "a")
	m.RegisterNamed(BaseHook{}, "a")
	m.RegisterNamed(BaseHook{}, "b")

	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
	if !m.UnregisterByName("a") {
		t.Error("UnregisterByName(a) should succeed")
	}
	if m.UnregisterByName("a") {
		t.Error("second UnregisterByName(a) should fail")
	}
	if m.UnregisterByName("") {
		t.Error("empty name should never match")
	}
	if got := m.List(); len(got) != 1 || got[0].Name != "b" {
		t.Errorf("List() = %+v", got)
	}
}

func TestHookConsumeStopsChain(t *testing.T) {
	m := NewHookManager()
	var order []string
	m.RegisterWithOptions(FilterHook{
		KeyEventFilter: func(*key.RawEvent, when.Snapshot) bool { return true },
	}, "stop", HookPriorityHigh)
	m.Register(orderHook{name: "later", order: &order})

	if !m.RunPreKeyEvent(&key.RawEvent{}, nil) {
		t.Fatal("event should be consumed")
	}
	if len(order) != 0 {
		t.Errorf("hooks after the consumer ran: %v", order)
	}
}

func TestHookRewritesEvent(t *testing.T) {
	m := NewHookManager()
	m.Register(FuncHook{
		PreKeyEventFunc: func(ev *key.RawEvent, _ when.Snapshot) bool {
			if ev.Rune == 'q' {
				ev.Rune = 's'
			}
			return false
		},
	})
	ev := key.NewRawRune('q', key.ModCtrl, time.Time{})
	m.RunPreKeyEvent(&ev, nil)
	if ev.Rune != 's' {
		t.Errorf("Rune = %q, want 's'", ev.Rune)
	}
}

func TestHookDisabled(t *testing.T) {
	m := NewHookManager()
	m.Register(FilterHook{
		KeyEventFilter: func(*key.RawEvent, when.Snapshot) bool { return true },
	})
	m.SetEnabled(false)
	if m.RunPreKeyEvent(&key.RawEvent{}, nil) {
		t.Error("disabled manager should not consume")
	}
}

func TestHookManagerNil(t *testing.T) {
	var m *HookManager
	if m.RunPreKeyEvent(&key.RawEvent{}, nil) {
		t.Error("nil manager should not consume")
	}
	m.RunPostResolution(key.RawEvent{}, Resolution{})
}

func TestLoggingHook(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := LoggingHook{Logger: logger}
	h.PostResolution(key.NewRawRune('s', key.ModCtrl, time.Time{}), Resolution{Kind: ResolutionCommand, Command: "file.save"})

	out := buf.String()
	if !strings.Contains(out, "input resolution") || !strings.Contains(out, "file.save") {
		t.Errorf("log output = %q", out)
	}

	LoggingHook{}.PostResolution(key.RawEvent{}, Resolution{})
}
