package input

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/when"
)

// Hook allows interception and observation of key resolution.
type Hook interface {
	// PreKeyEvent is called before an event reaches the tracker.
	// Return true to consume the event; the tracker is left untouched.
	PreKeyEvent(event *key.RawEvent, ctx when.Snapshot) bool

	// PostResolution is called with the outcome of every event.
	PostResolution(event key.RawEvent, res Resolution)
}

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHighest runs before all other hooks.
	HookPriorityHighest HookPriority = -1000
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
	// HookPriorityLowest runs after all other hooks.
	HookPriorityLowest HookPriority = 1000
)

// HookID uniquely identifies a registered hook.
type HookID uint64

// HookRegistration holds metadata about a registered hook.
type HookRegistration struct {
	ID       HookID
	Name     string
	Priority HookPriority
	Hook     Hook
}

// HookManager manages hooks with priorities and named registration.
type HookManager struct {
	mu      sync.RWMutex
	hooks   []HookRegistration
	nextID  HookID
	enabled bool
}

// NewHookManager creates a new hook manager.
func NewHookManager() *HookManager {
	return &HookManager{enabled: true}
}

// Register adds a hook with default priority.
func (m *HookManager) Register(hook Hook) HookID {
	return m.RegisterWithOptions(hook, "", HookPriorityNormal)
}

// RegisterNamed adds a hook with a name for later reference.
func (m *HookManager) RegisterNamed(hook Hook, name string) HookID {
	return m.RegisterWithOptions(hook, name, HookPriorityNormal)
}

// RegisterWithOptions adds a hook with all options specified. A named
// registration replaces an existing hook of the same name.
func (m *HookManager) RegisterWithOptions(hook Hook, name string, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name != "" {
		m.removeLocked(func(r HookRegistration) bool { return r.Name == name })
	}

	m.nextID++
	m.hooks = append(m.hooks, HookRegistration{
		ID:       m.nextID,
		Name:     name,
		Priority: priority,
		Hook:     hook,
	})
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].Priority < m.hooks[j].Priority
	})
	return m.nextID
}

// Unregister removes a hook by ID.
func (m *HookManager) Unregister(id HookID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(func(r HookRegistration) bool { return r.ID == id })
}

// UnregisterByName removes a hook by name.
func (m *HookManager) UnregisterByName(name string) bool {
	if name == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(func(r HookRegistration) bool { return r.Name == name })
}

func (m *HookManager) removeLocked(match func(HookRegistration) bool) bool {
	for i := range m.hooks {
		if match(m.hooks[i]) {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// SetEnabled enables or disables all hooks.
func (m *HookManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Count returns the number of registered hooks.
func (m *HookManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// List returns all hook registrations in execution order.
func (m *HookManager) List() []HookRegistration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]HookRegistration, len(m.hooks))
	copy(result, m.hooks)
	return result
}

// snapshot copies the active hooks so they run outside the lock.
func (m *HookManager) snapshot() []Hook {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.enabled || len(m.hooks) == 0 {
		return nil
	}
	hooks := make([]Hook, len(m.hooks))
	for i := range m.hooks {
		hooks[i] = m.hooks[i].Hook
	}
	return hooks
}

// RunPreKeyEvent runs PreKeyEvent hooks in priority order.
// Returns true if any hook consumed the event.
func (m *HookManager) RunPreKeyEvent(event *key.RawEvent, ctx when.Snapshot) bool {
	for _, hook := range m.snapshot() {
		if hook.PreKeyEvent(event, ctx) {
			return true
		}
	}
	return false
}

// RunPostResolution runs PostResolution hooks in priority order.
func (m *HookManager) RunPostResolution(event key.RawEvent, res Resolution) {
	for _, hook := range m.snapshot() {
		hook.PostResolution(event, res)
	}
}

// BaseHook provides a no-op Hook. Embed it to implement only the methods
// you need.
type BaseHook struct{}

// PreKeyEvent does not consume events.
func (BaseHook) PreKeyEvent(*key.RawEvent, when.Snapshot) bool {
	return false
}

// PostResolution is a no-op.
func (BaseHook) PostResolution(key.RawEvent, Resolution) {}

// FuncHook wraps functions into a Hook.
type FuncHook struct {
	PreKeyEventFunc    func(*key.RawEvent, when.Snapshot) bool
	PostResolutionFunc func(key.RawEvent, Resolution)
}

// PreKeyEvent calls PreKeyEventFunc if set.
func (h FuncHook) PreKeyEvent(event *key.RawEvent, ctx when.Snapshot) bool {
	if h.PreKeyEventFunc != nil {
		return h.PreKeyEventFunc(event, ctx)
	}
	return false
}

// PostResolution calls PostResolutionFunc if set.
func (h FuncHook) PostResolution(event key.RawEvent, res Resolution) {
	if h.PostResolutionFunc != nil {
		h.PostResolutionFunc(event, res)
	}
}

// LoggingHook logs every resolution at debug level.
type LoggingHook struct {
	BaseHook
	Logger *slog.Logger
}

// PostResolution logs the resolution.
func (h LoggingHook) PostResolution(event key.RawEvent, res Resolution) {
	if h.Logger == nil {
		return
	}
	h.Logger.Debug("input resolution",
		"key", event.Key.String(),
		"rune", string(event.Rune),
		"modifiers", event.Modifiers.String(),
		"result", res.String(),
	)
}

// FilterHook consumes events matching a predicate.
type FilterHook struct {
	BaseHook

	// KeyEventFilter returns true to consume a key event.
	KeyEventFilter func(*key.RawEvent, when.Snapshot) bool
}

// PreKeyEvent applies the filter.
func (h FilterHook) PreKeyEvent(event *key.RawEvent, ctx when.Snapshot) bool {
	if h.KeyEventFilter != nil {
		return h.KeyEventFilter(event, ctx)
	}
	return false
}
