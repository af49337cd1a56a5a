package input

import (
	"io"
	"log/slog"
	"time"

	"github.com/dshills/keychord/internal/input/chord"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/when"
)

// Config configures the resolver.
type Config struct {
	// ChordTimeout is how long to wait between the steps of a multi-key
	// chord. Zero or negative disables the timeout.
	// Default: 1000ms
	ChordTimeout time.Duration

	// Platform is the default platform used by Surfaces.
	Platform key.Platform
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChordTimeout: 1000 * time.Millisecond,
		Platform:     key.CurrentPlatform(),
	}
}

// TableSource supplies the current binding table. *keymap.Store
// satisfies it.
type TableSource interface {
	Load() *keymap.Table
}

type staticTable struct {
	table *keymap.Table
}

func (s staticTable) Load() *keymap.Table {
	return s.table
}

// StaticTable wraps a fixed table as a TableSource.
func StaticTable(t *keymap.Table) TableSource {
	return staticTable{table: t}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithConfig sets the resolver configuration.
func WithConfig(cfg Config) Option {
	return func(r *Resolver) {
		r.config = cfg
	}
}

// WithLogger sets the logger for resolution diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithHooks sets the hook manager consulted on every event.
func WithHooks(h *HookManager) Option {
	return func(r *Resolver) {
		r.hooks = h
	}
}

// WithClock overrides the time source used for events without a
// timestamp.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// Resolver turns raw key events into commands. It holds no per-surface
// state: callers own a *chord.State per input surface and pass it in.
// A Resolver is safe for concurrent use with distinct states.
type Resolver struct {
	tables  TableSource
	config  Config
	logger  *slog.Logger
	metrics *Metrics
	hooks   *HookManager
	now     func() time.Time
}

// NewResolver creates a resolver reading bindings from tables.
func NewResolver(tables TableSource, opts ...Option) *Resolver {
	r := &Resolver{
		tables:  tables,
		config:  DefaultConfig(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: NewMetrics(),
		hooks:   NewHookManager(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tables == nil {
		r.tables = StaticTable(keymap.Empty())
	}
	return r
}

// Config returns the resolver configuration.
func (r *Resolver) Config() Config {
	return r.config
}

// Metrics returns the metrics collector.
func (r *Resolver) Metrics() *Metrics {
	return r.metrics
}

// Hooks returns the hook manager.
func (r *Resolver) Hooks() *HookManager {
	return r.hooks
}

// Table returns the table currently in effect.
func (r *Resolver) Table() *keymap.Table {
	return r.tables.Load()
}

// NewState creates a tracker state using the configured chord timeout.
func (r *Resolver) NewState() *chord.State {
	return chord.NewState(r.config.ChordTimeout)
}

// HandleKeyEvent feeds one raw key event through the matcher, the chord
// tracker, and the binding table.
//
// Modifier-only events are ignored: the tracker is neither extended nor
// reset and the result reflects whether a chord is still pending. A
// completed chord with no active binding resolves to ResolutionNone.
func (r *Resolver) HandleKeyEvent(state *chord.State, raw key.RawEvent, platform key.Platform, ctx when.Snapshot) Resolution {
	timer := r.metrics.StartKeyEventTimer()
	defer timer.Stop()

	if r.hooks.RunPreKeyEvent(&raw, ctx) {
		res := Resolution{Kind: ResolutionNone, Consumed: true}
		if state.IsPending() {
			res.Kind = ResolutionPending
			res.Chord = state.Pending()
		}
		r.metrics.RecordConsumed()
		r.hooks.RunPostResolution(raw, res)
		return res
	}

	press, ok := key.ToKeyPress(raw, platform)
	if !ok {
		r.metrics.RecordIgnored()
		res := Resolution{Kind: ResolutionNone, Ignored: true}
		if state.IsPending() {
			res.Kind = ResolutionPending
			res.Chord = state.Pending()
		}
		r.hooks.RunPostResolution(raw, res)
		return res
	}

	at := raw.Time
	if at.IsZero() {
		at = r.now()
	}

	table := r.tables.Load()
	step := state.Advance(press, at, table)
	if step.Expired {
		r.metrics.RecordTimeout()
		r.logger.Debug("chord timed out", "press", press.String())
	}

	res := Resolution{Chord: step.Chord}
	if !step.Flushed.IsEmpty() {
		if entry, ok := table.Resolve(step.Flushed, ctx); ok {
			flushed := commandResolution(entry)
			res.Flushed = &flushed
			r.metrics.RecordCommand()
			r.logger.Debug("deferred chord resolved",
				"chord", key.Canonical(step.Flushed),
				"command", entry.Command,
			)
		}
	}

	switch step.Kind {
	case chord.Complete:
		if entry, ok := table.Resolve(step.Chord, ctx); ok {
			flushed := res.Flushed
			res = commandResolution(entry)
			res.Flushed = flushed
			r.metrics.RecordCommand()
		} else {
			res.Kind = ResolutionNone
			r.metrics.RecordNone()
		}
	case chord.Pending:
		res.Kind = ResolutionPending
		r.metrics.RecordPending()
	default:
		res.Kind = ResolutionNone
		r.metrics.RecordNone()
	}

	r.logger.Debug("key resolved",
		"chord", key.Canonical(step.Chord),
		"kind", res.Kind.String(),
		"command", res.Command,
	)
	r.hooks.RunPostResolution(raw, res)
	return res
}

// Expire lapses a pending chord whose window has elapsed at now. When the
// lapsed sequence was itself bound, the returned resolution carries its
// command. The boolean reports whether the state expired.
func (r *Resolver) Expire(state *chord.State, now time.Time, ctx when.Snapshot) (Resolution, bool) {
	pending := state.Pending()
	flushed, expired := state.Expire(now)
	if !expired {
		return Resolution{Kind: ResolutionNone}, false
	}
	r.metrics.RecordTimeout()

	if flushed.IsEmpty() {
		r.logger.Debug("pending chord lapsed", "chord", key.Canonical(pending))
		return Resolution{Kind: ResolutionNone, Chord: pending}, true
	}
	entry, ok := r.tables.Load().Resolve(flushed, ctx)
	if !ok {
		return Resolution{Kind: ResolutionNone, Chord: flushed}, true
	}
	r.metrics.RecordCommand()
	r.logger.Debug("deferred chord resolved on expiry",
		"chord", key.Canonical(flushed),
		"command", entry.Command,
	)
	return commandResolution(entry), true
}
