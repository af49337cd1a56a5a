package input

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks resolution counts and key handling latency.
type Metrics struct {
	keystrokes atomic.Uint64
	commands   atomic.Uint64
	pending    atomic.Uint64
	none       atomic.Uint64
	timeouts   atomic.Uint64
	ignored    atomic.Uint64
	consumed   atomic.Uint64

	// Latency ring buffer
	mu                sync.Mutex
	keyLatencies      []time.Duration
	maxLatencySamples int
	latencyIdx        int

	peakKeyLatency atomic.Int64

	startTime time.Time
	enabled   atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		keyLatencies:      make([]time.Duration, 1000),
		maxLatencySamples: 1000,
		startTime:         time.Now(),
	}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsEnabled() bool {
	return m != nil && m.enabled.Load()
}

// RecordKeyEvent records a handled key event with its processing time.
func (m *Metrics) RecordKeyEvent(latency time.Duration) {
	if !m.IsEnabled() {
		return
	}
	m.keystrokes.Add(1)

	ns := latency.Nanoseconds()
	for {
		current := m.peakKeyLatency.Load()
		if ns <= current || m.peakKeyLatency.CompareAndSwap(current, ns) {
			break
		}
	}

	m.mu.Lock()
	m.keyLatencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % m.maxLatencySamples
	m.mu.Unlock()
}

// RecordCommand records a resolved command.
func (m *Metrics) RecordCommand() {
	if m.IsEnabled() {
		m.commands.Add(1)
	}
}

// RecordPending records a key that left a chord pending.
func (m *Metrics) RecordPending() {
	if m.IsEnabled() {
		m.pending.Add(1)
	}
}

// RecordNone records a key that resolved to nothing.
func (m *Metrics) RecordNone() {
	if m.IsEnabled() {
		m.none.Add(1)
	}
}

// RecordTimeout records a pending chord that lapsed.
func (m *Metrics) RecordTimeout() {
	if m.IsEnabled() {
		m.timeouts.Add(1)
	}
}

// RecordIgnored records a modifier-only or unmappable key.
func (m *Metrics) RecordIgnored() {
	if m.IsEnabled() {
		m.ignored.Add(1)
	}
}

// RecordConsumed records a key swallowed by a hook.
func (m *Metrics) RecordConsumed() {
	if m.IsEnabled() {
		m.consumed.Add(1)
	}
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	Keystrokes uint64
	Commands   uint64
	Pending    uint64
	None       uint64
	Timeouts   uint64
	Ignored    uint64
	Consumed   uint64

	AvgKeyLatency  time.Duration
	MaxKeyLatency  time.Duration
	P99KeyLatency  time.Duration
	PeakKeyLatency time.Duration

	Uptime time.Duration
}

// Snapshot returns the current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	latencies := make([]time.Duration, len(m.keyLatencies))
	copy(latencies, m.keyLatencies)
	start := m.startTime
	m.mu.Unlock()

	snap := MetricsSnapshot{
		Keystrokes:     m.keystrokes.Load(),
		Commands:       m.commands.Load(),
		Pending:        m.pending.Load(),
		None:           m.none.Load(),
		Timeouts:       m.timeouts.Load(),
		Ignored:        m.ignored.Load(),
		Consumed:       m.consumed.Load(),
		PeakKeyLatency: time.Duration(m.peakKeyLatency.Load()),
		Uptime:         time.Since(start),
	}
	snap.AvgKeyLatency, snap.MaxKeyLatency, snap.P99KeyLatency = calculateLatencyStats(latencies)
	return snap
}

// calculateLatencyStats computes average, max, and p99 from a slice of
// latencies, skipping unused zero slots.
func calculateLatencyStats(latencies []time.Duration) (avg, maxLat, p99 time.Duration) {
	valid := make([]time.Duration, 0, len(latencies))
	for _, l := range latencies {
		if l > 0 {
			valid = append(valid, l)
		}
	}
	if len(valid) == 0 {
		return 0, 0, 0
	}

	var sum time.Duration
	for _, l := range valid {
		sum += l
		if l > maxLat {
			maxLat = l
		}
	}
	avg = sum / time.Duration(len(valid))

	sort.Slice(valid, func(i, j int) bool { return valid[i] < valid[j] })
	idx := int(float64(len(valid)) * 0.99)
	if idx >= len(valid) {
		idx = len(valid) - 1
	}
	return avg, maxLat, valid[idx]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.keystrokes.Store(0)
	m.commands.Store(0)
	m.pending.Store(0)
	m.none.Store(0)
	m.timeouts.Store(0)
	m.ignored.Store(0)
	m.consumed.Store(0)
	m.peakKeyLatency.Store(0)

	m.mu.Lock()
	m.keyLatencies = make([]time.Duration, m.maxLatencySamples)
	m.latencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}

// Timer measures key handling duration.
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// StartKeyEventTimer starts a timer for one key event.
func (m *Metrics) StartKeyEventTimer() *Timer {
	return &Timer{start: time.Now(), metrics: m}
}

// Stop records the elapsed time as a key event.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	t.metrics.RecordKeyEvent(elapsed)
	return elapsed
}
