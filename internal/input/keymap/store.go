package keymap

import (
	"sync"
	"sync/atomic"
)

// Store holds the current Table. Readers always see a complete table;
// publishing a rebuilt table never disturbs resolutions already holding
// the previous one.
type Store struct {
	current atomic.Pointer[Table]
	version atomic.Uint64

	mu        sync.Mutex
	observers []func(*Table)
}

// NewStore creates a store holding t. A nil t is replaced by an empty
// table.
func NewStore(t *Table) *Store {
	s := &Store{}
	if t == nil {
		t = Empty()
	}
	s.current.Store(t)
	return s
}

// Load returns the current table.
func (s *Store) Load() *Table {
	if t := s.current.Load(); t != nil {
		return t
	}
	return Empty()
}

// Publish replaces the current table and notifies observers.
// It returns the new version number.
func (s *Store) Publish(t *Table) uint64 {
	if t == nil {
		t = Empty()
	}
	s.current.Store(t)
	v := s.version.Add(1)

	s.mu.Lock()
	observers := make([]func(*Table), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(t)
	}
	return v
}

// Version returns the number of tables published since creation.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

// OnPublish registers fn to run after each Publish.
func (s *Store) OnPublish(fn func(*Table)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}
