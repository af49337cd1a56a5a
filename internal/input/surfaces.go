package input

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keychord/internal/input/chord"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/when"
)

// ErrUnknownSurface is returned for a surface ID that is not open.
var ErrUnknownSurface = errors.New("unknown input surface")

// Surfaces keeps one chord tracker per input surface (editor pane,
// terminal, dialog). Events for one surface are serialised; distinct
// surfaces proceed concurrently.
type Surfaces struct {
	resolver *Resolver

	mu       sync.RWMutex
	surfaces map[uuid.UUID]*surface
}

type surface struct {
	mu    sync.Mutex
	name  string
	state *chord.State
}

// SurfaceInfo describes an open surface.
type SurfaceInfo struct {
	ID      uuid.UUID
	Name    string
	Pending key.Chord
}

// NewSurfaces creates an empty surface set backed by r.
func NewSurfaces(r *Resolver) *Surfaces {
	return &Surfaces{
		resolver: r,
		surfaces: make(map[uuid.UUID]*surface),
	}
}

// Open registers a new surface and returns its ID.
func (s *Surfaces) Open(name string) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.surfaces[id] = &surface{name: name, state: s.resolver.NewState()}
	s.mu.Unlock()
	return id
}

// Close removes a surface. It reports whether the surface was open.
func (s *Surfaces) Close(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.surfaces[id]; !ok {
		return false
	}
	delete(s.surfaces, id)
	return true
}

// Len returns the number of open surfaces.
func (s *Surfaces) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.surfaces)
}

func (s *Surfaces) get(id uuid.UUID) (*surface, error) {
	s.mu.RLock()
	sf, ok := s.surfaces[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownSurface
	}
	return sf, nil
}

// Handle feeds a key event to the surface's tracker using the resolver's
// configured platform.
func (s *Surfaces) Handle(id uuid.UUID, raw key.RawEvent, ctx when.Snapshot) (Resolution, error) {
	return s.HandleOn(id, raw, s.resolver.Config().Platform, ctx)
}

// HandleOn is like Handle with an explicit platform.
func (s *Surfaces) HandleOn(id uuid.UUID, raw key.RawEvent, platform key.Platform, ctx when.Snapshot) (Resolution, error) {
	sf, err := s.get(id)
	if err != nil {
		return Resolution{}, err
	}
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return s.resolver.HandleKeyEvent(sf.state, raw, platform, ctx), nil
}

// Expire lapses every surface whose pending chord has timed out at now
// and returns the resolutions that carry a command.
func (s *Surfaces) Expire(now time.Time, ctx when.Snapshot) map[uuid.UUID]Resolution {
	s.mu.RLock()
	open := make(map[uuid.UUID]*surface, len(s.surfaces))
	for id, sf := range s.surfaces {
		open[id] = sf
	}
	s.mu.RUnlock()

	out := make(map[uuid.UUID]Resolution)
	for id, sf := range open {
		sf.mu.Lock()
		res, expired := s.resolver.Expire(sf.state, now, ctx)
		sf.mu.Unlock()
		if expired && res.IsCommand() {
			out[id] = res
		}
	}
	return out
}

// Reset clears a surface's pending chord.
func (s *Surfaces) Reset(id uuid.UUID) error {
	sf, err := s.get(id)
	if err != nil {
		return err
	}
	sf.mu.Lock()
	sf.state.Reset()
	sf.mu.Unlock()
	return nil
}

// Info describes a surface.
func (s *Surfaces) Info(id uuid.UUID) (SurfaceInfo, error) {
	sf, err := s.get(id)
	if err != nil {
		return SurfaceInfo{}, err
	}
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return SurfaceInfo{ID: id, Name: sf.name, Pending: sf.state.Pending()}, nil
}
