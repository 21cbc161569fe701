package world

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/undergroundpolice/server/internal/core/ecs"
	"github.com/undergroundpolice/server/internal/core/event"
	"github.com/undergroundpolice/server/internal/geom"
	"github.com/undergroundpolice/server/internal/host"
)

// StructureSpec describes a structure to spawn.
type StructureSpec struct {
	Name        string
	Position    mgl64.Vec3
	Orientation geom.Orientation
	CellSize    float64
	// Physics is false for projections and blueprint previews.
	Physics bool
}

// State is the sandbox host: it owns structures and terrain and implements
// host.Host. Structures are destroyed at the end of a step by
// FlushDestroyed.
type State struct {
	authoritative bool
	ids           *ecs.EntityPool
	bus           *event.Bus
	terrain       *TerrainGrid
	destroy       *ecs.DestroyQueue

	mu         sync.RWMutex
	structures map[ecs.EntityID]*Structure
}

var _ host.Host = (*State)(nil)

func NewState(authoritative bool) *State {
	return &State{
		authoritative: authoritative,
		ids:           ecs.NewEntityPool(),
		bus:           event.NewBus(),
		terrain:       NewTerrainGrid(),
		destroy:       ecs.NewDestroyQueue(),
		structures:    make(map[ecs.EntityID]*Structure),
	}
}

func (s *State) IsAuthoritative() bool { return s.authoritative }

func (s *State) OnEntityAdded(fn func(host.Entity)) func() {
	return event.Subscribe(s.bus, func(e event.EntityAdded) { fn(e.Entity) })
}

func (s *State) OnEntityRemoved(fn func(host.Entity)) func() {
	return event.Subscribe(s.bus, func(e event.EntityRemoved) { fn(e.Entity) })
}

func (s *State) TerrainInBox(box geom.Box, dst []host.TerrainVolume) []host.TerrainVolume {
	return s.terrain.TerrainInBox(box, dst)
}

// AddTerrain registers a terrain volume and returns its ID.
func (s *State) AddTerrain(t Terrain) ecs.EntityID {
	id := s.ids.Create()
	s.terrain.Add(id, t)
	return id
}

// RemoveTerrain drops a terrain volume.
func (s *State) RemoveTerrain(id ecs.EntityID) bool {
	if !s.terrain.Remove(id) {
		return false
	}
	s.ids.Destroy(id)
	return true
}

func (s *State) TerrainCount() int { return s.terrain.Len() }

// SpawnStructure creates an empty structure and announces it.
func (s *State) SpawnStructure(spec StructureSpec) (*Structure, error) {
	if spec.CellSize <= 0 {
		return nil, fmt.Errorf("spawn %s: cell size must be positive, got %v", spec.Name, spec.CellSize)
	}
	st := &Structure{
		id:       s.ids.Create(),
		state:    s,
		name:     spec.Name,
		physics:  spec.Physics,
		cellSize: spec.CellSize,
		matrix:   geom.WorldMatrix(spec.Position, spec.Orientation),
		bus:      event.NewBus(),
	}

	s.mu.Lock()
	s.structures[st.id] = st
	s.mu.Unlock()

	event.Publish(s.bus, event.EntityAdded{Entity: st})
	return st, nil
}

func (s *State) Structure(id ecs.EntityID) (*Structure, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.structures[id]
	return st, ok
}

// Structures returns all live structures ordered by ID.
func (s *State) Structures() []*Structure {
	s.mu.RLock()
	out := make([]*Structure, 0, len(s.structures))
	for _, st := range s.structures {
		out = append(out, st)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (s *State) StructureCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.structures)
}

// ComponentCount sums components over all structures.
func (s *State) ComponentCount() int {
	n := 0
	for _, st := range s.Structures() {
		n += st.Len()
	}
	return n
}

// DestroyStructure queues a structure for removal at the end of the step.
func (s *State) DestroyStructure(id ecs.EntityID) bool {
	if _, ok := s.Structure(id); !ok {
		return false
	}
	s.destroy.Mark(id)
	return true
}

// FlushDestroyed removes queued structures, announces each removal, closes
// their components and returns how many were destroyed.
func (s *State) FlushDestroyed() int {
	n := 0
	s.destroy.Flush(func(id ecs.EntityID) {
		s.mu.Lock()
		st, ok := s.structures[id]
		delete(s.structures, id)
		s.mu.Unlock()
		if !ok {
			return
		}

		st.mu.Lock()
		for _, c := range st.components {
			c.closed.Store(true)
			s.ids.Destroy(c.id)
		}
		st.components = nil
		st.mu.Unlock()

		s.ids.Destroy(id)
		event.Publish(s.bus, event.EntityRemoved{Entity: st})
		n++
	})
	return n
}
