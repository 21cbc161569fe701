package world

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/undergroundpolice/server/internal/core/ecs"
	"github.com/undergroundpolice/server/internal/core/event"
	"github.com/undergroundpolice/server/internal/geom"
	"github.com/undergroundpolice/server/internal/host"
)

// BlockType describes what a placed component is.
type BlockType struct {
	Name         string
	Capabilities host.Capability
	// Functional blocks carry a body; armor-like blocks do not.
	Functional bool
}

// Structure is a rigid grid of components. Components may be placed from
// the simulation goroutine and removed from any goroutine.
type Structure struct {
	id       ecs.EntityID
	state    *State
	name     string
	physics  bool
	cellSize float64
	matrix   mgl64.Mat4
	bus      *event.Bus

	mu         sync.RWMutex
	components []*Component
}

func (s *Structure) ID() ecs.EntityID        { return s.id }
func (s *Structure) Name() string            { return s.name }
func (s *Structure) HasPhysics() bool        { return s.physics }
func (s *Structure) CellSize() float64       { return s.cellSize }
func (s *Structure) WorldMatrix() mgl64.Mat4 { return s.matrix }

// WorldAABB encloses every component. An empty structure is a point at its
// origin.
func (s *Structure) WorldAABB() geom.Box {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.components) == 0 {
		origin := mgl64.TransformCoordinate(mgl64.Vec3{}, s.matrix)
		return geom.Box{Min: origin, Max: origin}
	}
	local := s.components[0].localBox()
	for _, c := range s.components[1:] {
		local = local.Union(c.localBox())
	}
	return local.Transform(s.matrix)
}

func (s *Structure) Components(dst []host.Component) []host.Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.components {
		dst = append(dst, c)
	}
	return dst
}

// Len returns the number of components.
func (s *Structure) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.components)
}

// Place adds a component of type bt over the cell range [min, max] and
// notifies component-added subscribers.
func (s *Structure) Place(bt BlockType, min, max geom.Cell) (*Component, error) {
	if min.X > max.X || min.Y > max.Y || min.Z > max.Z {
		return nil, fmt.Errorf("place %s on %s: min %v exceeds max %v", bt.Name, s.name, min, max)
	}
	c := &Component{
		structure: s,
		blockType: bt,
		min:       min,
		max:       max,
	}

	s.mu.Lock()
	for _, other := range s.components {
		if other.overlaps(min, max) {
			s.mu.Unlock()
			return nil, fmt.Errorf("place %s on %s: cells %v-%v occupied by %s", bt.Name, s.name, min, max, other.blockType.Name)
		}
	}
	c.id = s.state.ids.Create()
	s.components = append(s.components, c)
	s.mu.Unlock()

	event.Publish(s.bus, event.ComponentAdded{Component: c})
	return c, nil
}

// RemoveComponent detaches c. Only the first call for a component succeeds.
func (s *Structure) RemoveComponent(hc host.Component) bool {
	c, ok := hc.(*Component)
	if !ok || c.structure != s {
		return false
	}

	s.mu.Lock()
	if !c.closed.CompareAndSwap(false, true) {
		s.mu.Unlock()
		return false
	}
	for i, other := range s.components {
		if other == c {
			s.components = append(s.components[:i], s.components[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.state.ids.Destroy(c.id)
	event.Publish(s.bus, event.ComponentRemoved{Component: c})
	return true
}

func (s *Structure) OnComponentAdded(fn func(host.Component)) func() {
	return event.Subscribe(s.bus, func(e event.ComponentAdded) { fn(e.Component) })
}

// OnComponentRemoved registers fn for component removals.
func (s *Structure) OnComponentRemoved(fn func(host.Component)) func() {
	return event.Subscribe(s.bus, func(e event.ComponentRemoved) { fn(e.Component) })
}

// Component is a block occupying a cell range of its structure.
type Component struct {
	id        ecs.EntityID
	structure *Structure
	blockType BlockType
	min, max  geom.Cell
	closed    atomic.Bool
}

func (c *Component) ID() ecs.EntityID          { return c.id }
func (c *Component) Structure() host.Structure { return c.structure }
func (c *Component) Min() geom.Cell            { return c.min }
func (c *Component) Max() geom.Cell            { return c.max }
func (c *Component) Closed() bool              { return c.closed.Load() }
func (c *Component) BlockType() BlockType      { return c.blockType }

// Body returns nil for non-functional blocks.
func (c *Component) Body() host.Body {
	if !c.blockType.Functional {
		return nil
	}
	return blockBody{c.blockType}
}

func (c *Component) WorldAABB() geom.Box {
	return c.localBox().Transform(c.structure.matrix)
}

func (c *Component) localBox() geom.Box {
	return geom.CellBox(c.min, c.max, c.structure.cellSize)
}

func (c *Component) overlaps(min, max geom.Cell) bool {
	return c.min.X <= max.X && c.max.X >= min.X &&
		c.min.Y <= max.Y && c.max.Y >= min.Y &&
		c.min.Z <= max.Z && c.max.Z >= min.Z
}

type blockBody struct {
	bt BlockType
}

func (b blockBody) TypeName() string              { return b.bt.Name }
func (b blockBody) Capabilities() host.Capability { return b.bt.Capabilities }
