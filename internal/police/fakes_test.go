package police

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/undergroundpolice/server/internal/core/ecs"
	"github.com/undergroundpolice/server/internal/geom"
	"github.com/undergroundpolice/server/internal/host"
)

var fakeIDs = ecs.NewEntityPool()

// fakeVolume is an axis-aligned solid that answers the corner test exactly.
type fakeVolume struct {
	name   string
	bounds geom.Box
	calls  int
}

func (v *fakeVolume) Name() string { return v.name }

func (v *fakeVolume) AnyCornerInside(m mgl64.Mat4, local geom.Box) bool {
	v.calls++
	for _, c := range geom.WorldCorners(m, local) {
		if v.bounds.Contains(c) {
			return true
		}
	}
	return false
}

type fakeIndex struct {
	volumes []*fakeVolume
	queries int
}

func (x *fakeIndex) TerrainInBox(box geom.Box, dst []host.TerrainVolume) []host.TerrainVolume {
	x.queries++
	for _, v := range x.volumes {
		if v.bounds.Intersects(box) {
			dst = append(dst, v)
		}
	}
	return dst
}

type fakeStructure struct {
	id       ecs.EntityID
	name     string
	physics  bool
	cellSize float64
	matrix   mgl64.Mat4

	mu         sync.Mutex
	components []*fakeComponent
	removed    []ecs.EntityID
	listeners  map[int]func(host.Component)
	nextSub    int
}

func newFakeStructure(name string, physics bool, position mgl64.Vec3) *fakeStructure {
	return &fakeStructure{
		id:        fakeIDs.Create(),
		name:      name,
		physics:   physics,
		cellSize:  2.5,
		matrix:    mgl64.Translate3D(position[0], position[1], position[2]),
		listeners: make(map[int]func(host.Component)),
	}
}

func (s *fakeStructure) ID() ecs.EntityID        { return s.id }
func (s *fakeStructure) Name() string            { return s.name }
func (s *fakeStructure) HasPhysics() bool        { return s.physics }
func (s *fakeStructure) CellSize() float64       { return s.cellSize }
func (s *fakeStructure) WorldMatrix() mgl64.Mat4 { return s.matrix }

func (s *fakeStructure) WorldAABB() geom.Box {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out geom.Box
	for i, c := range s.components {
		if i == 0 {
			out = c.WorldAABB()
			continue
		}
		out = out.Union(c.WorldAABB())
	}
	return out
}

func (s *fakeStructure) Components(dst []host.Component) []host.Component {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.components {
		dst = append(dst, c)
	}
	return dst
}

func (s *fakeStructure) RemoveComponent(c host.Component) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, fc := range s.components {
		if fc.ID() == c.ID() {
			s.components = append(s.components[:i], s.components[i+1:]...)
			fc.closed = true
			s.removed = append(s.removed, fc.ID())
			return true
		}
	}
	return false
}

func (s *fakeStructure) OnComponentAdded(fn func(host.Component)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *fakeStructure) listenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func (s *fakeStructure) removals() []ecs.EntityID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ecs.EntityID(nil), s.removed...)
}

// place adds a component and notifies listeners like a host would.
func (s *fakeStructure) place(body host.Body, min, max geom.Cell) *fakeComponent {
	c := &fakeComponent{id: fakeIDs.Create(), structure: s, min: min, max: max, body: body}
	s.mu.Lock()
	s.components = append(s.components, c)
	fns := make([]func(host.Component), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
	return c
}

type fakeComponent struct {
	id        ecs.EntityID
	structure *fakeStructure
	min, max  geom.Cell
	body      host.Body
	closed    bool
}

func (c *fakeComponent) ID() ecs.EntityID          { return c.id }
func (c *fakeComponent) Structure() host.Structure { return c.structure }
func (c *fakeComponent) Min() geom.Cell            { return c.min }
func (c *fakeComponent) Max() geom.Cell            { return c.max }
func (c *fakeComponent) Body() host.Body           { return c.body }

func (c *fakeComponent) Closed() bool {
	c.structure.mu.Lock()
	defer c.structure.mu.Unlock()
	return c.closed
}

func (c *fakeComponent) WorldAABB() geom.Box {
	return geom.CellBox(c.min, c.max, c.structure.cellSize).Transform(c.structure.matrix)
}

type fakeHost struct {
	*fakeIndex
	authoritative bool

	mu      sync.Mutex
	added   map[int]func(host.Entity)
	removed map[int]func(host.Entity)
	nextSub int
}

func newFakeHost(authoritative bool, volumes ...*fakeVolume) *fakeHost {
	return &fakeHost{
		fakeIndex:     &fakeIndex{volumes: volumes},
		authoritative: authoritative,
		added:         make(map[int]func(host.Entity)),
		removed:       make(map[int]func(host.Entity)),
	}
}

func (h *fakeHost) IsAuthoritative() bool { return h.authoritative }

func (h *fakeHost) subscribe(m map[int]func(host.Entity), fn func(host.Entity)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSub++
	id := h.nextSub
	m[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(m, id)
	}
}

func (h *fakeHost) OnEntityAdded(fn func(host.Entity)) func() {
	return h.subscribe(h.added, fn)
}

func (h *fakeHost) OnEntityRemoved(fn func(host.Entity)) func() {
	return h.subscribe(h.removed, fn)
}

func (h *fakeHost) fire(m map[int]func(host.Entity), e host.Entity) {
	h.mu.Lock()
	fns := make([]func(host.Entity), 0, len(m))
	for _, fn := range m {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

func (h *fakeHost) subscriptions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.added) + len(h.removed)
}

func beacon() host.Body { return &fakeBody{name: "Beacon", caps: host.CapBeacon} }
func decoy() host.Body  { return &fakeBody{name: "Decoy", caps: host.CapDecoy} }
func reactor() host.Body {
	return &fakeBody{name: "Reactor", caps: host.CapReactor}
}

func rock(name string, min, max mgl64.Vec3) *fakeVolume {
	return &fakeVolume{name: name, bounds: geom.Box{Min: min, Max: max}}
}
