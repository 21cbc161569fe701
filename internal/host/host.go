// Package host defines the contract between the underground police and the
// simulation host that owns structures, components and terrain. The police
// only observes and removes; every type here is implemented by the host.
package host

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/undergroundpolice/server/internal/core/ecs"
	"github.com/undergroundpolice/server/internal/geom"
)

// Entity is anything the host announces through entity add/remove events.
type Entity interface {
	ID() ecs.EntityID
	// WorldAABB is the axis-aligned world bounding box.
	WorldAABB() geom.Box
}

// Structure is a rigid composite of components sharing one frame.
type Structure interface {
	Entity
	Name() string
	// HasPhysics is false for projections and blueprint previews.
	HasPhysics() bool
	CellSize() float64
	WorldMatrix() mgl64.Mat4
	// Components appends the structure's current components to dst.
	Components(dst []Component) []Component
	// RemoveComponent detaches c. It reports false when c was already removed
	// or does not belong to the structure.
	RemoveComponent(c Component) bool
	// OnComponentAdded registers fn for components placed later. The
	// returned function unsubscribes.
	OnComponentAdded(fn func(Component)) (unsubscribe func())
}

// Component is a single placed item occupying the cell range [Min, Max].
type Component interface {
	ID() ecs.EntityID
	Structure() Structure
	Min() geom.Cell
	Max() geom.Cell
	// Body is nil for plain armor-like components.
	Body() Body
	// WorldAABB is the precise world box of the component.
	WorldAABB() geom.Box
	// Closed reports whether the component has been removed.
	Closed() bool
}

// Body is the functional sub-entity of a component.
type Body interface {
	TypeName() string
	Capabilities() Capability
}

// TerrainVolume is an opaque solid volume.
type TerrainVolume interface {
	Name() string
	// AnyCornerInside reports whether any corner of the box local,
	// placed in the world by m, lies inside the volume.
	AnyCornerInside(m mgl64.Mat4, local geom.Box) bool
}

// SpatialIndex answers terrain overlap queries.
type SpatialIndex interface {
	// TerrainInBox appends every terrain volume overlapping box to dst.
	TerrainInBox(box geom.Box, dst []TerrainVolume) []TerrainVolume
}

// Session exposes the process role.
type Session interface {
	// IsAuthoritative is true on the instance that makes world-mutating decisions.
	IsAuthoritative() bool
}

// Entities is the host's entity lifecycle feed.
type Entities interface {
	OnEntityAdded(fn func(Entity)) (unsubscribe func())
	OnEntityRemoved(fn func(Entity)) (unsubscribe func())
}

// Host bundles everything the police needs from its host.
type Host interface {
	Session
	Entities
	SpatialIndex
}
