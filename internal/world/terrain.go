package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/undergroundpolice/server/internal/geom"
	"github.com/undergroundpolice/server/internal/host"
)

// Terrain is a solid volume the grid can index.
type Terrain interface {
	host.TerrainVolume
	Bounds() geom.Box
}

// VoxelSphere is a solid ball, e.g. a planet or a moon.
type VoxelSphere struct {
	name   string
	center mgl64.Vec3
	radius float64
}

func NewVoxelSphere(name string, center mgl64.Vec3, radius float64) *VoxelSphere {
	return &VoxelSphere{name: name, center: center, radius: radius}
}

func (v *VoxelSphere) Name() string { return v.name }

func (v *VoxelSphere) Bounds() geom.Box {
	r := mgl64.Vec3{v.radius, v.radius, v.radius}
	return geom.Box{Min: v.center.Sub(r), Max: v.center.Add(r)}
}

func (v *VoxelSphere) AnyCornerInside(m mgl64.Mat4, local geom.Box) bool {
	r2 := v.radius * v.radius
	for _, c := range geom.WorldCorners(m, local) {
		d := c.Sub(v.center)
		if d.Dot(d) <= r2 {
			return true
		}
	}
	return false
}

// VoxelBox is a solid axis-aligned block, e.g. an asteroid chunk.
type VoxelBox struct {
	name string
	box  geom.Box
}

func NewVoxelBox(name string, box geom.Box) *VoxelBox {
	return &VoxelBox{name: name, box: box}
}

func (v *VoxelBox) Name() string     { return v.name }
func (v *VoxelBox) Bounds() geom.Box { return v.box }

func (v *VoxelBox) AnyCornerInside(m mgl64.Mat4, local geom.Box) bool {
	for _, c := range geom.WorldCorners(m, local) {
		if v.box.Contains(c) {
			return true
		}
	}
	return false
}
