package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cell is an integer grid coordinate inside a structure's local frame.
type Cell struct {
	X, Y, Z int32
}

func (c Cell) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(c.X), float64(c.Y), float64(c.Z)}
}

// Box is an axis-aligned bounding box. Min is inclusive of every axis minimum.
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// CellBox returns the local box covered by the cell range [min, max] with
// half-cell padding on every side: [cellSize*(min-0.5), cellSize*(max+0.5)].
func CellBox(min, max Cell, cellSize float64) Box {
	half := mgl64.Vec3{0.5, 0.5, 0.5}
	return Box{
		Min: min.Vec3().Sub(half).Mul(cellSize),
		Max: max.Vec3().Add(half).Mul(cellSize),
	}
}

// Corners returns the 8 corners. Bit 0 picks X, bit 1 Y, bit 2 Z (0=Min, 1=Max).
func (b Box) Corners() [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	for i := range out {
		c := b.Min
		if i&1 != 0 {
			c[0] = b.Max[0]
		}
		if i&2 != 0 {
			c[1] = b.Max[1]
		}
		if i&4 != 0 {
			c[2] = b.Max[2]
		}
		out[i] = c
	}
	return out
}

func (b Box) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b Box) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside b (faces included).
func (b Box) Contains(p mgl64.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// Intersects reports whether the two boxes overlap. Touching faces count.
// Valid reports whether Min <= Max on every axis. NaN bounds are invalid.
func (b Box) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

func (b Box) Intersects(o Box) bool {
	return b.Min[0] <= o.Max[0] && b.Max[0] >= o.Min[0] &&
		b.Min[1] <= o.Max[1] && b.Max[1] >= o.Min[1] &&
		b.Min[2] <= o.Max[2] && b.Max[2] >= o.Min[2]
}

// Union returns the smallest box enclosing both.
func (b Box) Union(o Box) Box {
	return Box{
		Min: mgl64.Vec3{math.Min(b.Min[0], o.Min[0]), math.Min(b.Min[1], o.Min[1]), math.Min(b.Min[2], o.Min[2])},
		Max: mgl64.Vec3{math.Max(b.Max[0], o.Max[0]), math.Max(b.Max[1], o.Max[1]), math.Max(b.Max[2], o.Max[2])},
	}
}

// Transform returns the axis-aligned box enclosing b after transformation by m.
func (b Box) Transform(m mgl64.Mat4) Box {
	corners := b.Corners()
	p := mgl64.TransformCoordinate(corners[0], m)
	out := Box{Min: p, Max: p}
	for _, c := range corners[1:] {
		p = mgl64.TransformCoordinate(c, m)
		out = out.Union(Box{Min: p, Max: p})
	}
	return out
}

// WorldCorners returns the corners of the oriented box (local, m) in world space.
func WorldCorners(m mgl64.Mat4, local Box) [8]mgl64.Vec3 {
	corners := local.Corners()
	for i, c := range corners {
		corners[i] = mgl64.TransformCoordinate(c, m)
	}
	return corners
}
