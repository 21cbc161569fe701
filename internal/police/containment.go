package police

import (
	"github.com/undergroundpolice/server/internal/geom"
	"github.com/undergroundpolice/server/internal/host"
)

// Tester checks entities against terrain through the host's spatial index.
// It owns one scratch buffer and is used only from the pass goroutine, so it
// takes no locks.
type Tester struct {
	index   host.SpatialIndex
	terrain []host.TerrainVolume
}

func NewTester(index host.SpatialIndex) *Tester {
	return &Tester{
		index:   index,
		terrain: make([]host.TerrainVolume, 0, 8),
	}
}

// StructureInTerrain is the coarse check: true iff any terrain volume
// overlaps the entity's world bounding box.
func (t *Tester) StructureInTerrain(e host.Entity) bool {
	defer t.reset()
	t.terrain = t.index.TerrainInBox(e.WorldAABB(), t.terrain)
	return len(t.terrain) > 0
}

// ComponentInTerrain is the precise check: true iff any corner of the
// component's half-cell padded box, placed by its structure's world matrix,
// lies inside one of the terrain volumes overlapping its world box.
func (t *Tester) ComponentInTerrain(c host.Component) bool {
	defer t.reset()
	t.terrain = t.index.TerrainInBox(c.WorldAABB(), t.terrain)
	if len(t.terrain) == 0 {
		return false
	}

	s := c.Structure()
	local := geom.CellBox(c.Min(), c.Max(), s.CellSize())
	m := s.WorldMatrix()
	for _, v := range t.terrain {
		if v.AnyCornerInside(m, local) {
			return true
		}
	}
	return false
}

func (t *Tester) reset() {
	clear(t.terrain)
	t.terrain = t.terrain[:0]
}
