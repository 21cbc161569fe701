package police

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/undergroundpolice/server/internal/geom"
	"github.com/undergroundpolice/server/internal/host"
)

func TestStructureInTerrainCoarse(t *testing.T) {
	ground := rock("ground", mgl64.Vec3{-100, -100, -100}, mgl64.Vec3{100, 0, 100})
	idx := &fakeIndex{volumes: []*fakeVolume{ground}}
	tester := NewTester(idx)

	buried := newFakeStructure("buried", true, mgl64.Vec3{0, -10, 0})
	buried.place(beacon(), geom.Cell{}, geom.Cell{})
	floating := newFakeStructure("floating", true, mgl64.Vec3{0, 500, 0})
	floating.place(beacon(), geom.Cell{}, geom.Cell{})

	assert.True(t, tester.StructureInTerrain(buried))
	assert.False(t, tester.StructureInTerrain(floating))
	assert.Empty(t, tester.terrain, "buffer cleared after each call")
}

func TestComponentInTerrainNoCandidates(t *testing.T) {
	ground := rock("ground", mgl64.Vec3{-100, -100, -100}, mgl64.Vec3{100, 0, 100})
	tester := NewTester(&fakeIndex{volumes: []*fakeVolume{ground}})

	s := newFakeStructure("ship", true, mgl64.Vec3{0, 50, 0})
	c := s.place(decoy(), geom.Cell{}, geom.Cell{X: 1})

	assert.False(t, tester.ComponentInTerrain(c))
	assert.Zero(t, ground.calls, "precise test skipped without candidates")
	assert.Empty(t, tester.terrain)
}

func TestComponentInTerrainCornerInside(t *testing.T) {
	// ground surface at y=0; cell size 2.5 pads the box to y in [-1.25, 1.25]
	// around the structure origin, so placing the origin at y=1 puts the
	// bottom corners 0.25 below the surface.
	ground := rock("ground", mgl64.Vec3{-100, -100, -100}, mgl64.Vec3{100, 0, 100})
	tester := NewTester(&fakeIndex{volumes: []*fakeVolume{ground}})

	s := newFakeStructure("ship", true, mgl64.Vec3{0, 1, 0})
	c := s.place(beacon(), geom.Cell{}, geom.Cell{})

	assert.True(t, tester.ComponentInTerrain(c))
	assert.Equal(t, 1, ground.calls)
	assert.Empty(t, tester.terrain)
}

func TestComponentInTerrainShortCircuits(t *testing.T) {
	first := rock("first", mgl64.Vec3{-10, -10, -10}, mgl64.Vec3{10, 10, 10})
	second := rock("second", mgl64.Vec3{-10, -10, -10}, mgl64.Vec3{10, 10, 10})
	tester := NewTester(&fakeIndex{volumes: []*fakeVolume{first, second}})

	s := newFakeStructure("ship", true, mgl64.Vec3{})
	c := s.place(beacon(), geom.Cell{}, geom.Cell{})

	assert.True(t, tester.ComponentInTerrain(c))
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)
}

// A candidate returned by the coarse index whose volume holds no corner
// does not count.
type overlapOnlyVolume struct{}

func (overlapOnlyVolume) Name() string                              { return "hollow" }
func (overlapOnlyVolume) AnyCornerInside(mgl64.Mat4, geom.Box) bool { return false }

type everythingIndex struct{}

func (everythingIndex) TerrainInBox(_ geom.Box, dst []host.TerrainVolume) []host.TerrainVolume {
	return append(dst, overlapOnlyVolume{})
}

func TestComponentInTerrainCandidateWithoutCorner(t *testing.T) {
	tester := NewTester(everythingIndex{})
	s := newFakeStructure("ship", true, mgl64.Vec3{})
	c := s.place(beacon(), geom.Cell{}, geom.Cell{})

	assert.True(t, tester.StructureInTerrain(s))
	assert.False(t, tester.ComponentInTerrain(c))
}
