package world

import (
	"math"
	"sort"
	"sync"

	"github.com/undergroundpolice/server/internal/core/ecs"
	"github.com/undergroundpolice/server/internal/geom"
	"github.com/undergroundpolice/server/internal/host"
)

// TerrainGrid is a cell-based spatial index over terrain volumes.
// Each volume is registered in every cell its bounds overlap. Volumes that
// would span more than maxCellsPerVolume cells (planets) are kept in a
// separate list tested against every query.
// Reads take a shared lock so the background pass can query while the
// simulation adds terrain.

const (
	terrainCellSize   = 1024.0
	maxCellsPerVolume = 512
	maxCellsPerQuery  = 4096
)

type gridKey struct {
	cx, cy, cz int64
}

// maxGridCoord bounds grid coordinates so spans and their products stay
// finite. Anything beyond it lands in the outermost cell.
const maxGridCoord = 1 << 40

func toGridCoord(v float64) int64 {
	c := math.Floor(v / terrainCellSize)
	switch {
	case math.IsNaN(c):
		return 0
	case c > maxGridCoord:
		return maxGridCoord
	case c < -maxGridCoord:
		return -maxGridCoord
	}
	return int64(c)
}

type gridRange struct {
	min, max gridKey
}

func rangeOf(b geom.Box) gridRange {
	return gridRange{
		min: gridKey{toGridCoord(b.Min[0]), toGridCoord(b.Min[1]), toGridCoord(b.Min[2])},
		max: gridKey{toGridCoord(b.Max[0]), toGridCoord(b.Max[1]), toGridCoord(b.Max[2])},
	}
}

// cells counts the cells in r. It is computed in float64 because three
// spans of up to 2^41 overflow int64.
func (r gridRange) cells() float64 {
	span := func(lo, hi int64) float64 {
		if hi < lo {
			return 0
		}
		return float64(hi-lo) + 1
	}
	return span(r.min.cx, r.max.cx) * span(r.min.cy, r.max.cy) * span(r.min.cz, r.max.cz)
}

func (r gridRange) each(fn func(gridKey)) {
	for x := r.min.cx; x <= r.max.cx; x++ {
		for y := r.min.cy; y <= r.max.cy; y++ {
			for z := r.min.cz; z <= r.max.cz; z++ {
				fn(gridKey{x, y, z})
			}
		}
	}
}

type TerrainGrid struct {
	mu      sync.RWMutex
	cells   map[gridKey]map[ecs.EntityID]struct{}
	large   map[ecs.EntityID]struct{}
	volumes map[ecs.EntityID]Terrain
}

func NewTerrainGrid() *TerrainGrid {
	return &TerrainGrid{
		cells:   make(map[gridKey]map[ecs.EntityID]struct{}),
		large:   make(map[ecs.EntityID]struct{}),
		volumes: make(map[ecs.EntityID]Terrain),
	}
}

// Add registers t under id.
func (g *TerrainGrid) Add(id ecs.EntityID, t Terrain) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.volumes[id] = t
	r := rangeOf(t.Bounds())
	if r.cells() > maxCellsPerVolume {
		g.large[id] = struct{}{}
		return
	}
	r.each(func(k gridKey) {
		cell := g.cells[k]
		if cell == nil {
			cell = make(map[ecs.EntityID]struct{})
			g.cells[k] = cell
		}
		cell[id] = struct{}{}
	})
}

// Remove takes the volume registered under id out of the grid.
func (g *TerrainGrid) Remove(id ecs.EntityID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.volumes[id]
	if !ok {
		return false
	}
	delete(g.volumes, id)
	if _, ok := g.large[id]; ok {
		delete(g.large, id)
		return true
	}
	rangeOf(t.Bounds()).each(func(k gridKey) {
		cell := g.cells[k]
		if cell != nil {
			delete(cell, id)
			if len(cell) == 0 {
				delete(g.cells, k)
			}
		}
	})
	return true
}

// Len returns the number of registered volumes.
func (g *TerrainGrid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.volumes)
}

// TerrainInBox appends every volume whose bounds overlap box, ordered by ID.
func (g *TerrainGrid) TerrainInBox(box geom.Box, dst []host.TerrainVolume) []host.TerrainVolume {
	g.mu.RLock()
	defer g.mu.RUnlock()

	candidates := make(map[ecs.EntityID]struct{})
	for id := range g.large {
		candidates[id] = struct{}{}
	}
	r := rangeOf(box)
	if r.cells() > maxCellsPerQuery {
		for id := range g.volumes {
			candidates[id] = struct{}{}
		}
	} else {
		r.each(func(k gridKey) {
			for id := range g.cells[k] {
				candidates[id] = struct{}{}
			}
		})
	}

	ids := make([]ecs.EntityID, 0, len(candidates))
	for id := range candidates {
		if g.volumes[id].Bounds().Intersects(box) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		dst = append(dst, g.volumes[id])
	}
	return dst
}
