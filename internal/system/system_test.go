package system

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	coresys "github.com/undergroundpolice/server/internal/core/system"
	"github.com/undergroundpolice/server/internal/geom"
	"github.com/undergroundpolice/server/internal/host"
	"github.com/undergroundpolice/server/internal/police"
	"github.com/undergroundpolice/server/internal/world"
	"go.uber.org/zap/zaptest"
)

type tickFunc func(seconds float64)

func (f tickFunc) OnTick(seconds float64) { f(seconds) }

func TestCleanupFlushesDestroyed(t *testing.T) {
	ws := world.NewState(true)
	st, err := ws.SpawnStructure(world.StructureSpec{Name: "ship", CellSize: 2.5, Physics: true})
	require.NoError(t, err)
	require.True(t, ws.DestroyStructure(st.ID()))

	s := NewCleanupSystem(ws, zaptest.NewLogger(t))
	assert.Equal(t, coresys.PhaseCleanup, s.Phase())
	s.Update(100 * time.Millisecond)
	assert.Zero(t, ws.StructureCount())
}

func TestScenarioSystemPassesSeconds(t *testing.T) {
	var got []float64
	s := NewScenarioSystem(tickFunc(func(sec float64) { got = append(got, sec) }))
	assert.Equal(t, coresys.PhaseSimulation, s.Phase())
	s.Update(250 * time.Millisecond)
	assert.Equal(t, []float64{0.25}, got)
}

// One step of the full loop: the police pass runs first, the scenario then
// destroys the ship and cleanup flushes it.
func TestStepRemovesBuriedBeacon(t *testing.T) {
	log := zaptest.NewLogger(t)
	ws := world.NewState(true)
	ws.AddTerrain(world.NewVoxelSphere("planet", mgl64.Vec3{0, -1000, 0}, 1000))

	p := police.New(ws, log)
	require.True(t, p.Load())
	defer p.Unload()

	buried, err := ws.SpawnStructure(world.StructureSpec{Name: "buried", Position: mgl64.Vec3{0, -10, 0}, CellSize: 2.5, Physics: true})
	require.NoError(t, err)
	beacon, err := buried.Place(world.BlockType{Name: "Beacon", Capabilities: host.CapBeacon, Functional: true}, geom.Cell{}, geom.Cell{})
	require.NoError(t, err)
	armor, err := buried.Place(world.BlockType{Name: "Armor"}, geom.Cell{X: 1}, geom.Cell{X: 1})
	require.NoError(t, err)

	var passDone bool
	r := coresys.NewRunner()
	r.Register(NewCleanupSystem(ws, log))
	r.Register(NewScenarioSystem(tickFunc(func(float64) {
		p.Wait()
		passDone = true
		ws.DestroyStructure(buried.ID())
	})))
	r.Register(p)

	r.Tick(100 * time.Millisecond)

	assert.True(t, passDone)
	assert.True(t, beacon.Closed())
	assert.True(t, armor.Closed(), "closed by destruction")
	assert.Zero(t, ws.StructureCount())
	assert.Equal(t, uint64(1), p.Stats().Removed)
}
