package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/undergroundpolice/server/internal/core/ecs"
	"github.com/undergroundpolice/server/internal/data"
	"github.com/undergroundpolice/server/internal/geom"
	"github.com/undergroundpolice/server/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM that drives scenario scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm     *lua.LState
	world  *world.State
	blocks *data.BlockTable
	log    *zap.Logger
}

// NewEngine creates a Lua engine bound to ws and loads all scripts from the
// given directory. A missing directory loads nothing.
func NewEngine(scriptsDir string, ws *world.State, blocks *data.BlockTable, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, world: ws, blocks: blocks, log: log}
	e.register()

	for _, sub := range []string{"core", "scenario"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk of Lua in the engine's VM.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

func (e *Engine) register() {
	for name, fn := range map[string]lua.LGFunction{
		"spawn_structure":    e.luaSpawnStructure,
		"place_component":    e.luaPlaceComponent,
		"destroy_structure":  e.luaDestroyStructure,
		"add_terrain_sphere": e.luaAddTerrainSphere,
		"add_terrain_box":    e.luaAddTerrainBox,
		"structure_count":    e.luaStructureCount,
		"component_count":    e.luaComponentCount,
		"log":                e.luaLog,
	} {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

// OnTick calls the Lua on_tick function, if the scripts define one.
func (e *Engine) OnTick(seconds float64) {
	fn := e.vm.GetGlobal("on_tick")
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(seconds)); err != nil {
		e.log.Error("lua on_tick error", zap.Error(err))
	}
}

// spawn_structure{name=, position={x,y,z}, orientation={yaw,pitch,roll},
// cell_size=, physics=} returns the structure id, or nil and a message.
func (e *Engine) luaSpawnStructure(L *lua.LState) int {
	t := L.CheckTable(1)
	spec := world.StructureSpec{
		Name:     lua.LVAsString(t.RawGetString("name")),
		Position: toVec3(t.RawGetString("position")),
		CellSize: 2.5,
		Physics:  true,
	}
	if o, ok := t.RawGetString("orientation").(*lua.LTable); ok {
		spec.Orientation = geom.Orientation{
			Yaw:   float64(lua.LVAsNumber(o.RawGetInt(1))),
			Pitch: float64(lua.LVAsNumber(o.RawGetInt(2))),
			Roll:  float64(lua.LVAsNumber(o.RawGetInt(3))),
		}
	}
	if cs, ok := t.RawGetString("cell_size").(lua.LNumber); ok {
		spec.CellSize = float64(cs)
	}
	if p, ok := t.RawGetString("physics").(lua.LBool); ok {
		spec.Physics = bool(p)
	}

	st, err := e.world.SpawnStructure(spec)
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LNumber(st.ID()))
	return 1
}

// place_component(structure_id, type, {x,y,z} [, {x,y,z}]) returns true, or
// nil and a message.
func (e *Engine) luaPlaceComponent(L *lua.LState) int {
	id := ecs.EntityID(L.CheckNumber(1))
	typ := L.CheckString(2)
	min := toCell(L.CheckTable(3))
	max := min
	if t, ok := L.Get(4).(*lua.LTable); ok {
		max = toCell(t)
	}

	fail := func(msg string) int {
		L.Push(lua.LNil)
		L.Push(lua.LString(msg))
		return 2
	}
	st, ok := e.world.Structure(id)
	if !ok {
		return fail(fmt.Sprintf("structure %d not found", id))
	}
	bt, ok := e.blocks.Lookup(typ)
	if !ok {
		return fail(fmt.Sprintf("unknown block type %q", typ))
	}
	if _, err := st.Place(bt, min, max); err != nil {
		return fail(err.Error())
	}
	L.Push(lua.LTrue)
	return 1
}

func (e *Engine) luaDestroyStructure(L *lua.LState) int {
	id := ecs.EntityID(L.CheckNumber(1))
	L.Push(lua.LBool(e.world.DestroyStructure(id)))
	return 1
}

func (e *Engine) luaAddTerrainSphere(L *lua.LState) int {
	name := L.CheckString(1)
	center := toVec3(L.CheckTable(2))
	radius := float64(L.CheckNumber(3))
	if radius <= 0 {
		L.ArgError(3, "radius must be positive")
		return 0
	}
	L.Push(lua.LNumber(e.world.AddTerrain(world.NewVoxelSphere(name, center, radius))))
	return 1
}

func (e *Engine) luaAddTerrainBox(L *lua.LState) int {
	name := L.CheckString(1)
	box := geom.Box{Min: toVec3(L.CheckTable(2)), Max: toVec3(L.CheckTable(3))}
	if !box.Valid() {
		L.ArgError(3, "min exceeds max")
		return 0
	}
	L.Push(lua.LNumber(e.world.AddTerrain(world.NewVoxelBox(name, box))))
	return 1
}

func (e *Engine) luaStructureCount(L *lua.LState) int {
	L.Push(lua.LNumber(e.world.StructureCount()))
	return 1
}

func (e *Engine) luaComponentCount(L *lua.LState) int {
	L.Push(lua.LNumber(e.world.ComponentCount()))
	return 1
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

func toVec3(v lua.LValue) mgl64.Vec3 {
	t, ok := v.(*lua.LTable)
	if !ok {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{
		float64(lua.LVAsNumber(t.RawGetInt(1))),
		float64(lua.LVAsNumber(t.RawGetInt(2))),
		float64(lua.LVAsNumber(t.RawGetInt(3))),
	}
}

func toCell(t *lua.LTable) geom.Cell {
	return geom.Cell{
		X: int32(lua.LVAsNumber(t.RawGetInt(1))),
		Y: int32(lua.LVAsNumber(t.RawGetInt(2))),
		Z: int32(lua.LVAsNumber(t.RawGetInt(3))),
	}
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
