package data

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/undergroundpolice/server/internal/geom"
	"github.com/undergroundpolice/server/internal/world"
	"gopkg.in/yaml.v3"
)

// Scenario is the initial world: terrain volumes and the structures placed
// among them.
type Scenario struct {
	Spheres    []SphereEntry    `yaml:"spheres"`
	Boxes      []BoxEntry       `yaml:"boxes"`
	Structures []StructureEntry `yaml:"structures"`
}

type SphereEntry struct {
	Name   string     `yaml:"name"`
	Center [3]float64 `yaml:"center"`
	Radius float64    `yaml:"radius"`
}

type BoxEntry struct {
	Name string     `yaml:"name"`
	Min  [3]float64 `yaml:"min"`
	Max  [3]float64 `yaml:"max"`
}

// StructureEntry is a structure and its components. Orientation is yaw,
// pitch and roll in degrees. Physics defaults to true.
type StructureEntry struct {
	Name        string           `yaml:"name"`
	Position    [3]float64       `yaml:"position"`
	Orientation [3]float64       `yaml:"orientation"`
	CellSize    float64          `yaml:"cell_size"`
	Physics     *bool            `yaml:"physics"`
	Components  []ComponentEntry `yaml:"components"`
}

type ComponentEntry struct {
	Type string    `yaml:"type"`
	Min  [3]int32  `yaml:"min"`
	Max  *[3]int32 `yaml:"max"` // defaults to min
}

// LoadScenario loads a world yaml file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := validateDoc("world.schema.json", doc); err != nil {
		return nil, fmt.Errorf("validate scenario %s: %w", path, err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &sc, nil
}

func vec(a [3]float64) mgl64.Vec3 { return mgl64.Vec3{a[0], a[1], a[2]} }

func cell(a [3]int32) geom.Cell { return geom.Cell{X: a[0], Y: a[1], Z: a[2]} }

// Spec converts the entry into a spawn request. Cell size defaults to the
// large-grid size.
func (e StructureEntry) Spec() world.StructureSpec {
	cs := e.CellSize
	if cs == 0 {
		cs = 2.5
	}
	physics := true
	if e.Physics != nil {
		physics = *e.Physics
	}
	return world.StructureSpec{
		Name:        e.Name,
		Position:    vec(e.Position),
		Orientation: geom.Orientation{Yaw: e.Orientation[0], Pitch: e.Orientation[1], Roll: e.Orientation[2]},
		CellSize:    cs,
		Physics:     physics,
	}
}

// Apply adds the scenario's terrain and structures to ws, resolving block
// types through blocks.
func (sc *Scenario) Apply(ws *world.State, blocks *BlockTable) error {
	for _, s := range sc.Spheres {
		if s.Radius <= 0 {
			return fmt.Errorf("sphere %s: radius must be positive", s.Name)
		}
		ws.AddTerrain(world.NewVoxelSphere(s.Name, vec(s.Center), s.Radius))
	}
	for _, b := range sc.Boxes {
		box := geom.Box{Min: vec(b.Min), Max: vec(b.Max)}
		if !box.Valid() {
			return fmt.Errorf("box %s: min %v exceeds max %v", b.Name, b.Min, b.Max)
		}
		ws.AddTerrain(world.NewVoxelBox(b.Name, box))
	}
	for _, e := range sc.Structures {
		st, err := ws.SpawnStructure(e.Spec())
		if err != nil {
			return err
		}
		for _, c := range e.Components {
			bt, ok := blocks.Lookup(c.Type)
			if !ok {
				return fmt.Errorf("structure %s: unknown block type %q", e.Name, c.Type)
			}
			max := c.Min
			if c.Max != nil {
				max = *c.Max
			}
			if _, err := st.Place(bt, cell(c.Min), cell(max)); err != nil {
				return err
			}
		}
	}
	return nil
}
