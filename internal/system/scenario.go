package system

import (
	"time"

	coresys "github.com/undergroundpolice/server/internal/core/system"
)

// Ticker is the scripted side of the simulation.
type Ticker interface {
	OnTick(seconds float64)
}

// ScenarioSystem advances the scenario scripts once per tick.
type ScenarioSystem struct {
	scripts Ticker
}

func NewScenarioSystem(scripts Ticker) *ScenarioSystem {
	return &ScenarioSystem{scripts: scripts}
}

func (s *ScenarioSystem) Phase() coresys.Phase { return coresys.PhaseSimulation }

func (s *ScenarioSystem) Update(dt time.Duration) {
	s.scripts.OnTick(dt.Seconds())
}
