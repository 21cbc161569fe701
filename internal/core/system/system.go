package system

import "time"

// Phase defines execution ordering within a single simulation step.
type Phase int

const (
	PhaseBeforeSimulation Phase = iota // 0: watchers, throttled background scans
	PhaseSimulation                    // 1: scripted scenario, world mutation
	PhaseAfterSimulation               // 2: bookkeeping
	PhaseCleanup                       // 3: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseBeforeSimulation:
		return "before_simulation"
	case PhaseSimulation:
		return "simulation"
	case PhaseAfterSimulation:
		return "after_simulation"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every host system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
