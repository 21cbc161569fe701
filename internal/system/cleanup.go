package system

import (
	"time"

	coresys "github.com/undergroundpolice/server/internal/core/system"
	"github.com/undergroundpolice/server/internal/world"
	"go.uber.org/zap"
)

// CleanupSystem flushes the deferred structure destruction queue at tick end.
// Phase Cleanup.
type CleanupSystem struct {
	world *world.State
	log   *zap.Logger
}

func NewCleanupSystem(ws *world.State, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: ws, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	if n := s.world.FlushDestroyed(); n > 0 {
		s.log.Debug("structures destroyed", zap.Int("count", n))
	}
}
