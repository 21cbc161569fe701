package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/undergroundpolice/server/internal/config"
	"github.com/undergroundpolice/server/internal/police"
	"github.com/undergroundpolice/server/internal/world"
	"go.uber.org/zap/zaptest"
)

type idleScripts struct{}

func (idleScripts) OnTick(float64) {}

func TestNewRunnerSkipsDisabledPolice(t *testing.T) {
	log := zaptest.NewLogger(t)

	replica := world.NewState(false)
	pol := police.New(replica, log)
	assert.False(t, pol.Load())
	assert.Equal(t, 2, newRunner(replica, pol, idleScripts{}, log).Len())

	assert.Equal(t, 2, newRunner(replica, nil, idleScripts{}, log).Len())

	primary := world.NewState(true)
	pol = police.New(primary, log)
	assert.True(t, pol.Load())
	defer pol.Unload()
	assert.Equal(t, 3, newRunner(primary, pol, idleScripts{}, log).Len())
}

func TestNewLoggerFormats(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		log, err := newLogger(config.LoggingConfig{Level: "debug", Format: format})
		assert.NoError(t, err, format)
		assert.NotNil(t, log)
	}

	log, err := newLogger(config.LoggingConfig{Level: "nonsense", Format: "console"})
	assert.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1), "unknown level falls back to info")
}
