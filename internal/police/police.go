// Package police removes prohibited components buried in terrain.
//
// The host announces structures and components through callbacks; they are
// queued and processed by a throttled background pass at most once every
// UpdateInterval. A component is removed when its body advertises a
// prohibited capability (beacon, antenna, weapon, decoy) and at least one
// corner of its box lies inside a terrain volume.
package police

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/undergroundpolice/server/internal/core/ecs"
	coresys "github.com/undergroundpolice/server/internal/core/system"
	"github.com/undergroundpolice/server/internal/host"
	"go.uber.org/zap"
)

// UpdateInterval is the minimum time between two passes.
const UpdateInterval = 5 * time.Second

// Stats are cumulative counters across all passes.
type Stats struct {
	Passes     uint64
	Structures uint64
	Components uint64
	Removed    uint64
}

// Police ties intake, throttling, classification and containment together.
type Police struct {
	host    host.Host
	log     *zap.Logger
	updater *Updater
	tester  *Tester

	addedStructures Queue[host.Structure]
	addedComponents Queue[host.Component]

	// pass-local scratch, reset after every use
	tmpStructures []host.Structure
	tmpComponents []host.Component
	tmpBlocks     []host.Component

	mu         sync.Mutex
	structSubs map[ecs.EntityID]func()
	entitySubs []func()
	enabled    bool

	passes     atomic.Uint64
	structures atomic.Uint64
	components atomic.Uint64
	removed    atomic.Uint64
}

func New(h host.Host, log *zap.Logger) *Police {
	p := &Police{
		host:       h,
		log:        log.Named("police"),
		tester:     NewTester(h),
		structSubs: make(map[ecs.EntityID]func()),
	}
	p.updater = NewUpdater(UpdateInterval, p.update, p.log)
	return p
}

// Load subscribes to the host's entity feed. Non-authoritative instances
// stay disabled: they never subscribe and Tick does nothing.
func (p *Police) Load() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return true
	}
	if !p.host.IsAuthoritative() {
		p.log.Info("not authoritative, underground police disabled")
		return false
	}
	p.entitySubs = append(p.entitySubs,
		p.host.OnEntityAdded(p.OnEntityAdded),
		p.host.OnEntityRemoved(p.OnEntityRemoved),
	)
	p.enabled = true
	p.log.Info("underground police enabled", zap.Duration("interval", UpdateInterval))
	return true
}

// Unload drops every host subscription and waits for an in-flight pass.
func (p *Police) Unload() {
	p.mu.Lock()
	subs := p.entitySubs
	p.entitySubs = nil
	for id, unsub := range p.structSubs {
		unsub()
		delete(p.structSubs, id)
	}
	p.enabled = false
	p.mu.Unlock()

	for _, unsub := range subs {
		unsub()
	}
	p.updater.Wait()
}

// Enabled reports whether Load succeeded.
func (p *Police) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// OnEntityAdded accepts any host entity and keeps only structures.
func (p *Police) OnEntityAdded(e host.Entity) {
	if s, ok := e.(host.Structure); ok {
		p.OnStructureAdded(s)
	}
}

// OnEntityRemoved accepts any host entity and keeps only structures.
func (p *Police) OnEntityRemoved(e host.Entity) {
	if s, ok := e.(host.Structure); ok {
		p.OnStructureRemoved(s)
	}
}

// OnStructureAdded queues s and watches it for components placed later.
// Structures without physics are queued too and skipped during the pass.
func (p *Police) OnStructureAdded(s host.Structure) {
	p.addedStructures.Enqueue(s)

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.structSubs[s.ID()]; ok {
		return
	}
	p.structSubs[s.ID()] = s.OnComponentAdded(p.OnComponentAdded)
}

// OnStructureRemoved stops watching s.
func (p *Police) OnStructureRemoved(s host.Structure) {
	p.mu.Lock()
	unsub, ok := p.structSubs[s.ID()]
	delete(p.structSubs, s.ID())
	p.mu.Unlock()
	if ok {
		unsub()
	}
}

// OnComponentAdded queues c.
func (p *Police) OnComponentAdded(c host.Component) {
	p.addedComponents.Enqueue(c)
}

// Tick is called every simulation step; see Updater.Tick. The enabled check
// and the launch happen under p.mu, so a pass started here is always visible
// to a concurrent Unload's Wait.
func (p *Police) Tick() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return false
	}
	return p.updater.Tick()
}

// Wait blocks until the in-flight pass, if any, has finished.
func (p *Police) Wait() {
	p.updater.Wait()
}

func (p *Police) Phase() coresys.Phase { return coresys.PhaseBeforeSimulation }

func (p *Police) Update(_ time.Duration) {
	p.Tick()
}

// Stats returns cumulative counters.
func (p *Police) Stats() Stats {
	return Stats{
		Passes:     p.passes.Load(),
		Structures: p.structures.Load(),
		Components: p.components.Load(),
		Removed:    p.removed.Load(),
	}
}

// watching reports how many structures have a component subscription.
func (p *Police) watching() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.structSubs)
}

// update is one pass: drain both queues and process every entry.
func (p *Police) update() error {
	start := time.Now()
	pass := p.log.With(zap.String("pass", uuid.NewString()))
	p.passes.Add(1)
	removedBefore := p.removed.Load()

	structures := p.drainStructures(pass)
	components := p.drainComponents(pass)

	pass.Debug("pass complete",
		zap.Int("structures", structures),
		zap.Int("components", components),
		zap.Uint64("removed", p.removed.Load()-removedBefore),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func (p *Police) drainStructures(log *zap.Logger) int {
	defer reset(&p.tmpStructures)
	p.tmpStructures = p.addedStructures.DrainInto(p.tmpStructures)
	for _, s := range p.tmpStructures {
		p.processStructure(log, s)
	}
	return len(p.tmpStructures)
}

func (p *Police) drainComponents(log *zap.Logger) int {
	defer reset(&p.tmpComponents)
	p.tmpComponents = p.addedComponents.DrainInto(p.tmpComponents)
	for _, c := range p.tmpComponents {
		p.processComponent(log, c)
	}
	return len(p.tmpComponents)
}

func (p *Police) processStructure(log *zap.Logger, s host.Structure) {
	if !s.HasPhysics() {
		return // projection
	}
	if !p.tester.StructureInTerrain(s) {
		return
	}
	p.structures.Add(1)

	defer reset(&p.tmpBlocks)
	p.tmpBlocks = s.Components(p.tmpBlocks)
	for _, c := range p.tmpBlocks {
		p.processComponent(log, c)
	}
}

func (p *Police) processComponent(log *zap.Logger, c host.Component) {
	if c.Closed() {
		return
	}
	body := c.Body()
	if !IsProhibitedUnderground(body) {
		return
	}
	p.components.Add(1)

	s := c.Structure()
	log.Info("prohibited component found",
		zap.String("type", body.TypeName()),
		zap.Uint64("component", uint64(c.ID())),
		zap.String("structure", s.Name()),
	)

	if !p.tester.ComponentInTerrain(c) {
		return
	}
	if s.RemoveComponent(c) {
		p.removed.Add(1)
		log.Info("removed buried component",
			zap.String("type", body.TypeName()),
			zap.Uint64("component", uint64(c.ID())),
			zap.String("structure", s.Name()),
		)
	}
}

// reset empties a scratch slice, dropping references but keeping capacity.
func reset[T any](s *[]T) {
	clear(*s)
	*s = (*s)[:0]
}
