package police

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Updater throttles a background work function: at most one run per
// interval, never two at once. Tick is cheap and meant to be called every
// simulation step.
type Updater struct {
	interval time.Duration
	update   func() error
	log      *zap.Logger
	now      func() time.Time

	mu       sync.Mutex // guards lastTick/ticked
	lastTick time.Time
	ticked   bool

	running atomic.Bool
	wg      sync.WaitGroup
}

func NewUpdater(interval time.Duration, update func() error, log *zap.Logger) *Updater {
	return &Updater{
		interval: interval,
		update:   update,
		log:      log,
		now:      time.Now,
	}
}

// Tick launches the work function on a new goroutine when the interval has
// elapsed since the last accepted tick and no run is in flight. It reports
// whether a run was launched. An interval that elapses while a run is in
// flight is dropped, not queued.
func (u *Updater) Tick() bool {
	now := u.now()

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.ticked && now.Sub(u.lastTick) < u.interval {
		return false
	}
	if !u.running.CompareAndSwap(false, true) {
		return false
	}
	u.lastTick = now
	u.ticked = true

	u.wg.Add(1)
	go u.run()
	return true
}

// Running reports whether a run is in flight.
func (u *Updater) Running() bool {
	return u.running.Load()
}

// Wait blocks until the in-flight run, if any, has finished.
func (u *Updater) Wait() {
	u.wg.Wait()
}

func (u *Updater) run() {
	defer u.wg.Done()
	defer u.running.Store(false)
	defer func() {
		if r := recover(); r != nil {
			u.log.Error("background update panicked",
				zap.String("error", fmt.Sprint(r)),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	if err := u.update(); err != nil {
		u.log.Error("background update failed",
			zap.Error(err),
			zap.Stack("stack"),
		)
	}
}
