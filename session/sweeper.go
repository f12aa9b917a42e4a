package session

import (
	"sync"
	"time"

	"github.com/glyphwatch/clnp/logger"
)

// sweepInterval is the background eviction cadence from spec.md §5.
const sweepInterval = 30 * time.Second

// Sweeper periodically evicts expired/used-and-stale challenges from a
// Store. Its Start/Stop idiom is adapted from the teacher's
// scheduler.Scheduler: a single background goroutine gated by a stop
// channel and a sync.Once so Stop is safe to call more than once.
type Sweeper struct {
	store  *Store
	log    *logger.Logger
	stopCh chan struct{}
	once   sync.Once
}

// NewSweeper creates a Sweeper over store. Call Start to begin the
// background loop.
func NewSweeper(store *Store, log *logger.Logger) *Sweeper {
	return &Sweeper{store: store, log: log, stopCh: make(chan struct{})}
}

// Start launches the background eviction loop. Non-blocking.
func (sw *Sweeper) Start() {
	go sw.loop()
}

func (sw *Sweeper) loop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-sw.stopCh:
			return
		case now := <-ticker.C:
			if n := sw.store.Sweep(now); n > 0 {
				sw.log.Debugf("sweeper: evicted %d challenge(s)", n)
			}
		}
	}
}

// Stop signals the background loop to exit. Idempotent.
func (sw *Sweeper) Stop() {
	sw.once.Do(func() {
		close(sw.stopCh)
	})
}
