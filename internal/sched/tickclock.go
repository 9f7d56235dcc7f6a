// internal/sched/tickclock.go

package sched

import (
	"sync"
	"time"
)

// TickClock paces the scheduler. Ticks are dropped, not queued, when the
// consumer is slow, so a late pass never causes a burst of catch-up passes.
type TickClock struct {
	Ch       chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

// NewTickClock creates a clock but does not start it.
func NewTickClock() *TickClock {
	return &TickClock{
		Ch:   make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
}

// Start begins emitting ticks at the given interval.
func (c *TickClock) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case c.Ch <- struct{}{}:
				default:
				}
			case <-c.stop:
				return
			}
		}
	}()
}

// Stop signals the clock to stop emitting ticks. Safe to call twice.
func (c *TickClock) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}
