package sched

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// EventFlag is the latched external event. Once set it stays set.
type EventFlag struct {
	id    int
	fired atomic.Bool
	once  sync.Once
}

func NewEventFlag(id int) *EventFlag { return &EventFlag{id: id} }

// ID is the identifier carried by the event.
func (f *EventFlag) ID() int { return f.id }

// Fired reports whether the event has been raised.
func (f *EventFlag) Fired() bool { return f.fired.Load() }

// Matches reports whether a task waiting for eventID may wake.
func (f *EventFlag) Matches(eventID int) bool { return f.Fired() && f.id == eventID }

// Interrupt raises one external event after a fixed delay.
type Interrupt struct {
	delay   time.Duration
	flag    *EventFlag
	journal *Journal
}

func NewInterrupt(delay time.Duration, flag *EventFlag, j *Journal) *Interrupt {
	return &Interrupt{delay: delay, flag: flag, journal: j}
}

// Run waits for the delay and fires. Cancelling ctx first means it never fires.
func (i *Interrupt) Run(ctx context.Context) {
	timer := time.NewTimer(i.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
		i.Fire()
	}
}

// Fire latches the flag and journals the event. Only the first call has any
// effect; it reports whether this call was the one that fired.
func (i *Interrupt) Fire() bool {
	fired := false
	i.flag.once.Do(func() {
		i.flag.fired.Store(true)
		i.journal.Record(CategoryEvent, NoTask, SystemName, "External Event Triggered", StateInterrupted)
		fired = true
	})
	return fired
}
