package sched

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

const (
	MinPriority = 0
	MaxPriority = 99 // larger is more urgent
)

var (
	ErrTaskLimit         = errors.New("task limit reached")
	ErrNotRunning        = errors.New("task is not running")
	ErrIllegalTransition = errors.New("illegal state transition")
	ErrUnknownTask       = errors.New("unknown task")
)

// Body is the task logic. It runs synchronously on the task's runner with the
// task lock held and receives its own task so it can request transitions.
type Body func(self *Task)

// Task represents one schedulable task unit.
type Task struct {
	ID           int
	Name         string
	BasePriority int

	mu              sync.Mutex // guards everything below
	priority        int        // current priority, never below BasePriority
	state           State
	wakeTick        int64 // only meaningful while DELAYED
	waitEvent       int   // only meaningful while WAITING_EVENT, -1 otherwise
	stackUsed       int
	criticalSection int // inert, reported only

	inBody  atomic.Bool
	body    Body
	wake    chan struct{} // dispatch signal for the runner
	journal *Journal
	now     func() int64
}

// Snapshot is a consistent copy of a task's mutable fields.
type Snapshot struct {
	ID              int
	Name            string
	BasePriority    int
	Priority        int
	State           State
	WakeTick        int64
	WaitEvent       int
	StackUsed       int
	CriticalSection int
}

// newTask creates a READY task with its priority clamped into the legal range.
func newTask(id int, name string, priority int, body Body, j *Journal, now func() int64) *Task {
	if priority < MinPriority {
		priority = MinPriority
	} else if priority > MaxPriority {
		priority = MaxPriority
	}
	if body == nil {
		body = func(*Task) {}
	}

	return &Task{
		ID:           id,
		Name:         name,
		BasePriority: priority,
		priority:     priority,
		state:        StateReady,
		waitEvent:    -1,
		body:         body,
		wake:         make(chan struct{}, 1),
		journal:      j,
		now:          now,
	}
}

// Delay parks the running task for the given number of ticks.
// Only valid from inside the task's own body.
func (t *Task) Delay(ticks int) error {
	if err := t.requireRunning(); err != nil {
		return err
	}
	if ticks < 0 {
		ticks = 0
	}
	t.wakeTick = t.now() + int64(ticks)
	return t.setState(StateDelayed, CategoryTask, "Delayed")
}

// Wait parks the running task until the external event with the given id fires.
func (t *Task) Wait(eventID int) error {
	if err := t.requireRunning(); err != nil {
		return err
	}
	t.waitEvent = eventID
	return t.setState(StateWaitingEvent, CategoryTask, "Waiting for event")
}

// Sleep suspends the running task. Nothing wakes a sleeping task; it stays
// there until forced shutdown.
func (t *Task) Sleep() error {
	if err := t.requireRunning(); err != nil {
		return err
	}
	return t.setState(StateSleep, CategoryTask, "Entering SLEEP mode")
}

// Exit terminates the running task voluntarily.
func (t *Task) Exit() error {
	if err := t.requireRunning(); err != nil {
		return err
	}
	return t.setState(StateTerminated, CategoryTask, "Exited")
}

// Tick exposes the scheduler tick to task bodies.
func (t *Task) Tick() int64 { return t.now() }

// Snapshot copies the task's fields under its lock. Do not call it from the
// task's own body.
func (t *Task) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Task) snapshotLocked() Snapshot {
	return Snapshot{
		ID:              t.ID,
		Name:            t.Name,
		BasePriority:    t.BasePriority,
		Priority:        t.priority,
		State:           t.state,
		WakeTick:        t.wakeTick,
		WaitEvent:       t.waitEvent,
		StackUsed:       t.stackUsed,
		CriticalSection: t.criticalSection,
	}
}

func (t *Task) requireRunning() error {
	if !t.inBody.Load() || t.state != StateRunning {
		return fmt.Errorf("task %d (%s): %w", t.ID, t.Name, ErrNotRunning)
	}
	return nil
}

// setState moves the task and journals the destination state.
// Caller holds t.mu.
func (t *Task) setState(to State, cat Category, desc string) error {
	if !CanTransition(t.state, to) {
		return fmt.Errorf("task %d (%s) %s -> %s: %w", t.ID, t.Name, t.state, to, ErrIllegalTransition)
	}
	t.state = to
	if to != StateDelayed {
		t.wakeTick = 0
	}
	if to != StateWaitingEvent {
		t.waitEvent = -1
	}
	t.record(cat, desc)
	return nil
}

// record journals an entry with the task's current state. Caller holds t.mu.
func (t *Task) record(cat Category, desc string) {
	t.journal.Record(cat, t.ID, t.Name, desc, t.state)
}

// signal wakes the runner without blocking; one pending signal is enough.
func (t *Task) signal() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}
