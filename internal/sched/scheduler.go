// internal/sched/scheduler.go

package sched

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/emirpasic/gods/trees/redblacktree"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrStopped        = errors.New("scheduler stopped")
	ErrAlreadyRunning = errors.New("scheduler already running")
)

// Scheduler picks one task per tick: highest current priority wins and ties go
// to the first task in rotation order after the previously selected one.
type Scheduler struct {
	// Scheduler-related
	mu      sync.Mutex   // global scheduling lock, taken before any task lock
	cfg     Config       // tick, poll and capacity settings
	tasks   []*Task      // dense by id
	cursor  int          // index of the last selected task, -1 before the first pick
	tick    atomic.Int64 // system tick, advanced after each selection pass
	running bool         // runners are live
	stopped bool         // Shutdown has run

	flag      *EventFlag
	interrupt *Interrupt
	stack     StackAccountant
	journal   *Journal

	done         chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup

	logger *slog.Logger
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithLogger replaces the default OpenTelemetry-bridged logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a new Scheduler instance with the given configuration.
func New(cfg Config, opts ...Option) *Scheduler {
	cfg = cfg.sanitize()
	s := &Scheduler{
		cfg:    cfg,
		tasks:  make([]*Task, 0, cfg.MaxTasks),
		cursor: -1,
		flag:   NewEventFlag(cfg.EventID),
		stack:  StackAccountant{Budget: cfg.StackBudget, Cost: cfg.StackCost},
		done:   make(chan struct{}),
		logger: logger,
	}
	s.journal = NewJournal(cfg.JournalCapacity, s.Tick)
	s.interrupt = NewInterrupt(cfg.InterruptDelay(), s.flag, s.journal)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a new READY task. Ids are assigned densely from 0.
func (s *Scheduler) Add(name string, priority int, body Body) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, ErrStopped
	}
	if len(s.tasks) >= s.cfg.MaxTasks {
		s.logger.Warn("task rejected", "name", name, "max_tasks", s.cfg.MaxTasks)
		return nil, fmt.Errorf("add %q: %w (%d)", name, ErrTaskLimit, s.cfg.MaxTasks)
	}

	t := newTask(len(s.tasks), name, priority, body, s.journal, s.Tick)
	s.tasks = append(s.tasks, t)
	if s.running {
		s.startRunner(t)
	}
	s.logger.Debug("task created", "id", t.ID, "name", t.Name, "priority", t.BasePriority)
	return t, nil
}

// AdjustPriority changes a task's current priority. It never goes below the
// task's base priority; there is no inheritance protocol behind it.
// Must not be called from inside a task body.
func (s *Scheduler) AdjustPriority(id int, priority int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 0 || id >= len(s.tasks) {
		return fmt.Errorf("adjust priority of %d: %w", id, ErrUnknownTask)
	}
	t := s.tasks[id]
	if priority < t.BasePriority {
		priority = t.BasePriority
	} else if priority > MaxPriority {
		priority = MaxPriority
	}

	t.mu.Lock()
	t.priority = priority
	t.mu.Unlock()
	return nil
}

// Run starts every runner, the interrupt source and the tick loop, and blocks
// until ctx ends. It always finishes with Shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.stopped:
		s.mu.Unlock()
		return ErrStopped
	case s.running:
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	for _, t := range s.tasks {
		s.startRunner(t)
	}
	n := len(s.tasks)
	s.mu.Unlock()

	ctx, span := tracer.Start(ctx, "scheduler.run")
	defer span.End()

	irqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	irqDone := make(chan struct{})
	go func() {
		defer close(irqDone)
		s.interrupt.Run(irqCtx)
	}()

	clock := NewTickClock()
	clock.Start(s.cfg.Tick())
	defer clock.Stop()

	s.logger.Info("scheduler started", "tasks", n, "tick", s.cfg.Tick())
	for {
		select {
		case <-ctx.Done():
			// join the interrupt so no EVENT lands after the forced shutdown
			cancel()
			<-irqDone
			s.Shutdown()
			span.SetAttributes(
				attribute.Int64("rtsim.ticks", s.Tick()),
				attribute.Int("rtsim.journal.entries", s.journal.Len()),
			)
			s.logger.Info("scheduler stopped", "ticks", s.Tick(), "journal", s.journal.Len(), "dropped", s.journal.Dropped())
			return nil
		case <-clock.Ch:
			s.Step()
		}
	}
}

// Step runs one selection pass and advances the tick. It returns the id of the
// dispatched task or -1 when nothing was dispatched.
func (s *Scheduler) Step() int {
	s.mu.Lock()
	selected := s.selectLocked()
	s.mu.Unlock()

	s.tick.Add(1)
	return selected
}

func (s *Scheduler) selectLocked() int {
	n := len(s.tasks)
	if n == 0 || s.stopped {
		return -1
	}
	now := s.tick.Load()

	// READY tasks ordered by (priority desc, rotation position asc)
	ready := redblacktree.NewWith(cmp)
	busy := false
	for i := 1; i <= n; i++ {
		t := s.tasks[(s.cursor+i)%n]
		t.mu.Lock()
		s.wakeLocked(t, now)
		switch t.state {
		case StateReady:
			ready.Put(nodeKey{priority: t.priority, order: i}, t)
		case StateRunning:
			busy = true
		}
		t.mu.Unlock()
	}

	// the previous dispatch has not been consumed yet, the core is busy
	if busy {
		return -1
	}
	node := ready.Left()
	if node == nil {
		return -1
	}

	t := node.Value.(*Task)
	t.mu.Lock()
	err := t.setState(StateRunning, CategoryTask, "Dispatched")
	t.mu.Unlock()
	if err != nil {
		return -1
	}

	s.cursor = t.ID
	dispatches.Add(context.Background(), 1)
	t.signal()
	return t.ID
}

// wakeLocked applies the autonomous wake transitions. Caller holds t.mu.
func (s *Scheduler) wakeLocked(t *Task, now int64) {
	switch {
	case t.state == StateDelayed && now >= t.wakeTick:
		_ = t.setState(StateReady, CategoryTask, "Woke from delay")
	case t.state == StateWaitingEvent && s.flag.Matches(t.waitEvent):
		_ = t.setState(StateReady, CategoryTask, "Event received")
	}
}

// Shutdown terminates every task in index order and waits for the runners.
// Must not be called from inside a task body.
func (s *Scheduler) Shutdown() {
	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		for _, t := range s.tasks {
			t.mu.Lock()
			if t.state != StateTerminated {
				_ = t.setState(StateTerminated, CategoryTask, "Forced shutdown")
			}
			t.mu.Unlock()
		}
		s.stopped = true
		close(s.done)
		s.mu.Unlock()

		s.wg.Wait()
	})
}

// Tick returns the current system tick.
func (s *Scheduler) Tick() int64 { return s.tick.Load() }

func (s *Scheduler) Journal() *Journal { return s.journal }

func (s *Scheduler) Flag() *EventFlag { return s.flag }

func (s *Scheduler) Interrupt() *Interrupt { return s.interrupt }

func (s *Scheduler) Stack() StackAccountant { return s.stack }

// Tasks snapshots every task in id order. Must not be called from inside a
// task body.
func (s *Scheduler) Tasks() []Snapshot {
	s.mu.Lock()
	tasks := append([]*Task(nil), s.tasks...)
	s.mu.Unlock()

	out := make([]Snapshot, len(tasks))
	for i, t := range tasks {
		out[i] = t.Snapshot()
	}
	return out
}

// nodeKey is used as a key in the red-black tree.
type nodeKey struct {
	priority int
	order    int // position in this pass's rotation, 1-based
}

// cmp implements the Comparator for the red-black tree: higher priority first,
// then earlier rotation position.
func cmp(a, b any) int {
	ka, kb := a.(nodeKey), b.(nodeKey)
	switch {
	case ka.priority > kb.priority:
		return -1
	case ka.priority < kb.priority:
		return 1
	case ka.order < kb.order:
		return -1
	case ka.order > kb.order:
		return 1
	default:
		return 0
	}
}
