package sched

import (
	"context"
	"fmt"
	"time"
)

// startRunner launches the execution loop for t. Caller holds s.mu.
func (s *Scheduler) startRunner(t *Task) {
	s.wg.Add(1)
	go s.runTask(t)
}

// runTask executes t whenever it is dispatched, until it terminates.
func (s *Scheduler) runTask(t *Task) {
	defer s.wg.Done()

	poll := time.NewTicker(s.cfg.Poll())
	defer poll.Stop()

	for s.cycle(t) {
		select {
		case <-t.wake:
		case <-poll.C:
		case <-s.done:
		}
	}
	s.logger.Debug("runner exited", "id", t.ID, "name", t.Name)
}

// Execute runs one runner pass for task id on the calling goroutine, for
// simulations driven by Step instead of Run. It reports false once the task
// is TERMINATED.
func (s *Scheduler) Execute(id int) (bool, error) {
	s.mu.Lock()
	if id < 0 || id >= len(s.tasks) {
		s.mu.Unlock()
		return false, fmt.Errorf("execute %d: %w", id, ErrUnknownTask)
	}
	t := s.tasks[id]
	s.mu.Unlock()
	return s.cycle(t), nil
}

// cycle is one pass of the runner loop. It reports false once the task is
// TERMINATED.
func (s *Scheduler) cycle(t *Task) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case StateTerminated:
		return false
	case StateRunning:
	default:
		return true
	}

	t.record(CategoryTask, "Started Execution")
	if !s.stack.Charge(t) {
		s.logger.Warn("stack overflow", "id", t.ID, "name", t.Name, "used", t.stackUsed, "budget", s.stack.Budget)
		return false
	}

	s.invoke(t)
	if t.state == StateRunning {
		_ = t.setState(StateReady, CategoryTask, "Yielded")
	}
	return t.state != StateTerminated
}

// invoke runs the body; a panic terminates the task instead of the process.
// Caller holds t.mu.
func (s *Scheduler) invoke(t *Task) {
	t.inBody.Store(true)
	defer func() {
		t.inBody.Store(false)
		if r := recover(); r != nil {
			s.logger.Error("task panicked", "id", t.ID, "name", t.Name, "panic", r)
			if t.state != StateTerminated {
				_ = t.setState(StateTerminated, CategoryFault, "Task Panicked")
				faults.Add(context.Background(), 1)
			}
		}
	}()
	t.body(t)
}
