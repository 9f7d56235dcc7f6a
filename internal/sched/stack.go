package sched

import "context"

// StackAccountant charges a fixed simulated stack cost per execution.
// Usage is cumulative and never released, so every task that keeps running
// overflows after Budget/Cost executions.
type StackAccountant struct {
	Budget int
	Cost   int
}

// Charge bills one execution to t. When the budget is exceeded the task is
// terminated, a fault is journaled and Charge reports false; the body must
// not run. Caller holds t.mu.
func (a StackAccountant) Charge(t *Task) bool {
	t.stackUsed += a.Cost
	if t.stackUsed <= a.Budget {
		return true
	}
	// RUNNING -> TERMINATED is always legal, the error is impossible here.
	_ = t.setState(StateTerminated, CategoryFault, "Stack Overflow Detected")
	faults.Add(context.Background(), 1)
	return false
}

// Executions is how many bodies a fresh task runs successfully, floor(Budget/Cost).
// The overflow fault comes on dispatch Executions()+1 and that body never runs;
// when Cost divides Budget this equals ceil(Budget/Cost).
func (a StackAccountant) Executions() int {
	if a.Cost <= 0 {
		return -1
	}
	return a.Budget / a.Cost
}
