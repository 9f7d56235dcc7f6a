package sched

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testConfig is the default setup with a stack budget large enough to never
// overflow during short scenarios.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.StackBudget = 1 << 20
	cfg.JournalCapacity = 10000
	return cfg
}

// drive steps n ticks, executing whatever each tick dispatched, and returns
// the dispatched ids (-1 for idle ticks).
func drive(t *testing.T, s *Scheduler, n int) []int {
	t.Helper()
	picks := make([]int, 0, n)
	for i := 0; i < n; i++ {
		id := s.Step()
		picks = append(picks, id)
		if id >= 0 {
			_, err := s.Execute(id)
			require.NoError(t, err)
		}
	}
	return picks
}

func yield(*Task) {}

func mustAdd(t *testing.T, s *Scheduler, name string, priority int, body Body) *Task {
	t.Helper()
	task, err := s.Add(name, priority, body)
	require.NoError(t, err)
	return task
}

func entriesOf(entries []Entry, keep func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
