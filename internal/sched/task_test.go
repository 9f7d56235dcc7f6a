package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestsOutsideBodyAreRejected(t *testing.T) {
	s := New(testConfig())
	task := mustAdd(t, s, "idle", 1, yield)

	assert.ErrorIs(t, task.Delay(1), ErrNotRunning)
	assert.ErrorIs(t, task.Wait(42), ErrNotRunning)
	assert.ErrorIs(t, task.Sleep(), ErrNotRunning)
	assert.ErrorIs(t, task.Exit(), ErrNotRunning)

	// dispatched but not executing its body yet
	require.Equal(t, 0, s.Step())
	assert.ErrorIs(t, task.Sleep(), ErrNotRunning)
	assert.Equal(t, StateRunning, task.Snapshot().State)
}

func TestSecondRequestInBodyIsRejected(t *testing.T) {
	s := New(testConfig())
	var second error
	mustAdd(t, s, "greedy", 1, func(self *Task) {
		_ = self.Delay(2)
		second = self.Wait(42)
	})

	drive(t, s, 1)
	assert.ErrorIs(t, second, ErrNotRunning)

	snap := s.Tasks()[0]
	assert.Equal(t, StateDelayed, snap.State)
	assert.Equal(t, int64(3), snap.WakeTick)
	assert.Equal(t, -1, snap.WaitEvent)
}

func TestSleepIsPermanentUntilShutdown(t *testing.T) {
	s := New(testConfig())
	mustAdd(t, s, "sleepy", 1, func(self *Task) { _ = self.Sleep() })

	assert.Equal(t, []int{0, -1, -1}, drive(t, s, 3))
	s.Interrupt().Fire()
	assert.Equal(t, []int{-1}, drive(t, s, 1))
	assert.Equal(t, StateSleep, s.Tasks()[0].State)
}

func TestExitTerminates(t *testing.T) {
	s := New(testConfig())
	mustAdd(t, s, "once", 1, func(self *Task) { _ = self.Exit() })

	require.Equal(t, 0, s.Step())
	alive, err := s.Execute(0)
	require.NoError(t, err)
	assert.False(t, alive)
	assert.Equal(t, StateTerminated, s.Tasks()[0].State)
	assert.Equal(t, -1, s.Step())
}

func TestPanickingBodyIsTerminated(t *testing.T) {
	s := New(testConfig())
	mustAdd(t, s, "broken", 5, func(*Task) { panic("boom") })
	mustAdd(t, s, "fine", 1, yield)

	require.Equal(t, 0, s.Step())
	alive, err := s.Execute(0)
	require.NoError(t, err)
	assert.False(t, alive)

	faults := entriesOf(s.Journal().Entries(), func(e Entry) bool { return e.Category == CategoryFault })
	require.Len(t, faults, 1)
	assert.Equal(t, "Task Panicked", faults[0].Description)
	assert.Equal(t, StateTerminated, faults[0].State)

	assert.Equal(t, []int{1, 1}, drive(t, s, 2))
}

func TestEveryTransitionIsJournaled(t *testing.T) {
	s := New(testConfig())
	mustAdd(t, s, "A", 2, func(self *Task) { _ = self.Delay(1) })
	drive(t, s, 3)

	var got []string
	for _, e := range s.Journal().Entries() {
		got = append(got, e.Description+"/"+e.State.String())
	}
	assert.Equal(t, []string{
		"Dispatched/RUNNING",
		"Started Execution/RUNNING",
		"Delayed/DELAYED",
		"Woke from delay/READY",
		"Dispatched/RUNNING",
		"Started Execution/RUNNING",
		"Delayed/DELAYED",
	}, got)
}
