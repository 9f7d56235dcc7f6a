package sched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssignsDenseIDsUpToLimit(t *testing.T) {
	s := New(testConfig())
	for i := 0; i < 5; i++ {
		task := mustAdd(t, s, "t", 1, yield)
		assert.Equal(t, i, task.ID)
	}

	task, err := s.Add("extra", 1, yield)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, ErrTaskLimit)
	assert.Len(t, s.Tasks(), 5)
}

func TestAddClampsPriority(t *testing.T) {
	s := New(testConfig())
	low := mustAdd(t, s, "low", -3, yield)
	high := mustAdd(t, s, "high", 1000, yield)

	assert.Equal(t, MinPriority, low.BasePriority)
	assert.Equal(t, MaxPriority, high.BasePriority)
	assert.Equal(t, StateReady, low.Snapshot().State)
	assert.Equal(t, -1, low.Snapshot().WaitEvent)
}

func TestStepWithoutTasksIsIdle(t *testing.T) {
	s := New(testConfig())
	assert.Equal(t, -1, s.Step())
	assert.Equal(t, int64(1), s.Tick())
	assert.Zero(t, s.Journal().Len())
}

func TestHigherPriorityWins(t *testing.T) {
	s := New(testConfig())
	mustAdd(t, s, "urgent", 5, yield)
	mustAdd(t, s, "background", 1, yield)

	assert.Equal(t, []int{0, 0, 0, 0}, drive(t, s, 4))
}

func TestEqualPrioritiesAlternate(t *testing.T) {
	s := New(testConfig())
	mustAdd(t, s, "left", 2, yield)
	mustAdd(t, s, "right", 2, yield)

	picks := drive(t, s, 10)
	for i := 0; i+1 < len(picks); i += 2 {
		assert.ElementsMatch(t, []int{0, 1}, picks[i:i+2], "round %d", i/2)
	}
}

func TestInterruptScenario(t *testing.T) {
	s := New(testConfig())
	mustAdd(t, s, "Task A", 2, yield)
	mustAdd(t, s, "Task B", 3, func(self *Task) { _ = self.Wait(42) })
	mustAdd(t, s, "Task C", 2, yield)

	// B runs once, parks on the event, then A and C take turns
	assert.Equal(t, []int{1, 2, 0, 2, 0}, drive(t, s, 5))
	assert.Equal(t, StateWaitingEvent, s.Tasks()[1].State)

	require.True(t, s.Interrupt().Fire())

	// the latched event wakes B on every pass and it outranks A and C
	assert.Equal(t, []int{1, 1, 1, 1}, drive(t, s, 4))

	woke := entriesOf(s.Journal().Entries(), func(e Entry) bool { return e.Description == "Event received" })
	require.Len(t, woke, 4)
	for _, e := range woke {
		assert.Equal(t, 1, e.TaskID)
		assert.Equal(t, StateReady, e.State)
	}
}

func TestPendingDispatchKeepsCoreBusy(t *testing.T) {
	s := New(testConfig())
	mustAdd(t, s, "a", 2, yield)
	mustAdd(t, s, "b", 2, yield)

	assert.Equal(t, 0, s.Step())
	assert.Equal(t, -1, s.Step())

	running := 0
	for _, snap := range s.Tasks() {
		if snap.State == StateRunning {
			running++
		}
	}
	assert.Equal(t, 1, running)

	_, err := s.Execute(0)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Step())
}

func TestDelayedTaskWakesAtWakeTick(t *testing.T) {
	s := New(testConfig())
	var ranAt []int64
	mustAdd(t, s, "periodic", 2, func(self *Task) {
		ranAt = append(ranAt, self.Tick())
		_ = self.Delay(3)
	})

	picks := drive(t, s, 10)
	assert.Equal(t, []int{0, -1, -1, -1, 0, -1, -1, -1, 0, -1}, picks)
	assert.Equal(t, []int64{1, 5, 9}, ranAt)

	woke := entriesOf(s.Journal().Entries(), func(e Entry) bool { return e.Description == "Woke from delay" })
	require.Len(t, woke, 2)
	assert.Equal(t, int64(4), woke[0].Tick)
	assert.Equal(t, int64(8), woke[1].Tick)
}

func TestZeroDelayWakesNextTick(t *testing.T) {
	s := New(testConfig())
	mustAdd(t, s, "spin", 2, func(self *Task) { _ = self.Delay(-1) })

	assert.Equal(t, []int{0, 0, 0}, drive(t, s, 3))
}

func TestWaitingTaskNeedsMatchingEvent(t *testing.T) {
	s := New(testConfig())
	mustAdd(t, s, "wrong", 2, func(self *Task) { _ = self.Wait(7) })
	mustAdd(t, s, "right", 1, func(self *Task) { _ = self.Wait(42) })

	assert.Equal(t, []int{0, 1, -1, -1}, drive(t, s, 4))

	s.Interrupt().Fire()
	picks := drive(t, s, 4)
	assert.Equal(t, []int{1, 1, 1, 1}, picks)

	wrong := s.Tasks()[0]
	assert.Equal(t, StateWaitingEvent, wrong.State)
	assert.Equal(t, 7, wrong.WaitEvent)
}

func TestAdjustPriority(t *testing.T) {
	s := New(testConfig())
	mustAdd(t, s, "a", 2, yield)
	mustAdd(t, s, "b", 2, yield)

	require.NoError(t, s.AdjustPriority(1, 5))
	assert.Equal(t, []int{1, 1, 1}, drive(t, s, 3))

	require.NoError(t, s.AdjustPriority(1, 0))
	assert.Equal(t, 2, s.Tasks()[1].Priority, "never below base")

	require.NoError(t, s.AdjustPriority(0, 500))
	assert.Equal(t, MaxPriority, s.Tasks()[0].Priority)

	assert.ErrorIs(t, s.AdjustPriority(9, 1), ErrUnknownTask)
}

func TestShutdownTerminatesEverything(t *testing.T) {
	s := New(testConfig())
	mustAdd(t, s, "a", 2, yield)
	mustAdd(t, s, "b", 3, func(self *Task) { _ = self.Sleep() })
	mustAdd(t, s, "c", 2, func(self *Task) { _ = self.Exit() })
	drive(t, s, 4)

	s.Shutdown()
	s.Shutdown()

	for _, snap := range s.Tasks() {
		assert.Equal(t, StateTerminated, snap.State, snap.Name)
	}
	forced := entriesOf(s.Journal().Entries(), func(e Entry) bool { return e.Description == "Forced shutdown" })
	assert.Len(t, forced, 2, "c had already exited")

	assert.Equal(t, -1, s.Step())
	_, err := s.Add("late", 1, yield)
	assert.ErrorIs(t, err, ErrStopped)
	assert.ErrorIs(t, s.Run(t.Context()), ErrStopped)
}

func TestExecuteUnknownTask(t *testing.T) {
	s := New(testConfig())
	_, err := s.Execute(0)
	assert.ErrorIs(t, err, ErrUnknownTask)
}
