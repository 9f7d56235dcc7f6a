package sched

import "fmt"

// Timeline is the state sequence one task went through, starting at READY.
type Timeline struct {
	ID     int
	Name   string
	States []State
}

// Replay rebuilds every task's state sequence from the journal in insertion
// order. Entries of one task are always written under that task's lock, so
// their order is causal even where ticks of different tasks interleave.
// It fails on the first transition the state machine does not allow.
func Replay(entries []Entry) (map[int]*Timeline, error) {
	timelines := make(map[int]*Timeline)
	for i, e := range entries {
		if e.System() {
			continue
		}
		tl, ok := timelines[e.TaskID]
		if !ok {
			tl = &Timeline{ID: e.TaskID, Name: e.TaskName, States: []State{StateReady}}
			timelines[e.TaskID] = tl
		}

		prev := tl.States[len(tl.States)-1]
		if e.State == prev {
			continue
		}
		if !CanTransition(prev, e.State) {
			return timelines, fmt.Errorf("entry %d (tick %d, task %d %q, %q) %s -> %s: %w",
				i, e.Tick, e.TaskID, e.TaskName, e.Description, prev, e.State, ErrIllegalTransition)
		}
		tl.States = append(tl.States, e.State)
	}
	return timelines, nil
}

// Last is the final replayed state.
func (tl *Timeline) Last() State { return tl.States[len(tl.States)-1] }

// Count reports how many times the timeline entered st.
func (tl *Timeline) Count(st State) int {
	n := 0
	for _, s := range tl.States {
		if s == st {
			n++
		}
	}
	return n
}
