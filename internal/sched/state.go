// internal/sched/state.go

package sched

import "strings"

// State is the lifecycle state of a task.
type State int

const (
	StateReady State = iota
	StateRunning
	StateBlocked
	StateDelayed
	StateWaitingEvent
	StateInterrupted
	StateTerminated
	StateSleep
	StateLowPowerMode
)

var stateNames = map[State]string{
	StateReady:        "READY",
	StateRunning:      "RUNNING",
	StateBlocked:      "BLOCKED",
	StateDelayed:      "DELAYED",
	StateWaitingEvent: "WAITING_EVENT",
	StateInterrupted:  "INTERRUPTED",
	StateTerminated:   "TERMINATED",
	StateSleep:        "SLEEP",
	StateLowPowerMode: "LOW_POWER_MODE",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseState is the inverse of String. Matching ignores case.
func ParseState(name string) (State, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for s, n := range stateNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// CanTransition reports whether the state machine allows from -> to.
// BLOCKED, INTERRUPTED and LOW_POWER_MODE are never entered; they can only
// leave through forced termination.
func CanTransition(from, to State) bool {
	if from == StateTerminated {
		return false
	}
	if to == StateTerminated {
		return true
	}
	switch from {
	case StateReady:
		return to == StateRunning
	case StateRunning:
		switch to {
		case StateReady, StateDelayed, StateWaitingEvent, StateSleep:
			return true
		}
	case StateDelayed, StateWaitingEvent:
		return to == StateReady
	}
	return false
}
