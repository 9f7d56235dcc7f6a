// internal/sched/schedulerEvent.go

package sched

// Category tags a journal entry.
type Category int

const (
	CategoryTask Category = iota
	CategoryFault
	CategoryEvent
)

// NoTask is the task id carried by system-level entries.
const NoTask = -1

// SystemName is the task name carried by system-level entries.
const SystemName = "SYSTEM"

// Entry is one immutable journal record.
type Entry struct {
	Tick        int64
	Category    Category
	TaskID      int
	TaskName    string
	Description string
	State       State
}

func (c Category) String() string {
	switch c {
	case CategoryTask:
		return "TASK"
	case CategoryFault:
		return "FAULT"
	case CategoryEvent:
		return "EVENT"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory is the inverse of String.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "TASK":
		return CategoryTask, true
	case "FAULT":
		return CategoryFault, true
	case "EVENT":
		return CategoryEvent, true
	}
	return 0, false
}

// System reports whether the entry did not originate from a task.
func (e Entry) System() bool { return e.TaskID == NoTask }
