package job

import (
	"fmt"
	"io"

	"rtsim/internal/sched"
)

// Periodic returns a body that reports in and then delays for the given ticks.
func Periodic(name string, ticks int, out io.Writer) sched.Body {
	return func(self *sched.Task) {
		fmt.Fprintf(out, "[%s] Tick %d\n", name, self.Tick())
		if err := self.Delay(ticks); err != nil {
			fmt.Fprintf(out, "[%s] delay: %v\n", name, err)
		}
	}
}

// DutyCycle returns a body that delays one tick at a time and goes to SLEEP
// the first time it runs on a tick divisible by every.
func DutyCycle(name string, every int64, out io.Writer) sched.Body {
	if every <= 0 {
		every = 1
	}
	return func(self *sched.Task) {
		tick := self.Tick()
		fmt.Fprintf(out, "[%s] Tick %d\n", name, tick)

		var err error
		if tick%every == 0 {
			err = self.Sleep()
		} else {
			err = self.Delay(1)
		}
		if err != nil {
			fmt.Fprintf(out, "[%s] %v\n", name, err)
		}
	}
}

// Spec describes one task to register.
type Spec struct {
	Name     string
	Priority int
	Body     sched.Body
}

// Demo is the classic three-task set: a periodic task and a duty-cycled task
// at priority 2 around an event-driven task at priority 3.
func Demo(eventID int, out io.Writer) []Spec {
	return []Spec{
		{Name: "Task A", Priority: 2, Body: Periodic("Task A", 2, out)},
		{Name: "Task B", Priority: 3, Body: WaitFor("Task B", eventID, out)},
		{Name: "Task C", Priority: 2, Body: DutyCycle("Task C", 4, out)},
	}
}
