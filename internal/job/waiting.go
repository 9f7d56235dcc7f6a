package job

import (
	"fmt"
	"io"

	"rtsim/internal/sched"
)

// WaitFor returns a body that reports in and then parks until eventID fires.
func WaitFor(name string, eventID int, out io.Writer) sched.Body {
	return func(self *sched.Task) {
		fmt.Fprintf(out, "[%s] Tick %d\n", name, self.Tick())
		if err := self.Wait(eventID); err != nil {
			fmt.Fprintf(out, "[%s] wait: %v\n", name, err)
		}
	}
}
