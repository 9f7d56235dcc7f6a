package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"rtsim/internal/sched"
)

var ganttSymbols = map[sched.State]byte{
	sched.StateReady:        '.',
	sched.StateRunning:      '#',
	sched.StateBlocked:      'b',
	sched.StateDelayed:      'd',
	sched.StateWaitingEvent: 'w',
	sched.StateInterrupted:  'i',
	sched.StateTerminated:   'x',
	sched.StateSleep:        's',
	sched.StateLowPowerMode: 'l',
}

// GanttLegend explains the cell symbols.
const GanttLegend = "# running  . ready  d delayed  w waiting  s sleep  x terminated"

// Gantt renders one row per task and one column per tick. A cell shows the
// state the task ended the tick in, or '#' if it was RUNNING at any point of it.
func Gantt(w io.Writer, entries []sched.Entry) error {
	type row struct {
		name    string
		entries []sched.Entry
	}
	rows := map[int]*row{}
	var width int64
	for _, e := range entries {
		if e.Tick+1 > width {
			width = e.Tick + 1
		}
		if e.System() {
			continue
		}
		r, ok := rows[e.TaskID]
		if !ok {
			r = &row{name: e.TaskName}
			rows[e.TaskID] = r
		}
		r.entries = append(r.entries, e)
	}

	ids := make([]int, 0, len(rows))
	nameWidth := len("tick")
	for id, r := range rows {
		ids = append(ids, id)
		nameWidth = max(nameWidth, len(r.name))
	}
	sort.Ints(ids)

	bw := bufio.NewWriter(w)
	axis := make([]byte, width)
	for i := range axis {
		axis[i] = byte('0' + i%10)
	}
	fmt.Fprintf(bw, "%-*s |%s|\n", nameWidth, "tick", axis)
	for _, id := range ids {
		r := rows[id]
		fmt.Fprintf(bw, "%-*s |%s|\n", nameWidth, r.name, ganttRow(r.entries, width))
	}
	fmt.Fprintf(bw, "%s  %s\n", strings.Repeat(" ", nameWidth), GanttLegend)
	return bw.Flush()
}

func ganttRow(entries []sched.Entry, width int64) []byte {
	cells := make([]byte, width)
	ran := map[int64]bool{}
	cur := sched.StateReady
	var pos int64
	for _, e := range entries {
		for ; pos < e.Tick; pos++ {
			cells[pos] = ganttSymbols[cur]
		}
		cur = e.State
		if cur == sched.StateRunning {
			ran[e.Tick] = true
		}
	}
	for ; pos < width; pos++ {
		cells[pos] = ganttSymbols[cur]
	}
	for tick := range ran {
		cells[tick] = ganttSymbols[sched.StateRunning]
	}
	return cells
}
