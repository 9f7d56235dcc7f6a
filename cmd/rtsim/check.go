package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/urfave/cli"

	"rtsim/internal/report"
	"rtsim/internal/sched"
)

func check(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return cli.NewExitError("no journal provided", 2)
	}

	entries, err := report.ReadCSV(fsys, path)
	if err != nil {
		return err
	}

	timelines, err := sched.Replay(entries)
	printTimelines(stdout, timelines)
	if ctx.Bool("gantt") {
		fmt.Fprintln(stdout)
		if gerr := report.Gantt(stdout, entries); gerr != nil {
			return gerr
		}
	}
	if errors.Is(err, sched.ErrIllegalTransition) {
		return cli.NewExitError(err.Error(), 1)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d entries, all transitions legal\n", path, len(entries))
	return nil
}

func printTimelines(w io.Writer, timelines map[int]*sched.Timeline) {
	ids := make([]int, 0, len(timelines))
	for id := range timelines {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		tl := timelines[id]
		states := make([]string, len(tl.States))
		for i, st := range tl.States {
			states[i] = st.String()
		}
		fmt.Fprintf(w, "%04d %-10s runs=%-3d final=%-14s %s\n",
			tl.ID, tl.Name, tl.Count(sched.StateRunning), tl.Last(), strings.Join(states, " > "))
	}
}
