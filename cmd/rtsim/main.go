package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

const version = "0.1.0"

var (
	fsys   afero.Fs  = afero.NewOsFs()
	stdout io.Writer = os.Stdout
)

func main() {
	// .env is optional, flags fall back to their defaults
	_ = godotenv.Load()

	app := cli.App{
		Name:      "rtsim",
		Usage:     "A preemptive real-time scheduler simulator.",
		Version:   version,
		UsageText: "rtsim <command> [arguments...]",
		Commands: []cli.Command{
			{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "run the demo task set and export the journal",
				Action:  run,
				Flags:   runFlags,
			},
			{
				Name:      "check",
				Aliases:   []string{"c"},
				Usage:     "replay a CSV journal and verify every transition",
				ArgsUsage: "<task_log.csv>",
				Action:    check,
				Flags:     checkFlags,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
