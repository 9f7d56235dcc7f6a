package main

import "github.com/urfave/cli"

var (
	configPath    string
	durationMS    int
	csvPath       string
	htmlPath      string
	telemetryPath string
	showProgress  bool
	quiet         bool
)

var runFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "config, c",
		Usage:       "path of the YAML configuration (defaults are used if missing)",
		EnvVar:      "RTSIM_CONFIG",
		Value:       "config.yml",
		Destination: &configPath,
	},
	cli.IntFlag{
		Name:        "duration, d",
		Usage:       "simulation length in milliseconds, overrides duration_ms",
		EnvVar:      "RTSIM_DURATION_MS",
		Destination: &durationMS,
	},
	cli.StringFlag{
		Name:        "csv",
		Usage:       "where to write the CSV journal",
		EnvVar:      "RTSIM_CSV",
		Value:       "task_log.csv",
		Destination: &csvPath,
	},
	cli.StringFlag{
		Name:        "html",
		Usage:       "where to write the HTML journal",
		EnvVar:      "RTSIM_HTML",
		Value:       "task_log.html",
		Destination: &htmlPath,
	},
	cli.StringFlag{
		Name:        "telemetry, t",
		Usage:       "file receiving OpenTelemetry logs, metrics and traces (discarded if empty)",
		EnvVar:      "RTSIM_TELEMETRY",
		Destination: &telemetryPath,
	},
	cli.BoolFlag{
		Name:        "progress, p",
		Usage:       "show a tick progress bar instead of task output",
		Destination: &showProgress,
	},
	cli.BoolFlag{
		Name:        "quiet, q",
		Usage:       "suppress task output",
		Destination: &quiet,
	},
}

var checkFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "gantt, g",
		Usage: "also draw a per-tick timeline of every task",
	},
}
