package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const instrumentationName = "rtsim/cmd"

var logger = otelslog.NewLogger(instrumentationName)

// Logger returns the command-level logger tagged with the run id.
func Logger(runID string) *slog.Logger {
	return logger.With("run_id", runID)
}

func Log(content string, level slog.Level) {
	logger.Log(context.Background(), level, content)
}
