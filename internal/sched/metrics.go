package sched

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "rtsim/internal/sched"

var (
	meter  = otel.Meter(instrumentationName)
	tracer = otel.Tracer(instrumentationName)
	logger = otelslog.NewLogger(instrumentationName)

	dispatches     = counter("rtsim.dispatches", "Tasks moved from READY to RUNNING")
	faults         = counter("rtsim.faults", "Tasks terminated by a fault")
	journalDropped = counter("rtsim.journal.dropped", "Journal entries dropped at capacity")
)

func counter(name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name,
		metric.WithDescription(description),
		metric.WithUnit("{count}"))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}
