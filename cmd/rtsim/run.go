package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"rtsim/internal/job"
	"rtsim/internal/report"
	"rtsim/internal/sched"
	"rtsim/internal/telemetry"
)

func run(_ *cli.Context) error {
	cfg := sched.Load(configPath)
	if durationMS > 0 {
		cfg.DurationMS = durationMS
	}
	runID := uuid.NewString()

	var sink io.Writer = io.Discard
	if telemetryPath != "" {
		f, err := os.Create(telemetryPath)
		if err != nil {
			return err
		}
		defer f.Close()
		sink = f
	}
	otelShutdown, err := telemetry.Setup(context.Background(), sink)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			fmt.Fprintln(os.Stderr, "telemetry shutdown:", err)
		}
	}()

	log := telemetry.Logger(runID)
	s := sched.New(cfg, sched.WithLogger(log))

	var out io.Writer = os.Stdout
	if quiet || showProgress {
		out = io.Discard
	}
	for _, spec := range job.Demo(cfg.EventID, out) {
		if _, err := s.Add(spec.Name, spec.Priority, spec.Body); err != nil {
			log.Warn("task not registered", "name", spec.Name, "err", err)
		}
	}

	fmt.Fprintf(stdout, "--- RTOS Simulator Starting (run %s) ---\n", runID)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration())
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var p *mpb.Progress
	var bar *mpb.Bar
	if showProgress {
		p, bar = newProgress(cfg)
		go trackTicks(ctx, s, bar, cfg.Tick())
	}

	if err := s.Run(ctx); err != nil {
		return err
	}
	if p != nil {
		bar.SetCurrent(s.Tick())
		bar.SetTotal(s.Tick(), true)
		p.Wait()
	}

	entries := s.Journal().Entries()
	if dropped := s.Journal().Dropped(); dropped > 0 {
		log.Warn("journal overflowed", "kept", len(entries), "dropped", dropped)
	}

	if err := exportJournal(fsys, runID, entries); err != nil {
		telemetry.Log("export failed: "+err.Error(), slog.LevelError)
		return err
	}
	fmt.Fprintf(stdout, "Simulation complete. %d journal entries saved to %s and %s.\n", len(entries), csvPath, htmlPath)
	return nil
}

// exportJournal writes the CSV and HTML dumps to csvPath and htmlPath.
func exportJournal(fs afero.Fs, runID string, entries []sched.Entry) error {
	if err := report.WriteCSV(fs, csvPath, entries); err != nil {
		return err
	}
	return report.WriteHTML(fs, htmlPath, runID, entries)
}

func newProgress(cfg sched.Config) (*mpb.Progress, *mpb.Bar) {
	p := mpb.New(mpb.WithWidth(64))
	total := int64(cfg.Duration() / cfg.Tick())
	name := "Simulating"
	bar := p.New(total,
		mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟"),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.OnComplete(decor.CountersNoUnit("%d / %d ticks"), "Complete"),
		),
	)
	return p, bar
}

func trackTicks(ctx context.Context, s *sched.Scheduler, bar *mpb.Bar, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bar.SetCurrent(s.Tick())
		}
	}
}
