package sched

import (
	"os"
	"time"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml
type Config struct {
	TickMS           int `yaml:"tick_ms"`            // 1000 (by default)
	PollMS           int `yaml:"poll_ms"`            // 100 (by default), runner re-check interval
	MaxTasks         int `yaml:"max_tasks"`          // 5 (by default)
	JournalCapacity  int `yaml:"journal_capacity"`   // 200 (by default)
	StackBudget      int `yaml:"stack_budget"`       // 1024 (by default)
	StackCost        int `yaml:"stack_cost"`         // 128 (by default), charged per execution
	InterruptDelayMS int `yaml:"interrupt_delay_ms"` // 5000 (by default)
	EventID          int `yaml:"event_id"`           // 42 (by default)
	DurationMS       int `yaml:"duration_ms"`        // 15000 (by default), whole simulation
}

// If the config file is not found, we use default values
func DefaultConfig() Config {
	return Config{
		TickMS:           1000,
		PollMS:           100,
		MaxTasks:         5,
		JournalCapacity:  200,
		StackBudget:      1024,
		StackCost:        128,
		InterruptDelayMS: 5000,
		EventID:          42,
		DurationMS:       15000,
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) Config {
	cfg := DefaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)
	return cfg.sanitize()
}

// sanitize clamps every non-positive knob back to its default.
func (c Config) sanitize() Config {
	def := DefaultConfig()
	fix := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	fix(&c.TickMS, def.TickMS)
	fix(&c.PollMS, def.PollMS)
	fix(&c.MaxTasks, def.MaxTasks)
	fix(&c.JournalCapacity, def.JournalCapacity)
	fix(&c.StackBudget, def.StackBudget)
	fix(&c.StackCost, def.StackCost)
	fix(&c.InterruptDelayMS, def.InterruptDelayMS)
	fix(&c.DurationMS, def.DurationMS)
	if c.EventID < 0 {
		c.EventID = def.EventID
	}
	return c
}

// Tick is the scheduler period.
func (c Config) Tick() time.Duration { return time.Duration(c.TickMS) * time.Millisecond }

// Poll is how long an idle runner waits before re-checking its task.
func (c Config) Poll() time.Duration { return time.Duration(c.PollMS) * time.Millisecond }

// InterruptDelay is the wall-clock delay before the external event fires.
func (c Config) InterruptDelay() time.Duration {
	return time.Duration(c.InterruptDelayMS) * time.Millisecond
}

// Duration is how long the simulation runs before forced shutdown.
func (c Config) Duration() time.Duration { return time.Duration(c.DurationMS) * time.Millisecond }
