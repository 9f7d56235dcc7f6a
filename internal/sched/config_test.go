package sched

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	assert.Equal(t, DefaultConfig(), Load(""))
	assert.Equal(t, DefaultConfig(), Load(filepath.Join(t.TempDir(), "missing.yml")))
}

func TestLoadOverridesAndClamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	data := []byte("tick_ms: 10\nstack_cost: -5\nevent_id: 7\njournal_capacity: 50\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg := Load(path)
	assert.Equal(t, 10, cfg.TickMS)
	assert.Equal(t, 128, cfg.StackCost)
	assert.Equal(t, 7, cfg.EventID)
	assert.Equal(t, 50, cfg.JournalCapacity)
	assert.Equal(t, 1024, cfg.StackBudget)

	assert.Equal(t, 10*time.Millisecond, cfg.Tick())
	assert.Equal(t, 5*time.Second, cfg.InterruptDelay())
	assert.Equal(t, 15*time.Second, cfg.Duration())
}
