package sched

import (
	"context"
	"sync"
	"sync/atomic"
)

// Journal is a bounded, append-only log shared by every component.
// Appends past capacity are dropped and counted.
type Journal struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	dropped  atomic.Int64
	now      func() int64
}

// NewJournal creates a journal stamping entries with now().
func NewJournal(capacity int, now func() int64) *Journal {
	if capacity < 0 {
		capacity = 0
	}
	if now == nil {
		now = func() int64 { return 0 }
	}
	return &Journal{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
		now:      now,
	}
}

// Record stamps and appends one entry. It reports false when the entry was
// dropped. The tick is read under the journal lock, so ticks never decrease in
// insertion order.
func (j *Journal) Record(cat Category, id int, name, desc string, st State) bool {
	return j.record(Entry{
		Category:    cat,
		TaskID:      id,
		TaskName:    name,
		Description: desc,
		State:       st,
	}, true)
}

// Append adds an already stamped entry.
func (j *Journal) Append(e Entry) bool {
	return j.record(e, false)
}

func (j *Journal) record(e Entry, stamp bool) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.entries) >= j.capacity {
		j.dropped.Add(1)
		journalDropped.Add(context.Background(), 1)
		return false
	}
	if stamp {
		e.Tick = j.now()
	}
	j.entries = append(j.entries, e)
	return true
}

// Entries returns a copy of the log in insertion order.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

func (j *Journal) Cap() int { return j.capacity }

// Dropped counts entries lost to the capacity limit.
func (j *Journal) Dropped() int64 { return j.dropped.Load() }
