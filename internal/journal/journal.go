// Package journal keeps a bounded in-memory history of completed audit runs
// for the introspection endpoints. Nothing is persisted; a restart starts an
// empty journal.
package journal

import (
	"sync"
	"time"
)

// RunRecord is the operator-facing trace of one completed run.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	File       string    `json:"file"`
	Rows       int       `json:"rows"`
	ScoredRows int       `json:"scored_rows"`
	Outliers   int       `json:"outliers"`
	FinishedAt time.Time `json:"finished_at"`
}

const defaultLimit = 50

// Journal is a fixed-capacity run history. Safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	records []RunRecord
	limit   int
}

func New(limit int) *Journal {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Journal{limit: limit}
}

// Record appends a run, evicting the oldest entries beyond the capacity.
func (j *Journal) Record(rec RunRecord) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, rec)
	if len(j.records) > j.limit {
		j.records = j.records[len(j.records)-j.limit:]
	}
}

// Recent returns a copy of the stored runs, newest first.
func (j *Journal) Recent() []RunRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]RunRecord, len(j.records))
	for i, rec := range j.records {
		out[len(j.records)-1-i] = rec
	}
	return out
}
