// Package ledger records the outcome of every file a run touched in a SQLite
// database, so a batch can be audited after the fact.
package ledger

import "time"

// Status values stored for an entry.
const (
	StatusOK          = "ok"
	StatusUnsupported = "unsupported"
	StatusFailed      = "failed"
)

// Entry is one file outcome within a run.
type Entry struct {
	RunID     string
	Operation string
	Path      string
	Status    string
	Detail    string
	CreatedAt time.Time
}

// Run summarizes the entries of one run.
type Run struct {
	ID          string
	Operation   string
	Total       int
	OK          int
	Unsupported int
	Failed      int
	StartedAt   time.Time
}
