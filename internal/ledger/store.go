package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		runId TEXT NOT NULL,
		operation TEXT NOT NULL,
		path TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		createdAt REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS outcomes_run ON outcomes(runId);
`

// Store is a ledger backed by a SQLite file.
type Store struct {
	db *sql.DB
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// Open opens or creates the ledger at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// The pipeline is single-threaded; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one entry. A zero CreatedAt is stamped with the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO outcomes (runId, operation, path, status, detail, createdAt)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.RunID, e.Operation, e.Path, e.Status, e.Detail, unixFromTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert outcome: %w", err)
	}
	return nil
}

// Entries returns the entries of a run in insertion order.
func (s *Store) Entries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT runId, operation, path, status, detail, createdAt
		FROM outcomes
		WHERE runId = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt float64
		if err := rows.Scan(&e.RunID, &e.Operation, &e.Path, &e.Status, &e.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		e.CreatedAt = timeFromUnix(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LatestRun summarizes the most recently started run, or returns nil when the
// ledger is empty.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT runId, operation, COUNT(*),
			SUM(CASE WHEN status = 'ok' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'unsupported' THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END),
			MIN(createdAt)
		FROM outcomes
		GROUP BY runId
		ORDER BY MIN(id) DESC
		LIMIT 1
	`)

	var r Run
	var startedAt float64
	if err := row.Scan(&r.ID, &r.Operation, &r.Total, &r.OK, &r.Unsupported, &r.Failed, &startedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	r.StartedAt = timeFromUnix(startedAt)
	return &r, nil
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
