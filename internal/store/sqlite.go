// Package store keeps a ledger of filter runs in SQLite.
//
// Only per-run counters and the exit reason are stored. No key codes and no
// modifier state are ever written.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    pid          INTEGER NOT NULL,
    version      TEXT NOT NULL,
    started_ns   INTEGER NOT NULL,
    ended_ns     INTEGER,
    records      INTEGER NOT NULL DEFAULT 0,
    key_events   INTEGER NOT NULL DEFAULT 0,
    passthrough  INTEGER NOT NULL DEFAULT 0,
    forwarded    INTEGER NOT NULL DEFAULT 0,
    suppressed   INTEGER NOT NULL DEFAULT 0,
    synthesized  INTEGER NOT NULL DEFAULT 0,
    exit_reason  TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_ns);
`

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("store: run not found")

// Store represents the SQLite run ledger.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at the given path and applies
// the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BeginRun records the start of a run and returns its ID.
func (s *Store) BeginRun(pid int, version string, started time.Time) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO runs (pid, version, started_ns) VALUES (?, ?, ?)`,
		pid, version, started.UnixNano(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// FinishRun stores the final counters and exit reason of a run.
func (s *Store) FinishRun(id int64, ended time.Time, c Counters, reason string) error {
	result, err := s.db.Exec(`
		UPDATE runs
		SET ended_ns = ?, records = ?, key_events = ?, passthrough = ?,
		    forwarded = ?, suppressed = ?, synthesized = ?, exit_reason = ?
		WHERE id = ?`,
		ended.UnixNano(), c.Records, c.KeyEvents, c.Passthrough,
		c.Forwarded, c.Suppressed, c.Synthesized, reason, id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	return nil
}

const runColumns = `id, pid, version, started_ns, ended_ns, records, key_events,
	passthrough, forwarded, suppressed, synthesized, exit_reason`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		r       Run
		started int64
		ended   sql.NullInt64
		reason  sql.NullString
	)
	err := row.Scan(&r.ID, &r.PID, &r.Version, &started, &ended,
		&r.Counters.Records, &r.Counters.KeyEvents, &r.Counters.Passthrough,
		&r.Counters.Forwarded, &r.Counters.Suppressed, &r.Counters.Synthesized,
		&reason)
	if err != nil {
		return nil, err
	}

	r.StartedAt = time.Unix(0, started)
	if ended.Valid {
		r.EndedAt = time.Unix(0, ended.Int64)
	}
	r.ExitReason = reason.String
	return &r, nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(id int64) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY started_ns DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Totals sums the counters of every recorded run.
func (s *Store) Totals() (Counters, int64, error) {
	var (
		c    Counters
		runs int64
	)
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(records), 0), COALESCE(SUM(key_events), 0),
		       COALESCE(SUM(passthrough), 0), COALESCE(SUM(forwarded), 0),
		       COALESCE(SUM(suppressed), 0), COALESCE(SUM(synthesized), 0)
		FROM runs`,
	).Scan(&runs, &c.Records, &c.KeyEvents, &c.Passthrough, &c.Forwarded, &c.Suppressed, &c.Synthesized)
	if err != nil {
		return Counters{}, 0, fmt.Errorf("sum runs: %w", err)
	}
	return c, runs, nil
}
