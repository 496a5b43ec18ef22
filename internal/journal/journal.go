// Package journal keeps a SQLite history of sync passes and the moves they
// made. The task files stay the source of truth; the journal only answers
// "what did sync do, and when".
package journal

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/taskboard/internal/reconcile"
)

//go:embed schema.sql
var schemaSQL string

// timeLayout is fixed-width so stored UTC timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrClosed is returned by operations on a closed journal.
var ErrClosed = errors.New("journal is closed")

// Compile-time interface check: Journal records reconcile passes.
var _ reconcile.Recorder = (*Journal)(nil)

// Journal is an open history database.
type Journal struct {
	db *sql.DB
}

// Run is one recorded sync pass.
type Run struct {
	RunID      string     `json:"run_id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	DryRun     bool       `json:"dry_run"`
	Moved      int        `json:"moved"`
	Errors     int        `json:"errors"`
}

// Open opens or creates the journal at path, creating parent directories.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	// One connection keeps pragmas and writes on the same handle.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the database. Idempotent.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// BeginRun records the start of a pass.
func (j *Journal) BeginRun(runID string, startedAt time.Time, dryRun bool) error {
	if j.db == nil {
		return ErrClosed
	}
	_, err := j.db.Exec(
		"INSERT INTO sync_runs (run_id, started_at, dry_run) VALUES (?, ?, ?)",
		runID, startedAt.UTC().Format(timeLayout), boolToInt(dryRun),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", runID, err)
	}
	return nil
}

// RecordMove records one relocated task.
func (j *Journal) RecordMove(runID string, m reconcile.Move) error {
	if j.db == nil {
		return ErrClosed
	}
	_, err := j.db.Exec(
		`INSERT INTO sync_moves (run_id, filename, title, from_column, to_column, moved_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, m.Filename, m.Title, m.From, m.To, m.At.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording move of %s: %w", m.Filename, err)
	}
	return nil
}

// FinishRun stores the final counts of a pass.
func (j *Journal) FinishRun(runID string, finishedAt time.Time, moved, errs int) error {
	if j.db == nil {
		return ErrClosed
	}
	res, err := j.db.Exec(
		"UPDATE sync_runs SET finished_at = ?, moved = ?, errors = ? WHERE run_id = ?",
		finishedAt.UTC().Format(timeLayout), moved, errs, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finishing run %s: %w", runID, sql.ErrNoRows)
	}
	return nil
}

// Runs returns the most recent passes, newest first. limit <= 0 returns all.
func (j *Journal) Runs(limit int) ([]Run, error) {
	if j.db == nil {
		return nil, ErrClosed
	}
	query := "SELECT run_id, started_at, finished_at, dry_run, moved, errors FROM sync_runs ORDER BY started_at DESC, run_id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			started  string
			finished sql.NullString
			dry      int
		)
		if err := rows.Scan(&r.RunID, &started, &finished, &dry, &r.Moved, &r.Errors); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parsing started_at of %s: %w", r.RunID, err)
		}
		if finished.Valid {
			t, err := time.Parse(timeLayout, finished.String)
			if err != nil {
				return nil, fmt.Errorf("parsing finished_at of %s: %w", r.RunID, err)
			}
			r.FinishedAt = &t
		}
		r.DryRun = dry != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Moves returns the moves of one pass in the order they happened.
func (j *Journal) Moves(runID string) ([]reconcile.Move, error) {
	if j.db == nil {
		return nil, ErrClosed
	}
	rows, err := j.db.Query(
		`SELECT filename, title, from_column, to_column, moved_at
		 FROM sync_moves WHERE run_id = ? ORDER BY move_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying moves of %s: %w", runID, err)
	}
	defer rows.Close()

	var moves []reconcile.Move
	for rows.Next() {
		var (
			m  reconcile.Move
			at string
		)
		if err := rows.Scan(&m.Filename, &m.Title, &m.From, &m.To, &at); err != nil {
			return nil, fmt.Errorf("scanning move: %w", err)
		}
		if m.At, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("parsing moved_at: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
