// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists run outcomes to a SQLite database so past
// runs can be inspected after the fact.
package manifest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/keep-to-joplin/pkg/types"
)

// Store manages the run manifest database.
type Store struct {
	db *sql.DB
}

// RunRecord is one recorded run with its outcomes.
type RunRecord struct {
	ID        int64
	StartedAt time.Time
	InputDir  string
	OutputDir string
	DryRun    bool
	Converted int
	Skipped   int
	Failed    int
	Outcomes  []types.Outcome
}

// Open opens or creates the manifest database at path, creating the
// schema if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating manifest directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening manifest database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			dry_run INTEGER NOT NULL,
			converted INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outcomes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			path TEXT NOT NULL,
			status TEXT NOT NULL,
			reason TEXT,
			filename TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_run_id ON outcomes(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores one finished run and its outcomes, returning the run ID.
func (s *Store) RecordRun(cfg types.ConvertConfig, startedAt time.Time, outcomes []types.Outcome) (int64, error) {
	var converted, skipped, failed int
	for _, o := range outcomes {
		switch o.Status {
		case types.StatusConverted:
			converted++
		case types.StatusSkipped:
			skipped++
		case types.StatusFailed:
			failed++
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, input_dir, output_dir, dry_run, converted, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), cfg.InputDir, cfg.OutputDir,
		boolToInt(cfg.DryRun), converted, skipped, failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO outcomes (run_id, path, status, reason, filename) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("preparing outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err := stmt.Exec(runID, o.Path, string(o.Status), o.Reason, o.Filename); err != nil {
			return 0, fmt.Errorf("inserting outcome for %s: %w", o.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// LatestRun returns the most recently recorded run.
func (s *Store) LatestRun() (*RunRecord, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no runs recorded")
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest run: %w", err)
	}
	return s.Run(id)
}

// Run returns the run with the given ID and its outcomes.
func (s *Store) Run(id int64) (*RunRecord, error) {
	rec := &RunRecord{ID: id}
	var startedAt string
	var dryRun int
	err := s.db.QueryRow(
		`SELECT started_at, input_dir, output_dir, dry_run, converted, skipped, failed
		 FROM runs WHERE id = ?`, id,
	).Scan(&startedAt, &rec.InputDir, &rec.OutputDir, &dryRun, &rec.Converted, &rec.Skipped, &rec.Failed)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %d: %w", id, err)
	}

	rec.DryRun = dryRun != 0
	if t, perr := time.Parse(time.RFC3339, startedAt); perr == nil {
		rec.StartedAt = t
	}

	rows, err := s.db.Query(
		`SELECT path, status, reason, filename FROM outcomes WHERE run_id = ? ORDER BY rowid`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying outcomes for run %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o types.Outcome
		var status, reason, filename sql.NullString
		if err := rows.Scan(&o.Path, &status, &reason, &filename); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		o.Status = types.OutcomeStatus(status.String)
		o.Reason = reason.String
		o.Filename = filename.String
		rec.Outcomes = append(rec.Outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outcomes: %w", err)
	}

	return rec, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
