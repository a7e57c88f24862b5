// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/chapter-binder/pkg/types"
)

const ledgerFile = "ledger.db"

// Ledger is the SQLite run history. It is supplementary: the assembled
// PDFs are the only required output of a run.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens or creates the run ledger at dir/ledger.db, creating
// the schema if needed.
func OpenLedger(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}

	dbPath := filepath.Join(dir, ledgerFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			input_root TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS groupings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			output_path TEXT,
			total_pages INTEGER,
			skipped_chapters INTEGER,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_groupings_run_id ON groupings(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a finished run and its grouping outcomes, returning the
// run's ledger id.
func (l *Ledger) Record(r RunReport) (int64, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, finished_at, input_root) VALUES (?, ?, ?)`,
		r.StartedAt.UTC().Format(time.RFC3339),
		r.FinishedAt.UTC().Format(time.RFC3339),
		r.InputRoot,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, g := range r.Groupings {
		_, err := tx.Exec(
			`INSERT INTO groupings (run_id, name, status, output_path, total_pages, skipped_chapters, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, g.Name, string(g.Status), g.OutputPath, g.TotalPages, g.SkippedChapters(), g.Err,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting grouping %s: %w", g.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunSummary is one ledger row for listing past runs.
type RunSummary struct {
	ID              int64
	StartedAt       time.Time
	InputRoot       string
	Merged          int
	Aborted         int
	Empty           int
	SkippedChapters int
}

// Runs lists the most recent runs, newest first.
func (l *Ledger) Runs(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.Query(`
		SELECT r.id, r.started_at, r.input_root,
		       COALESCE(SUM(CASE WHEN g.status = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN g.status = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN g.status = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(g.skipped_chapters), 0)
		FROM runs r
		LEFT JOIN groupings g ON g.run_id = r.id
		GROUP BY r.id
		ORDER BY r.id DESC
		LIMIT ?`,
		string(types.GroupingMerged), string(types.GroupingAborted), string(types.GroupingEmpty), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var started string
		if err := rows.Scan(&s.ID, &started, &s.InputRoot, &s.Merged, &s.Aborted, &s.Empty, &s.SkippedChapters); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			s.StartedAt = t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
