// Package catalog keeps a SQLite record of patch runs: one row per
// processed archive plus one row per retained index entry, so past
// work stays queryable after the console output is gone.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/linksvis/crspatch/internal/crs"
)

// Catalog is an open patch-run database.
type Catalog struct {
	db   *sql.DB
	path string
}

// Options configures the catalog connection.
type Options struct {
	// Path to the SQLite database file.
	Path string

	// BusyTimeout sets the timeout for locked database operations.
	BusyTimeout time.Duration
}

// DefaultOptions returns sensible defaults for a catalog at path.
func DefaultOptions(path string) *Options {
	return &Options{
		Path:        path,
		BusyTimeout: 30 * time.Second,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	source         TEXT NOT NULL,
	output         TEXT NOT NULL,
	entry_count    INTEGER NOT NULL,
	removed        INTEGER NOT NULL,
	rewritten      INTEGER NOT NULL,
	skipped_paths  INTEGER NOT NULL,
	dos_time       INTEGER NOT NULL,
	dos_date       INTEGER NOT NULL,
	duration_ms    INTEGER NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
	run_id          INTEGER NOT NULL REFERENCES runs(id),
	idx             INTEGER NOT NULL,
	name            TEXT NOT NULL,
	original_offset INTEGER NOT NULL,
	adjusted_offset INTEGER NOT NULL,
	record_hex      TEXT NOT NULL,
	PRIMARY KEY (run_id, idx)
);
`

// Open connects to the catalog database, creating the file and schema
// as needed.
func Open(options *Options) (*Catalog, error) {
	if options == nil || options.Path == "" {
		return nil, fmt.Errorf("catalog path cannot be empty")
	}

	if dir := filepath.Dir(options.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", connectionString(options))
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", options.Path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("testing catalog connection: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}

	return &Catalog{db: db, path: options.Path}, nil
}

func connectionString(options *Options) string {
	pragmas := []string{
		"journal_mode=WAL",
		"foreign_keys=ON",
		"synchronous=NORMAL",
	}
	if options.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("busy_timeout=%d", int(options.BusyTimeout.Milliseconds())))
	}
	return options.Path + "?" + strings.Join(pragmas, "&")
}

// Close closes the catalog connection.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return fmt.Errorf("closing catalog: %w", err)
	}
	return nil
}

// Run is one recorded patch of a single archive.
type Run struct {
	ID         int64
	Source     string
	Output     string
	EntryCount int
	Removed    int
	Rewritten  int
	Skipped    int
	Stamp      crs.DOSStamp
	Duration   time.Duration
	CreatedAt  time.Time
}

// RecordRun inserts a run and its retained entries in one transaction.
func (c *Catalog) RecordRun(ctx context.Context, run Run, entries []crs.Entry) (int64, error) {
	if c.db == nil {
		return 0, fmt.Errorf("catalog is closed")
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (source, output, entry_count, removed, rewritten,
			skipped_paths, dos_time, dos_date, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Source, run.Output, run.EntryCount, run.Removed, run.Rewritten,
		run.Skipped, run.Stamp.Time, run.Stamp.Date,
		run.Duration.Milliseconds(), run.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (run_id, idx, name, original_offset, adjusted_offset, record_hex)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing entry insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		rec := e.Record()
		_, err := stmt.ExecContext(ctx, id, i, e.DisplayName(), e.ScanPos, e.Offset,
			fmt.Sprintf("%X", rec[:]))
		if err != nil {
			return 0, fmt.Errorf("inserting entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// Runs lists recorded runs, newest first.
func (c *Catalog) Runs(ctx context.Context) ([]Run, error) {
	if c.db == nil {
		return nil, fmt.Errorf("catalog is closed")
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, source, output, entry_count, removed, rewritten,
			skipped_paths, dos_time, dos_date, duration_ms, created_at
		FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Source, &r.Output, &r.EntryCount,
			&r.Removed, &r.Rewritten, &r.Skipped,
			&r.Stamp.Time, &r.Stamp.Date, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// EntryRow is one recorded index entry of a run.
type EntryRow struct {
	Index          int
	Name           string
	OriginalOffset int
	AdjustedOffset int
	RecordHex      string
}

// Entries returns the recorded index entries of a run.
func (c *Catalog) Entries(ctx context.Context, runID int64) ([]EntryRow, error) {
	if c.db == nil {
		return nil, fmt.Errorf("catalog is closed")
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT idx, name, original_offset, adjusted_offset, record_hex
		FROM entries WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing entries for run %d: %w", runID, err)
	}
	defer rows.Close()

	var entries []EntryRow
	for rows.Next() {
		var e EntryRow
		if err := rows.Scan(&e.Index, &e.Name, &e.OriginalOffset, &e.AdjustedOffset, &e.RecordHex); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

// Query executes an arbitrary SQL query against the catalog.
func (c *Catalog) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if c.db == nil {
		return nil, fmt.Errorf("catalog is closed")
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return rows, nil
}
