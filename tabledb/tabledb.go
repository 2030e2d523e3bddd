// Package tabledb archives merged session tables in SQLite so runs can be
// inspected or reloaded later. Column lists vary per caller, so samples are
// stored one value per row in a fixed long-format schema rather than one
// SQL column per table column.
package tabledb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/daqmerge/table"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the archive at path and ensures the
// schema exists.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			source_dir        TEXT,
			session_start     DOUBLE,
			row_count         BIGINT,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS run_columns (
			run_id            TEXT,
			position          BIGINT,
			name              TEXT,
			PRIMARY KEY (run_id, position),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);
		CREATE TABLE IF NOT EXISTS samples (
			run_id            TEXT,
			row_idx           BIGINT,
			position          BIGINT,
			value             DOUBLE,
			PRIMARY KEY (run_id, row_idx, position),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// Run describes one archived merge.
type Run struct {
	ID           string
	SourceDir    string
	SessionStart float64
	RowCount     int
	CreatedAt    time.Time
}

// SaveRun archives a merged table and returns the new run's id.
func (db *DB) SaveRun(tbl *table.Table, sourceDir string, sessionStart float64) (string, error) {
	runID := uuid.NewString()

	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO runs (run_id, source_dir, session_start, row_count) VALUES (?, ?, ?, ?)",
		runID, sourceDir, sessionStart, tbl.Len(),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	colStmt, err := tx.Prepare("INSERT INTO run_columns (run_id, position, name) VALUES (?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer colStmt.Close()
	for i, name := range tbl.Columns() {
		if _, err := colStmt.Exec(runID, i, name); err != nil {
			return "", fmt.Errorf("inserting column %q: %w", name, err)
		}
	}

	rowStmt, err := tx.Prepare("INSERT INTO samples (run_id, row_idx, position, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer rowStmt.Close()
	for i := 0; i < tbl.Len(); i++ {
		for j, v := range tbl.Row(i) {
			if _, err := rowStmt.Exec(runID, i, j, v); err != nil {
				return "", fmt.Errorf("inserting sample (%d,%d): %w", i, j, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// Run fetches one archived run's metadata by id.
func (db *DB) Run(runID string) (Run, error) {
	var r Run
	err := db.QueryRow(
		"SELECT run_id, source_dir, session_start, row_count, created_at FROM runs WHERE run_id = ?",
		runID,
	).Scan(&r.ID, &r.SourceDir, &r.SessionStart, &r.RowCount, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("no such run: %s", runID)
	}
	if err != nil {
		return Run{}, err
	}
	return r, nil
}

// Runs lists archived runs, most recent first.
func (db *DB) Runs() ([]Run, error) {
	rows, err := db.Query(
		"SELECT run_id, source_dir, session_start, row_count, created_at FROM runs ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SourceDir, &r.SessionStart, &r.RowCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// LoadRun reconstructs an archived table: same column names, row order, and
// values as the table passed to SaveRun.
func (db *DB) LoadRun(runID string) (*table.Table, error) {
	colRows, err := db.Query(
		"SELECT name FROM run_columns WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, err
	}
	defer colRows.Close()

	var cols []string
	for colRows.Next() {
		var name string
		if err := colRows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	if err := colRows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no such run: %s", runID)
	}

	sampleRows, err := db.Query(
		"SELECT row_idx, position, value FROM samples WHERE run_id = ? ORDER BY row_idx, position", runID)
	if err != nil {
		return nil, err
	}
	defer sampleRows.Close()

	tbl := table.New(cols)
	row := make([]float64, 0, len(cols))
	for sampleRows.Next() {
		var rowIdx, position int
		var value float64
		if err := sampleRows.Scan(&rowIdx, &position, &value); err != nil {
			return nil, err
		}
		row = append(row, value)
		if position == len(cols)-1 {
			if err := tbl.AppendRow(row); err != nil {
				return nil, fmt.Errorf("row %d: %w", rowIdx, err)
			}
			row = row[:0]
		}
	}
	if err := sampleRows.Err(); err != nil {
		return nil, err
	}

	return tbl, nil
}
