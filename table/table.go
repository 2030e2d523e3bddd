// Package table is an in-memory columnar table of float64 rows: the merge
// target the ingest pipeline appends to, sorts, and derives columns on.
package table

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrColumnCountMismatch reports a row whose field count differs from
	// the table's column-name list.
	ErrColumnCountMismatch = errors.New("column count mismatch")

	// ErrNoColumn reports a reference to a column the table does not have.
	ErrNoColumn = errors.New("no such column")
)

// Table is an ordered sequence of fixed-width numeric rows with named
// columns. It owns no external resources.
type Table struct {
	cols []string
	rows [][]float64
}

// New creates an empty table with the given column names.
func New(cols []string) *Table {
	c := make([]string, len(cols))
	copy(c, cols)
	return &Table{cols: c}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	c := make([]string, len(t.cols))
	copy(c, t.cols)
	return c
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// AppendRow adds one row to the end of the table. The row is copied. A row
// with the wrong field count fails with ErrColumnCountMismatch.
func (t *Table) AppendRow(row []float64) error {
	if len(row) != len(t.cols) {
		return fmt.Errorf("%w: row has %d fields, table has %d columns",
			ErrColumnCountMismatch, len(row), len(t.cols))
	}
	r := make([]float64, len(row))
	copy(r, row)
	t.rows = append(t.rows, r)
	return nil
}

// Row returns the i'th row. The returned slice is the table's own storage;
// callers must not modify it.
func (t *Table) Row(i int) []float64 {
	return t.rows[i]
}

// ColumnIndex returns the index of the named column.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.cols {
		if c == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrNoColumn, name)
}

// Column returns a copy of the named column's values in row order.
func (t *Table) Column(name string) ([]float64, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[idx]
	}
	return out, nil
}

// SortBy stably sorts the rows in ascending order of the column at idx.
func (t *Table) SortBy(idx int) error {
	if idx < 0 || idx >= len(t.cols) {
		return fmt.Errorf("%w: index %d", ErrNoColumn, idx)
	}
	sort.SliceStable(t.rows, func(a, b int) bool {
		return t.rows[a][idx] < t.rows[b][idx]
	})
	return nil
}

// DeriveOffset appends a new column named name whose value in every row is
// the column at srcIdx plus offset.
func (t *Table) DeriveOffset(name string, srcIdx int, offset float64) error {
	if srcIdx < 0 || srcIdx >= len(t.cols) {
		return fmt.Errorf("%w: index %d", ErrNoColumn, srcIdx)
	}
	t.cols = append(t.cols, name)
	for i, r := range t.rows {
		t.rows[i] = append(r, r[srcIdx]+offset)
	}
	return nil
}
