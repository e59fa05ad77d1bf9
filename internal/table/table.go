// Package table provides the flat CSV table the wizard appends rows to.
// This package has no UI dependencies and can be used by any frontend.
package table

import (
	"fmt"
	"strings"
)

// nullTokens are cell spellings treated as null on read.
// Keys are lowercase; lookups must lowercase first.
var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"none": true,
	"null": true,
	"n/a":  true,
}

// IsNull reports whether a raw cell value represents a null.
func IsNull(s string) bool {
	return nullTokens[strings.ToLower(strings.TrimSpace(s))]
}

// Table is an ordered set of named columns holding rows of raw cell text.
// Nullness of a cell is derived from its text via IsNull, matching the
// on-disk representation where a null is an empty (or NA-spelled) cell.
//
// Invariant: every row has exactly len(columns) cells.
type Table struct {
	columns []string
	rows    [][]string
}

// New creates a table with the given column names and no rows.
func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{columns: cols}
}

// Columns returns a copy of the ordered column names.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.columns)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// Rows returns a copy of all rows in insertion order.
func (t *Table) Rows() [][]string {
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		row := make([]string, len(r))
		copy(row, r)
		rows[i] = row
	}
	return rows
}

// Column returns the raw cell values of column i, one per row.
func (t *Table) Column(i int) []string {
	if i < 0 || i >= len(t.columns) {
		return nil
	}
	vals := make([]string, len(t.rows))
	for r, row := range t.rows {
		vals[r] = row[i]
	}
	return vals
}

// ColumnByName returns the raw cell values of the named column.
// The second return is false if the column does not exist.
func (t *Table) ColumnByName(name string) ([]string, bool) {
	for i, c := range t.columns {
		if c == name {
			return t.Column(i), true
		}
	}
	return nil, false
}

// Kind returns the inferred input kind of column i.
func (t *Table) Kind(i int) Kind {
	return InferKind(t.Column(i))
}

// Kinds returns the inferred kind of every column, in column order.
func (t *Table) Kinds() []Kind {
	kinds := make([]Kind, len(t.columns))
	for i := range t.columns {
		kinds[i] = t.Kind(i)
	}
	return kinds
}

// AppendRow adds one row of raw cells to the table.
func (t *Table) AppendRow(cells []string) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("append row: got %d cells, table has %d columns", len(cells), len(t.columns))
	}
	row := make([]string, len(cells))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return nil
}

// AppendValues serializes typed values into cells and appends them as a row.
// Values must be in column order.
func (t *Table) AppendValues(values []Value) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("append values: got %d values, table has %d columns", len(values), len(t.columns))
	}
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = v.Cell()
	}
	return t.AppendRow(cells)
}

// LastRow returns a copy of the most recently appended row.
// The second return is false if the table has no rows.
func (t *Table) LastRow() ([]string, bool) {
	if len(t.rows) == 0 {
		return nil, false
	}
	last := t.rows[len(t.rows)-1]
	row := make([]string, len(last))
	copy(row, last)
	return row, true
}
