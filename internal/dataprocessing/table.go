package dataprocessing

import (
	"errors"
	"fmt"
)

// ErrColumnNotFound is returned when a named column is absent from the header
var ErrColumnNotFound = errors.New("column not found")

// Table is a CSV table held as raw cells. Row order is the order the rows
// were read in; cells are never reformatted unless a column is replaced.
type Table struct {
	Header []string
	Rows   [][]string
	// BOM records a UTF-8 byte-order mark on the source so a rewrite keeps it
	BOM bool
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the first column called name, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Header {
		if col == name {
			return i
		}
	}
	return -1
}

// Column returns the cells of a column in row order
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}

	cells := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[idx]
	}
	return cells, nil
}

// SetColumn replaces the cells of an existing column in place, or appends
// the column at the end of the header when it does not exist yet.
func (t *Table) SetColumn(name string, cells []string) error {
	if len(cells) != len(t.Rows) {
		return fmt.Errorf("column %q has %d cells, table has %d rows", name, len(cells), len(t.Rows))
	}

	if idx := t.ColumnIndex(name); idx >= 0 {
		for i, row := range t.Rows {
			row[idx] = cells[i]
		}
		return nil
	}

	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], cells[i])
	}
	return nil
}
