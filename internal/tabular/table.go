// Package tabular provides the in-memory table exchanged between the I/O
// layer and the sanitization engine: named columns over ordered rows of
// string cells.
package tabular

import "fmt"

// Table holds named columns and ordered rows
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// New creates an empty table with the given column names
func New(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// AppendRow adds a row; short rows are padded with empty cells, long rows
// rejected.
func (t *Table) AppendRow(row []string) error {
	if len(row) > len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), len(t.Columns))
	}

	cells := make([]string, len(t.Columns))
	copy(cells, row)
	t.Rows = append(t.Rows, cells)
	return nil
}

// HasColumn reports whether the table has a column with the given name
func (t *Table) HasColumn(name string) bool {
	return t.columnIndex(name) >= 0
}

// Column returns a copy of the named column's values in row order
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.columnIndex(name)
	if idx < 0 {
		return nil, false
	}

	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, true
}

// SetColumn replaces the named column's values
func (t *Table) SetColumn(name string, values []string) error {
	idx := t.columnIndex(name)
	if idx < 0 {
		return fmt.Errorf("no such column: %s", name)
	}
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %s has %d rows, got %d values", name, len(t.Rows), len(values))
	}

	for i := range t.Rows {
		t.Rows[i][idx] = values[i]
	}
	return nil
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Copy returns a deep copy of the table
func (t *Table) Copy() *Table {
	out := New(t.Columns)
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		copy(cells, row)
		out.Rows[i] = cells
	}
	return out
}

// Validate checks the contract the engine expects of imported tables: at
// least two columns and at least one row.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("no table")
	}
	if len(t.Columns) < 2 {
		return fmt.Errorf("table needs at least two columns, got %d", len(t.Columns))
	}
	if len(t.Rows) == 0 {
		return fmt.Errorf("table has no rows")
	}
	return nil
}

func (t *Table) columnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}
