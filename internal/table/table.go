// Package table reads station monitoring data from CSV and XLSX files into
// an in-memory tabular form. All cell values are kept as strings; numeric and
// date interpretation is left to the consumers, which know the column
// semantics.
package table

import (
	"strings"
)

// Table is one station's worth of tabular records plus the header row.
type Table struct {
	// Name identifies the source, typically the file base name without
	// extension. For per-station files this doubles as the station ID.
	Name    string
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the index of the named column, matching
// case-insensitively on the trimmed header, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, c := range t.Columns {
		if strings.ToLower(strings.TrimSpace(c)) == want {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column is present.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the value at (row, col), or "" when the record is shorter
// than the header. CSV and XLSX sources may both produce ragged rows.
func (t *Table) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}
