// Package table holds the in-memory row/column form shared by every stage and
// reads and writes it as CSV with a leading unnamed index column.
package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing column")

// Table is a header plus string rows. Missing values are empty strings.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New returns an empty table with the given columns.
func New(columns ...string) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Has reports whether the table has a column named col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Require returns an error naming the first column in cols that is absent.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
	}
	return nil
}

// Append adds a row. Short rows are padded and long rows truncated to the
// column count.
func (t *Table) Append(values ...string) {
	row := make([]string, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// Get returns the value at row i in column col, or "" when the column is absent.
func (t *Table) Get(i int, col string) string {
	j, ok := t.index[col]
	if !ok || j >= len(t.Rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[i][j])
}

// Float parses the value at row i in column col. ok is false for blanks,
// NaN, and values that are not numbers.
func (t *Table) Float(i int, col string) (float64, bool) {
	s := t.Get(i, col)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// AddColumn appends an empty column unless one named col already exists.
func (t *Table) AddColumn(col string) {
	if t.Has(col) {
		return
	}
	t.Columns = append(t.Columns, col)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	t.reindex()
}

// Set stores v at row i in column col. The column must exist.
func (t *Table) Set(i int, col, v string) {
	j, ok := t.index[col]
	if !ok {
		panic(fmt.Sprintf("table: set on missing column %q", col))
	}
	for len(t.Rows[i]) <= j {
		t.Rows[i] = append(t.Rows[i], "")
	}
	t.Rows[i][j] = v
}

// Column returns a copy of every value in col.
func (t *Table) Column(col string) []string {
	out := make([]string, t.Len())
	for i := range t.Rows {
		out[i] = t.Get(i, col)
	}
	return out
}

// FormatFloat renders a float the way the CSV outputs store numbers.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
