// pkg/frame/frame.go
package frame

import (
	"fmt"
	"strings"
)

// Frame is an ordered, column-oriented in-memory table. Column order is
// significant and matches the source it was built from. Cell values are
// untyped scalars (string, int64, float64, bool, time.Time or nil).
type Frame struct {
	columns []string
	rows    [][]interface{}
}

// New creates an empty frame with the given column names
func New(columns []string) *Frame {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Frame{columns: cols}
}

// Columns returns the column names in order
func (f *Frame) Columns() []string {
	cols := make([]string, len(f.columns))
	copy(cols, f.columns)
	return cols
}

// NumRows returns the number of rows
func (f *Frame) NumRows() int {
	return len(f.rows)
}

// NumColumns returns the number of columns
func (f *Frame) NumColumns() int {
	return len(f.columns)
}

// ColumnIndex returns the position of a column, or -1 if absent
func (f *Frame) ColumnIndex(name string) int {
	for i, col := range f.columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the frame contains a column
func (f *Frame) HasColumn(name string) bool {
	return f.ColumnIndex(name) >= 0
}

// AppendRow adds a row to the frame. The row length must match the
// column count.
func (f *Frame) AppendRow(row []interface{}) error {
	if len(row) != len(f.columns) {
		return fmt.Errorf("row has %d values, frame has %d columns", len(row), len(f.columns))
	}
	f.rows = append(f.rows, row)
	return nil
}

// Row returns the i-th row. The returned slice is shared with the frame.
func (f *Frame) Row(i int) []interface{} {
	return f.rows[i]
}

// Value returns the cell at row i, column col. Returns nil if the
// column is absent.
func (f *Frame) Value(i int, col string) interface{} {
	idx := f.ColumnIndex(col)
	if idx < 0 {
		return nil
	}
	return f.rows[i][idx]
}

// SetValue overwrites the cell at row i, column col
func (f *Frame) SetValue(i int, col string, v interface{}) {
	idx := f.ColumnIndex(col)
	if idx < 0 {
		return
	}
	f.rows[i][idx] = v
}

// Clone returns a deep copy of the frame (cell values are shared)
func (f *Frame) Clone() *Frame {
	out := New(f.columns)
	out.rows = make([][]interface{}, len(f.rows))
	for i, row := range f.rows {
		cp := make([]interface{}, len(row))
		copy(cp, row)
		out.rows[i] = cp
	}
	return out
}

// Filter returns a new frame containing only the rows for which keep
// returns true, preserving relative order
func (f *Frame) Filter(keep func(row []interface{}) bool) *Frame {
	out := New(f.columns)
	for _, row := range f.rows {
		if keep(row) {
			cp := make([]interface{}, len(row))
			copy(cp, row)
			out.rows = append(out.rows, cp)
		}
	}
	return out
}

// Fingerprint returns a string identity for a row, used for exact
// duplicate detection across all columns. nil and the empty string
// hash differently.
func Fingerprint(row []interface{}) string {
	var sb strings.Builder
	for i, v := range row {
		if i > 0 {
			sb.WriteByte(0x1f)
		}
		if v == nil {
			sb.WriteString("\x00nil")
			continue
		}
		fmt.Fprintf(&sb, "%T:%v", v, v)
	}
	return sb.String()
}
