// Package dataset provides a small typed, rectangular table used by the ETL and
// training stages in place of a dataframe.
package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/disaster-triage/internal/common"
)

// Kind is the storage type of a column.
type Kind int

// Column kinds.
const (
	KindText Kind = iota
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	default:
		return "text"
	}
}

// Column describes one table column.
type Column struct {
	Name string
	Kind Kind
}

// Value is a single cell. Null cells ignore Text and Int.
type Value struct {
	Text string
	Int  int64
	Null bool
}

// Text returns a non-null text cell.
func Text(s string) Value { return Value{Text: s} }

// Int returns a non-null integer cell.
func Int(i int64) Value { return Value{Int: i} }

// Null returns a null cell.
func Null() Value { return Value{Null: true} }

// Format renders v for display according to kind.
func (v Value) Format(kind Kind) string {
	if v.Null {
		return ""
	}
	if kind == KindInteger {
		return strconv.FormatInt(v.Int, 10)
	}
	return v.Text
}

// Row is an ordered list of cells matching a table's columns.
type Row []Value

// Table is an ordered set of typed columns and rows.
type Table struct {
	Columns []Column
	Rows    []Row
}

// New returns an empty table with the given columns.
func New(columns ...Column) *Table {
	return &Table{Columns: columns}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.Columns) }

// ColumnIndex returns the position of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Append adds a row, checking its width.
func (t *Table) Append(row Row) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("%w: row has %d cells, table has %d columns", common.ErrShapeMismatch, len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// TextColumn returns the named column rendered as strings.
func (t *Table) TextColumn(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: column %q", common.ErrNotFound, name)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx].Format(t.Columns[idx].Kind)
	}
	return out, nil
}

// IntColumn returns the named integer column. Null cells become 0.
func (t *Table) IntColumn(name string) ([]int, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: column %q", common.ErrNotFound, name)
	}
	if t.Columns[idx].Kind != KindInteger {
		return nil, fmt.Errorf("%w: column %q is %s, want integer", common.ErrDataQuality, name, t.Columns[idx].Kind)
	}
	out := make([]int, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = int(row[idx].Int)
	}
	return out, nil
}

// Drop returns a copy of t without the named column.
func (t *Table) Drop(name string) (*Table, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: column %q", common.ErrNotFound, name)
	}

	out := &Table{
		Columns: make([]Column, 0, len(t.Columns)-1),
		Rows:    make([]Row, len(t.Rows)),
	}
	out.Columns = append(out.Columns, t.Columns[:idx]...)
	out.Columns = append(out.Columns, t.Columns[idx+1:]...)

	for i, row := range t.Rows {
		r := make(Row, 0, len(row)-1)
		r = append(r, row[:idx]...)
		r = append(r, row[idx+1:]...)
		out.Rows[i] = r
	}
	return out, nil
}

// HConcat joins left and right side by side, row for row.
func HConcat(left, right *Table) (*Table, error) {
	if left.Len() != right.Len() {
		return nil, fmt.Errorf("%w: cannot concatenate %d rows with %d rows", common.ErrShapeMismatch, left.Len(), right.Len())
	}

	out := &Table{
		Columns: make([]Column, 0, left.Width()+right.Width()),
		Rows:    make([]Row, left.Len()),
	}
	out.Columns = append(out.Columns, left.Columns...)
	out.Columns = append(out.Columns, right.Columns...)

	for i := range left.Rows {
		if len(left.Rows[i]) != left.Width() || len(right.Rows[i]) != right.Width() {
			return nil, fmt.Errorf("%w: ragged row %d", common.ErrShapeMismatch, i)
		}
		r := make(Row, 0, out.Width())
		r = append(r, left.Rows[i]...)
		r = append(r, right.Rows[i]...)
		out.Rows[i] = r
	}
	return out, nil
}

// DropDuplicates returns a copy of t keeping only the first occurrence of each
// fully identical row, and the number of rows removed.
func (t *Table) DropDuplicates() (*Table, int) {
	out := &Table{
		Columns: append([]Column(nil), t.Columns...),
		Rows:    make([]Row, 0, len(t.Rows)),
	}

	seen := make(map[string]struct{}, len(t.Rows))
	for _, row := range t.Rows {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return out, len(t.Rows) - len(out.Rows)
}

// rowKey encodes every cell with a length prefix so distinct rows never collide.
func rowKey(row Row) string {
	var b strings.Builder
	for _, v := range row {
		switch {
		case v.Null:
			b.WriteString("n;")
		default:
			b.WriteString(strconv.Itoa(len(v.Text)))
			b.WriteByte(':')
			b.WriteString(v.Text)
			b.WriteByte(':')
			b.WriteString(strconv.FormatInt(v.Int, 10))
			b.WriteByte(';')
		}
	}
	return b.String()
}

// Equal reports whether t and o have the same columns and the same rows in order.
func (t *Table) Equal(o *Table) bool {
	if t.Width() != o.Width() || t.Len() != o.Len() {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		if rowKey(t.Rows[i]) != rowKey(o.Rows[i]) {
			return false
		}
	}
	return true
}
