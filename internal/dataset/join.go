package dataset

import (
	"fmt"

	"github.com/Veraticus/disaster-triage/internal/common"
)

// Join suffixes applied to non-key columns present on both sides.
const (
	LeftSuffix  = "_x"
	RightSuffix = "_y"
)

// InnerJoin joins left and right on the key column, keeping only keys present in
// both. Output rows follow left order; a key matching several right rows yields one
// output row per match, in right order. Rows with a null key never match.
func InnerJoin(left, right *Table, key string) (*Table, error) {
	li := left.ColumnIndex(key)
	if li < 0 {
		return nil, fmt.Errorf("%w: left table has no %q column", common.ErrDataAccess, key)
	}
	ri := right.ColumnIndex(key)
	if ri < 0 {
		return nil, fmt.Errorf("%w: right table has no %q column", common.ErrDataAccess, key)
	}

	leftNames := make(map[string]bool, left.Width())
	for _, c := range left.Columns {
		leftNames[c.Name] = true
	}
	rightNames := make(map[string]bool, right.Width())
	for _, c := range right.Columns {
		rightNames[c.Name] = true
	}

	out := &Table{}
	for _, c := range left.Columns {
		if c.Name != key && rightNames[c.Name] {
			c.Name += LeftSuffix
		}
		out.Columns = append(out.Columns, c)
	}
	for i, c := range right.Columns {
		if i == ri {
			continue
		}
		if leftNames[c.Name] {
			c.Name += RightSuffix
		}
		out.Columns = append(out.Columns, c)
	}

	index := make(map[string][]int, right.Len())
	for i, row := range right.Rows {
		if row[ri].Null {
			continue
		}
		k := row[ri].Format(right.Columns[ri].Kind)
		index[k] = append(index[k], i)
	}

	for _, lrow := range left.Rows {
		if lrow[li].Null {
			continue
		}
		matches := index[lrow[li].Format(left.Columns[li].Kind)]
		for _, m := range matches {
			rrow := right.Rows[m]
			row := make(Row, 0, out.Width())
			row = append(row, lrow...)
			row = append(row, rrow[:ri]...)
			row = append(row, rrow[ri+1:]...)
			out.Rows = append(out.Rows, row)
		}
	}

	return out, nil
}
