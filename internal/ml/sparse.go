// Package ml implements the message classification pipeline: bag-of-words counts,
// tf-idf weighting and one boosted decision-stump ensemble per label, plus the
// model selection and evaluation helpers around it.
package ml

import (
	"math"
	"sort"
)

// Vector is a sparse row. Indices are strictly increasing.
type Vector struct {
	Indices []int     `json:"i"`
	Values  []float64 `json:"v"`
}

// At returns the value stored for feature j, or 0.
func (v Vector) At(j int) float64 {
	k := sort.SearchInts(v.Indices, j)
	if k < len(v.Indices) && v.Indices[k] == j {
		return v.Values[k]
	}
	return 0
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Matrix is a row-major sparse matrix.
type Matrix struct {
	Rows []Vector
	Cols int
}

// Len returns the number of rows.
func (m Matrix) Len() int { return len(m.Rows) }

// Subset returns the rows at idx, sharing storage with m.
func (m Matrix) Subset(idx []int) Matrix {
	out := Matrix{Rows: make([]Vector, len(idx)), Cols: m.Cols}
	for i, r := range idx {
		out.Rows[i] = m.Rows[r]
	}
	return out
}

// entry is one non-zero cell of a column.
type entry struct {
	row   int
	value float64
}

// columns is a column-major view of a matrix with each column sorted by value.
// Boosting fits many stumps on the same rows, so the sort is done once.
type columns struct {
	rows int
	cols [][]entry
}

func newColumns(m Matrix) *columns {
	c := &columns{rows: m.Len(), cols: make([][]entry, m.Cols)}
	for r, row := range m.Rows {
		for k, j := range row.Indices {
			if row.Values[k] == 0 {
				continue
			}
			c.cols[j] = append(c.cols[j], entry{row: r, value: row.Values[k]})
		}
	}
	for _, col := range c.cols {
		sort.SliceStable(col, func(a, b int) bool { return col[a].value < col[b].value })
	}
	return c
}
