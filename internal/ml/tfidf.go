package ml

import "math"

// TfidfTransformer reweights term counts by smoothed inverse document frequency
// and scales every row to unit L2 norm.
type TfidfTransformer struct {
	UseIDF bool      `json:"use_idf"`
	IDF    []float64 `json:"idf,omitempty"`
}

// Fit computes idf = ln((1+n)/(1+df)) + 1 for each column when UseIDF is set.
func (t *TfidfTransformer) Fit(m Matrix) {
	t.IDF = nil
	if !t.UseIDF {
		return
	}

	df := make([]float64, m.Cols)
	for _, row := range m.Rows {
		for k, j := range row.Indices {
			if row.Values[k] != 0 {
				df[j]++
			}
		}
	}

	n := float64(m.Len())
	t.IDF = make([]float64, m.Cols)
	for j := range df {
		t.IDF[j] = math.Log((1+n)/(1+df[j])) + 1
	}
}

// Transform returns a weighted, normalized copy of m.
func (t *TfidfTransformer) Transform(m Matrix) Matrix {
	out := Matrix{Rows: make([]Vector, m.Len()), Cols: m.Cols}
	for i, row := range m.Rows {
		v := Vector{
			Indices: append([]int(nil), row.Indices...),
			Values:  make([]float64, len(row.Values)),
		}
		for k, j := range row.Indices {
			x := row.Values[k]
			if t.UseIDF && j < len(t.IDF) {
				x *= t.IDF[j]
			}
			v.Values[k] = x
		}
		if norm := v.Norm(); norm > 0 {
			for k := range v.Values {
				v.Values[k] /= norm
			}
		}
		out.Rows[i] = v
	}
	return out
}
