package ml

import (
	"fmt"
	"sort"

	"github.com/Veraticus/disaster-triage/internal/common"
)

// CountVectorizer maps token sequences to term-count vectors.
type CountVectorizer struct {
	// Terms holds the vocabulary in column order (sorted).
	Terms []string `json:"terms"`

	index map[string]int
}

// Fit learns the vocabulary from tokenized documents.
func (v *CountVectorizer) Fit(docs [][]string) error {
	seen := make(map[string]struct{})
	for _, doc := range docs {
		for _, tok := range doc {
			seen[tok] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return fmt.Errorf("%w: empty vocabulary; documents contain no tokens", common.ErrInsufficientData)
	}

	v.Terms = make([]string, 0, len(seen))
	for tok := range seen {
		v.Terms = append(v.Terms, tok)
	}
	sort.Strings(v.Terms)
	v.buildIndex()
	return nil
}

// Transform counts vocabulary terms in each document. Unknown tokens are ignored.
func (v *CountVectorizer) Transform(docs [][]string) Matrix {
	if v.index == nil {
		v.buildIndex()
	}

	m := Matrix{Rows: make([]Vector, len(docs)), Cols: len(v.Terms)}
	for i, doc := range docs {
		counts := make(map[int]float64, len(doc))
		for _, tok := range doc {
			if j, ok := v.index[tok]; ok {
				counts[j]++
			}
		}
		row := Vector{Indices: make([]int, 0, len(counts))}
		for j := range counts {
			row.Indices = append(row.Indices, j)
		}
		sort.Ints(row.Indices)
		row.Values = make([]float64, len(row.Indices))
		for k, j := range row.Indices {
			row.Values[k] = counts[j]
		}
		m.Rows[i] = row
	}
	return m
}

// Len returns the vocabulary size.
func (v *CountVectorizer) Len() int { return len(v.Terms) }

func (v *CountVectorizer) buildIndex() {
	v.index = make(map[string]int, len(v.Terms))
	for j, t := range v.Terms {
		v.index[t] = j
	}
}
