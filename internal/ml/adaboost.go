package ml

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/Veraticus/disaster-triage/internal/common"
)

// AdaBoost is a discrete SAMME ensemble of decision stumps with learning rate 1.
type AdaBoost struct {
	NEstimators int       `json:"n_estimators"`
	Classes     []int     `json:"classes"`
	Stumps      []Stump   `json:"stumps"`
	Weights     []float64 `json:"weights"`
	// Fallback is the majority class index, used when no stump was kept.
	Fallback int `json:"fallback"`
}

// NewAdaBoost creates an unfitted ensemble of up to n stumps.
func NewAdaBoost(n int) *AdaBoost {
	return &AdaBoost{NEstimators: n}
}

// Fit trains the ensemble on m with integer labels y.
func (a *AdaBoost) Fit(ctx context.Context, m Matrix, y []int) error {
	if m.Len() != len(y) {
		return fmt.Errorf("%w: %d rows but %d labels", common.ErrShapeMismatch, m.Len(), len(y))
	}
	return a.fit(ctx, newColumns(m), y)
}

func (a *AdaBoost) fit(ctx context.Context, c *columns, y []int) error {
	if a.NEstimators < 1 {
		return fmt.Errorf("%w: n_estimators must be positive, got %d", common.ErrConfig, a.NEstimators)
	}
	n := len(y)
	if n == 0 {
		return fmt.Errorf("%w: no training rows", common.ErrInsufficientData)
	}

	a.Classes = uniqueSorted(y)
	a.Stumps = a.Stumps[:0]
	a.Weights = a.Weights[:0]

	classIndex := make(map[int]int, len(a.Classes))
	for i, cls := range a.Classes {
		classIndex[cls] = i
	}
	enc := make([]int, n)
	counts := make([]float64, len(a.Classes))
	for i, label := range y {
		enc[i] = classIndex[label]
		counts[enc[i]]++
	}
	a.Fallback = argmax(counts)

	k := len(a.Classes)
	if k == 1 {
		return nil
	}

	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	pred := make([]int, n)

	for round := 0; round < a.NEstimators; round++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		s := fitStump(c, enc, k, w)
		s.predictColumns(c, pred)

		var wrong, sum float64
		for i := range w {
			sum += w[i]
			if pred[i] != enc[i] {
				wrong += w[i]
			}
		}
		errRate := wrong / sum

		if errRate <= 0 {
			a.Stumps = append(a.Stumps, s)
			a.Weights = append(a.Weights, 1)
			break
		}
		if errRate >= 1-1/float64(k) {
			break
		}

		alpha := math.Log((1-errRate)/errRate) + math.Log(float64(k-1))
		a.Stumps = append(a.Stumps, s)
		a.Weights = append(a.Weights, alpha)

		if round == a.NEstimators-1 {
			break
		}

		boost := math.Exp(alpha)
		sum = 0
		for i := range w {
			if pred[i] != enc[i] && w[i] > 0 {
				w[i] *= boost
			}
			sum += w[i]
		}
		if sum <= 0 || math.IsInf(sum, 0) || math.IsNaN(sum) {
			break
		}
		for i := range w {
			w[i] /= sum
		}
	}

	return nil
}

// PredictRow returns the predicted label for one row.
func (a *AdaBoost) PredictRow(v Vector) int {
	if len(a.Classes) == 0 {
		return 0
	}
	if len(a.Stumps) == 0 {
		return a.Classes[a.Fallback]
	}

	scores := make([]float64, len(a.Classes))
	for i, s := range a.Stumps {
		scores[s.PredictRow(v)] += a.Weights[i]
	}
	return a.Classes[argmax(scores)]
}

// Predict returns the predicted label for every row of m.
func (a *AdaBoost) Predict(m Matrix) []int {
	out := make([]int, m.Len())
	for i, row := range m.Rows {
		out[i] = a.PredictRow(row)
	}
	return out
}

func uniqueSorted(xs []int) []int {
	seen := make(map[int]struct{}, 2)
	for _, x := range xs {
		seen[x] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for x := range seen {
		out = append(out, x)
	}
	sort.Ints(out)
	return out
}
