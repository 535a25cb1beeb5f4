package ml

import (
	"context"
	"fmt"

	"github.com/Veraticus/disaster-triage/internal/common"
	"golang.org/x/sync/errgroup"
)

// MultiOutputClassifier fits one independent AdaBoost ensemble per target column.
type MultiOutputClassifier struct {
	NEstimators int         `json:"n_estimators"`
	Estimators  []*AdaBoost `json:"estimators"`
}

// Fit trains one ensemble per column of y (rows × labels), running up to workers
// label fits at once.
func (c *MultiOutputClassifier) Fit(ctx context.Context, m Matrix, y [][]int, workers int) error {
	if m.Len() != len(y) {
		return fmt.Errorf("%w: %d rows but %d label rows", common.ErrShapeMismatch, m.Len(), len(y))
	}
	if len(y) == 0 {
		return fmt.Errorf("%w: no training rows", common.ErrInsufficientData)
	}
	nLabels := len(y[0])
	if nLabels == 0 {
		return fmt.Errorf("%w: no target columns", common.ErrInsufficientData)
	}
	for i, row := range y {
		if len(row) != nLabels {
			return fmt.Errorf("%w: label row %d has %d values, expected %d", common.ErrShapeMismatch, i, len(row), nLabels)
		}
	}

	cols := newColumns(m)
	estimators := make([]*AdaBoost, nLabels)

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for j := 0; j < nLabels; j++ {
		g.Go(func() error {
			target := make([]int, len(y))
			for i := range y {
				target[i] = y[i][j]
			}
			est := NewAdaBoost(c.NEstimators)
			if err := est.fit(gctx, cols, target); err != nil {
				return fmt.Errorf("label %d: %w", j, err)
			}
			estimators[j] = est
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	c.Estimators = estimators
	return nil
}

// Predict returns a rows × labels matrix of predictions.
func (c *MultiOutputClassifier) Predict(m Matrix) [][]int {
	out := make([][]int, m.Len())
	for i, row := range m.Rows {
		out[i] = make([]int, len(c.Estimators))
		for j, est := range c.Estimators {
			out[i][j] = est.PredictRow(row)
		}
	}
	return out
}
