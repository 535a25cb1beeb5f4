// Package service defines the interfaces shared between the pipeline stages.
package service

import (
	"context"

	"github.com/Veraticus/disaster-triage/internal/dataset"
	"github.com/Veraticus/disaster-triage/internal/model"
)

// TableReader loads stored tables.
type TableReader interface {
	// ReadTable returns the named table in insertion order.
	ReadTable(ctx context.Context, name string) (*dataset.Table, error)
}

// DatasetStore defines the contract for our persistence layer.
type DatasetStore interface {
	TableReader

	// ReplaceTable atomically replaces the named table with t.
	ReplaceTable(ctx context.Context, name string, t *dataset.Table) error

	// Run bookkeeping
	RecordETLRun(ctx context.Context, run *model.ETLRun) error
	RecordTrainingRun(ctx context.Context, run *model.TrainingRun) error

	Close() error
}

// Predictor is the serving-side view of a trained model.
type Predictor interface {
	// Labels returns the target column names in prediction order.
	Labels() []string
	// Predict returns one label vector per input text.
	Predict(texts []string) ([][]int, error)
}
