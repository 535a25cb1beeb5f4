// Package train fits and evaluates the message classifier from a stored table.
package train

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/Veraticus/disaster-triage/internal/dataset"
	"github.com/Veraticus/disaster-triage/internal/ml"
	"github.com/Veraticus/disaster-triage/internal/model"
	"github.com/Veraticus/disaster-triage/internal/service"
	"github.com/Veraticus/disaster-triage/internal/textproc"
)

// Options control one training run. Zero values fall back to the strict
// tokenizer and the default grid.
type Options struct {
	Tokenizer textproc.Tokenizer
	// OnStart receives the number of fits the search will perform.
	OnStart   func(total int)
	OnFit     func()
	Table     string
	Grid      []ml.Params
	TestSize  float64
	Seed      uint64
	Folds     int
	Workers   int
}

// Result is a fitted search plus its held-out evaluation.
type Result struct {
	Search      *ml.SearchResult
	Report      *ml.Report
	Labels      []string
	TrainRows   int
	TestRows    int
	SubsetScore float64
}

// Dataset is the training view of a cleaned table.
type Dataset struct {
	Texts  []string
	Y      [][]int
	Labels []string
}

// Train reads opts.Table, splits it, runs the grid search on the training part
// and scores the winner on the held-out part.
func Train(ctx context.Context, store service.TableReader, opts Options) (*Result, error) {
	tok := opts.Tokenizer
	if tok == nil {
		var err error
		if tok, err = textproc.Lookup(textproc.StrictName); err != nil {
			return nil, err
		}
	}
	grid := opts.Grid
	if len(grid) == 0 {
		grid = ml.DefaultGrid()
	}

	tbl, err := store.ReadTable(ctx, opts.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to load table %s: %w", opts.Table, err)
	}

	data, err := Prepare(tbl)
	if err != nil {
		return nil, err
	}

	trainIdx, testIdx, err := ml.TrainTestSplit(len(data.Texts), opts.TestSize, opts.Seed)
	if err != nil {
		return nil, err
	}
	trainX, trainY := data.subset(trainIdx)
	testX, testY := data.subset(testIdx)

	slog.Info("Training classifier",
		"table", opts.Table,
		"labels", len(data.Labels),
		"train_rows", len(trainX),
		"test_rows", len(testX))

	search := ml.NewGridSearch(tok, grid, opts.Folds, opts.Workers)
	search.OnFit = opts.OnFit
	if opts.OnStart != nil {
		opts.OnStart(search.Total())
	}
	result, err := search.Fit(ctx, trainX, trainY, data.Labels)
	if err != nil {
		return nil, err
	}

	pred, err := result.Best.Predict(testX)
	if err != nil {
		return nil, err
	}
	report, err := ml.ClassificationReport(data.Labels, testY, pred)
	if err != nil {
		return nil, err
	}
	subset, err := ml.SubsetAccuracy(testY, pred)
	if err != nil {
		return nil, err
	}

	return &Result{
		Search:      result,
		Report:      report,
		Labels:      data.Labels,
		TrainRows:   len(trainX),
		TestRows:    len(testX),
		SubsetScore: subset,
	}, nil
}

// Prepare selects the message column as input and every remaining integer
// column, other than the message fields, as a target.
func Prepare(tbl *dataset.Table) (*Dataset, error) {
	texts, err := tbl.TextColumn(model.ColumnMessage)
	if err != nil {
		return nil, err
	}

	data := &Dataset{Texts: texts, Y: make([][]int, tbl.Len())}
	var columns [][]int
	for _, c := range tbl.Columns {
		if model.IsMessageField(c.Name) || c.Kind != dataset.KindInteger {
			continue
		}
		values, err := tbl.IntColumn(c.Name)
		if err != nil {
			return nil, err
		}
		data.Labels = append(data.Labels, c.Name)
		columns = append(columns, values)
	}
	if len(data.Labels) == 0 {
		return nil, fmt.Errorf("%w: table has no category columns", common.ErrInsufficientData)
	}

	for i := range data.Y {
		row := make([]int, len(columns))
		for j, col := range columns {
			row[j] = col[i]
		}
		data.Y[i] = row
	}
	return data, nil
}

func (d *Dataset) subset(idx []int) ([]string, [][]int) {
	texts := make([]string, len(idx))
	y := make([][]int, len(idx))
	for i, r := range idx {
		texts[i] = d.Texts[r]
		y[i] = d.Y[r]
	}
	return texts, y
}
