package ml

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/Veraticus/disaster-triage/internal/textproc"
	"golang.org/x/sync/errgroup"
)

// DefaultGrid is n_estimators {50, 60, 70} × use_idf {true, false}, ordered
// n_estimators first with use_idf=true before false.
func DefaultGrid() []Params {
	var grid []Params
	for _, n := range []int{50, 60, 70} {
		for _, idf := range []bool{true, false} {
			grid = append(grid, Params{UseIDF: idf, NEstimators: n})
		}
	}
	return grid
}

// CandidateResult is the cross-validation outcome of one grid point.
type CandidateResult struct {
	Params     Params    `json:"params" yaml:"params"`
	FoldScores []float64 `json:"fold_scores" yaml:"fold_scores"`
	MeanScore  float64   `json:"mean_score" yaml:"mean_score"`
	StdScore   float64   `json:"std_score" yaml:"std_score"`
	Rank       int       `json:"rank" yaml:"rank"`
}

// SearchResult holds every candidate's scores and the refitted winner.
type SearchResult struct {
	Candidates []CandidateResult
	BestIndex  int
	Best       *Pipeline
}

// BestParams returns the selected grid point.
func (r *SearchResult) BestParams() Params { return r.Candidates[r.BestIndex].Params }

// BestScore returns the selected candidate's mean cross-validation score.
func (r *SearchResult) BestScore() float64 { return r.Candidates[r.BestIndex].MeanScore }

// GridSearch evaluates every grid point with k-fold cross-validation scored by
// subset accuracy, then refits the best on all rows.
type GridSearch struct {
	Tokenizer textproc.Tokenizer
	Grid      []Params
	Folds     int
	Workers   int
	// OnFit, when set, is called after each completed fit. Calls are serialized.
	OnFit func()

	mu sync.Mutex
}

// NewGridSearch creates a search over grid.
func NewGridSearch(tok textproc.Tokenizer, grid []Params, folds, workers int) *GridSearch {
	return &GridSearch{Tokenizer: tok, Grid: grid, Folds: folds, Workers: workers}
}

// Total returns how many fits Fit performs, the final refit included.
func (g *GridSearch) Total() int { return len(g.Grid)*g.Folds + 1 }

// Fit runs the search. Texts are tokenized once; (candidate, fold) pairs run in
// parallel and write into fixed slots, so results do not depend on scheduling.
func (g *GridSearch) Fit(ctx context.Context, texts []string, y [][]int, labels []string) (*SearchResult, error) {
	if len(g.Grid) == 0 {
		return nil, fmt.Errorf("%w: empty parameter grid", common.ErrConfig)
	}
	if g.Tokenizer == nil {
		return nil, fmt.Errorf("%w: no tokenizer", common.ErrConfig)
	}
	if len(texts) != len(y) {
		return nil, fmt.Errorf("%w: %d texts but %d label rows", common.ErrShapeMismatch, len(texts), len(y))
	}
	folds, err := KFold(len(texts), g.Folds)
	if err != nil {
		return nil, err
	}

	docs := TokenizeAll(g.Tokenizer, texts)
	scores := make([][]float64, len(g.Grid))
	for c := range scores {
		scores[c] = make([]float64, len(folds))
	}

	slog.Info("Starting grid search",
		"candidates", len(g.Grid),
		"folds", len(folds),
		"rows", len(texts),
		"workers", g.Workers)

	eg, egCtx := errgroup.WithContext(ctx)
	if g.Workers > 0 {
		eg.SetLimit(g.Workers)
	}
	for c, params := range g.Grid {
		for f, fold := range folds {
			eg.Go(func() error {
				score, err := g.scoreFold(egCtx, params, docs, y, fold)
				if err != nil {
					return fmt.Errorf("candidate %s fold %d: %w", params, f, err)
				}
				scores[c][f] = score
				g.step()
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &SearchResult{Candidates: make([]CandidateResult, len(g.Grid))}
	for c, params := range g.Grid {
		mean, std := meanStd(scores[c])
		result.Candidates[c] = CandidateResult{Params: params, FoldScores: scores[c], MeanScore: mean, StdScore: std}
		if mean > result.Candidates[result.BestIndex].MeanScore {
			result.BestIndex = c
		}
	}
	for c := range result.Candidates {
		rank := 1
		for o := range result.Candidates {
			if result.Candidates[o].MeanScore > result.Candidates[c].MeanScore {
				rank++
			}
		}
		result.Candidates[c].Rank = rank
	}

	best := NewPipeline(g.Tokenizer, result.BestParams())
	best.LabelNames = append([]string(nil), labels...)
	if err := best.Fit(ctx, docs, y, g.Workers); err != nil {
		return nil, fmt.Errorf("failed to refit best candidate: %w", err)
	}
	g.step()
	result.Best = best

	slog.Info("Grid search complete",
		"best_params", result.BestParams().String(),
		"best_score", result.BestScore())

	return result, nil
}

func (g *GridSearch) scoreFold(ctx context.Context, params Params, docs [][]string, y [][]int, fold Fold) (float64, error) {
	p := NewPipeline(g.Tokenizer, params)
	if err := p.Fit(ctx, subsetDocs(docs, fold.Train), subsetRows(y, fold.Train), 1); err != nil {
		return 0, err
	}
	pred, err := p.PredictTokens(subsetDocs(docs, fold.Test))
	if err != nil {
		return 0, err
	}
	return SubsetAccuracy(subsetRows(y, fold.Test), pred)
}

func (g *GridSearch) step() {
	if g.OnFit == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.OnFit()
}

func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}

func subsetDocs(docs [][]string, idx []int) [][]string {
	out := make([][]string, len(idx))
	for i, r := range idx {
		out[i] = docs[r]
	}
	return out
}

func subsetRows(y [][]int, idx []int) [][]int {
	out := make([][]int, len(idx))
	for i, r := range idx {
		out[i] = y[r]
	}
	return out
}
