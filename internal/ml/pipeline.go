package ml

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/Veraticus/disaster-triage/internal/textproc"
)

// ErrNotFitted is returned when predicting with a pipeline that was never fitted.
var ErrNotFitted = errors.New("pipeline is not fitted")

// Params are the tunable pipeline hyperparameters.
type Params struct {
	UseIDF      bool `json:"use_idf" yaml:"use_idf"`
	NEstimators int  `json:"n_estimators" yaml:"n_estimators"`
}

func (p Params) String() string {
	return "tfidf__use_idf=" + strconv.FormatBool(p.UseIDF) +
		" clf__estimator__n_estimators=" + strconv.Itoa(p.NEstimators)
}

// Stage names one pipeline step and its settings.
type Stage struct {
	Name   string         `json:"name" yaml:"name"`
	Kind   string         `json:"kind" yaml:"kind"`
	Params map[string]any `json:"params" yaml:"params"`
}

// Pipeline chains tokenization, term counting, tf-idf and the multi-label classifier.
type Pipeline struct {
	TokenizerName string                 `json:"tokenizer"`
	Params        Params                 `json:"params"`
	LabelNames    []string               `json:"labels"`
	Vect          *CountVectorizer       `json:"vect"`
	Tfidf         *TfidfTransformer      `json:"tfidf"`
	Clf           *MultiOutputClassifier `json:"clf"`

	tokenizer textproc.Tokenizer
}

// NewPipeline creates an unfitted pipeline.
func NewPipeline(tok textproc.Tokenizer, p Params) *Pipeline {
	return &Pipeline{
		TokenizerName: tok.Name(),
		Params:        p,
		Vect:          &CountVectorizer{},
		Tfidf:         &TfidfTransformer{UseIDF: p.UseIDF},
		Clf:           &MultiOutputClassifier{NEstimators: p.NEstimators},
		tokenizer:     tok,
	}
}

// Stages describes the ordered steps for inspection.
func (p *Pipeline) Stages() []Stage {
	return []Stage{
		{Name: "vect", Kind: "CountVectorizer", Params: map[string]any{
			"tokenizer":  p.TokenizerName,
			"vocabulary": p.Vect.Len(),
		}},
		{Name: "tfidf", Kind: "TfidfTransformer", Params: map[string]any{
			"use_idf":    p.Tfidf.UseIDF,
			"smooth_idf": true,
			"norm":       "l2",
		}},
		{Name: "clf", Kind: "MultiOutputClassifier", Params: map[string]any{
			"estimator":    "AdaBoostClassifier",
			"algorithm":    "SAMME",
			"n_estimators": p.Clf.NEstimators,
			"outputs":      len(p.Clf.Estimators),
		}},
	}
}

// Fit trains every stage on pre-tokenized documents and a rows × labels target.
func (p *Pipeline) Fit(ctx context.Context, docs [][]string, y [][]int, workers int) error {
	if len(docs) != len(y) {
		return fmt.Errorf("%w: %d documents but %d label rows", common.ErrShapeMismatch, len(docs), len(y))
	}
	if err := p.Vect.Fit(docs); err != nil {
		return err
	}
	counts := p.Vect.Transform(docs)
	p.Tfidf.Fit(counts)
	return p.Clf.Fit(ctx, p.Tfidf.Transform(counts), y, workers)
}

// FitText tokenizes texts and fits the pipeline.
func (p *Pipeline) FitText(ctx context.Context, texts []string, y [][]int, workers int) error {
	return p.Fit(ctx, TokenizeAll(p.tokenizer, texts), y, workers)
}

// PredictTokens predicts labels for pre-tokenized documents.
func (p *Pipeline) PredictTokens(docs [][]string) ([][]int, error) {
	if p.Vect == nil || p.Vect.Len() == 0 || p.Clf == nil || len(p.Clf.Estimators) == 0 {
		return nil, ErrNotFitted
	}
	return p.Clf.Predict(p.Tfidf.Transform(p.Vect.Transform(docs))), nil
}

// Predict tokenizes texts and returns one prediction row per text, ordered as Labels().
func (p *Pipeline) Predict(texts []string) ([][]int, error) {
	if p.tokenizer == nil {
		return nil, fmt.Errorf("%w: no tokenizer bound", ErrNotFitted)
	}
	return p.PredictTokens(TokenizeAll(p.tokenizer, texts))
}

// Labels returns the target names in prediction column order.
func (p *Pipeline) Labels() []string { return p.LabelNames }

// Tokenizer returns the bound tokenizer.
func (p *Pipeline) Tokenizer() textproc.Tokenizer { return p.tokenizer }

// bind resolves the tokenizer after deserialization.
func (p *Pipeline) bind() error {
	tok, err := textproc.Lookup(p.TokenizerName)
	if err != nil {
		return err
	}
	p.tokenizer = tok
	p.Vect.buildIndex()
	return nil
}

// TokenizeAll applies tok to every text.
func TokenizeAll(tok textproc.Tokenizer, texts []string) [][]string {
	docs := make([][]string, len(texts))
	for i, t := range texts {
		docs[i] = tok.Tokenize(t)
	}
	return docs
}
