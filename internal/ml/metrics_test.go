package ml

import (
	"testing"

	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubsetAccuracy(t *testing.T) {
	score, err := SubsetAccuracy(
		[][]int{{1, 0}, {0, 1}},
		[][]int{{1, 0}, {0, 0}},
	)
	require.NoError(t, err)
	assert.Equal(t, 0.5, score)

	_, err = SubsetAccuracy([][]int{{1}}, nil)
	require.ErrorIs(t, err, common.ErrShapeMismatch)

	_, err = SubsetAccuracy(nil, nil)
	require.ErrorIs(t, err, common.ErrInsufficientData)
}

func TestClassificationReport(t *testing.T) {
	yTrue := [][]int{{1, 0}, {0, 0}, {1, 0}, {1, 0}}
	yPred := [][]int{{1, 0}, {0, 0}, {0, 2}, {1, 0}}

	report, err := ClassificationReport([]string{"related", "request"}, yTrue, yPred)
	require.NoError(t, err)
	require.Len(t, report.Labels, 2)

	related := report.Labels[0]
	assert.Equal(t, "related", related.Label)
	assert.InDelta(t, 0.75, related.Accuracy, 1e-9)
	require.Len(t, related.Classes, 2)

	zero := related.Classes[0]
	assert.Equal(t, 0, zero.Class)
	assert.InDelta(t, 0.5, zero.Precision, 1e-9)
	assert.InDelta(t, 1.0, zero.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, zero.F1, 1e-9)
	assert.Equal(t, 1, zero.Support)

	one := related.Classes[1]
	assert.InDelta(t, 1.0, one.Precision, 1e-9)
	assert.InDelta(t, 2.0/3.0, one.Recall, 1e-9)
	assert.InDelta(t, 0.8, one.F1, 1e-9)
	assert.Equal(t, 3, one.Support)

	assert.InDelta(t, 0.75, related.MacroAvg.Precision, 1e-9)
	assert.InDelta(t, 5.0/6.0, related.MacroAvg.Recall, 1e-9)
	assert.InDelta(t, 0.875, related.WeightedAvg.Precision, 1e-9)
	assert.InDelta(t, 0.75, related.WeightedAvg.Recall, 1e-9)
	assert.Equal(t, 4, related.WeightedAvg.Support)

	request := report.Labels[1]
	require.Len(t, request.Classes, 2, "predicted-only classes are reported")
	assert.Equal(t, 2, request.Classes[1].Class)
	assert.Equal(t, 0, request.Classes[1].Support)
	assert.Zero(t, request.Classes[1].Precision)
	assert.Zero(t, request.Classes[1].Recall)
	assert.Zero(t, request.Classes[1].F1)
}

func TestClassificationReport_ShapeMismatch(t *testing.T) {
	_, err := ClassificationReport([]string{"a"}, [][]int{{1}}, [][]int{{1}, {0}})
	require.ErrorIs(t, err, common.ErrShapeMismatch)

	_, err = ClassificationReport([]string{"a", "b"}, [][]int{{1}}, [][]int{{1}})
	require.ErrorIs(t, err, common.ErrShapeMismatch)
}
