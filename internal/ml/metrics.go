package ml

import (
	"fmt"

	"github.com/Veraticus/disaster-triage/internal/common"
)

// SubsetAccuracy is the share of rows whose every label was predicted exactly.
func SubsetAccuracy(yTrue, yPred [][]int) (float64, error) {
	if len(yTrue) != len(yPred) {
		return 0, fmt.Errorf("%w: %d true rows but %d predicted", common.ErrShapeMismatch, len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("%w: no rows to score", common.ErrInsufficientData)
	}

	hits := 0
	for i := range yTrue {
		if len(yTrue[i]) != len(yPred[i]) {
			return 0, fmt.Errorf("%w: row %d has %d true labels but %d predicted", common.ErrShapeMismatch, i, len(yTrue[i]), len(yPred[i]))
		}
		match := true
		for j := range yTrue[i] {
			if yTrue[i][j] != yPred[i][j] {
				match = false
				break
			}
		}
		if match {
			hits++
		}
	}
	return float64(hits) / float64(len(yTrue)), nil
}

// ClassMetrics scores one class value of one label.
type ClassMetrics struct {
	Class     int     `json:"class" yaml:"class"`
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
	Support   int     `json:"support" yaml:"support"`
}

// Average is an aggregate over the classes of one label.
type Average struct {
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
	Support   int     `json:"support" yaml:"support"`
}

// LabelReport is the classification report for one target column.
type LabelReport struct {
	Label       string         `json:"label" yaml:"label"`
	Classes     []ClassMetrics `json:"classes" yaml:"classes"`
	Accuracy    float64        `json:"accuracy" yaml:"accuracy"`
	MacroAvg    Average        `json:"macro_avg" yaml:"macro_avg"`
	WeightedAvg Average        `json:"weighted_avg" yaml:"weighted_avg"`
}

// Report holds one LabelReport per target column, in column order.
type Report struct {
	Labels []LabelReport `json:"labels" yaml:"labels"`
}

// ClassificationReport scores predictions label by label. Classes are the sorted
// union of true and predicted values; undefined ratios are 0.
func ClassificationReport(labels []string, yTrue, yPred [][]int) (*Report, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("%w: %d true rows but %d predicted", common.ErrShapeMismatch, len(yTrue), len(yPred))
	}
	for i := range yTrue {
		if len(yTrue[i]) != len(labels) || len(yPred[i]) != len(labels) {
			return nil, fmt.Errorf("%w: row %d does not have %d labels", common.ErrShapeMismatch, i, len(labels))
		}
	}

	report := &Report{Labels: make([]LabelReport, len(labels))}
	for j, name := range labels {
		truth := make([]int, len(yTrue))
		pred := make([]int, len(yTrue))
		for i := range yTrue {
			truth[i] = yTrue[i][j]
			pred[i] = yPred[i][j]
		}
		report.Labels[j] = labelReport(name, truth, pred)
	}
	return report, nil
}

func labelReport(name string, truth, pred []int) LabelReport {
	classes := uniqueSorted(append(append([]int(nil), truth...), pred...))
	lr := LabelReport{Label: name, Classes: make([]ClassMetrics, len(classes))}

	correct := 0
	for i := range truth {
		if truth[i] == pred[i] {
			correct++
		}
	}
	if len(truth) > 0 {
		lr.Accuracy = float64(correct) / float64(len(truth))
	}

	for c, cls := range classes {
		var tp, fp, fn int
		for i := range truth {
			switch {
			case truth[i] == cls && pred[i] == cls:
				tp++
			case truth[i] != cls && pred[i] == cls:
				fp++
			case truth[i] == cls && pred[i] != cls:
				fn++
			}
		}
		m := ClassMetrics{
			Class:     cls,
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   tp + fn,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		lr.Classes[c] = m
	}

	lr.MacroAvg, lr.WeightedAvg = averages(lr.Classes)
	return lr
}

func averages(classes []ClassMetrics) (macro, weighted Average) {
	if len(classes) == 0 {
		return macro, weighted
	}
	total := 0
	for _, m := range classes {
		macro.Precision += m.Precision
		macro.Recall += m.Recall
		macro.F1 += m.F1
		total += m.Support

		weighted.Precision += m.Precision * float64(m.Support)
		weighted.Recall += m.Recall * float64(m.Support)
		weighted.F1 += m.F1 * float64(m.Support)
	}

	n := float64(len(classes))
	macro.Precision /= n
	macro.Recall /= n
	macro.F1 /= n
	macro.Support = total

	weighted.Support = total
	if total > 0 {
		weighted.Precision /= float64(total)
		weighted.Recall /= float64(total)
		weighted.F1 /= float64(total)
	}
	return macro, weighted
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
