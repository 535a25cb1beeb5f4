package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/disaster-triage/internal/cli"
	"github.com/Veraticus/disaster-triage/internal/ml"
)

var reportHeaders = []string{"", "precision", "recall", "f1-score", "support"}

// formatReport renders one classification table per category.
func formatReport(r *ml.Report) string {
	var b strings.Builder
	for _, lr := range r.Labels {
		rows := make([][]string, 0, len(lr.Classes)+3)
		for _, c := range lr.Classes {
			rows = append(rows, []string{
				strconv.Itoa(c.Class),
				score(c.Precision), score(c.Recall), score(c.F1),
				strconv.Itoa(c.Support),
			})
		}
		rows = append(rows,
			[]string{"accuracy", "", "", score(lr.Accuracy), strconv.Itoa(lr.WeightedAvg.Support)},
			averageRow("macro avg", lr.MacroAvg),
			averageRow("weighted avg", lr.WeightedAvg),
		)

		b.WriteString(cli.TitleStyle.Render(lr.Label))
		b.WriteByte('\n')
		b.WriteString(cli.RenderTable(reportHeaders, rows))
		b.WriteByte('\n')
	}
	return b.String()
}

func averageRow(name string, a ml.Average) []string {
	return []string{name, score(a.Precision), score(a.Recall), score(a.F1), strconv.Itoa(a.Support)}
}

func score(x float64) string {
	return fmt.Sprintf("%.2f", x)
}
