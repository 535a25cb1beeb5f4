package etl

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/Veraticus/disaster-triage/internal/dataset"
	"github.com/Veraticus/disaster-triage/internal/model"
)

// Clean expands the categories field into one integer column per category,
// drops the raw field and removes exact duplicate rows.
//
// Category names come from the first row: each token minus its "-<digit>" suffix.
// Every other row must carry the same names in the same order.
// A table without a categories column is only deduplicated.
func Clean(t *dataset.Table) (*dataset.Table, error) {
	if t.ColumnIndex(model.ColumnCategories) < 0 {
		slog.Debug("No categories column, deduplicating only")
		deduped, _ := t.DropDuplicates()
		return deduped, nil
	}

	labels, err := ExpandCategories(t)
	if err != nil {
		return nil, err
	}

	rest, err := t.Drop(model.ColumnCategories)
	if err != nil {
		return nil, err
	}

	merged, err := dataset.HConcat(rest, labels)
	if err != nil {
		return nil, fmt.Errorf("failed to concatenate category columns: %w", err)
	}

	cleaned, removed := merged.DropDuplicates()
	slog.Info("Cleaned data",
		"categories", labels.Width(),
		"rows", cleaned.Len(),
		"duplicates_removed", removed)

	return cleaned, nil
}

// ExpandCategories splits the categories field of every row into a table with
// one integer column per category.
func ExpandCategories(t *dataset.Table) (*dataset.Table, error) {
	idx := t.ColumnIndex(model.ColumnCategories)
	if idx < 0 {
		return nil, fmt.Errorf("%w: column %q", common.ErrNotFound, model.ColumnCategories)
	}

	out := &dataset.Table{Rows: make([]dataset.Row, 0, t.Len())}
	if t.Len() == 0 {
		return out, nil
	}

	names, err := CategoryNames(t.Rows[0][idx].Text)
	if err != nil {
		return nil, fmt.Errorf("row 0: %w", err)
	}
	for _, name := range names {
		out.Columns = append(out.Columns, dataset.Column{Name: name, Kind: dataset.KindInteger})
	}

	for r, row := range t.Rows {
		tokens := splitCategories(row[idx].Text)
		if len(tokens) != len(names) {
			return nil, fmt.Errorf("%w: row %d has %d category tokens, expected %d",
				common.ErrDataQuality, r, len(tokens), len(names))
		}

		values := make(dataset.Row, len(tokens))
		for c, token := range tokens {
			name, value, err := parseToken(token)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", r, err)
			}
			if name != names[c] {
				return nil, fmt.Errorf("%w: row %d token %d is %q, expected category %q",
					common.ErrDataQuality, r, c, token, names[c])
			}
			values[c] = dataset.Int(value)
		}
		out.Rows = append(out.Rows, values)
	}

	return out, nil
}

// CategoryNames derives the ordered category names from one raw categories field.
func CategoryNames(raw string) ([]string, error) {
	tokens := splitCategories(raw)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: categories field is empty", common.ErrDataQuality)
	}
	names := make([]string, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for i, token := range tokens {
		name, _, err := parseToken(token)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: category %q appears twice", common.ErrDataQuality, name)
		}
		seen[name] = true
		names[i] = name
	}
	return names, nil
}

func splitCategories(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, model.CategoryDelimiter)
}

// parseToken splits a "name-digit" token. Digits other than 0 and 1 are kept.
func parseToken(token string) (string, int64, error) {
	if len(token) < 3 {
		return "", 0, fmt.Errorf("%w: malformed category token %q", common.ErrDataQuality, token)
	}
	last := token[len(token)-1]
	if last < '0' || last > '9' {
		return "", 0, fmt.Errorf("%w: category token %q does not end in a digit", common.ErrDataQuality, token)
	}
	return token[:len(token)-2], int64(last - '0'), nil
}
