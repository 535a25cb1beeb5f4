package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/disaster-triage/internal/dataset"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrNilTable     = errors.New("table cannot be nil")
	ErrNoColumns    = errors.New("table has no columns")
	ErrBadColumn    = errors.New("invalid column")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTable checks that t can be written as a SQL table.
func validateTable(t *dataset.Table) error {
	if t == nil {
		return ErrNilTable
	}
	if t.Width() == 0 {
		return ErrNoColumns
	}

	seen := make(map[string]bool, t.Width())
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: empty column name", ErrBadColumn)
		}
		key := strings.ToLower(c.Name)
		if seen[key] {
			return fmt.Errorf("%w: duplicate column %q", ErrBadColumn, c.Name)
		}
		seen[key] = true
	}

	for i, row := range t.Rows {
		if len(row) != t.Width() {
			return fmt.Errorf("%w: row %d has %d cells, expected %d", ErrBadColumn, i, len(row), t.Width())
		}
	}
	return nil
}

// quoteIdent quotes a SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
