// Package etl merges, cleans and persists the labeled message data.
package etl

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/disaster-triage/internal/dataset"
	"github.com/Veraticus/disaster-triage/internal/model"
)

// Load reads the messages and categories files and inner-joins them on id.
// Rows whose id is missing from either file are dropped on purpose.
func Load(messagesPath, categoriesPath string) (*dataset.Table, error) {
	messages, err := dataset.ReadCSV(messagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	categories, err := dataset.ReadCSV(categoriesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	joined, err := dataset.InnerJoin(messages, categories, model.ColumnID)
	if err != nil {
		return nil, fmt.Errorf("failed to join messages and categories: %w", err)
	}

	slog.Info("Loaded source data",
		"messages", messages.Len(),
		"categories", categories.Len(),
		"joined", joined.Len())

	return joined, nil
}
