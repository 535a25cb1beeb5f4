package etl

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/disaster-triage/internal/cli"
	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/Veraticus/disaster-triage/internal/model"
	"github.com/Veraticus/disaster-triage/internal/service"
	"github.com/google/uuid"
)

// Processor runs load, clean and save as one batch.
type Processor struct {
	Store service.DatasetStore
	Out   io.Writer
	Table string
}

// Run executes the pipeline and records the run. Each stage completes before the
// next begins; any failure aborts the run and leaves the stored table untouched.
func (p *Processor) Run(ctx context.Context, messagesPath, categoriesPath, databaseLabel string) (*model.ETLRun, error) {
	run := &model.ETLRun{
		ID:             uuid.NewString(),
		StartedAt:      time.Now(),
		MessagesPath:   messagesPath,
		CategoriesPath: categoriesPath,
		Table:          p.Table,
	}

	p.printf("%s\n    MESSAGES: %s\n    CATEGORIES: %s\n", cli.FormatTitle("Loading data..."), messagesPath, categoriesPath)
	joined, err := Load(messagesPath, categoriesPath)
	if err != nil {
		return nil, err
	}
	run.JoinedRows = joined.Len()

	p.printf("%s\n", cli.FormatTitle("Cleaning data..."))
	cleaned, err := Clean(joined)
	if err != nil {
		return nil, err
	}
	run.StoredRows = cleaned.Len()
	run.DuplicateRows = run.JoinedRows - run.StoredRows
	for _, c := range cleaned.Columns {
		if !model.IsMessageField(c.Name) {
			run.Categories = append(run.Categories, c.Name)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.printf("%s\n    DATABASE: %s\n", cli.FormatTitle("Saving data..."), databaseLabel)
	if err := p.Store.ReplaceTable(ctx, p.Table, cleaned); err != nil {
		return nil, err
	}
	run.FinishedAt = time.Now()

	if err := p.Store.RecordETLRun(ctx, run); err != nil {
		common.LogError(err, "Failed to record ETL run", common.Fields{"run_id": run.ID})
	}

	p.printf("%s\n", cli.FormatSuccess("Cleaned data saved to database!"))
	return run, nil
}

func (p *Processor) printf(format string, args ...any) {
	if p.Out == nil {
		return
	}
	_, _ = fmt.Fprintf(p.Out, format, args...)
}
