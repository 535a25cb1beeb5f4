package main

import (
	"log/slog"

	"github.com/Veraticus/disaster-triage/internal/config"
	"github.com/Veraticus/disaster-triage/internal/etl"
	"github.com/spf13/cobra"
)

const processUsage = `Please provide the filepaths of the messages and categories datasets as the first and second argument respectively, as well as the filepath of the database to save the cleaned data to as the third argument.

Example: triage process disaster_messages.csv disaster_categories.csv DisasterResponse.db`

func processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <messages_path> <categories_path> <database_path>",
		Short: "Merge, clean and store the labeled messages",
		Long: `Load the messages and categories CSV files, join them on id, expand the
categories field into one integer column per category, drop duplicate rows and
replace the messages table in the SQLite database.`,
		Args: exactArgs(3, processUsage),
		RunE: runProcess,
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	messagesPath := config.ExpandPath(args[0])
	categoriesPath := config.ExpandPath(args[1])
	dbPath := config.ExpandPath(args[2])

	ctx := cmd.Context()
	store, err := openStore(ctx, dbPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	processor := &etl.Processor{
		Store: store,
		Out:   cmd.OutOrStdout(),
		Table: settings.Table,
	}
	run, err := processor.Run(ctx, messagesPath, categoriesPath, dbPath)
	if err != nil {
		return err
	}

	stored, err := store.TableRowCount(ctx, run.Table)
	if err != nil {
		return err
	}

	slog.Debug("ETL run complete",
		"run_id", run.ID,
		"table", run.Table,
		"rows", stored,
		"duplicates_removed", run.DuplicateRows,
		"categories", len(run.Categories))
	return nil
}
