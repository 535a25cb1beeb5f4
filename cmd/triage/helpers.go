package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/Veraticus/disaster-triage/internal/config"
	"github.com/Veraticus/disaster-triage/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// exactArgs rejects a wrong positional argument count with a friendly usage message.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return common.NewUserError(usage,
				fmt.Errorf("%w: expected %d arguments, got %d", common.ErrConfig, n, len(args)))
		}
		return nil
	}
}

// minArgs is exactArgs for commands taking a variadic tail.
func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return common.NewUserError(usage,
				fmt.Errorf("%w: expected at least %d arguments, got %d", common.ErrConfig, n, len(args)))
		}
		return nil
	}
}

// loadSettings resolves the configuration for the current command.
func loadSettings() (config.Settings, error) {
	return config.Load(viper.GetViper())
}

// openStore opens and migrates the database at dbPath. Callers must Close it.
func openStore(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		closeStore(store)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func closeStore(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close database", "path", store.Path(), "error", err)
	}
}
