// Package testutil provides shared fixtures for package tests: a migrated
// on-disk database and a fluent builder for labeled messages.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/disaster-triage/internal/dataset"
	"github.com/Veraticus/disaster-triage/internal/storage"
)

// TestDB is a migrated SQLite database living in the test's temp dir.
type TestDB struct {
	Storage *storage.SQLiteStorage
	Path    string
	t       *testing.T
}

// SetupTestDB creates a migrated database file that is closed on cleanup.
// The file outlives the handle, so commands can reopen it by path.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "triage.db")
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return &TestDB{Storage: store, Path: path, t: t}
}

// Seed replaces the named table with tbl or fails the test.
func (db *TestDB) Seed(name string, tbl *dataset.Table) {
	db.t.Helper()
	if err := db.Storage.ReplaceTable(context.Background(), name, tbl); err != nil {
		db.t.Fatalf("failed to seed table %q: %v", name, err)
	}
}
