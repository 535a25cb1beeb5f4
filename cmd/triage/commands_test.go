package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/Veraticus/disaster-triage/internal/config"
	"github.com/Veraticus/disaster-triage/internal/dataset"
	"github.com/Veraticus/disaster-triage/internal/model"
	"github.com/Veraticus/disaster-triage/internal/storage"
	"github.com/Veraticus/disaster-triage/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readStoredTable(t *testing.T, dbPath string) *dataset.Table {
	t.Helper()
	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer store.Close()

	tbl, err := store.ReadTable(context.Background(), config.DefaultTable)
	require.NoError(t, err)
	return tbl
}

func TestProcessCommand(t *testing.T) {
	dir := t.TempDir()
	msgs := testutil.NewMessageBuilder(t).WithBasicMessages()
	messagesPath, categoriesPath := msgs.WriteCSV(dir)
	dbPath := filepath.Join(dir, "DisasterResponse.db")

	stdout, _, err := executeCommand(t, "process", messagesPath, categoriesPath, dbPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Loading data...")
	assert.Contains(t, stdout, "MESSAGES: "+messagesPath)
	assert.Contains(t, stdout, "CATEGORIES: "+categoriesPath)
	assert.Contains(t, stdout, "Cleaning data...")
	assert.Contains(t, stdout, "Saving data...")
	assert.Contains(t, stdout, "DATABASE: "+dbPath)
	assert.Contains(t, stdout, "Cleaned data saved to database!")

	if diff := cmp.Diff(msgs.Table(), readStoredTable(t, dbPath)); diff != "" {
		t.Errorf("stored table mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessCommand_Example(t *testing.T) {
	dir := t.TempDir()
	messagesPath := testutil.WriteCSV(t, dir, "messages.csv", [][]string{
		{"id", "message", "original", "genre"},
		{"1", "Water is rising", "", "direct"},
		{"1", "Water is rising", "", "direct"},
	})
	categoriesPath := testutil.WriteCSV(t, dir, "categories.csv", [][]string{
		{"id", "categories"},
		{"1", "related-1;request-0;offer-0"},
		{"2", "related-0;request-0;offer-0"},
	})
	dbPath := filepath.Join(dir, "out.db")

	_, _, err := executeCommand(t, "process", messagesPath, categoriesPath, dbPath)
	require.NoError(t, err)

	tbl := readStoredTable(t, dbPath)
	assert.Equal(t, []string{"id", "message", "original", "genre", "related", "request", "offer"}, tbl.ColumnNames())
	require.Equal(t, 1, tbl.Len(), "duplicates are removed and unmatched ids dropped")

	related, err := tbl.IntColumn("related")
	require.NoError(t, err)
	request, err := tbl.IntColumn("request")
	require.NoError(t, err)
	offer, err := tbl.IntColumn("offer")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, related)
	assert.Equal(t, []int{0}, request)
	assert.Equal(t, []int{0}, offer)
}

func TestProcessCommand_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, categoriesPath := testutil.NewMessageBuilder(t).WithBasicMessages().WriteCSV(dir)

	_, _, err := executeCommand(t, "process", filepath.Join(dir, "nope.csv"), categoriesPath, filepath.Join(dir, "out.db"))
	require.ErrorIs(t, err, common.ErrDataAccess)
}

func TestTrainPredictInspect(t *testing.T) {
	dir := t.TempDir()
	messagesPath, categoriesPath := testutil.NewMessageBuilder(t).WithBasicMessages().Repeat(32).WriteCSV(dir)
	dbPath := filepath.Join(dir, "DisasterResponse.db")
	modelPath := filepath.Join(dir, "models", "classifier.model")

	_, _, err := executeCommand(t, "process", messagesPath, categoriesPath, dbPath)
	require.NoError(t, err)

	stdout, _, err := executeCommand(t, "train", dbPath, modelPath, "--folds", "2", "--workers", "2", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Building model...")
	assert.Contains(t, stdout, "Evaluating model...")
	assert.Contains(t, stdout, "weighted avg")
	assert.Contains(t, stdout, "Best parameters:")
	assert.Contains(t, stdout, "MODEL: "+modelPath)
	assert.Contains(t, stdout, "Trained model saved!")
	for _, c := range testutil.DefaultCategories {
		assert.Contains(t, stdout, c)
	}

	_, err = os.Stat(modelPath)
	require.NoError(t, err)

	stdout, _, err = executeCommand(t, "predict", modelPath, "We", "need", "water", "--tokens")
	require.NoError(t, err)
	assert.Contains(t, stdout, "We need water")
	assert.Contains(t, stdout, "strict tokens:")
	assert.Contains(t, stdout, "display tokens:")
	for _, c := range testutil.DefaultCategories {
		assert.Contains(t, stdout, c)
	}

	stdout, _, err = executeCommand(t, "inspect", modelPath, "--report")
	require.NoError(t, err)

	var desc struct {
		Table     string   `yaml:"table"`
		Tokenizer string   `yaml:"tokenizer"`
		Labels    []string `yaml:"labels"`
		Stages    []struct {
			Name string `yaml:"name"`
		} `yaml:"stages"`
		CVResults []struct {
			Rank int `yaml:"rank"`
		} `yaml:"cv_results"`
		Report struct {
			Labels []struct {
				Label string `yaml:"label"`
			} `yaml:"labels"`
		} `yaml:"report"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &desc))
	assert.Equal(t, config.DefaultTable, desc.Table)
	assert.Equal(t, "strict", desc.Tokenizer)
	assert.Equal(t, testutil.DefaultCategories, desc.Labels)
	require.Len(t, desc.Stages, 3)
	assert.Equal(t, "vect", desc.Stages[0].Name)
	assert.Equal(t, "tfidf", desc.Stages[1].Name)
	assert.Equal(t, "clf", desc.Stages[2].Name)
	assert.Len(t, desc.CVResults, 6)
	assert.Len(t, desc.Report.Labels, len(testutil.DefaultCategories))
}

func TestTrainCommand_MissingTable(t *testing.T) {
	db := testutil.SetupTestDB(t)

	_, _, err := executeCommand(t, "train", db.Path, filepath.Join(t.TempDir(), "m.model"))
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestPredictCommand_MissingModel(t *testing.T) {
	_, _, err := executeCommand(t, "predict", filepath.Join(t.TempDir(), "missing.model"), "water")
	require.ErrorIs(t, err, common.ErrDataAccess)
}

func TestSummaryCommand(t *testing.T) {
	db := testutil.SetupTestDB(t)
	db.Seed(config.DefaultTable, testutil.NewMessageBuilder(t).WithBasicMessages().Table())

	stdout, _, err := executeCommand(t, "summary", db.Path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "8 messages")
	assert.Contains(t, stdout, "Distribution of Message Genres")
	assert.Contains(t, stdout, "Distribution of Message Categories")
	assert.Contains(t, stdout, string(model.GenreSocial))
}

func TestSummarize(t *testing.T) {
	tbl := testutil.NewMessageBuilder(t).WithBasicMessages().Table()

	s, err := summarize(tbl)
	require.NoError(t, err)
	assert.Equal(t, 8, s.Rows)
	assert.Equal(t, []count{
		{Name: "direct", Count: 3},
		{Name: "news", Count: 3},
		{Name: "social", Count: 2},
	}, s.Genres)
	assert.Equal(t, []count{
		{Name: "related", Count: 7},
		{Name: "water", Count: 4},
		{Name: "request", Count: 3},
		{Name: "food", Count: 3},
		{Name: "offer", Count: 2},
	}, s.Categories)
}
