package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/disaster-triage/internal/cli"
	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/Veraticus/disaster-triage/internal/config"
	"github.com/Veraticus/disaster-triage/internal/ml"
	"github.com/Veraticus/disaster-triage/internal/model"
	"github.com/Veraticus/disaster-triage/internal/train"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const trainUsage = `Please provide the filepath of the disaster messages database as the first argument and the filepath of the model file to save the model to as the second argument.

Example: triage train DisasterResponse.db classifier.model`

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train <database_path> <model_path>",
		Short: "Train and evaluate the message classifier",
		Long: `Read the cleaned messages, hold out a seeded test split, grid-search the
tf-idf and boosting parameters with k-fold cross-validation, print a per-category
classification report for the held-out rows and save the fitted model.`,
		Args: exactArgs(2, trainUsage),
		RunE: runTrain,
	}

	cmd.Flags().Float64("test-size", config.DefaultTestSize, "fraction of rows held out for evaluation")
	cmd.Flags().Uint64("seed", config.DefaultSeed, "seed for the train/test shuffle")
	cmd.Flags().Int("folds", config.DefaultFolds, "cross-validation folds")
	cmd.Flags().Int("workers", 0, "parallel fits (default: number of CPUs)")

	_ = viper.BindPFlag("training.test_size", cmd.Flags().Lookup("test-size"))
	_ = viper.BindPFlag("training.seed", cmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("training.folds", cmd.Flags().Lookup("folds"))
	_ = viper.BindPFlag("training.workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runTrain(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	dbPath := config.ExpandPath(args[0])
	modelPath := config.ExpandPath(args[1])
	out := cmd.OutOrStdout()

	ctx := cmd.Context()
	store, err := openStore(ctx, dbPath)
	if err != nil {
		return err
	}
	defer closeStore(store)

	started := time.Now()
	grid := ml.DefaultGrid()
	_, _ = fmt.Fprintf(out, "%s\n    DATABASE: %s\n", cli.FormatTitle("Loading data..."), dbPath)
	_, _ = fmt.Fprintf(out, "%s\n", cli.FormatTitle("Building model..."))

	var progress *cli.Progress
	startProgress := func(total int) {
		progress = cli.NewProgress(cmd.ErrOrStderr(), total, "Grid search")
	}
	result, err := train.Train(ctx, store, train.Options{
		Table:    settings.Table,
		Grid:     grid,
		TestSize: settings.Training.TestSize,
		Seed:     settings.Training.Seed,
		Folds:    settings.Training.Folds,
		Workers:  settings.Training.Workers,
		OnStart:  startProgress,
		OnFit:    func() { progress.Step() },
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "%s\n", cli.FormatTitle("Evaluating model..."))
	_, _ = fmt.Fprintln(out, formatReport(result.Report))
	_, _ = fmt.Fprintf(out, "Best parameters: %s (cv subset accuracy %.4f)\n",
		result.Search.BestParams(), result.Search.BestScore())
	_, _ = fmt.Fprintf(out, "Held-out subset accuracy: %.4f\n", result.SubsetScore)

	_, _ = fmt.Fprintf(out, "%s\n    MODEL: %s\n", cli.FormatTitle("Saving model..."), modelPath)
	artifact := ml.NewArtifact(settings.Table, result.Search, result.Report)
	if err := ml.SaveArtifact(modelPath, artifact); err != nil {
		return err
	}

	run := &model.TrainingRun{
		ID:          artifact.ID,
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Table:       settings.Table,
		ModelPath:   modelPath,
		BestParams:  result.Search.BestParams().String(),
		TrainRows:   result.TrainRows,
		TestRows:    result.TestRows,
		BestScore:   result.Search.BestScore(),
		SubsetScore: result.SubsetScore,
	}
	if err := store.RecordTrainingRun(ctx, run); err != nil {
		common.LogError(err, "Failed to record training run", common.Fields{"run_id": run.ID})
	}

	_, _ = fmt.Fprintf(out, "%s\n", cli.FormatSuccess("Trained model saved!"))
	return nil
}
