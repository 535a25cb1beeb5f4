package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/disaster-triage/internal/config"
	"github.com/Veraticus/disaster-triage/internal/ml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const inspectUsage = `Please provide the filepath of a trained model as the only argument.

Example: triage inspect classifier.model`

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <model_path>",
		Short: "Describe a trained model as YAML",
		Long: `Print the pipeline stages, the selected parameters and the cross-validation
results stored in a trained model.`,
		Args: exactArgs(1, inspectUsage),
		RunE: runInspect,
	}

	cmd.Flags().Bool("report", false, "include the held-out classification report")

	return cmd
}

// modelDescription is the YAML document printed by inspect.
type modelDescription struct {
	CreatedAt  time.Time            `yaml:"created_at"`
	Report     *ml.Report           `yaml:"report,omitempty"`
	ID         string               `yaml:"id"`
	Table      string               `yaml:"table"`
	Tokenizer  string               `yaml:"tokenizer"`
	Labels     []string             `yaml:"labels"`
	Stages     []ml.Stage           `yaml:"stages"`
	CVResults  []ml.CandidateResult `yaml:"cv_results"`
	BestParams ml.Params            `yaml:"best_params"`
	BestScore  float64              `yaml:"best_score"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	withReport, _ := cmd.Flags().GetBool("report")

	a, err := ml.LoadArtifact(config.ExpandPath(args[0]))
	if err != nil {
		return err
	}

	desc := modelDescription{
		ID:         a.ID,
		CreatedAt:  a.CreatedAt,
		Table:      a.Table,
		Tokenizer:  a.Pipeline.TokenizerName,
		Labels:     a.Pipeline.Labels(),
		Stages:     a.Pipeline.Stages(),
		CVResults:  a.CVResults,
		BestParams: a.BestParams,
		BestScore:  a.BestScore,
	}
	if withReport {
		desc.Report = a.Report
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(desc); err != nil {
		return fmt.Errorf("failed to encode model description: %w", err)
	}
	return enc.Close()
}
