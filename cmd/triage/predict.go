package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/disaster-triage/internal/cli"
	"github.com/Veraticus/disaster-triage/internal/config"
	"github.com/Veraticus/disaster-triage/internal/ml"
	"github.com/Veraticus/disaster-triage/internal/service"
	"github.com/Veraticus/disaster-triage/internal/textproc"
	"github.com/spf13/cobra"
)

const predictUsage = `Please provide the filepath of a trained model as the first argument followed by the message to classify.

Example: triage predict classifier.model "We need water and food"`

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict <model_path> <text...>",
		Short: "Classify a message with a trained model",
		Long: `Load a trained model and print every category with its predicted value for
the given message. Remaining arguments are joined with spaces into one message.`,
		Args: minArgs(2, predictUsage),
		RunE: runPredict,
	}

	cmd.Flags().Bool("tokens", false, "also show the model and display tokenizations of the message")

	return cmd
}

func runPredict(cmd *cobra.Command, args []string) error {
	showTokens, _ := cmd.Flags().GetBool("tokens")
	query := strings.Join(args[1:], " ")
	out := cmd.OutOrStdout()

	pipeline, err := ml.LoadPredictor(config.ExpandPath(args[0]))
	if err != nil {
		return err
	}

	if showTokens {
		display, err := textproc.Lookup(textproc.DisplayName)
		if err != nil {
			return err
		}
		writeTokens(out, pipeline.Tokenizer(), display, query)
	}

	return writePredictions(out, pipeline, query)
}

func writeTokens(w io.Writer, modelTok, displayTok textproc.Tokenizer, query string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", cli.SubtleStyle.Render(modelTok.Name()+" tokens:"),
		strings.Join(modelTok.Tokenize(query), " "))
	_, _ = fmt.Fprintf(w, "%s %s\n", cli.SubtleStyle.Render(displayTok.Name()+" tokens:"),
		strings.Join(displayTok.Tokenize(query), " "))
}

func writePredictions(w io.Writer, p service.Predictor, query string) error {
	pred, err := p.Predict([]string{query})
	if err != nil {
		return err
	}

	labels := p.Labels()
	rows := make([][]string, len(labels))
	var matched []string
	for j, label := range labels {
		rows[j] = []string{label, strconv.Itoa(pred[0][j])}
		if pred[0][j] != 0 {
			matched = append(matched, label)
		}
	}

	_, _ = fmt.Fprintf(w, "%s\n", cli.FormatTitle(query))
	_, _ = fmt.Fprintln(w, cli.RenderTable([]string{"category", "value"}, rows))
	if len(matched) == 0 {
		_, _ = fmt.Fprintln(w, cli.FormatWarning("No categories matched"))
		return nil
	}
	_, _ = fmt.Fprintln(w, cli.FormatSuccess("Matched: "+strings.Join(matched, ", ")))
	return nil
}
