package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/disaster-triage/internal/cli"
	"github.com/Veraticus/disaster-triage/internal/common"
	"github.com/Veraticus/disaster-triage/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes.
const (
	exitError = 1
	exitUsage = 2
)

var (
	cfgFile string
	version = "dev"
	rootCmd = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triage",
		Short: "🚨 Disaster message triage toolkit",
		Long: `disaster-triage: prepare labeled disaster-response messages, train a
multi-label classifier on them and query the trained model.

Typical flow:
  triage process messages.csv categories.csv DisasterResponse.db
  triage train DisasterResponse.db classifier.model
  triage predict classifier.model "We need water and food"`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/triage/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	cmd.PersistentFlags().String("table", "", "table holding the cleaned messages (default: disaster_messages)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("database.table", cmd.PersistentFlags().Lookup("table"))

	// Add commands
	cmd.AddCommand(processCmd())
	cmd.AddCommand(trainCmd())
	cmd.AddCommand(predictCmd())
	cmd.AddCommand(summaryCmd())
	cmd.AddCommand(inspectCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		os.Exit(reportError(os.Stdout, os.Stderr, err))
	}
}

// reportError prints err and returns the process exit code. Usage mistakes get
// their friendly message on stdout; everything else goes to stderr.
func reportError(stdout, stderr io.Writer, err error) int {
	if msg, ok := common.UserMessage(err); ok && errors.Is(err, common.ErrConfig) {
		_, _ = fmt.Fprintln(stdout, msg)
		return exitUsage
	}
	_, _ = fmt.Fprintln(stderr, cli.FormatError(err.Error()))
	return exitError
}

func initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/triage", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	config.BindEnv(viper.GetViper())

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	return setupLogging()
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	if err := common.SetupLogger(level, viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "triage version %s\n", version)
		},
	}
}
