package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "morpheus-bench",
		Short: "Benchmark an LLM on turning biology papers into Morpheus simulations",
		Long: `morpheus-bench drives a tool-calling language model through a batch of
published papers: for each paper it extracts the text, has the model write a
MorpheusML simulation, runs the Morpheus simulator, repairs failures, and
scores the produced artifacts.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if *debugLogging {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newEvaluateCommand())

	return cmd
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

func execute() error {
	return newRootCommand().Execute()
}
