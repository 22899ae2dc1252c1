package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Prerana17/Morpheus.AI/internal/benchmark"
	"github.com/Prerana17/Morpheus.AI/internal/config"
	"github.com/Prerana17/Morpheus.AI/internal/provider"
)

var (
	configPath    string
	papersDir     string
	runsDir       string
	referencesDir string
	maxPapers     int
	model         string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark over a directory of papers",
		Long: `Run the benchmark: each *.pdf and *.txt under the papers directory is
processed in its own conversation, and the batch summary is written to
benchmark_results.json under the runs directory.`,
		Args: cobra.NoArgs,
		RunE: runCommandE,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "morpheus-bench.yaml", "Config file (missing file falls back to defaults)")
	cmd.Flags().StringVar(&papersDir, "papers-dir", "", "Directory of input papers (overrides config)")
	cmd.Flags().StringVar(&runsDir, "runs-dir", "", "Directory for run artifacts (overrides config)")
	cmd.Flags().StringVar(&referencesDir, "references-dir", "", "Directory of reference models (overrides config)")
	cmd.Flags().IntVar(&maxPapers, "max-papers", 0, "Cap on papers processed (overrides config)")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier (overrides config)")
	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	// The SDK reads the key itself; checking here gives a clearer message.
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		return fmt.Errorf("missing ANTHROPIC_API_KEY; export it before running")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if papersDir != "" {
		cfg.PapersDir = papersDir
	}
	if runsDir != "" {
		cfg.RunsDir = runsDir
	}
	if referencesDir != "" {
		cfg.ReferencesDir = referencesDir
	}
	if maxPapers > 0 {
		cfg.MaxPapers = maxPapers
	}
	if model != "" {
		cfg.Model = model
	}

	log := newLogger()

	// Graceful shutdown on Ctrl-C (SIGINT) / SIGTERM.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		log.Warn().Msg("interrupted, shutting down")
		cancel()
	}()

	batch, err := benchmark.New(cfg, provider.NewAnthropicClient(), log)
	if err != nil {
		return err
	}
	s, err := batch.Run(ctx)
	if err != nil {
		return err
	}
	if s.Failed > 0 || s.Incomplete > 0 {
		return &PaperFailureError{Message: fmt.Sprintf(
			"%d of %d papers did not complete (%d failed, %d incomplete)",
			s.Failed+s.Incomplete, s.Papers, s.Failed, s.Incomplete)}
	}
	return nil
}
