package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Prerana17/Morpheus.AI/internal/config"
	"github.com/Prerana17/Morpheus.AI/internal/evaluation"
	"github.com/Prerana17/Morpheus.AI/internal/runstore"
)

func newEvaluateCommand() *cobra.Command {
	var evalConfigPath string
	var evalRunsDir string

	cmd := &cobra.Command{
		Use:   "evaluate <run-id>",
		Short: "Re-score an existing run from its artifacts",
		Long: `Re-score a run directory against the output rubric and rewrite its
evaluation.json and evaluation.txt. Useful after inspecting or editing run
artifacts by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(evalConfigPath)
			if err != nil {
				return err
			}
			if evalRunsDir != "" {
				cfg.RunsDir = evalRunsDir
			}

			store, err := runstore.NewStore(cfg.RunsDir)
			if err != nil {
				return err
			}
			res, err := evaluation.Evaluate(store, cfg.Scoring, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text())
			return nil
		},
	}

	cmd.Flags().StringVarP(&evalConfigPath, "config", "c", "morpheus-bench.yaml", "Config file (missing file falls back to defaults)")
	cmd.Flags().StringVar(&evalRunsDir, "runs-dir", "", "Directory of run artifacts (overrides config)")
	return cmd
}
