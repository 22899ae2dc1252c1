package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Prerana17/Morpheus.AI/internal/evaluation"
)

type evaluationInput struct {
	RunID string `json:"run_id" jsonschema_description:"Run id to score."`
}

func newEvaluationTool(d Deps) ToolDefinition {
	return ToolDefinition{
		Name: "evaluation",
		Description: "Score a run from its artifacts against the output rubric and persist the result as " +
			"evaluation.json and evaluation.txt in the run directory. Call this once the simulation has " +
			"produced its final outputs.",
		InputSchema: GenerateSchema[evaluationInput](),
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in evaluationInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}
			if in.RunID == "" {
				return "", fmt.Errorf("run_id is required")
			}

			res, err := evaluation.Evaluate(d.Store, d.Cfg.Scoring, in.RunID)
			if err != nil {
				return failResult(fmt.Sprintf("evaluation failed: %v", err), map[string]any{
					"run_id": in.RunID,
				})
			}

			d.Log.Info().
				Str("run_id", in.RunID).
				Int("score", res.Total).
				Int("max", res.Max).
				Msg("run evaluated")

			return okResult(map[string]any{
				"run_id":             res.RunID,
				"total_score":        res.Total,
				"max_possible_score": res.Max,
				"breakdown":          res.Breakdown,
				"report":             res.Text(),
			})
		},
	}
}
