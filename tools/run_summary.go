package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/Prerana17/Morpheus.AI/internal/config"
)

type runSummaryInput struct {
	RunID string `json:"run_id" jsonschema_description:"Run id to summarize."`
}

func newRunSummaryTool(d Deps) ToolDefinition {
	return ToolDefinition{
		Name: "get_run_summary",
		Description: "Summarize the current state of a run: its metadata, the artifacts generated so far, " +
			"and the evaluation result if one has been recorded.",
		InputSchema: GenerateSchema[runSummaryInput](),
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in runSummaryInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}
			if in.RunID == "" {
				return "", fmt.Errorf("run_id is required")
			}
			if _, err := d.Store.RunDir(in.RunID); err != nil {
				return failResult(err.Error(), nil)
			}

			outputs, err := d.Store.ListOutputs(in.RunID)
			if err != nil {
				return failResult(fmt.Sprintf("could not inspect run outputs: %v", err), map[string]any{
					"run_id": in.RunID,
				})
			}

			fields := map[string]any{
				"run_id":    in.RunID,
				"outputs":   outputs,
				"png_count": len(outputs.PNG),
				"csv_count": len(outputs.CSV),
			}

			if raw, err := d.Store.ReadText(filepath.Join(in.RunID, "metadata.json"), config.DefaultFileReadChars); err == nil && raw != "" {
				var meta map[string]any
				if json.Unmarshal([]byte(raw), &meta) == nil {
					fields["metadata"] = meta
				}
			}
			if raw, err := d.Store.ReadText(filepath.Join(in.RunID, "evaluation.json"), config.DefaultFileReadChars); err == nil && raw != "" {
				var eval map[string]any
				if json.Unmarshal([]byte(raw), &eval) == nil {
					fields["evaluation"] = eval
				}
			}
			return okResult(fields)
		},
	}
}
