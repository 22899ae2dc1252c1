package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Prerana17/Morpheus.AI/internal/extract"
	"github.com/Prerana17/Morpheus.AI/internal/metrics"
	"github.com/Prerana17/Morpheus.AI/internal/runstore"
)

type pipelineInput struct {
	PaperPath string `json:"paper_path" jsonschema_description:"Path to the paper to process (.pdf or .txt)."`
}

// newPipelineTool starts a fresh run for one paper: extract its text, stamp
// out a run directory, and report the inferred model categories plus the
// reference models available for each.
func newPipelineTool(d Deps) ToolDefinition {
	return ToolDefinition{
		Name: "pdf_to_morpheus_pipeline",
		Description: "Start processing a paper. Extracts the paper text, creates a run directory, " +
			"infers likely Morpheus model categories (CPM, PDE, ODE, Multiscale) from the text, and " +
			"lists the reference models available for those categories. Call this first, exactly once per paper.",
		InputSchema: GenerateSchema[pipelineInput](),
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in pipelineInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}
			if in.PaperPath == "" {
				return "", fmt.Errorf("paper_path is required")
			}

			text, err := extract.PaperText(in.PaperPath)
			if err != nil {
				return failResult(fmt.Sprintf("could not extract paper text: %v", err), map[string]any{
					"paper_path": in.PaperPath,
				})
			}

			runID := runstore.NewRunID()
			paperPath, err := d.Store.WriteText(runID, "paper.txt", text)
			if err != nil {
				return failResult(fmt.Sprintf("could not persist paper text: %v", err), map[string]any{
					"run_id": runID,
				})
			}

			features := metrics.CountFeatures(text)
			inference := extract.InferCategories(text)

			available := map[string][]string{}
			for _, cat := range inference.Selected {
				listed, err := d.Refs.List(cat)
				if err != nil {
					continue
				}
				for c, names := range listed {
					available[c] = names
				}
			}

			if err := d.Store.MergeMetadata(runID, map[string]any{
				"paper_source":   in.PaperPath,
				"paper_name":     filepath.Base(in.PaperPath),
				"paper_features": features,
				"categories":     inference,
				"created_at":     time.Now().UTC().Format(time.RFC3339),
			}); err != nil {
				d.Log.Warn().Err(err).Str("run_id", runID).Msg("metadata write failed")
			}

			d.Log.Info().
				Str("run_id", runID).
				Strs("categories", inference.Selected).
				Int("paper_chars", features.Runes).
				Msg("pipeline started")

			return okResult(map[string]any{
				"run_id":               runID,
				"paper_txt_path":       paperPath,
				"paper_features":       features,
				"categories":           inference.Selected,
				"category_scores":      inference.Scores,
				"available_references": available,
				"next_step": "Read the paper text with read_file_text, study relevant references with " +
					"read_reference, then generate a model with generate_xml_from_text using this run_id.",
			})
		},
	}
}
