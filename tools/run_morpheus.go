package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/Prerana17/Morpheus.AI/internal/modelxml"
)

type runMorpheusInput struct {
	XMLPath string `json:"xml_path,omitempty" jsonschema_description:"Path to the run's model.xml, as reported by generate_xml_from_text."`
	RunID   string `json:"run_id,omitempty" jsonschema_description:"Run id; may be given instead of xml_path to run the saved model.xml."`
}

// newRunMorpheusTool executes the simulator against a saved model. Models
// without a Gnuplotter block are rejected before launch: such a run would
// burn the full simulation without producing the visualizations the score
// depends on.
func newRunMorpheusTool(d Deps) ToolDefinition {
	return ToolDefinition{
		Name: "run_morpheus",
		Description: "Run the Morpheus simulator on a saved model.xml. Executes with a bounded timeout, " +
			"captures stdout/stderr into the run directory, and reports exit status plus the artifacts " +
			"produced. Models without Gnuplotter output configuration are rejected up front.",
		InputSchema: GenerateSchema[runMorpheusInput](),
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in runMorpheusInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}
			if in.XMLPath == "" {
				if in.RunID == "" {
					return "", fmt.Errorf("xml_path or run_id is required")
				}
				in.XMLPath = filepath.Join(in.RunID, "model.xml")
			}

			abs, err := d.Store.Resolve(in.XMLPath)
			if err != nil {
				return failResult(err.Error(), map[string]any{"xml_path": in.XMLPath})
			}
			runDir := filepath.Dir(abs)
			runID := filepath.Base(runDir)

			// The simulator always reads model.xml from its working directory;
			// a model saved under another name is copied into place first.
			if filepath.Base(abs) != "model.xml" {
				content, err := d.Store.ReadText(abs, 0)
				if err != nil || content == "" {
					return failResult(fmt.Sprintf("could not read model at %s", in.XMLPath), map[string]any{
						"run_id": runID,
					})
				}
				if _, err := d.Store.WriteText(runID, "model.xml", content); err != nil {
					return failResult(fmt.Sprintf("could not stage model.xml: %v", err), map[string]any{
						"run_id": runID,
					})
				}
			}

			model, err := d.Store.ReadText(filepath.Join(runID, "model.xml"), 0)
			if err != nil || model == "" {
				return failResult("no model.xml found for this run; call generate_xml_from_text first", map[string]any{
					"run_id": runID,
				})
			}
			v := modelxml.Validate(model)
			if !v.HasGnuplotter {
				return failResult("model has no Gnuplotter block and would produce no PNG output; "+
					"add the Analysis template and save it with generate_xml_from_text before running", map[string]any{
					"run_id":            runID,
					"validation":        v,
					"analysis_template": modelxml.AnalysisTemplate(),
				})
			}

			res, err := d.Sim.Run(ctx, runDir)
			if err != nil {
				return failResult(fmt.Sprintf("simulator launch failed: %v", err), map[string]any{
					"run_id": runID,
				})
			}

			outputs, err := d.Store.ListOutputs(runID)
			if err != nil {
				return failResult(fmt.Sprintf("could not inspect run outputs: %v", err), map[string]any{
					"run_id": runID,
				})
			}

			if err := d.Store.MergeMetadata(runID, map[string]any{
				"simulation": map[string]any{
					"exit_code":        res.ExitCode,
					"timed_out":        res.TimedOut,
					"duration_seconds": res.Duration.Seconds(),
					"png_count":        len(outputs.PNG),
					"csv_count":        len(outputs.CSV),
				},
			}); err != nil {
				d.Log.Warn().Err(err).Str("run_id", runID).Msg("metadata write failed")
			}

			fields := map[string]any{
				"run_id":           runID,
				"success":          res.Success(),
				"exit_code":        res.ExitCode,
				"timed_out":        res.TimedOut,
				"duration_seconds": res.Duration.Seconds(),
				"stdout":           res.Stdout,
				"stderr":           res.Stderr,
				"outputs":          outputs,
				"png_count":        len(outputs.PNG),
				"csv_count":        len(outputs.CSV),
			}
			if !res.Success() {
				fields["next_step"] = "Call auto_fix_and_rerun to inspect the errors and repair the model."
			} else if len(outputs.PNG) == 0 {
				fields["warning"] = "Simulation succeeded but produced no PNG files; check the Gnuplotter " +
					"Plot configuration against the model's cell types and symbols."
			}
			return okResult(fields)
		},
	}
}
