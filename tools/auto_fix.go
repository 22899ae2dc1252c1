package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/Prerana17/Morpheus.AI/internal/modelxml"
	"github.com/Prerana17/Morpheus.AI/internal/simulator"
)

type autoFixInput struct {
	RunID string `json:"run_id" jsonschema_description:"Run id of the failed simulation to diagnose."`
}

// newAutoFixTool gathers everything needed to repair a failed run in one
// result: simulator diagnostics, the current model, its structural report,
// and the Analysis template. The actual fix is the model's job; this tool
// only collects the evidence.
func newAutoFixTool(d Deps) ToolDefinition {
	return ToolDefinition{
		Name: "auto_fix_and_rerun",
		Description: "Collect the diagnostics of a failed simulation: simulator stderr, the XML error log, " +
			"the current model.xml, and its structural validation. Use the returned material to produce a " +
			"corrected model, save it with generate_xml_from_text, and call run_morpheus again.",
		InputSchema: GenerateSchema[autoFixInput](),
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in autoFixInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}
			if in.RunID == "" {
				return "", fmt.Errorf("run_id is required")
			}
			if _, err := d.Store.RunDir(in.RunID); err != nil {
				return failResult(err.Error(), nil)
			}

			read := func(name string, limit int) string {
				s, err := d.Store.ReadText(filepath.Join(in.RunID, name), limit)
				if err != nil {
					return ""
				}
				return s
			}

			stderr := read("stderr.log", simulator.MaxStderrChars)
			xmlErrs := read("model.xml.err", simulator.MaxStderrChars)
			stdout := read("stdout.log", simulator.MaxStdoutChars)
			model := read("model.xml", 0)

			fields := map[string]any{
				"run_id":            in.RunID,
				"stderr":            stderr,
				"xml_error_log":     xmlErrs,
				"stdout_tail":       stdout,
				"current_xml":       model,
				"analysis_template": modelxml.AnalysisTemplate(),
				"instruction": "Diagnose the failure from the logs, produce a corrected complete model, " +
					"save it with generate_xml_from_text using this run_id, then call run_morpheus.",
			}
			if model != "" {
				fields["validation"] = modelxml.Validate(model)
			}
			return okResult(fields)
		},
	}
}
