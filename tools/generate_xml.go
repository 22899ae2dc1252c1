package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Prerana17/Morpheus.AI/internal/modelxml"
)

type generateXMLInput struct {
	RunID    string `json:"run_id" jsonschema_description:"Run id returned by pdf_to_morpheus_pipeline."`
	XML      string `json:"xml" jsonschema_description:"Complete MorpheusML document to save as this run's model.xml."`
	FileName string `json:"file_name,omitempty" jsonschema_description:"Optional file name inside the run directory; defaults to model.xml."`
}

// newGenerateXMLTool saves a model document into the run directory after
// sanitizing code fences and checking its structure. Missing output sections
// are reported back as a critical warning together with a ready-made Analysis
// template, before any simulator time is spent.
func newGenerateXMLTool(d Deps) ToolDefinition {
	return ToolDefinition{
		Name: "generate_xml_from_text",
		Description: "Save a generated MorpheusML document as model.xml in the run directory. The document " +
			"is checked for the sections required to produce output artifacts (TimeConfig, Space, Analysis " +
			"with Gnuplotter, Logger, ModelGraph); structural problems are reported so they can be fixed " +
			"before running the simulator.",
		InputSchema: GenerateSchema[generateXMLInput](),
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in generateXMLInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}
			if in.RunID == "" {
				return "", fmt.Errorf("run_id is required")
			}
			if in.XML == "" {
				return "", fmt.Errorf("xml is required")
			}

			xml := modelxml.Sanitize(in.XML)
			if !modelxml.LooksLikeModel(xml) {
				return failResult("content does not look like a MorpheusModel document", map[string]any{
					"run_id": in.RunID,
					"hint":   "provide a complete document with a versioned <MorpheusModel> root element",
				})
			}

			name := in.FileName
			if name == "" {
				name = "model.xml"
			}
			if name != filepath.Base(name) {
				return "", fmt.Errorf("file_name must be a bare file name, got %q", in.FileName)
			}

			v := modelxml.Validate(xml)
			path, err := d.Store.WriteText(in.RunID, name, xml)
			if err != nil {
				return failResult(fmt.Sprintf("could not save model.xml: %v", err), map[string]any{
					"run_id": in.RunID,
				})
			}

			if err := d.Store.MergeMetadata(in.RunID, map[string]any{
				"xml_saved_at": time.Now().UTC().Format(time.RFC3339),
				"xml_chars":    len(xml),
				"validation":   v,
			}); err != nil {
				d.Log.Warn().Err(err).Str("run_id", in.RunID).Msg("metadata write failed")
			}

			d.Log.Info().
				Str("run_id", in.RunID).
				Bool("valid", v.Valid).
				Bool("graph_ready", v.GraphGenerationReady).
				Msg("model saved")

			fields := map[string]any{
				"run_id":     in.RunID,
				"model_path": path,
				"validation": v,
			}
			if !v.GraphGenerationReady {
				fields["critical_warning"] = "The model has no Gnuplotter output configuration and will " +
					"produce no PNG visualizations. Add the Analysis block below (adapted to your cell " +
					"types and symbols) and save again before calling run_morpheus."
				fields["analysis_template"] = modelxml.AnalysisTemplate()
			}
			return okResult(fields)
		},
	}
}
