package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Prerana17/Morpheus.AI/internal/config"
)

type readFileInput struct {
	Path     string `json:"path" jsonschema_description:"Path to a file under the runs directory, absolute or runs-relative."`
	MaxChars int    `json:"max_chars,omitempty" jsonschema_description:"Optional character limit; defaults to 20000."`
}

// newReadFileTool reads a file confined to the runs root. Paths that resolve
// outside it are rejected; missing files read as empty so the model can probe
// for logs that were never written.
func newReadFileTool(d Deps) ToolDefinition {
	return ToolDefinition{
		Name: "read_file_text",
		Description: "Read a text file from a run directory (paper text, logs, model XML, evaluation " +
			"reports). Content is truncated to a bounded size; a missing file reads as empty.",
		InputSchema: GenerateSchema[readFileInput](),
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in readFileInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}
			if in.Path == "" {
				return "", fmt.Errorf("path is required")
			}
			limit := in.MaxChars
			if limit <= 0 || limit > config.DefaultFileReadChars {
				limit = config.DefaultFileReadChars
			}

			content, err := d.Store.ReadText(in.Path, limit)
			if err != nil {
				return failResult(err.Error(), map[string]any{"path": in.Path})
			}
			return okResult(map[string]any{
				"path":    in.Path,
				"content": content,
				"chars":   len(content),
			})
		},
	}
}
