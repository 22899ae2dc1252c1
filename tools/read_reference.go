package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Prerana17/Morpheus.AI/internal/config"
	"github.com/Prerana17/Morpheus.AI/internal/modelxml"
)

type readReferenceInput struct {
	Category string `json:"category" jsonschema_description:"Category the reference lives in (CPM, PDE, ODE, Multiscale, Miscellaneous)."`
	Name     string `json:"name" jsonschema_description:"File name of the reference as reported by list_references."`
	MaxChars int    `json:"max_chars,omitempty" jsonschema_description:"Optional character limit; defaults to 8000."`
}

func newReadReferenceTool(d Deps) ToolDefinition {
	return ToolDefinition{
		Name: "read_reference",
		Description: "Read a reference Morpheus model from the catalog. XML references come with a " +
			"structural summary of the sections they demonstrate. Content is truncated to a bounded size.",
		InputSchema: GenerateSchema[readReferenceInput](),
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in readReferenceInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}
			if in.Category == "" || in.Name == "" {
				return "", fmt.Errorf("category and name are required")
			}

			limit := in.MaxChars
			if limit <= 0 || limit > config.DefaultReferenceReadChars {
				limit = config.DefaultReferenceReadChars
			}
			content, err := d.Refs.Read(in.Category, in.Name, limit)
			if err != nil {
				return failResult(err.Error(), map[string]any{
					"category": in.Category,
					"name":     in.Name,
				})
			}

			fields := map[string]any{
				"category": in.Category,
				"name":     in.Name,
				"content":  content,
				"chars":    len(content),
			}
			if strings.HasSuffix(strings.ToLower(in.Name), ".xml") {
				fields["structure"] = modelxml.Validate(content)
			}
			return okResult(fields)
		},
	}
}
