package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Prerana17/Morpheus.AI/internal/references"
)

type listReferencesInput struct {
	Category string `json:"category,omitempty" jsonschema_description:"Optional category to list (CPM, PDE, ODE, Multiscale, Miscellaneous). Omit to list all."`
}

func newListReferencesTool(d Deps) ToolDefinition {
	return ToolDefinition{
		Name: "list_references",
		Description: "List the reference Morpheus models available in the catalog, grouped by category. " +
			"Pass a category to narrow the listing.",
		InputSchema: GenerateSchema[listReferencesInput](),
		Function: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in listReferencesInput
			if err := json.Unmarshal(input, &in); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}

			listed, err := d.Refs.List(in.Category)
			if err != nil {
				return failResult(err.Error(), map[string]any{
					"known_categories": references.Categories,
				})
			}

			total := 0
			for _, names := range listed {
				total += len(names)
			}
			return okResult(map[string]any{
				"references":       listed,
				"total":            total,
				"known_categories": references.Categories,
			})
		},
	}
}
