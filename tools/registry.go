package tools

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Prerana17/Morpheus.AI/internal/config"
	"github.com/Prerana17/Morpheus.AI/internal/references"
	"github.com/Prerana17/Morpheus.AI/internal/runstore"
	"github.com/Prerana17/Morpheus.AI/internal/simulator"
)

// Deps carries the collaborators tool handlers close over. All side effects
// run through these; nothing reads ambient process state.
type Deps struct {
	Cfg   *config.Config
	Store *runstore.Store
	Refs  *references.Catalog
	Sim   *simulator.Runner
	Log   zerolog.Logger
}

// Registry is the closed set of tools wired for one benchmark. Construction
// fails on empty or duplicate names so a miswired tool table is caught at
// startup, not on the first model call.
type Registry struct {
	defs  []ToolDefinition
	index map[string]int
}

// NewRegistry builds and validates the full tool set.
func NewRegistry(d Deps) (*Registry, error) {
	defs := []ToolDefinition{
		newPipelineTool(d),
		newListReferencesTool(d),
		newReadReferenceTool(d),
		newGenerateXMLTool(d),
		newRunMorpheusTool(d),
		newAutoFixTool(d),
		newEvaluationTool(d),
		newRunSummaryTool(d),
		newReadFileTool(d),
	}

	index := make(map[string]int, len(defs))
	for i, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("tool %d has an empty name", i)
		}
		if def.Function == nil {
			return nil, fmt.Errorf("tool %s has no handler", def.Name)
		}
		if _, dup := index[def.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %s", def.Name)
		}
		index[def.Name] = i
	}
	return &Registry{defs: defs, index: index}, nil
}

// Definitions returns the tools in declaration order.
func (r *Registry) Definitions() []ToolDefinition {
	return r.defs
}

// Get returns the named tool definition.
func (r *Registry) Get(name string) (ToolDefinition, bool) {
	i, ok := r.index[name]
	if !ok {
		return ToolDefinition{}, false
	}
	return r.defs[i], true
}
