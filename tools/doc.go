// Package tools defines tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Registry: the closed tool set the turn loop dispatches to, validated
//     at construction so an unknown or duplicate tool name fails at startup
//     rather than at call time.
//   - The paper-processing tool surface: pipeline initialization, reference
//     catalog access, model XML persistence, simulator execution, failure
//     inspection, evaluation, and bounded file reads.
//
// Handlers never panic or fail past the dispatch boundary: argument problems
// surface as error tool results, collaborator failures as structured
// {"ok":false,...} payloads the model can self-correct from.
package tools
