// Package runner drives the per-paper turn loop against the Anthropic
// Messages API and dispatches tool calls.
//
// Invariants:
//   - tool_use and the corresponding tool_result stay adjacent within a turn,
//     so truncation and replay never orphan a pair.
//   - the iteration cap is checked before each model call; a capped loop ends
//     with OutcomeCapped rather than an error.
//
// Flow:
//
//	user(text) -> assistant(tool_use...) -> user(tool_result...) -> ... -> assistant(text with sentinel)
package runner
