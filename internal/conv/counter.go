package conv

import (
	"unicode/utf8"

	"github.com/anthropics/anthropic-sdk-go"
)

// HeuristicCounter is a deterministic input-size estimator.
// Rules:
// - text blocks: rune count of the text
// - tool_result blocks: rune count of nested text, or of the string payload
// A small per-block overhead accounts for minimal formatting.
type HeuristicCounter struct{}

// Fixed per-block overhead for deterministic counts.
const blockOverhead = 4

func (HeuristicCounter) CountMessage(m anthropic.MessageParam) int {
	total := 0
	for _, blk := range m.Content {
		total += countBlock(blk)
	}
	return total
}

// CountConversation sums CountMessage over all messages.
func (h HeuristicCounter) CountConversation(msgs []anthropic.MessageParam) int {
	total := 0
	for _, m := range msgs {
		total += h.CountMessage(m)
	}
	return total
}

func countBlock(blk anthropic.ContentBlockParamUnion) int {
	if tb := blk.OfText; tb != nil {
		return utf8.RuneCountInString(tb.Text) + blockOverhead
	}

	if tr := blk.OfToolResult; tr != nil {
		if nested, ok := any(tr.Content).([]anthropic.ToolResultBlockParamContentUnion); ok {
			subtotal := 0
			for _, nb := range nested {
				if nt := nb.OfText; nt != nil {
					subtotal += utf8.RuneCountInString(nt.Text)
				}
			}
			return subtotal + blockOverhead
		}
		if s, ok := any(tr.Content).(string); ok {
			return utf8.RuneCountInString(s) + blockOverhead
		}
		return blockOverhead
	}

	// tool_use, thinking, images: overhead only in this minimal heuristic.
	return blockOverhead
}
