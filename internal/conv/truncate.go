// Package conv bounds conversation growth between model calls.
//
// Invariant: truncation never splits a tool_use/tool_result pair, always
// preserves the first turn (task framing) and the most recent turns, and is
// idempotent: re-applying it to an already-truncated conversation returns
// the input unchanged.
package conv

import (
	"github.com/anthropics/anthropic-sdk-go"
)

// elisionMarker is the synthetic turn that replaces dropped history. Its text
// both tells the model what happened and lets Truncate recognise an
// already-truncated conversation.
const elisionMarker = "[Earlier conversation turns were elided to limit request size. The first instruction and the most recent tool activity are retained.]"

// Policy configures when and how much to truncate.
type Policy struct {
	// MaxTurns triggers truncation once the conversation grows past it.
	MaxTurns int
	// MaxEstimatedTokens additionally triggers on estimated size; 0 disables.
	MaxEstimatedTokens int
	// KeepRecent is the minimum number of trailing turns retained verbatim.
	KeepRecent int
}

// Stats summarizes one truncation application.
type Stats struct {
	Applied        bool
	DroppedTurns   int
	EstimatedSize  int
	RetainedRecent int
}

// Truncate applies the policy to msgs and returns the (possibly new)
// conversation plus stats. When nothing needs to drop, the original slice is
// returned untouched.
//
// The retained shape is: first turn, one marker turn, then the newest groups
// covering at least KeepRecent messages. Groups are never split, so the
// retained tail can exceed KeepRecent by one message when a pair straddles
// the boundary.
func Truncate(msgs []anthropic.MessageParam, p Policy, c HeuristicCounter) ([]anthropic.MessageParam, Stats) {
	stats := Stats{EstimatedSize: c.CountConversation(msgs)}
	if len(msgs) <= 2 {
		return msgs, stats
	}

	overTurns := p.MaxTurns > 0 && len(msgs) > p.MaxTurns
	overTokens := p.MaxEstimatedTokens > 0 && stats.EstimatedSize > p.MaxEstimatedTokens
	if !overTurns && !overTokens {
		return msgs, stats
	}

	// The interior excludes the first turn and, when already truncated, the
	// existing marker; recomputing over the same tail is what makes repeated
	// application a no-op.
	interiorStart := 1
	if IsElisionMarker(msgs[1]) {
		interiorStart = 2
	}
	interior := msgs[interiorStart:]

	groups := GroupBlocks(interior)

	// Walk groups newest -> oldest until the retained tail covers KeepRecent.
	retained := 0
	cut := len(groups)
	for gi := len(groups) - 1; gi >= 0 && retained < p.KeepRecent; gi-- {
		retained += groups[gi].Len()
		cut = gi
	}

	dropped := 0
	if cut < len(groups) {
		dropped = groups[cut].Start
	} else {
		dropped = len(interior)
	}
	// Turns dropped beyond an already-present marker.
	if dropped == 0 && interiorStart == 1 {
		// Nothing to elide; leave the conversation alone.
		return msgs, stats
	}
	if dropped == 0 {
		// Already truncated and the tail is already minimal.
		return msgs, stats
	}

	tail := interior[dropped:]
	out := make([]anthropic.MessageParam, 0, len(tail)+2)
	out = append(out, msgs[0])
	out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(elisionMarker)))
	out = append(out, tail...)

	stats.Applied = true
	stats.DroppedTurns = dropped
	stats.RetainedRecent = len(tail)
	return out, stats
}

// IsElisionMarker reports whether a message is the synthetic marker turn.
func IsElisionMarker(m anthropic.MessageParam) bool {
	if !isUser(m) || len(m.Content) != 1 {
		return false
	}
	tb := m.Content[0].OfText
	return tb != nil && tb.Text == elisionMarker
}
