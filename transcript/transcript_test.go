package transcript_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prerana17/Morpheus.AI/transcript"
)

func sampleConversation() []anthropic.MessageParam {
	use := anthropic.ToolUseBlockParam{
		Type:  "tool_use",
		ID:    "t1",
		Name:  "run_morpheus",
		Input: map[string]any{"xml_path": "runs/x/model.xml"},
	}
	return []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock("process the paper")),
		anthropic.NewAssistantMessage(anthropic.ContentBlockParamUnion{OfToolUse: &use}),
		anthropic.NewUserMessage(anthropic.NewToolResultBlock("t1", `{"ok":true}`, false)),
		anthropic.NewAssistantMessage(anthropic.NewTextBlock("PAPER_COMPLETE")),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, transcript.Save(dir, sampleConversation()))

	turns, err := transcript.Load(dir)
	require.NoError(t, err)
	require.Len(t, turns, 4)

	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "process the paper", turns[0].Blocks[0].Text)

	require.Len(t, turns[1].Blocks, 1)
	assert.Equal(t, "tool_use", turns[1].Blocks[0].Type)
	assert.Equal(t, "run_morpheus", turns[1].Blocks[0].ToolName)
	assert.JSONEq(t, `{"xml_path":"runs/x/model.xml"}`, string(turns[1].Blocks[0].Input))

	assert.Equal(t, "tool_result", turns[2].Blocks[0].Type)
	assert.Equal(t, "t1", turns[2].Blocks[0].ToolUseID)
	assert.Equal(t, `{"ok":true}`, turns[2].Blocks[0].Content)
	assert.False(t, turns[2].Blocks[0].IsError)

	// Human-readable rendering lands next to the JSON.
	txt, err := os.ReadFile(filepath.Join(dir, "conversation.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(txt), "=== assistant ===")
	assert.Contains(t, string(txt), "[tool_use run_morpheus t1]")
	assert.Contains(t, string(txt), "PAPER_COMPLETE")
}

func TestLoadMissingReturnsNil(t *testing.T) {
	turns, err := transcript.Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, turns)
}

func TestLoadInvalidJSONReturnsError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conversation.json"), []byte("{oops"), 0o644))
	_, err := transcript.Load(dir)
	require.Error(t, err)
}

func TestRenderMarksErrorResults(t *testing.T) {
	msgs := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewToolResultBlock("t2", "unknown tool", true)),
	}
	out := transcript.Render(transcript.Flatten(msgs))
	assert.Contains(t, out, "[tool_result t2 ERROR] unknown tool")
}
