// Package transcript persists the per-paper conversation alongside the run
// artifacts.
//
// Persistence model:
//   - conversation.json holds every turn with its blocks (text, tool_use with
//     raw input, tool_result with its payload), enough to replay a run.
//   - conversation.txt is a flattened human-readable rendering of the same.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// Block is one persisted content block of a turn.
type Block struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ToolName  string          `json:"tool_name,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	Content   string          `json:"content,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
}

// Turn is a persisted view of one conversation message.
type Turn struct {
	Role   string  `json:"role"`
	Blocks []Block `json:"blocks"`
}

// Flatten converts API message params into persistable turns.
func Flatten(msgs []anthropic.MessageParam) []Turn {
	turns := make([]Turn, 0, len(msgs))
	for _, m := range msgs {
		t := Turn{Role: string(m.Role)}
		for _, c := range m.Content {
			switch {
			case c.OfText != nil:
				t.Blocks = append(t.Blocks, Block{Type: "text", Text: c.OfText.Text})
			case c.OfToolUse != nil:
				in, _ := json.Marshal(c.OfToolUse.Input)
				t.Blocks = append(t.Blocks, Block{
					Type:      "tool_use",
					ToolName:  c.OfToolUse.Name,
					ToolUseID: c.OfToolUse.ID,
					Input:     in,
				})
			case c.OfToolResult != nil:
				var content strings.Builder
				for _, rc := range c.OfToolResult.Content {
					if rc.OfText != nil {
						content.WriteString(rc.OfText.Text)
					}
				}
				t.Blocks = append(t.Blocks, Block{
					Type:      "tool_result",
					ToolUseID: c.OfToolResult.ToolUseID,
					Content:   content.String(),
					IsError:   c.OfToolResult.IsError.Value,
				})
			}
		}
		turns = append(turns, t)
	}
	return turns
}

// Save writes conversation.json and conversation.txt into dir.
func Save(dir string, msgs []anthropic.MessageParam) error {
	turns := Flatten(msgs)

	b, err := json.MarshalIndent(turns, "", " ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "conversation.json"), b, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "conversation.txt"), []byte(Render(turns)), 0o644)
}

// Load reads conversation.json from dir. A missing file loads as nil.
func Load(dir string) ([]Turn, error) {
	b, err := os.ReadFile(filepath.Join(dir, "conversation.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var turns []Turn
	if err := json.Unmarshal(b, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// Render produces the human-readable transcript.
func Render(turns []Turn) string {
	var sb strings.Builder
	for i, t := range turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "=== %s ===\n", t.Role)
		for _, b := range t.Blocks {
			switch b.Type {
			case "text":
				sb.WriteString(b.Text)
				sb.WriteString("\n")
			case "tool_use":
				fmt.Fprintf(&sb, "[tool_use %s %s] %s\n", b.ToolName, b.ToolUseID, string(b.Input))
			case "tool_result":
				marker := ""
				if b.IsError {
					marker = " ERROR"
				}
				fmt.Fprintf(&sb, "[tool_result %s%s] %s\n", b.ToolUseID, marker, b.Content)
			}
		}
	}
	return sb.String()
}
