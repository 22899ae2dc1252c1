package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/Prerana17/Morpheus.AI/internal/config"
	"github.com/Prerana17/Morpheus.AI/internal/conv"
	"github.com/Prerana17/Morpheus.AI/internal/runstore"
	"github.com/Prerana17/Morpheus.AI/internal/telemetry"
	"github.com/Prerana17/Morpheus.AI/tools"
)

// Outcome is how a turn loop ended.
type Outcome string

const (
	// OutcomeCompleted means the model produced the completion sentinel.
	OutcomeCompleted Outcome = "completed"
	// OutcomeCapped means the iteration cap expired first.
	OutcomeCapped Outcome = "capped"
)

// TransportError wraps an API failure that survived retry. It is fatal for
// the current paper but not for the batch.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("model transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// Result is the terminal state of one paper's turn loop. Messages holds the
// full conversation for transcript persistence.
type Result struct {
	Outcome    Outcome
	Iterations int
	Messages   []anthropic.MessageParam
}

// Loop runs the tool-calling conversation for a single paper.
type Loop struct {
	Client *anthropic.Client
	Cfg    *config.Config
	Reg    *tools.Registry
	Log    zerolog.Logger
	Rec    *telemetry.Recorder
}

// toolEcho is the slice of tool result payloads the loop tracks into the run
// record. Tools echo these fields alongside their domain output.
type toolEcho struct {
	RunID    string `json:"run_id"`
	PNGCount *int   `json:"png_count"`
	CSVCount *int   `json:"csv_count"`
	Total    *int   `json:"total_score"`
	Max      *int   `json:"max_possible_score"`
}

func (l *Loop) anthropicTools() []anthropic.ToolUnionParam {
	defs := l.Reg.Definitions()
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, t := range defs {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// Run drives the conversation for record's paper until the model signals
// completion, the iteration cap expires, or the transport fails for good.
// The record is updated in place as tool results come back; Run finalizes it
// for completion and transport failure, and leaves capping to the caller so
// a late evaluation can still land first.
func (l *Loop) Run(ctx context.Context, record *runstore.Record) (Result, error) {
	sentinel := l.Cfg.CompletionSentinel
	policy := conv.Policy{
		MaxTurns:           l.Cfg.Truncation.MaxTurns,
		MaxEstimatedTokens: l.Cfg.Truncation.MaxEstimatedTokens,
		KeepRecent:         l.Cfg.Truncation.KeepRecent,
	}
	counter := conv.HeuristicCounter{}
	toolParams := l.anthropicTools()

	msgs := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(initialPrompt(record.PaperPath, sentinel))),
	}
	res := Result{Outcome: OutcomeCapped}

	for i := 0; i < l.Cfg.MaxIterations; i++ {
		res.Iterations = i + 1
		record.Iterations = res.Iterations

		turnID := fmt.Sprintf("turn-%d-%d", i+1, time.Now().UnixNano())
		tctx := telemetry.WithTurnID(ctx, turnID)

		var tstats conv.Stats
		msgs, tstats = conv.Truncate(msgs, policy, counter)
		if tstats.Applied {
			l.Rec.Emit("conversation_truncated", map[string]any{
				"turn_id":         turnID,
				"dropped_turns":   tstats.DroppedTurns,
				"estimated_size":  tstats.EstimatedSize,
				"retained_recent": tstats.RetainedRecent,
			})
			l.Log.Debug().Int("dropped", tstats.DroppedTurns).Msg("conversation truncated")
		}

		msg, err := l.send(tctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(l.Cfg.Model),
			MaxTokens: l.Cfg.MaxResponseTokens,
			System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
			Messages:  msgs,
			Tools:     toolParams,
		})
		if err != nil {
			record.Error = err.Error()
			record.Finalize(runstore.StatusFailed)
			res.Messages = msgs
			return res, err
		}
		l.Rec.Emit("model_called", map[string]any{
			"turn_id":   turnID,
			"iteration": i + 1,
			"turns":     len(msgs),
		})
		msgs = append(msgs, msg.ToParam())

		var text strings.Builder
		var uses []anthropic.ToolUseBlock
		for _, block := range msg.Content {
			switch v := block.AsAny().(type) {
			case anthropic.TextBlock:
				text.WriteString(v.Text)
			case anthropic.ToolUseBlock:
				uses = append(uses, v)
			}
		}
		done := sentinel != "" &&
			strings.Contains(strings.ToUpper(text.String()), strings.ToUpper(sentinel))

		if len(uses) > 0 {
			results := make([]anthropic.ContentBlockParamUnion, 0, len(uses))
			for _, use := range uses {
				results = append(results, l.dispatch(tctx, record, use))
			}
			msgs = append(msgs, anthropic.NewUserMessage(results...))
		}

		if done {
			l.Rec.Emit("sentinel_seen", map[string]any{"turn_id": turnID, "iteration": i + 1})
			record.Finalize(runstore.StatusCompleted)
			res.Outcome = OutcomeCompleted
			res.Messages = msgs
			return res, nil
		}
		if len(uses) == 0 {
			// Plain prose without the sentinel stalls the loop; prod it along.
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(continuePrompt(sentinel))))
		}
	}

	l.Rec.Emit("iteration_cap", map[string]any{"cap": l.Cfg.MaxIterations})
	l.Log.Warn().Int("cap", l.Cfg.MaxIterations).Str("paper", record.Paper).Msg("iteration cap reached")
	res.Messages = msgs
	return res, nil
}

// send issues one Messages call, retrying rate limits with exponential
// backoff. Any other failure, or retry exhaustion, surfaces as a
// TransportError.
func (l *Loop) send(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var msg *anthropic.Message
	b := retry.WithMaxRetries(uint64(l.Cfg.Retry.MaxAttempts), retry.NewExponential(l.Cfg.Retry.InitialDelay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		m, err := l.Client.Messages.New(ctx, params)
		if err != nil {
			var apierr *anthropic.Error
			if errors.As(err, &apierr) && apierr.StatusCode == http.StatusTooManyRequests {
				turnID, _ := telemetry.TurnIDFromContext(ctx)
				l.Rec.Emit("rate_limited", map[string]any{"turn_id": turnID})
				l.Log.Warn().Msg("rate limited, backing off")
				return retry.RetryableError(err)
			}
			return err
		}
		msg = m
		return nil
	})
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return msg, nil
}

// dispatch executes one tool call and converts the outcome into a
// tool_result block. Handler errors become is_error results so the model can
// correct its arguments; they never abort the loop.
func (l *Loop) dispatch(ctx context.Context, record *runstore.Record, use anthropic.ToolUseBlock) anthropic.ContentBlockParamUnion {
	turnID, _ := telemetry.TurnIDFromContext(ctx)
	input := json.RawMessage(use.JSON.Input.Raw())
	start := time.Now()

	emit := func(outSize int, errStr string) {
		fields := map[string]any{
			"tool_name":   use.Name,
			"duration_ms": time.Since(start).Milliseconds(),
			"input_size":  len(input),
			"output_size": outSize,
			"turn_id":     turnID,
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		l.Rec.Emit("tool_exec", fields)
	}

	def, ok := l.Reg.Get(use.Name)
	if !ok {
		emit(0, "tool not found")
		return anthropic.NewToolResultBlock(use.ID, fmt.Sprintf("unknown tool %q", use.Name), true)
	}

	out, err := def.Function(ctx, input)
	if err != nil {
		emit(0, "tool error")
		l.Log.Warn().Str("tool", use.Name).Err(err).Msg("tool rejected input")
		return anthropic.NewToolResultBlock(use.ID, err.Error(), true)
	}
	emit(len(out), "")

	var echo toolEcho
	if json.Unmarshal([]byte(out), &echo) == nil {
		if echo.RunID != "" {
			record.RunID = echo.RunID
		}
		if echo.PNGCount != nil {
			record.PNGCount = *echo.PNGCount
		}
		if echo.CSVCount != nil {
			record.CSVCount = *echo.CSVCount
		}
		if echo.Total != nil {
			maxScore := record.MaxScore
			if echo.Max != nil {
				maxScore = *echo.Max
			}
			record.SetScore(*echo.Total, maxScore)
		}
	}
	return anthropic.NewToolResultBlock(use.ID, out, false)
}
