// Package benchmark orchestrates a batch of papers: discovery, one isolated
// turn loop per paper, forced evaluation of unscored runs, and the summary
// report.
package benchmark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/rs/zerolog"

	"github.com/Prerana17/Morpheus.AI/internal/config"
	"github.com/Prerana17/Morpheus.AI/internal/evaluation"
	"github.com/Prerana17/Morpheus.AI/internal/references"
	"github.com/Prerana17/Morpheus.AI/internal/runner"
	"github.com/Prerana17/Morpheus.AI/internal/runstore"
	"github.com/Prerana17/Morpheus.AI/internal/simulator"
	"github.com/Prerana17/Morpheus.AI/internal/telemetry"
	"github.com/Prerana17/Morpheus.AI/tools"
	"github.com/Prerana17/Morpheus.AI/transcript"
)

// Summary aggregates the batch outcome. It is persisted as
// benchmark_results.json under the runs root.
type Summary struct {
	Timestamp       string             `json:"timestamp"`
	Papers          int                `json:"total_papers"`
	Completed       int                `json:"completed"`
	Failed          int                `json:"failed"`
	Incomplete      int                `json:"incomplete"`
	TotalPNG        int                `json:"total_png"`
	TotalCSV        int                `json:"total_csv"`
	Scores          []int              `json:"scores"`
	ScoreAvg        float64            `json:"score_avg"`
	ScoreMin        int                `json:"score_min"`
	ScoreMax        int                `json:"score_max"`
	DurationSeconds float64            `json:"duration_seconds"`
	Records         []*runstore.Record `json:"papers"`
}

// Batch wires a full benchmark over one papers directory.
type Batch struct {
	Cfg    *config.Config
	Client *anthropic.Client
	Log    zerolog.Logger

	store *runstore.Store
	refs  *references.Catalog
	reg   *tools.Registry
	rec   *telemetry.Recorder
}

// New builds the batch's collaborators from the configuration.
func New(cfg *config.Config, client *anthropic.Client, log zerolog.Logger) (*Batch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	store, err := runstore.NewStore(cfg.RunsDir)
	if err != nil {
		return nil, fmt.Errorf("runs dir: %w", err)
	}
	refs, err := references.NewCatalog(cfg.ReferencesDir)
	if err != nil {
		return nil, fmt.Errorf("references dir: %w", err)
	}
	rec := telemetry.NewRecorder(store.Root(), cfg.Telemetry)

	reg, err := tools.NewRegistry(tools.Deps{
		Cfg:   cfg,
		Store: store,
		Refs:  refs,
		Sim: &simulator.Runner{
			Bin:     cfg.SimulatorBin,
			Timeout: cfg.SimulatorTimeout,
			Log:     log,
		},
		Log: log,
	})
	if err != nil {
		return nil, err
	}
	return &Batch{Cfg: cfg, Client: client, Log: log, store: store, refs: refs, reg: reg, rec: rec}, nil
}

// Run processes every discovered paper and writes the summary. Per-paper
// failures are recorded, not propagated; the returned error covers only
// batch-level problems (no papers, cancelled context, summary write).
func (b *Batch) Run(ctx context.Context) (*Summary, error) {
	papers, err := Discover(b.Cfg.PapersDir, b.Cfg.MaxPapers)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, fmt.Errorf("no papers (*.pdf, *.txt) found in %s", b.Cfg.PapersDir)
	}

	b.rec.Emit("batch_started", map[string]any{"papers": len(papers), "model": b.Cfg.Model})
	start := time.Now()
	records := make([]*runstore.Record, 0, len(papers))

	for i, paper := range papers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.Log.Info().
			Int("paper", i+1).
			Int("of", len(papers)).
			Str("file", filepath.Base(paper)).
			Msg("processing paper")

		records = append(records, b.runOne(ctx, paper))
	}

	s := summarize(records, time.Since(start))
	if err := b.writeSummary(s); err != nil {
		return s, err
	}
	b.logSummary(s)
	b.rec.Emit("batch_finished", map[string]any{
		"papers": s.Papers, "completed": s.Completed,
		"failed": s.Failed, "incomplete": s.Incomplete,
	})
	return s, nil
}

// runOne isolates a single paper: its own record and a fresh conversation.
// Whatever happens inside stays on the record.
func (b *Batch) runOne(ctx context.Context, paper string) *runstore.Record {
	record := runstore.NewRecord(filepath.Base(paper), paper, b.Cfg.Scoring.MaxScore)

	loop := &runner.Loop{Client: b.Client, Cfg: b.Cfg, Reg: b.reg, Log: b.Log, Rec: b.rec}
	res, err := loop.Run(ctx, record)
	if err != nil {
		var terr *runner.TransportError
		if !errors.As(err, &terr) {
			record.Error = err.Error()
			record.Finalize(runstore.StatusFailed)
		}
		b.Log.Error().Err(err).Str("paper", record.Paper).Msg("paper failed")
	}

	// A run that produced artifacts but never called the evaluation tool
	// still gets scored from whatever is on disk.
	if record.RunID != "" && record.Score == nil {
		if ev, err := evaluation.Evaluate(b.store, b.Cfg.Scoring, record.RunID); err == nil {
			record.SetScore(ev.Total, ev.Max)
		} else {
			b.Log.Warn().Err(err).Str("run_id", record.RunID).Msg("late evaluation failed")
		}
	}
	record.Finalize(runstore.StatusIncomplete)

	if record.RunID != "" {
		if dir, err := b.store.RunDir(record.RunID); err == nil {
			if err := transcript.Save(dir, res.Messages); err != nil {
				b.Log.Warn().Err(err).Str("run_id", record.RunID).Msg("transcript save failed")
			}
		}
	}

	b.Log.Info().
		Str("paper", record.Paper).
		Str("status", string(record.Status)).
		Int("iterations", record.Iterations).
		Msg("paper finished")
	return record
}

func summarize(records []*runstore.Record, dur time.Duration) *Summary {
	s := &Summary{
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Papers:          len(records),
		Scores:          []int{},
		DurationSeconds: dur.Seconds(),
		Records:         records,
	}
	for _, r := range records {
		switch r.Status {
		case runstore.StatusCompleted:
			s.Completed++
		case runstore.StatusFailed:
			s.Failed++
		default:
			s.Incomplete++
		}
		s.TotalPNG += r.PNGCount
		s.TotalCSV += r.CSVCount
		if r.Score != nil {
			s.Scores = append(s.Scores, *r.Score)
		}
	}
	if len(s.Scores) > 0 {
		s.ScoreMin = s.Scores[0]
		s.ScoreMax = s.Scores[0]
		sum := 0
		for _, v := range s.Scores {
			sum += v
			s.ScoreMin = min(s.ScoreMin, v)
			s.ScoreMax = max(s.ScoreMax, v)
		}
		s.ScoreAvg = float64(sum) / float64(len(s.Scores))
	}
	return s
}

func (b *Batch) writeSummary(s *Summary) error {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(b.store.Root(), "benchmark_results.json"), out, 0o644)
}

func (b *Batch) logSummary(s *Summary) {
	ev := b.Log.Info().
		Int("papers", s.Papers).
		Int("completed", s.Completed).
		Int("failed", s.Failed).
		Int("incomplete", s.Incomplete).
		Int("total_png", s.TotalPNG).
		Int("total_csv", s.TotalCSV).
		Float64("duration_s", s.DurationSeconds)
	if len(s.Scores) > 0 {
		ev = ev.Float64("score_avg", s.ScoreAvg).
			Int("score_min", s.ScoreMin).
			Int("score_max", s.ScoreMax)
	}
	ev.Msg("benchmark finished")
}
