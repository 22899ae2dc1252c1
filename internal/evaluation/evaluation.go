// Package evaluation scores a run from its observable artifacts and persists
// the result in machine-readable and human-readable forms.
package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Prerana17/Morpheus.AI/internal/config"
	"github.com/Prerana17/Morpheus.AI/internal/modelxml"
	"github.com/Prerana17/Morpheus.AI/internal/runstore"
)

// Breakdown itemizes the score components. Field names mirror the evaluation
// record written to disk.
type Breakdown struct {
	XMLErrorCount     int      `json:"xml_error_count"`
	XMLErrorPenalty   int      `json:"xml_error_penalty"`
	ModelGraphPresent bool     `json:"model_graph_present"`
	ModelGraphFiles   []string `json:"model_graph_files"`
	TimeStepsDetected int      `json:"time_steps_detected"`
	TimeStepScore     int      `json:"time_step_score"`
	MetadataPresent   bool     `json:"metadata_present"`
	ResultsGenerated  bool     `json:"results_generated"`
	PNGFiles          []string `json:"png_files"`
	PNGCount          int      `json:"png_count"`
	CSVFiles          []string `json:"csv_files"`
	CSVCount          int      `json:"csv_count"`
	ManyGraphsBonus   int      `json:"many_graphs_bonus"`
	XMLHasAnalysis    bool     `json:"xml_has_analysis"`
	XMLHasGnuplotter  bool     `json:"xml_has_gnuplotter"`
	XMLHasLogger      bool     `json:"xml_has_logger"`
	GnuplotterBonus   int      `json:"gnuplotter_bonus"`

	// Stop-condition comparison: configured StopTime vs last observed time.
	// Informational only; it carries no points so totals stay comparable.
	StopTimeConfigured *float64 `json:"stop_time_configured,omitempty"`
	LastTimeObserved   *float64 `json:"last_time_observed,omitempty"`
	ReachedStopTime    bool     `json:"reached_stop_time"`

	InternalError string `json:"evaluation_exception,omitempty"`
}

// Result is the immutable score record for one run. A run has at most one.
type Result struct {
	RunID     string    `json:"run_id"`
	Total     int       `json:"total_score"`
	Max       int       `json:"max_possible_score"`
	Breakdown Breakdown `json:"breakdown"`
	Timestamp string    `json:"timestamp"`
	JSONPath  string    `json:"-"`
	TextPath  string    `json:"-"`
}

// Evaluate computes a score for the run from whatever artifacts exist and
// writes evaluation.json and evaluation.txt into the run directory. It never
// fails the run: internal problems are recorded in the breakdown and a
// (possibly partial) result is still produced and persisted.
func Evaluate(store *runstore.Store, rubric config.Scoring, runID string) (Result, error) {
	dir, err := store.RunDir(runID)
	if err != nil {
		return Result{}, err
	}

	score := 0
	bd := Breakdown{ModelGraphFiles: []string{}, PNGFiles: []string{}, CSVFiles: []string{}}

	// 1. Error-line penalty from the simulator's model error file.
	errText, _ := store.ReadText(filepath.Join(dir, "model.xml.err"), 0)
	for _, line := range strings.Split(errText, "\n") {
		if strings.TrimSpace(line) != "" {
			bd.XMLErrorCount++
		}
	}
	bd.XMLErrorPenalty = -bd.XMLErrorCount * rubric.ErrorPenaltyPerLine
	score += bd.XMLErrorPenalty

	// 2. Model graph artifact.
	if graphs, err := store.Glob(runID, "model_graph.dot"); err == nil && len(graphs) > 0 {
		bd.ModelGraphPresent = true
		bd.ModelGraphFiles = graphs
		score += rubric.ModelGraphPoints
	}

	// 3. Time-step progression from the simulator's out file (or stdout log).
	outText, _ := store.ReadText(filepath.Join(dir, "model.xml.out"), 0)
	if outText == "" {
		outText, _ = store.ReadText(filepath.Join(dir, "stdout.log"), 0)
	}
	times := modelxml.ExtractTimes(outText)
	bd.TimeStepsDetected = len(times)
	if len(times) > rubric.TimeStepThreshold {
		bd.TimeStepScore = rubric.TimeStepPoints
		score += rubric.TimeStepPoints
	}

	// 4. Metadata presence.
	if store.Exists(runID, "metadata.json") {
		bd.MetadataPresent = true
		score += rubric.MetadataPoints
	}

	// 5. Result artifacts.
	outputs, outErr := store.ListOutputs(runID)
	if outErr != nil {
		bd.InternalError = outErr.Error()
	}
	bd.PNGFiles = outputs.PNG
	bd.PNGCount = len(outputs.PNG)
	bd.CSVFiles = outputs.CSV
	bd.CSVCount = len(outputs.CSV)
	bd.ResultsGenerated = bd.PNGCount > 0 || bd.CSVCount > 0
	if bd.ResultsGenerated {
		score += rubric.ResultsPoints
	}
	if bd.PNGCount >= rubric.ManyGraphsThreshold {
		bd.ManyGraphsBonus = rubric.ManyGraphsBonus
		score += rubric.ManyGraphsBonus
	}

	// 6. Model document structure.
	xmlText, _ := store.ReadText(filepath.Join(dir, "model.xml"), 0)
	if xmlText != "" {
		v := modelxml.Validate(xmlText)
		bd.XMLHasAnalysis = v.HasAnalysis
		bd.XMLHasGnuplotter = v.HasGnuplotter
		bd.XMLHasLogger = v.HasLogger
		if v.HasGnuplotter {
			bd.GnuplotterBonus = rubric.GnuplotterPoints
			score += rubric.GnuplotterPoints
		}
		if stop, ok := modelxml.ExtractStopTime(xmlText); ok {
			bd.StopTimeConfigured = &stop
			if len(times) > 0 {
				last := times[len(times)-1]
				bd.LastTimeObserved = &last
				bd.ReachedStopTime = last >= stop
			}
		}
	}

	res := Result{
		RunID:     runID,
		Total:     score,
		Max:       rubric.MaxScore,
		Breakdown: bd,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	res.JSONPath = filepath.Join(dir, "evaluation.json")
	res.TextPath = filepath.Join(dir, "evaluation.txt")

	if b, err := json.MarshalIndent(res, "", "  "); err == nil {
		if werr := os.WriteFile(res.JSONPath, b, 0o644); werr != nil {
			return res, werr
		}
	}
	if err := os.WriteFile(res.TextPath, []byte(res.Text()), 0o644); err != nil {
		return res, err
	}
	return res, nil
}

// Text renders the human-readable evaluation summary.
func (r Result) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run ID: %s\n", r.RunID)
	fmt.Fprintf(&b, "Total Score: %d/%d\n\n", r.Total, r.Max)
	fmt.Fprintf(&b, "XML Errors: %d\n", r.Breakdown.XMLErrorCount)
	fmt.Fprintf(&b, "Model Graph Present: %t\n", r.Breakdown.ModelGraphPresent)
	fmt.Fprintf(&b, "Time Steps Detected: %d\n", r.Breakdown.TimeStepsDetected)
	fmt.Fprintf(&b, "Metadata Present: %t\n", r.Breakdown.MetadataPresent)
	fmt.Fprintf(&b, "Results Generated: %t\n", r.Breakdown.ResultsGenerated)
	fmt.Fprintf(&b, "PNG Count: %d\n", r.Breakdown.PNGCount)
	fmt.Fprintf(&b, "CSV Count: %d\n", r.Breakdown.CSVCount)
	fmt.Fprintf(&b, "Has Gnuplotter: %t\n", r.Breakdown.XMLHasGnuplotter)
	fmt.Fprintf(&b, "Many Graphs Bonus: %d\n", r.Breakdown.ManyGraphsBonus)
	fmt.Fprintf(&b, "Reached Stop Time: %t\n", r.Breakdown.ReachedStopTime)
	return b.String()
}
