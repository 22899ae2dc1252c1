// Package config provides the benchmark configuration struct and loader.
// A single Config is constructed at startup and passed by reference into the
// orchestrator, the turn loop, and the tool registry.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for benchmark configuration. These are the single source of
// truth: Default() references them and no other code should duplicate them.
const (
	DefaultModel = "claude-sonnet-4-5-20250929"

	DefaultPapersDir     = "papers"
	DefaultRunsDir       = "runs"
	DefaultReferencesDir = "references"

	DefaultSimulatorBin     = "morpheus"
	DefaultSimulatorTimeout = 10 * time.Minute

	DefaultMaxPapers          = 10
	DefaultMaxIterations      = 25
	DefaultMaxResponseTokens  = 8192
	DefaultCompletionSentinel = "PAPER_COMPLETE"

	DefaultRetryMaxAttempts   = 5
	DefaultRetryInitialDelay  = 5 * time.Second
	DefaultTruncateMaxTurns   = 8
	DefaultTruncateKeepRecent = 6

	DefaultReferenceReadChars = 8000
	DefaultFileReadChars      = 20000
)

// Scoring holds the rubric point values for run evaluation. The original
// thresholds are tunable policy, so they live in configuration rather than in
// the evaluator.
type Scoring struct {
	MaxScore            int `yaml:"max_score"`
	ErrorPenaltyPerLine int `yaml:"error_penalty_per_line"`
	ModelGraphPoints    int `yaml:"model_graph_points"`
	TimeStepPoints      int `yaml:"time_step_points"`
	TimeStepThreshold   int `yaml:"time_step_threshold"`
	MetadataPoints      int `yaml:"metadata_points"`
	ResultsPoints       int `yaml:"results_points"`
	ManyGraphsBonus     int `yaml:"many_graphs_bonus"`
	ManyGraphsThreshold int `yaml:"many_graphs_threshold"`
	GnuplotterPoints    int `yaml:"gnuplotter_points"`
}

// Retry configures backoff for rate-limited model calls.
type Retry struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
}

// Truncation bounds conversation growth between model calls.
type Truncation struct {
	// MaxTurns triggers truncation once the conversation grows past it.
	MaxTurns int `yaml:"max_turns"`
	// MaxEstimatedTokens additionally triggers on estimated size; 0 disables.
	MaxEstimatedTokens int `yaml:"max_estimated_tokens"`
	// KeepRecent is the minimum number of trailing turns retained verbatim.
	KeepRecent int `yaml:"keep_recent"`
}

// Config is the complete benchmark configuration.
type Config struct {
	Model string `yaml:"model"`

	PapersDir     string `yaml:"papers_dir"`
	RunsDir       string `yaml:"runs_dir"`
	ReferencesDir string `yaml:"references_dir"`

	SimulatorBin     string        `yaml:"simulator_bin"`
	SimulatorTimeout time.Duration `yaml:"simulator_timeout"`

	MaxPapers          int    `yaml:"max_papers"`
	MaxIterations      int    `yaml:"max_iterations"`
	MaxResponseTokens  int64  `yaml:"max_response_tokens"`
	CompletionSentinel string `yaml:"completion_sentinel"`

	Retry      Retry      `yaml:"retry"`
	Truncation Truncation `yaml:"truncation"`
	Scoring    Scoring    `yaml:"scoring"`

	Telemetry bool `yaml:"telemetry"`
}

// Default returns a Config populated with the documented defaults.
func Default() *Config {
	return &Config{
		Model:              DefaultModel,
		PapersDir:          DefaultPapersDir,
		RunsDir:            DefaultRunsDir,
		ReferencesDir:      DefaultReferencesDir,
		SimulatorBin:       DefaultSimulatorBin,
		SimulatorTimeout:   DefaultSimulatorTimeout,
		MaxPapers:          DefaultMaxPapers,
		MaxIterations:      DefaultMaxIterations,
		MaxResponseTokens:  DefaultMaxResponseTokens,
		CompletionSentinel: DefaultCompletionSentinel,
		Retry: Retry{
			MaxAttempts:  DefaultRetryMaxAttempts,
			InitialDelay: DefaultRetryInitialDelay,
		},
		Truncation: Truncation{
			MaxTurns:   DefaultTruncateMaxTurns,
			KeepRecent: DefaultTruncateKeepRecent,
		},
		Scoring: Scoring{
			MaxScore:            7,
			ErrorPenaltyPerLine: 1,
			ModelGraphPoints:    1,
			TimeStepPoints:      1,
			TimeStepThreshold:   5,
			MetadataPoints:      1,
			ResultsPoints:       1,
			ManyGraphsBonus:     1,
			ManyGraphsThreshold: 10,
			GnuplotterPoints:    1,
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the loop cannot run with.
func (c *Config) Validate() error {
	if c.Model == "" {
		return errors.New("model must not be empty")
	}
	if c.CompletionSentinel == "" {
		return errors.New("completion_sentinel must not be empty")
	}
	if c.MaxPapers <= 0 {
		return errors.New("max_papers must be positive")
	}
	if c.MaxIterations <= 0 {
		return errors.New("max_iterations must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		return errors.New("retry.max_attempts must be positive")
	}
	if c.Truncation.KeepRecent <= 0 {
		return errors.New("truncation.keep_recent must be positive")
	}
	// The truncated form is first + marker + KeepRecent turns; a smaller
	// MaxTurns would re-trigger immediately.
	if c.Truncation.MaxTurns < c.Truncation.KeepRecent+2 {
		return errors.New("truncation.max_turns must be at least keep_recent+2")
	}
	return nil
}
