package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prerana17/Morpheus.AI/internal/config"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.DefaultCompletionSentinel, cfg.CompletionSentinel)
	assert.Equal(t, 7, cfg.Scoring.MaxScore)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxIterations, cfg.MaxIterations)
}

func TestLoad_OverlaysOnDefaults(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bench.yaml")
	doc := `
model: claude-opus-4-20250514
max_papers: 3
simulator_timeout: 2m
scoring:
  max_score: 7
  many_graphs_threshold: 20
`
	require.NoError(t, os.WriteFile(p, []byte(doc), 0o644))

	cfg, err := config.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "claude-opus-4-20250514", cfg.Model)
	assert.Equal(t, 3, cfg.MaxPapers)
	assert.Equal(t, 2*time.Minute, cfg.SimulatorTimeout)
	assert.Equal(t, 20, cfg.Scoring.ManyGraphsThreshold)
	// Untouched fields keep their defaults.
	assert.Equal(t, config.DefaultMaxIterations, cfg.MaxIterations)
	assert.Equal(t, config.DefaultTruncateKeepRecent, cfg.Truncation.KeepRecent)
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty sentinel", func(c *config.Config) { c.CompletionSentinel = "" }},
		{"zero papers", func(c *config.Config) { c.MaxPapers = 0 }},
		{"zero iterations", func(c *config.Config) { c.MaxIterations = 0 }},
		{"zero retry attempts", func(c *config.Config) { c.Retry.MaxAttempts = 0 }},
		{"keep_recent too large", func(c *config.Config) { c.Truncation.MaxTurns = c.Truncation.KeepRecent }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
