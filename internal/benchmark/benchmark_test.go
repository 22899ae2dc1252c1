package benchmark_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prerana17/Morpheus.AI/internal/benchmark"
	"github.com/Prerana17/Morpheus.AI/internal/config"
	"github.com/Prerana17/Morpheus.AI/internal/runstore"
)

// loopTransport answers every API request with the same assistant message.
type loopTransport struct {
	mu    sync.Mutex
	body  []byte
	calls int
}

func (l *loopTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	_, _ = io.ReadAll(req.Body)
	_ = req.Body.Close()
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	resp := &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewReader(l.body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func assistantBody(t *testing.T, text string) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"role":    "assistant",
		"content": []map[string]any{{"type": "text", "text": text}},
	})
	require.NoError(t, err)
	return b
}

func newBatch(t *testing.T, papers int, ft *loopTransport) (*benchmark.Batch, *config.Config) {
	t.Helper()

	root := t.TempDir()
	papersDir := filepath.Join(root, "papers")
	require.NoError(t, os.MkdirAll(papersDir, 0o755))
	names := []string{"alpha.txt", "beta.txt", "gamma.txt", "delta.txt", "epsilon.txt"}
	for i := 0; i < papers; i++ {
		require.NoError(t, os.WriteFile(
			filepath.Join(papersDir, names[i]),
			[]byte("a cellular potts model paper"), 0o644))
	}

	cfg := config.Default()
	cfg.PapersDir = papersDir
	cfg.RunsDir = filepath.Join(root, "runs")
	cfg.ReferencesDir = filepath.Join(root, "references")
	cfg.MaxIterations = 2
	cfg.Retry.MaxAttempts = 1
	cfg.Retry.InitialDelay = time.Millisecond

	client := anthropic.NewClient(
		option.WithHTTPClient(&http.Client{Transport: ft}),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	b, err := benchmark.New(cfg, &client, zerolog.Nop())
	require.NoError(t, err)
	return b, cfg
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.pdf", "notes.md", "c.TXT"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub.txt"), 0o755))

	papers, err := benchmark.Discover(dir, 0)
	require.NoError(t, err)
	require.Len(t, papers, 3)
	assert.Equal(t, "a.pdf", filepath.Base(papers[0]))
	assert.Equal(t, "b.txt", filepath.Base(papers[1]))
	assert.Equal(t, "c.TXT", filepath.Base(papers[2]))

	capped, err := benchmark.Discover(dir, 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestDiscoverMissingDirErrors(t *testing.T) {
	_, err := benchmark.Discover(filepath.Join(t.TempDir(), "nope"), 0)
	require.Error(t, err)
}

func TestBatchCompletesAllPapersOnSentinel(t *testing.T) {
	ft := &loopTransport{body: assistantBody(t, "done. PAPER_COMPLETE")}
	b, cfg := newBatch(t, 3, ft)

	s, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.Papers)
	assert.Equal(t, 3, s.Completed)
	assert.Equal(t, 0, s.Failed)
	assert.Equal(t, 0, s.Incomplete)
	// One request per paper: the sentinel lands on the first turn.
	assert.Equal(t, 3, ft.calls)

	raw, err := os.ReadFile(filepath.Join(cfg.RunsDir, "benchmark_results.json"))
	require.NoError(t, err)
	var onDisk map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	assert.EqualValues(t, 3, onDisk["total_papers"])
	assert.EqualValues(t, 3, onDisk["completed"])
}

func TestBatchMarksUnfinishedPapersIncomplete(t *testing.T) {
	ft := &loopTransport{body: assistantBody(t, "still working on it")}
	b, _ := newBatch(t, 2, ft)

	s, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Papers)
	assert.Equal(t, 0, s.Completed)
	assert.Equal(t, 2, s.Incomplete)
	for _, r := range s.Records {
		assert.Equal(t, runstore.StatusIncomplete, r.Status)
		assert.Equal(t, 2, r.Iterations)
	}
	// Each paper burns the full iteration budget.
	assert.Equal(t, 4, ft.calls)
}

// scriptedTransport answers request N with the Nth body, repeating the last.
type scriptedTransport struct {
	mu     sync.Mutex
	bodies [][]byte
	calls  int
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	_, _ = io.ReadAll(req.Body)
	_ = req.Body.Close()
	s.mu.Lock()
	i := s.calls
	s.calls++
	s.mu.Unlock()
	if i >= len(s.bodies) {
		i = len(s.bodies) - 1
	}
	resp := &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewReader(s.bodies[i])),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func TestBatchIsolatesStalledPaper(t *testing.T) {
	// Papers run sequentially, so the request sequence is: alpha finishes on
	// its first turn, beta burns both of its turns without the sentinel,
	// gamma finishes on its first turn.
	st := &scriptedTransport{bodies: [][]byte{
		assistantBody(t, "PAPER_COMPLETE"),
		assistantBody(t, "hmm"),
		assistantBody(t, "still hmm"),
		assistantBody(t, "PAPER_COMPLETE"),
	}}

	root := t.TempDir()
	papersDir := filepath.Join(root, "papers")
	require.NoError(t, os.MkdirAll(papersDir, 0o755))
	for _, name := range []string{"alpha.txt", "beta.txt", "gamma.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(papersDir, name), []byte("a paper"), 0o644))
	}

	cfg := config.Default()
	cfg.PapersDir = papersDir
	cfg.RunsDir = filepath.Join(root, "runs")
	cfg.ReferencesDir = filepath.Join(root, "references")
	cfg.MaxPapers = 5
	cfg.MaxIterations = 2

	client := anthropic.NewClient(
		option.WithHTTPClient(&http.Client{Transport: st}),
		option.WithAPIKey("test-key"),
		option.WithMaxRetries(0),
	)
	b, err := benchmark.New(cfg, &client, zerolog.Nop())
	require.NoError(t, err)

	s, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.Papers)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 1, s.Incomplete)
	assert.Equal(t, runstore.StatusCompleted, s.Records[0].Status)
	assert.Equal(t, runstore.StatusIncomplete, s.Records[1].Status)
	assert.Equal(t, runstore.StatusCompleted, s.Records[2].Status)
}

func TestBatchRespectsMaxPapers(t *testing.T) {
	ft := &loopTransport{body: assistantBody(t, "PAPER_COMPLETE")}
	b, cfg := newBatch(t, 5, ft)
	cfg.MaxPapers = 2

	s, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, s.Papers)
	assert.Equal(t, "alpha.txt", s.Records[0].Paper)
	assert.Equal(t, "beta.txt", s.Records[1].Paper)
}

func TestBatchFailsWithoutPapers(t *testing.T) {
	ft := &loopTransport{body: assistantBody(t, "PAPER_COMPLETE")}
	root := t.TempDir()
	cfg := config.Default()
	cfg.PapersDir = filepath.Join(root, "empty")
	require.NoError(t, os.MkdirAll(cfg.PapersDir, 0o755))
	cfg.RunsDir = filepath.Join(root, "runs")
	cfg.ReferencesDir = filepath.Join(root, "references")

	client := anthropic.NewClient(
		option.WithHTTPClient(&http.Client{Transport: ft}),
		option.WithAPIKey("test-key"),
	)
	b, err := benchmark.New(cfg, &client, zerolog.Nop())
	require.NoError(t, err)

	_, err = b.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no papers")
}

func TestBatchStopsOnCancelledContext(t *testing.T) {
	ft := &loopTransport{body: assistantBody(t, "PAPER_COMPLETE")}
	b, _ := newBatch(t, 2, ft)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
