package runstore_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prerana17/Morpheus.AI/internal/runstore"
)

func newStore(t *testing.T) *runstore.Store {
	t.Helper()
	s, err := runstore.NewStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestNewRunID_Format(t *testing.T) {
	id := runstore.NewRunID()
	assert.Regexp(t, regexp.MustCompile(`^\d{8}_\d{6}_[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, runstore.NewRunID())
}

func TestStore_WriteReadText(t *testing.T) {
	s := newStore(t)
	p, err := s.WriteText("run1", "paper.txt", "cellular potts model")
	require.NoError(t, err)

	got, err := s.ReadText(p, 0)
	require.NoError(t, err)
	assert.Equal(t, "cellular potts model", got)

	clipped, err := s.ReadText(p, 8)
	require.NoError(t, err)
	assert.Equal(t, "cellular", clipped)
}

func TestStore_ReadText_MissingIsEmpty(t *testing.T) {
	s := newStore(t)
	_, err := s.RunDir("run1")
	require.NoError(t, err)
	got, err := s.ReadText(filepath.Join(s.Root(), "run1", "stderr.log"), 100)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_Resolve_RejectsEscapes(t *testing.T) {
	s := newStore(t)
	for _, p := range []string{"../outside.txt", "/etc/passwd", "a/../../b"} {
		_, err := s.Resolve(p)
		assert.Error(t, err, "path %q should be rejected", p)
	}
	// In-root paths resolve.
	_, err := s.Resolve("run1/model.xml")
	assert.NoError(t, err)
}

func TestStore_RunDir_RejectsBadIDs(t *testing.T) {
	s := newStore(t)
	for _, id := range []string{"", "..", "a/b", ".hidden"} {
		_, err := s.RunDir(id)
		assert.Error(t, err, "run id %q should be rejected", id)
	}
}

func TestStore_MergeMetadata(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.MergeMetadata("run1", map[string]any{"pdf": "a.pdf"}))
	require.NoError(t, s.MergeMetadata("run1", map[string]any{"status": "running"}))

	b, err := os.ReadFile(filepath.Join(s.Root(), "run1", "metadata.json"))
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "a.pdf", m["pdf"])
	assert.Equal(t, "running", m["status"])
}

func TestStore_ListOutputs(t *testing.T) {
	s := newStore(t)
	dir, err := s.RunDir("run1")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "plots"), 0o755))
	for _, name := range []string{"plots/frame_002.png", "plots/frame_001.png", "logger.csv", "stdout.log", "model.xml", "model_graph.dot"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	out, err := s.ListOutputs("run1")
	require.NoError(t, err)
	assert.Equal(t, []string{"frame_001.png", "frame_002.png"}, out.PNG)
	assert.Equal(t, []string{"logger.csv"}, out.CSV)
	assert.Equal(t, []string{"model.xml"}, out.XML)
	assert.Equal(t, []string{"model_graph.dot"}, out.Dot)
}

func TestRecord_FinalizeOnce(t *testing.T) {
	r := runstore.NewRecord("p.pdf", "/papers/p.pdf", 7)
	assert.Equal(t, runstore.StatusPending, r.Status)
	r.Finalize(runstore.StatusIncomplete)
	r.Finalize(runstore.StatusCompleted)
	assert.Equal(t, runstore.StatusIncomplete, r.Status)
	assert.True(t, r.Terminal())
}
