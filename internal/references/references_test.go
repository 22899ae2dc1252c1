package references_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prerana17/Morpheus.AI/internal/references"
)

func seedCatalog(t *testing.T) *references.Catalog {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "CPM"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "PDE"), 0o755))
	files := map[string]string{
		"CPM/CellSorting.xml":   "<MorpheusModel version=\"4\"><Analysis><Gnuplotter/></Analysis></MorpheusModel>",
		"CPM/Persistence.xml":   "<MorpheusModel version=\"4\"></MorpheusModel>",
		"CPM/notes.md":          "not listed",
		"PDE/ActivatorInhibitor.xml": "<MorpheusModel version=\"4\"/>",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}
	cat, err := references.NewCatalog(root)
	require.NoError(t, err)
	return cat
}

func TestCatalog_ListAll(t *testing.T) {
	cat := seedCatalog(t)
	got, err := cat.List("")
	require.NoError(t, err)
	assert.Equal(t, []string{"CellSorting.xml", "Persistence.xml"}, got["CPM"])
	assert.Equal(t, []string{"ActivatorInhibitor.xml"}, got["PDE"])
	// Missing category directories are omitted, not errors.
	_, ok := got["ODE"]
	assert.False(t, ok)
}

func TestCatalog_ListUnknownCategory(t *testing.T) {
	cat := seedCatalog(t)
	_, err := cat.List("Quantum")
	assert.Error(t, err)
}

func TestCatalog_ReadBounded(t *testing.T) {
	cat := seedCatalog(t)
	text, err := cat.Read("CPM", "CellSorting.xml", 14)
	require.NoError(t, err)
	assert.Equal(t, "<MorpheusModel", text)
}

func TestCatalog_ReadRejectsTraversal(t *testing.T) {
	cat := seedCatalog(t)
	_, err := cat.Read("CPM", "../PDE/ActivatorInhibitor.xml", 0)
	assert.Error(t, err)
	_, err = cat.Read("CPM", "Missing.xml", 0)
	assert.Error(t, err)
}
