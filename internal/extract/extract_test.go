package extract_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prerana17/Morpheus.AI/internal/extract"
)

func TestPaperText_CuratedTxt(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "paper.txt")
	require.NoError(t, os.WriteFile(p, []byte("  cell sorting by differential adhesion  \n"), 0o644))

	text, err := extract.PaperText(p)
	require.NoError(t, err)
	assert.Equal(t, "cell sorting by differential adhesion", text)
}

func TestPaperText_EmptyTxtFails(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "paper.txt")
	require.NoError(t, os.WriteFile(p, []byte("   \n"), 0o644))

	_, err := extract.PaperText(p)
	assert.Error(t, err)
}

func TestPaperText_UnsupportedFormat(t *testing.T) {
	_, err := extract.PaperText("paper.docx")
	assert.Error(t, err)
}

func TestInferCategories(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			"cpm paper",
			"We model cell sorting with a Cellular Potts framework using adhesion energies.",
			[]string{"CPM"},
		},
		{
			"pde and ode",
			"A reaction-diffusion morphogen gradient coupled to a kinetic model.",
			[]string{"PDE", "ODE"},
		},
		{
			"no hits falls back",
			"An unrelated astronomy paper about exoplanets.",
			[]string{"Miscellaneous"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inf := extract.InferCategories(tc.text)
			assert.Equal(t, tc.want, inf.Selected)
		})
	}
}

func TestInferCategories_ScoresCountKeywords(t *testing.T) {
	inf := extract.InferCategories("adhesion and contact energy drive cell sorting")
	assert.Equal(t, 3, inf.Scores["CPM"])
	assert.Equal(t, 0, inf.Scores["ODE"])
}
