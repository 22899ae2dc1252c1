package benchmark

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover lists the paper files (*.pdf, *.txt) directly under dir, sorted
// by name and capped at maxPapers when it is positive.
func Discover(dir string, maxPapers int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("papers dir %s: %w", dir, err)
	}

	var papers []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".pdf", ".txt":
			papers = append(papers, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(papers)
	if maxPapers > 0 && len(papers) > maxPapers {
		papers = papers[:maxPapers]
	}
	return papers, nil
}
