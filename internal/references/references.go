// Package references exposes the read-only catalog of Morpheus example
// models the agent grounds its generated XML in.
package references

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Categories are the known reference groupings, in listing order.
var Categories = []string{"CPM", "PDE", "ODE", "Multiscale", "Miscellaneous"}

// Catalog is a filesystem-backed reference store rooted at a directory with
// one subdirectory per category.
type Catalog struct {
	root string
}

// NewCatalog returns a Catalog rooted at root. The directory does not have to
// exist; missing categories simply list as absent.
func NewCatalog(root string) (*Catalog, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("abs(%s): %w", root, err)
	}
	return &Catalog{root: abs}, nil
}

func (c *Catalog) categoryDir(category string) (string, error) {
	for _, known := range Categories {
		if category == known {
			return filepath.Join(c.root, category), nil
		}
	}
	return "", fmt.Errorf("unknown category: %s (valid: %s)", category, strings.Join(Categories, ", "))
}

// List returns available reference names grouped by category. With an empty
// category every known category is listed; categories whose directory is
// missing are omitted. Only .xml and .txt entries are included.
func (c *Catalog) List(category string) (map[string][]string, error) {
	cats := Categories
	if category != "" {
		if _, err := c.categoryDir(category); err != nil {
			return nil, err
		}
		cats = []string{category}
	}

	out := map[string][]string{}
	for _, cat := range cats {
		entries, err := os.ReadDir(filepath.Join(c.root, cat))
		if err != nil {
			continue
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch filepath.Ext(e.Name()) {
			case ".xml", ".txt":
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		out[cat] = names
	}
	return out, nil
}

// Read returns up to maxChars of a reference file. The name must resolve to a
// regular file directly inside the category directory; traversal outside it
// is rejected.
func (c *Catalog) Read(category, name string, maxChars int) (string, error) {
	dir, err := c.categoryDir(category)
	if err != nil {
		return "", err
	}
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid reference name: %s", name)
	}
	p := filepath.Join(dir, name)
	fi, err := os.Stat(p)
	if err != nil || fi.IsDir() {
		return "", fmt.Errorf("reference not found: %s/%s", category, name)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	text := string(b)
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return text, nil
}
