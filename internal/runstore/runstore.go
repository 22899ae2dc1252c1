// Package runstore manages per-run directories and their artifacts under a
// single runs root. One run corresponds to one attempt at processing a paper.
package runstore

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewRunID returns a fresh run identifier: a timestamp plus a random suffix,
// e.g. 20260828_104500_3f9a2c1d.
func NewRunID() string {
	stamp := time.Now().Format("20060102_150405")
	suffix := fmt.Sprintf("%x", uuid.New())[:8]
	return stamp + "_" + suffix
}

// Store provides file operations confined to a runs root directory.
type Store struct {
	root string
}

// NewStore resolves root to an absolute path and returns a Store.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("abs(%s): %w", root, err)
	}
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir runs root: %w", err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute runs root.
func (s *Store) Root() string { return s.root }

// RunDir returns the directory for a run, creating it if needed.
func (s *Store) RunDir(runID string) (string, error) {
	if runID == "" || runID != filepath.Base(runID) || strings.HasPrefix(runID, ".") {
		return "", fmt.Errorf("invalid run id %q", runID)
	}
	dir := filepath.Join(s.root, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Resolve validates that path lies inside the runs root and returns its
// absolute form. Both absolute and root-relative inputs are accepted; the
// model supplies absolute paths it saw in earlier tool results.
func (s *Store) Resolve(path string) (string, error) {
	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(s.root, candidate)
	}
	candidate = filepath.Clean(candidate)

	// Best-effort symlink resolution: the leaf may not exist yet, so fall
	// back to resolving the parent and rejoining the base name.
	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else if resolvedParent, err2 := filepath.EvalSymlinks(filepath.Dir(candidate)); err2 == nil {
		candidate = filepath.Join(resolvedParent, filepath.Base(candidate))
	}

	rel, err := filepath.Rel(s.root, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("path %q resolves outside the runs root", path)
	}
	return candidate, nil
}

// WriteText writes content into the run directory, creating parents.
func (s *Store) WriteText(runID, name, content string) (string, error) {
	dir, err := s.RunDir(runID)
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return "", err
	}
	return p, nil
}

// ReadText reads up to limit characters of a file under the runs root.
// Missing files read as empty, matching the original log-reading behavior.
func (s *Store) ReadText(path string, limit int) (string, error) {
	abs, err := s.Resolve(path)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	txt := string(b)
	if limit > 0 && len(txt) > limit {
		txt = txt[:limit]
	}
	return txt, nil
}

// MergeMetadata merges fields into the run's metadata.json.
func (s *Store) MergeMetadata(runID string, data map[string]any) error {
	dir, err := s.RunDir(runID)
	if err != nil {
		return err
	}
	p := filepath.Join(dir, "metadata.json")
	existing := map[string]any{}
	if b, err := os.ReadFile(p); err == nil {
		if err := json.Unmarshal(b, &existing); err != nil {
			return fmt.Errorf("metadata.json is not an object: %w", err)
		}
	}
	for k, v := range data {
		existing[k] = v
	}
	b, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o644)
}

// Outputs lists the generated artifact file names in a run directory,
// grouped by kind. Names are sorted and collected recursively.
type Outputs struct {
	PNG  []string `json:"png"`
	CSV  []string `json:"csv"`
	Log  []string `json:"log"`
	XML  []string `json:"xml"`
	TIFF []string `json:"tiff"`
	Dot  []string `json:"dot"`
}

// ListOutputs scans the run directory for artifacts by extension.
func (s *Store) ListOutputs(runID string) (Outputs, error) {
	dir, err := s.RunDir(runID)
	if err != nil {
		return Outputs{}, err
	}
	out := Outputs{
		PNG: []string{}, CSV: []string{}, Log: []string{},
		XML: []string{}, TIFF: []string{}, Dot: []string{},
	}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		name := d.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".png":
			out.PNG = append(out.PNG, name)
		case ".csv":
			out.CSV = append(out.CSV, name)
		case ".log":
			out.Log = append(out.Log, name)
		case ".xml":
			out.XML = append(out.XML, name)
		case ".tif", ".tiff":
			out.TIFF = append(out.TIFF, name)
		case ".dot":
			out.Dot = append(out.Dot, name)
		}
		return nil
	})
	if err != nil {
		return Outputs{}, err
	}
	for _, names := range [][]string{out.PNG, out.CSV, out.Log, out.XML, out.TIFF, out.Dot} {
		sort.Strings(names)
	}
	return out, nil
}

// Exists reports whether a file exists under the run directory.
func (s *Store) Exists(runID, name string) bool {
	dir, err := s.RunDir(runID)
	if err != nil {
		return false
	}
	fi, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !fi.IsDir()
}

// Glob returns the names of files matching pattern anywhere under the run
// directory.
func (s *Store) Glob(runID, pattern string) ([]string, error) {
	dir, err := s.RunDir(runID)
	if err != nil {
		return nil, err
	}
	var names []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			names = append(names, d.Name())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
