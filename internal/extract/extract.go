// Package extract pulls plain text out of paper sources and infers which
// reference categories a paper is likely to need.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PaperText extracts text from a paper source. PDF files are extracted
// page-wise; pages that fail to decode are skipped. Curated .txt files are
// read as-is. An empty result is an extraction failure.
func PaperText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(string(b))
		if text == "" {
			return "", fmt.Errorf("no text in %s", path)
		}
		return text, nil
	case ".pdf":
		return pdfText(path)
	default:
		return "", fmt.Errorf("unsupported paper format: %s", path)
	}
}

func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var parts []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		parts = append(parts, text)
	}
	full := strings.TrimSpace(strings.Join(parts, "\n\n"))
	if full == "" {
		return "", fmt.Errorf("no text could be extracted from %s", path)
	}
	return full, nil
}
