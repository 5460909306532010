// Package resume extracts plain text from uploaded resume documents.
package resume

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// Extractor turns an uploaded document into resume text. The workflow core
// only ever sees the extracted text.
type Extractor interface {
	Extract(filename string, r io.Reader) (string, error)
}

// DocExtractor saves the upload under uploadsDir and extracts text with
// docconv for document formats, or reads plain text directly.
type DocExtractor struct {
	uploadsDir string
}

func NewDocExtractor(uploadsDir string) *DocExtractor {
	return &DocExtractor{uploadsDir: uploadsDir}
}

func (e *DocExtractor) Extract(filename string, r io.Reader) (string, error) {
	if err := os.MkdirAll(e.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	path := filepath.Join(e.uploadsDir, filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("save upload: %w", err)
	}
	f.Close()

	var text string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return "", fmt.Errorf("extract document text: %w", err)
		}
		text = res.Body
	case ".txt":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read text file: %w", err)
		}
		text = string(content)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text could be extracted from %s", filename)
	}
	return text, nil
}
