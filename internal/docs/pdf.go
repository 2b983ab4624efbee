// Package docs extracts plain text from uploaded study material: PDF and
// plain-text files, and web pages fetched by URL.
package docs

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF returns the plain text content of a PDF document.
func ExtractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// ExtractText returns the text for a stored upload based on its extension.
// PDFs go through the PDF extractor; everything else is treated as UTF-8
// plain text.
func ExtractText(filename string, data []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return ExtractPDF(data)
	}
	return strings.TrimSpace(string(data)), nil
}

// SanitizeFilename reduces name to a safe basename: alphanumerics, dashes,
// underscores, and dots survive; everything else is dropped. An empty
// result becomes "output".
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	var sb strings.Builder
	for _, ch := range name {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '-' || ch == '_' || ch == '.' {
			sb.WriteRune(ch)
		}
	}
	safe := sb.String()
	if safe == "" || strings.Trim(safe, ".") == "" {
		return "output"
	}
	return safe
}

// SaveUpload writes an uploaded file under dir with a sanitized name and
// returns the stored name.
func SaveUpload(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}
	safe := SanitizeFilename(name)
	if err := os.WriteFile(filepath.Join(dir, safe), data, 0o644); err != nil {
		return "", fmt.Errorf("saving upload %s: %w", safe, err)
	}
	return safe, nil
}
