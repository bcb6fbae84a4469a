// Package document reads PDF and DOCX files into the trimmed, non-empty
// paragraphs the reference pipeline consumes.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies a supported document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
)

var (
	// ErrUnsupportedFormat indicates a file that is neither PDF nor DOCX.
	ErrUnsupportedFormat = errors.New("unsupported file type")

	// ErrNoParagraphs indicates a document without extractable text,
	// typically a scanned PDF.
	ErrNoParagraphs = errors.New("no text found in document")
)

// KindOf returns the document kind implied by a file name's extension.
func KindOf(name string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF, nil
	case ".docx":
		return KindDOCX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(name))
}

// FromFile reads the paragraphs of a PDF or DOCX file.
func FromFile(path string) ([]string, Kind, error) {
	kind, err := KindOf(path)
	if err != nil {
		return nil, "", err
	}

	var paragraphs []string
	switch kind {
	case KindPDF:
		paragraphs, err = OpenPDF(path)
	case KindDOCX:
		paragraphs, err = FromDOCX(path)
	}
	if err != nil {
		return nil, kind, err
	}
	if len(paragraphs) == 0 {
		return nil, kind, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoParagraphs)
	}
	return paragraphs, kind, nil
}

// SplitLines splits text on newlines, trims each line and drops empty ones.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
