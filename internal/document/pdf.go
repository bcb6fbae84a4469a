package document

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// OpenPDF reads the paragraphs of a PDF file.
func OpenPDF(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading PDF size: %w", err)
	}
	return FromPDF(f, info.Size())
}

// FromPDF returns the lines of every page's plain text, trimmed, with empty
// lines dropped. Pages whose text cannot be decoded are skipped.
func FromPDF(r io.ReaderAt, size int64) ([]string, error) {
	text, err := extractText(r, size)
	if err != nil {
		return nil, err
	}
	return SplitLines(text), nil
}

func extractText(r io.ReaderAt, size int64) (text string, err error) {
	// The PDF parser panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("parsing PDF: %v", p)
		}
	}()

	pdfReader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("parsing PDF: %w", err)
	}

	var builder strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(pageText)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}
