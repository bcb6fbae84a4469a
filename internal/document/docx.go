package document

import (
	"fmt"

	"github.com/tsawler/tabula/docx"
)

// FromDOCX reads the paragraphs of a DOCX file, trimmed, with empty
// paragraphs dropped.
func FromDOCX(path string) ([]string, error) {
	r, err := docx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOCX: %w", err)
	}
	defer r.Close()

	text, err := r.Text()
	if err != nil {
		return nil, fmt.Errorf("reading DOCX text: %w", err)
	}
	return SplitLines(text), nil
}
