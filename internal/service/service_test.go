package service

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matsen/refcheck/internal/document"
	"github.com/matsen/refcheck/internal/pipeline"
	"github.com/matsen/refcheck/internal/reference"
	"github.com/matsen/refcheck/internal/verify"
)

type memStore struct {
	mu      sync.Mutex
	reports map[string][]byte
}

func (m *memStore) SaveReport(id string, data []byte, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reports == nil {
		m.reports = make(map[string][]byte)
	}
	m.reports[id] = data
	return nil
}

func writeDOCX(t *testing.T, paragraphs ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "paper.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}

	zw := zip.NewWriter(f)
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`))
	w, _ = zw.Create("word/document.xml")
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract(t *testing.T) {
	path := writeDOCX(t, "Introduction", "References", "[1] Smith, J. Title one.", "[2] Doe, A. Title two.")
	svc := New(pipeline.New(pipeline.DefaultOptions()), verify.New(), nil, nil)

	result, err := svc.Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if result.Count() != 2 {
		t.Errorf("Count = %d, want 2", result.Count())
	}
	if result.Method != reference.MethodExactHeading {
		t.Errorf("Method = %s, want %s", result.Method, reference.MethodExactHeading)
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	path := writeDOCX(t, " ")
	svc := New(pipeline.New(pipeline.DefaultOptions()), verify.New(), nil, nil)

	result, err := svc.Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if result.Count() != 0 || result.Method != reference.MethodNotFound {
		t.Errorf("result = %+v, want empty not_found", result)
	}
}

func TestExtract_Unsupported(t *testing.T) {
	svc := New(pipeline.New(pipeline.DefaultOptions()), verify.New(), nil, nil)

	_, err := svc.Extract("notes.txt")
	if !errors.Is(err, document.ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestVerifyFile_SavesReport(t *testing.T) {
	path := writeDOCX(t, "Bibliography", "Smith, J. (2019). Deep learning.", "Doe, A. (2020). Protein folding.")
	store := &memStore{}
	svc := New(pipeline.New(pipeline.DefaultOptions()), verify.New(), store, nil)

	report, err := svc.VerifyFile(context.Background(), path)
	if err != nil {
		t.Fatalf("VerifyFile failed: %v", err)
	}
	if report.ReferenceCount != 2 {
		t.Errorf("ReferenceCount = %d, want 2", report.ReferenceCount)
	}

	data, ok := store.reports[report.ID]
	if !ok {
		t.Fatalf("report %s not saved", report.ID)
	}
	var saved verify.Report
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("saved report is not JSON: %v", err)
	}
	if saved.ID != report.ID || saved.ReferenceCount != 2 {
		t.Errorf("saved = %+v", saved)
	}
}
