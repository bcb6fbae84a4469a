package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matsen/refcheck/internal/pipeline"
	"github.com/matsen/refcheck/internal/reference"
	"github.com/matsen/refcheck/internal/service"
	"github.com/matsen/refcheck/internal/verify"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New(pipeline.New(pipeline.DefaultOptions()), verify.New(), nil, nil)
	mux := http.NewServeMux()
	New(svc, nil).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func docxBytes(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`))

	body := ""
	for _, p := range paragraphs {
		body += "<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>"
	}
	w, _ = zw.Create("word/document.xml")
	w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`))

	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// upload posts data as a multipart form. An empty field name sends no file.
func upload(t *testing.T, url, field, filename string, data []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	} else {
		mw.WriteField("note", "no file here")
	}
	mw.Close()

	resp, err := http.Post(url+"/verify", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST /verify failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body["error"]
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestVerify_DOCX(t *testing.T) {
	srv := newTestServer(t)
	data := docxBytes(t, "References", "[1] Smith, J. Title one.", "[2] Doe, A. Title two.")

	resp := upload(t, srv.URL, "file", "Paper.DOCX", data)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var report verify.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if report.ReferenceCount != 2 || len(report.Results) != 2 {
		t.Errorf("ReferenceCount = %d, results = %d; want 2", report.ReferenceCount, len(report.Results))
	}
	if report.Method != reference.MethodExactHeading || report.Heading != "References" {
		t.Errorf("Method/Heading = %s/%q", report.Method, report.Heading)
	}
	if report.Results[0].Style != reference.StyleIEEE {
		t.Errorf("Style = %s, want IEEE", report.Results[0].Style)
	}
}

func TestVerify_NoReferences(t *testing.T) {
	srv := newTestServer(t)
	resp := upload(t, srv.URL, "file", "paper.docx", docxBytes(t, "Introduction", "Only prose here."))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var report verify.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.ReferenceCount != 0 || report.Method != reference.MethodNotFound {
		t.Errorf("report = %+v, want empty not_found", report)
	}
}

func TestVerify_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		field      string
		filename   string
		data       []byte
		wantStatus int
		wantError  string
	}{
		{"missing file", "", "", nil, http.StatusBadRequest, "No file uploaded"},
		{"wrong field", "upload", "paper.pdf", []byte("x"), http.StatusBadRequest, "No file uploaded"},
		{"unsupported type", "file", "notes.txt", []byte("text"), http.StatusBadRequest, "Unsupported file type"},
		{"corrupt pdf", "file", "paper.pdf", []byte("not a pdf"), http.StatusUnprocessableEntity, "Could not read document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := upload(t, srv.URL, tt.field, tt.filename, tt.data)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if got := decodeError(t, resp); got != tt.wantError {
				t.Errorf("error = %q, want %q", got, tt.wantError)
			}
		})
	}
}

func TestVerify_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/verify")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
