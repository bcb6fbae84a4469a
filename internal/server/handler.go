// Package server exposes reference verification over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/matsen/refcheck/internal/document"
	"github.com/matsen/refcheck/internal/service"
)

// DefaultMaxUpload is the largest accepted upload in bytes.
const DefaultMaxUpload = 32 << 20

// Handler serves the verification API.
type Handler struct {
	svc       *service.Service
	logger    *slog.Logger
	maxUpload int64
}

// New creates a Handler.
func New(svc *service.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{svc: svc, logger: logger, maxUpload: DefaultMaxUpload}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("POST /verify", h.verify)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// verify accepts a multipart upload in the "file" field.
func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeErr(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	kind, err := document.KindOf(header.Filename)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "Unsupported file type")
		return
	}

	path, cleanup, err := spool(file, kind)
	if err != nil {
		h.logger.Error("spooling upload failed", "error", err)
		writeErr(w, http.StatusInternalServerError, "Could not store upload")
		return
	}
	defer cleanup()

	report, err := h.svc.VerifyFile(r.Context(), path)
	if err != nil {
		h.logger.Warn("reading upload failed", "file", header.Filename, "error", err)
		writeErr(w, http.StatusUnprocessableEntity, "Could not read document")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// spool copies an upload to a temporary file with the extension its kind
// requires. The returned cleanup removes the file.
func spool(src io.Reader, kind document.Kind) (string, func(), error) {
	f, err := os.CreateTemp("", "refcheck-*."+string(kind))
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.Remove(f.Name()) }

	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return filepath.Clean(f.Name()), cleanup, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
