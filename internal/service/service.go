// Package service wires document reading, the reference pipeline and
// verification into the operations the CLI and HTTP server expose.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/matsen/refcheck/internal/document"
	"github.com/matsen/refcheck/internal/pipeline"
	"github.com/matsen/refcheck/internal/reference"
	"github.com/matsen/refcheck/internal/verify"
)

// ReportStore keeps a history of verification reports.
type ReportStore interface {
	SaveReport(id string, data []byte, createdAt time.Time) error
}

// Service extracts and verifies references in documents.
type Service struct {
	pipeline *pipeline.Pipeline
	verifier *verify.Verifier
	store    ReportStore
	logger   *slog.Logger
}

// New creates a Service. store and logger may be nil.
func New(p *pipeline.Pipeline, v *verify.Verifier, store ReportStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{pipeline: p, verifier: v, store: store, logger: logger}
}

// Extract reads a document and runs the reference pipeline over it.
// A document without text yields an empty not-found result.
func (s *Service) Extract(path string) (reference.Result, error) {
	paragraphs, _, err := document.FromFile(path)
	if err != nil && !errors.Is(err, document.ErrNoParagraphs) {
		return reference.Result{}, err
	}
	return s.pipeline.Run(paragraphs), nil
}

// VerifyFile extracts a document's references and verifies them.
func (s *Service) VerifyFile(ctx context.Context, path string) (verify.Report, error) {
	result, err := s.Extract(path)
	if err != nil {
		return verify.Report{}, err
	}
	return s.VerifyResult(ctx, result), nil
}

// VerifyResult verifies an extracted result and records the report.
func (s *Service) VerifyResult(ctx context.Context, result reference.Result) verify.Report {
	report := s.verifier.Verify(ctx, result)
	s.logger.Info("verified references",
		"id", report.ID,
		"count", report.ReferenceCount,
		"method", report.Method,
	)

	if s.store != nil {
		if err := s.save(report); err != nil {
			s.logger.Warn("saving report failed", "id", report.ID, "error", err)
		}
	}
	return report
}

func (s *Service) save(report verify.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return s.store.SaveReport(report.ID, data, time.Now())
}
