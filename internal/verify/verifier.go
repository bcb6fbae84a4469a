// Package verify checks extracted references against external bibliographic
// services: Crossref by DOI, Scopus by exact title, and Google Scholar by
// title similarity with a full-text fallback.
//
// Service failures never fail a verification; they show up as an "error"
// status on the affected entry and are logged.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matsen/refcheck/internal/reference"
	"github.com/matsen/refcheck/internal/storage"
	"github.com/matsen/refcheck/internal/title"
)

// DefaultWorkers is the default number of entries verified concurrently.
const DefaultWorkers = 4

// CrossrefNotChecked marks entries verified without a Crossref client.
const CrossrefNotChecked CrossrefStatus = "not_checked"

// Cache service names.
const (
	cacheCrossref = "crossref"
	cacheScopus   = "scopus"
	cacheTitle    = "scholar_title"
	cacheRemedial = "scholar_remedial"
)

// DOIChecker reports whether the DOI found in a reference is registered.
type DOIChecker interface {
	CheckDOI(ctx context.Context, text string) (CrossrefStatus, error)
}

// TitleLookup finds a document by exact title and returns its URL.
type TitleLookup interface {
	SearchTitle(ctx context.Context, title string) (string, error)
}

// Cache stores lookup answers between runs.
type Cache interface {
	GetLookup(service, key string) (storage.Lookup, bool, error)
	PutLookup(l storage.Lookup) error
}

// Verifier verifies every entry of a pipeline result.
type Verifier struct {
	crossref  DOIChecker
	scopus    TitleLookup
	scholar   TitleSearcher
	cache     Cache
	workers   int
	threshold float64
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithCrossref sets the DOI checker.
func WithCrossref(c DOIChecker) Option {
	return func(v *Verifier) {
		v.crossref = c
	}
}

// WithScopus sets the exact-title lookup.
func WithScopus(s TitleLookup) Option {
	return func(v *Verifier) {
		v.scopus = s
	}
}

// WithScholar sets the Google Scholar searcher.
func WithScholar(s TitleSearcher) Option {
	return func(v *Verifier) {
		v.scholar = s
	}
}

// WithCache sets the lookup cache.
func WithCache(c Cache) Option {
	return func(v *Verifier) {
		v.cache = c
	}
}

// WithWorkers sets how many entries are verified concurrently.
func WithWorkers(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.workers = n
		}
	}
}

// WithThreshold sets the title similarity threshold.
func WithThreshold(t float64) Option {
	return func(v *Verifier) {
		if t > 0 && t <= 1 {
			v.threshold = t
		}
	}
}

// WithLogger sets the logger for service failures.
func WithLogger(l *slog.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithClock sets the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

// New creates a Verifier. Services that are not configured are skipped.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		workers:   DefaultWorkers,
		threshold: title.SimilarThreshold,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks every entry of result and assembles a report. Entries are
// verified concurrently; the report keeps their order.
func (v *Verifier) Verify(ctx context.Context, result reference.Result) Report {
	entries := result.Entries
	reports := make([]EntryReport, len(entries))
	logs := make([]string, len(entries))

	// Semaphore for bounded concurrency
	sem := make(chan struct{}, v.workers)
	var wg sync.WaitGroup

	for i := range entries {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			// Each goroutine writes to its own index.
			reports[idx], logs[idx] = v.verifyEntry(ctx, entries[idx])
		}(i)
	}
	wg.Wait()

	return Report{
		ID:             uuid.NewString(),
		ReferenceCount: len(reports),
		Heading:        result.Heading,
		Method:         result.Method,
		Results:        reports,
		ScholarLogs:    logs,
		ReportTime:     v.now().Format(ReportTimeLayout),
	}
}

func (v *Verifier) verifyEntry(ctx context.Context, e reference.Entry) (EntryReport, string) {
	query := e.CleanedTitle
	if query == "" {
		query = e.Original
	}

	r := EntryReport{
		Original:    e.Original,
		Cleaned:     e.CleanedTitle,
		Style:       e.Style,
		Crossref:    v.checkCrossref(ctx, e.Original),
		Scopus:      v.checkScopus(ctx, e.CleanedTitle),
		ScholarType: v.checkScholar(ctx, e),
		ScholarURL:  ScholarURL(query),
	}
	return r, fmt.Sprintf("%s: %s", r.ScholarType, e.CleanedTitle)
}

func (v *Verifier) checkCrossref(ctx context.Context, text string) CrossrefStatus {
	if v.crossref == nil {
		return CrossrefNotChecked
	}
	doi := FindDOI(text)
	if doi == "" {
		return CrossrefNoDOI
	}
	if val, ok := v.cached(cacheCrossref, doi); ok {
		return CrossrefStatus(val)
	}

	status, err := v.crossref.CheckDOI(ctx, text)
	if err != nil {
		v.logger.Warn("crossref lookup failed", "doi", doi, "error", err)
		return CrossrefError
	}
	v.store(cacheCrossref, doi, string(status))
	return status
}

func (v *Verifier) checkScopus(ctx context.Context, cleaned string) *string {
	if v.scopus == nil || cleaned == "" {
		return nil
	}

	u, ok := v.cached(cacheScopus, cleaned)
	if !ok {
		var err error
		u, err = v.scopus.SearchTitle(ctx, cleaned)
		if err != nil {
			v.logger.Warn("scopus lookup failed", "title", cleaned, "error", err)
			return nil
		}
		v.store(cacheScopus, cleaned, u)
	}

	if u == "" {
		return nil
	}
	return &u
}

func (v *Verifier) checkScholar(ctx context.Context, e reference.Entry) ScholarType {
	if v.scholar == nil {
		return ScholarNotChecked
	}
	if e.CleanedTitle == "" {
		return ScholarNoResult
	}

	titles, err := v.searchTitles(ctx, cacheTitle, e.CleanedTitle, TitleResultCount)
	if err != nil {
		v.logger.Warn("scholar title search failed", "title", e.CleanedTitle, "error", err)
		return ScholarError
	}
	if t := MatchTitles(e.CleanedTitle, titles, v.threshold); t != ScholarNoResult {
		return t
	}

	titles, err = v.searchTitles(ctx, cacheRemedial, e.Original, RemedialResultCount)
	if err != nil {
		v.logger.Warn("scholar remedial search failed", "error", err)
		return ScholarNoResult
	}
	if MatchRemedial(e.Original, titles) {
		return ScholarRemedial
	}
	return ScholarNoResult
}

// searchTitles runs a Scholar search through the cache.
func (v *Verifier) searchTitles(ctx context.Context, service, query string, n int) ([]string, error) {
	if val, ok := v.cached(service, query); ok {
		var titles []string
		if err := json.Unmarshal([]byte(val), &titles); err == nil {
			return titles, nil
		}
	}

	titles, err := v.scholar.SearchTitles(ctx, query, n)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(titles); err == nil {
		v.store(service, query, string(data))
	}
	return titles, nil
}

func (v *Verifier) cached(service, key string) (string, bool) {
	if v.cache == nil {
		return "", false
	}
	l, ok, err := v.cache.GetLookup(service, key)
	if err != nil {
		v.logger.Warn("cache read failed", "service", service, "error", err)
		return "", false
	}
	return l.Value, ok
}

func (v *Verifier) store(service, key, value string) {
	if v.cache == nil {
		return
	}
	err := v.cache.PutLookup(storage.Lookup{Service: service, Key: key, Value: value, FetchedAt: v.now()})
	if err != nil {
		v.logger.Warn("cache write failed", "service", service, "error", err)
	}
}
