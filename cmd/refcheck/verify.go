package main

import (
	"log/slog"
	"os"

	"github.com/matsen/refcheck/internal/config"
	"github.com/matsen/refcheck/internal/logging"
	"github.com/matsen/refcheck/internal/service"
	"github.com/matsen/refcheck/internal/storage"
	"github.com/matsen/refcheck/internal/verify"
	"github.com/spf13/cobra"
)

var (
	verifyNoCache bool
	verifyWorkers int
)

func init() {
	verifyCmd.Flags().BoolVar(&verifyNoCache, "no-cache", false, "Skip the lookup cache and report history")
	verifyCmd.Flags().IntVar(&verifyWorkers, "workers", 0, "Entries verified concurrently (default from config)")
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Extract and verify the references of a document",
	Long: `Extract the references of a PDF or DOCX document and verify each one.

Checks per reference:
  crossref  DOI lookup (found, not_found, no_doi, error)
  scopus    exact title search, requires SCOPUS_KEY (URL or null)
  scholar   Google Scholar title search (match, similar, remedial, no_result, error)

Google Scholar is searched through SerpAPI when SERPAPI_KEY is set and
through the public results page otherwise. Lookups are cached in
~/.cache/refcheck/cache.db unless --no-cache is given.

Examples:
  refcheck verify paper.pdf
  refcheck verify thesis.docx --workers 8 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := logging.New(cfg.LogLevel, os.Stderr)

	workers := cfg.Workers
	if verifyWorkers > 0 {
		workers = verifyWorkers
	}

	var store service.ReportStore
	var cache verify.Cache
	if !verifyNoCache {
		c := mustOpenCache(cfg)
		defer c.Close()
		store, cache = c, c
	}

	v := newVerifier(cfg, cache, logger, workers)
	svc := service.New(newPipeline(cfg), v, store, logger)

	report, err := svc.VerifyFile(cmd.Context(), args[0])
	if err != nil {
		exitWithError(documentExitCode(err), "reading %s: %v", args[0], err)
	}

	if humanOutput {
		outputHuman("%s", formatReportHuman(report))
		return nil
	}
	return outputJSON(report)
}

// newVerifier builds a verifier from the configured services. cache may be nil.
func newVerifier(cfg *config.GlobalConfig, cache verify.Cache, logger *slog.Logger, workers int) *verify.Verifier {
	opts := []verify.Option{
		verify.WithCrossref(verify.NewCrossref(cfg.CrossrefMailto)),
		verify.WithScholar(newScholarSearcher(cfg)),
		verify.WithWorkers(workers),
		verify.WithThreshold(cfg.SimilarityThreshold),
		verify.WithLogger(logger),
	}
	if cfg.ScopusKey != "" {
		opts = append(opts, verify.WithScopus(verify.NewScopus(cfg.ScopusKey)))
	}
	if cache != nil {
		opts = append(opts, verify.WithCache(cache))
	}
	return verify.New(opts...)
}

// newScholarSearcher prefers SerpAPI and falls back to the Scholar results page.
func newScholarSearcher(cfg *config.GlobalConfig) verify.TitleSearcher {
	if cfg.SerpAPIKey != "" {
		return verify.NewSerpAPI(cfg.SerpAPIKey)
	}
	return verify.NewScholarPage()
}

var _ verify.Cache = (*storage.Cache)(nil)
