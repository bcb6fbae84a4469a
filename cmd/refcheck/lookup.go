package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/refcheck/internal/verify"
	"github.com/spf13/cobra"
)

var lookupScholarLimit int

func init() {
	lookupScholarCmd.Flags().IntVar(&lookupScholarLimit, "limit", verify.TitleResultCount, "Maximum number of result titles")
	lookupCmd.AddCommand(lookupDOICmd)
	lookupCmd.AddCommand(lookupScopusCmd)
	lookupCmd.AddCommand(lookupScholarCmd)
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Query a single verification service directly",
	Long: `Query a single verification service directly, bypassing the cache.

Exit codes:
  1  not found or API error
  4  missing or rejected API key`,
}

// lookupExecute runs fn with a timeout and prints its result, mapping
// service errors to exit codes.
func lookupExecute(fn func(ctx context.Context) (any, error), human func(any) string) {
	ctx, cancel := context.WithTimeout(context.Background(), verify.DefaultTimeout)
	defer cancel()

	result, err := fn(ctx)
	if err != nil {
		os.Exit(lookupOutputError(err))
	}
	if humanOutput {
		outputHuman("%s", human(result))
		return
	}
	outputJSON(result)
}

// lookupOutputError outputs a service error and returns the exit code.
func lookupOutputError(err error) int {
	code := ExitError
	errCode := "api_error"
	switch {
	case verify.IsNotFound(err):
		errCode = "not_found"
	case verify.IsAuthError(err):
		code = ExitAuthError
		errCode = "auth_error"
	case verify.IsRateLimited(err):
		errCode = "rate_limited"
	}

	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
	} else {
		outputJSON(map[string]any{
			"error": map[string]string{"code": errCode, "message": err.Error()},
		})
	}
	return code
}

var lookupDOICmd = &cobra.Command{
	Use:   "doi <doi-or-text>",
	Short: "Fetch the Crossref record of a DOI",
	Long: `Fetch the Crossref record of a DOI. The DOI may be embedded in a longer
reference text.

Examples:
  refcheck lookup doi 10.1093/sysbio/syy032
  refcheck lookup doi "Smith, J. (2019). Title. doi:10.1038/nature12373."`,
	Args: cobra.MinimumNArgs(1),
	Run:  runLookupDOI,
}

func runLookupDOI(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	doi := verify.FindDOI(strings.Join(args, " "))
	if doi == "" {
		exitWithError(ExitError, "no DOI found in %q", strings.Join(args, " "))
	}

	client := verify.NewCrossref(cfg.CrossrefMailto)
	lookupExecute(
		func(ctx context.Context) (any, error) {
			return client.GetWork(ctx, doi)
		},
		func(v any) string {
			w := v.(*verify.Work)
			return fmt.Sprintf("%s\n  %s\n  %s\n", w.DOI, strings.Join(w.Title, " "), w.URL)
		},
	)
}

var lookupScopusCmd = &cobra.Command{
	Use:   "scopus <title>",
	Short: "Search Scopus for a document with exactly this title",
	Long: `Search Scopus for a document with exactly this title. Requires SCOPUS_KEY.

Examples:
  refcheck lookup scopus "Deep learning"`,
	Args: cobra.MinimumNArgs(1),
	Run:  runLookupScopus,
}

// ScopusLookupResponse is the response for the lookup scopus command.
type ScopusLookupResponse struct {
	Title string  `json:"title"`
	URL   *string `json:"url"`
}

func runLookupScopus(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	query := strings.Join(args, " ")
	client := verify.NewScopus(cfg.ScopusKey)

	lookupExecute(
		func(ctx context.Context) (any, error) {
			u, err := client.SearchTitle(ctx, query)
			if err != nil {
				return nil, err
			}
			resp := ScopusLookupResponse{Title: query}
			if u != "" {
				resp.URL = &u
			}
			return resp, nil
		},
		func(v any) string {
			r := v.(ScopusLookupResponse)
			if r.URL == nil {
				return "No exact title match\n"
			}
			return *r.URL + "\n"
		},
	)
}

var lookupScholarCmd = &cobra.Command{
	Use:   "scholar <query>",
	Short: "Search Google Scholar and print the result titles",
	Long: `Search Google Scholar and print the result titles. Uses SerpAPI when
SERPAPI_KEY is set and the public results page otherwise.

Examples:
  refcheck lookup scholar "Deep learning" --limit 5`,
	Args: cobra.MinimumNArgs(1),
	Run:  runLookupScholar,
}

// ScholarLookupResponse is the response for the lookup scholar command.
type ScholarLookupResponse struct {
	Query  string   `json:"query"`
	URL    string   `json:"url"`
	Titles []string `json:"titles"`
}

func runLookupScholar(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	query := strings.Join(args, " ")
	searcher := newScholarSearcher(cfg)

	lookupExecute(
		func(ctx context.Context) (any, error) {
			titles, err := searcher.SearchTitles(ctx, query, lookupScholarLimit)
			if err != nil {
				return nil, err
			}
			if titles == nil {
				titles = []string{}
			}
			return ScholarLookupResponse{Query: query, URL: verify.ScholarURL(query), Titles: titles}, nil
		},
		func(v any) string {
			r := v.(ScholarLookupResponse)
			if len(r.Titles) == 0 {
				return "No results\n"
			}
			var sb strings.Builder
			for i, t := range r.Titles {
				sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, t))
			}
			return sb.String()
		},
	)
}
