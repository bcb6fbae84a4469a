// Package main provides the refcheck CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/matsen/refcheck/internal/config"
	"github.com/matsen/refcheck/internal/pipeline"
	"github.com/matsen/refcheck/internal/storage"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors (unknown flags, bad args) are printed here.
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refcheck",
	Short: "Extract and verify the references of academic documents",
	Long: `refcheck finds the reference section of a PDF or DOCX document, splits it
into individual references and verifies each one against Crossref, Scopus
and Google Scholar.

API keys are read from ~/.config/refcheck/config.yml, the environment or a
.env file in the working directory:
  SERPAPI_KEY      Google Scholar searches via SerpAPI (optional)
  SCOPUS_KEY       Scopus title searches (optional)
  CROSSREF_MAILTO  Contact address for the Crossref polite pool (optional)

All commands output JSON by default. Use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustLoadConfig loads the global configuration, exits on error.
func mustLoadConfig() *config.GlobalConfig {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenCache opens the lookup cache, exits on error.
// The caller is responsible for calling Close() on the returned cache.
func mustOpenCache(cfg *config.GlobalConfig) *storage.Cache {
	cache, err := storage.OpenCache(cfg.ResolvedCachePath())
	if err != nil {
		exitWithError(ExitError, "opening cache: %v", err)
	}
	return cache
}

// newPipeline builds a pipeline from the configured options.
func newPipeline(cfg *config.GlobalConfig) *pipeline.Pipeline {
	return pipeline.New(cfg.PipelineOptions())
}

// documentExitCode maps document errors to exit codes.
func documentExitCode(err error) int {
	if errors.Is(err, os.ErrNotExist) {
		return ExitError
	}
	return ExitDataError
}
