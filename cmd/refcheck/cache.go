package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/matsen/refcheck/internal/verify"
	"github.com/spf13/cobra"
)

var cacheReportsLimit int

func init() {
	cacheReportsCmd.Flags().IntVar(&cacheReportsLimit, "limit", 20, "Maximum number of reports (0 for all)")
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheReportsCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the lookup cache and report history",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached lookups and stored reports",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	cache := mustOpenCache(cfg)
	defer cache.Close()

	n, err := cache.Clear()
	if err != nil {
		exitWithError(ExitError, "clearing cache: %v", err)
	}

	if humanOutput {
		outputHuman("Cleared %d cached lookups from %s\n", n, cfg.ResolvedCachePath())
		return nil
	}
	return outputJSON(StatusResponse{Status: "cleared", Path: cfg.ResolvedCachePath(), Count: n})
}

// ReportSummary is one entry of the cache reports listing.
type ReportSummary struct {
	ID             string `json:"id"`
	CreatedAt      string `json:"created_at"`
	ReferenceCount int    `json:"reference_count"`
	Heading        string `json:"heading"`
	Method         string `json:"method"`
}

var cacheReportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List stored verification reports, newest first",
	Args:  cobra.NoArgs,
	RunE:  runCacheReports,
}

func runCacheReports(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	cache := mustOpenCache(cfg)
	defer cache.Close()

	records, err := cache.ListReports(cacheReportsLimit)
	if err != nil {
		exitWithError(ExitError, "listing reports: %v", err)
	}

	summaries := make([]ReportSummary, 0, len(records))
	for _, rec := range records {
		var report verify.Report
		if err := json.Unmarshal(rec.Data, &report); err != nil {
			// Skip records written by an incompatible version.
			continue
		}
		summaries = append(summaries, ReportSummary{
			ID:             rec.ID,
			CreatedAt:      rec.CreatedAt.Format(time.RFC3339),
			ReferenceCount: report.ReferenceCount,
			Heading:        report.Heading,
			Method:         string(report.Method),
		})
	}

	if humanOutput {
		if len(summaries) == 0 {
			outputHuman("No stored reports\n")
			return nil
		}
		for _, s := range summaries {
			outputHuman("%s  %s  %3d refs  %s\n", s.CreatedAt, s.ID,
				s.ReferenceCount, truncateString(fmt.Sprintf("%s (%s)", displayHeading(s.Heading), s.Method), ReportTextMaxLen))
		}
		return nil
	}
	return outputJSON(summaries)
}
