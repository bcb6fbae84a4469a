package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/refcheck/internal/reference"
	"github.com/matsen/refcheck/internal/verify"
)

// Title truncation lengths by context
const (
	EntryTextMaxLen  = 90 // Used in extract and verify listings
	ReportTextMaxLen = 70 // Used in cache report listings
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// outputError writes an error message to stderr and returns the exit code.
func outputError(code int, format string, args ...interface{}) int {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	return code
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Count  int64  `json:"count,omitempty"`
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// formatResultHuman formats a pipeline result for human-readable output.
func formatResultHuman(result reference.Result) string {
	var sb strings.Builder
	if !result.Method.Found() {
		sb.WriteString("No reference section found\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("Heading: %s (%s)\n", displayHeading(result.Heading), result.Method))
	sb.WriteString(fmt.Sprintf("References: %d\n\n", result.Count()))
	for i, e := range result.Entries {
		sb.WriteString(fmt.Sprintf("%3d. [%s] %s\n", i+1, e.Style, truncateString(e.Original, EntryTextMaxLen)))
	}
	return sb.String()
}

// formatReportHuman formats a verification report for human-readable output.
func formatReportHuman(report verify.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Report %s (%s)\n", report.ID, report.ReportTime))
	if report.Method.Found() {
		sb.WriteString(fmt.Sprintf("Heading: %s (%s)\n", displayHeading(report.Heading), report.Method))
	} else {
		sb.WriteString("No reference section found\n")
	}
	sb.WriteString(fmt.Sprintf("References: %d\n\n", report.ReferenceCount))

	for i, r := range report.Results {
		sb.WriteString(fmt.Sprintf("%3d. %s\n", i+1, truncateString(r.Original, EntryTextMaxLen)))
		scopus := "-"
		if r.Scopus != nil {
			scopus = *r.Scopus
		}
		sb.WriteString(fmt.Sprintf("     style: %s | crossref: %s | scholar: %s | scopus: %s\n",
			r.Style, r.Crossref, r.ScholarType, scopus))
	}
	return sb.String()
}

func displayHeading(h string) string {
	if h == "" {
		return "(none)"
	}
	return h
}
