package verify

import (
	"github.com/matsen/refcheck/internal/reference"
)

// ReportTimeLayout is the format of Report.ReportTime.
const ReportTimeLayout = "2006-01-02 15:04:05"

// ScholarType is the outcome of the Google Scholar checks for one entry.
type ScholarType string

const (
	ScholarMatch      ScholarType = "match"    // Cleaned titles are equal
	ScholarSimilar    ScholarType = "similar"  // Similarity at or above the threshold
	ScholarRemedial   ScholarType = "remedial" // Found only by searching the full text
	ScholarNoResult   ScholarType = "no_result"
	ScholarError      ScholarType = "error"
	ScholarNotChecked ScholarType = "not_checked" // No Scholar searcher configured
)

// EntryReport is the verification outcome of one reference entry.
type EntryReport struct {
	Original    string             `json:"original"`
	Cleaned     string             `json:"cleaned"`
	Style       reference.StyleTag `json:"style"`
	Crossref    CrossrefStatus     `json:"crossref"`
	Scopus      *string            `json:"scopus"` // Document URL, null when not found or not checked
	ScholarType ScholarType        `json:"scholar_type"`
	ScholarURL  string             `json:"scholar_url"`
}

// Report is the verification outcome of one document.
type Report struct {
	ID             string                    `json:"id"`
	ReferenceCount int                       `json:"reference_count"`
	Heading        string                    `json:"heading"`
	Method         reference.DetectionMethod `json:"method"`
	Results        []EntryReport             `json:"results"`
	ScholarLogs    []string                  `json:"scholar_logs"`
	ReportTime     string                    `json:"report_time"`
}
