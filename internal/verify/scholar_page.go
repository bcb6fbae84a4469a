package verify

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ScholarPageRateLimit is deliberately slow; Scholar blocks aggressive clients.
const ScholarPageRateLimit = 0.2

// ScholarPage reads result titles straight from the Google Scholar HTML page.
// It needs no API key and is used when SerpAPI is not configured.
type ScholarPage struct {
	client
}

// NewScholarPage creates a Scholar page scraper.
func NewScholarPage(opts ...ClientOption) *ScholarPage {
	return &ScholarPage{client: newClient(ScholarSearchURL, ScholarPageRateLimit, opts)}
}

// SearchTitles implements TitleSearcher.
func (s *ScholarPage) SearchTitles(ctx context.Context, query string, n int) ([]string, error) {
	if n <= 0 {
		n = TitleResultCount
	}
	params := url.Values{
		"q":   {query},
		"num": {strconv.Itoa(n)},
	}
	body, err := s.get(ctx, "scholar", s.baseURL, params, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("scholar: %w: parse document: %v", ErrInvalidResponse, err)
	}
	return parseScholarTitles(doc, n), nil
}

// parseScholarTitles extracts up to n result titles from a Scholar page.
func parseScholarTitles(doc *goquery.Document, n int) []string {
	titles := []string{}
	doc.Find("h3.gs_rt").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		t := strings.TrimSpace(h.Find("a").First().Text())
		if t == "" {
			// Citation-only results have no link; drop the "[CITATION]" badge.
			t = strings.TrimSpace(h.Clone().Find("span").Remove().End().Text())
		}
		if t != "" {
			titles = append(titles, t)
		}
		return len(titles) < n
	})
	return titles
}
