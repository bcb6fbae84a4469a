package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// ScopusBaseURL is the Elsevier Scopus search API base URL.
	ScopusBaseURL = "https://api.elsevier.com/content/search/scopus"

	// ScopusRateLimit is the documented per-key search throttle.
	ScopusRateLimit = 6.0

	// ScopusResultCount is how many candidates a title search inspects.
	ScopusResultCount = 3

	scopusHome = "https://www.scopus.com"
)

// Scopus searches Scopus by title.
type Scopus struct {
	client
}

// NewScopus creates a Scopus client. The key is sent as X-ELS-APIKey.
func NewScopus(apiKey string, opts ...ClientOption) *Scopus {
	opts = append([]ClientOption{WithAPIKey(apiKey)}, opts...)
	return &Scopus{client: newClient(ScopusBaseURL, ScopusRateLimit, opts)}
}

// SearchTitle searches for a document whose title equals title, ignoring
// case and surrounding whitespace. It returns the document's URL, or "" when
// no candidate matches.
func (s *Scopus) SearchTitle(ctx context.Context, title string) (string, error) {
	want := strings.ToLower(strings.TrimSpace(title))
	if want == "" {
		return "", nil
	}
	if s.apiKey == "" {
		return "", fmt.Errorf("scopus: %w: no API key configured", ErrAuth)
	}

	query := url.Values{
		"query": {`TITLE("` + title + `")`},
		"count": {strconv.Itoa(ScopusResultCount)},
	}
	header := http.Header{
		"Accept":       {"application/json"},
		"X-ELS-APIKey": {s.apiKey},
	}

	body, err := s.get(ctx, "scopus", s.baseURL, query, header)
	if err != nil {
		return "", err
	}

	var resp struct {
		SearchResults struct {
			Entry []struct {
				Title string `json:"dc:title"`
				URL   string `json:"prism:url"`
			} `json:"entry"`
		} `json:"search-results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("scopus: %w: %v", ErrInvalidResponse, err)
	}

	for _, e := range resp.SearchResults.Entry {
		if strings.ToLower(strings.TrimSpace(e.Title)) == want {
			if e.URL == "" {
				return scopusHome, nil
			}
			return e.URL, nil
		}
	}
	return "", nil
}
