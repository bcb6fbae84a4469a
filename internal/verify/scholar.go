package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// SerpAPIBaseURL is the SerpAPI search endpoint.
	SerpAPIBaseURL = "https://serpapi.com/search.json"

	// SerpAPIRateLimit keeps bursts well under SerpAPI's hourly quota.
	SerpAPIRateLimit = 2.0

	// ScholarSearchURL is the public Google Scholar results page.
	ScholarSearchURL = "https://scholar.google.com/scholar"

	// TitleResultCount is how many Scholar results a title search inspects.
	TitleResultCount = 3

	// RemedialResultCount is how many results a full-text search inspects.
	RemedialResultCount = 1
)

// TitleSearcher returns the titles of the top n Google Scholar results for
// a query.
type TitleSearcher interface {
	SearchTitles(ctx context.Context, query string, n int) ([]string, error)
}

// ScholarURL returns the Google Scholar results page for query.
func ScholarURL(query string) string {
	return ScholarSearchURL + "?" + url.Values{"q": {query}}.Encode()
}

// SerpAPI queries Google Scholar through SerpAPI.
type SerpAPI struct {
	client
}

// NewSerpAPI creates a SerpAPI client.
func NewSerpAPI(apiKey string, opts ...ClientOption) *SerpAPI {
	opts = append([]ClientOption{WithAPIKey(apiKey)}, opts...)
	return &SerpAPI{client: newClient(SerpAPIBaseURL, SerpAPIRateLimit, opts)}
}

// SearchTitles implements TitleSearcher.
func (s *SerpAPI) SearchTitles(ctx context.Context, query string, n int) ([]string, error) {
	if n <= 0 {
		n = TitleResultCount
	}
	if s.apiKey == "" {
		return nil, fmt.Errorf("serpapi: %w: no API key configured", ErrAuth)
	}

	params := url.Values{
		"engine":  {"google_scholar"},
		"q":       {query},
		"api_key": {s.apiKey},
		"num":     {strconv.Itoa(n)},
	}
	body, err := s.get(ctx, "serpapi", s.baseURL, params, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Error          string `json:"error"`
		OrganicResults []struct {
			Title string `json:"title"`
		} `json:"organic_results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("serpapi: %w: %v", ErrInvalidResponse, err)
	}
	if resp.Error != "" {
		// SerpAPI reports an empty result page as an error.
		if strings.Contains(resp.Error, "hasn't returned any results") {
			return []string{}, nil
		}
		return nil, &APIError{Service: "serpapi", StatusCode: 200, Message: resp.Error}
	}

	titles := make([]string, 0, len(resp.OrganicResults))
	for _, r := range resp.OrganicResults {
		titles = append(titles, r.Title)
	}
	if len(titles) > n {
		titles = titles[:n]
	}
	return titles, nil
}
