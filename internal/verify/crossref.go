package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

const (
	// CrossrefBaseURL is the Crossref REST API base URL.
	CrossrefBaseURL = "https://api.crossref.org"

	// CrossrefRateLimit stays under the public pool's 50 requests per second.
	CrossrefRateLimit = 20.0
)

// CrossrefStatus is the outcome of a DOI check.
type CrossrefStatus string

const (
	CrossrefFound    CrossrefStatus = "found"
	CrossrefNotFound CrossrefStatus = "not_found"
	CrossrefNoDOI    CrossrefStatus = "no_doi"
	CrossrefError    CrossrefStatus = "error"
)

// Work is the subset of a Crossref work record refcheck reads.
type Work struct {
	DOI   string   `json:"DOI"`
	Title []string `json:"title"`
	URL   string   `json:"URL"`
}

// Crossref looks DOIs up in the Crossref registry.
type Crossref struct {
	client
	mailto string
}

// NewCrossref creates a Crossref client. A non-empty mailto puts requests
// in Crossref's polite pool.
func NewCrossref(mailto string, opts ...ClientOption) *Crossref {
	return &Crossref{
		client: newClient(CrossrefBaseURL, CrossrefRateLimit, opts),
		mailto: mailto,
	}
}

// GetWork fetches the work registered under doi. A missing DOI returns an
// error satisfying IsNotFound.
func (c *Crossref) GetWork(ctx context.Context, doi string) (*Work, error) {
	var query url.Values
	if c.mailto != "" {
		query = url.Values{"mailto": {c.mailto}}
	}

	body, err := c.get(ctx, "crossref", c.baseURL+"/works/"+doi, query, nil)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Message Work `json:"message"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("crossref: %w: %v", ErrInvalidResponse, err)
	}
	return &wrapper.Message, nil
}

// CheckDOI finds the first DOI in text and reports whether Crossref knows it.
func (c *Crossref) CheckDOI(ctx context.Context, text string) (CrossrefStatus, error) {
	doi := FindDOI(text)
	if doi == "" {
		return CrossrefNoDOI, nil
	}
	_, err := c.GetWork(ctx, doi)
	switch {
	case err == nil:
		return CrossrefFound, nil
	case IsNotFound(err):
		return CrossrefNotFound, nil
	default:
		return CrossrefError, err
	}
}
