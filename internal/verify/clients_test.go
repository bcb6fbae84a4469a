package verify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestCrossref_CheckDOI(t *testing.T) {
	var gotMailto string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMailto = r.URL.Query().Get("mailto")
		switch r.URL.Path {
		case "/works/10.1234/found":
			fmt.Fprint(w, `{"status":"ok","message":{"DOI":"10.1234/found","title":["A Title"],"URL":"https://doi.org/10.1234/found"}}`)
		case "/works/10.1234/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewCrossref("ops@example.org", WithBaseURL(srv.URL), WithRateLimit(0))

	tests := []struct {
		name    string
		text    string
		want    CrossrefStatus
		wantErr bool
	}{
		{"found", "Smith. Title. doi:10.1234/found.", CrossrefFound, false},
		{"not found", "Smith. Title. doi:10.1234/missing", CrossrefNotFound, false},
		{"no doi", "Smith. Title without identifier.", CrossrefNoDOI, false},
		{"server error", "Smith. doi:10.1234/broken", CrossrefError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.CheckDOI(context.Background(), tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckDOI error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CheckDOI = %s, want %s", got, tt.want)
			}
		})
	}

	if gotMailto != "ops@example.org" {
		t.Errorf("mailto = %q, want %q", gotMailto, "ops@example.org")
	}
}

func TestCrossref_GetWork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"message":{"DOI":"10.1234/x","title":["Deep Learning"],"URL":"https://doi.org/10.1234/x"}}`)
	}))
	defer srv.Close()

	work, err := NewCrossref("", WithBaseURL(srv.URL)).GetWork(context.Background(), "10.1234/x")
	if err != nil {
		t.Fatalf("GetWork failed: %v", err)
	}
	if len(work.Title) != 1 || work.Title[0] != "Deep Learning" {
		t.Errorf("Title = %v, want [Deep Learning]", work.Title)
	}
	if work.URL != "https://doi.org/10.1234/x" {
		t.Errorf("URL = %q", work.URL)
	}
}

func TestCrossref_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer srv.Close()

	_, err := NewCrossref("", WithBaseURL(srv.URL)).GetWork(context.Background(), "10.1234/x")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("error = %v, want ErrInvalidResponse", err)
	}
}

func TestScopus_SearchTitle(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("X-ELS-APIKey") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if got := r.URL.Query().Get("count"); got != "3" {
			t.Errorf("count = %q, want 3", got)
		}
		switch r.URL.Query().Get("query") {
		case `TITLE("deep learning")`:
			fmt.Fprint(w, `{"search-results":{"entry":[
				{"dc:title":"Deep learning for genomics","prism:url":"https://api.elsevier.com/1"},
				{"dc:title":" DEEP LEARNING ","prism:url":"https://api.elsevier.com/2"}
			]}}`)
		case `TITLE("no url")`:
			fmt.Fprint(w, `{"search-results":{"entry":[{"dc:title":"No URL"}]}}`)
		default:
			fmt.Fprint(w, `{"search-results":{"entry":[{"error":"Result set was empty"}]}}`)
		}
	}))
	defer srv.Close()

	s := NewScopus("secret", WithBaseURL(srv.URL), WithRateLimit(0))
	ctx := context.Background()

	tests := []struct {
		title string
		want  string
	}{
		{"deep learning", "https://api.elsevier.com/2"},
		{"no url", scopusHome},
		{"unknown paper", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got, err := s.SearchTitle(ctx, tt.title)
			if err != nil {
				t.Fatalf("SearchTitle failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("SearchTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}

	before := requests
	if got, err := s.SearchTitle(ctx, "   "); err != nil || got != "" {
		t.Errorf("SearchTitle(blank) = %q, %v; want empty, nil", got, err)
	}
	if requests != before {
		t.Error("blank title issued a request")
	}
}

func TestScopus_Auth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewScopus("wrong", WithBaseURL(srv.URL)).SearchTitle(context.Background(), "x")
	if !IsAuthError(err) {
		t.Errorf("error = %v, want auth error", err)
	}

	_, err = NewScopus("", WithBaseURL(srv.URL)).SearchTitle(context.Background(), "x")
	if !IsAuthError(err) {
		t.Errorf("missing key error = %v, want auth error", err)
	}
}

func TestSerpAPI_SearchTitles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("engine") != "google_scholar" || q.Get("api_key") != "k" {
			t.Errorf("unexpected query %v", q)
		}
		switch q.Get("q") {
		case "deep learning":
			if q.Get("num") != "3" {
				t.Errorf("num = %q, want 3", q.Get("num"))
			}
			fmt.Fprint(w, `{"organic_results":[{"title":"Deep learning"},{"title":"Deep learning in biology"},{"title":"Other"},{"title":"Extra"}]}`)
		case "nothing":
			fmt.Fprint(w, `{"error":"Google hasn't returned any results for this query."}`)
		case "limited":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			fmt.Fprint(w, `{"error":"Invalid API key."}`)
		}
	}))
	defer srv.Close()

	s := NewSerpAPI("k", WithBaseURL(srv.URL), WithRateLimit(0))
	ctx := context.Background()

	got, err := s.SearchTitles(ctx, "deep learning", 3)
	if err != nil {
		t.Fatalf("SearchTitles failed: %v", err)
	}
	want := []string{"Deep learning", "Deep learning in biology", "Other"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SearchTitles = %q, want %q", got, want)
	}

	got, err = s.SearchTitles(ctx, "nothing", 3)
	if err != nil || len(got) != 0 {
		t.Errorf("empty search = %q, %v; want no titles, nil", got, err)
	}

	if _, err = s.SearchTitles(ctx, "limited", 3); !IsRateLimited(err) {
		t.Errorf("error = %v, want rate limited", err)
	}

	_, err = s.SearchTitles(ctx, "bad", 3)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Service != "serpapi" {
		t.Errorf("error = %v, want serpapi APIError", err)
	}
}

func TestSerpAPI_NoKey(t *testing.T) {
	_, err := NewSerpAPI("").SearchTitles(context.Background(), "x", 3)
	if !IsAuthError(err) {
		t.Errorf("error = %v, want auth error", err)
	}
}

const scholarHTML = `<html><body>
<div class="gs_r"><h3 class="gs_rt"><span class="gs_ctc"><span class="gs_ct1">[PDF]</span></span> <a href="/a">Deep learning</a></h3></div>
<div class="gs_r"><h3 class="gs_rt"><span class="gs_ct1">[CITATION]</span> Attention is all you need</h3></div>
<div class="gs_r"><h3 class="gs_rt"><a href="/c">Third result</a></h3></div>
</body></html>`

func TestScholarPage_SearchTitles(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, scholarHTML)
	}))
	defer srv.Close()

	s := NewScholarPage(WithBaseURL(srv.URL), WithRateLimit(0))

	got, err := s.SearchTitles(context.Background(), "deep learning", 2)
	if err != nil {
		t.Fatalf("SearchTitles failed: %v", err)
	}
	want := []string{"Deep learning", "Attention is all you need"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SearchTitles = %q, want %q", got, want)
	}
	if gotQuery != "deep learning" {
		t.Errorf("q = %q, want %q", gotQuery, "deep learning")
	}

	all, err := s.SearchTitles(context.Background(), "deep learning", 10)
	if err != nil {
		t.Fatalf("SearchTitles failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d titles, want 3", len(all))
	}
}

func TestScholarURL(t *testing.T) {
	got := ScholarURL("deep learning & more")
	if !strings.HasPrefix(got, ScholarSearchURL+"?q=") {
		t.Errorf("ScholarURL = %q", got)
	}
	if strings.Contains(got, " ") || strings.Contains(got, "& ") {
		t.Errorf("ScholarURL not escaped: %q", got)
	}
}

func TestCheckHTTPErrors(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusUnauthorized, IsAuthError},
		{http.StatusForbidden, IsAuthError},
		{http.StatusTooManyRequests, IsRateLimited},
		{http.StatusNotFound, IsNotFound},
	}
	for _, tt := range tests {
		err := checkHTTPErrors("svc", &http.Response{StatusCode: tt.status})
		if !tt.check(err) {
			t.Errorf("status %d: error %v not classified", tt.status, err)
		}
	}

	err := checkHTTPErrors("svc", &http.Response{StatusCode: http.StatusBadGateway})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("502 error = %v, want APIError", err)
	}
	if checkHTTPErrors("svc", &http.Response{StatusCode: http.StatusOK}) != nil {
		t.Error("200 returned an error")
	}
}
