package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/ewanmcc/guardian-bot/internal/domain"
	"github.com/ewanmcc/guardian-bot/internal/guardian"
	"github.com/ewanmcc/guardian-bot/internal/metrics"
)

func newSearchServer(t *testing.T, body string, capture *url.Values) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = r.URL.Query()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
}

func newGuardianClient(t *testing.T, baseURL string) *guardian.Client {
	t.Helper()
	return guardian.New(guardian.Config{APIKey: "test-key", BaseURL: baseURL}, zap.NewNop())
}

const searchBody = `{
	"response": {
		"status": "ok",
		"total": 2,
		"pages": 1,
		"currentPage": 1,
		"results": [
			{
				"id": "politics/2024/jan/01/first",
				"webTitle": "First story",
				"webUrl": "https://www.theguardian.com/politics/2024/jan/01/first",
				"sectionName": "Politics",
				"webPublicationDate": "2024-01-01T10:00:00Z",
				"fields": {"byline": "A Reporter", "trailText": "What happened first"}
			},
			{
				"id": "politics/2024/jan/02/second",
				"webTitle": "Second story",
				"webUrl": "https://www.theguardian.com/politics/2024/jan/02/second"
			}
		]
	}
}`

func TestSearchService_Search(t *testing.T) {
	var captured url.Values
	server := newSearchServer(t, searchBody, &captured)
	defer server.Close()

	svc := NewSearchService(newGuardianClient(t, server.URL), zap.NewNop(), nil, SearchConfig{})

	page, err := svc.Search(context.Background(), domain.SearchParams{
		Query:   "election",
		Section: "politics",
		OrderBy: "newest",
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
	if len(page.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(page.Items))
	}

	first := page.Items[0]
	if first.Title != "First story" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Byline != "A Reporter" {
		t.Errorf("Byline = %q", first.Byline)
	}
	if first.Published == nil {
		t.Error("Published is nil")
	}

	second := page.Items[1]
	if second.Byline != "" || second.TrailText != "" {
		t.Errorf("sparse result got fields: byline=%q trail=%q", second.Byline, second.TrailText)
	}

	if got := captured.Get("section"); got != "politics" {
		t.Errorf("section param = %q", got)
	}
	if got := captured.Get("order-by"); got != "newest" {
		t.Errorf("order-by param = %q", got)
	}
	if got := captured.Get("page-size"); got != "10" {
		t.Errorf("page-size param = %q, want default 10", got)
	}
}

func TestSearchService_DateRange(t *testing.T) {
	var captured url.Values
	server := newSearchServer(t, searchBody, &captured)
	defer server.Close()

	svc := NewSearchService(newGuardianClient(t, server.URL), zap.NewNop(), nil, SearchConfig{})

	_, err := svc.Search(context.Background(), domain.SearchParams{
		Query: "election",
		From:  &domain.Date{Year: 2024, Month: 1, Day: 1},
		To:    &domain.Date{Year: 2024, Month: 6, Day: 30},
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if got := captured.Get("from-date"); got != "2024-01-01" {
		t.Errorf("from-date = %q", got)
	}
	if got := captured.Get("to-date"); got != "2024-06-30" {
		t.Errorf("to-date = %q", got)
	}
}

func TestSearchService_EmptyQuery(t *testing.T) {
	svc := NewSearchService(newGuardianClient(t, "http://unused"), zap.NewNop(), nil, SearchConfig{})

	_, err := svc.Search(context.Background(), domain.SearchParams{Query: "  "})
	if !errors.Is(err, domain.ErrEmptyQuery) {
		t.Errorf("error = %v, want ErrEmptyQuery", err)
	}
}

func TestSearchService_NoResults(t *testing.T) {
	server := newSearchServer(t, `{"response":{"status":"ok","total":0,"results":[]}}`, nil)
	defer server.Close()

	svc := NewSearchService(newGuardianClient(t, server.URL), zap.NewNop(), nil, SearchConfig{})

	_, err := svc.Search(context.Background(), domain.SearchParams{Query: "xyzzy"})
	if !errors.Is(err, domain.ErrNoResults) {
		t.Errorf("error = %v, want ErrNoResults", err)
	}
}

func TestSearchService_RequestsInFlightGauge(t *testing.T) {
	m := metrics.NewWith(prometheus.NewRegistry())

	var duringRequest float64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		duringRequest = testutil.ToFloat64(m.RequestsInFlight)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	svc := NewSearchService(newGuardianClient(t, server.URL), zap.NewNop(), m, SearchConfig{})

	if _, err := svc.Search(context.Background(), domain.SearchParams{Query: "election"}); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if duringRequest != 1 {
		t.Errorf("in-flight gauge during request = %v, want 1", duringRequest)
	}
	if after := testutil.ToFloat64(m.RequestsInFlight); after != 0 {
		t.Errorf("in-flight gauge after request = %v, want 0", after)
	}
}

func TestSearchService_APIErrorPassedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"response":{"status":"error","message":"Invalid authentication credentials"}}`))
	}))
	defer server.Close()

	svc := NewSearchService(newGuardianClient(t, server.URL), zap.NewNop(), nil, SearchConfig{})

	_, err := svc.Search(context.Background(), domain.SearchParams{Query: "election"})
	var apiErr *guardian.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *guardian.APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", apiErr.StatusCode)
	}
}
