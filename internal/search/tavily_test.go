package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "tvly-test", req.APIKey)
		require.Equal(t, "go generics", req.Query)
		require.Equal(t, 3, req.MaxResults)
		require.True(t, req.IncludeAnswer)
		require.Empty(t, req.Topic)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"answer": "short answer",
			"results": []map[string]interface{}{
				{"title": "Go Generics", "url": "https://go.dev/blog/intro-generics", "content": "intro", "score": 0.9},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("tvly-test", 3, 0, nil)
	c.SetBaseURL(srv.URL)

	results, answer, err := c.Search(context.Background(), "go generics")
	require.NoError(t, err)
	require.Equal(t, "short answer", answer)
	require.Len(t, results, 1)
	require.Equal(t, "go.dev", results[0].Source)
	require.Equal(t, "intro", results[0].Snippet)
}

func TestSearchNewsPrefixesQueryAndTopic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "news go 1.23 release", req.Query)
		require.Equal(t, "news", req.Topic)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"results": []interface{}{}})
	}))
	defer srv.Close()

	c := NewClient("tvly-test", 5, 0, nil)
	c.SetBaseURL(srv.URL)

	_, _, err := c.SearchNews(context.Background(), "go 1.23 release")
	require.NoError(t, err)
}

func TestSearchUnavailableWithoutKey(t *testing.T) {
	c := NewClient("", 5, 0, nil)
	require.False(t, c.IsAvailable())

	_, _, err := c.Search(context.Background(), "anything")
	require.Error(t, err)
}

func TestSearchRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("tvly-test", 5, 0, nil)
	c.SetBaseURL(srv.URL)

	_, _, err := c.Search(context.Background(), "q")
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limit")
}

func TestThrottleSpacesCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"results": []interface{}{}})
	}))
	defer srv.Close()

	c := NewClient("tvly-test", 5, 100*time.Millisecond, nil)
	c.SetBaseURL(srv.URL)

	start := time.Now()
	_, _, err := c.Search(context.Background(), "one")
	require.NoError(t, err)
	_, _, err = c.Search(context.Background(), "two")
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestIsNewsQuery(t *testing.T) {
	require.True(t, IsNewsQuery("latest go release"))
	require.True(t, IsNewsQuery("News about generics"))
	require.False(t, IsNewsQuery("how do channels work"))
}

func TestFormatResults(t *testing.T) {
	out := FormatResults([]Result{
		{Title: "A", URL: "https://a.example", Snippet: "first", PublishedDate: "2026-01-01"},
		{Title: "B", URL: "https://b.example", Snippet: "second"},
	})
	require.Contains(t, out, "Result 1:")
	require.Contains(t, out, "Result 2:")
	require.Contains(t, out, "Published: 2026-01-01")

	require.Equal(t, "No results found.", FormatResults(nil))
}
