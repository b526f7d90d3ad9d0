// Package search implements the Tavily web-search collaborator.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the Tavily API endpoint.
const DefaultBaseURL = "https://api.tavily.com"

// temporalKeywords trigger an additional news-topic search when they appear
// in a query.
var temporalKeywords = []string{"news", "latest", "recent", "update", "current"}

// Result is one search hit.
type Result struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Snippet       string  `json:"snippet"`
	PublishedDate string  `json:"published_date,omitempty"`
	Source        string  `json:"source,omitempty"`
	Score         float64 `json:"score"`
}

// Client talks to the Tavily search API. Calls are serialized and spaced by
// a minimum interval so bursts of dispatched searches do not trip the
// provider's rate limit.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	maxResults  int
	minInterval time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	lastCall time.Time
}

// NewClient constructs a Client. An empty apiKey produces a client that
// reports itself unavailable.
func NewClient(apiKey string, maxResults int, minInterval time.Duration, logger *zap.Logger) *Client {
	if maxResults <= 0 {
		maxResults = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxResults:  maxResults,
		minInterval: minInterval,
		logger:      logger,
	}
}

// SetBaseURL overrides the API endpoint, for tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// IsAvailable reports whether the collaborator can be called. Must be
// consulted before every search.
func (c *Client) IsAvailable() bool {
	return c.apiKey != ""
}

// IsNewsQuery reports whether a query contains a temporal keyword.
func IsNewsQuery(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range temporalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Search runs a general web search and returns the hits plus the provider's
// synthesized answer when one is available.
func (c *Client) Search(ctx context.Context, query string) ([]Result, string, error) {
	return c.search(ctx, query, "")
}

// SearchNews runs a news-topic search.
func (c *Client) SearchNews(ctx context.Context, query string) ([]Result, string, error) {
	return c.search(ctx, "news "+query, "news")
}

func (c *Client) search(ctx context.Context, query, topic string) ([]Result, string, error) {
	if !c.IsAvailable() {
		return nil, "", fmt.Errorf("search unavailable: no API key configured")
	}

	c.throttle()

	body := searchRequest{
		APIKey:        c.apiKey,
		Query:         query,
		MaxResults:    c.maxResults,
		SearchDepth:   "basic",
		IncludeAnswer: true,
		Topic:         topic,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		if res.StatusCode == http.StatusTooManyRequests {
			return nil, "", fmt.Errorf("tavily: rate limit exceeded: %s", string(b))
		}
		return nil, "", fmt.Errorf("tavily: status %d: %s", res.StatusCode, string(b))
	}

	var resp searchResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}

	results := make([]Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, Result{
			Title:         r.Title,
			URL:           r.URL,
			Snippet:       r.Content,
			PublishedDate: r.PublishedDate,
			Source:        hostOf(r.URL),
			Score:         r.Score,
		})
	}

	c.logger.Debug("search completed",
		zap.String("topic", topic),
		zap.Int("results", len(results)),
	)
	return results, resp.Answer, nil
}

// throttle enforces the minimum interval between provider calls.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.minInterval > 0 && !c.lastCall.IsZero() {
		if wait := c.minInterval - time.Since(c.lastCall); wait > 0 {
			time.Sleep(wait)
		}
	}
	c.lastCall = time.Now()
}

// FormatResults renders hits as numbered plain-text blocks for prompt
// context and terminal display.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No results found."
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "Result %d:\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", r.Title)
		fmt.Fprintf(&b, "URL: %s\n", r.URL)
		fmt.Fprintf(&b, "Summary: %s\n", r.Snippet)
		if r.PublishedDate != "" {
			fmt.Fprintf(&b, "Published: %s\n", r.PublishedDate)
		}
		b.WriteString(strings.Repeat("-", 50) + "\n")
	}
	return b.String()
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

type searchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	SearchDepth   string `json:"search_depth"`
	IncludeAnswer bool   `json:"include_answer"`
	Topic         string `json:"topic,omitempty"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		PublishedDate string  `json:"published_date"`
		Score         float64 `json:"score"`
	} `json:"results"`
}
