package toolkit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alfakih7/nova-cli-agent/internal/llm"
	"github.com/alfakih7/nova-cli-agent/internal/search"
)

func searchServer(t *testing.T, results []map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"answer":  "provider answer",
			"results": results,
		})
	}))
}

func TestWebSearchSummarizes(t *testing.T) {
	srv := searchServer(t, []map[string]interface{}{
		{"title": "Hit", "url": "https://example.com/a", "content": "body", "score": 0.8},
	})
	defer srv.Close()

	client := search.NewClient("tvly-test", 5, 0, nil)
	client.SetBaseURL(srv.URL)

	tk := withSearch(newTestToolkit(t, respond("summary of hits")), client)

	res := tk.WebSearch(context.Background(), "how do goroutines work", false)
	require.True(t, res.Success)

	outcome := res.Data.(SearchOutcome)
	require.Len(t, outcome.Results, 1)
	require.Equal(t, "provider answer", outcome.Answer)
	require.Equal(t, "summary of hits", outcome.Summary)
}

func TestWebSearchSummaryFailureTolerated(t *testing.T) {
	srv := searchServer(t, []map[string]interface{}{
		{"title": "Hit", "url": "https://example.com/a", "content": "body"},
	})
	defer srv.Close()

	client := search.NewClient("tvly-test", 5, 0, nil)
	client.SetBaseURL(srv.URL)

	tk := withSearch(newTestToolkit(t, func(ctx context.Context, req llm.ChatRequest) (llm.ChatResponse, error) {
		return llm.ChatResponse{}, errors.New("gateway down")
	}), client)

	res := tk.WebSearch(context.Background(), "query", false)
	require.True(t, res.Success)
	require.Empty(t, res.Data.(SearchOutcome).Summary)
}

func TestWebSearchEmptyResultsDeclined(t *testing.T) {
	srv := searchServer(t, nil)
	defer srv.Close()

	client := search.NewClient("tvly-test", 5, 0, nil)
	client.SetBaseURL(srv.URL)

	tk := withSearch(newTestToolkit(t, nil), client)

	res := tk.WebSearch(context.Background(), "obscure nonsense", false)
	require.False(t, res.Success)
	require.Empty(t, res.Error)
	require.Contains(t, res.Message, "No results")
}

func TestWebSearchUnavailable(t *testing.T) {
	tk := withSearch(newTestToolkit(t, nil), search.NewClient("", 5, 0, nil))

	res := tk.WebSearch(context.Background(), "anything", false)
	require.False(t, res.Success)
	require.Contains(t, res.Error, "unavailable")
}
